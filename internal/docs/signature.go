package docs

import (
	"fmt"
	"strings"

	"github.com/jcdickinson/soldoc/internal/abi"
)

// FunctionKey returns the devdoc/userdoc key of a function: the ABI
// signature with any ":(returns)" suffix removed.
func FunctionKey(fn abi.Entry) string {
	sig, _, _ := strings.Cut(fn.Signature(), ":")
	return sig
}

// EventKey returns the devdoc/userdoc key of an event.
func EventKey(ev abi.Entry) string {
	return typeListKey(ev)
}

// ErrorKey returns the devdoc/userdoc key of a custom error.
func ErrorKey(e abi.Entry) string {
	return typeListKey(e)
}

func typeListKey(e abi.Entry) string {
	types := make([]string, len(e.Inputs))
	for i, p := range e.Inputs {
		types[i] = p.Canonical()
	}
	return fmt.Sprintf("%s(%s)", e.Name, strings.Join(types, ","))
}
