package docs

import (
	"fmt"
	"strings"

	"github.com/jcdickinson/soldoc/internal/abi"
)

// Placeholder is used for unnamed parameters and missing parameter descriptions.
const Placeholder = "-"

// ParamDoc is a parameter joined with its NatSpec description.
type ParamDoc struct {
	Name         string
	Type         string
	InternalType *string
	Indexed      *bool // events only
	Doc          string
}

func (p ParamDoc) String() string {
	if p.Name == Placeholder {
		return p.Type
	}
	return p.Type + " " + p.Name
}

// MethodDoc documents one function declaration.
type MethodDoc struct {
	Name            string
	Details         *string
	Notice          *string
	StateMutability abi.StateMutability
	Params          []ParamDoc
	Returns         []ParamDoc
}

func (m MethodDoc) String() string {
	returns := ""
	if len(m.Returns) > 0 {
		returns = fmt.Sprintf(" returns (%s)", joinParams(m.Returns))
	}
	return fmt.Sprintf("function %s(%s) external %s%s", m.Name, joinParams(m.Params), m.StateMutability, returns)
}

// EventDoc documents one event declaration.
type EventDoc struct {
	Name    string
	Details *string
	Notice  *string
	Params  []ParamDoc
}

func (e EventDoc) String() string {
	return fmt.Sprintf("event %s(%s)", e.Name, joinParams(e.Params))
}

// ErrorDoc documents one error declaration.
type ErrorDoc struct {
	Name    string
	Details *string
	Notice  *string
	Params  []ParamDoc
}

func (e ErrorDoc) String() string {
	return fmt.Sprintf("error %s(%s)", e.Name, joinParams(e.Params))
}

func joinParams(params []ParamDoc) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.String()
	}
	return strings.Join(parts, ", ")
}

// ContractDoc combines a contract's ABI, devdoc and userdoc. Members are
// keyed by name; overloads stay in ABI declaration order within a key.
type ContractDoc struct {
	Name    string
	Title   *string
	Details *string
	Notice  *string
	Author  *string
	Methods map[string][]MethodDoc
	Events  map[string][]EventDoc
	Errors  map[string][]ErrorDoc
}

// FileDoc is one generated document: the contracts declared in a source
// file, named by the file's path relative to the source root without its
// extension.
type FileDoc struct {
	Name      string
	Contracts []ContractDoc
}
