package abi

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Entry kinds as reported in the "type" field of a JSON ABI entry.
const (
	KindFunction    = "function"
	KindEvent       = "event"
	KindError       = "error"
	KindConstructor = "constructor"
	KindFallback    = "fallback"
	KindReceive     = "receive"
)

// StateMutability is the mutability tag of a function.
type StateMutability string

const (
	Pure       StateMutability = "pure"
	View       StateMutability = "view"
	NonPayable StateMutability = "nonpayable"
	Payable    StateMutability = "payable"
)

// Param is a single input or output of an ABI entry.
type Param struct {
	Name         string  `json:"name"`
	Type         string  `json:"type"`
	InternalType string  `json:"internalType,omitempty"`
	Indexed      bool    `json:"indexed,omitempty"`
	Components   []Param `json:"components,omitempty"`
}

// Canonical renders the canonical ABI type of the parameter. Tuples are
// expanded to their component types and keep any array suffix, so
// "tuple[2][]" with components (uint256, address) becomes "(uint256,address)[2][]".
func (p Param) Canonical() string {
	if !strings.HasPrefix(p.Type, "tuple") {
		return p.Type
	}
	suffix := strings.TrimPrefix(p.Type, "tuple")
	return "(" + joinCanonical(p.Components) + ")" + suffix
}

func joinCanonical(params []Param) string {
	types := make([]string, len(params))
	for i, p := range params {
		types[i] = p.Canonical()
	}
	return strings.Join(types, ",")
}

// Entry is one element of a contract's JSON ABI.
type Entry struct {
	Type            string          `json:"type"`
	Name            string          `json:"name"`
	Inputs          []Param         `json:"inputs"`
	Outputs         []Param         `json:"outputs,omitempty"`
	StateMutability StateMutability `json:"stateMutability,omitempty"`
	Anonymous       bool            `json:"anonymous,omitempty"`
}

// UnmarshalJSON fills in the defaults of the ABI specification: a missing
// "type" means function, and pre-0.4.16 compilers report mutability through
// the "constant" and "payable" booleans instead of "stateMutability".
func (e *Entry) UnmarshalJSON(data []byte) error {
	type entry Entry
	var raw struct {
		entry
		Constant *bool `json:"constant"`
		Payable  *bool `json:"payable"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*e = Entry(raw.entry)
	if e.Type == "" {
		e.Type = KindFunction
	}
	if e.Type == KindFunction && e.StateMutability == "" {
		switch {
		case raw.Constant != nil && *raw.Constant:
			e.StateMutability = View
		case raw.Payable != nil && *raw.Payable:
			e.StateMutability = Payable
		default:
			e.StateMutability = NonPayable
		}
	}
	return nil
}

// Signature returns name(inputs) using canonical types. For functions with
// outputs the return types are appended after a colon, e.g.
// "balanceOf(address):(uint256)".
func (e Entry) Signature() string {
	sig := fmt.Sprintf("%s(%s)", e.Name, joinCanonical(e.Inputs))
	if e.Type == KindFunction && len(e.Outputs) > 0 {
		sig += fmt.Sprintf(":(%s)", joinCanonical(e.Outputs))
	}
	return sig
}

// ABI is a contract interface in declaration order.
type ABI []Entry

// Functions returns the function entries in declaration order.
func (a ABI) Functions() []Entry { return a.filter(KindFunction) }

// Events returns the event entries in declaration order.
func (a ABI) Events() []Entry { return a.filter(KindEvent) }

// Errors returns the custom error entries in declaration order.
func (a ABI) Errors() []Entry { return a.filter(KindError) }

func (a ABI) filter(kind string) []Entry {
	var out []Entry
	for _, e := range a {
		if e.Type == kind {
			out = append(out, e)
		}
	}
	return out
}
