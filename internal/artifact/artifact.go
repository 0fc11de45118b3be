// Package artifact models the subset of solc standard-JSON output that soldoc
// consumes: per-file contracts with their ABI and NatSpec documentation.
package artifact

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/jcdickinson/soldoc/internal/abi"
)

var (
	// ErrNoContracts is returned when the output has no contracts container at all.
	ErrNoContracts = errors.New("compiler output has no contracts")
	// ErrMissingABI is returned when a contract was emitted without an ABI.
	ErrMissingABI = errors.New("contract has no ABI")
	// ErrCompilation is returned when the compiler reported error diagnostics.
	ErrCompilation = errors.New("compilation failed")
)

// Output is the compiler's standard-JSON output.
type Output struct {
	Errors    []Diagnostic                   `json:"errors,omitempty"`
	Contracts map[string]map[string]Contract `json:"contracts"`
}

// Diagnostic is a compiler error or warning.
type Diagnostic struct {
	Severity         string `json:"severity"`
	Type             string `json:"type,omitempty"`
	Message          string `json:"message"`
	FormattedMessage string `json:"formattedMessage,omitempty"`
}

// Contract is one compiled contract. ABI is nil when the compiler did not
// emit one; missing devdoc/userdoc decode to empty records.
type Contract struct {
	ABI     *abi.ABI `json:"abi"`
	DevDoc  DevDoc   `json:"devdoc"`
	UserDoc UserDoc  `json:"userdoc"`
}

// DevDoc is the developer-facing NatSpec of a contract.
type DevDoc struct {
	Title   *string                  `json:"title,omitempty"`
	Details *string                  `json:"details,omitempty"`
	Author  *string                  `json:"author,omitempty"`
	Methods map[string]MethodDevDoc  `json:"methods,omitempty"`
	Events  map[string]EventDevDoc   `json:"events,omitempty"`
	Errors  map[string][]ErrorDevDoc `json:"errors,omitempty"`
}

// MethodDevDoc documents one function signature.
type MethodDevDoc struct {
	Details *string           `json:"details,omitempty"`
	Params  map[string]string `json:"params,omitempty"`
	Returns map[string]string `json:"returns,omitempty"`
}

// EventDevDoc documents one event signature.
type EventDevDoc struct {
	Details *string           `json:"details,omitempty"`
	Params  map[string]string `json:"params,omitempty"`
}

// ErrorDevDoc documents one error declaration.
type ErrorDevDoc struct {
	Details *string           `json:"details,omitempty"`
	Params  map[string]string `json:"params,omitempty"`
}

// UserDoc is the user-facing NatSpec of a contract.
type UserDoc struct {
	Notice  *string             `json:"notice,omitempty"`
	Methods map[string]Notice   `json:"methods,omitempty"`
	Events  map[string]Notice   `json:"events,omitempty"`
	Errors  map[string][]Notice `json:"errors,omitempty"`
}

// NoticeKind tags which of the two userdoc shapes a Notice was decoded from.
type NoticeKind int

const (
	// PlainNotice is the {"notice": "..."} object form.
	PlainNotice NoticeKind = iota
	// ConstructorNotice is the bare string form older compilers emit for constructors.
	ConstructorNotice
)

// Notice is a userdoc entry. Both shapes carry the same text.
type Notice struct {
	Kind NoticeKind
	text string
}

// NewNotice returns a Notice of the given kind.
func NewNotice(kind NoticeKind, text string) Notice {
	return Notice{Kind: kind, text: text}
}

// Text returns the notice text regardless of the shape it was decoded from.
func (n Notice) Text() string { return n.text }

func (n *Notice) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = NewNotice(ConstructorNotice, s)
		return nil
	}
	var obj struct {
		Notice string `json:"notice"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("decoding notice: %w", err)
	}
	*n = NewNotice(PlainNotice, obj.Notice)
	return nil
}

func (n Notice) MarshalJSON() ([]byte, error) {
	if n.Kind == ConstructorNotice {
		return json.Marshal(n.text)
	}
	return json.Marshal(struct {
		Notice string `json:"notice"`
	}{n.text})
}

// Triple is a contract together with its source file and name.
type Triple struct {
	File     string
	Name     string
	Contract *Contract
}

// ContractsWithFiles flattens the output into (file, name, contract) triples
// ordered by file, then contract name.
func (o *Output) ContractsWithFiles() []Triple {
	files := make([]string, 0, len(o.Contracts))
	for f := range o.Contracts {
		files = append(files, f)
	}
	sort.Strings(files)

	var out []Triple
	for _, f := range files {
		contracts := o.Contracts[f]
		names := make([]string, 0, len(contracts))
		for n := range contracts {
			names = append(names, n)
		}
		sort.Strings(names)
		for _, n := range names {
			c := contracts[n]
			out = append(out, Triple{File: f, Name: n, Contract: &c})
		}
	}
	return out
}

// Validate reports structural problems that make the output unusable: error
// diagnostics or a missing contracts container. Contracts without an ABI are
// only a problem for the files being documented, so they are not checked here.
func (o *Output) Validate() error {
	var msgs []string
	for _, d := range o.Errors {
		if d.Severity == "error" {
			msg := d.FormattedMessage
			if msg == "" {
				msg = d.Message
			}
			msgs = append(msgs, msg)
		}
	}
	if len(msgs) > 0 {
		return fmt.Errorf("%w: %s", ErrCompilation, msgs[0])
	}
	if o.Contracts == nil {
		return ErrNoContracts
	}
	return nil
}
