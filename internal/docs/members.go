package docs

import (
	"errors"
	"fmt"

	"github.com/jcdickinson/soldoc/internal/abi"
	"github.com/jcdickinson/soldoc/internal/artifact"
)

// ErrAnnotationMismatch is returned when the devdoc and userdoc lists for an
// error signature have different lengths and cannot be paired by index.
var ErrAnnotationMismatch = errors.New("devdoc and userdoc error lists differ in length")

func buildMethods(a abi.ABI, dev *artifact.DevDoc, user *artifact.UserDoc) map[string][]MethodDoc {
	methods := make(map[string][]MethodDoc)
	for _, fn := range a.Functions() {
		key := FunctionKey(fn)
		fnDev := dev.Methods[key]
		var notice *string
		if n, ok := user.Methods[key]; ok {
			notice = noticeText(n)
		}
		methods[fn.Name] = append(methods[fn.Name], MethodDoc{
			Name:            fn.Name,
			Details:         fnDev.Details,
			Notice:          notice,
			StateMutability: fn.StateMutability,
			Params:          resolveParams(fn.Inputs, fnDev.Params),
			Returns:         resolveParams(fn.Outputs, fnDev.Returns),
		})
	}
	return methods
}

func buildEvents(a abi.ABI, dev *artifact.DevDoc, user *artifact.UserDoc) map[string][]EventDoc {
	events := make(map[string][]EventDoc)
	for _, ev := range a.Events() {
		key := EventKey(ev)
		evDev := dev.Events[key]
		var notice *string
		if n, ok := user.Events[key]; ok {
			notice = noticeText(n)
		}
		events[ev.Name] = append(events[ev.Name], EventDoc{
			Name:    ev.Name,
			Details: evDev.Details,
			Notice:  notice,
			Params:  resolveEventParams(ev.Inputs, evDev.Params),
		})
	}
	return events
}

// buildErrors pairs the i-th devdoc record of a signature with the i-th
// userdoc record. Declarations without devdoc records produce no entries;
// devdoc records without any userdoc records get no notice.
func buildErrors(a abi.ABI, dev *artifact.DevDoc, user *artifact.UserDoc) (map[string][]ErrorDoc, error) {
	errs := make(map[string][]ErrorDoc)
	for _, e := range a.Errors() {
		key := ErrorKey(e)
		devDocs := dev.Errors[key]
		userDocs := user.Errors[key]
		if len(devDocs) > 0 && len(userDocs) > 0 && len(userDocs) != len(devDocs) {
			return nil, fmt.Errorf("%w: %s (%d devdoc, %d userdoc)", ErrAnnotationMismatch, key, len(devDocs), len(userDocs))
		}
		for i, d := range devDocs {
			var notice *string
			if len(userDocs) > 0 {
				notice = noticeText(userDocs[i])
			}
			errs[e.Name] = append(errs[e.Name], ErrorDoc{
				Name:    e.Name,
				Details: d.Details,
				Notice:  notice,
				Params:  resolveParams(e.Inputs, d.Params),
			})
		}
	}
	return errs, nil
}

// resolveParams looks descriptions up by the declared name verbatim.
func resolveParams(params []abi.Param, docs map[string]string) []ParamDoc {
	out := make([]ParamDoc, len(params))
	for i, p := range params {
		out[i] = ParamDoc{
			Name:         paramName(p.Name),
			Type:         p.Canonical(),
			InternalType: optional(p.InternalType),
			Doc:          paramDoc(p.Name, docs),
		}
	}
	return out
}

func resolveEventParams(params []abi.Param, docs map[string]string) []ParamDoc {
	out := make([]ParamDoc, len(params))
	for i, p := range params {
		indexed := p.Indexed
		out[i] = ParamDoc{
			Name:    paramName(p.Name),
			Type:    p.Canonical(),
			Indexed: &indexed,
			Doc:     paramDoc(p.Name, docs),
		}
	}
	return out
}

func paramName(name string) string {
	if name == "" {
		return Placeholder
	}
	return name
}

func paramDoc(name string, docs map[string]string) string {
	if d, ok := docs[name]; ok {
		return d
	}
	return Placeholder
}

func noticeText(n artifact.Notice) *string {
	text := n.Text()
	return &text
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
