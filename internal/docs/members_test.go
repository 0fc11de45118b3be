package docs

import (
	"testing"

	"github.com/jcdickinson/soldoc/internal/abi"
	"github.com/jcdickinson/soldoc/internal/artifact"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestSignatureKeys(t *testing.T) {
	t.Parallel()

	fn := abi.Entry{
		Type:    abi.KindFunction,
		Name:    "swap",
		Inputs:  []abi.Param{{Type: "tuple", Components: []abi.Param{{Type: "address"}, {Type: "uint256"}}}, {Type: "bytes"}},
		Outputs: []abi.Param{{Type: "uint256"}},
	}
	assert.Equal(t, "swap((address,uint256),bytes)", FunctionKey(fn))
	assert.Equal(t, FunctionKey(fn), FunctionKey(fn), "keys are deterministic")

	ev := abi.Entry{Type: abi.KindEvent, Name: "Paused"}
	assert.Equal(t, "Paused()", EventKey(ev))

	e := abi.Entry{Type: abi.KindError, Name: "TooLow", Inputs: []abi.Param{{Name: "min", Type: "uint8[]"}}}
	assert.Equal(t, "TooLow(uint8[])", ErrorKey(e))
}

func TestBuildMethods_NoAnnotations(t *testing.T) {
	t.Parallel()

	a := abi.ABI{{
		Type:            abi.KindFunction,
		Name:            "get",
		Inputs:          []abi.Param{{Name: "id", Type: "uint256"}, {Name: "", Type: "bool"}},
		Outputs:         []abi.Param{{Name: "", Type: "string"}},
		StateMutability: abi.View,
	}}

	methods := buildMethods(a, &artifact.DevDoc{}, &artifact.UserDoc{})
	require.Len(t, methods["get"], 1)
	m := methods["get"][0]

	assert.Nil(t, m.Details)
	assert.Nil(t, m.Notice)
	assert.Equal(t, abi.View, m.StateMutability)
	for _, p := range append(m.Params, m.Returns...) {
		assert.Equal(t, Placeholder, p.Doc)
	}
	assert.Equal(t, "id", m.Params[0].Name)
	assert.Equal(t, Placeholder, m.Params[1].Name)
	assert.Equal(t, "function get(uint256 id, bool) external view returns (string)", m.String())
}

func TestBuildMethods_Annotated(t *testing.T) {
	t.Parallel()

	a := abi.ABI{{
		Type:            abi.KindFunction,
		Name:            "transfer",
		Inputs:          []abi.Param{{Name: "to", Type: "address", InternalType: "address"}, {Name: "amount", Type: "uint256"}},
		Outputs:         []abi.Param{{Name: "ok", Type: "bool"}},
		StateMutability: abi.NonPayable,
	}}
	dev := &artifact.DevDoc{Methods: map[string]artifact.MethodDevDoc{
		"transfer(address,uint256)": {
			Details: strPtr("Moves tokens"),
			Params:  map[string]string{"to": "recipient"},
			Returns: map[string]string{"ok": "success flag"},
		},
	}}
	user := &artifact.UserDoc{Methods: map[string]artifact.Notice{
		"transfer(address,uint256)": artifact.NewNotice(artifact.PlainNotice, "Send tokens"),
	}}

	m := buildMethods(a, dev, user)["transfer"][0]
	require.NotNil(t, m.Details)
	assert.Equal(t, "Moves tokens", *m.Details)
	require.NotNil(t, m.Notice)
	assert.Equal(t, "Send tokens", *m.Notice)
	assert.Equal(t, "recipient", m.Params[0].Doc)
	require.NotNil(t, m.Params[0].InternalType)
	assert.Equal(t, "address", *m.Params[0].InternalType)
	assert.Nil(t, m.Params[1].InternalType)
	assert.Equal(t, Placeholder, m.Params[1].Doc)
	assert.Equal(t, "success flag", m.Returns[0].Doc)
}

func TestBuildMethods_ConstructorNoticeUnwrapped(t *testing.T) {
	t.Parallel()

	a := abi.ABI{{Type: abi.KindFunction, Name: "f", StateMutability: abi.Pure}}
	user := &artifact.UserDoc{Methods: map[string]artifact.Notice{
		"f()": artifact.NewNotice(artifact.ConstructorNotice, "bare string"),
	}}

	m := buildMethods(a, &artifact.DevDoc{}, user)["f"][0]
	require.NotNil(t, m.Notice)
	assert.Equal(t, "bare string", *m.Notice)
}

func TestBuildMethods_OverloadsKeptInOrder(t *testing.T) {
	t.Parallel()

	a := abi.ABI{
		{Type: abi.KindFunction, Name: "mint", Inputs: []abi.Param{{Name: "to", Type: "address"}}, StateMutability: abi.NonPayable},
		{Type: abi.KindFunction, Name: "burn", StateMutability: abi.NonPayable},
		{Type: abi.KindFunction, Name: "mint", Inputs: []abi.Param{{Name: "to", Type: "address"}, {Name: "n", Type: "uint256"}}, StateMutability: abi.Payable},
	}
	dev := &artifact.DevDoc{Methods: map[string]artifact.MethodDevDoc{
		"mint(address,uint256)": {Details: strPtr("batch")},
	}}

	methods := buildMethods(a, dev, &artifact.UserDoc{})
	require.Len(t, methods["mint"], 2)
	assert.Len(t, methods["mint"][0].Params, 1)
	assert.Nil(t, methods["mint"][0].Details)
	assert.Len(t, methods["mint"][1].Params, 2)
	assert.Equal(t, "batch", *methods["mint"][1].Details)
	assert.Len(t, methods["burn"], 1)
}

func TestBuildEvents(t *testing.T) {
	t.Parallel()

	a := abi.ABI{{
		Type: abi.KindEvent,
		Name: "Transfer",
		Inputs: []abi.Param{
			{Name: "from", Type: "address", Indexed: true, InternalType: "address"},
			{Name: "value", Type: "uint256"},
		},
	}}
	dev := &artifact.DevDoc{Events: map[string]artifact.EventDevDoc{
		"Transfer(address,uint256)": {Details: strPtr("emitted on move"), Params: map[string]string{"value": "amount"}},
	}}
	user := &artifact.UserDoc{Events: map[string]artifact.Notice{
		"Transfer(address,uint256)": artifact.NewNotice(artifact.PlainNotice, "Tokens moved"),
	}}

	ev := buildEvents(a, dev, user)["Transfer"][0]
	assert.Equal(t, "emitted on move", *ev.Details)
	assert.Equal(t, "Tokens moved", *ev.Notice)
	require.Len(t, ev.Params, 2)
	assert.Nil(t, ev.Params[0].InternalType, "event params carry no internal type")
	require.NotNil(t, ev.Params[0].Indexed)
	assert.True(t, *ev.Params[0].Indexed)
	assert.False(t, *ev.Params[1].Indexed)
	assert.Equal(t, Placeholder, ev.Params[0].Doc)
	assert.Equal(t, "amount", ev.Params[1].Doc)
	assert.Equal(t, "event Transfer(address from, uint256 value)", ev.String())
}

func TestBuildErrors(t *testing.T) {
	t.Parallel()

	a := abi.ABI{
		{Type: abi.KindError, Name: "Unauthorized", Inputs: []abi.Param{{Name: "who", Type: "address"}}},
		{Type: abi.KindError, Name: "Undocumented"},
	}

	t.Run("paired_by_index", func(t *testing.T) {
		dev := &artifact.DevDoc{Errors: map[string][]artifact.ErrorDevDoc{
			"Unauthorized(address)": {
				{Details: strPtr("from Ownable"), Params: map[string]string{"who": "caller"}},
				{Details: strPtr("from Roles")},
			},
		}}
		user := &artifact.UserDoc{Errors: map[string][]artifact.Notice{
			"Unauthorized(address)": {
				artifact.NewNotice(artifact.PlainNotice, "not the owner"),
				artifact.NewNotice(artifact.PlainNotice, "missing role"),
			},
		}}

		errs, err := buildErrors(a, dev, user)
		require.NoError(t, err)
		require.Len(t, errs["Unauthorized"], 2)
		assert.Equal(t, "from Ownable", *errs["Unauthorized"][0].Details)
		assert.Equal(t, "not the owner", *errs["Unauthorized"][0].Notice)
		assert.Equal(t, "caller", errs["Unauthorized"][0].Params[0].Doc)
		assert.Equal(t, "from Roles", *errs["Unauthorized"][1].Details)
		assert.Equal(t, "missing role", *errs["Unauthorized"][1].Notice)
		assert.Equal(t, Placeholder, errs["Unauthorized"][1].Params[0].Doc)
		assert.NotContains(t, errs, "Undocumented", "declarations without devdoc are skipped")
	})

	t.Run("length_mismatch", func(t *testing.T) {
		dev := &artifact.DevDoc{Errors: map[string][]artifact.ErrorDevDoc{
			"Unauthorized(address)": {{}, {}},
		}}
		user := &artifact.UserDoc{Errors: map[string][]artifact.Notice{
			"Unauthorized(address)": {artifact.NewNotice(artifact.PlainNotice, "x")},
		}}

		_, err := buildErrors(a, dev, user)
		require.ErrorIs(t, err, ErrAnnotationMismatch)
		assert.Contains(t, err.Error(), "Unauthorized(address)")
	})

	t.Run("userdoc_only", func(t *testing.T) {
		user := &artifact.UserDoc{Errors: map[string][]artifact.Notice{
			"Unauthorized(address)": {artifact.NewNotice(artifact.PlainNotice, "x")},
		}}

		errs, err := buildErrors(a, &artifact.DevDoc{}, user)
		require.NoError(t, err)
		assert.Empty(t, errs)
	})

	t.Run("devdoc_only", func(t *testing.T) {
		dev := &artifact.DevDoc{Errors: map[string][]artifact.ErrorDevDoc{
			"Unauthorized(address)": {{Details: strPtr("d")}},
		}}

		errs, err := buildErrors(a, dev, &artifact.UserDoc{})
		require.NoError(t, err)
		require.Len(t, errs["Unauthorized"], 1)
		assert.Nil(t, errs["Unauthorized"][0].Notice)
	})
}

func TestNewContractDoc(t *testing.T) {
	t.Parallel()

	a := abi.ABI{{Type: abi.KindFunction, Name: "f", StateMutability: abi.View}}
	c := &artifact.Contract{
		ABI:     &a,
		DevDoc:  artifact.DevDoc{Title: strPtr("T"), Author: strPtr("me")},
		UserDoc: artifact.UserDoc{Notice: strPtr("hello")},
	}

	doc, err := NewContractDoc("C", c)
	require.NoError(t, err)
	assert.Equal(t, "C", doc.Name)
	assert.Equal(t, "T", *doc.Title)
	assert.Nil(t, doc.Details)
	assert.Equal(t, "hello", *doc.Notice)
	assert.Equal(t, "me", *doc.Author)
	assert.Len(t, doc.Methods["f"], 1)
	assert.Empty(t, doc.Events)
	assert.Empty(t, doc.Errors)

	_, err = NewContractDoc("C", &artifact.Contract{})
	assert.ErrorIs(t, err, artifact.ErrMissingABI)
}
