package ir

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonical(t *testing.T) {
	tests := []struct {
		name     string
		program  Program
		expected string
	}{
		{
			"empty",
			NewProgram(),
			`{"instructions":[],"version":"1"}`,
		},
		{
			"int and add",
			NewProgram(PushInt(1), PushInt(2), Add{}),
			`{"instructions":[{"op":"PUSH_LITERAL","value":{"int":1}},{"op":"PUSH_LITERAL","value":{"int":2}},{"op":"ADD"}],"version":"1"}`,
		},
		{
			"float as string",
			NewProgram(PushFloat(2.5), PushFloat(3)),
			`{"instructions":[{"op":"PUSH_LITERAL","value":{"float":"2.5"}},{"op":"PUSH_LITERAL","value":{"float":"3.0"}}],"version":"1"}`,
		},
		{
			"min int64",
			NewProgram(PushInt(-9223372036854775808)),
			`{"instructions":[{"op":"PUSH_LITERAL","value":{"int":-9223372036854775808}}],"version":"1"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := MarshalCanonical(tt.program)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(result))
		})
	}
}

func TestMarshalCanonical_IntAndFloatDiffer(t *testing.T) {
	a, err := MarshalCanonical(NewProgram(PushInt(1)))
	require.NoError(t, err)
	b, err := MarshalCanonical(NewProgram(PushFloat(1)))
	require.NoError(t, err)
	assert.NotEqual(t, string(a), string(b))
}

func TestMarshalCanonical_Errors(t *testing.T) {
	_, err := MarshalCanonical(NewProgram(PushInt(1), nil))
	assert.EqualError(t, err, "instruction 1: nil instruction")

	_, err = MarshalCanonical(NewProgram(PushLiteral{}))
	assert.EqualError(t, err, "instruction 0: PUSH_LITERAL without a value")
}

func TestMarshalCanonicalString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", "ADD", `"ADD"`},
		{"no html escaping", "<a&b>", `"<a&b>"`},
		{"nfc", "cafe\u0301", "\"caf\u00e9\""},
		{"line separator literal", "a\u2028b", "\"a\u2028b\""},
		{"escaped backslash kept", `a\u2028`, `"a\\u2028"`},
		{"control escaped", "a\nb", `"a\nb"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := marshalCanonicalString(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(result))
		})
	}
}

func TestCompareKeysUTF16(t *testing.T) {
	// U+1F600 sorts after U+FF61 byte-wise but before it in UTF-16 code units.
	assert.Equal(t, -1, compareKeysUTF16("\U0001F600", "\uff61"))
	assert.Equal(t, -1, compareKeysUTF16("a", "b"))
	assert.Equal(t, 0, compareKeysUTF16("op", "op"))
	assert.Equal(t, -1, compareKeysUTF16("op", "opcode"))
}

func TestProgram_JSONRoundTrip(t *testing.T) {
	p := NewProgram(PushInt(5), PushInt(10), PushFloat(0.25), Multiply{}, Add{}, PushFloat(-1e-9), Subtract{})

	data, err := json.Marshal(p)
	require.NoError(t, err)

	var back Program
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, p, back)
}

func TestProgram_UnmarshalJSONAcceptsWhitespace(t *testing.T) {
	input := `{
		"version": "1",
		"instructions": [
			{"value": {"int": 7}, "op": "PUSH_LITERAL"},
			{"op": "PUSH_LITERAL", "value": {"float": "1e+21"}},
			{"op": "DIVIDE"}
		]
	}`

	var p Program
	require.NoError(t, json.Unmarshal([]byte(input), &p))
	assert.Equal(t, NewProgram(PushInt(7), PushFloat(1e21), Divide{}), p)
}

func TestProgram_UnmarshalJSONErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"version", `{"instructions":[],"version":"2"}`, `unsupported IR version "2"`},
		{"opcode", `{"instructions":[{"op":"POP"}],"version":"1"}`, `instruction 0: unknown opcode "POP"`},
		{"missing value", `{"instructions":[{"op":"PUSH_LITERAL"}],"version":"1"}`, "PUSH_LITERAL requires a value"},
		{"value on binary", `{"instructions":[{"op":"ADD","value":{"int":1}}],"version":"1"}`, "ADD takes no value"},
		{"both kinds", `{"instructions":[{"op":"PUSH_LITERAL","value":{"int":1,"float":"1.0"}}],"version":"1"}`, "both int and float"},
		{"neither kind", `{"instructions":[{"op":"PUSH_LITERAL","value":{}}],"version":"1"}`, "neither int nor float"},
		{"fractional int", `{"instructions":[{"op":"PUSH_LITERAL","value":{"int":1.5}}],"version":"1"}`, `invalid int "1.5"`},
		{"integral float text", `{"instructions":[{"op":"PUSH_LITERAL","value":{"float":"3"}}],"version":"1"}`, "has no fraction or exponent"},
		{"unknown field", `{"instructions":[],"version":"1","extra":true}`, "unknown field"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p Program
			err := json.Unmarshal([]byte(tt.input), &p)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
