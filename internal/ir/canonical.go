package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"unicode/utf16"

	"golang.org/x/text/unicode/norm"
)

// MarshalCanonical produces canonical JSON for p:
//
//	{"instructions":[{"op":"PUSH_LITERAL","value":{"int":1}},{"op":"ADD"}],"version":"1"}
//
// This is the ONLY serialization used for fingerprints.
//
// Differences from json.Marshal:
//  1. Object keys sorted by UTF-16 code units
//  2. No HTML escaping and no insignificant whitespace
//  3. Strings are NFC normalized
//  4. Float literals are carried as strings ({"float":"2.5"})
func MarshalCanonical(p Program) ([]byte, error) {
	instructions := make([]any, len(p.Instructions))
	for i, in := range p.Instructions {
		obj, err := instructionObject(in)
		if err != nil {
			return nil, fmt.Errorf("instruction %d: %w", i, err)
		}
		instructions[i] = obj
	}

	return marshalCanonical(map[string]any{
		"instructions": instructions,
		"version":      IRVersion,
	})
}

func instructionObject(in Instruction) (map[string]any, error) {
	if in == nil {
		return nil, fmt.Errorf("nil instruction")
	}
	obj := map[string]any{"op": in.Opcode().String()}

	switch v := in.(type) {
	case PushLiteral:
		switch lit := v.Value.(type) {
		case Int:
			obj["value"] = map[string]any{"int": int64(lit)}
		case Float:
			obj["value"] = map[string]any{"float": lit.String()}
		case nil:
			return nil, fmt.Errorf("PUSH_LITERAL without a value")
		default:
			return nil, fmt.Errorf("unsupported literal type: %T", lit)
		}
	case Add, Subtract, Multiply, Divide:
	default:
		return nil, fmt.Errorf("unsupported instruction type: %T", in)
	}
	return obj, nil
}

func marshalCanonical(v any) ([]byte, error) {
	switch val := v.(type) {
	case nil:
		return nil, fmt.Errorf("null is forbidden in canonical JSON")
	case string:
		return marshalCanonicalString(val)
	case int64:
		return []byte(fmt.Sprintf("%d", val)), nil
	case []any:
		return marshalCanonicalArray(val)
	case map[string]any:
		return marshalCanonicalObject(val)
	case float64, float32:
		return nil, fmt.Errorf("floats are forbidden in canonical JSON: %v", val)
	default:
		return nil, fmt.Errorf("unsupported type for canonical JSON: %T", v)
	}
}

// marshalCanonicalString NFC-normalizes s and escapes only quote, backslash
// and control characters.
func marshalCanonicalString(s string) ([]byte, error) {
	normalized := norm.NFC.String(s)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(normalized); err != nil {
		return nil, err
	}

	result := bytes.TrimSuffix(buf.Bytes(), []byte{'\n'})
	return unescapeLineSeparators(result), nil
}

// unescapeLineSeparators turns the \u2028 and \u2029 escapes written by
// encoding/json back into literal characters. An escape preceded by an odd
// number of backslashes is literal text and stays.
func unescapeLineSeparators(data []byte) []byte {
	if !bytes.Contains(data, []byte(`\u202`)) {
		return data
	}

	out := make([]byte, 0, len(data))
	backslashes := 0
	for i := 0; i < len(data); i++ {
		if data[i] == '\\' && backslashes%2 == 0 && i+6 <= len(data) &&
			string(data[i+1:i+5]) == "u202" && (data[i+5] == '8' || data[i+5] == '9') {
			if data[i+5] == '8' {
				out = append(out, "\u2028"...)
			} else {
				out = append(out, "\u2029"...)
			}
			i += 5
			backslashes = 0
			continue
		}
		if data[i] == '\\' {
			backslashes++
		} else {
			backslashes = 0
		}
		out = append(out, data[i])
	}
	return out
}

func marshalCanonicalArray(arr []any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')

	for i, elem := range arr {
		if i > 0 {
			buf.WriteByte(',')
		}
		elemBytes, err := marshalCanonical(elem)
		if err != nil {
			return nil, fmt.Errorf("array[%d]: %w", i, err)
		}
		buf.Write(elemBytes)
	}

	buf.WriteByte(']')
	return buf.Bytes(), nil
}

func marshalCanonicalObject(obj map[string]any) ([]byte, error) {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareKeysUTF16)

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}

		keyBytes, err := marshalCanonicalString(k)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		buf.Write(keyBytes)
		buf.WriteByte(':')

		valBytes, err := marshalCanonical(obj[k])
		if err != nil {
			return nil, fmt.Errorf("value for key %q: %w", k, err)
		}
		buf.Write(valBytes)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// compareKeysUTF16 orders keys by UTF-16 code units (RFC 8785), which
// differs from Go's byte-wise string order above the BMP.
func compareKeysUTF16(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))
	return slices.Compare(a16, b16)
}

// MarshalJSON encodes p as canonical JSON.
func (p Program) MarshalJSON() ([]byte, error) {
	return MarshalCanonical(p)
}

type wireProgram struct {
	Instructions []wireInstruction `json:"instructions"`
	Version      string            `json:"version"`
}

type wireInstruction struct {
	Op    string       `json:"op"`
	Value *wireLiteral `json:"value,omitempty"`
}

type wireLiteral struct {
	Int   *json.Number `json:"int,omitempty"`
	Float *string      `json:"float,omitempty"`
}

// UnmarshalJSON decodes the canonical JSON form. Non-canonical but
// equivalent input (whitespace, key order) is accepted.
func (p *Program) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	dec.DisallowUnknownFields()

	var w wireProgram
	if err := dec.Decode(&w); err != nil {
		return fmt.Errorf("decode IR program: %w", err)
	}
	if w.Version != IRVersion {
		return fmt.Errorf("unsupported IR version %q (want %q)", w.Version, IRVersion)
	}

	instructions := make([]Instruction, len(w.Instructions))
	for i, wi := range w.Instructions {
		in, err := wi.decode()
		if err != nil {
			return fmt.Errorf("instruction %d: %w", i, err)
		}
		instructions[i] = in
	}
	p.Instructions = instructions
	return nil
}

func (wi wireInstruction) decode() (Instruction, error) {
	op, ok := ParseOpcode(wi.Op)
	if !ok {
		return nil, fmt.Errorf("unknown opcode %q", wi.Op)
	}
	if op != OpPushLiteral {
		if wi.Value != nil {
			return nil, fmt.Errorf("%s takes no value", op)
		}
		return Binary(op)
	}

	switch {
	case wi.Value == nil:
		return nil, fmt.Errorf("%s requires a value", op)
	case wi.Value.Int != nil && wi.Value.Float != nil:
		return nil, fmt.Errorf("value has both int and float")
	case wi.Value.Int != nil:
		n, err := wi.Value.Int.Int64()
		if err != nil {
			return nil, fmt.Errorf("invalid int %q", wi.Value.Int.String())
		}
		return PushInt(n), nil
	case wi.Value.Float != nil:
		lit, err := ParseLiteral(*wi.Value.Float)
		if err != nil {
			return nil, err
		}
		f, ok := lit.(Float)
		if !ok {
			return nil, fmt.Errorf("float value %q has no fraction or exponent", *wi.Value.Float)
		}
		return PushLiteral{Value: f}, nil
	}
	return nil, fmt.Errorf("value has neither int nor float")
}
