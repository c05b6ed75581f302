package ir

import (
	"bufio"
	"fmt"
	"strings"
)

// ParseError reports malformed IR text.
type ParseError struct {
	Line    int // 1-based
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// Format renders p as IR text, one instruction per line:
//
//	PUSH_LITERAL 1
//	PUSH_LITERAL 2.5
//	ADD
func Format(p Program) string {
	var b strings.Builder
	for _, in := range p.Instructions {
		b.WriteString(FormatInstruction(in))
		b.WriteByte('\n')
	}
	return b.String()
}

// FormatInstruction renders a single instruction.
func FormatInstruction(in Instruction) string {
	if in == nil {
		return "<nil>"
	}
	if push, ok := in.(PushLiteral); ok {
		if push.Value == nil {
			return in.Opcode().String() + " <nil>"
		}
		return in.Opcode().String() + " " + push.Value.String()
	}
	return in.Opcode().String()
}

// Parse reads IR text. Blank lines and text after '#' are ignored.
func Parse(text string) (Program, error) {
	p := Program{Instructions: []Instruction{}}

	scanner := bufio.NewScanner(strings.NewReader(text))
	line := 0
	for scanner.Scan() {
		line++
		content := scanner.Text()
		if i := strings.IndexByte(content, '#'); i >= 0 {
			content = content[:i]
		}
		fields := strings.Fields(content)
		if len(fields) == 0 {
			continue
		}

		in, err := parseInstruction(fields)
		if err != nil {
			return Program{}, &ParseError{Line: line, Message: err.Error()}
		}
		p.Instructions = append(p.Instructions, in)
	}
	if err := scanner.Err(); err != nil {
		return Program{}, fmt.Errorf("read IR text: %w", err)
	}
	return p, nil
}

func parseInstruction(fields []string) (Instruction, error) {
	op, ok := ParseOpcode(fields[0])
	if !ok {
		return nil, fmt.Errorf("unknown opcode %q", fields[0])
	}
	operands := fields[1:]

	if op == OpPushLiteral {
		if len(operands) != 1 {
			return nil, fmt.Errorf("%s takes 1 operand, got %d", op, len(operands))
		}
		lit, err := ParseLiteral(operands[0])
		if err != nil {
			return nil, err
		}
		return PushLiteral{Value: lit}, nil
	}

	if len(operands) != 0 {
		return nil, fmt.Errorf("%s takes no operands, got %d", op, len(operands))
	}
	return Binary(op)
}
