// Package input holds the simulated external input a program reads through
// readInput().
package input

import (
	"strings"

	"dsaviz/interpreter-go/pkg/runtime"
)

// Buffer is a FIFO of pre-tokenized values. Tokens that parse as numbers are
// stored as numbers; everything else stays a string.
type Buffer struct {
	tokens []runtime.Value
}

// NewBuffer splits raw on whitespace and coerces each token.
func NewBuffer(raw string) *Buffer {
	fields := strings.Fields(raw)
	tokens := make([]runtime.Value, len(fields))
	for idx, field := range fields {
		tokens[idx] = coerce(field)
	}
	return &Buffer{tokens: tokens}
}

func coerce(token string) runtime.Value {
	if f, ok := runtime.ParseNumber(token); ok {
		return runtime.Number(f)
	}
	return runtime.String(token)
}

// Next removes and returns the front token. An exhausted buffer yields
// undefined.
func (b *Buffer) Next() runtime.Value {
	if len(b.tokens) == 0 {
		return runtime.Undefined
	}
	tok := b.tokens[0]
	b.tokens = b.tokens[1:]
	return tok
}

// Len reports how many tokens remain.
func (b *Buffer) Len() int {
	return len(b.tokens)
}

// Remaining returns a copy of the unconsumed tokens.
func (b *Buffer) Remaining() []runtime.Value {
	out := make([]runtime.Value, len(b.tokens))
	copy(out, b.tokens)
	return out
}

// Binding returns the native readInput function bound to this buffer.
func (b *Buffer) Binding() runtime.NativeFunctionValue {
	return runtime.NativeFunctionValue{
		Name:  "readInput",
		Arity: 0,
		Impl: func(_ *runtime.NativeCallContext, _ []runtime.Value) (runtime.Value, error) {
			return b.Next(), nil
		},
	}
}
