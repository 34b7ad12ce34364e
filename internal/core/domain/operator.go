package domain

import "context"

// Operator is the already-authenticated front-desk user issuing a command.
// It is only used for audit.
type Operator struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

var AnonymousOperator = Operator{ID: "anonymous"}

type operatorKey struct{}

func WithOperator(ctx context.Context, op Operator) context.Context {
	return context.WithValue(ctx, operatorKey{}, op)
}

func OperatorFrom(ctx context.Context) Operator {
	if op, ok := ctx.Value(operatorKey{}).(Operator); ok && op.ID != "" {
		return op
	}
	return AnonymousOperator
}
