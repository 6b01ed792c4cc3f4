package store

import (
	"context"
	"errors"
)

// ErrCancelled is returned when a destructive action was declined.
var ErrCancelled = errors.New("cancelled")

// Confirmer asks the user before a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// Yes confirms everything. Use it after the caller has already asked.
var Yes Confirmer = ConfirmFunc(func(context.Context, string) (bool, error) { return true, nil })

func confirm(ctx context.Context, c Confirmer, prompt string) error {
	if c == nil {
		return ErrCancelled
	}
	ok, err := c.Confirm(ctx, prompt)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCancelled
	}
	return nil
}
