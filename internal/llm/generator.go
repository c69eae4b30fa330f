package llm

import (
	"context"
	"errors"
)

// ErrUnavailable reports a provider or transport failure of the generation
// capability. It always fails the turn.
var ErrUnavailable = errors.New("generation unavailable")

// Generator produces the persona's reply text for a composite prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
