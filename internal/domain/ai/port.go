package ai

import "context"

// Client sends one prompt to the hosted model and returns its raw text output.
// Rate limit failures must wrap ErrRateLimited.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
