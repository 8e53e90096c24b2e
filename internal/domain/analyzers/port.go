package analyzers

import "context"

// Runner port (interface untuk eksekusi analyzer).
// Run never returns an error: invocation problems come back as the
// InvocationFailed variant.
type Runner interface {
	Run(ctx context.Context, dir string, step Step) Result
}
