package languages

import "context"

// Detector port (scan repository tree, hasilkan tag)
type Detector interface {
	Detect(ctx context.Context, root string) (Set, error)
}
