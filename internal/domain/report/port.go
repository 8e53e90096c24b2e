package report

import "context"

// CommentPoster publishes a comment on a pull request.
type CommentPoster interface {
	PostPRComment(ctx context.Context, repository string, number int, body string) error
}

// Writer persists the report as a local artifact and returns its path.
type Writer interface {
	Write(r Report) (string, error)
}

// ArtifactStore mirrors a local artifact somewhere durable (object storage).
type ArtifactStore interface {
	Upload(ctx context.Context, localPath, key string) (string, error)
}
