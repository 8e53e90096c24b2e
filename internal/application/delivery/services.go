package delivery

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/bryanwahyu/genops-guardian/internal/domain/report"
)

const (
	ModePR   = "pr"
	ModeReal = "real"
)

// Target says where a report goes.
type Target struct {
	Mode       string
	PRNumber   string
	Repository string
	// ArtifactKey is the object key used when the local file is mirrored.
	ArtifactKey string
}

// Dispatcher sends the report to a pull request or to the local artifact.
// Errors are returned as-is: a report that could not be delivered fails the run.
type Dispatcher struct {
	Comments  report.CommentPoster
	Files     report.Writer
	Artifacts report.ArtifactStore
	Log       logrus.FieldLogger
}

func (d *Dispatcher) log() logrus.FieldLogger {
	if d.Log == nil {
		return logrus.StandardLogger()
	}
	return d.Log
}

func (d *Dispatcher) Dispatch(ctx context.Context, rep report.Report, t Target) error {
	prNumber := strings.TrimSpace(t.PRNumber)
	if t.Mode == ModePR && prNumber != "" {
		n, err := strconv.Atoi(prNumber)
		if err != nil {
			return fmt.Errorf("invalid pull request number %q: %w", t.PRNumber, err)
		}
		if d.Comments == nil {
			return fmt.Errorf("no comment poster configured for pull request #%d", n)
		}
		if err := d.Comments.PostPRComment(ctx, t.Repository, n, rep.Comment()); err != nil {
			return fmt.Errorf("post comment on %s#%d: %w", t.Repository, n, err)
		}
		d.log().WithFields(logrus.Fields{"repository": t.Repository, "pr": n}).Info("report posted as pull request comment")
		return nil
	}

	path, err := d.Files.Write(rep.Normalize())
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	d.log().WithField("path", path).Info("report written")

	if d.Artifacts != nil && t.ArtifactKey != "" {
		url, err := d.Artifacts.Upload(ctx, path, t.ArtifactKey)
		if err != nil {
			// file lokal sudah ada, upload cuma mirror
			d.log().WithError(err).WithField("key", t.ArtifactKey).Warn("report upload failed")
			return nil
		}
		d.log().WithField("url", url).Info("report uploaded")
	}
	return nil
}
