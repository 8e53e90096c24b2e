package scans

import (
	"context"

	"github.com/sirupsen/logrus"

	domain "github.com/bryanwahyu/genops-guardian/internal/domain/analyzers"
	"github.com/bryanwahyu/genops-guardian/internal/domain/languages"
)

// Service implements use-cases untuk detect + run analyzers.
// Steps run one after another; nothing here is shared between runs.
type Service struct {
	Detector languages.Detector
	Runner   domain.Runner
	Log      logrus.FieldLogger
}

func (s *Service) log() logrus.FieldLogger {
	if s.Log == nil {
		return logrus.StandardLogger()
	}
	return s.Log
}

// Detect returns the tags found under root. A root that cannot be walked at
// all yields an empty set; the pipeline keeps going with no analyzers.
func (s *Service) Detect(ctx context.Context, root string) languages.Set {
	tags, err := s.Detector.Detect(ctx, root)
	if err != nil {
		s.log().WithError(err).WithField("root", root).Warn("language detection failed")
		return languages.NewSet()
	}
	if tags == nil {
		return languages.NewSet()
	}
	s.log().WithField("languages", tags.Strings()).Info("languages detected")
	return tags
}

// RunAnalyzers jalankan semua tool untuk tag yang terdeteksi, satu per satu.
// One tool failing never stops the next one.
func (s *Service) RunAnalyzers(ctx context.Context, root string, tags languages.Set, runSemgrep bool) domain.Results {
	results := domain.Results{}
	for _, step := range domain.Plan(root, tags, runSemgrep) {
		l := s.log().WithField("tool", step.Tool)
		res := s.Runner.Run(ctx, root, step)

		if res.Failed() {
			l.WithError(res.Err).Warn("analyzer invocation failed")
		} else {
			l.WithFields(logrus.Fields{
				"rc":          res.ExitCode,
				"duration_ms": res.DurationMS,
			}).Info("analyzer finished")
		}

		if step.Prep {
			continue
		}
		results[step.Tool] = res
	}
	return results
}
