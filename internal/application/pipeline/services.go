package pipeline

import (
	"context"
	"path"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/bryanwahyu/genops-guardian/internal/application"
	appai "github.com/bryanwahyu/genops-guardian/internal/application/ai"
	"github.com/bryanwahyu/genops-guardian/internal/application/delivery"
	appscans "github.com/bryanwahyu/genops-guardian/internal/application/scans"
	"github.com/bryanwahyu/genops-guardian/internal/domain/analyzers"
	"github.com/bryanwahyu/genops-guardian/internal/domain/languages"
	"github.com/bryanwahyu/genops-guardian/internal/domain/report"
	"github.com/bryanwahyu/genops-guardian/internal/infra/ai/prompt"
)

// Service wires Detector → Analyzer Runner → Report Generator → Sink.
type Service struct {
	Scans    *appscans.Service
	AI       *appai.Service
	Delivery *delivery.Dispatcher
	Log      logrus.FieldLogger
	Clock    application.Clock

	// NewID dipakai untuk run id; default uuid.
	NewID func() string
}

// Request is one pipeline run.
type Request struct {
	Root       string
	RunSemgrep bool
	Target     delivery.Target
}

// Outcome is everything a run produced.
type Outcome struct {
	ID        string            `json:"id"`
	Languages languages.Set     `json:"languages"`
	Analysis  analyzers.Results `json:"analysis"`
	Report    report.Report     `json:"report"`
}

func (s *Service) log() logrus.FieldLogger {
	if s.Log == nil {
		return logrus.StandardLogger()
	}
	return s.Log
}

func (s *Service) clock() application.Clock {
	if s.Clock == nil {
		return application.SystemClock{}
	}
	return s.Clock
}

func (s *Service) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.New().String()
}

// Analyze runs detection, the analyzers and the report generator. It never
// fails; the report absorbs every upstream problem.
func (s *Service) Analyze(ctx context.Context, root string, runSemgrep bool) Outcome {
	id := s.newID()
	start := s.clock().Now()
	l := s.log().WithField("run_id", id)
	l.WithFields(logrus.Fields{"root": root, "run_semgrep": runSemgrep}).Info("analysis started")

	tags := s.Scans.Detect(ctx, root)
	results := s.Scans.RunAnalyzers(ctx, root, tags, runSemgrep)
	rep := s.AI.Generate(ctx, prompt.GetUserPrompt(tags, results))

	l.WithFields(logrus.Fields{
		"tools":       len(results),
		"failed":      results.FailedCount(),
		"duration_ms": s.clock().Now().Sub(start).Milliseconds(),
	}).Info("analysis finished")
	return Outcome{ID: id, Languages: tags, Analysis: results, Report: rep.Normalize()}
}

// Run is Analyze followed by delivery. Only delivery can fail.
func (s *Service) Run(ctx context.Context, req Request) (Outcome, error) {
	out := s.Analyze(ctx, req.Root, req.RunSemgrep)

	target := req.Target
	if target.ArtifactKey == "" {
		target.ArtifactKey = ArtifactKey(target.Repository, out.ID)
	}
	if err := s.Delivery.Dispatch(ctx, out.Report, target); err != nil {
		return out, err
	}
	return out, nil
}

// ArtifactKey builds <repository>/<run id>/report.json.
func ArtifactKey(repository, runID string) string {
	if repository == "" {
		repository = "local"
	}
	return path.Join(repository, runID, "report.json")
}
