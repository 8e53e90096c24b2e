package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/bryanwahyu/genops-guardian/internal/application"
	"github.com/bryanwahyu/genops-guardian/internal/domain/ai"
	"github.com/bryanwahyu/genops-guardian/internal/domain/report"
	"github.com/bryanwahyu/genops-guardian/internal/textutil"
)

const (
	DefaultMaxPromptChars = 12000
	DefaultMaxAttempts    = 3
	DefaultBackoff        = 6 * time.Second

	TruncationMarker = "\n...[truncated]"

	// summaryLines is how much raw model output survives when it is not JSON.
	summaryLines = 6
)

const (
	FailureSummary     = "AI analysis failed. Static analyzers ran, but their output could not be summarized."
	RateLimitedSummary = "AI analysis was rate limited after retries, but static analysis completed successfully."
)

var (
	failureRecommendations = []string{
		"Check that OPENAI_API_KEY is set and valid for this repository",
		"Verify the configured model is available to the API key",
		"Inspect the workflow logs for the raw analyzer output",
	}
	rateLimitedRecommendations = []string{
		"Retry the workflow later",
		"Reduce analyzer verbosity",
		"Split the analysis by language",
	}
)

// Options is the generator's fixed configuration, built once at startup.
type Options struct {
	MaxPromptChars int
	MaxAttempts    int
	Backoff        time.Duration
}

func (o Options) withDefaults() Options {
	if o.MaxPromptChars <= 0 {
		o.MaxPromptChars = DefaultMaxPromptChars
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = DefaultMaxAttempts
	}
	if o.Backoff < 0 {
		o.Backoff = 0
	}
	return o
}

// Service turns a prompt into a report. Generate never fails: every error
// path resolves to a fallback report.
type Service struct {
	client  ai.Client
	opts    Options
	sleeper application.Sleeper
	log     logrus.FieldLogger
}

func NewService(client ai.Client, opts Options, sleeper application.Sleeper, log logrus.FieldLogger) *Service {
	if sleeper == nil {
		sleeper = application.SystemClock{}
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{client: client, opts: opts.withDefaults(), sleeper: sleeper, log: log}
}

type state int

const (
	stateAttempt state = iota
	stateSleep
	stateDone
	stateFallbackDone
	stateFailureDone
)

func (s state) String() string {
	switch s {
	case stateAttempt:
		return "attempt"
	case stateSleep:
		return "sleep"
	case stateDone:
		return "done"
	case stateFallbackDone:
		return "fallback_done"
	case stateFailureDone:
		return "failure_done"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// nextState is the transition taken after attempt number `attempt` returned err.
func nextState(attempt, maxAttempts int, err error) state {
	switch {
	case err == nil:
		return stateDone
	case errors.Is(err, ai.ErrRateLimited) && attempt < maxAttempts:
		return stateSleep
	case errors.Is(err, ai.ErrRateLimited):
		return stateFallbackDone
	default:
		return stateFailureDone
	}
}

// backoffFor is the sleep taken before attempt+1.
func (s *Service) backoffFor(attempt int) time.Duration {
	return s.opts.Backoff * time.Duration(attempt)
}

// Guard enforces the prompt character budget.
func (s *Service) Guard(prompt string) string {
	out, cut := textutil.TruncateWithMarker(prompt, s.opts.MaxPromptChars, TruncationMarker)
	if cut {
		s.log.WithField("limit", s.opts.MaxPromptChars).Warn("prompt truncated")
	}
	return out
}

// Generate runs the attempt/sleep machine and returns the resulting report.
func (s *Service) Generate(ctx context.Context, prompt string) (rep report.Report) {
	defer func() {
		if r := recover(); r != nil {
			s.log.WithField("panic", r).Error("ai client panicked")
			rep = FailureReport(fmt.Errorf("ai client panic: %v", r))
		}
	}()

	prompt = s.Guard(prompt)

	st := stateAttempt
	attempt := 1
	var raw string
	var err error
	for {
		switch st {
		case stateAttempt:
			raw, err = s.client.Complete(ctx, prompt)
			st = nextState(attempt, s.opts.MaxAttempts, err)
			s.log.WithFields(logrus.Fields{"attempt": attempt, "next": st.String()}).Debug("ai attempt finished")
			if err != nil {
				s.log.WithError(err).WithField("attempt", attempt).Warn("ai request failed")
			}

		case stateSleep:
			d := s.backoffFor(attempt)
			s.log.WithFields(logrus.Fields{"attempt": attempt, "backoff": d.String()}).Info("rate limited, backing off")
			if serr := s.sleeper.Sleep(ctx, d); serr != nil {
				err = serr
				st = stateFailureDone
				continue
			}
			attempt++
			st = stateAttempt

		case stateDone:
			return ParseReport(raw)

		case stateFallbackDone:
			return RateLimitedReport()

		case stateFailureDone:
			return FailureReport(err)
		}
	}
}

// ParseReport decodes the model output. Anything that is not a JSON object of
// the expected shape degrades to its first lines as the summary.
func ParseReport(raw string) report.Report {
	rep, ok := decodeReport(stripFences(raw))
	if !ok {
		return report.Report{
			Summary:         textutil.FirstLines(raw, summaryLines),
			CriticalIssues:  []string{},
			Recommendations: []string{},
		}
	}
	return rep.Normalize()
}

// decodeReport accepts only a JSON object whose summary is a string.
func decodeReport(s string) (report.Report, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(s), &fields); err != nil || fields == nil {
		return report.Report{}, false
	}
	var summary string
	if err := json.Unmarshal(fields["summary"], &summary); err != nil {
		return report.Report{}, false
	}
	var rep report.Report
	if err := json.Unmarshal([]byte(s), &rep); err != nil {
		return report.Report{}, false
	}
	return rep, true
}

// stripFences removes a surrounding ```json ... ``` block if present.
func stripFences(raw string) string {
	t := strings.TrimSpace(raw)
	if !strings.HasPrefix(t, "```") || !strings.HasSuffix(t, "```") || len(t) < 6 {
		return raw
	}
	t = strings.TrimSuffix(t[3:], "```")
	if i := strings.IndexByte(t, '\n'); i >= 0 && !strings.ContainsAny(t[:i], "{[") {
		// buang language hint, mis. ```json
		t = t[i+1:]
	}
	return t
}

func FailureReport(err error) report.Report {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return report.Report{
		Summary:         FailureSummary,
		CriticalIssues:  []string{msg},
		Recommendations: append([]string(nil), failureRecommendations...),
	}
}

func RateLimitedReport() report.Report {
	return report.Report{
		Summary:         RateLimitedSummary,
		CriticalIssues:  []string{},
		Recommendations: append([]string(nil), rateLimitedRecommendations...),
	}
}

// IsFallback reports whether rep was produced without a usable model reply.
func IsFallback(rep report.Report) bool {
	return rep.Summary == FailureSummary || rep.Summary == RateLimitedSummary
}
