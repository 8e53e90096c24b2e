package main

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/bryanwahyu/genops-guardian/internal/application"
	appai "github.com/bryanwahyu/genops-guardian/internal/application/ai"
	"github.com/bryanwahyu/genops-guardian/internal/application/delivery"
	"github.com/bryanwahyu/genops-guardian/internal/application/pipeline"
	appscans "github.com/bryanwahyu/genops-guardian/internal/application/scans"
	"github.com/bryanwahyu/genops-guardian/internal/config"
	"github.com/bryanwahyu/genops-guardian/internal/domain/analyzers"
	"github.com/bryanwahyu/genops-guardian/internal/infra/ai/openai"
	"github.com/bryanwahyu/genops-guardian/internal/infra/detector"
	dockerrunner "github.com/bryanwahyu/genops-guardian/internal/infra/executor/docker"
	localrunner "github.com/bryanwahyu/genops-guardian/internal/infra/executor/local"
	"github.com/bryanwahyu/genops-guardian/internal/infra/github"
	"github.com/bryanwahyu/genops-guardian/internal/infra/storage"
)

func buildRunner(cfg *config.Config) analyzers.Runner {
	if cfg.Executor.Mode == "docker" {
		return dockerrunner.NewRunner(cfg.Executor.Images, cfg.Executor.ToolTimeout)
	}
	return localrunner.NewRunner(cfg.Executor.ToolTimeout)
}

func buildScans(cfg *config.Config, log logrus.FieldLogger) *appscans.Service {
	return &appscans.Service{
		Detector: detector.New(log),
		Runner:   buildRunner(cfg),
		Log:      log,
	}
}

// buildPipeline wires every adapter from cfg. The artifact store is only
// connected when enabled, and an unreachable bucket just disables the mirror.
func buildPipeline(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (*pipeline.Service, error) {
	if cfg.LLM.APIKey == "" {
		// tetap jalan, Generate akan balikin failure report
		log.Warn("OPENAI_API_KEY is not set, the report will describe the failure")
	}
	client := openai.NewClient(openai.Config{
		APIKey:  cfg.LLM.APIKey,
		Model:   cfg.LLM.Model,
		BaseURL: cfg.LLM.BaseURL,
	})
	aiSvc := appai.NewService(client, appai.Options{
		MaxPromptChars: cfg.LLM.MaxPromptChars,
		MaxAttempts:    cfg.LLM.MaxAttempts,
		Backoff:        cfg.LLM.Backoff,
	}, application.SystemClock{}, log)

	comments, err := github.NewClient(cfg.GitHub.APIURL, cfg.GitHub.Token, nil)
	if err != nil {
		return nil, err
	}
	dispatcher := &delivery.Dispatcher{
		Comments: comments,
		Files:    storage.NewFileWriter(cfg.OutputPath),
		Log:      log,
	}
	if cfg.Artifacts.Enabled {
		store, err := storage.New(ctx, storage.MinioConfig{
			Endpoint:  cfg.Artifacts.Endpoint,
			Region:    cfg.Artifacts.Region,
			Bucket:    cfg.Artifacts.BucketName,
			AccessKey: cfg.Artifacts.AccessKey,
			SecretKey: cfg.Artifacts.SecretKey,
			UseSSL:    cfg.Artifacts.UseSSL,
		})
		if err != nil {
			log.WithError(err).Warn("artifact store unavailable, report mirror disabled")
		} else {
			dispatcher.Artifacts = store
		}
	}

	return &pipeline.Service{
		Scans:    buildScans(cfg, log),
		AI:       aiSvc,
		Delivery: dispatcher,
		Log:      log,
		Clock:    application.SystemClock{},
	}, nil
}
