package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "guardian.yaml"

const (
	ModePR   = "pr"
	ModeReal = "real"
)

type Config struct {
	Workspace  string `yaml:"workspace"`
	RunSemgrep bool   `yaml:"runSemgrep"`
	Mode       string `yaml:"mode"`
	OutputPath string `yaml:"outputPath"`

	LLM struct {
		Model          string        `yaml:"model"`
		APIKey         string        `yaml:"apiKey"`
		BaseURL        string        `yaml:"baseURL"`
		MaxPromptChars int           `yaml:"maxPromptChars"`
		MaxAttempts    int           `yaml:"maxAttempts"`
		Backoff        time.Duration `yaml:"backoff"`
	} `yaml:"llm"`

	GitHub struct {
		APIURL     string `yaml:"apiURL"`
		Token      string `yaml:"token"`
		Repository string `yaml:"repository"`
		EventName  string `yaml:"eventName"`
		EventPath  string `yaml:"eventPath"`
		PRNumber   string `yaml:"prNumber"`
	} `yaml:"github"`

	Executor struct {
		Mode        string            `yaml:"mode"` // local | docker
		ToolTimeout time.Duration     `yaml:"toolTimeout"`
		Images      map[string]string `yaml:"images"`
	} `yaml:"executor"`

	Artifacts struct {
		Enabled    bool   `yaml:"enabled"`
		Endpoint   string `yaml:"endpoint"`
		AccessKey  string `yaml:"accessKey"`
		SecretKey  string `yaml:"secretKey"`
		BucketName string `yaml:"bucketName"`
		Region     string `yaml:"region"`
		UseSSL     bool   `yaml:"useSSL"`
	} `yaml:"artifacts"`

	Server struct {
		Port           int      `yaml:"port"`
		AllowedOrigins []string `yaml:"allowedOrigins"`
		Token          string   `yaml:"token"`
	} `yaml:"server"`

	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"` // text | json
	} `yaml:"logging"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	var c Config
	c.Workspace = "."
	c.RunSemgrep = true
	c.OutputPath = "analysis_results/report.json"
	c.LLM.Model = "gpt-4.1-mini"
	c.LLM.MaxPromptChars = 12000
	c.LLM.MaxAttempts = 3
	c.LLM.Backoff = 6 * time.Second
	c.GitHub.APIURL = "https://api.github.com"
	c.Executor.Mode = "local"
	c.Artifacts.Region = "us-east-1"
	c.Server.Port = 8080
	c.Server.AllowedOrigins = []string{"*"}
	c.Logging.Level = "info"
	c.Logging.Format = "text"
	return &c
}

// Load baca config file (kalau ada), .env, lalu environment.
// A missing file is only an error when the path was asked for explicitly.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = os.Getenv("CONFIG_PATH")
		explicit = path != ""
	}
	if path == "" {
		path = DefaultPath
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, err
	}

	// .env opsional, env asli tetap menang
	_ = godotenv.Load()

	cfg.applyEnv(os.LookupEnv)
	if cfg.GitHub.PRNumber == "" && cfg.GitHub.EventPath != "" {
		cfg.GitHub.PRNumber = prNumberFromEvent(cfg.GitHub.EventPath)
	}
	return cfg, cfg.Validate()
}

type lookupFunc func(string) (string, bool)

func (c *Config) applyEnv(lookup lookupFunc) {
	str := func(dst *string, keys ...string) {
		for _, k := range keys {
			if v, ok := lookup(k); ok && strings.TrimSpace(v) != "" {
				*dst = strings.TrimSpace(v)
				return
			}
		}
	}

	str(&c.Workspace, "GITHUB_WORKSPACE")
	if v, ok := lookup("INPUT_RUN_SEMGREP"); ok {
		// only the literal "true" enables the scanner
		c.RunSemgrep = strings.TrimSpace(v) == "true"
	}
	str(&c.Mode, "GUARDIAN_MODE", "INPUT_MODE")
	str(&c.OutputPath, "GUARDIAN_OUTPUT")

	str(&c.LLM.APIKey, "OPENAI_API_KEY")
	str(&c.LLM.Model, "OPENAI_MODEL")
	str(&c.LLM.BaseURL, "OPENAI_BASE_URL")

	str(&c.GitHub.APIURL, "GITHUB_API_URL")
	str(&c.GitHub.Token, "GITHUB_TOKEN")
	str(&c.GitHub.Repository, "GITHUB_REPOSITORY")
	str(&c.GitHub.EventName, "GITHUB_EVENT_NAME")
	str(&c.GitHub.EventPath, "GITHUB_EVENT_PATH")
	str(&c.GitHub.PRNumber, "PR_NUMBER")

	str(&c.Executor.Mode, "GUARDIAN_EXECUTOR")

	str(&c.Artifacts.Endpoint, "MINIO_ENDPOINT")
	str(&c.Artifacts.AccessKey, "MINIO_ACCESS_KEY")
	str(&c.Artifacts.SecretKey, "MINIO_SECRET_KEY")
	str(&c.Artifacts.BucketName, "MINIO_BUCKET")
	str(&c.Artifacts.Region, "MINIO_REGION")
	if v, ok := lookup("MINIO_USE_SSL"); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			c.Artifacts.UseSSL = b
		}
	}
	if v, ok := lookup("MINIO_ENABLED"); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			c.Artifacts.Enabled = b
		}
	}

	if v, ok := lookup("PORT"); ok {
		if p, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			c.Server.Port = p
		}
	}
	str(&c.Server.Token, "GUARDIAN_SERVER_TOKEN")
	str(&c.Logging.Level, "GUARDIAN_LOG_LEVEL")
	str(&c.Logging.Format, "GUARDIAN_LOG_FORMAT")
}

// Validate checks values that would otherwise fail deep inside a run.
func (c *Config) Validate() error {
	switch c.Executor.Mode {
	case "local", "docker":
	default:
		return fmt.Errorf("executor.mode must be local or docker, got %q", c.Executor.Mode)
	}
	if c.Artifacts.Enabled && (c.Artifacts.Endpoint == "" || c.Artifacts.BucketName == "") {
		return errors.New("artifacts.enabled requires endpoint and bucketName")
	}
	if c.LLM.Backoff < 0 {
		return errors.New("llm.backoff must not be negative")
	}
	return nil
}

// ResolveMode returns the explicit mode, else "pr" for pull request events,
// else "real".
func (c *Config) ResolveMode() string {
	if m := strings.ToLower(strings.TrimSpace(c.Mode)); m != "" {
		return m
	}
	switch c.GitHub.EventName {
	case "pull_request", "pull_request_target":
		return ModePR
	}
	return ModeReal
}

// prNumberFromEvent reads the PR number from a GitHub Actions event payload.
func prNumberFromEvent(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	var ev struct {
		Number      int `json:"number"`
		PullRequest struct {
			Number int `json:"number"`
		} `json:"pull_request"`
	}
	if err := json.Unmarshal(data, &ev); err != nil {
		return ""
	}
	if ev.PullRequest.Number > 0 {
		return strconv.Itoa(ev.PullRequest.Number)
	}
	if ev.Number > 0 {
		return strconv.Itoa(ev.Number)
	}
	return ""
}
