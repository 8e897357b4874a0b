package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/kbukum/startup-analyzer/analysis"
	"github.com/kbukum/startup-analyzer/bootstrap"
	"github.com/kbukum/startup-analyzer/errors"
	"github.com/kbukum/startup-analyzer/logger"
	"github.com/kbukum/startup-analyzer/workflow"
)

func writeWorkbook(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	rows := [][]any{
		{"Company", "City", "Funding"},
		{"Aleph Alpha", "Heidelberg", 500000000},
		{"DeepL", "Cologne", 400000000},
		{"Helsing", "Munich", nil},
	}
	for i, row := range rows {
		axis, _ := excelize.CoordinatesToCellName(1, i+1)
		r := row
		if err := f.SetSheetRow("Sheet1", axis, &r); err != nil {
			t.Fatal(err)
		}
	}
	path := filepath.Join(t.TempDir(), "startups.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	return path
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := cmd.Execute()
	return out.String(), err
}

func TestAppConfigDefaults(t *testing.T) {
	var cfg AppConfig
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.Name != "startup-analyzer" {
		t.Errorf("Name = %q", cfg.Name)
	}
	if cfg.LLM.Dialect != "openai" || cfg.LLM.BaseURL != defaultBaseURL || cfg.LLM.Model != defaultModel {
		t.Errorf("LLM = %+v", cfg.LLM)
	}
	if cfg.Session.TTL != 30*time.Minute {
		t.Errorf("Session.TTL = %v", cfg.Session.TTL)
	}
	if cfg.Analysis.Retry.Enabled() {
		t.Error("retry should be off by default")
	}
	if cfg.Observability.Enabled || cfg.Observability.Endpoint != "localhost:4318" {
		t.Errorf("Observability = %+v", cfg.Observability)
	}
}

func TestAppConfigModelDefaultPerDialect(t *testing.T) {
	for _, dialect := range []string{"anthropic", "ollama"} {
		t.Run(dialect, func(t *testing.T) {
			var cfg AppConfig
			cfg.LLM.Dialect = dialect
			cfg.ApplyDefaults()
			if cfg.LLM.Model != "" || cfg.LLM.BaseURL == defaultBaseURL {
				t.Errorf("Groq defaults leaked into %s: %+v", dialect, cfg.LLM)
			}
			if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "model is required") {
				t.Errorf("Validate = %v, want missing model", err)
			}
		})
	}
}

func TestAppConfigRetryDefaults(t *testing.T) {
	var cfg AppConfig
	cfg.Analysis.Retry.MaxAttempts = 3
	cfg.ApplyDefaults()
	if cfg.Analysis.Retry.InitialBackoff != time.Second || cfg.Analysis.Retry.BackoffFactor != 2 {
		t.Errorf("Retry = %+v", cfg.Analysis.Retry)
	}
}

func TestAppConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AppConfig)
	}{
		{"bad environment", func(c *AppConfig) { c.Environment = "qa" }},
		{"bad port", func(c *AppConfig) { c.Server.Port = -1 }},
		{"short session ttl", func(c *AppConfig) { c.Session.TTL = time.Second }},
		{"temperature out of range", func(c *AppConfig) { c.LLM.Temperature = 3 }},
		{"negative retry", func(c *AppConfig) { c.Analysis.Retry.MaxAttempts = -1 }},
		{"sample rate above one", func(c *AppConfig) { c.Observability.SampleRate = 1.5 }},
		{"unknown cipher", func(c *AppConfig) { c.Session.Cipher = "rot13" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg AppConfig
			cfg.ApplyDefaults()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadConfig_File(t *testing.T) {
	path := writeConfig(t, `
name: startup-analyzer
environment: production
llm:
  dialect: ollama
  base_url: http://localhost:11434
  model: llama3
session:
  ttl: 45m
analysis:
  retry:
    max_attempts: 2
`)
	cfg, err := loadConfig(path, "")
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	cfg.ApplyDefaults()
	if cfg.LLM.Dialect != "ollama" || cfg.LLM.Model != "llama3" {
		t.Errorf("LLM = %+v", cfg.LLM)
	}
	if cfg.Session.TTL != 45*time.Minute {
		t.Errorf("TTL = %v", cfg.Session.TTL)
	}
	if cfg.Analysis.Retry.MaxAttempts != 2 {
		t.Errorf("Retry = %+v", cfg.Analysis.Retry)
	}
	if !cfg.LLM.Credential.IsZero() {
		t.Error("credential must never come from config")
	}
}

func TestResolveAPIKey(t *testing.T) {
	if got := resolveAPIKey(" flag-key ", "env-key"); got.Reveal() != "flag-key" {
		t.Errorf("flag should win, got %q", got.Reveal())
	}
	if got := resolveAPIKey("", `"env-key"`); got.Reveal() != "env-key" {
		t.Errorf("env fallback = %q", got.Reveal())
	}
	if got := resolveAPIKey("", ""); !got.IsZero() {
		t.Error("expected zero credential")
	}
}

func TestInspectCmd(t *testing.T) {
	path := writeWorkbook(t)

	out, err := execute(t, "inspect", "--file", path)
	if err != nil {
		t.Fatalf("inspect: %v\n%s", err, out)
	}
	for _, want := range []string{`Sheet "Sheet1": 3 records, 3 columns`, "Company", "Aleph Alpha", "500000000", "Helsing"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	out, err = execute(t, "inspect", "--file", path, "--limit", "1")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "DeepL") || !strings.Contains(out, "... 2 more") {
		t.Errorf("limit not applied:\n%s", out)
	}

	out, err = execute(t, "inspect", "--file", path, "--json")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `{"Company":"Helsing","City":"Munich","Funding":null}`) {
		t.Errorf("payload:\n%s", out)
	}
}

func TestInspectCmd_Errors(t *testing.T) {
	if _, err := execute(t, "inspect"); err == nil {
		t.Error("expected error without --file")
	}

	bad := filepath.Join(t.TempDir(), "notes.xlsx")
	_ = os.WriteFile(bad, []byte("plain text"), 0o600)
	_, err := execute(t, "inspect", "--file", bad)
	if !errors.HasCode(err, errors.ErrCodeParse) {
		t.Errorf("err = %v, want PARSE_ERROR", err)
	}
}

func TestRunCmd_EndToEnd(t *testing.T) {
	var calls atomic.Int32
	var sawAuth atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		if r.Header.Get("Authorization") == "Bearer gsk-run-key" {
			sawAuth.Store(true)
		}
		w.Header().Set("Content-Type", "application/json")
		reply := map[string]any{
			"model": "m",
			"choices": []map[string]any{{
				"index": 0, "finish_reason": "stop",
				"message": map[string]any{"role": "assistant", "content": []string{"findings", "analysis", "recommendations"}[n-1]},
			}},
		}
		_ = json.NewEncoder(w).Encode(reply)
	}))
	defer srv.Close()

	cfgPath := writeConfig(t, "name: startup-analyzer\nlogging:\n  level: error\nllm:\n  dialect: openai\n  base_url: "+srv.URL+"\n  model: test-model\n")
	out, err := execute(t, "run", "--config", cfgPath, "--file", writeWorkbook(t),
		"--api-key", "gsk-run-key", "--query", "Sector Analysis")
	if err != nil {
		t.Fatalf("run: %v\n%s", err, out)
	}

	if calls.Load() != 3 || !sawAuth.Load() {
		t.Errorf("calls=%d auth=%v", calls.Load(), sawAuth.Load())
	}
	for _, want := range []string{"# Sector Analysis", "## Key Findings\n\nfindings", "## Detailed Analysis\n\nanalysis", "## Recommendations\n\nrecommendations", "[3/3] insight: done"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "gsk-run-key") {
		t.Error("output contains the API key")
	}
}

func TestRunCmd_MissingInputs(t *testing.T) {
	t.Setenv(apiKeyEnv, "")
	cfgPath := writeConfig(t, "name: startup-analyzer\nlogging:\n  level: error\n")
	_, err := execute(t, "run", "--config", cfgPath)
	if !errors.HasCode(err, errors.ErrCodeMissingInput) {
		t.Fatalf("err = %v, want MISSING_INPUT", err)
	}
	appErr, _ := errors.AsAppError(err)
	if got := strings.Join(appErr.MissingFields(), ","); got != "dataset,api_key" {
		t.Errorf("missing = %s", got)
	}
}

func TestWriteReport(t *testing.T) {
	r := analysis.NewReport(analysis.Query{Type: analysis.CustomQuery, Custom: "Who leads?"}, []workflow.Result{{Raw: "a\n"}, {Raw: "b"}})
	var out bytes.Buffer
	if err := writeReport(&out, r); err != nil {
		t.Fatal(err)
	}
	want := "# Who leads?\n\n## Key Findings\n\na\n\n## Detailed Analysis\n\nb\n\n## Recommendations\n\n\n"
	if out.String() != want {
		t.Errorf("got %q\nwant %q", out.String(), want)
	}
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "analyzer dev") {
		t.Errorf("version output = %q", out)
	}
}

func TestServeApp_MountsRoutesOnConfigure(t *testing.T) {
	var cfg AppConfig
	cfg.ApplyDefaults()
	cfg.Server.Host, cfg.Server.Port = "127.0.0.1", 0

	var logs bytes.Buffer
	log := logger.NewWithWriter(&logger.Config{Level: "info", Format: "json"}, "test", &logs)
	app, srv, err := newServeApp(&cfg, bootstrap.WithLogger(log), bootstrap.WithoutSummary())
	if err != nil {
		t.Fatal(err)
	}

	err = app.RunTask(context.Background(), func(context.Context) error {
		for _, path := range []string{"/", "/health", "/info", "/metrics"} {
			resp, err := http.Get("http://" + srv.Addr() + path)
			if err != nil {
				return err
			}
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				t.Errorf("GET %s = %d", path, resp.StatusCode)
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("RunTask: %v", err)
	}
	for _, want := range []string{"Completion backend", "Analyzer ready", "llama-3.3-70b-versatile"} {
		if !strings.Contains(logs.String(), want) {
			t.Errorf("logs missing %q", want)
		}
	}
}
