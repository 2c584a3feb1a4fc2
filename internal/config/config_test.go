package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	os.Unsetenv("SCRUB_SALT")
	os.Unsetenv("SCRUB_LOG_LEVEL")

	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Anonymization.Strategy != "redact" {
		t.Fatalf("expected default strategy redact, got %q", cfg.Anonymization.Strategy)
	}
	if cfg.Detection.ConfidenceThreshold != 0.5 {
		t.Fatalf("expected default threshold 0.5, got %v", cfg.Detection.ConfidenceThreshold)
	}
	if cfg.Detection.ContextBoost != 0.2 {
		t.Fatalf("expected default context boost 0.2, got %v", cfg.Detection.ContextBoost)
	}
	if !cfg.Anonymization.Redact.TypeSpecific {
		t.Fatal("expected type_specific redaction by default")
	}
	if !cfg.Processing.CreateAuditLog {
		t.Fatal("expected audit log enabled by default")
	}
	if cfg.LLM.Enabled {
		t.Fatal("expected LLM pass disabled by default")
	}
	if cfg.LLM.MaxConcurrent != 50 {
		t.Fatalf("expected default max_concurrent 50, got %d", cfg.LLM.MaxConcurrent)
	}
}

func TestLoadUserFileOverridesScalarsKeepsSiblings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scrub.yaml")
	userYAML := `
anonymization:
  strategy: mask
  mask:
    email_visible_chars: 2
detection:
  confidence_threshold: 0.7
`
	if err := os.WriteFile(path, []byte(userYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Anonymization.Strategy != "mask" {
		t.Fatalf("expected mask, got %q", cfg.Anonymization.Strategy)
	}
	if cfg.Anonymization.Mask.EmailVisibleChars != 2 {
		t.Fatalf("expected email_visible_chars=2, got %d", cfg.Anonymization.Mask.EmailVisibleChars)
	}
	// Sibling keys under the same section must survive the merge.
	if cfg.Anonymization.Mask.MaskChar != "*" {
		t.Fatalf("expected default mask char preserved, got %q", cfg.Anonymization.Mask.MaskChar)
	}
	if cfg.Anonymization.Hash.Algorithm != "sha256" {
		t.Fatalf("expected default hash algorithm preserved, got %q", cfg.Anonymization.Hash.Algorithm)
	}
	if cfg.Detection.ConfidenceThreshold != 0.7 {
		t.Fatalf("expected threshold 0.7, got %v", cfg.Detection.ConfidenceThreshold)
	}
}

func TestLoadMissingUserFileDegradesToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	if err != nil {
		t.Fatalf("missing user file must not fail the run: %v", err)
	}
	if cfg.Anonymization.Strategy != "redact" {
		t.Fatalf("expected defaults, got strategy %q", cfg.Anonymization.Strategy)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SCRUB_SALT", "pepper")
	t.Setenv("SCRUB_LOG_LEVEL", "debug")

	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Anonymization.Hash.Salt != "pepper" {
		t.Fatalf("expected env salt, got %q", cfg.Anonymization.Hash.Salt)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("expected env log level, got %q", cfg.Logging.Level)
	}
}

func TestLoadCLIOverridesWinOverEverything(t *testing.T) {
	t.Setenv("SCRUB_LOG_LEVEL", "debug")
	dir := t.TempDir()
	path := filepath.Join(dir, "scrub.yaml")
	if err := os.WriteFile(path, []byte("anonymization:\n  strategy: hash\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	overrides := map[string]any{
		"anonymization": map[string]any{"strategy": "mask"},
		"logging":       map[string]any{"level": "error"},
	}
	cfg, err := Load(path, overrides)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Anonymization.Strategy != "mask" {
		t.Fatalf("CLI override lost: got %q", cfg.Anonymization.Strategy)
	}
	if cfg.Logging.Level != "error" {
		t.Fatalf("CLI override lost: got %q", cfg.Logging.Level)
	}
}

func TestLoadExpandsAPIKeyEnvReference(t *testing.T) {
	t.Setenv("TEST_SCRUB_KEY", "sk-12345")
	overrides := map[string]any{
		"llm_detection": map[string]any{"api_key": "${TEST_SCRUB_KEY}"},
	}
	cfg, err := Load("", overrides)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.LLM.APIKey != "sk-12345" {
		t.Fatalf("expected expanded api key, got %q", cfg.LLM.APIKey)
	}
}

func TestDeepMerge(t *testing.T) {
	dst := map[string]any{
		"a": map[string]any{"x": 1, "y": 2},
		"b": "keep",
	}
	src := map[string]any{
		"a": map[string]any{"y": 3, "z": 4},
		"c": []any{"new"},
	}
	deepMerge(dst, src)

	a := dst["a"].(map[string]any)
	if a["x"] != 1 || a["y"] != 3 || a["z"] != 4 {
		t.Fatalf("nested merge wrong: %v", a)
	}
	if dst["b"] != "keep" {
		t.Fatalf("untouched key lost: %v", dst["b"])
	}
	if _, ok := dst["c"]; !ok {
		t.Fatal("new key not added")
	}
}
