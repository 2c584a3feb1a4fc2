// Package config loads layered scrub configuration: built-in defaults, then an
// optional user YAML file, then environment variables, then CLI overrides.
// Later layers win; maps merge key-wise, scalars are replaced.
package config

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all scrub configuration.
type Config struct {
	Detection     Detection     `yaml:"detection"`
	Anonymization Anonymization `yaml:"anonymization"`
	Processing    Processing    `yaml:"processing"`
	Filter        Filter        `yaml:"filter"`
	NER           NER           `yaml:"ner"`
	LLM           LLM           `yaml:"llm_detection"`
	Whitelist     Whitelist     `yaml:"whitelist"`
	Blacklist     []string      `yaml:"blacklist"`
	Logging       Logging       `yaml:"logging"`
}

// Detection holds recognizer and threshold settings.
type Detection struct {
	Language            string   `yaml:"language"`
	ConfidenceThreshold float64  `yaml:"confidence_threshold"`
	EnabledEntities     []string `yaml:"enabled_entities"` // empty = all
	ContextBoost        float64  `yaml:"context_boost"`
	ContextWindow       int      `yaml:"context_window"`
}

// Anonymization selects the strategy and its per-strategy options.
type Anonymization struct {
	Strategy string        `yaml:"strategy"`
	Redact   RedactConfig  `yaml:"redact"`
	Mask     MaskConfig    `yaml:"mask"`
	Replace  ReplaceConfig `yaml:"replace"`
	Hash     HashConfig    `yaml:"hash"`
}

// RedactConfig controls the redact strategy.
type RedactConfig struct {
	Token        string `yaml:"token"`
	TypeSpecific bool   `yaml:"type_specific"`
}

// MaskConfig controls the partial-masking strategy.
type MaskConfig struct {
	MaskChar               string `yaml:"mask_char"`
	EmailVisibleChars      int    `yaml:"email_visible_chars"`
	PhoneVisibleChars      int    `yaml:"phone_visible_chars"`
	SSNVisibleChars        int    `yaml:"ssn_visible_chars"`
	CreditCardVisibleChars int    `yaml:"credit_card_visible_chars"`
}

// ReplaceConfig controls the synthetic-replacement strategy.
type ReplaceConfig struct {
	Seed           uint64 `yaml:"seed"` // 0 = non-deterministic
	PreserveFormat bool   `yaml:"preserve_format"`
}

// HashConfig controls the salted-hash strategy.
type HashConfig struct {
	Algorithm string `yaml:"algorithm"` // md5, sha1, sha256
	Salt      string `yaml:"salt"`
	Prefix    bool   `yaml:"prefix"`
	Truncate  int    `yaml:"truncate"`
}

// Processing holds file-handling options.
type Processing struct {
	CreateAuditLog bool   `yaml:"create_audit_log"`
	BackupOriginal bool   `yaml:"backup_original"`
	Recursive      bool   `yaml:"recursive"`
	OutputSuffix   string `yaml:"output_suffix"`
}

// Filter holds false-positive filter settings.
type Filter struct {
	// ExtraFalsePositives extends the built-in lexicon.
	ExtraFalsePositives []string `yaml:"extra_false_positives"`
	// ReclassifySingleWord toggles the single-capitalized-word -> PERSON heuristic.
	ReclassifySingleWord bool `yaml:"reclassify_single_word"`
}

// NER configures the local token-classification model.
type NER struct {
	Enabled        bool    `yaml:"enabled"`
	ModelPath      string  `yaml:"model_path"`
	VocabPath      string  `yaml:"vocab_path"`
	ScoreThreshold float64 `yaml:"score_threshold"`
}

// LLM configures the optional second-pass detector.
type LLM struct {
	Enabled       bool   `yaml:"enabled"`
	BaseURL       string `yaml:"base_url"`
	APIKey        string `yaml:"api_key"` // supports $VAR / ${VAR} expansion
	Model         string `yaml:"model"`
	SystemPrompt  string `yaml:"system_prompt"`
	MaxRetries    int    `yaml:"max_retries"`
	TimeoutSecs   int    `yaml:"timeout_seconds"`
	MaxConcurrent int    `yaml:"max_concurrent"`
}

// Whitelist lists values never anonymized.
type Whitelist struct {
	Emails   []string `yaml:"emails"`
	Domains  []string `yaml:"domains"`
	Patterns []string `yaml:"patterns"`
}

// Logging holds log output settings.
type Logging struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// defaultYAML is the built-in base layer. Everything here can be overridden by
// a user file, environment variables, or CLI flags.
const defaultYAML = `
detection:
  language: en
  confidence_threshold: 0.5
  context_boost: 0.2
  context_window: 40
anonymization:
  strategy: redact
  redact:
    token: "[REDACTED]"
    type_specific: true
  mask:
    mask_char: "*"
    email_visible_chars: 1
    phone_visible_chars: 3
    ssn_visible_chars: 4
    credit_card_visible_chars: 4
  replace:
    seed: 0
    preserve_format: true
  hash:
    algorithm: sha256
    salt: default_salt_change_in_production
    prefix: true
    truncate: 8
processing:
  create_audit_log: true
  backup_original: false
  recursive: false
  output_suffix: _anonymized
filter:
  reclassify_single_word: true
ner:
  enabled: false
  score_threshold: 0.5
llm_detection:
  enabled: false
  model: gpt-4o-mini
  max_retries: 3
  timeout_seconds: 30
  max_concurrent: 50
logging:
  level: info
  json: false
`

// Load builds the effective configuration. userPath may be empty; a missing or
// unparsable user file degrades to the defaults with a warning rather than
// failing the run. overrides is the CLI layer (may be nil).
func Load(userPath string, overrides map[string]any) (Config, error) {
	base := map[string]any{}
	if err := yaml.Unmarshal([]byte(defaultYAML), &base); err != nil {
		return Config{}, fmt.Errorf("config: built-in defaults are invalid: %w", err)
	}

	if userPath != "" {
		user, err := loadFile(userPath)
		if err != nil {
			slog.Warn("config file not usable, continuing with defaults", "path", userPath, "error", err)
		} else {
			deepMerge(base, user)
		}
	}

	applyEnv(base)

	if overrides != nil {
		deepMerge(base, overrides)
	}

	return decode(base)
}

func loadFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m := map[string]any{}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return m, nil
}

// deepMerge merges src into dst recursively. Nested maps merge key-wise;
// everything else (scalars, lists) is replaced by the src value.
func deepMerge(dst, src map[string]any) {
	for k, v := range src {
		if sub, ok := v.(map[string]any); ok {
			if cur, ok := dst[k].(map[string]any); ok {
				deepMerge(cur, sub)
				continue
			}
		}
		dst[k] = v
	}
}

// applyEnv overlays the environment-variable layer. Only sensitive or
// operational values come from the environment.
func applyEnv(base map[string]any) {
	if salt := os.Getenv("SCRUB_SALT"); salt != "" {
		deepMerge(base, map[string]any{
			"anonymization": map[string]any{
				"hash": map[string]any{"salt": salt},
			},
		})
	}
	if level := os.Getenv("SCRUB_LOG_LEVEL"); level != "" {
		deepMerge(base, map[string]any{
			"logging": map[string]any{"level": level},
		})
	}
}

// decode converts the merged map into the typed Config via a YAML round-trip,
// then resolves $VAR references in secret fields.
func decode(m map[string]any) (Config, error) {
	data, err := yaml.Marshal(m)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	cfg.LLM.APIKey = os.ExpandEnv(cfg.LLM.APIKey)
	cfg.LLM.BaseURL = os.ExpandEnv(cfg.LLM.BaseURL)
	return cfg, nil
}
