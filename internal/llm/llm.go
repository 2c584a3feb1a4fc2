// Package llm runs an optional second detection pass through an
// OpenAI-compatible chat endpoint. The model reports PII values it sees;
// positions are recovered locally by searching the source text, so a
// hallucinated value that does not occur verbatim is simply dropped.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/crimson-sun/scrub/internal/config"
	"github.com/crimson-sun/scrub/internal/model"
)

// Confidence assigned to every LLM finding. The model gives no calibrated
// score, so all findings share one value above the default threshold.
const Confidence = 0.85

const defaultSystemPrompt = `You are a PII detection system. Find all personally identifiable information in the user's text: names, emails, phone numbers, addresses, dates of birth, government identifiers, account numbers, device identifiers.
Respond with ONLY a JSON array. Each element is {"t": "<ENTITY_TYPE>", "v": "<exact value from the text>"}.
Use entity types like PERSON, EMAIL, AU_PHONE, AU_ADDRESS, DATE_OF_BIRTH, AU_TFN, AU_MEDICARE.
The value must be copied character for character from the text. If there is no PII, respond with [].`

// skippable matches text with nothing left to detect: whitespace, redaction
// tokens, and bracket noise only.
var skippable = regexp.MustCompile(`^[\s\[\]A-Z_]*$`)

// finding is one entry of the model's JSON reply.
type finding struct {
	T string `json:"t"`
	V string `json:"v"`
}

// Detector is the second-pass PII detector.
type Detector struct {
	client        *openai.Client
	model         string
	systemPrompt  string
	maxRetries    int
	timeout       time.Duration
	maxConcurrent int
}

// New builds a Detector from config. The API key and base URL are taken as
// already expanded.
func New(cfg config.LLM) (*Detector, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("llm: api_key is required")
	}
	cc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		cc.BaseURL = cfg.BaseURL
	}

	prompt := cfg.SystemPrompt
	if prompt == "" {
		prompt = defaultSystemPrompt
	}
	retries := cfg.MaxRetries
	if retries <= 0 {
		retries = 2
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	concurrent := cfg.MaxConcurrent
	if concurrent <= 0 {
		concurrent = 50
	}

	return &Detector{
		client:        openai.NewClientWithConfig(cc),
		model:         cfg.Model,
		systemPrompt:  prompt,
		maxRetries:    retries,
		timeout:       timeout,
		maxConcurrent: concurrent,
	}, nil
}

// Detect asks the model for PII in text and maps each reported value back to
// byte offsets. Texts that are empty or already fully redacted are skipped
// without an API call.
func (d *Detector) Detect(ctx context.Context, text string) ([]model.Match, error) {
	if skippable.MatchString(text) {
		return nil, nil
	}

	reply, err := d.complete(ctx, text)
	if err != nil {
		return nil, err
	}
	findings, err := parseFindings(reply)
	if err != nil {
		// A garbled reply means no usable findings, not a failed pass.
		slog.Debug("llm reply not parseable", "error", err)
		return nil, nil
	}

	var out []model.Match
	for _, f := range findings {
		if f.V == "" || f.T == "" {
			continue
		}
		for _, span := range locate(text, f.V) {
			m, err := model.NewMatch(f.T, text[span[0]:span[1]], span[0], span[1], Confidence, model.SourceLLM)
			if err != nil {
				return nil, err
			}
			out = append(out, m)
		}
	}
	return out, nil
}

// complete calls the chat endpoint with retries.
func (d *Detector) complete(ctx context.Context, text string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: d.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: d.systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
	}

	var lastErr error
	for attempt := 0; attempt <= d.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(time.Duration(attempt) * time.Second):
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, d.timeout)
		resp, err := d.client.CreateChatCompletion(callCtx, req)
		cancel()
		if err != nil {
			lastErr = err
			slog.Debug("llm completion failed", "attempt", attempt, "error", err)
			continue
		}
		if len(resp.Choices) == 0 {
			lastErr = fmt.Errorf("llm: empty response")
			continue
		}
		return resp.Choices[0].Message.Content, nil
	}
	return "", fmt.Errorf("llm: completion failed after %d attempts: %w", d.maxRetries+1, lastErr)
}

// parseFindings strips markdown fences and decodes the JSON array.
func parseFindings(reply string) ([]finding, error) {
	s := strings.TrimSpace(reply)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if i := strings.LastIndex(s, "```"); i >= 0 {
			s = s[:i]
		}
		s = strings.TrimSpace(s)
	}
	if s == "" {
		return nil, nil
	}
	var findings []finding
	if err := json.Unmarshal([]byte(s), &findings); err != nil {
		return nil, err
	}
	return findings, nil
}

// locate finds all occurrences of value in text. Exact match first, then
// case-insensitive, then whitespace-flexible: models sometimes normalize
// spacing or casing when echoing values back.
func locate(text, value string) [][2]int {
	if spans := indexAll(text, value); len(spans) > 0 {
		return spans
	}
	if spans := indexAllFold(text, value); len(spans) > 0 {
		return spans
	}
	return indexFlexible(text, value)
}

func indexAll(text, value string) [][2]int {
	var spans [][2]int
	for from := 0; ; {
		i := strings.Index(text[from:], value)
		if i < 0 {
			break
		}
		start := from + i
		spans = append(spans, [2]int{start, start + len(value)})
		from = start + len(value)
	}
	return spans
}

func indexAllFold(text, value string) [][2]int {
	lower := strings.ToLower(text)
	lv := strings.ToLower(value)
	if len(lower) != len(text) {
		// Case folding changed byte lengths; fall back to flexible search.
		return nil
	}
	var spans [][2]int
	for from := 0; ; {
		i := strings.Index(lower[from:], lv)
		if i < 0 {
			break
		}
		start := from + i
		spans = append(spans, [2]int{start, start + len(lv)})
		from = start + len(lv)
	}
	return spans
}

// indexFlexible matches the value with arbitrary whitespace between every
// character: models drop or add spacing when echoing formatted numbers, so
// "0412345678" must still find "0412 345 678".
func indexFlexible(text, value string) [][2]int {
	var parts []string
	for _, c := range value {
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			continue
		}
		parts = append(parts, regexp.QuoteMeta(string(c)))
	}
	if len(parts) == 0 {
		return nil
	}
	re, err := regexp.Compile(`(?i)` + strings.Join(parts, `\s*`))
	if err != nil {
		return nil
	}
	var spans [][2]int
	for _, loc := range re.FindAllStringIndex(text, -1) {
		spans = append(spans, [2]int{loc[0], loc[1]})
	}
	return spans
}
