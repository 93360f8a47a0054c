package proxy

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/plenohq/plenosite/internal/anonymize"
)

// Redactor rewrites chat completion requests so PII never reaches the
// upstream model: each detected span becomes a numbered placeholder, and
// the upstream response has the placeholders swapped back.
type Redactor struct {
	analyzer *anonymize.Analyzer
}

// NewRedactor creates a Redactor over the given analyzer.
func NewRedactor(analyzer *anonymize.Analyzer) *Redactor {
	return &Redactor{analyzer: analyzer}
}

// SubstituteChat replaces PII in the messages of a chat completion request
// body with placeholders like <EMAIL_ADDRESS_1>. It returns the rewritten
// body and the placeholder -> original mapping for restoration. Streaming
// requests and bodies that are not chat completions pass through untouched
// with a nil mapping.
func (rd *Redactor) SubstituteChat(body []byte) ([]byte, map[string]string, error) {
	var req openai.ChatCompletionRequest
	if err := json.Unmarshal(body, &req); err != nil || len(req.Messages) == 0 {
		return body, nil, nil
	}
	if req.Stream {
		return body, nil, nil
	}

	placeholders := make(map[string]string)
	seen := make(map[string]string) // original text -> placeholder
	counters := make(map[string]int)

	for i := range req.Messages {
		if req.Messages[i].Content == "" {
			continue
		}
		req.Messages[i].Content = rd.substituteText(req.Messages[i].Content, placeholders, seen, counters)
	}

	if len(placeholders) == 0 {
		return body, nil, nil
	}

	// A plain Marshal would escape the placeholder angle brackets.
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(req); err != nil {
		return nil, nil, fmt.Errorf("re-encoding chat request: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), placeholders, nil
}

// substituteText rewrites one message, reusing placeholders for repeated
// spans so the model sees a consistent reference.
func (rd *Redactor) substituteText(text string, placeholders, seen map[string]string, counters map[string]int) string {
	findings := rd.analyzer.Analyze(text, nil)
	for i := len(findings) - 1; i >= 0; i-- {
		f := findings[i]
		ph, ok := seen[f.Text]
		if !ok {
			counters[f.EntityType]++
			ph = fmt.Sprintf("<%s_%d>", f.EntityType, counters[f.EntityType])
			seen[f.Text] = ph
			placeholders[ph] = f.Text
		}
		text = text[:f.Start] + ph + text[f.End:]
	}
	return text
}

// Restore swaps placeholders back to their original values in an upstream
// response body. It operates on the raw bytes so any response shape
// (completion, error, refusal) restores correctly. Longer placeholders are
// replaced first so <EMAIL_ADDRESS_12> is never clobbered by
// <EMAIL_ADDRESS_1>.
func Restore(body []byte, placeholders map[string]string) []byte {
	if len(placeholders) == 0 {
		return body
	}

	keys := make([]string, 0, len(placeholders))
	for ph := range placeholders {
		keys = append(keys, ph)
	}
	sort.Slice(keys, func(i, j int) bool { return len(keys[i]) > len(keys[j]) })

	s := string(body)
	for _, ph := range keys {
		s = strings.ReplaceAll(s, ph, placeholders[ph])
	}
	return []byte(s)
}
