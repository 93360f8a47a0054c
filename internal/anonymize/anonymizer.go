package anonymize

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Anonymize rewrites text by applying an operator to each finding.
// operators maps entity type to config; types without an entry, or with an
// unknown operator type, get the default operator, replace with
// "<ENTITY_TYPE>". Items reports the operator actually applied to each
// finding. Findings must be non-overlapping and in text order (as produced
// by Analyzer.Analyze); replacements are applied right to left so indices
// stay valid.
func Anonymize(text string, findings []Finding, operators map[string]OperatorConfig) Result {
	items := make([]string, len(findings))
	out := text

	for i := len(findings) - 1; i >= 0; i-- {
		f := findings[i]
		cfg := normalizeOperator(f, operators[f.EntityType])
		replacement := applyOperator(f, cfg)
		out = out[:f.Start] + replacement + out[f.End:]
		items[i] = cfg.Type
	}

	return Result{Text: out, Items: items}
}

// normalizeOperator resolves the config to one of the supported operator
// types, so the applied operator and the one reported in Items agree.
func normalizeOperator(f Finding, cfg OperatorConfig) OperatorConfig {
	switch cfg.Type {
	case "replace", "redact", "hash", "mask":
		return cfg
	}
	return OperatorConfig{Type: "replace", NewValue: fmt.Sprintf("<%s>", f.EntityType)}
}

func applyOperator(f Finding, cfg OperatorConfig) string {
	switch cfg.Type {
	case "redact":
		return ""
	case "hash":
		sum := sha256.Sum256([]byte(f.Text))
		return hex.EncodeToString(sum[:])
	case "mask":
		return maskText(f.Text, cfg)
	default: // replace
		if cfg.NewValue != "" {
			return cfg.NewValue
		}
		return fmt.Sprintf("<%s>", f.EntityType)
	}
}

func maskText(s string, cfg OperatorConfig) string {
	ch := cfg.MaskingChar
	if ch == "" {
		ch = "*"
	}
	n := cfg.CharsToMask
	if n <= 0 || n > len(s) {
		n = len(s)
	}

	masked := strings.Repeat(ch, n)
	if cfg.FromEnd {
		return s[:len(s)-n] + masked
	}
	return masked + s[n:]
}
