// Package anonymize implements the PII detection and anonymization engine
// behind /api/analyze and /api/redact. Recognition is a fixed registry of
// pattern recognizers; the entity and operator vocabulary follows the
// hosted anonymization API.
package anonymize

// Finding is one detected PII span.
type Finding struct {
	EntityType string  `json:"entity_type"`
	Start      int     `json:"start"`
	End        int     `json:"end"`
	Score      float64 `json:"score"`
	Text       string  `json:"text"`
}

// OperatorConfig selects how spans of one entity type are anonymized.
// Type is one of "replace", "mask", "hash", "redact"; the remaining fields
// parameterize it.
type OperatorConfig struct {
	Type        string `json:"type"`
	NewValue    string `json:"new_value,omitempty"`
	MaskingChar string `json:"masking_char,omitempty"`
	CharsToMask int    `json:"chars_to_mask,omitempty"`
	FromEnd     bool   `json:"from_end,omitempty"`
}

// Result is the outcome of anonymizing a text: the rewritten text and the
// operator applied to each span, in text order.
type Result struct {
	Text  string   `json:"text"`
	Items []string `json:"items"`
}
