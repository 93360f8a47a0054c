package anonymize

import "sort"

// Analyzer runs the recognizer registry over input text.
type Analyzer struct {
	recognizers []Recognizer
}

// NewAnalyzer creates an Analyzer with the default recognizers.
func NewAnalyzer() *Analyzer {
	return &Analyzer{recognizers: DefaultRecognizers()}
}

// Analyze detects PII spans in text. entities, when non-empty, restricts
// detection to the named entity types. Overlapping findings are resolved in
// favor of the higher score, then the longer span. Findings are returned in
// text order.
func (a *Analyzer) Analyze(text string, entities []string) []Finding {
	wanted := make(map[string]bool, len(entities))
	for _, e := range entities {
		wanted[e] = true
	}

	var all []Finding
	for _, rec := range a.recognizers {
		if len(wanted) > 0 && !wanted[rec.EntityType] {
			continue
		}
		for _, loc := range rec.Pattern.FindAllStringIndex(text, -1) {
			match := text[loc[0]:loc[1]]
			if rec.Validate != nil && !rec.Validate(match) {
				continue
			}
			all = append(all, Finding{
				EntityType: rec.EntityType,
				Start:      loc[0],
				End:        loc[1],
				Score:      rec.Score,
				Text:       match,
			})
		}
	}

	return resolveOverlaps(all)
}

// resolveOverlaps drops findings that overlap a stronger one. Strength is
// score first, span length second; ties keep the earlier finding.
func resolveOverlaps(findings []Finding) []Finding {
	sort.SliceStable(findings, func(i, j int) bool {
		if findings[i].Score != findings[j].Score {
			return findings[i].Score > findings[j].Score
		}
		return findings[i].End-findings[i].Start > findings[j].End-findings[j].Start
	})

	var kept []Finding
	for _, f := range findings {
		overlaps := false
		for _, k := range kept {
			if f.Start < k.End && k.Start < f.End {
				overlaps = true
				break
			}
		}
		if !overlaps {
			kept = append(kept, f)
		}
	}

	sort.Slice(kept, func(i, j int) bool { return kept[i].Start < kept[j].Start })
	return kept
}
