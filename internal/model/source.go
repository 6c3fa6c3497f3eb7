package model

import "encoding/json"

// Source is one row of credibility and bias metadata for a publishing domain.
// The domain is the canonical registrable form (nytimes.com, bbc.co.uk) and is
// immutable once assigned. Optional fields are pointers: absent metadata is a
// distinct state from a zero value (a Center lean of 0 is not "no lean").
type Source struct {
	Domain             string          `json:"domain"`
	Name               string          `json:"name,omitempty"`
	CredibilityScore   *float64        `json:"credibility_score,omitempty"`  // 0-100, nil = unrated
	CredibilityRating  *string         `json:"credibility_rating,omitempty"` // categorical label, correlated with the score
	PoliticalLean      *int            `json:"political_lean,omitempty"`     // -2..2, nil = not recorded
	PoliticalLeanLabel string          `json:"political_lean_label,omitempty"`
	SourceType         *string         `json:"source_type,omitempty"` // fact_check, think_tank, wire_service, ...
	Criteria           json.RawMessage `json:"criteria,omitempty"`    // rating sub-criteria, opaque to scoring
	Description        string          `json:"description,omitempty"`
	OwnershipSummary   string          `json:"ownership_summary,omitempty"`
}

// LeanLabels maps political lean values to their display labels.
var LeanLabels = map[int]string{
	-2: "Left",
	-1: "Lean Left",
	0:  "Center",
	1:  "Lean Right",
	2:  "Right",
}

// LeanLabel returns the display label for a lean value.
// Absent or out-of-scale leans resolve to "Unknown".
func LeanLabel(lean *int) string {
	if lean == nil {
		return "Unknown"
	}
	if label, ok := LeanLabels[*lean]; ok {
		return label
	}
	return "Unknown"
}
