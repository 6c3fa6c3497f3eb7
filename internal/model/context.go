package model

import "fmt"

// ClaimType categorizes the claim a piece of evidence is being used for.
// Scoring treats political, economic and foreign-policy claims as
// policy-sensitive: specialist source types earn a larger bonus there.
type ClaimType string

const (
	ClaimPolitical     ClaimType = "political"
	ClaimEconomic      ClaimType = "economic"
	ClaimForeignPolicy ClaimType = "foreign_policy"
	ClaimScientific    ClaimType = "scientific"
	ClaimGeneral       ClaimType = "general"
)

// ParseClaimType validates a wire-format claim type. Empty input falls back
// to the general claim type; anything else outside the closed set is an error.
func ParseClaimType(s string) (ClaimType, error) {
	switch ClaimType(s) {
	case ClaimPolitical, ClaimEconomic, ClaimForeignPolicy, ClaimScientific, ClaimGeneral:
		return ClaimType(s), nil
	case "":
		return ClaimGeneral, nil
	}
	return "", fmt.Errorf("unknown claim type: %q (supported: political, economic, foreign_policy, scientific, general)", s)
}

// PolicySensitive reports whether the claim type rewards policy-focused
// source types (think tanks) with the higher bonus.
func (c ClaimType) PolicySensitive() bool {
	switch c {
	case ClaimPolitical, ClaimEconomic, ClaimForeignPolicy:
		return true
	}
	return false
}

// EvidenceRole describes how a source is being used relative to a claim.
// The role decides whether partisanship is penalized: neutral evidence from
// an extreme outlet is suspect, a deliberate counternarrative pick is not.
type EvidenceRole string

const (
	RoleSupport          EvidenceRole = "support"
	RoleRefute           EvidenceRole = "refute"
	RoleNeutral          EvidenceRole = "neutral"
	RoleCounternarrative EvidenceRole = "counternarrative"
)

// ParseEvidenceRole validates a wire-format evidence role. Empty input falls
// back to the neutral role.
func ParseEvidenceRole(s string) (EvidenceRole, error) {
	switch EvidenceRole(s) {
	case RoleSupport, RoleRefute, RoleNeutral, RoleCounternarrative:
		return EvidenceRole(s), nil
	case "":
		return RoleNeutral, nil
	}
	return "", fmt.Errorf("unknown evidence role: %q (supported: support, refute, neutral, counternarrative)", s)
}

// EvidenceContext is the full usage context a source is scored under.
type EvidenceContext struct {
	ClaimType    ClaimType    `json:"claim_type"`
	EvidenceRole EvidenceRole `json:"evidence_role"`
}

// DefaultContext is the context assumed when a caller supplies none:
// a general claim with the source used as neutral evidence.
func DefaultContext() EvidenceContext {
	return EvidenceContext{
		ClaimType:    ClaimGeneral,
		EvidenceRole: RoleNeutral,
	}
}
