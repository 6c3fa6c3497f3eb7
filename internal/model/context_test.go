package model

import "testing"

func TestParseClaimType(t *testing.T) {
	tests := []struct {
		input   string
		want    ClaimType
		wantErr bool
	}{
		{"political", ClaimPolitical, false},
		{"economic", ClaimEconomic, false},
		{"foreign_policy", ClaimForeignPolicy, false},
		{"scientific", ClaimScientific, false},
		{"general", ClaimGeneral, false},
		{"", ClaimGeneral, false},
		{"POLITICAL", "", true},
		{"sports", "", true},
	}

	for _, tt := range tests {
		got, err := ParseClaimType(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseClaimType(%q) expected error, got %q", tt.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseClaimType(%q) unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseClaimType(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestParseEvidenceRole(t *testing.T) {
	tests := []struct {
		input   string
		want    EvidenceRole
		wantErr bool
	}{
		{"support", RoleSupport, false},
		{"refute", RoleRefute, false},
		{"neutral", RoleNeutral, false},
		{"counternarrative", RoleCounternarrative, false},
		{"", RoleNeutral, false},
		{"opposing", "", true},
	}

	for _, tt := range tests {
		got, err := ParseEvidenceRole(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseEvidenceRole(%q) expected error, got %q", tt.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseEvidenceRole(%q) unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseEvidenceRole(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestLeanLabel(t *testing.T) {
	lean := func(v int) *int { return &v }

	tests := []struct {
		name string
		lean *int
		want string
	}{
		{"nil", nil, "Unknown"},
		{"left", lean(-2), "Left"},
		{"lean left", lean(-1), "Lean Left"},
		{"center", lean(0), "Center"},
		{"lean right", lean(1), "Lean Right"},
		{"right", lean(2), "Right"},
		{"out of scale", lean(7), "Unknown"},
	}

	for _, tt := range tests {
		if got := LeanLabel(tt.lean); got != tt.want {
			t.Errorf("%s: LeanLabel = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestDefaultContext(t *testing.T) {
	ctx := DefaultContext()
	if ctx.ClaimType != ClaimGeneral {
		t.Errorf("Expected general claim type, got %q", ctx.ClaimType)
	}
	if ctx.EvidenceRole != RoleNeutral {
		t.Errorf("Expected neutral role, got %q", ctx.EvidenceRole)
	}
}
