package counter

import (
	"context"
	"errors"
	"sort"
	"testing"

	"sourcelens/internal/model"
)

func fptr(f float64) *float64 { return &f }
func iptr(i int) *int         { return &i }

// fakeReader serves a fixed set of sources with the same ordering contract
// as the real repository: credibility descending, domain ascending.
type fakeReader struct {
	sources []*model.Source
}

func (f *fakeReader) Lookup(_ context.Context, domain string) (*model.Source, error) {
	for _, src := range f.sources {
		if src.Domain == domain {
			return src, nil
		}
	}
	return nil, model.ErrSourceNotFound
}

func (f *fakeReader) ByLeans(_ context.Context, leans []int, minCredibility float64, limit int) ([]*model.Source, error) {
	wanted := map[int]bool{}
	for _, l := range leans {
		wanted[l] = true
	}

	var out []*model.Source
	for _, src := range f.sources {
		if src.PoliticalLean == nil || !wanted[*src.PoliticalLean] {
			continue
		}
		if src.CredibilityScore == nil || *src.CredibilityScore < minCredibility {
			continue
		}
		out = append(out, src)
	}
	sort.Slice(out, func(i, j int) bool {
		if *out[i].CredibilityScore != *out[j].CredibilityScore {
			return *out[i].CredibilityScore > *out[j].CredibilityScore
		}
		return out[i].Domain < out[j].Domain
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func testReader() *fakeReader {
	return &fakeReader{sources: []*model.Source{
		{Domain: "left-wing.example", CredibilityScore: fptr(72.5), PoliticalLean: iptr(-2)},
		{Domain: "lean-left.example", CredibilityScore: fptr(88), PoliticalLean: iptr(-1)},
		{Domain: "center.example", CredibilityScore: fptr(95), PoliticalLean: iptr(0)},
		{Domain: "lean-right.example", CredibilityScore: fptr(84), PoliticalLean: iptr(1)},
		{Domain: "right-wing.example", CredibilityScore: fptr(65), PoliticalLean: iptr(2)},
		{Domain: "low-cred-right.example", CredibilityScore: fptr(30), PoliticalLean: iptr(2)},
		{Domain: "unscored-right.example", PoliticalLean: iptr(2)},
		{Domain: "no-lean.example", CredibilityScore: fptr(90)},
	}}
}

func TestSelector_Find_OppositeSide(t *testing.T) {
	selector := NewSelector(testReader())

	got, err := selector.Find(context.Background(), "lean-left.example",
		Options{MinCredibility: 60, Limit: 10})
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}

	want := []string{"lean-right.example", "right-wing.example"}
	if len(got) != len(want) {
		t.Fatalf("Expected %d counternarratives, got %d", len(want), len(got))
	}
	for i, domain := range want {
		if got[i].Source.Domain != domain {
			t.Errorf("Position %d: expected %q, got %q", i, domain, got[i].Source.Domain)
		}
	}
}

func TestSelector_Find_CenterGetsBothWings(t *testing.T) {
	selector := NewSelector(testReader())

	got, err := selector.Find(context.Background(), "center.example",
		Options{MinCredibility: 60, Limit: 10})
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}

	// Every non-center source above the floor, best first.
	want := []string{"lean-left.example", "lean-right.example", "left-wing.example", "right-wing.example"}
	if len(got) != len(want) {
		t.Fatalf("Expected %d counternarratives, got %d", len(want), len(got))
	}
	for i, domain := range want {
		if got[i].Source.Domain != domain {
			t.Errorf("Position %d: expected %q, got %q", i, domain, got[i].Source.Domain)
		}
	}
	for _, cn := range got {
		if cn.Source.PoliticalLean == nil || *cn.Source.PoliticalLean == 0 {
			t.Errorf("Center source %q must not counter itself", cn.Source.Domain)
		}
	}
}

func TestSelector_Find_NoLeanNoSignal(t *testing.T) {
	selector := NewSelector(testReader())

	got, err := selector.Find(context.Background(), "no-lean.example",
		Options{MinCredibility: 60, Limit: 10})
	if err != nil {
		t.Fatalf("Expected no error for unleaning subject, got %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Expected empty result, got %d entries", len(got))
	}
}

func TestSelector_Find_UnknownSubject(t *testing.T) {
	selector := NewSelector(testReader())

	_, err := selector.Find(context.Background(), "nowhere.example", Options{})
	if !errors.Is(err, model.ErrSourceNotFound) {
		t.Errorf("Expected ErrSourceNotFound, got %v", err)
	}
}

func TestSelector_Find_PreferredLeansReplaceSides(t *testing.T) {
	selector := NewSelector(testReader())

	// Preferred leans win even when they are on the subject's own side.
	got, err := selector.Find(context.Background(), "lean-left.example",
		Options{MinCredibility: 60, Limit: 10, PreferredLeans: []int{-2, -1}})
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}

	want := []string{"lean-left.example", "left-wing.example"}
	if len(got) != len(want) {
		t.Fatalf("Expected %d counternarratives, got %d", len(want), len(got))
	}
	for i, domain := range want {
		if got[i].Source.Domain != domain {
			t.Errorf("Position %d: expected %q, got %q", i, domain, got[i].Source.Domain)
		}
	}
}

func TestSelector_Find_CredibilityFloor(t *testing.T) {
	selector := NewSelector(testReader())

	// Raising the floor drops right-wing.example (65); unscored sources
	// never qualify at any floor.
	got, err := selector.Find(context.Background(), "lean-left.example",
		Options{MinCredibility: 80, Limit: 10})
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if len(got) != 1 || got[0].Source.Domain != "lean-right.example" {
		t.Fatalf("Expected only lean-right.example, got %+v", got)
	}
}

func TestSelector_Find_Limit(t *testing.T) {
	selector := NewSelector(testReader())

	got, err := selector.Find(context.Background(), "center.example",
		Options{MinCredibility: 0, Limit: 2})
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 counternarratives, got %d", len(got))
	}
	// Best candidates survive the cut.
	if got[0].Source.Domain != "lean-left.example" || got[1].Source.Domain != "lean-right.example" {
		t.Errorf("Expected top-credibility pair, got %q and %q",
			got[0].Source.Domain, got[1].Source.Domain)
	}
}

func TestSelector_Find_ScoredInCounternarrativeRole(t *testing.T) {
	selector := NewSelector(testReader())

	got, err := selector.Find(context.Background(), "lean-left.example",
		Options{MinCredibility: 60, Limit: 10, ClaimType: model.ClaimPolitical})
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if len(got) == 0 {
		t.Fatal("Expected counternarratives")
	}
	for _, cn := range got {
		// No bias penalty applies in the counternarrative role.
		if cn.Scoring.Breakdown.BiasPenalty != 0 {
			t.Errorf("%s: expected no bias penalty, got %v",
				cn.Source.Domain, cn.Scoring.Breakdown.BiasPenalty)
		}
		if cn.Scoring.WeightedScore != *cn.Source.CredibilityScore {
			t.Errorf("%s: expected weighted %v, got %v", cn.Source.Domain,
				*cn.Source.CredibilityScore, cn.Scoring.WeightedScore)
		}
	}
}

// Loosening the floor must never shrink the result set.
func TestSelector_Find_MonotonicInFloor(t *testing.T) {
	selector := NewSelector(testReader())

	prev := -1
	for _, floor := range []float64{90, 80, 70, 60, 0} {
		got, err := selector.Find(context.Background(), "center.example",
			Options{MinCredibility: floor, Limit: 50})
		if err != nil {
			t.Fatalf("Find failed at floor %v: %v", floor, err)
		}
		if prev >= 0 && len(got) < prev {
			t.Errorf("Result shrank when floor dropped to %v: %d < %d", floor, len(got), prev)
		}
		prev = len(got)
	}
}
