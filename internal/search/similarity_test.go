package search

import (
	"testing"
)

func TestMatchPercentage(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want float64
	}{
		{name: "identical", a: "work", b: "work", want: 100},
		{name: "both empty", a: "", b: "", want: 100},
		{name: "empty query", a: "", b: "work", want: 0},
		{name: "empty candidate", a: "work", b: "", want: 0},
		{name: "one substitution", a: "work", b: "worm", want: 75},
		{name: "substring of longer name", a: "port", b: "report", want: 66.67},
		{name: "case sensitive", a: "Work", b: "work", want: 75},
		{name: "completely different", a: "abc", b: "xyz", want: 0},
		{name: "multibyte runes", a: "café", b: "cafe", want: 75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchPercentage(tt.a, tt.b)
			if got != tt.want {
				t.Errorf("MatchPercentage(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestMatchPercentageSymmetric(t *testing.T) {
	pairs := [][2]string{
		{"report.pdf", "report-final.pdf"},
		{"urgent", "urge"},
		{"", "x"},
		{"holiday photos", "photos"},
	}

	for _, p := range pairs {
		ab := MatchPercentage(p[0], p[1])
		ba := MatchPercentage(p[1], p[0])
		if ab != ba {
			t.Errorf("MatchPercentage not symmetric for %q/%q: %v != %v", p[0], p[1], ab, ba)
		}
		if ab < 0 || ab > 100 {
			t.Errorf("MatchPercentage(%q, %q) = %v, out of range", p[0], p[1], ab)
		}
	}
}

func TestRank(t *testing.T) {
	names := []string{"workshop", "work", "homework", "network", "work"}

	matches := Rank("work", names, func(s string) string { return s })
	if len(matches) != len(names) {
		t.Fatalf("Rank returned %d matches, want %d", len(matches), len(names))
	}

	if matches[0].Item != "work" || matches[0].MatchPercentage != 100 {
		t.Errorf("top match = %+v, want exact 'work'", matches[0])
	}

	for i := 1; i < len(matches); i++ {
		if matches[i].MatchPercentage > matches[i-1].MatchPercentage {
			t.Errorf("matches not sorted at %d: %v > %v", i, matches[i].MatchPercentage, matches[i-1].MatchPercentage)
		}
	}
}

func TestRankKeepsInputOrderForTies(t *testing.T) {
	type named struct {
		id   int
		name string
	}
	items := []named{{1, "abcd"}, {2, "abce"}, {3, "abcf"}}

	matches := Rank("abcx", items, func(n named) string { return n.name })
	for i, m := range matches {
		if m.Item.id != i+1 {
			t.Errorf("position %d holds id %d, want %d", i, m.Item.id, i+1)
		}
	}
}

func TestRankEmpty(t *testing.T) {
	matches := Rank("anything", []string{}, func(s string) string { return s })
	if len(matches) != 0 {
		t.Errorf("expected no matches, got %d", len(matches))
	}
}

func TestContains(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  bool
	}{
		{"Work", "work", true},
		{"homework", "WORK", true},
		{"École", "École", true},
		{"ÉCOLE", "école", true},
		{"école primaire", "ÉCOLE", true},
		{"Straße", "STRASSE", false},
		{"100%_done", "%", true},
		{"work", "wrk", false},
		{"anything", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name+"/"+tt.query, func(t *testing.T) {
			if got := Contains(tt.name, tt.query); got != tt.want {
				t.Errorf("Contains(%q, %q) = %v, want %v", tt.name, tt.query, got, tt.want)
			}
		})
	}
}

func TestFilterKeepsOrder(t *testing.T) {
	items := []string{"Work", "play", "homework", "ÉCOLE work"}
	got := Filter("WORK", items, func(s string) string { return s })
	want := []string{"Work", "homework", "ÉCOLE work"}
	if len(got) != len(want) {
		t.Fatalf("Filter() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Filter()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
