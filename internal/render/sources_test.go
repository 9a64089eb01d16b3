package render

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/diogo/browseagent/internal/models"
)

func TestDisplayHost(t *testing.T) {
	tests := []struct {
		uri  string
		want string
	}{
		{"https://en.wikipedia.org/wiki/France", "en.wikipedia.org"},
		{"https://xn--mnchen-3ya.de/", "münchen.de"},
		{"http://example.com:8080/a", "example.com"},
		{"not a url", "not a url"},
		{"://broken", "://broken"},
	}
	for _, tt := range tests {
		if got := DisplayHost(tt.uri); got != tt.want {
			t.Errorf("DisplayHost(%q) = %q, want %q", tt.uri, got, tt.want)
		}
	}
}

func TestCitations(t *testing.T) {
	sources := []models.Source{
		{URI: "https://go.dev/doc", Title: "Documentation"},
		{URI: "", Title: "skipped"},
		{URI: "https://example.com/x", Title: ""},
		{URI: "javascript:alert(1)", Title: "evil"},
		{URI: "https://example.org", Title: "bad\x1b[31mtitle"},
	}

	want := []Citation{
		{Index: 1, Label: "Documentation", Host: "go.dev", URI: "https://go.dev/doc", Linkable: true},
		{Index: 3, Label: "example.com", Host: "example.com", URI: "https://example.com/x", Linkable: true},
		{Index: 4, Label: "evil", Host: "javascript:alert(1)", URI: "javascript:alert(1)", Linkable: false},
		{Index: 5, Label: "bad[31mtitle", Host: "example.org", URI: "https://example.org", Linkable: true},
	}
	if diff := cmp.Diff(want, Citations(sources)); diff != "" {
		t.Errorf("Citations() mismatch (-want +got):\n%s", diff)
	}
}

func TestCitations_TruncatesLongTitles(t *testing.T) {
	long := strings.Repeat("a", 200)
	c := Citations([]models.Source{{URI: "https://a.b", Title: long}})
	if len(c) != 1 || !strings.HasSuffix(c[0].Label, "…") {
		t.Fatalf("expected truncated label, got %+v", c)
	}
}

func TestSourcesPlain(t *testing.T) {
	if got := SourcesPlain(nil); got != "" {
		t.Errorf("SourcesPlain(nil) = %q, want empty", got)
	}

	got := SourcesPlain([]models.Source{
		{URI: "https://en.wikipedia.org/wiki/France", Title: "France"},
		{URI: "https://www.britannica.com/place/Paris", Title: "Paris"},
	})
	want := "Sources:\n[1] France - https://en.wikipedia.org/wiki/France\n[2] Paris - https://www.britannica.com/place/Paris"
	if got != want {
		t.Errorf("SourcesPlain() = %q, want %q", got, want)
	}
}

func TestSources(t *testing.T) {
	if got := Sources(nil, DefaultSourceStyles(GetTUITheme()), false); got != "" {
		t.Errorf("Sources(nil) = %q, want empty", got)
	}

	out := Sources([]models.Source{{URI: "https://go.dev", Title: "Go"}}, DefaultSourceStyles(GetTUITheme()), true)
	for _, want := range []string{"Sources", "Go", "go.dev"} {
		if !strings.Contains(out, want) {
			t.Errorf("Sources() output missing %q: %q", want, out)
		}
	}
}
