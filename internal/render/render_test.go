package render

import (
	"strings"
	"testing"

	"github.com/diogo/browseagent/internal/config"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	if opts.Width != 80 {
		t.Errorf("expected Width=80, got %d", opts.Width)
	}
	if opts.Style != ThemeDark {
		t.Errorf("expected Style='dark', got %s", opts.Style)
	}
	if !opts.EnableEmoji || !opts.PreserveNewLines || !opts.TableWrap {
		t.Errorf("unexpected defaults %+v", opts)
	}
	if opts.InlineTableLinks {
		t.Error("expected InlineTableLinks=false")
	}
}

func TestOptionsWith(t *testing.T) {
	opts := DefaultOptions().WithWidth(120).WithStyle(ThemeLight)
	if opts.Width != 120 || opts.Style != ThemeLight {
		t.Errorf("got %+v", opts)
	}
	if got := opts.WithWidth(0).Width; got != 120 {
		t.Errorf("WithWidth(0) changed width to %d", got)
	}
}

func TestOptionsFromConfig(t *testing.T) {
	t.Setenv("GLAMOUR_STYLE", "")

	cfg := config.DefaultConfig()
	cfg.Markdown.Style = ThemeDracula
	cfg.Markdown.EnableEmoji = false

	opts := OptionsFromConfig(cfg)
	if opts.Style != ThemeDracula {
		t.Errorf("Style = %s, want dracula", opts.Style)
	}
	if opts.EnableEmoji {
		t.Error("EnableEmoji should follow config")
	}

	t.Setenv("GLAMOUR_STYLE", ThemeNoTTY)
	if got := OptionsFromConfig(cfg).Style; got != ThemeNoTTY {
		t.Errorf("GLAMOUR_STYLE should win, got %s", got)
	}
}

func TestResolveStyle(t *testing.T) {
	tests := []struct {
		name string
		want string
		ok   bool
	}{
		{ThemeDark, "dark", true},
		{ThemeTokyoNight, "tokyo-night", true},
		{"catppuccin", "dark", true},
		{"/tmp/custom.json", "", false},
	}
	for _, tt := range tests {
		got, ok := ResolveStyle(tt.name)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ResolveStyle(%q) = %q, %v; want %q, %v", tt.name, got, ok, tt.want, tt.ok)
		}
	}
}

func TestThemeNamesAreBuiltin(t *testing.T) {
	for _, name := range ThemeNames() {
		if !IsBuiltinStyle(name) {
			t.Errorf("%s listed but not resolvable", name)
		}
	}
}

func TestMarkdown(t *testing.T) {
	out, err := Markdown("# Title\n\nSome **bold** text.", DefaultOptions().WithStyle(ThemeNoTTY))
	if err != nil {
		t.Fatalf("Markdown() returned error: %v", err)
	}
	if !strings.Contains(out, "Title") || !strings.Contains(out, "bold") {
		t.Errorf("rendered output lost content: %q", out)
	}
}

func TestMarkdown_PoolsRenderers(t *testing.T) {
	ClearCache()
	opts := DefaultOptions().WithStyle(ThemeASCII).WithWidth(60)

	for i := 0; i < 3; i++ {
		if _, err := Markdown("text", opts); err != nil {
			t.Fatalf("Markdown() returned error: %v", err)
		}
	}
	if CacheSize() != 1 {
		t.Errorf("CacheSize() = %d, want 1", CacheSize())
	}
}

func TestMarkdown_BadStylePath(t *testing.T) {
	if _, err := Markdown("text", DefaultOptions().WithStyle("/nonexistent/style.json")); err == nil {
		t.Error("expected error for missing style file")
	}
}

func TestAnswer_FallsBackToRaw(t *testing.T) {
	got := Answer("plain *answer*", DefaultOptions().WithStyle("/nonexistent/style.json"))
	if got != "plain *answer*" {
		t.Errorf("Answer() = %q, want raw text", got)
	}
}
