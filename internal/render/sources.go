package render

import (
	"fmt"
	"net/url"
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"
	"golang.org/x/net/idna"

	"github.com/diogo/browseagent/internal/models"
)

// maxLabelWidth caps the visible width of a citation label
const maxLabelWidth = 48

// Citation is a source prepared for display
type Citation struct {
	Index int    // 1-based position in the answer's source list
	Label string // title, or hostname when the title is empty
	Host  string
	URI   string
	// Linkable is true only for http and https URIs
	Linkable bool
}

// Citations prepares sources for display. Entries without a URI are skipped
// but numbering follows the original positions.
func Citations(sources []models.Source) []Citation {
	out := make([]Citation, 0, len(sources))
	for i, src := range sources {
		uri := sanitize(src.URI)
		if uri == "" {
			continue
		}
		host := DisplayHost(uri)
		label := sanitize(src.Title)
		if label == "" {
			label = host
		}
		out = append(out, Citation{
			Index:    i + 1,
			Label:    runewidth.Truncate(label, maxLabelWidth, "…"),
			Host:     host,
			URI:      uri,
			Linkable: isWebURL(uri),
		})
	}
	return out
}

// DisplayHost returns the hostname of uri in its Unicode form. The raw uri
// is returned when it has no parseable host.
func DisplayHost(uri string) string {
	u, err := url.Parse(uri)
	if err != nil || u.Hostname() == "" {
		return uri
	}
	host := u.Hostname()
	if display, err := idna.Display.ToUnicode(host); err == nil {
		host = display
	}
	return host
}

func isWebURL(uri string) bool {
	u, err := url.Parse(uri)
	if err != nil || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

// sanitize drops control characters so remote text cannot inject terminal
// escape sequences.
func sanitize(s string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s))
}

// SourceStyles holds the lipgloss styles used by Sources
type SourceStyles struct {
	Heading lipgloss.Style
	Index   lipgloss.Style
	Label   lipgloss.Style
	Host    lipgloss.Style
}

// DefaultSourceStyles derives citation styles from a TUI theme
func DefaultSourceStyles(theme TUITheme) SourceStyles {
	return SourceStyles{
		Heading: lipgloss.NewStyle().Foreground(theme.TextDim).Bold(true),
		Index: lipgloss.NewStyle().
			Foreground(theme.Background).
			Background(theme.Accent).
			Padding(0, 1),
		Label: lipgloss.NewStyle().Foreground(theme.Text).Background(theme.Surface).Padding(0, 1),
		Host:  lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true),
	}
}

// Sources renders citations as numbered pills, one per line. When hyperlinks
// is true, web URIs are wrapped in OSC 8 links. Returns "" for no sources.
func Sources(sources []models.Source, st SourceStyles, hyperlinks bool) string {
	cites := Citations(sources)
	if len(cites) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(st.Heading.Render("Sources"))
	for _, c := range cites {
		label := c.Label
		if hyperlinks && c.Linkable {
			label = termenv.Hyperlink(c.URI, label)
		}
		sb.WriteString("\n")
		sb.WriteString(st.Index.Render(fmt.Sprintf("%d", c.Index)))
		sb.WriteString(st.Label.Render(label))
		if c.Host != c.Label {
			sb.WriteString(" ")
			sb.WriteString(st.Host.Render(c.Host))
		}
	}
	return sb.String()
}

// SourcesPlain renders citations for non-terminal output, one per line
func SourcesPlain(sources []models.Source) string {
	cites := Citations(sources)
	if len(cites) == 0 {
		return ""
	}

	lines := make([]string, 0, len(cites)+1)
	lines = append(lines, "Sources:")
	for _, c := range cites {
		lines = append(lines, fmt.Sprintf("[%d] %s - %s", c.Index, c.Label, c.URI))
	}
	return strings.Join(lines, "\n")
}
