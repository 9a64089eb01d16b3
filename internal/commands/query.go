package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/diogo/browseagent/internal/chat"
	"github.com/diogo/browseagent/internal/config"
	apierrors "github.com/diogo/browseagent/internal/errors"
	"github.com/diogo/browseagent/internal/render"
)

// Gradient colors for animation
var gradientColors = []lipgloss.Color{
	lipgloss.Color("#ff6b6b"), // Red
	lipgloss.Color("#feca57"), // Yellow
	lipgloss.Color("#48dbfb"), // Cyan
	lipgloss.Color("#ff9ff3"), // Pink
	lipgloss.Color("#54a0ff"), // Blue
	lipgloss.Color("#5f27cd"), // Purple
	lipgloss.Color("#00d2d3"), // Teal
	lipgloss.Color("#1dd1a1"), // Green
}

var (
	colorText     = lipgloss.Color("#c0caf5")
	colorTextDim  = lipgloss.Color("#565f89")
	colorTextMute = lipgloss.Color("#3b4261")
	colorSuccess  = lipgloss.Color("#9ece6a")
	colorPrimary  = lipgloss.Color("#7aa2f7")
	colorError    = lipgloss.Color("#f7768e")
)

// Styles matching the chat TUI
var (
	assistantLabelStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	assistantBubbleStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary).
				Foreground(colorText).
				Padding(0, 1).
				MarginTop(1).
				MarginBottom(1)
)

// errReported marks a failure already printed to the user
var errReported = errors.New("query failed")

// spinner handles the animated loading indicator
type spinner struct {
	out     io.Writer
	message string
	stop    chan struct{}
	done    chan struct{}
	mu      sync.Mutex
	frame   int
	stopped bool
}

func newSpinner(out io.Writer, message string) *spinner {
	return &spinner{
		out:     out,
		message: message,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// start begins the animation
func (s *spinner) start() {
	go func() {
		defer close(s.done)

		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		// Hide cursor
		fmt.Fprint(s.out, "\033[?25l")

		for {
			select {
			case <-s.stop:
				// Clear line and show cursor
				fmt.Fprint(s.out, "\r\033[K\033[?25h")
				return
			case <-ticker.C:
				s.mu.Lock()
				s.render()
				s.frame++
				s.mu.Unlock()
			}
		}
	}()
}

// render draws the current animation frame
func (s *spinner) render() {
	chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}
	barChars := []string{"█", "█", "█", "█", "█", "█", "▓", "▒", "░"}

	spinColor := gradientColors[s.frame%len(gradientColors)]
	spinnerChar := lipgloss.NewStyle().Foreground(spinColor).Bold(true).Render(chars[s.frame%len(chars)])

	var bar strings.Builder
	for i := 0; i < 16; i++ {
		colorIdx := (i + s.frame) % len(gradientColors)
		charIdx := (i + s.frame/2) % len(barChars)
		bar.WriteString(lipgloss.NewStyle().Foreground(gradientColors[colorIdx]).Render(barChars[charIdx]))
	}

	var dots strings.Builder
	numDots := (s.frame / 3) % 4
	for i := 0; i < 3; i++ {
		if i < numDots {
			dotColor := gradientColors[(s.frame+i)%len(gradientColors)]
			dots.WriteString(lipgloss.NewStyle().Foreground(dotColor).Render("●"))
		} else {
			dots.WriteString(lipgloss.NewStyle().Foreground(colorTextMute).Render("○"))
		}
	}

	msg := lipgloss.NewStyle().Foreground(colorText).Render(s.message)
	fmt.Fprintf(s.out, "\r\033[K%s %s %s %s", spinnerChar, bar.String(), msg, dots.String())
}

// stopOnce safely closes the stop channel only once
func (s *spinner) stopOnce() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.stopped {
		close(s.stop)
		s.stopped = true
	}
}

// stopWithSuccess stops the spinner and shows success message
func (s *spinner) stopWithSuccess(message string) {
	s.stopOnce()
	<-s.done

	checkmark := lipgloss.NewStyle().Foreground(colorSuccess).Bold(true).Render("✓")
	msg := lipgloss.NewStyle().Foreground(colorSuccess).Render(message)
	fmt.Fprintf(s.out, "%s %s\n", checkmark, msg)
}

func (s *spinner) stopWithError() {
	s.stopOnce()
	<-s.done
}

// queryInput is one browse request from the command line
type queryInput struct {
	task   string
	url    string
	output string
}

// runQuery sends a single browse request and prints the answer with its sources.
// When rawOutput is true the answer and a plain source list are printed without decoration.
func runQuery(ctx context.Context, d *Dependencies, flags *globalFlags, in queryInput, rawOutput bool) error {
	state := chat.SetPendingURL(chat.SetPendingTask(chat.New(), in.task), in.url)
	state, req, ok := chat.Submit(state)
	if !ok {
		return apierrors.NewValidationError("task", apierrors.ErrEmptyTask)
	}

	rt, cleanup, err := d.setup(ctx, flags)
	if err != nil {
		return err
	}
	defer cleanup()

	var spin *spinner
	if !rawOutput {
		spin = newSpinner(d.Stderr, "The agent is browsing the web")
		spin.start()
	}

	result, err := rt.client.BrowseAndAnswer(ctx, req.URL, req.Task)
	state = chat.Resolve(state, req.Seq, result, err)

	if state.HasError() {
		if spin != nil {
			spin.stopWithError()
		}
		failure := apierrors.Translate(err)
		if failure == nil {
			failure = apierrors.NewUnknownError(nil)
		}
		fmt.Fprintln(d.Stderr, formatErrorMessage(failure, "Browse failed"))
		return errReported
	}
	if spin != nil {
		spin.stopWithSuccess("Done")
	}

	answer, _ := chat.LastAnswer(state)

	if rawOutput {
		text := answer.Content
		if plain := render.SourcesPlain(answer.Sources); plain != "" {
			text += "\n\n" + plain
		}
		if in.output != "" {
			if err := os.WriteFile(in.output, []byte(text), 0o644); err != nil {
				return fmt.Errorf("failed to write output file: %w", err)
			}
			return nil
		}
		fmt.Fprintln(d.Stdout, text)
		return nil
	}

	fmt.Fprintln(d.Stderr)

	if rt.cfg.CopyToClipboard {
		if err := d.Copy(answer.Content); err != nil {
			warnMsg := lipgloss.NewStyle().Foreground(colorError).Render(
				fmt.Sprintf("⚠ Failed to copy to clipboard: %v", err),
			)
			fmt.Fprintln(d.Stderr, warnMsg)
		} else {
			fmt.Fprintln(d.Stderr, lipgloss.NewStyle().Foreground(colorSuccess).Render("✓ Copied to clipboard"))
		}
	}

	if in.output != "" {
		text := answer.Content
		if plain := render.SourcesPlain(answer.Sources); plain != "" {
			text += "\n\n" + plain
		}
		if err := os.WriteFile(in.output, []byte(text), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		successMsg := lipgloss.NewStyle().Foreground(colorSuccess).Render(
			fmt.Sprintf("✓ Response saved to %s", in.output),
		)
		fmt.Fprintln(d.Stderr, successMsg)
		return nil
	}

	bubbleWidth := getTerminalWidth() - 4
	if bubbleWidth < 40 {
		bubbleWidth = 40
	}
	if bubbleWidth > 120 {
		bubbleWidth = 120
	}
	contentWidth := bubbleWidth - 4

	fmt.Fprintln(d.Stdout, assistantLabelStyle.Render("✦ Agent"))

	body := render.Answer(answer.Content, render.OptionsFromConfig(rt.cfg).WithWidth(contentWidth))
	if len(answer.Sources) > 0 {
		body += "\n\n" + render.Sources(answer.Sources, render.DefaultSourceStyles(render.GetTUITheme()), true)
	}
	fmt.Fprintln(d.Stdout, assistantBubbleStyle.Width(bubbleWidth).Render(body))

	return nil
}

// getTerminalWidth returns the terminal width or a default value
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

// isStdoutTTY returns true if stdout is connected to a terminal
func isStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// isStdinPiped returns true if data is being piped into stdin
func isStdinPiped() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// formatErrorMessage formats an error with additional context from structured errors
func formatErrorMessage(err error, context string) string {
	if err == nil {
		return ""
	}

	errorStyle := lipgloss.NewStyle().Foreground(colorError)
	dimStyle := lipgloss.NewStyle().Foreground(colorTextDim)

	var sb strings.Builder
	sb.WriteString(errorStyle.Render(fmt.Sprintf("✗ %s: %s", context, apierrors.UserMessage(err))))

	if status := apierrors.GetHTTPStatus(err); status > 0 {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  HTTP Status: %d", status)))
	}

	if endpoint := apierrors.GetEndpoint(err); endpoint != "" {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  Endpoint: %s", endpoint)))
	}

	switch {
	case apierrors.IsConfigurationError(err):
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  Hint: Export %s with your Gemini API key", strings.Join(config.APIKeyEnvVars, " or "))))
	case apierrors.IsRateLimitError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: You've hit the usage limit. Try again later or use a different model"))
	case apierrors.IsUnknownError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: Run with \"verbose\": true and check the log file for details"))
	}

	return sb.String()
}
