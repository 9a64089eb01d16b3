// Package chat holds the transcript and session flags of one chat session.
//
// State is a plain value. Every transition takes a State and returns a new
// one without sharing the message slice, so a snapshot handed to a renderer
// is never mutated behind its back.
package chat

import (
	"strings"

	"github.com/google/uuid"

	apierrors "github.com/diogo/browseagent/internal/errors"
	"github.com/diogo/browseagent/internal/models"
)

// WelcomeID is the fixed id of the greeting message
const WelcomeID = "init"

// WelcomeText greets the user when a session starts
const WelcomeText = "Hello! I am an AI Browser Agent. Give me a task or question, and optionally a URL for context. I'll use Google Search to find the information you need."

// FailurePrefix precedes the error text of a failed answer in the transcript
const FailurePrefix = "I'm sorry, something went wrong: "

// State is the transcript plus the transient session flags
type State struct {
	Messages    []models.ChatMessage
	PendingTask string
	PendingURL  string
	Loading     bool
	LastError   string

	// seq is the last request number handed out, inflight the one awaiting
	// resolution (0 when idle).
	seq      uint64
	inflight uint64
}

// Request is a submission accepted by Submit
type Request struct {
	Seq  uint64
	Task string
	URL  string
}

// New returns the initial state: only the welcome message, idle, no error
func New() State {
	return State{
		Messages: []models.ChatMessage{{
			ID:      WelcomeID,
			Role:    models.RoleModel,
			Content: WelcomeText,
		}},
	}
}

// Reset returns the initial state. The request counter is kept so a result
// for a request issued before the reset can never match a later one.
func Reset(s State) State {
	next := New()
	next.seq = s.seq
	return next
}

// HasError reports whether the last request failed
func (s State) HasError() bool {
	return s.LastError != ""
}

// CanSubmit reports whether Submit would accept the pending input
func (s State) CanSubmit() bool {
	return !s.Loading && strings.TrimSpace(s.PendingTask) != ""
}

// Snapshot returns a copy of s that shares no slices with it
func (s State) Snapshot() State {
	s.Messages = cloneMessages(s.Messages, 0)
	return s
}

// SetPendingTask updates the task input
func SetPendingTask(s State, task string) State {
	s.PendingTask = task
	return s
}

// SetPendingURL updates the URL input
func SetPendingURL(s State, url string) State {
	s.PendingURL = url
	return s
}

// UserContent formats what the transcript shows for a submitted task
func UserContent(task, url string) string {
	if url == "" {
		return task
	}
	return task + "\nContext URL: " + url
}

// AppendUser records the submitted task. PendingTask is cleared while
// PendingURL is kept so follow-up questions reuse the same context.
func AppendUser(s State, task, url string) State {
	s = appendMessage(s, models.ChatMessage{
		ID:      uuid.NewString(),
		Role:    models.RoleUser,
		Content: UserContent(task, url),
	})
	s.PendingTask = ""
	return s
}

// BeginRequest marks a request in flight and clears the previous error
func BeginRequest(s State) State {
	s.Loading = true
	s.LastError = ""
	return s
}

// EndRequest clears the in-flight flag
func EndRequest(s State) State {
	s.Loading = false
	s.inflight = 0
	return s
}

// AppendModelSuccess appends the answer with its citations
func AppendModelSuccess(s State, text string, sources []models.Source) State {
	return appendMessage(s, models.ChatMessage{
		ID:      uuid.NewString(),
		Role:    models.RoleModel,
		Content: text,
		Sources: append([]models.Source{}, sources...),
	})
}

// AppendModelFailure records msg as the last error and appends an apology
func AppendModelFailure(s State, msg string) State {
	s.LastError = msg
	return appendMessage(s, models.ChatMessage{
		ID:      uuid.NewString(),
		Role:    models.RoleModel,
		Content: FailurePrefix + msg,
	})
}

// Submit validates the pending input. A blank task or a request already in
// flight leaves s unchanged and ok is false. Otherwise the user message is
// appended, the request is marked in flight and its description returned.
func Submit(s State) (State, Request, bool) {
	if !s.CanSubmit() {
		return s, Request{}, false
	}

	req := Request{
		Seq:  s.seq + 1,
		Task: s.PendingTask,
		URL:  strings.TrimSpace(s.PendingURL),
	}
	s = AppendUser(s, req.Task, req.URL)
	s = BeginRequest(s)
	s.seq = req.Seq
	s.inflight = req.Seq
	return s, req, true
}

// Resolve applies the outcome of request seq. Outcomes for anything other
// than the request in flight are ignored and s is returned unchanged.
func Resolve(s State, seq uint64, result *models.SearchResult, err error) State {
	if seq == 0 || seq != s.inflight {
		return s
	}

	switch {
	case err != nil:
		s = AppendModelFailure(s, apierrors.UserMessage(apierrors.Translate(err)))
	case result == nil:
		s = AppendModelFailure(s, apierrors.UnknownMessage)
	default:
		s = AppendModelSuccess(s, result.Text, result.Sources)
	}
	return EndRequest(s)
}

// InFlight reports the sequence number awaiting resolution, 0 when idle
func (s State) InFlight() uint64 {
	return s.inflight
}

// LastAnswer returns the most recent model message that answers a request
func LastAnswer(s State) (models.ChatMessage, bool) {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		m := s.Messages[i]
		if m.Role == models.RoleModel && m.ID != WelcomeID {
			return m, true
		}
	}
	return models.ChatMessage{}, false
}

func appendMessage(s State, msg models.ChatMessage) State {
	msgs := cloneMessages(s.Messages, 1)
	s.Messages = append(msgs, msg)
	return s
}

func cloneMessages(in []models.ChatMessage, extra int) []models.ChatMessage {
	out := make([]models.ChatMessage, len(in), len(in)+extra)
	for i, m := range in {
		if m.Sources != nil {
			m.Sources = append([]models.Source{}, m.Sources...)
		}
		out[i] = m
	}
	return out
}
