package chat

import (
	"context"
	"errors"
	"sync"

	pkgerrors "github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/session"
)

var (
	// ErrPending rejects a send while the previous question is still in flight.
	ErrPending = errors.New("still waiting for the previous answer")

	errEmptyMessage = errors.New("Type a message first")

	genericFailure = "An error occurred"
)

type (
	ServiceInterface interface {
		Open(sess session.Session, title, assignmentID, questionID string) []Message
		Send(ctx context.Context, sess session.Session, text string) ([]Message, error)
		Messages(sess session.Session) ([]Message, error)
		Reset(sess session.Session) []Message
	}

	// Service keeps one chat panel per signed-in user and relays doubts to the
	// LMS. Transcripts live in memory only and die with the process.
	Service struct {
		lms      Doubter
		notifier core.Notifier

		mu     sync.Mutex
		panels map[string]*Panel // keyed by session id
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(lms Doubter, notifier core.Notifier) *Service {
	return &Service{
		lms:      lms,
		notifier: notifier,
		panels:   make(map[string]*Panel),
	}
}

// Open slides the panel in for a question context. The transcript survives
// re-opens within the same process; Reset is the only way to clear it.
func (svc *Service) Open(sess session.Session, title, assignmentID, questionID string) []Message {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	p := svc.panel(sess)
	p.Open(title, assignmentID, questionID)
	return p.Messages()
}

// Send relays one doubt. The user's message lands in the transcript before
// the request is issued; at most one bot message is appended per completed
// request (the fixed fallback when the LMS omits an answer, nothing on
// failure). The in-flight flag is cleared on every path.
func (svc *Service) Send(ctx context.Context, sess session.Session, text string) ([]Message, error) {
	text = core.CleanString(text)
	if text == "" {
		return nil, core.NewValidationError(errEmptyMessage, core.FieldError{Field: "text", Error: errEmptyMessage.Error()})
	}
	if err := sess.Check(); err != nil {
		return nil, err
	}

	svc.mu.Lock()
	p := svc.panel(sess)
	if p.pending {
		svc.mu.Unlock()
		return nil, ErrPending
	}
	p.append(text, false) // optimistic
	p.pending = true
	query := DoubtQuery{
		Question:     text,
		StudentID:    sess.ID,
		AssignmentID: p.AssignmentID,
		QuestionID:   p.QuestionID,
		QueryType:    QueryTypeChat,
		QueryQ:       text,
	}
	svc.mu.Unlock()

	defer func() {
		svc.mu.Lock()
		p.pending = false
		svc.mu.Unlock()
	}()

	answer, err := svc.lms.AskDoubt(ctx, query)
	if err != nil {
		svc.notifyErr("Failed to get response", err)
		return nil, pkgerrors.Wrap(err, "asking doubt")
	}
	if answer == "" {
		answer = FallbackAnswer
	}

	svc.mu.Lock()
	p.append(answer, true)
	msgs := p.Messages()
	svc.mu.Unlock()
	return msgs, nil
}

func (svc *Service) Messages(sess session.Session) ([]Message, error) {
	if err := sess.Check(); err != nil {
		return nil, err
	}
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return svc.panel(sess).Messages(), nil
}

func (svc *Service) Reset(sess session.Session) []Message {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	p := svc.panel(sess)
	p.Reset()
	return p.Messages()
}

// panel must be called with svc.mu held.
func (svc *Service) panel(sess session.Session) *Panel {
	p, ok := svc.panels[sess.ID]
	if !ok {
		p = NewPanel()
		svc.panels[sess.ID] = p
	}
	return p
}

func (svc *Service) notifyErr(title string, err error) {
	msg := genericFailure
	if rErr, ok := pkgerrors.Cause(err).(*core.RemoteAPIError); ok && rErr.Message != "" {
		msg = rErr.Message
	}
	svc.notifier.Notify(core.ErrorNotification(title, msg))
}
