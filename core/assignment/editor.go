package assignment

import (
	"errors"

	"github.com/google/uuid"

	"github.com/trezcool/darasa/core"
)

var (
	ErrDraftNotFound    = errors.New("draft not found")
	ErrQuestionNotFound = errors.New("no question at this position")

	// ErrPublishInFlight rejects a publish while a previous one for the same
	// draft has not come back yet.
	ErrPublishInFlight = errors.New("draft is already being published")

	errTitleRequired = errors.New("Assignment title is required")
	errTopicRequired = errors.New("Please enter a topic")
)

// Draft is an assignment in the editing state, not yet persisted. It only
// lives in memory: whatever is not published is gone when the process exits.
// AssignmentID is set when the draft edits an existing assignment and decides
// which mutation the LMS receives on publish.
type Draft struct {
	ID           string          `json:"id"`
	AssignmentID string          `json:"assignment_id,omitempty"`
	Title        string          `json:"title"`
	Questions    []DraftQuestion `json:"questions"`
}

// NewDraft seeds a create-mode draft from generated questions.
// Scores start empty until the teacher fills them in.
func NewDraft(generated []GeneratedQuestion) *Draft {
	questions := make([]DraftQuestion, 0, len(generated))
	for _, gq := range generated {
		questions = append(questions, DraftQuestion{Question: gq.Question, Topic: gq.Topic})
	}
	return &Draft{
		ID:        uuid.New().String(),
		Questions: questions,
	}
}

// NewDraftFromAssignment seeds an update-mode draft from a persisted
// assignment; questions keep their persisted ids.
func NewDraftFromAssignment(a Assignment) *Draft {
	questions := make([]DraftQuestion, len(a.Questions))
	copy(questions, a.Questions)
	return &Draft{
		ID:           uuid.New().String(),
		AssignmentID: a.AssignmentID,
		Title:        a.Title,
		Questions:    questions,
	}
}

func (d *Draft) SetTitle(title string) {
	d.Title = title
}

// SetQuestionText replaces the question text at i in place; ordering is stable.
func (d *Draft) SetQuestionText(i int, text string) error {
	if err := d.checkIndex(i); err != nil {
		return err
	}
	d.Questions[i].Question = text
	return nil
}

// SetScore replaces the score at i in place; ordering is stable.
func (d *Draft) SetScore(i int, score string) error {
	if err := d.checkIndex(i); err != nil {
		return err
	}
	d.Questions[i].Score = score
	return nil
}

// DeleteQuestion removes exactly the entry at i; the rest keep their relative
// order. No confirmation step.
func (d *Draft) DeleteQuestion(i int) error {
	if err := d.checkIndex(i); err != nil {
		return err
	}
	d.Questions = append(d.Questions[:i], d.Questions[i+1:]...)
	return nil
}

// AddCustomQuestion appends a blank question under the given topic.
// A blank topic is rejected without mutating the list.
func (d *Draft) AddCustomQuestion(topic string) error {
	topic = core.CleanString(topic)
	if topic == "" {
		return core.NewValidationError(errTopicRequired, core.FieldError{Field: "topic", Error: errTopicRequired.Error()})
	}
	d.Questions = append(d.Questions, DraftQuestion{Question: "", Topic: topic, Score: ""})
	return nil
}

// CheckPublishable validates the publish preconditions that need no session.
func (d *Draft) CheckPublishable() error {
	if core.CleanString(d.Title) == "" {
		return core.NewValidationError(errTitleRequired, core.FieldError{Field: "title", Error: errTitleRequired.Error()})
	}
	return nil
}

// NormalizedQuestions returns the outgoing publish payload: every empty score
// becomes the literal "0". The draft itself keeps its raw values.
func (d *Draft) NormalizedQuestions() []DraftQuestion {
	questions := make([]DraftQuestion, len(d.Questions))
	copy(questions, d.Questions)
	for i := range questions {
		if questions[i].Score == "" {
			questions[i].Score = "0"
		}
	}
	return questions
}

func (d *Draft) checkIndex(i int) error {
	if i < 0 || i >= len(d.Questions) {
		return ErrQuestionNotFound
	}
	return nil
}

// copy returns a detached snapshot safe to hand across the API boundary.
func (d *Draft) copy() Draft {
	cp := *d
	cp.Questions = make([]DraftQuestion, len(d.Questions))
	copy(cp.Questions, d.Questions)
	return cp
}
