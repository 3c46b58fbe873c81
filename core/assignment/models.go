package assignment

import (
	"context"
	"io"

	"github.com/trezcool/darasa/core"
)

// Note is a teacher-uploaded study document, immutable on this side;
// it is only ever referenced by id for assignment generation.
type Note struct {
	ID      string `json:"id"`
	Subject string `json:"subject"`
	Topic   string `json:"topic"`
}

// GeneratedQuestion is produced by the LMS from a set of note ids; not yet scored.
type GeneratedQuestion struct {
	Question string `json:"question"`
	Topic    string `json:"topic"`
}

// DraftQuestion is one entry of a working assignment draft.
// Score is a text-encoded number and stays "" until the teacher scores it;
// it is only normalized to "0" in the outgoing publish request.
// QuestionID is set only when editing a persisted assignment.
type DraftQuestion struct {
	QuestionID string `json:"question_id,omitempty"`
	Question   string `json:"question"`
	Topic      string `json:"topic"`
	Score      string `json:"score"`
}

// Assignment is the persisted form, as the LMS returns it.
type Assignment struct {
	AssignmentID string          `json:"assignment_id"`
	Title        string          `json:"title"`
	Questions    []DraftQuestion `json:"questions,omitempty"`
}

type Class struct {
	ClassID   string `json:"class_id"`
	ClassName string `json:"class_name"`
	Grade     string `json:"grade"`
	Section   string `json:"section"`
}

// NoteUpload contains everything needed to push a new note to the LMS.
type NoteUpload struct {
	Subject  string `json:"subject" validate:"required"`
	Topic    string `json:"topic" validate:"required"`
	Filename string `json:"filename" validate:"required"`
	File     io.Reader
}

func (nu *NoteUpload) Validate() error {
	nu.Subject = core.CleanString(nu.Subject)
	nu.Topic = core.CleanString(nu.Topic)
	nu.Filename = core.CleanString(nu.Filename)
	return core.Validate.Struct(nu)
}

// Client is the remote LMS seen from the assignment workflow. Success is a 2xx
// response; anything else surfaces as *core.RemoteAPIError carrying the
// server-provided message when one was present. Calls are never retried here.
type Client interface {
	ListNotes(ctx context.Context, teacherID string) ([]Note, error)
	UploadNotes(ctx context.Context, teacherID string, up NoteUpload) error
	GenerateAssignment(ctx context.Context, noteIDs []string) ([]GeneratedQuestion, error)
	CreateAssignment(ctx context.Context, teacherID, title string, questions []DraftQuestion) (Assignment, error)
	UpdateAssignment(ctx context.Context, assignmentID, teacherID, title string, questions []DraftQuestion) (Assignment, error)
	GetAssignment(ctx context.Context, assignmentID string) (Assignment, error)
	ListTeacherAssignments(ctx context.Context, teacherID string) ([]Assignment, error)
	ListTeacherClasses(ctx context.Context, teacherID string) ([]Class, error)
	AssignToClass(ctx context.Context, assignmentID, classID string) error
	ListStudentAssignments(ctx context.Context, studentID string) ([]Assignment, error)
}
