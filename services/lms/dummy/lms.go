// Package dummylms provides an in-memory LMS double for tests and local
// development.
package dummylms

import (
	"context"
	"strconv"
	"sync"

	"github.com/trezcool/darasa/core/assignment"
	"github.com/trezcool/darasa/core/chat"
)

type Client struct {
	mu sync.Mutex

	Notes       []assignment.Note
	Generated   []assignment.GeneratedQuestion
	Assignments map[string]assignment.Assignment
	Classes     []assignment.Class
	Answer      string

	// Err, when set, is returned by every call.
	Err error

	// Calls records method invocations in order, by name.
	Calls []string

	LastNoteIDs   []string
	LastUpload    assignment.NoteUpload
	LastQuery     chat.DoubtQuery
	LastQuestions []assignment.DraftQuestion

	nextID int
}

var (
	_ assignment.Client = (*Client)(nil)
	_ chat.Doubter      = (*Client)(nil)
)

func NewClient() *Client {
	return &Client{Assignments: make(map[string]assignment.Assignment)}
}

func (c *Client) record(call string) {
	c.Calls = append(c.Calls, call)
}

// CallCount reports how many times a method was invoked.
func (c *Client) CallCount(call string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, rec := range c.Calls {
		if rec == call {
			n++
		}
	}
	return n
}

func (c *Client) ListNotes(_ context.Context, _ string) ([]assignment.Note, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("ListNotes")
	if c.Err != nil {
		return nil, c.Err
	}
	return append([]assignment.Note(nil), c.Notes...), nil
}

func (c *Client) UploadNotes(_ context.Context, _ string, up assignment.NoteUpload) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("UploadNotes")
	c.LastUpload = up
	return c.Err
}

func (c *Client) GenerateAssignment(_ context.Context, noteIDs []string) ([]assignment.GeneratedQuestion, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("GenerateAssignment")
	c.LastNoteIDs = append([]string(nil), noteIDs...)
	if c.Err != nil {
		return nil, c.Err
	}
	return append([]assignment.GeneratedQuestion(nil), c.Generated...), nil
}

func (c *Client) CreateAssignment(_ context.Context, _, title string, questions []assignment.DraftQuestion) (assignment.Assignment, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("CreateAssignment")
	c.LastQuestions = append([]assignment.DraftQuestion(nil), questions...)
	if c.Err != nil {
		return assignment.Assignment{}, c.Err
	}
	c.nextID++
	a := assignment.Assignment{
		AssignmentID: "a" + strconv.Itoa(c.nextID),
		Title:        title,
		Questions:    questions,
	}
	for i := range a.Questions {
		a.Questions[i].QuestionID = "q" + strconv.Itoa(i+1)
	}
	c.Assignments[a.AssignmentID] = a
	return a, nil
}

func (c *Client) UpdateAssignment(_ context.Context, assignmentID, _, title string, questions []assignment.DraftQuestion) (assignment.Assignment, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("UpdateAssignment")
	c.LastQuestions = append([]assignment.DraftQuestion(nil), questions...)
	if c.Err != nil {
		return assignment.Assignment{}, c.Err
	}
	a := assignment.Assignment{AssignmentID: assignmentID, Title: title, Questions: questions}
	c.Assignments[assignmentID] = a
	return a, nil
}

func (c *Client) GetAssignment(_ context.Context, assignmentID string) (assignment.Assignment, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("GetAssignment")
	if c.Err != nil {
		return assignment.Assignment{}, c.Err
	}
	return c.Assignments[assignmentID], nil
}

func (c *Client) ListTeacherAssignments(_ context.Context, _ string) ([]assignment.Assignment, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("ListTeacherAssignments")
	if c.Err != nil {
		return nil, c.Err
	}
	all := make([]assignment.Assignment, 0, len(c.Assignments))
	for _, a := range c.Assignments {
		all = append(all, a)
	}
	return all, nil
}

func (c *Client) ListTeacherClasses(_ context.Context, _ string) ([]assignment.Class, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("ListTeacherClasses")
	if c.Err != nil {
		return nil, c.Err
	}
	return append([]assignment.Class(nil), c.Classes...), nil
}

func (c *Client) AssignToClass(_ context.Context, _, _ string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("AssignToClass")
	return c.Err
}

func (c *Client) ListStudentAssignments(_ context.Context, _ string) ([]assignment.Assignment, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("ListStudentAssignments")
	if c.Err != nil {
		return nil, c.Err
	}
	all := make([]assignment.Assignment, 0, len(c.Assignments))
	for _, a := range c.Assignments {
		all = append(all, a)
	}
	return all, nil
}

func (c *Client) AskDoubt(_ context.Context, q chat.DoubtQuery) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("AskDoubt")
	c.LastQuery = q
	if c.Err != nil {
		return "", c.Err
	}
	return c.Answer, nil
}
