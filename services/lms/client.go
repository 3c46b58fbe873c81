// Package lms implements the HTTP client for the remote LMS backend.
//
// The LMS is an opaque external system: only its request/response contracts
// matter here. Success is any 2xx status; other statuses are reported as
// *core.RemoteAPIError carrying the body's "message" field when present.
// Requests are never retried and carry no client-side timeout; cancellation
// is the caller's business via the context.
package lms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/assignment"
	"github.com/trezcool/darasa/core/chat"
)

type Client struct {
	baseURL string
	http    *http.Client
	logger  core.Logger
}

var (
	_ assignment.Client = (*Client)(nil)
	_ chat.Doubter      = (*Client)(nil)
)

func NewClient(conf *core.Config, logger core.Logger) *Client {
	return &Client{
		baseURL: conf.LMS.BaseURL,
		http:    &http.Client{},
		logger:  logger,
	}
}

func (c *Client) ListNotes(ctx context.Context, teacherID string) ([]assignment.Note, error) {
	var out struct {
		Notes []assignment.Note `json:"notes"`
	}
	if err := c.getJSON(ctx, "/notes/"+url.PathEscape(teacherID), &out); err != nil {
		return nil, err
	}
	return out.Notes, nil
}

func (c *Client) UploadNotes(ctx context.Context, teacherID string, up assignment.NoteUpload) error {
	body := new(bytes.Buffer)
	w := multipart.NewWriter(body)
	if err := w.WriteField("subject", up.Subject); err != nil {
		return errors.Wrap(err, "writing subject field")
	}
	if err := w.WriteField("topic", up.Topic); err != nil {
		return errors.Wrap(err, "writing topic field")
	}
	if err := w.WriteField("teacher_id", teacherID); err != nil {
		return errors.Wrap(err, "writing teacher_id field")
	}
	fw, err := w.CreateFormFile("file", up.Filename)
	if err != nil {
		return errors.Wrap(err, "creating file part")
	}
	if _, err = io.Copy(fw, up.File); err != nil {
		return errors.Wrap(err, "copying file contents")
	}
	if err = w.Close(); err != nil {
		return errors.Wrap(err, "closing multipart writer")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload-notes", body)
	if err != nil {
		return errors.Wrap(err, "building request")
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	return c.do(req, nil)
}

func (c *Client) GenerateAssignment(ctx context.Context, noteIDs []string) ([]assignment.GeneratedQuestion, error) {
	var out struct {
		Questions []assignment.GeneratedQuestion `json:"assignment_questions"`
	}
	// the body is the raw id array, not an object
	if err := c.postJSON(ctx, "/generate-assignment", noteIDs, &out); err != nil {
		return nil, err
	}
	return out.Questions, nil
}

func (c *Client) CreateAssignment(ctx context.Context, teacherID, title string, questions []assignment.DraftQuestion) (assignment.Assignment, error) {
	q := url.Values{}
	q.Set("teacher_id", teacherID)
	q.Set("title", title)
	return c.postAssignment(ctx, "/create-assignment?"+q.Encode(), questions)
}

func (c *Client) UpdateAssignment(ctx context.Context, assignmentID, teacherID, title string, questions []assignment.DraftQuestion) (assignment.Assignment, error) {
	q := url.Values{}
	q.Set("teacher_id", teacherID)
	q.Set("title", title)
	path := "/update-assignment/" + url.PathEscape(assignmentID) + "?" + q.Encode()
	return c.postAssignment(ctx, path, questions)
}

// assignmentPayload is the wire shape of a persisted assignment; the LMS names
// the question list assignment_questions.
type assignmentPayload struct {
	AssignmentID string                     `json:"assignment_id"`
	Title        string                     `json:"title"`
	Questions    []assignment.DraftQuestion `json:"assignment_questions"`
}

func (p assignmentPayload) toDomain() assignment.Assignment {
	return assignment.Assignment{
		AssignmentID: p.AssignmentID,
		Title:        p.Title,
		Questions:    p.Questions,
	}
}

func toDomainAssignments(payloads []assignmentPayload) []assignment.Assignment {
	assignments := make([]assignment.Assignment, 0, len(payloads))
	for _, p := range payloads {
		assignments = append(assignments, p.toDomain())
	}
	return assignments
}

func (c *Client) postAssignment(ctx context.Context, path string, questions []assignment.DraftQuestion) (assignment.Assignment, error) {
	var out assignmentPayload
	if err := c.postJSON(ctx, path, questions, &out); err != nil {
		return assignment.Assignment{}, err
	}
	return out.toDomain(), nil
}

func (c *Client) GetAssignment(ctx context.Context, assignmentID string) (assignment.Assignment, error) {
	var out struct {
		Assignment assignmentPayload `json:"assignment"`
	}
	if err := c.getJSON(ctx, "/assignment/"+url.PathEscape(assignmentID), &out); err != nil {
		return assignment.Assignment{}, err
	}
	return out.Assignment.toDomain(), nil
}

func (c *Client) ListTeacherAssignments(ctx context.Context, teacherID string) ([]assignment.Assignment, error) {
	var out struct {
		Assignments []assignmentPayload `json:"assignments"`
	}
	if err := c.getJSON(ctx, "/teacher-assignments/"+url.PathEscape(teacherID), &out); err != nil {
		return nil, err
	}
	return toDomainAssignments(out.Assignments), nil
}

func (c *Client) ListTeacherClasses(ctx context.Context, teacherID string) ([]assignment.Class, error) {
	var out struct {
		Classes []assignment.Class `json:"classes"`
	}
	if err := c.getJSON(ctx, "/teacher-classes/"+url.PathEscape(teacherID), &out); err != nil {
		return nil, err
	}
	return out.Classes, nil
}

func (c *Client) AssignToClass(ctx context.Context, assignmentID, classID string) error {
	path := "/assign-assignment/" + url.PathEscape(assignmentID) + "/" + url.PathEscape(classID)
	return c.postJSON(ctx, path, nil, nil)
}

func (c *Client) ListStudentAssignments(ctx context.Context, studentID string) ([]assignment.Assignment, error) {
	var out struct {
		Assignments []assignmentPayload `json:"assignments"`
	}
	if err := c.getJSON(ctx, "/student-assignments/"+url.PathEscape(studentID), &out); err != nil {
		return nil, err
	}
	return toDomainAssignments(out.Assignments), nil
}

func (c *Client) AskDoubt(ctx context.Context, q chat.DoubtQuery) (string, error) {
	var out struct {
		Answer string `json:"answer"`
	}
	if err := c.postJSON(ctx, "/ask-doubt", q, &out); err != nil {
		return "", err
	}
	return out.Answer, nil
}

// helpers

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return errors.Wrap(err, "building request")
	}
	return c.do(req, out)
}

func (c *Client) postJSON(ctx context.Context, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return errors.Wrap(err, "marshalling request body")
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return errors.Wrap(err, "building request")
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", req.Method, req.URL.Path)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return c.apiError(resp)
	}
	if out == nil {
		return nil
	}
	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "decoding %s %s response", req.Method, req.URL.Path)
	}
	return nil
}

func (c *Client) apiError(resp *http.Response) error {
	apiErr := &core.RemoteAPIError{StatusCode: resp.StatusCode}

	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		apiErr.Message = body.Message
	}
	if c.logger != nil {
		c.logger.Warn(fmt.Sprintf("LMS %s %s: %v", resp.Request.Method, resp.Request.URL.Path, apiErr))
	}
	return apiErr
}
