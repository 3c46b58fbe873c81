package assignment

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/session"
)

// toast texts, kept as the product shipped them
const (
	msgGenerated   = "Assignment generated successfully"
	msgPublished   = "Assignment published successfully"
	msgAssigned    = "Assignment assigned to class successfully"
	msgNoteUpload  = "Note uploaded successfully"
	genericFailure = "An error occurred"
)

type (
	ServiceInterface interface {
		Notes(ctx context.Context, sess session.Session) ([]Note, []string, error)
		ToggleNote(ctx context.Context, sess session.Session, noteID string) ([]string, error)
		UploadNote(ctx context.Context, sess session.Session, up NoteUpload) error
		Generate(ctx context.Context, sess session.Session) (Draft, error)

		Draft(draftID string) (Draft, error)
		SetDraftTitle(draftID, title string) (Draft, error)
		SetQuestionText(draftID string, index int, text string) (Draft, error)
		SetScore(draftID string, index int, score string) (Draft, error)
		DeleteQuestion(draftID string, index int) (Draft, error)
		AddQuestion(draftID, topic string) (Draft, error)
		Publish(ctx context.Context, sess session.Session, draftID string) (Draft, error)

		OpenAssignment(ctx context.Context, sess session.Session, assignmentID string) (Draft, error)
		Assignments(ctx context.Context, sess session.Session) ([]Assignment, error)
		Classes(ctx context.Context, sess session.Session) ([]Class, error)
		AssignToClass(ctx context.Context, sess session.Session, assignmentID, classID string) error
		StudentAssignments(ctx context.Context, sess session.Session) ([]Assignment, error)
		StudentAssignment(ctx context.Context, sess session.Session, assignmentID string) (Assignment, error)
	}

	// Service drives the assignment authoring workflow: note selection,
	// generation, draft editing and publication. All persisted state belongs
	// to the LMS; the service only holds the per-user working state.
	Service struct {
		lms      Client
		notifier core.Notifier

		mu         sync.Mutex
		selectors  map[string]*Selector // keyed by session id
		drafts     map[string]*Draft    // keyed by draft id
		publishing map[string]bool      // draft ids with a publish in flight
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(lms Client, notifier core.Notifier) *Service {
	return &Service{
		lms:        lms,
		notifier:   notifier,
		selectors:  make(map[string]*Selector),
		drafts:     make(map[string]*Draft),
		publishing: make(map[string]bool),
	}
}

// Notes refreshes the notes list from the LMS and returns it along with the
// current selection. Ids that disappeared from the list are dropped from the
// selection.
func (svc *Service) Notes(ctx context.Context, sess session.Session) ([]Note, []string, error) {
	if err := sess.Check(); err != nil {
		return nil, nil, err
	}

	notes, err := svc.lms.ListNotes(ctx, sess.ID)
	if err != nil {
		svc.notifyErr("Failed to fetch notes", err)
		return nil, nil, errors.Wrap(err, "listing notes")
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()
	sel := svc.selector(sess)
	sel.SetNotes(notes)
	return sel.Notes(), sel.Selected(), nil
}

// ToggleNote flips membership of noteID in the selection set.
func (svc *Service) ToggleNote(_ context.Context, sess session.Session, noteID string) ([]string, error) {
	if err := sess.Check(); err != nil {
		return nil, err
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()
	sel := svc.selector(sess)
	if err := sel.Toggle(noteID); err != nil {
		return nil, err
	}
	return sel.Selected(), nil
}

func (svc *Service) UploadNote(ctx context.Context, sess session.Session, up NoteUpload) error {
	if err := sess.Check(); err != nil {
		return err
	}
	if err := up.Validate(); err != nil {
		return err
	}

	if err := svc.lms.UploadNotes(ctx, sess.ID, up); err != nil {
		svc.notifyErr("Upload failed", err)
		return errors.Wrap(err, "uploading note")
	}
	svc.notifier.Notify(core.SuccessNotification("Success", msgNoteUpload))
	return nil
}

// Generate asks the LMS to build questions from the selected notes and seeds a
// fresh create-mode draft with them. An empty selection aborts before any
// request is sent; on failure the selection is left untouched for a retry.
func (svc *Service) Generate(ctx context.Context, sess session.Session) (Draft, error) {
	if err := sess.Check(); err != nil {
		return Draft{}, err
	}

	svc.mu.Lock()
	sel := svc.selector(sess)
	noteIDs := sel.Selected()
	svc.mu.Unlock()

	if len(noteIDs) == 0 {
		return Draft{}, core.NewValidationError(errNoNotesSelected,
			core.FieldError{Field: "notes", Error: errNoNotesSelected.Error()})
	}

	generated, err := svc.lms.GenerateAssignment(ctx, noteIDs)
	if err != nil {
		svc.notifyErr("Failed to generate assignment", err)
		return Draft{}, errors.Wrap(err, "generating assignment")
	}

	draft := NewDraft(generated)

	svc.mu.Lock()
	svc.drafts[draft.ID] = draft
	// the selection view is left behind for the editor; start it clean
	svc.selectors[sess.ID] = NewSelector(sel.Notes())
	svc.mu.Unlock()

	svc.notifier.Notify(core.SuccessNotification("Success", msgGenerated))
	return draft.copy(), nil
}

func (svc *Service) Draft(draftID string) (Draft, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	draft, err := svc.draft(draftID)
	if err != nil {
		return Draft{}, err
	}
	return draft.copy(), nil
}

func (svc *Service) SetDraftTitle(draftID, title string) (Draft, error) {
	return svc.edit(draftID, func(d *Draft) error {
		d.SetTitle(title)
		return nil
	})
}

func (svc *Service) SetQuestionText(draftID string, index int, text string) (Draft, error) {
	return svc.edit(draftID, func(d *Draft) error { return d.SetQuestionText(index, text) })
}

func (svc *Service) SetScore(draftID string, index int, score string) (Draft, error) {
	return svc.edit(draftID, func(d *Draft) error { return d.SetScore(index, score) })
}

func (svc *Service) DeleteQuestion(draftID string, index int) (Draft, error) {
	return svc.edit(draftID, func(d *Draft) error { return d.DeleteQuestion(index) })
}

func (svc *Service) AddQuestion(draftID, topic string) (Draft, error) {
	return svc.edit(draftID, func(d *Draft) error { return d.AddCustomQuestion(topic) })
}

// Publish sends the draft to the LMS. The title and session preconditions are
// reported as distinct validation failures before any network call; scores are
// normalized ("" -> "0") only in the outgoing payload. On success the editor
// is re-seeded from the server's response; on failure the draft is untouched
// and the teacher may retry. A second publish for the same draft while one is
// in flight is rejected.
func (svc *Service) Publish(ctx context.Context, sess session.Session, draftID string) (Draft, error) {
	svc.mu.Lock()
	draft, err := svc.draft(draftID)
	if err != nil {
		svc.mu.Unlock()
		return Draft{}, err
	}
	if err = draft.CheckPublishable(); err != nil {
		svc.mu.Unlock()
		return Draft{}, err
	}
	if err = sess.Check(); err != nil {
		svc.mu.Unlock()
		return Draft{}, err
	}
	if svc.publishing[draftID] {
		svc.mu.Unlock()
		return Draft{}, ErrPublishInFlight
	}
	svc.publishing[draftID] = true
	title := core.CleanString(draft.Title)
	questions := draft.NormalizedQuestions()
	assignmentID := draft.AssignmentID
	svc.mu.Unlock()

	defer func() {
		svc.mu.Lock()
		delete(svc.publishing, draftID)
		svc.mu.Unlock()
	}()

	var published Assignment
	if assignmentID == "" {
		published, err = svc.lms.CreateAssignment(ctx, sess.ID, title, questions)
	} else {
		published, err = svc.lms.UpdateAssignment(ctx, assignmentID, sess.ID, title, questions)
	}
	if err != nil {
		svc.notifyErr("Failed to publish assignment", err)
		return Draft{}, errors.Wrap(err, "publishing assignment")
	}

	// hand the teacher a fresh editor seeded with the server's response
	fresh := NewDraftFromAssignment(published)
	svc.mu.Lock()
	delete(svc.drafts, draftID)
	svc.drafts[fresh.ID] = fresh
	svc.mu.Unlock()

	svc.notifier.Notify(core.SuccessNotification("Success", msgPublished))
	return fresh.copy(), nil
}

// OpenAssignment fetches a persisted assignment and seeds an update-mode
// draft with its questions (persisted ids included).
func (svc *Service) OpenAssignment(ctx context.Context, sess session.Session, assignmentID string) (Draft, error) {
	if err := sess.Check(); err != nil {
		return Draft{}, err
	}

	a, err := svc.lms.GetAssignment(ctx, assignmentID)
	if err != nil {
		svc.notifyErr("Failed to fetch assignment details", err)
		return Draft{}, errors.Wrap(err, "fetching assignment")
	}

	draft := NewDraftFromAssignment(a)
	svc.mu.Lock()
	svc.drafts[draft.ID] = draft
	svc.mu.Unlock()
	return draft.copy(), nil
}

func (svc *Service) Assignments(ctx context.Context, sess session.Session) ([]Assignment, error) {
	if err := sess.Check(); err != nil {
		return nil, err
	}
	assignments, err := svc.lms.ListTeacherAssignments(ctx, sess.ID)
	if err != nil {
		svc.notifyErr("Failed to fetch assignments", err)
		return nil, errors.Wrap(err, "listing teacher assignments")
	}
	return assignments, nil
}

func (svc *Service) Classes(ctx context.Context, sess session.Session) ([]Class, error) {
	if err := sess.Check(); err != nil {
		return nil, err
	}
	classes, err := svc.lms.ListTeacherClasses(ctx, sess.ID)
	if err != nil {
		svc.notifyErr("Failed to fetch classes", err)
		return nil, errors.Wrap(err, "listing teacher classes")
	}
	return classes, nil
}

func (svc *Service) AssignToClass(ctx context.Context, sess session.Session, assignmentID, classID string) error {
	if err := sess.Check(); err != nil {
		return err
	}
	if err := svc.lms.AssignToClass(ctx, assignmentID, classID); err != nil {
		svc.notifyErr("Failed to assign assignment", err)
		return errors.Wrap(err, "assigning to class")
	}
	svc.notifier.Notify(core.SuccessNotification("Success", msgAssigned))
	return nil
}

func (svc *Service) StudentAssignments(ctx context.Context, sess session.Session) ([]Assignment, error) {
	if err := sess.Check(); err != nil {
		return nil, err
	}
	assignments, err := svc.lms.ListStudentAssignments(ctx, sess.ID)
	if err != nil {
		svc.notifyErr("Failed to fetch assignments", err)
		return nil, errors.Wrap(err, "listing student assignments")
	}
	return assignments, nil
}

func (svc *Service) StudentAssignment(ctx context.Context, sess session.Session, assignmentID string) (Assignment, error) {
	if err := sess.Check(); err != nil {
		return Assignment{}, err
	}
	a, err := svc.lms.GetAssignment(ctx, assignmentID)
	if err != nil {
		svc.notifyErr("Failed to fetch assignment details", err)
		return Assignment{}, errors.Wrap(err, "fetching assignment")
	}
	return a, nil
}

// selector must be called with svc.mu held.
func (svc *Service) selector(sess session.Session) *Selector {
	sel, ok := svc.selectors[sess.ID]
	if !ok {
		sel = NewSelector(nil)
		svc.selectors[sess.ID] = sel
	}
	return sel
}

// draft must be called with svc.mu held.
func (svc *Service) draft(draftID string) (*Draft, error) {
	draft, ok := svc.drafts[draftID]
	if !ok {
		return nil, ErrDraftNotFound
	}
	return draft, nil
}

func (svc *Service) edit(draftID string, fn func(*Draft) error) (Draft, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	draft, err := svc.draft(draftID)
	if err != nil {
		return Draft{}, err
	}
	if err = fn(draft); err != nil {
		return Draft{}, err
	}
	return draft.copy(), nil
}

func (svc *Service) notifyErr(title string, err error) {
	msg := genericFailure
	if rErr, ok := errors.Cause(err).(*core.RemoteAPIError); ok && rErr.Message != "" {
		msg = rErr.Message
	}
	svc.notifier.Notify(core.ErrorNotification(title, msg))
}
