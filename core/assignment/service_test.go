package assignment

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/session"
)

type fakeClient struct {
	notes     []Note
	generated []GeneratedQuestion
	stored    map[string]Assignment
	err       error

	calls         map[string]int
	lastNoteIDs   []string
	lastQuestions []DraftQuestion

	// block, when set, holds CreateAssignment until released. Lets tests
	// keep a publish in flight.
	block chan struct{}
}

var _ Client = (*fakeClient)(nil)

func newFakeClient() *fakeClient {
	return &fakeClient{stored: make(map[string]Assignment), calls: make(map[string]int)}
}

func (c *fakeClient) ListNotes(context.Context, string) ([]Note, error) {
	c.calls["ListNotes"]++
	return c.notes, c.err
}

func (c *fakeClient) UploadNotes(_ context.Context, _ string, _ NoteUpload) error {
	c.calls["UploadNotes"]++
	return c.err
}

func (c *fakeClient) GenerateAssignment(_ context.Context, noteIDs []string) ([]GeneratedQuestion, error) {
	c.calls["GenerateAssignment"]++
	c.lastNoteIDs = noteIDs
	if c.err != nil {
		return nil, c.err
	}
	return c.generated, nil
}

func (c *fakeClient) CreateAssignment(_ context.Context, _, title string, questions []DraftQuestion) (Assignment, error) {
	c.calls["CreateAssignment"]++
	c.lastQuestions = questions
	if c.block != nil {
		<-c.block
	}
	if c.err != nil {
		return Assignment{}, c.err
	}
	a := Assignment{AssignmentID: "a1", Title: title, Questions: questions}
	c.stored[a.AssignmentID] = a
	return a, nil
}

func (c *fakeClient) UpdateAssignment(_ context.Context, assignmentID, _, title string, questions []DraftQuestion) (Assignment, error) {
	c.calls["UpdateAssignment"]++
	c.lastQuestions = questions
	if c.err != nil {
		return Assignment{}, c.err
	}
	a := Assignment{AssignmentID: assignmentID, Title: title, Questions: questions}
	c.stored[assignmentID] = a
	return a, nil
}

func (c *fakeClient) GetAssignment(_ context.Context, assignmentID string) (Assignment, error) {
	c.calls["GetAssignment"]++
	if c.err != nil {
		return Assignment{}, c.err
	}
	return c.stored[assignmentID], nil
}

func (c *fakeClient) ListTeacherAssignments(context.Context, string) ([]Assignment, error) {
	c.calls["ListTeacherAssignments"]++
	return nil, c.err
}

func (c *fakeClient) ListTeacherClasses(context.Context, string) ([]Class, error) {
	c.calls["ListTeacherClasses"]++
	return nil, c.err
}

func (c *fakeClient) AssignToClass(context.Context, string, string) error {
	c.calls["AssignToClass"]++
	return c.err
}

func (c *fakeClient) ListStudentAssignments(context.Context, string) ([]Assignment, error) {
	c.calls["ListStudentAssignments"]++
	return nil, c.err
}

type recordNotifier struct {
	notifs []core.Notification
}

func (n *recordNotifier) Notify(notif core.Notification) { n.notifs = append(n.notifs, notif) }

func (n *recordNotifier) last() core.Notification {
	if len(n.notifs) == 0 {
		return core.Notification{}
	}
	return n.notifs[len(n.notifs)-1]
}

func setupService() (*Service, *fakeClient, *recordNotifier) {
	lms := newFakeClient()
	notifier := new(recordNotifier)
	return NewService(lms, notifier), lms, notifier
}

func teacherSession() session.Session {
	return session.Session{ID: "t1", Name: "Jane", Role: session.RoleTeacher}
}

func TestService_sessionGuards(t *testing.T) {
	svc, lms, _ := setupService()
	ctx := context.Background()
	none := session.Session{}

	_, _, err := svc.Notes(ctx, none)
	assert.Equal(t, session.ErrNoSession, err)
	_, err = svc.Generate(ctx, none)
	assert.Equal(t, session.ErrNoSession, err)
	_, err = svc.Assignments(ctx, none)
	assert.Equal(t, session.ErrNoSession, err)
	err = svc.UploadNote(ctx, none, NoteUpload{})
	assert.Equal(t, session.ErrNoSession, err)

	// precondition failures never reach the network
	assert.Empty(t, lms.calls)
}

func TestService_Notes(t *testing.T) {
	svc, lms, _ := setupService()
	ctx := context.Background()
	sess := teacherSession()
	lms.notes = []Note{{ID: "n1"}, {ID: "n2"}}

	notes, selected, err := svc.Notes(ctx, sess)
	require.NoError(t, err)
	assert.Equal(t, lms.notes, notes)
	assert.Empty(t, selected)

	_, err = svc.ToggleNote(ctx, sess, "n2")
	require.NoError(t, err)

	// a refresh that drops n2 also drops it from the selection
	lms.notes = []Note{{ID: "n1"}}
	_, selected, err = svc.Notes(ctx, sess)
	require.NoError(t, err)
	assert.Empty(t, selected)
}

func TestService_Generate(t *testing.T) {
	ctx := context.Background()
	sess := teacherSession()

	t.Run("empty selection aborts before any request", func(t *testing.T) {
		svc, lms, _ := setupService()

		_, err := svc.Generate(ctx, sess)
		var vErr *core.ValidationError
		require.True(t, errors.As(err, &vErr))
		assert.Equal(t, "No notes selected", vErr.Error())
		assert.Zero(t, lms.calls["GenerateAssignment"])
	})

	t.Run("failure leaves the selection for a retry", func(t *testing.T) {
		svc, lms, notifier := setupService()
		lms.notes = []Note{{ID: "n1"}}
		_, _, err := svc.Notes(ctx, sess)
		require.NoError(t, err)
		_, err = svc.ToggleNote(ctx, sess, "n1")
		require.NoError(t, err)

		lms.err = &core.RemoteAPIError{StatusCode: 500, Message: "generator down"}
		_, err = svc.Generate(ctx, sess)
		require.Error(t, err)
		assert.Equal(t, core.NotifyError, notifier.last().Level)
		assert.Equal(t, "generator down", notifier.last().Message)

		lms.err = nil
		_, err = svc.ToggleNote(ctx, sess, "n1") // still selected: this deselects
		require.NoError(t, err)
		selected, err := svc.ToggleNote(ctx, sess, "n1")
		require.NoError(t, err)
		assert.Equal(t, []string{"n1"}, selected)
	})

	t.Run("success seeds a draft and clears the selection", func(t *testing.T) {
		svc, lms, notifier := setupService()
		lms.notes = []Note{{ID: "n1"}, {ID: "n2"}}
		lms.generated = []GeneratedQuestion{{Question: "What is x?", Topic: "Algebra"}}
		_, _, err := svc.Notes(ctx, sess)
		require.NoError(t, err)
		_, err = svc.ToggleNote(ctx, sess, "n2")
		require.NoError(t, err)

		draft, err := svc.Generate(ctx, sess)
		require.NoError(t, err)
		assert.Equal(t, []string{"n2"}, lms.lastNoteIDs)
		assert.Equal(t, "Assignment generated successfully", notifier.last().Message)

		stored, err := svc.Draft(draft.ID)
		require.NoError(t, err)
		assert.Equal(t, draft, stored)

		_, selected, err := svc.Notes(ctx, sess)
		require.NoError(t, err)
		assert.Empty(t, selected)
	})
}

func TestService_Publish(t *testing.T) {
	ctx := context.Background()
	sess := teacherSession()

	seed := func(t *testing.T, svc *Service, lms *fakeClient) Draft {
		t.Helper()
		lms.notes = []Note{{ID: "n1"}}
		lms.generated = []GeneratedQuestion{{Question: "What is x?", Topic: "Algebra"}}
		_, _, err := svc.Notes(ctx, sess)
		require.NoError(t, err)
		_, err = svc.ToggleNote(ctx, sess, "n1")
		require.NoError(t, err)
		draft, err := svc.Generate(ctx, sess)
		require.NoError(t, err)
		return draft
	}

	t.Run("unknown draft", func(t *testing.T) {
		svc, _, _ := setupService()
		_, err := svc.Publish(ctx, sess, "nope")
		assert.Equal(t, ErrDraftNotFound, err)
	})

	t.Run("missing title aborts before any request", func(t *testing.T) {
		svc, lms, _ := setupService()
		draft := seed(t, svc, lms)

		_, err := svc.Publish(ctx, sess, draft.ID)
		var vErr *core.ValidationError
		require.True(t, errors.As(err, &vErr))
		assert.Equal(t, "Assignment title is required", vErr.Error())
		assert.Zero(t, lms.calls["CreateAssignment"])
	})

	t.Run("missing session aborts before any request", func(t *testing.T) {
		svc, lms, _ := setupService()
		draft := seed(t, svc, lms)
		_, err := svc.SetDraftTitle(draft.ID, "Quiz 1")
		require.NoError(t, err)

		_, err = svc.Publish(ctx, session.Session{}, draft.ID)
		assert.Equal(t, session.ErrNoSession, err)
		assert.Zero(t, lms.calls["CreateAssignment"])
	})

	t.Run("create publish normalizes scores and reseeds the editor", func(t *testing.T) {
		svc, lms, notifier := setupService()
		draft := seed(t, svc, lms)
		_, err := svc.SetDraftTitle(draft.ID, "  Quiz 1  ")
		require.NoError(t, err)

		fresh, err := svc.Publish(ctx, sess, draft.ID)
		require.NoError(t, err)

		// outgoing payload got the "0", the title got trimmed
		require.Len(t, lms.lastQuestions, 1)
		assert.Equal(t, "0", lms.lastQuestions[0].Score)
		assert.Equal(t, "Quiz 1", lms.stored["a1"].Title)
		assert.Equal(t, "Assignment published successfully", notifier.last().Message)

		// the editor now holds a fresh update-mode draft
		assert.NotEqual(t, draft.ID, fresh.ID)
		assert.Equal(t, "a1", fresh.AssignmentID)
		_, err = svc.Draft(draft.ID)
		assert.Equal(t, ErrDraftNotFound, err)

		// a second publish takes the update path
		_, err = svc.Publish(ctx, sess, fresh.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, lms.calls["CreateAssignment"])
		assert.Equal(t, 1, lms.calls["UpdateAssignment"])
	})

	t.Run("one in-flight publish per draft", func(t *testing.T) {
		svc, lms, _ := setupService()
		draft := seed(t, svc, lms)
		_, err := svc.SetDraftTitle(draft.ID, "Quiz 1")
		require.NoError(t, err)

		lms.block = make(chan struct{})

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Publish(ctx, sess, draft.ID)
			assert.NoError(t, err)
		}()

		// wait for the first publish to be in flight
		for {
			svc.mu.Lock()
			pending := svc.publishing[draft.ID]
			svc.mu.Unlock()
			if pending {
				break
			}
			time.Sleep(time.Millisecond)
		}

		_, err = svc.Publish(ctx, sess, draft.ID)
		assert.Equal(t, ErrPublishInFlight, err)

		close(lms.block)
		wg.Wait()
		assert.Equal(t, 1, lms.calls["CreateAssignment"])
	})

	t.Run("failure keeps the draft for a retry", func(t *testing.T) {
		svc, lms, notifier := setupService()
		draft := seed(t, svc, lms)
		_, err := svc.SetDraftTitle(draft.ID, "Quiz 1")
		require.NoError(t, err)

		lms.err = errors.New("connection refused")
		_, err = svc.Publish(ctx, sess, draft.ID)
		require.Error(t, err)
		assert.Equal(t, "An error occurred", notifier.last().Message)

		lms.err = nil
		_, err = svc.Publish(ctx, sess, draft.ID)
		require.NoError(t, err)
	})
}

func TestService_UploadNote(t *testing.T) {
	svc, lms, notifier := setupService()
	ctx := context.Background()
	sess := teacherSession()

	err := svc.UploadNote(ctx, sess, NoteUpload{Subject: "Math"})
	require.Error(t, err, "missing topic and filename")
	assert.Zero(t, lms.calls["UploadNotes"])

	err = svc.UploadNote(ctx, sess, NoteUpload{Subject: "Math", Topic: "Algebra", Filename: "algebra.pdf"})
	require.NoError(t, err)
	assert.Equal(t, 1, lms.calls["UploadNotes"])
	assert.Equal(t, "Note uploaded successfully", notifier.last().Message)
}

func TestService_OpenAssignment(t *testing.T) {
	svc, lms, _ := setupService()
	ctx := context.Background()
	sess := teacherSession()
	lms.stored["a1"] = Assignment{
		AssignmentID: "a1",
		Title:        "Quiz 1",
		Questions:    []DraftQuestion{{QuestionID: "q1", Question: "What is x?", Topic: "Algebra", Score: "5"}},
	}

	draft, err := svc.OpenAssignment(ctx, sess, "a1")
	require.NoError(t, err)
	assert.Equal(t, "a1", draft.AssignmentID)
	assert.Equal(t, "Quiz 1", draft.Title)
	assert.Equal(t, lms.stored["a1"].Questions, draft.Questions)

	// the draft is editable like any other
	_, err = svc.SetScore(draft.ID, 0, "10")
	require.NoError(t, err)
}
