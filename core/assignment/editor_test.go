package assignment

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/darasa/core"
)

func newTestDraft() *Draft {
	return NewDraft([]GeneratedQuestion{
		{Question: "What is x?", Topic: "Algebra"},
		{Question: "What is y?", Topic: "Algebra"},
		{Question: "Name the hypotenuse", Topic: "Geometry"},
	})
}

func TestNewDraft(t *testing.T) {
	d := newTestDraft()

	assert.NotEmpty(t, d.ID)
	assert.Empty(t, d.AssignmentID, "generated drafts are create-mode")
	assert.Empty(t, d.Title)
	require.Len(t, d.Questions, 3)
	for i, q := range d.Questions {
		assert.Empty(t, q.Score, "questions[%d] must start unscored", i)
		assert.Empty(t, q.QuestionID)
	}
}

func TestNewDraftFromAssignment(t *testing.T) {
	a := Assignment{
		AssignmentID: "a1",
		Title:        "Quiz 1",
		Questions:    []DraftQuestion{{QuestionID: "q1", Question: "What is x?", Topic: "Algebra", Score: "5"}},
	}
	d := NewDraftFromAssignment(a)

	assert.NotEmpty(t, d.ID)
	assert.Equal(t, "a1", d.AssignmentID)
	assert.Equal(t, "Quiz 1", d.Title)
	assert.Equal(t, a.Questions, d.Questions)

	// the draft holds its own copy
	d.Questions[0].Score = "10"
	assert.Equal(t, "5", a.Questions[0].Score)
}

func TestDraft_editing(t *testing.T) {
	d := newTestDraft()

	require.NoError(t, d.SetQuestionText(1, "What is 2y?"))
	require.NoError(t, d.SetScore(1, "5"))

	// edits land in place, order is stable
	assert.Equal(t, "What is x?", d.Questions[0].Question)
	assert.Equal(t, DraftQuestion{Question: "What is 2y?", Topic: "Algebra", Score: "5"}, d.Questions[1])
	assert.Equal(t, "Name the hypotenuse", d.Questions[2].Question)

	// out of range
	assert.Equal(t, ErrQuestionNotFound, d.SetQuestionText(3, "nope"))
	assert.Equal(t, ErrQuestionNotFound, d.SetScore(-1, "1"))
	assert.Equal(t, ErrQuestionNotFound, d.DeleteQuestion(9))

	// delete removes exactly one entry, the rest keep their relative order
	require.NoError(t, d.DeleteQuestion(1))
	require.Len(t, d.Questions, 2)
	assert.Equal(t, "What is x?", d.Questions[0].Question)
	assert.Equal(t, "Name the hypotenuse", d.Questions[1].Question)
}

func TestDraft_AddCustomQuestion(t *testing.T) {
	d := newTestDraft()

	// blank topic is rejected without touching the list
	err := d.AddCustomQuestion("   ")
	var vErr *core.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "Please enter a topic", vErr.Error())
	assert.Len(t, d.Questions, 3)

	require.NoError(t, d.AddCustomQuestion("  Trigonometry  "))
	require.Len(t, d.Questions, 4)
	assert.Equal(t, DraftQuestion{Question: "", Topic: "Trigonometry", Score: ""}, d.Questions[3])
}

func TestDraft_CheckPublishable(t *testing.T) {
	d := newTestDraft()

	err := d.CheckPublishable()
	var vErr *core.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "Assignment title is required", vErr.Error())

	d.SetTitle("   ")
	assert.Error(t, d.CheckPublishable(), "whitespace-only title is still missing")

	d.SetTitle("Quiz 1")
	assert.NoError(t, d.CheckPublishable())
}

func TestDraft_NormalizedQuestions(t *testing.T) {
	d := newTestDraft()
	require.NoError(t, d.SetScore(1, "5"))

	normalized := d.NormalizedQuestions()
	assert.Equal(t, []string{"0", "5", "0"}, scoresOf(normalized))

	// the draft keeps its raw values
	assert.Equal(t, []string{"", "5", ""}, scoresOf(d.Questions))
}

func scoresOf(questions []DraftQuestion) []string {
	scores := make([]string, 0, len(questions))
	for _, q := range questions {
		scores = append(scores, q.Score)
	}
	return scores
}
