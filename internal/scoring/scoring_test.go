package scoring

import (
	"testing"

	"github.com/google/uuid"
	"github.com/lshigami/Quokka/internal/apperr"
	"github.com/lshigami/Quokka/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func singleQuestion(points int) *model.Question {
	q := &model.Question{
		ID:     uuid.New(),
		Type:   model.QuestionSingle,
		Points: points,
	}
	q.Choices = []model.QuestionChoice{
		{ID: uuid.New(), QuestionID: q.ID, Label: "A", IsCorrect: true},
		{ID: uuid.New(), QuestionID: q.ID, Label: "B"},
		{ID: uuid.New(), QuestionID: q.ID, Label: "C"},
	}
	return q
}

func multiQuestion(points int) *model.Question {
	q := &model.Question{
		ID:     uuid.New(),
		Type:   model.QuestionMulti,
		Points: points,
	}
	q.Choices = []model.QuestionChoice{
		{ID: uuid.New(), QuestionID: q.ID, Label: "A", IsCorrect: true},
		{ID: uuid.New(), QuestionID: q.ID, Label: "B", IsCorrect: true},
		{ID: uuid.New(), QuestionID: q.ID, Label: "C"},
		{ID: uuid.New(), QuestionID: q.ID, Label: "D"},
	}
	return q
}

func fillInQuestion(points int, expected string) *model.Question {
	q := &model.Question{
		ID:     uuid.New(),
		Type:   model.QuestionFillIn,
		Points: points,
	}
	q.TextAnswer = &model.QuestionText{ID: uuid.New(), QuestionID: q.ID, Text: expected}
	return q
}

func strptr(s string) *string { return &s }

func TestSingleChoiceCorrectAwardsFullPoints(t *testing.T) {
	q := singleQuestion(5)

	out, err := Grade(q, Submission{SelectedChoiceIDs: []uuid.UUID{q.Choices[0].ID}})
	require.NoError(t, err)

	assert.True(t, out.IsCorrect)
	assert.Equal(t, 5, out.AwardedScore)
	assert.Equal(t, []uuid.UUID{q.Choices[0].ID}, out.ChoiceIDs)
}

func TestSingleChoiceWrongAwardsZero(t *testing.T) {
	q := singleQuestion(5)

	out, err := Grade(q, Submission{SelectedChoiceIDs: []uuid.UUID{q.Choices[1].ID}})
	require.NoError(t, err)

	assert.False(t, out.IsCorrect)
	assert.Equal(t, 0, out.AwardedScore)
}

func TestSingleChoiceRejectsWrongCardinality(t *testing.T) {
	q := singleQuestion(5)

	_, err := Grade(q, Submission{})
	assert.True(t, apperr.Is(err, apperr.CodeAnswerInvalid))

	_, err = Grade(q, Submission{SelectedChoiceIDs: []uuid.UUID{q.Choices[0].ID, q.Choices[1].ID}})
	assert.True(t, apperr.Is(err, apperr.CodeAnswerInvalid))
}

func TestSingleChoiceRejectsForeignChoice(t *testing.T) {
	q := singleQuestion(5)

	_, err := Grade(q, Submission{SelectedChoiceIDs: []uuid.UUID{uuid.New()}})
	assert.True(t, apperr.Is(err, apperr.CodeAnswerInvalidChoice))
}

func TestTrueFalseSharesSingleChoiceRules(t *testing.T) {
	q := &model.Question{ID: uuid.New(), Type: model.QuestionTrueFalse, Points: 2}
	q.Choices = []model.QuestionChoice{
		{ID: uuid.New(), QuestionID: q.ID, Label: "True", IsCorrect: true},
		{ID: uuid.New(), QuestionID: q.ID, Label: "False"},
	}

	out, err := Grade(q, Submission{SelectedChoiceIDs: []uuid.UUID{q.Choices[0].ID}})
	require.NoError(t, err)
	assert.Equal(t, 2, out.AwardedScore)

	_, err = Grade(q, Submission{SelectedChoiceIDs: []uuid.UUID{q.Choices[0].ID, q.Choices[1].ID}})
	assert.True(t, apperr.Is(err, apperr.CodeAnswerInvalid))
}

func TestMultiChoiceExactSetInAnyOrder(t *testing.T) {
	q := multiQuestion(10)

	out, err := Grade(q, Submission{SelectedChoiceIDs: []uuid.UUID{q.Choices[1].ID, q.Choices[0].ID}})
	require.NoError(t, err)

	assert.True(t, out.IsCorrect)
	assert.Equal(t, 10, out.AwardedScore)
}

func TestMultiChoiceNoPartialCredit(t *testing.T) {
	q := multiQuestion(10)

	cases := map[string][]uuid.UUID{
		"subset":   {q.Choices[0].ID},
		"superset": {q.Choices[0].ID, q.Choices[1].ID, q.Choices[2].ID},
		"disjoint": {q.Choices[2].ID, q.Choices[3].ID},
	}
	for name, ids := range cases {
		t.Run(name, func(t *testing.T) {
			out, err := Grade(q, Submission{SelectedChoiceIDs: ids})
			require.NoError(t, err)
			assert.False(t, out.IsCorrect)
			assert.Equal(t, 0, out.AwardedScore)
		})
	}
}

func TestMultiChoiceRejectsEmptyAndForeign(t *testing.T) {
	q := multiQuestion(10)

	_, err := Grade(q, Submission{})
	assert.True(t, apperr.Is(err, apperr.CodeAnswerInvalid))

	_, err = Grade(q, Submission{SelectedChoiceIDs: []uuid.UUID{q.Choices[0].ID, uuid.New()}})
	assert.True(t, apperr.Is(err, apperr.CodeAnswerInvalidChoice))
}

func TestFillInMatchesCaseInsensitive(t *testing.T) {
	q := fillInQuestion(3, "Paris")

	for _, answer := range []string{"Paris", "paris", "PARIS", " Paris "} {
		out, err := Grade(q, Submission{SubmittedText: strptr(answer)})
		require.NoError(t, err, answer)
		assert.True(t, out.IsCorrect, answer)
		assert.Equal(t, 3, out.AwardedScore, answer)
		assert.NotNil(t, out.SubmittedText)
	}
}

func TestFillInWrongAnswerAwardsZero(t *testing.T) {
	q := fillInQuestion(3, "Paris")

	out, err := Grade(q, Submission{SubmittedText: strptr("London")})
	require.NoError(t, err)
	assert.False(t, out.IsCorrect)
	assert.Equal(t, 0, out.AwardedScore)
}

func TestFillInRejectsMissingOrBlankText(t *testing.T) {
	q := fillInQuestion(3, "Paris")

	_, err := Grade(q, Submission{})
	assert.True(t, apperr.Is(err, apperr.CodeAnswerInvalid))

	_, err = Grade(q, Submission{SubmittedText: strptr("   ")})
	assert.True(t, apperr.Is(err, apperr.CodeAnswerInvalid))
}

func TestFillInWithoutExpectedAnswerIsIncorrectNotError(t *testing.T) {
	q := &model.Question{ID: uuid.New(), Type: model.QuestionFillIn, Points: 3}

	out, err := Grade(q, Submission{SubmittedText: strptr("anything")})
	require.NoError(t, err)
	assert.False(t, out.IsCorrect)
	assert.Equal(t, 0, out.AwardedScore)
}

func TestUnsupportedTypeFails(t *testing.T) {
	q := &model.Question{ID: uuid.New(), Type: model.QuestionType("essay"), Points: 3}

	_, err := Grade(q, Submission{SubmittedText: strptr("free text")})
	assert.True(t, apperr.Is(err, apperr.CodeQuestionNotSupported))
}
