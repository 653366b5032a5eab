package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lshigami/Quokka/internal/apperr"
	"github.com/lshigami/Quokka/internal/dto"
	"github.com/lshigami/Quokka/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// publishedQuiz builds a published quiz with three single-choice questions
// worth 5 points each, authored in a fixed order.
func publishedQuiz(timeLimitSeconds int) *model.Quiz {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	quiz := &model.Quiz{
		ID:               uuid.New(),
		Name:             "Capitals",
		TimeLimitSeconds: timeLimitSeconds,
		IsPublished:      true,
	}
	for i := 0; i < 3; i++ {
		q := model.Question{
			ID:        uuid.New(),
			QuizID:    quiz.ID,
			Text:      "Question",
			Type:      model.QuestionSingle,
			Points:    5,
			CreatedAt: base.Add(time.Duration(i) * time.Millisecond),
		}
		q.Choices = []model.QuestionChoice{
			{ID: uuid.New(), QuestionID: q.ID, Label: "Right", IsCorrect: true},
			{ID: uuid.New(), QuestionID: q.ID, Label: "Wrong"},
		}
		quiz.Questions = append(quiz.Questions, q)
	}
	return quiz
}

func newAttemptFixture(quiz *model.Quiz) (AttemptService, *fakeQuizRepo, *fakeAttemptRepo) {
	quizRepo := newFakeQuizRepo(quiz)
	attemptRepo := newFakeAttemptRepo()
	svc := NewAttemptService(quizRepo, attemptRepo, &fakeAnswerWriter{repo: attemptRepo})
	return svc, quizRepo, attemptRepo
}

func answerFor(q *model.Question, correct bool) dto.SaveAnswerRequest {
	for _, c := range q.Choices {
		if c.IsCorrect == correct {
			return dto.SaveAnswerRequest{SelectedChoiceIDs: []uuid.UUID{c.ID}}
		}
	}
	return dto.SaveAnswerRequest{}
}

func TestStartOrResumeReusesActiveAttempt(t *testing.T) {
	quiz := publishedQuiz(600)
	svc, _, _ := newAttemptFixture(quiz)
	userID := uuid.New()

	first, err := svc.StartOrResume(userID, quiz.ID)
	require.NoError(t, err)
	second, err := svc.StartOrResume(userID, quiz.ID)
	require.NoError(t, err)

	assert.Equal(t, first.AttemptID, second.AttemptID)
	assert.Equal(t, quiz.Questions[0].ID, second.Question.ID)
	assert.False(t, second.Question.IsLast)
}

func TestStartOrResumeRejectsUnavailableQuiz(t *testing.T) {
	quiz := publishedQuiz(600)
	quiz.IsPublished = false
	svc, _, _ := newAttemptFixture(quiz)

	_, err := svc.StartOrResume(uuid.New(), quiz.ID)
	assert.True(t, apperr.Is(err, apperr.CodeQuizInvalid))

	_, err = svc.StartOrResume(uuid.New(), uuid.New())
	assert.True(t, apperr.Is(err, apperr.CodeQuizInvalid))
}

func TestStartOrResumeNeverDisclosesCorrectness(t *testing.T) {
	quiz := publishedQuiz(600)
	svc, _, _ := newAttemptFixture(quiz)

	started, err := svc.StartOrResume(uuid.New(), quiz.ID)
	require.NoError(t, err)

	require.Len(t, started.Question.Options, 2)
	for _, opt := range started.Question.Options {
		assert.NotEmpty(t, opt.Text)
	}
}

func TestSaveAnswerAdvancesAndMarksLast(t *testing.T) {
	quiz := publishedQuiz(600)
	svc, _, _ := newAttemptFixture(quiz)
	userID := uuid.New()

	started, err := svc.StartOrResume(userID, quiz.ID)
	require.NoError(t, err)

	next, err := svc.SaveAnswer(userID, started.AttemptID, quiz.Questions[0].ID, answerFor(&quiz.Questions[0], true))
	require.NoError(t, err)
	assert.Equal(t, quiz.Questions[1].ID, next.ID)
	assert.False(t, next.IsLast)

	next, err = svc.SaveAnswer(userID, started.AttemptID, quiz.Questions[1].ID, answerFor(&quiz.Questions[1], true))
	require.NoError(t, err)
	assert.Equal(t, quiz.Questions[2].ID, next.ID)
	assert.True(t, next.IsLast)
}

func TestSaveAnswerOverwritesPreviousAnswer(t *testing.T) {
	quiz := publishedQuiz(600)
	svc, _, attemptRepo := newAttemptFixture(quiz)
	userID := uuid.New()

	started, err := svc.StartOrResume(userID, quiz.ID)
	require.NoError(t, err)

	_, err = svc.SaveAnswer(userID, started.AttemptID, quiz.Questions[0].ID, answerFor(&quiz.Questions[0], false))
	require.NoError(t, err)
	_, err = svc.SaveAnswer(userID, started.AttemptID, quiz.Questions[0].ID, answerFor(&quiz.Questions[0], true))
	require.NoError(t, err)

	attempt, err := attemptRepo.FindByID(started.AttemptID)
	require.NoError(t, err)
	require.Len(t, attempt.Items, 1)
	assert.True(t, attempt.Items[0].IsCorrect)
	assert.Equal(t, 5, attempt.Items[0].AwardedScore)
}

func TestSaveAnswerRejectsUnknownQuestion(t *testing.T) {
	quiz := publishedQuiz(600)
	svc, _, _ := newAttemptFixture(quiz)
	userID := uuid.New()

	started, err := svc.StartOrResume(userID, quiz.ID)
	require.NoError(t, err)

	_, err = svc.SaveAnswer(userID, started.AttemptID, uuid.New(), answerFor(&quiz.Questions[0], true))
	assert.True(t, apperr.Is(err, apperr.CodeQuestionNotFound))
}

func TestSaveAnswerHidesForeignAttempts(t *testing.T) {
	quiz := publishedQuiz(600)
	svc, _, _ := newAttemptFixture(quiz)
	owner := uuid.New()

	started, err := svc.StartOrResume(owner, quiz.ID)
	require.NoError(t, err)

	_, err = svc.SaveAnswer(uuid.New(), started.AttemptID, quiz.Questions[0].ID, answerFor(&quiz.Questions[0], true))
	assert.True(t, apperr.Is(err, apperr.CodeAttemptNotFound))
}

func TestSaveAnswerOnExpiredAttemptForceCompletes(t *testing.T) {
	quiz := publishedQuiz(60)
	svc, _, attemptRepo := newAttemptFixture(quiz)
	userID := uuid.New()

	expired := model.NewAttempt(uuid.New(), quiz.ID, userID, time.Now().UTC().Add(-2*time.Minute))
	require.NoError(t, attemptRepo.Create(expired))

	_, err := svc.SaveAnswer(userID, expired.ID, quiz.Questions[0].ID, answerFor(&quiz.Questions[0], true))
	assert.True(t, apperr.Is(err, apperr.CodeAttemptTimeExpired))

	stored, err := attemptRepo.FindByID(expired.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AttemptCompleted, stored.Status)
	require.NotNil(t, stored.SubmittedAt)
	assert.False(t, stored.SubmittedAt.Before(stored.StartedAt))
	assert.Empty(t, stored.Items)
	assert.Equal(t, 0, stored.TotalScore)
}

func TestSubmitTotalsItemScores(t *testing.T) {
	quiz := publishedQuiz(600)
	svc, _, _ := newAttemptFixture(quiz)
	userID := uuid.New()

	started, err := svc.StartOrResume(userID, quiz.ID)
	require.NoError(t, err)

	_, err = svc.SaveAnswer(userID, started.AttemptID, quiz.Questions[0].ID, answerFor(&quiz.Questions[0], true))
	require.NoError(t, err)
	_, err = svc.SaveAnswer(userID, started.AttemptID, quiz.Questions[1].ID, answerFor(&quiz.Questions[1], false))
	require.NoError(t, err)

	state, err := svc.Submit(userID, started.AttemptID)
	require.NoError(t, err)

	assert.Equal(t, string(model.AttemptCompleted), state.Status)
	assert.Equal(t, 5, state.TotalScore)
	assert.Equal(t, 0, state.TimeLeftSeconds)
	require.NotNil(t, state.SubmittedAt)
}

func TestSubmitTwiceReturnsStoredSnapshot(t *testing.T) {
	quiz := publishedQuiz(600)
	svc, _, _ := newAttemptFixture(quiz)
	userID := uuid.New()

	started, err := svc.StartOrResume(userID, quiz.ID)
	require.NoError(t, err)
	_, err = svc.SaveAnswer(userID, started.AttemptID, quiz.Questions[0].ID, answerFor(&quiz.Questions[0], true))
	require.NoError(t, err)

	first, err := svc.Submit(userID, started.AttemptID)
	require.NoError(t, err)
	second, err := svc.Submit(userID, started.AttemptID)
	require.NoError(t, err)

	assert.Equal(t, first.TotalScore, second.TotalScore)
	require.NotNil(t, second.SubmittedAt)
	assert.True(t, first.SubmittedAt.Equal(*second.SubmittedAt))
}

func TestSaveAnswerAfterSubmitIsRejected(t *testing.T) {
	quiz := publishedQuiz(600)
	svc, _, _ := newAttemptFixture(quiz)
	userID := uuid.New()

	started, err := svc.StartOrResume(userID, quiz.ID)
	require.NoError(t, err)
	_, err = svc.Submit(userID, started.AttemptID)
	require.NoError(t, err)

	_, err = svc.SaveAnswer(userID, started.AttemptID, quiz.Questions[0].ID, answerFor(&quiz.Questions[0], true))
	assert.True(t, apperr.Is(err, apperr.CodeAttemptCompleted))
}

func TestGetStateReportsProgress(t *testing.T) {
	quiz := publishedQuiz(600)
	svc, _, _ := newAttemptFixture(quiz)
	userID := uuid.New()

	started, err := svc.StartOrResume(userID, quiz.ID)
	require.NoError(t, err)
	_, err = svc.SaveAnswer(userID, started.AttemptID, quiz.Questions[0].ID, answerFor(&quiz.Questions[0], true))
	require.NoError(t, err)

	state, err := svc.GetState(userID, started.AttemptID)
	require.NoError(t, err)

	assert.Equal(t, string(model.AttemptInProgress), state.Status)
	assert.Equal(t, 1, state.AnsweredCount)
	assert.Equal(t, 3, state.TotalQuestions)
	assert.Greater(t, state.TimeLeftSeconds, 0)
}
