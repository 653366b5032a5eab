package service

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lshigami/Quokka/internal/model"
	"github.com/lshigami/Quokka/internal/repository"
	"github.com/lshigami/Quokka/internal/scoring"
	"gorm.io/gorm"
)

// In-memory repository doubles. They mirror the storage semantics the
// services rely on: record-not-found errors, guarded completion, and full
// overwrite on answer upsert.

type fakeQuizRepo struct {
	mu      sync.Mutex
	quizzes map[uuid.UUID]*model.Quiz
}

func newFakeQuizRepo(quizzes ...*model.Quiz) *fakeQuizRepo {
	repo := &fakeQuizRepo{quizzes: make(map[uuid.UUID]*model.Quiz)}
	for _, quiz := range quizzes {
		repo.quizzes[quiz.ID] = quiz
	}
	return repo
}

func (r *fakeQuizRepo) Create(quiz *model.Quiz) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.quizzes[quiz.ID] = quiz
	return nil
}

func (r *fakeQuizRepo) Update(quiz *model.Quiz) error {
	return r.Create(quiz)
}

func (r *fakeQuizRepo) Delete(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.quizzes, id)
	return nil
}

func (r *fakeQuizRepo) DeleteQuestion(quizID, questionID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	quiz, ok := r.quizzes[quizID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for i, q := range quiz.Questions {
		if q.ID == questionID {
			quiz.Questions = append(quiz.Questions[:i], quiz.Questions[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeQuizRepo) FindByIDWithQuestions(id uuid.UUID) (*model.Quiz, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	quiz, ok := r.quizzes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *quiz
	return &copied, nil
}

func (r *fakeQuizRepo) FindByIDForReview(id uuid.UUID) (*model.Quiz, error) {
	return r.FindByIDWithQuestions(id)
}

func (r *fakeQuizRepo) TimeLimitsByIDs(ids []uuid.UUID) (map[uuid.UUID]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	limits := make(map[uuid.UUID]int)
	for _, id := range ids {
		if quiz, ok := r.quizzes[id]; ok {
			limits[id] = quiz.TimeLimitSeconds
		}
	}
	return limits, nil
}

func (r *fakeQuizRepo) MaxScoreTotal() (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := 0
	for _, quiz := range r.quizzes {
		total += quiz.MaxScore()
	}
	return total, nil
}

type fakeAttemptRepo struct {
	mu       sync.Mutex
	attempts map[uuid.UUID]*model.Attempt

	completeErr error
}

func newFakeAttemptRepo() *fakeAttemptRepo {
	return &fakeAttemptRepo{attempts: make(map[uuid.UUID]*model.Attempt)}
}

func (r *fakeAttemptRepo) Create(attempt *model.Attempt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *attempt
	r.attempts[attempt.ID] = &copied
	return nil
}

func (r *fakeAttemptRepo) FindByID(id uuid.UUID) (*model.Attempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	attempt, ok := r.attempts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *attempt
	copied.Items = append([]model.AttemptItem(nil), attempt.Items...)
	return &copied, nil
}

func (r *fakeAttemptRepo) FindActiveByUserAndQuiz(userID, quizID uuid.UUID) (*model.Attempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, attempt := range r.attempts {
		if attempt.UserID == userID && attempt.QuizID == quizID && attempt.Status == model.AttemptInProgress {
			copied := *attempt
			copied.Items = append([]model.AttemptItem(nil), attempt.Items...)
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeAttemptRepo) FindInProgressBatch(limit int) ([]model.Attempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var batch []model.Attempt
	for _, attempt := range r.attempts {
		if attempt.Status == model.AttemptInProgress {
			copied := *attempt
			copied.Items = append([]model.AttemptItem(nil), attempt.Items...)
			batch = append(batch, copied)
		}
	}
	sort.Slice(batch, func(i, j int) bool { return batch[i].StartedAt.Before(batch[j].StartedAt) })
	if len(batch) > limit {
		batch = batch[:limit]
	}
	return batch, nil
}

func (r *fakeAttemptRepo) CompleteIfInProgress(id uuid.UUID, submittedAt time.Time, totalScore int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.completeErr != nil {
		return false, r.completeErr
	}
	attempt, ok := r.attempts[id]
	if !ok || attempt.Status != model.AttemptInProgress {
		return false, nil
	}
	at := submittedAt
	attempt.Status = model.AttemptCompleted
	attempt.SubmittedAt = &at
	attempt.TotalScore = totalScore
	return true, nil
}

func (r *fakeAttemptRepo) FindByUser(userID uuid.UUID, status *model.AttemptStatus, skip, take int) ([]model.Attempt, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []model.Attempt
	for _, attempt := range r.attempts {
		if attempt.UserID != userID {
			continue
		}
		if status != nil && attempt.Status != *status {
			continue
		}
		matched = append(matched, *attempt)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].StartedAt.After(matched[j].StartedAt) })

	total := int64(len(matched))
	if skip >= len(matched) {
		return nil, total, nil
	}
	matched = matched[skip:]
	if len(matched) > take {
		matched = matched[:take]
	}
	return matched, total, nil
}

func (r *fakeAttemptRepo) CompletedRows(quizID *uuid.UUID, since *time.Time) ([]repository.CompletedAttemptRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var rows []repository.CompletedAttemptRow
	for _, attempt := range r.attempts {
		if attempt.Status != model.AttemptCompleted || attempt.SubmittedAt == nil {
			continue
		}
		if quizID != nil && attempt.QuizID != *quizID {
			continue
		}
		if since != nil && attempt.SubmittedAt.Before(*since) {
			continue
		}
		rows = append(rows, repository.CompletedAttemptRow{
			UserID:      attempt.UserID,
			QuizID:      attempt.QuizID,
			TotalScore:  attempt.TotalScore,
			SubmittedAt: *attempt.SubmittedAt,
		})
	}
	return rows, nil
}

// fakeAnswerWriter applies the graded outcome straight onto the stored
// attempt, with the same overwrite-per-question behavior as the real writer.
type fakeAnswerWriter struct {
	repo *fakeAttemptRepo
}

func (w *fakeAnswerWriter) Upsert(attemptID, questionID uuid.UUID, outcome scoring.Outcome, answeredAt time.Time) error {
	w.repo.mu.Lock()
	defer w.repo.mu.Unlock()
	attempt, ok := w.repo.attempts[attemptID]
	if !ok {
		return gorm.ErrRecordNotFound
	}

	item := model.AttemptItem{
		ID:           uuid.New(),
		AttemptID:    attemptID,
		QuestionID:   questionID,
		AwardedScore: outcome.AwardedScore,
		IsCorrect:    outcome.IsCorrect,
		AnsweredAt:   answeredAt,
	}
	for _, choiceID := range outcome.ChoiceIDs {
		item.SelectedChoices = append(item.SelectedChoices, model.AttemptItemChoice{
			AttemptItemID: item.ID,
			ChoiceID:      choiceID,
		})
	}
	if outcome.SubmittedText != nil {
		item.TextAnswer = &model.AttemptItemText{AttemptItemID: item.ID, SubmittedText: *outcome.SubmittedText}
	}

	for i := range attempt.Items {
		if attempt.Items[i].QuestionID == questionID {
			item.ID = attempt.Items[i].ID
			attempt.Items[i] = item
			return nil
		}
	}
	attempt.Items = append(attempt.Items, item)
	return nil
}
