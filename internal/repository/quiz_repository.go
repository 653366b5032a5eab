package repository

import (
	"errors"

	"github.com/google/uuid"
	"github.com/lshigami/Quokka/internal/model"
	"gorm.io/gorm"
)

type QuizRepository interface {
	Create(quiz *model.Quiz) error
	Update(quiz *model.Quiz) error
	// Delete soft-deletes the quiz and its questions. Completed attempts keep
	// referencing the soft-deleted rows for review.
	Delete(id uuid.UUID) error
	// DeleteQuestion soft-deletes one question and its choices.
	DeleteQuestion(quizID, questionID uuid.UUID) error
	// FindByIDWithQuestions loads the quiz with questions in their serving
	// order, choices and expected text included.
	FindByIDWithQuestions(id uuid.UUID) (*model.Quiz, error)
	// FindByIDForReview is FindByIDWithQuestions over the unscoped rows, so
	// soft-deleted questions and choices still render in a review.
	FindByIDForReview(id uuid.UUID) (*model.Quiz, error)
	// TimeLimitsByIDs resolves time limits for a batch of quiz ids.
	TimeLimitsByIDs(ids []uuid.UUID) (map[uuid.UUID]int, error)
	// MaxScoreTotal sums question points across all live quizzes.
	MaxScoreTotal() (int, error)
}

type quizRepository struct {
	db *gorm.DB
}

func NewQuizRepository(db *gorm.DB) QuizRepository {
	return &quizRepository{db: db}
}

// IsNotFound reports whether err is gorm's missing-record error.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func (r *quizRepository) Create(quiz *model.Quiz) error {
	return r.db.Create(quiz).Error
}

func (r *quizRepository) Update(quiz *model.Quiz) error {
	return r.db.Save(quiz).Error
}

func (r *quizRepository) Delete(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quiz_id = ?", id).Delete(&model.Question{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Quiz{}, "id = ?", id).Error
	})
}

func (r *quizRepository) DeleteQuestion(quizID, questionID uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var question model.Question
		if err := tx.First(&question, "id = ? AND quiz_id = ?", questionID, quizID).Error; err != nil {
			return err
		}
		if err := tx.Where("question_id = ?", questionID).Delete(&model.QuestionChoice{}).Error; err != nil {
			return err
		}
		return tx.Delete(&question).Error
	})
}

func (r *quizRepository) FindByIDWithQuestions(id uuid.UUID) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.created_at ASC, questions.id ASC")
		}).
		Preload("Questions.Choices").
		Preload("Questions.TextAnswer").
		First(&quiz, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *quizRepository) FindByIDForReview(id uuid.UUID) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Unscoped().Order("questions.created_at ASC, questions.id ASC")
		}).
		Preload("Questions.Choices", func(db *gorm.DB) *gorm.DB {
			return db.Unscoped()
		}).
		Preload("Questions.TextAnswer").
		Unscoped().
		First(&quiz, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *quizRepository) TimeLimitsByIDs(ids []uuid.UUID) (map[uuid.UUID]int, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]int{}, nil
	}

	type row struct {
		ID               uuid.UUID
		TimeLimitSeconds int
	}
	var rows []row
	err := r.db.Model(&model.Quiz{}).
		Select("id, time_limit_seconds").
		Where("id IN ?", ids).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	limits := make(map[uuid.UUID]int, len(rows))
	for _, r := range rows {
		limits[r.ID] = r.TimeLimitSeconds
	}
	return limits, nil
}

func (r *quizRepository) MaxScoreTotal() (int, error) {
	var total *int
	err := r.db.Model(&model.Question{}).
		Select("SUM(questions.points)").
		Joins("JOIN quizzes ON quizzes.id = questions.quiz_id AND quizzes.deleted_at IS NULL").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}
