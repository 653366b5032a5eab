package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lshigami/Quokka/internal/model"
	"gorm.io/gorm"
)

// CompletedAttemptRow is a flat projection of a completed attempt joined
// with its user, fed to the leaderboard ranker.
type CompletedAttemptRow struct {
	UserID      uuid.UUID
	Username    string
	Photo       *string
	QuizID      uuid.UUID
	TotalScore  int
	SubmittedAt time.Time
}

type AttemptRepository interface {
	Create(attempt *model.Attempt) error
	// FindByID loads the attempt with its items, selected choices and text.
	FindByID(id uuid.UUID) (*model.Attempt, error)
	// FindActiveByUserAndQuiz returns the user's in-progress attempt for the
	// quiz, or nil when there is none.
	FindActiveByUserAndQuiz(userID, quizID uuid.UUID) (*model.Attempt, error)
	// FindInProgressBatch returns up to limit in-progress attempts, oldest
	// start first, items preloaded.
	FindInProgressBatch(limit int) ([]model.Attempt, error)
	// CompleteIfInProgress transitions the attempt to completed if and only
	// if it is still in progress. Returns false when another writer already
	// completed it; the caller treats that as a no-op, not an error.
	CompleteIfInProgress(id uuid.UUID, submittedAt time.Time, totalScore int) (bool, error)
	// FindByUser pages the user's attempts, newest first, optionally
	// filtered by status.
	FindByUser(userID uuid.UUID, status *model.AttemptStatus, skip, take int) ([]model.Attempt, int64, error)
	// CompletedRows returns completed attempts on live quizzes as ranker
	// input. quizID scopes to one quiz; since filters by submission time.
	CompletedRows(quizID *uuid.UUID, since *time.Time) ([]CompletedAttemptRow, error)
}

type attemptRepository struct {
	db *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) AttemptRepository {
	return &attemptRepository{db: db}
}

func (r *attemptRepository) Create(attempt *model.Attempt) error {
	return r.db.Create(attempt).Error
}

func (r *attemptRepository) FindByID(id uuid.UUID) (*model.Attempt, error) {
	var attempt model.Attempt
	err := r.db.
		Preload("Items").
		Preload("Items.SelectedChoices").
		Preload("Items.TextAnswer").
		First(&attempt, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *attemptRepository) FindActiveByUserAndQuiz(userID, quizID uuid.UUID) (*model.Attempt, error) {
	var attempt model.Attempt
	err := r.db.
		Preload("Items").
		Where("user_id = ? AND quiz_id = ? AND status = ?", userID, quizID, model.AttemptInProgress).
		First(&attempt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *attemptRepository) FindInProgressBatch(limit int) ([]model.Attempt, error) {
	var attempts []model.Attempt
	err := r.db.
		Preload("Items").
		Where("status = ?", model.AttemptInProgress).
		Order("started_at ASC").
		Limit(limit).
		Find(&attempts).Error
	if err != nil {
		return nil, err
	}
	return attempts, nil
}

func (r *attemptRepository) CompleteIfInProgress(id uuid.UUID, submittedAt time.Time, totalScore int) (bool, error) {
	// Guarded update doubles as a compare-and-set: a racing sweeper or
	// request sees zero rows affected and backs off.
	res := r.db.Model(&model.Attempt{}).
		Where("id = ? AND status = ?", id, model.AttemptInProgress).
		Updates(map[string]interface{}{
			"status":       model.AttemptCompleted,
			"submitted_at": submittedAt,
			"total_score":  totalScore,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *attemptRepository) FindByUser(userID uuid.UUID, status *model.AttemptStatus, skip, take int) ([]model.Attempt, int64, error) {
	query := r.db.Model(&model.Attempt{}).Where("user_id = ?", userID)
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var attempts []model.Attempt
	err := query.
		Order("started_at DESC").
		Offset(skip).
		Limit(take).
		Find(&attempts).Error
	if err != nil {
		return nil, 0, err
	}
	return attempts, total, nil
}

func (r *attemptRepository) CompletedRows(quizID *uuid.UUID, since *time.Time) ([]CompletedAttemptRow, error) {
	query := r.db.Model(&model.Attempt{}).
		Select("attempts.user_id, users.username, users.photo, attempts.quiz_id, attempts.total_score, attempts.submitted_at").
		Joins("JOIN users ON users.id = attempts.user_id").
		Joins("JOIN quizzes ON quizzes.id = attempts.quiz_id AND quizzes.deleted_at IS NULL").
		Where("attempts.status = ? AND attempts.submitted_at IS NOT NULL", model.AttemptCompleted)

	if quizID != nil {
		query = query.Where("attempts.quiz_id = ?", *quizID)
	}
	if since != nil {
		query = query.Where("attempts.submitted_at >= ?", *since)
	}

	var rows []CompletedAttemptRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
