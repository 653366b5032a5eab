package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lshigami/Quokka/internal/model"
	"github.com/lshigami/Quokka/internal/scoring"
	"gorm.io/gorm"
)

// AttemptAnswerWriter persists a graded answer. The whole upsert runs in one
// transaction so two concurrent saves for the same question cannot leave a
// partial choice set behind.
type AttemptAnswerWriter interface {
	Upsert(attemptID, questionID uuid.UUID, outcome scoring.Outcome, answeredAt time.Time) error
}

type attemptAnswerWriter struct {
	db *gorm.DB
}

func NewAttemptAnswerWriter(db *gorm.DB) AttemptAnswerWriter {
	return &attemptAnswerWriter{db: db}
}

func (w *attemptAnswerWriter) Upsert(attemptID, questionID uuid.UUID, outcome scoring.Outcome, answeredAt time.Time) error {
	return w.db.Transaction(func(tx *gorm.DB) error {
		var item model.AttemptItem
		err := tx.
			Where("attempt_id = ? AND question_id = ?", attemptID, questionID).
			First(&item).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			item = model.AttemptItem{
				ID:         uuid.New(),
				AttemptID:  attemptID,
				QuestionID: questionID,
				AnsweredAt: answeredAt,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		}

		// Full overwrite semantics: drop whatever the previous submission
		// recorded before writing the new payload.
		if err := tx.Where("attempt_item_id = ?", item.ID).Delete(&model.AttemptItemChoice{}).Error; err != nil {
			return err
		}
		if err := tx.Where("attempt_item_id = ?", item.ID).Delete(&model.AttemptItemText{}).Error; err != nil {
			return err
		}

		for _, choiceID := range outcome.ChoiceIDs {
			choice := model.AttemptItemChoice{AttemptItemID: item.ID, ChoiceID: choiceID}
			if err := tx.Create(&choice).Error; err != nil {
				return err
			}
		}
		if outcome.SubmittedText != nil {
			text := model.AttemptItemText{AttemptItemID: item.ID, SubmittedText: *outcome.SubmittedText}
			if err := tx.Create(&text).Error; err != nil {
				return err
			}
		}

		return tx.Model(&model.AttemptItem{}).
			Where("id = ?", item.ID).
			Updates(map[string]interface{}{
				"awarded_score": outcome.AwardedScore,
				"is_correct":    outcome.IsCorrect,
				"answered_at":   answeredAt,
			}).Error
	})
}
