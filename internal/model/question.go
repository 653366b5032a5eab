package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QuestionType string

const (
	QuestionSingle    QuestionType = "single"
	QuestionMulti     QuestionType = "multi"
	QuestionTrueFalse QuestionType = "true_false"
	QuestionFillIn    QuestionType = "fill_in"
)

type Question struct {
	ID         uuid.UUID        `gorm:"type:uuid;primarykey" json:"id"`
	QuizID     uuid.UUID        `gorm:"type:uuid;not null;index" json:"quiz_id"`
	Text       string           `json:"text" gorm:"column:question;type:text;not null"`
	Type       QuestionType     `json:"type" gorm:"not null"`
	Points     int              `json:"points" gorm:"not null"`
	Choices    []QuestionChoice `json:"choices,omitempty" gorm:"foreignKey:QuestionID"`
	TextAnswer *QuestionText    `json:"text_answer,omitempty" gorm:"foreignKey:QuestionID"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
	DeletedAt  gorm.DeletedAt   `gorm:"index" json:"-"`
}

type QuestionChoice struct {
	ID         uuid.UUID      `gorm:"type:uuid;primarykey" json:"id"`
	QuestionID uuid.UUID      `gorm:"type:uuid;not null;index" json:"question_id"`
	Label      string         `json:"label" gorm:"not null"`
	IsCorrect  bool           `json:"is_correct" gorm:"not null"`
	CreatedAt  time.Time      `json:"created_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// QuestionText holds the expected answer for fill-in questions.
type QuestionText struct {
	ID         uuid.UUID `gorm:"type:uuid;primarykey" json:"id"`
	QuestionID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"question_id"`
	Text       string    `json:"text" gorm:"type:text;not null"`
}

// ChoiceByID resolves a choice on this question, nil when absent.
func (q *Question) ChoiceByID(id uuid.UUID) *QuestionChoice {
	for i := range q.Choices {
		if q.Choices[i].ID == id {
			return &q.Choices[i]
		}
	}
	return nil
}

// CorrectChoiceIDs returns the ids of choices flagged correct.
func (q *Question) CorrectChoiceIDs() []uuid.UUID {
	var ids []uuid.UUID
	for _, c := range q.Choices {
		if c.IsCorrect {
			ids = append(ids, c.ID)
		}
	}
	return ids
}
