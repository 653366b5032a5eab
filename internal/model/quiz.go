package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Quiz struct {
	ID               uuid.UUID      `gorm:"type:uuid;primarykey" json:"id"`
	CreatedByID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"created_by_id"`
	Name             string         `json:"name" gorm:"not null"`
	Description      string         `json:"description,omitempty"`
	TimeLimitSeconds int            `json:"time_limit_seconds" gorm:"not null"`
	IsPublished      bool           `json:"is_published" gorm:"not null;default:false"`
	Questions        []Question     `json:"questions,omitempty" gorm:"foreignKey:QuizID"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

// MaxScore is the sum of points over the quiz's loaded questions.
func (q *Quiz) MaxScore() int {
	total := 0
	for _, question := range q.Questions {
		total += question.Points
	}
	return total
}
