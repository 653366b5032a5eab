package model

import (
	"time"

	"github.com/google/uuid"
)

type AttemptStatus string

const (
	AttemptInProgress AttemptStatus = "in_progress"
	AttemptCompleted  AttemptStatus = "completed"
)

type Attempt struct {
	ID          uuid.UUID     `gorm:"type:uuid;primarykey" json:"id"`
	QuizID      uuid.UUID     `gorm:"type:uuid;not null;index" json:"quiz_id"`
	UserID      uuid.UUID     `gorm:"type:uuid;not null;index:idx_attempts_user_quiz" json:"user_id"`
	StartedAt   time.Time     `json:"started_at" gorm:"not null"`
	SubmittedAt *time.Time    `json:"submitted_at,omitempty"`
	TotalScore  int           `json:"total_score" gorm:"not null;default:0"`
	Status      AttemptStatus `json:"status" gorm:"not null;index"`
	Items       []AttemptItem `json:"items,omitempty" gorm:"foreignKey:AttemptID"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// NewAttempt creates an in-progress attempt with a zero score.
func NewAttempt(id, quizID, userID uuid.UUID, startedAt time.Time) *Attempt {
	return &Attempt{
		ID:        id,
		QuizID:    quizID,
		UserID:    userID,
		StartedAt: startedAt,
		Status:    AttemptInProgress,
	}
}

// ItemScoreSum is the accumulated score over the answered questions.
func (a *Attempt) ItemScoreSum() int {
	total := 0
	for _, item := range a.Items {
		total += item.AwardedScore
	}
	return total
}

// AnsweredQuestionIDs returns the set of questions with a recorded item.
func (a *Attempt) AnsweredQuestionIDs() map[uuid.UUID]struct{} {
	answered := make(map[uuid.UUID]struct{}, len(a.Items))
	for _, item := range a.Items {
		answered[item.QuestionID] = struct{}{}
	}
	return answered
}

// ItemForQuestion returns the recorded answer for a question, nil when the
// question has not been answered yet.
func (a *Attempt) ItemForQuestion(questionID uuid.UUID) *AttemptItem {
	for i := range a.Items {
		if a.Items[i].QuestionID == questionID {
			return &a.Items[i]
		}
	}
	return nil
}

// AttemptItem records the answer to one question within one attempt. At most
// one item exists per (attempt, question); re-answering overwrites it.
type AttemptItem struct {
	ID              uuid.UUID           `gorm:"type:uuid;primarykey" json:"id"`
	AttemptID       uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex:idx_attempt_items_attempt_question" json:"attempt_id"`
	QuestionID      uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex:idx_attempt_items_attempt_question" json:"question_id"`
	AwardedScore    int                 `json:"awarded_score" gorm:"not null;default:0"`
	IsCorrect       bool                `json:"is_correct" gorm:"not null;default:false"`
	AnsweredAt      time.Time           `json:"answered_at" gorm:"not null"`
	SelectedChoices []AttemptItemChoice `json:"selected_choices,omitempty" gorm:"foreignKey:AttemptItemID"`
	TextAnswer      *AttemptItemText    `json:"text_answer,omitempty" gorm:"foreignKey:AttemptItemID"`
}

// SelectedChoiceIDSet returns the ids of the choices the user selected.
func (i *AttemptItem) SelectedChoiceIDSet() map[uuid.UUID]struct{} {
	set := make(map[uuid.UUID]struct{}, len(i.SelectedChoices))
	for _, sc := range i.SelectedChoices {
		set[sc.ChoiceID] = struct{}{}
	}
	return set
}

type AttemptItemChoice struct {
	AttemptItemID uuid.UUID `gorm:"type:uuid;primarykey" json:"attempt_item_id"`
	ChoiceID      uuid.UUID `gorm:"type:uuid;primarykey" json:"choice_id"`
}

type AttemptItemText struct {
	AttemptItemID uuid.UUID `gorm:"type:uuid;primarykey" json:"attempt_item_id"`
	SubmittedText string    `json:"submitted_text" gorm:"type:text;not null"`
}
