package dto

import (
	"time"

	"github.com/google/uuid"
)

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type UserPublicDTO struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Photo    *string   `json:"photo,omitempty"`
}

type AuthResponseDTO struct {
	Token string        `json:"token"`
	User  UserPublicDTO `json:"user"`
}

// AttemptQuestionOptionDTO is a choice as shown to the taker. It never
// discloses which choice is correct.
type AttemptQuestionOptionDTO struct {
	ID   uuid.UUID `json:"id"`
	Text string    `json:"text"`
}

type AttemptQuestionDTO struct {
	ID       uuid.UUID                  `json:"id"`
	QuizID   uuid.UUID                  `json:"quiz_id"`
	Question string                     `json:"question"`
	Type     string                     `json:"type"`
	Points   int                        `json:"points"`
	Options  []AttemptQuestionOptionDTO `json:"options,omitempty"`
	IsLast   bool                       `json:"is_last"`
}

type StartAttemptDTO struct {
	AttemptID        uuid.UUID          `json:"attempt_id"`
	TimeLimitSeconds int                `json:"time_limit_seconds"`
	TimeLeftSeconds  int                `json:"time_left_seconds"`
	Question         AttemptQuestionDTO `json:"question"`
}

type AttemptStateDTO struct {
	ID               uuid.UUID  `json:"id"`
	QuizID           uuid.UUID  `json:"quiz_id"`
	Status           string     `json:"status"`
	StartedAt        time.Time  `json:"started_at"`
	SubmittedAt      *time.Time `json:"submitted_at,omitempty"`
	TotalScore       int        `json:"total_score"`
	TimeLimitSeconds int        `json:"time_limit_seconds"`
	TimeLeftSeconds  int        `json:"time_left_seconds"`
	AnsweredCount    int        `json:"answered_count"`
	TotalQuestions   int        `json:"total_questions"`
}

type ResultSummaryDTO struct {
	AttemptID        uuid.UUID  `json:"attempt_id"`
	QuizID           uuid.UUID  `json:"quiz_id"`
	QuizName         string     `json:"quiz_name"`
	Status           string     `json:"status"`
	TotalQuestions   int        `json:"total_questions"`
	CorrectAnswers   int        `json:"correct_answers"`
	TotalScore       int        `json:"total_score"`
	MaxScore         int        `json:"max_score"`
	Percentage       int        `json:"percentage"`
	TimeLimitSeconds int        `json:"time_limit_seconds"`
	DurationSeconds  *int       `json:"duration_seconds,omitempty"`
	StartedAt        time.Time  `json:"started_at"`
	SubmittedAt      *time.Time `json:"submitted_at,omitempty"`
}

type ReviewOptionDTO struct {
	ID             uuid.UUID `json:"id"`
	Text           string    `json:"text"`
	IsCorrect      bool      `json:"is_correct"`
	SelectedByUser bool      `json:"selected_by_user"`
}

type ReviewTextDTO struct {
	SubmittedText *string `json:"submitted_text,omitempty"`
	ExpectedText  *string `json:"expected_text,omitempty"`
}

type ReviewItemDTO struct {
	QuestionID   uuid.UUID         `json:"question_id"`
	Question     string            `json:"question"`
	Type         string            `json:"type"`
	Points       int               `json:"points"`
	AwardedScore int               `json:"awarded_score"`
	IsCorrect    bool              `json:"is_correct"`
	Options      []ReviewOptionDTO `json:"options,omitempty"`
	TextAnswer   *ReviewTextDTO    `json:"text_answer,omitempty"`
}

type ResultReviewDTO struct {
	AttemptID uuid.UUID       `json:"attempt_id"`
	Items     []ReviewItemDTO `json:"items"`
}

type MyAttemptListItemDTO struct {
	ID          uuid.UUID  `json:"id"`
	QuizID      uuid.UUID  `json:"quiz_id"`
	Status      string     `json:"status"`
	TotalScore  int        `json:"total_score"`
	StartedAt   time.Time  `json:"started_at"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
}

type PagedDTO[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Skip  int   `json:"skip"`
	Take  int   `json:"take"`
}

type QuizDTO struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description,omitempty"`
	TimeLimitSeconds int       `json:"time_limit_seconds"`
	IsPublished      bool      `json:"is_published"`
	QuestionCount    int       `json:"question_count"`
	CreatedAt        time.Time `json:"created_at"`
}
