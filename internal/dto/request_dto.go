package dto

import "github.com/google/uuid"

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=64"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SaveAnswerRequest carries the submission for one question. Exactly one of
// the two fields is meaningful, depending on the question type.
type SaveAnswerRequest struct {
	SelectedChoiceIDs []uuid.UUID `json:"selected_choice_ids"`
	SubmittedText     *string     `json:"submitted_text"`
}

type ChoiceRequest struct {
	Label     string `json:"label" binding:"required"`
	IsCorrect bool   `json:"is_correct"`
}

type CreateQuestionRequest struct {
	Text         string          `json:"text" binding:"required"`
	Type         string          `json:"type" binding:"required,oneof=single multi true_false fill_in"`
	Points       int             `json:"points" binding:"required,gt=0"`
	Choices      []ChoiceRequest `json:"choices" binding:"omitempty,dive"`
	ExpectedText *string         `json:"expected_text"`
}

type CreateQuizRequest struct {
	Name             string                  `json:"name" binding:"required"`
	Description      string                  `json:"description"`
	TimeLimitSeconds int                     `json:"time_limit_seconds" binding:"required,gt=0"`
	IsPublished      bool                    `json:"is_published"`
	Questions        []CreateQuestionRequest `json:"questions" binding:"required,min=1,dive"`
}
