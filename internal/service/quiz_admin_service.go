package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lshigami/Quokka/internal/apperr"
	"github.com/lshigami/Quokka/internal/dto"
	"github.com/lshigami/Quokka/internal/model"
	"github.com/lshigami/Quokka/internal/repository"
	"github.com/rs/zerolog/log"
)

// QuizAdminService is the admin-facing surface for authoring quizzes.
type QuizAdminService interface {
	CreateQuiz(createdBy uuid.UUID, req dto.CreateQuizRequest) (*dto.QuizDTO, error)
	PublishQuiz(quizID uuid.UUID) (*dto.QuizDTO, error)
	DeleteQuiz(quizID uuid.UUID) error
	DeleteQuestion(quizID, questionID uuid.UUID) error
}

type quizAdminService struct {
	quizRepo repository.QuizRepository
}

func NewQuizAdminService(quizRepo repository.QuizRepository) QuizAdminService {
	return &quizAdminService{quizRepo: quizRepo}
}

func (s *quizAdminService) CreateQuiz(createdBy uuid.UUID, req dto.CreateQuizRequest) (*dto.QuizDTO, error) {
	now := time.Now().UTC()
	quiz := &model.Quiz{
		ID:               uuid.New(),
		CreatedByID:      createdBy,
		Name:             req.Name,
		Description:      req.Description,
		TimeLimitSeconds: req.TimeLimitSeconds,
		IsPublished:      req.IsPublished,
	}

	for i, qr := range req.Questions {
		question, err := buildQuestion(qr)
		if err != nil {
			return nil, err
		}
		// Staggered timestamps keep the authored order stable under the
		// created_at serving sort.
		question.CreatedAt = now.Add(time.Duration(i) * time.Millisecond)
		quiz.Questions = append(quiz.Questions, *question)
	}

	if err := s.quizRepo.Create(quiz); err != nil {
		log.Error().Err(err).Str("name", req.Name).Msg("Failed to create quiz")
		return nil, fmt.Errorf("creating quiz: %w", err)
	}
	log.Info().
		Str("quiz_id", quiz.ID.String()).
		Str("name", quiz.Name).
		Int("questions", len(quiz.Questions)).
		Msg("Quiz created")

	return quizDTO(quiz), nil
}

func (s *quizAdminService) PublishQuiz(quizID uuid.UUID) (*dto.QuizDTO, error) {
	quiz, err := s.quizRepo.FindByIDWithQuestions(quizID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperr.New(apperr.CodeQuizNotFound, "Quiz not found.")
		}
		return nil, fmt.Errorf("loading quiz %s: %w", quizID, err)
	}
	if len(quiz.Questions) == 0 {
		return nil, apperr.New(apperr.CodeQuizInvalid, "Cannot publish a quiz without questions.")
	}

	if !quiz.IsPublished {
		quiz.IsPublished = true
		if err := s.quizRepo.Update(quiz); err != nil {
			return nil, fmt.Errorf("publishing quiz: %w", err)
		}
		log.Info().Str("quiz_id", quiz.ID.String()).Msg("Quiz published")
	}
	return quizDTO(quiz), nil
}

func (s *quizAdminService) DeleteQuiz(quizID uuid.UUID) error {
	if _, err := s.quizRepo.FindByIDWithQuestions(quizID); err != nil {
		if repository.IsNotFound(err) {
			return apperr.New(apperr.CodeQuizNotFound, "Quiz not found.")
		}
		return fmt.Errorf("loading quiz %s: %w", quizID, err)
	}
	if err := s.quizRepo.Delete(quizID); err != nil {
		return fmt.Errorf("deleting quiz: %w", err)
	}
	log.Info().Str("quiz_id", quizID.String()).Msg("Quiz deleted")
	return nil
}

func (s *quizAdminService) DeleteQuestion(quizID, questionID uuid.UUID) error {
	if err := s.quizRepo.DeleteQuestion(quizID, questionID); err != nil {
		if repository.IsNotFound(err) {
			return apperr.New(apperr.CodeQuestionNotFound, "Question not found.")
		}
		return fmt.Errorf("deleting question: %w", err)
	}
	log.Info().
		Str("quiz_id", quizID.String()).
		Str("question_id", questionID.String()).
		Msg("Question deleted")
	return nil
}

// buildQuestion validates one authored question against its type's shape and
// materializes the model rows.
func buildQuestion(req dto.CreateQuestionRequest) (*model.Question, error) {
	qtype := model.QuestionType(req.Type)
	question := &model.Question{
		ID:     uuid.New(),
		Text:   req.Text,
		Type:   qtype,
		Points: req.Points,
	}

	correct := 0
	for _, c := range req.Choices {
		if c.IsCorrect {
			correct++
		}
	}

	switch qtype {
	case model.QuestionSingle:
		if len(req.Choices) < 2 {
			return nil, apperr.New(apperr.CodeQuizInvalid, "Single choice questions need at least two choices.")
		}
		if correct != 1 {
			return nil, apperr.New(apperr.CodeQuizInvalid, "Single choice questions need exactly one correct choice.")
		}
	case model.QuestionTrueFalse:
		if len(req.Choices) != 2 {
			return nil, apperr.New(apperr.CodeQuizInvalid, "True/false questions need exactly two choices.")
		}
		if correct != 1 {
			return nil, apperr.New(apperr.CodeQuizInvalid, "True/false questions need exactly one correct choice.")
		}
	case model.QuestionMulti:
		if len(req.Choices) < 2 {
			return nil, apperr.New(apperr.CodeQuizInvalid, "Multiple choice questions need at least two choices.")
		}
		if correct < 1 {
			return nil, apperr.New(apperr.CodeQuizInvalid, "Multiple choice questions need at least one correct choice.")
		}
	case model.QuestionFillIn:
		if len(req.Choices) > 0 {
			return nil, apperr.New(apperr.CodeQuizInvalid, "Fill-in questions do not take choices.")
		}
		if req.ExpectedText == nil || strings.TrimSpace(*req.ExpectedText) == "" {
			return nil, apperr.New(apperr.CodeQuizInvalid, "Fill-in questions need an expected answer.")
		}
	default:
		return nil, apperr.New(apperr.CodeQuestionNotSupported, "Unsupported question type.")
	}

	if qtype == model.QuestionFillIn {
		question.TextAnswer = &model.QuestionText{
			ID:         uuid.New(),
			QuestionID: question.ID,
			Text:       strings.TrimSpace(*req.ExpectedText),
		}
	} else {
		for _, c := range req.Choices {
			question.Choices = append(question.Choices, model.QuestionChoice{
				ID:         uuid.New(),
				QuestionID: question.ID,
				Label:      c.Label,
				IsCorrect:  c.IsCorrect,
			})
		}
	}
	return question, nil
}

func quizDTO(quiz *model.Quiz) *dto.QuizDTO {
	return &dto.QuizDTO{
		ID:               quiz.ID,
		Name:             quiz.Name,
		Description:      quiz.Description,
		TimeLimitSeconds: quiz.TimeLimitSeconds,
		IsPublished:      quiz.IsPublished,
		QuestionCount:    len(quiz.Questions),
		CreatedAt:        quiz.CreatedAt,
	}
}
