package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lshigami/Quokka/internal/apperr"
	"github.com/lshigami/Quokka/internal/auth"
	"github.com/lshigami/Quokka/internal/dto"
	"github.com/lshigami/Quokka/internal/model"
	"github.com/lshigami/Quokka/internal/repository"
)

// ResultService serves read-only views over finished (or in-flight) attempts.
type ResultService interface {
	GetSummary(principal auth.Principal, attemptID uuid.UUID) (*dto.ResultSummaryDTO, error)
	GetReview(principal auth.Principal, attemptID uuid.UUID) (*dto.ResultReviewDTO, error)
	GetMyAttempts(userID uuid.UUID, status *model.AttemptStatus, skip, take int) (*dto.PagedDTO[dto.MyAttemptListItemDTO], error)
}

type resultService struct {
	quizRepo    repository.QuizRepository
	attemptRepo repository.AttemptRepository
}

func NewResultService(quizRepo repository.QuizRepository, attemptRepo repository.AttemptRepository) ResultService {
	return &resultService{quizRepo: quizRepo, attemptRepo: attemptRepo}
}

func (s *resultService) GetSummary(principal auth.Principal, attemptID uuid.UUID) (*dto.ResultSummaryDTO, error) {
	attempt, err := s.loadVisibleAttempt(principal, attemptID)
	if err != nil {
		return nil, err
	}

	quiz, err := s.quizRepo.FindByIDWithQuestions(attempt.QuizID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperr.New(apperr.CodeQuizNotFound, "Quiz not found.")
		}
		return nil, fmt.Errorf("loading quiz %s: %w", attempt.QuizID, err)
	}

	totalScore := attempt.ItemScoreSum()
	correct := 0
	for _, item := range attempt.Items {
		if item.IsCorrect {
			correct++
		}
	}

	maxScore := quiz.MaxScore()

	var duration *int
	if attempt.SubmittedAt != nil {
		seconds := int(attempt.SubmittedAt.Sub(attempt.StartedAt) / time.Second)
		if seconds < 0 {
			seconds = 0
		}
		duration = &seconds
	}

	return &dto.ResultSummaryDTO{
		AttemptID:        attempt.ID,
		QuizID:           quiz.ID,
		QuizName:         quiz.Name,
		Status:           string(attempt.Status),
		TotalQuestions:   len(quiz.Questions),
		CorrectAnswers:   correct,
		TotalScore:       totalScore,
		MaxScore:         maxScore,
		Percentage:       percentage(totalScore, maxScore),
		TimeLimitSeconds: quiz.TimeLimitSeconds,
		DurationSeconds:  duration,
		StartedAt:        attempt.StartedAt,
		SubmittedAt:      attempt.SubmittedAt,
	}, nil
}

func (s *resultService) GetReview(principal auth.Principal, attemptID uuid.UUID) (*dto.ResultReviewDTO, error) {
	attempt, err := s.loadVisibleAttempt(principal, attemptID)
	if err != nil {
		return nil, err
	}

	// Review renders against the unscoped snapshot: a question or choice
	// soft-deleted after the answer was recorded still shows its label.
	quiz, err := s.quizRepo.FindByIDForReview(attempt.QuizID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperr.New(apperr.CodeQuizNotFound, "Quiz not found.")
		}
		return nil, fmt.Errorf("loading quiz %s: %w", attempt.QuizID, err)
	}

	review := &dto.ResultReviewDTO{AttemptID: attempt.ID}
	for _, question := range orderedQuestions(quiz) {
		item := attempt.ItemForQuestion(question.ID)

		entry := dto.ReviewItemDTO{
			QuestionID: question.ID,
			Question:   question.Text,
			Type:       string(question.Type),
			Points:     question.Points,
		}
		if item != nil {
			entry.AwardedScore = item.AwardedScore
			entry.IsCorrect = item.IsCorrect
		}

		if question.Type == model.QuestionFillIn {
			text := &dto.ReviewTextDTO{}
			if item != nil && item.TextAnswer != nil {
				text.SubmittedText = &item.TextAnswer.SubmittedText
			}
			if question.TextAnswer != nil {
				text.ExpectedText = &question.TextAnswer.Text
			}
			entry.TextAnswer = text
		} else {
			var selected map[uuid.UUID]struct{}
			if item != nil {
				selected = item.SelectedChoiceIDSet()
			}
			for _, choice := range question.Choices {
				_, chosen := selected[choice.ID]
				entry.Options = append(entry.Options, dto.ReviewOptionDTO{
					ID:             choice.ID,
					Text:           choice.Label,
					IsCorrect:      choice.IsCorrect,
					SelectedByUser: chosen,
				})
			}
		}

		review.Items = append(review.Items, entry)
	}

	return review, nil
}

func (s *resultService) GetMyAttempts(userID uuid.UUID, status *model.AttemptStatus, skip, take int) (*dto.PagedDTO[dto.MyAttemptListItemDTO], error) {
	attempts, total, err := s.attemptRepo.FindByUser(userID, status, skip, take)
	if err != nil {
		return nil, fmt.Errorf("listing attempts: %w", err)
	}

	page := &dto.PagedDTO[dto.MyAttemptListItemDTO]{
		Items: make([]dto.MyAttemptListItemDTO, 0, len(attempts)),
		Total: total,
		Skip:  skip,
		Take:  take,
	}
	for _, attempt := range attempts {
		page.Items = append(page.Items, dto.MyAttemptListItemDTO{
			ID:          attempt.ID,
			QuizID:      attempt.QuizID,
			Status:      string(attempt.Status),
			TotalScore:  attempt.TotalScore,
			StartedAt:   attempt.StartedAt,
			SubmittedAt: attempt.SubmittedAt,
		})
	}
	return page, nil
}

// loadVisibleAttempt enforces owner-or-admin access; anything else reads as
// not found so the endpoint does not leak attempt existence.
func (s *resultService) loadVisibleAttempt(principal auth.Principal, attemptID uuid.UUID) (*model.Attempt, error) {
	attempt, err := s.attemptRepo.FindByID(attemptID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperr.New(apperr.CodeAttemptNotFound, "Attempt not found.")
		}
		return nil, fmt.Errorf("loading attempt %s: %w", attemptID, err)
	}
	if attempt.UserID != principal.ID && !principal.IsAdmin() {
		return nil, apperr.New(apperr.CodeAttemptNotFound, "Attempt not found.")
	}
	return attempt, nil
}
