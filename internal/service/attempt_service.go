package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/lshigami/Quokka/internal/apperr"
	"github.com/lshigami/Quokka/internal/dto"
	"github.com/lshigami/Quokka/internal/model"
	"github.com/lshigami/Quokka/internal/repository"
	"github.com/lshigami/Quokka/internal/scoring"
	"github.com/rs/zerolog/log"
)

// AttemptService owns the attempt lifecycle: starting or resuming a run,
// recording answers, and the transition to completed — whether explicit,
// detected mid-request, or forced by the expiration sweeper.
type AttemptService interface {
	StartOrResume(userID, quizID uuid.UUID) (*dto.StartAttemptDTO, error)
	GetState(userID, attemptID uuid.UUID) (*dto.AttemptStateDTO, error)
	SaveAnswer(userID, attemptID, questionID uuid.UUID, req dto.SaveAnswerRequest) (*dto.AttemptQuestionDTO, error)
	Submit(userID, attemptID uuid.UUID) (*dto.AttemptStateDTO, error)
}

type attemptService struct {
	quizRepo    repository.QuizRepository
	attemptRepo repository.AttemptRepository
	answers     repository.AttemptAnswerWriter
}

func NewAttemptService(
	quizRepo repository.QuizRepository,
	attemptRepo repository.AttemptRepository,
	answers repository.AttemptAnswerWriter,
) AttemptService {
	return &attemptService{
		quizRepo:    quizRepo,
		attemptRepo: attemptRepo,
		answers:     answers,
	}
}

func (s *attemptService) StartOrResume(userID, quizID uuid.UUID) (*dto.StartAttemptDTO, error) {
	quiz, err := s.quizRepo.FindByIDWithQuestions(quizID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperr.New(apperr.CodeQuizInvalid, "Quiz not available.")
		}
		return nil, fmt.Errorf("loading quiz %s: %w", quizID, err)
	}
	if !quiz.IsPublished || len(quiz.Questions) == 0 {
		return nil, apperr.New(apperr.CodeQuizInvalid, "Quiz not available.")
	}

	attempt, err := s.attemptRepo.FindActiveByUserAndQuiz(userID, quizID)
	if err != nil {
		return nil, fmt.Errorf("looking up active attempt: %w", err)
	}

	now := time.Now().UTC()
	if attempt == nil {
		attempt = model.NewAttempt(uuid.New(), quiz.ID, userID, now)
		if err := s.attemptRepo.Create(attempt); err != nil {
			log.Error().Err(err).Str("quiz_id", quizID.String()).Msg("Failed to create attempt")
			return nil, fmt.Errorf("creating attempt: %w", err)
		}
		log.Info().
			Str("attempt_id", attempt.ID.String()).
			Str("quiz_id", quiz.ID.String()).
			Str("user_id", userID.String()).
			Msg("Attempt started")
	}

	question, err := nextQuestionDTO(attempt, quiz)
	if err != nil {
		return nil, err
	}

	return &dto.StartAttemptDTO{
		AttemptID:        attempt.ID,
		TimeLimitSeconds: quiz.TimeLimitSeconds,
		TimeLeftSeconds:  timeLeftSeconds(attempt, quiz.TimeLimitSeconds, now),
		Question:         *question,
	}, nil
}

func (s *attemptService) GetState(userID, attemptID uuid.UUID) (*dto.AttemptStateDTO, error) {
	attempt, quiz, err := s.loadOwnedAttempt(userID, attemptID)
	if err != nil {
		return nil, err
	}
	return stateDTO(attempt, quiz, time.Now().UTC()), nil
}

func (s *attemptService) SaveAnswer(userID, attemptID, questionID uuid.UUID, req dto.SaveAnswerRequest) (*dto.AttemptQuestionDTO, error) {
	attempt, quiz, err := s.loadOwnedAttempt(userID, attemptID)
	if err != nil {
		return nil, err
	}

	if attempt.Status != model.AttemptInProgress {
		return nil, apperr.New(apperr.CodeAttemptCompleted, "Attempt already completed.")
	}

	now := time.Now().UTC()
	expired, err := completeIfExpired(s.attemptRepo, attempt, quiz.TimeLimitSeconds, now)
	if err != nil {
		return nil, fmt.Errorf("force-completing expired attempt: %w", err)
	}
	if expired {
		// The attempt just ended; the save is rejected, not silently scored.
		return nil, apperr.New(apperr.CodeAttemptTimeExpired, "Time expired.")
	}

	question := questionByID(quiz, questionID)
	if question == nil {
		return nil, apperr.New(apperr.CodeQuestionNotFound, "Question not found.")
	}

	outcome, err := scoring.Grade(question, scoring.Submission{
		SelectedChoiceIDs: req.SelectedChoiceIDs,
		SubmittedText:     req.SubmittedText,
	})
	if err != nil {
		return nil, err
	}

	if err := s.answers.Upsert(attempt.ID, question.ID, outcome, now); err != nil {
		log.Error().Err(err).
			Str("attempt_id", attempt.ID.String()).
			Str("question_id", question.ID.String()).
			Msg("Failed to upsert answer")
		return nil, fmt.Errorf("saving answer: %w", err)
	}

	updated, err := s.attemptRepo.FindByID(attempt.ID)
	if err != nil {
		return nil, fmt.Errorf("reloading attempt: %w", err)
	}

	answered := updated.AnsweredQuestionIDs()
	next := firstUnanswered(quiz, answered)
	if next == nil {
		// Everything is answered; echo the question just saved so the
		// client knows to submit.
		return questionDTO(quiz, question, true), nil
	}
	return questionDTO(quiz, next, len(quiz.Questions) == len(answered)+1), nil
}

func (s *attemptService) Submit(userID, attemptID uuid.UUID) (*dto.AttemptStateDTO, error) {
	attempt, quiz, err := s.loadOwnedAttempt(userID, attemptID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if attempt.Status == model.AttemptCompleted {
		// Submitting twice returns the stored snapshot unchanged.
		return stateDTO(attempt, quiz, now), nil
	}

	total := attempt.ItemScoreSum()
	if _, err := s.attemptRepo.CompleteIfInProgress(attempt.ID, now, total); err != nil {
		return nil, fmt.Errorf("completing attempt: %w", err)
	}

	// Reload: if the sweeper won the race, this reflects its completion.
	completed, err := s.attemptRepo.FindByID(attempt.ID)
	if err != nil {
		return nil, fmt.Errorf("reloading attempt: %w", err)
	}
	return stateDTO(completed, quiz, now), nil
}

func (s *attemptService) loadOwnedAttempt(userID, attemptID uuid.UUID) (*model.Attempt, *model.Quiz, error) {
	attempt, err := s.attemptRepo.FindByID(attemptID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, nil, apperr.New(apperr.CodeAttemptNotFound, "Attempt not found.")
		}
		return nil, nil, fmt.Errorf("loading attempt %s: %w", attemptID, err)
	}
	if attempt.UserID != userID {
		return nil, nil, apperr.New(apperr.CodeAttemptNotFound, "Attempt not found.")
	}

	quiz, err := s.quizRepo.FindByIDWithQuestions(attempt.QuizID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, nil, apperr.New(apperr.CodeQuizNotFound, "Quiz not found.")
		}
		return nil, nil, fmt.Errorf("loading quiz %s: %w", attempt.QuizID, err)
	}
	return attempt, quiz, nil
}

// completeIfExpired is the single force-complete path shared by the request
// handlers and the expiration sweeper. It reports whether the attempt's time
// budget has elapsed; the guarded update inside CompleteIfInProgress makes
// the transition a no-op when a racing writer already completed it.
func completeIfExpired(attemptRepo repository.AttemptRepository, attempt *model.Attempt, timeLimitSeconds int, now time.Time) (bool, error) {
	elapsed := int(now.Sub(attempt.StartedAt).Seconds())
	if elapsed < timeLimitSeconds {
		return false, nil
	}

	total := attempt.ItemScoreSum()
	won, err := attemptRepo.CompleteIfInProgress(attempt.ID, now, total)
	if err != nil {
		return false, err
	}
	if won {
		log.Info().
			Str("attempt_id", attempt.ID.String()).
			Int("total_score", total).
			Msg("Attempt force-completed on expiry")
	}
	return true, nil
}

func timeLeftSeconds(attempt *model.Attempt, timeLimitSeconds int, now time.Time) int {
	if attempt.Status == model.AttemptCompleted {
		return 0
	}
	left := timeLimitSeconds - int(now.Sub(attempt.StartedAt).Seconds())
	if left < 0 {
		return 0
	}
	return left
}

func stateDTO(attempt *model.Attempt, quiz *model.Quiz, now time.Time) *dto.AttemptStateDTO {
	return &dto.AttemptStateDTO{
		ID:               attempt.ID,
		QuizID:           attempt.QuizID,
		Status:           string(attempt.Status),
		StartedAt:        attempt.StartedAt,
		SubmittedAt:      attempt.SubmittedAt,
		TotalScore:       attempt.TotalScore,
		TimeLimitSeconds: quiz.TimeLimitSeconds,
		TimeLeftSeconds:  timeLeftSeconds(attempt, quiz.TimeLimitSeconds, now),
		AnsweredCount:    len(attempt.Items),
		TotalQuestions:   len(quiz.Questions),
	}
}

// orderedQuestions sorts by creation time, ties broken by id, so the
// question sequence is stable for the whole lifetime of an attempt.
func orderedQuestions(quiz *model.Quiz) []model.Question {
	questions := make([]model.Question, len(quiz.Questions))
	copy(questions, quiz.Questions)
	sort.SliceStable(questions, func(i, j int) bool {
		if !questions[i].CreatedAt.Equal(questions[j].CreatedAt) {
			return questions[i].CreatedAt.Before(questions[j].CreatedAt)
		}
		return questions[i].ID.String() < questions[j].ID.String()
	})
	return questions
}

func questionByID(quiz *model.Quiz, id uuid.UUID) *model.Question {
	for i := range quiz.Questions {
		if quiz.Questions[i].ID == id {
			return &quiz.Questions[i]
		}
	}
	return nil
}

func firstUnanswered(quiz *model.Quiz, answered map[uuid.UUID]struct{}) *model.Question {
	for _, question := range orderedQuestions(quiz) {
		if _, ok := answered[question.ID]; !ok {
			q := question
			return &q
		}
	}
	return nil
}

func nextQuestionDTO(attempt *model.Attempt, quiz *model.Quiz) (*dto.AttemptQuestionDTO, error) {
	answered := attempt.AnsweredQuestionIDs()
	next := firstUnanswered(quiz, answered)
	if next == nil {
		return nil, apperr.New(apperr.CodeAttemptCompleted, "All questions answered.")
	}
	return questionDTO(quiz, next, len(quiz.Questions) == len(answered)+1), nil
}

func questionDTO(quiz *model.Quiz, question *model.Question, isLast bool) *dto.AttemptQuestionDTO {
	out := &dto.AttemptQuestionDTO{
		ID:       question.ID,
		QuizID:   quiz.ID,
		Question: question.Text,
		Type:     string(question.Type),
		Points:   question.Points,
		IsLast:   isLast,
	}
	for _, choice := range question.Choices {
		out.Options = append(out.Options, dto.AttemptQuestionOptionDTO{
			ID:   choice.ID,
			Text: choice.Label,
		})
	}
	return out
}
