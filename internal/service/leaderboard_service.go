package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lshigami/Quokka/internal/apperr"
	"github.com/lshigami/Quokka/internal/dto"
	"github.com/lshigami/Quokka/internal/repository"
)

const (
	defaultLeaderboardTake = 10
	maxLeaderboardTake     = 100
)

// LeaderboardService ranks completed attempts, per quiz and globally. The
// requesting user's own rank is computed against the full standings, not the
// returned page.
type LeaderboardService interface {
	GetQuizLeaderboard(currentUser *uuid.UUID, quizID uuid.UUID, period string, take int) (*dto.LeaderboardDTO, error)
	GetGlobalLeaderboard(currentUser *uuid.UUID, period string, take int) (*dto.GlobalLeaderboardDTO, error)
}

type leaderboardService struct {
	quizRepo    repository.QuizRepository
	attemptRepo repository.AttemptRepository
}

func NewLeaderboardService(quizRepo repository.QuizRepository, attemptRepo repository.AttemptRepository) LeaderboardService {
	return &leaderboardService{quizRepo: quizRepo, attemptRepo: attemptRepo}
}

func (s *leaderboardService) GetQuizLeaderboard(currentUser *uuid.UUID, quizID uuid.UUID, period string, take int) (*dto.LeaderboardDTO, error) {
	quiz, err := s.quizRepo.FindByIDWithQuestions(quizID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperr.New(apperr.CodeQuizNotFound, "Quiz not found.")
		}
		return nil, fmt.Errorf("loading quiz %s: %w", quizID, err)
	}
	maxScore := quiz.MaxScore()

	normPeriod, since := periodWindow(period, time.Now().UTC())
	rows, err := s.attemptRepo.CompletedRows(&quizID, since)
	if err != nil {
		return nil, fmt.Errorf("loading completed attempts: %w", err)
	}

	entries := rankPerQuiz(rows)
	out := &dto.LeaderboardDTO{
		QuizID:            quiz.ID,
		QuizName:          quiz.Name,
		Period:            normPeriod,
		MaxScore:          maxScore,
		TotalParticipants: len(entries),
		Top:               topEntries(entries, clampTake(take), maxScore),
	}
	if currentUser != nil {
		out.MyEntry = myEntry(entries, *currentUser, maxScore)
	}
	return out, nil
}

func (s *leaderboardService) GetGlobalLeaderboard(currentUser *uuid.UUID, period string, take int) (*dto.GlobalLeaderboardDTO, error) {
	maxScoreTotal, err := s.quizRepo.MaxScoreTotal()
	if err != nil {
		return nil, fmt.Errorf("computing max score total: %w", err)
	}

	normPeriod, since := periodWindow(period, time.Now().UTC())
	rows, err := s.attemptRepo.CompletedRows(nil, since)
	if err != nil {
		return nil, fmt.Errorf("loading completed attempts: %w", err)
	}

	entries := rankGlobal(rows)
	out := &dto.GlobalLeaderboardDTO{
		Period:            normPeriod,
		MaxScoreTotal:     maxScoreTotal,
		TotalParticipants: len(entries),
		Top:               topEntries(entries, clampTake(take), maxScoreTotal),
	}
	if currentUser != nil {
		out.MyEntry = myEntry(entries, *currentUser, maxScoreTotal)
	}
	return out, nil
}

func clampTake(take int) int {
	if take <= 0 {
		return defaultLeaderboardTake
	}
	if take > maxLeaderboardTake {
		return maxLeaderboardTake
	}
	return take
}

func topEntries(entries []rankedEntry, take, maxScore int) []dto.LeaderboardEntryDTO {
	top := make([]dto.LeaderboardEntryDTO, 0, take)
	for i, entry := range entries {
		if i >= take {
			break
		}
		top = append(top, entryDTO(entry, i+1, maxScore))
	}
	return top
}

func myEntry(entries []rankedEntry, userID uuid.UUID, maxScore int) *dto.LeaderboardEntryDTO {
	mine, rank, ok := rankOf(entries, userID)
	if !ok {
		return nil
	}
	out := entryDTO(mine, rank, maxScore)
	return &out
}

func entryDTO(entry rankedEntry, rank, maxScore int) dto.LeaderboardEntryDTO {
	anchor := entry.AnchorAt
	return dto.LeaderboardEntryDTO{
		Rank: rank,
		User: dto.UserPublicDTO{
			ID:       entry.UserID,
			Username: entry.Username,
			Photo:    entry.Photo,
		},
		TotalScore:  entry.Score,
		Percentage:  percentage(entry.Score, maxScore),
		SubmittedAt: &anchor,
	}
}
