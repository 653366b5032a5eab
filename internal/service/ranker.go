package service

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lshigami/Quokka/internal/repository"
)

// rankedEntry is one user's aggregated leaderboard position before slicing
// into a page. AnchorAt is the tie-break anchor: the earliest submission
// achieving the entry's score — earlier mastery wins ties.
type rankedEntry struct {
	UserID   uuid.UUID
	Username string
	Photo    *string
	Score    int
	AnchorAt time.Time
}

// rankPerQuiz reduces completed attempts on a single quiz to one entry per
// user: the best total score, anchored at the earliest submission that
// achieved it.
func rankPerQuiz(rows []repository.CompletedAttemptRow) []rankedEntry {
	best := make(map[uuid.UUID]*rankedEntry)
	for _, row := range rows {
		entry, ok := best[row.UserID]
		switch {
		case !ok:
			best[row.UserID] = &rankedEntry{
				UserID:   row.UserID,
				Username: row.Username,
				Photo:    row.Photo,
				Score:    row.TotalScore,
				AnchorAt: row.SubmittedAt,
			}
		case row.TotalScore > entry.Score:
			entry.Score = row.TotalScore
			entry.AnchorAt = row.SubmittedAt
		case row.TotalScore == entry.Score && row.SubmittedAt.Before(entry.AnchorAt):
			entry.AnchorAt = row.SubmittedAt
		}
	}
	return sortEntries(collect(best))
}

// rankGlobal aggregates across quizzes: per (user, quiz) best-with-earliest
// first, then per user the sum of bests, anchored at the minimum of the
// per-quiz anchors.
func rankGlobal(rows []repository.CompletedAttemptRow) []rankedEntry {
	type userQuiz struct {
		user uuid.UUID
		quiz uuid.UUID
	}
	perQuiz := make(map[userQuiz]*rankedEntry)
	for _, row := range rows {
		key := userQuiz{user: row.UserID, quiz: row.QuizID}
		entry, ok := perQuiz[key]
		switch {
		case !ok:
			perQuiz[key] = &rankedEntry{
				UserID:   row.UserID,
				Username: row.Username,
				Photo:    row.Photo,
				Score:    row.TotalScore,
				AnchorAt: row.SubmittedAt,
			}
		case row.TotalScore > entry.Score:
			entry.Score = row.TotalScore
			entry.AnchorAt = row.SubmittedAt
		case row.TotalScore == entry.Score && row.SubmittedAt.Before(entry.AnchorAt):
			entry.AnchorAt = row.SubmittedAt
		}
	}

	totals := make(map[uuid.UUID]*rankedEntry)
	for _, quizBest := range perQuiz {
		entry, ok := totals[quizBest.UserID]
		if !ok {
			copied := *quizBest
			totals[quizBest.UserID] = &copied
			continue
		}
		entry.Score += quizBest.Score
		if quizBest.AnchorAt.Before(entry.AnchorAt) {
			entry.AnchorAt = quizBest.AnchorAt
		}
	}
	return sortEntries(collect(totals))
}

// rankOf computes the user's dense rank independently of any page slicing:
// the count of strictly better entries plus one.
func rankOf(entries []rankedEntry, userID uuid.UUID) (rankedEntry, int, bool) {
	var mine *rankedEntry
	for i := range entries {
		if entries[i].UserID == userID {
			mine = &entries[i]
			break
		}
	}
	if mine == nil {
		return rankedEntry{}, 0, false
	}

	better := 0
	for _, entry := range entries {
		if entry.UserID == userID {
			continue
		}
		if entry.Score > mine.Score ||
			(entry.Score == mine.Score && entry.AnchorAt.Before(mine.AnchorAt)) {
			better++
		}
	}
	return *mine, better + 1, true
}

func sortEntries(entries []rankedEntry) []rankedEntry {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		if !entries[i].AnchorAt.Equal(entries[j].AnchorAt) {
			return entries[i].AnchorAt.Before(entries[j].AnchorAt)
		}
		return entries[i].UserID.String() < entries[j].UserID.String()
	})
	return entries
}

func collect[K comparable](m map[K]*rankedEntry) []rankedEntry {
	entries := make([]rankedEntry, 0, len(m))
	for _, entry := range m {
		entries = append(entries, *entry)
	}
	return entries
}

func percentage(score, maxScore int) int {
	if maxScore <= 0 {
		return 0
	}
	return int(math.Round(float64(score) * 100 / float64(maxScore)))
}

// periodWindow normalizes the period filter and resolves its lower bound.
// Unknown values fall back to "all".
func periodWindow(period string, now time.Time) (string, *time.Time) {
	switch strings.ToLower(strings.TrimSpace(period)) {
	case "month":
		from := now.AddDate(0, 0, -30)
		return "month", &from
	case "week":
		from := now.AddDate(0, 0, -7)
		return "week", &from
	default:
		return "all", nil
	}
}
