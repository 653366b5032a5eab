package dto

import (
	"time"

	"github.com/google/uuid"
)

type LeaderboardEntryDTO struct {
	Rank        int           `json:"rank"`
	User        UserPublicDTO `json:"user"`
	TotalScore  int           `json:"total_score"`
	Percentage  int           `json:"percentage"`
	SubmittedAt *time.Time    `json:"submitted_at,omitempty"`
}

type LeaderboardDTO struct {
	QuizID            uuid.UUID             `json:"quiz_id"`
	QuizName          string                `json:"quiz_name"`
	Period            string                `json:"period"`
	MaxScore          int                   `json:"max_score"`
	TotalParticipants int                   `json:"total_participants"`
	Top               []LeaderboardEntryDTO `json:"top"`
	MyEntry           *LeaderboardEntryDTO  `json:"my_entry,omitempty"`
}

type GlobalLeaderboardDTO struct {
	Period            string                `json:"period"`
	MaxScoreTotal     int                   `json:"max_score_total"`
	TotalParticipants int                   `json:"total_participants"`
	Top               []LeaderboardEntryDTO `json:"top"`
	MyEntry           *LeaderboardEntryDTO  `json:"my_entry,omitempty"`
}
