package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lshigami/Quokka/config"
	"github.com/lshigami/Quokka/internal/repository"
	"github.com/rs/zerolog/log"
)

const (
	defaultSweepInterval  = 30 * time.Second
	defaultSweepBatchSize = 200
)

// ExpirationSweeper periodically force-completes in-progress attempts whose
// time budget has elapsed, so clients that vanished mid-attempt still end up
// with a scored, completed attempt. It shares the completion path with the
// request handlers, so a sweep racing a Submit resolves to a single winner.
type ExpirationSweeper struct {
	attemptRepo repository.AttemptRepository
	quizRepo    repository.QuizRepository
	interval    time.Duration
	batchSize   int
}

func NewExpirationSweeper(cfg *config.Config, attemptRepo repository.AttemptRepository, quizRepo repository.QuizRepository) *ExpirationSweeper {
	interval := time.Duration(cfg.Sweeper.IntervalSeconds) * time.Second
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	batchSize := cfg.Sweeper.BatchSize
	if batchSize <= 0 {
		batchSize = defaultSweepBatchSize
	}
	return &ExpirationSweeper{
		attemptRepo: attemptRepo,
		quizRepo:    quizRepo,
		interval:    interval,
		batchSize:   batchSize,
	}
}

// Run blocks until ctx is cancelled, sweeping once per interval. It only
// stops between ticks, never mid-sweep.
func (s *ExpirationSweeper) Run(ctx context.Context) {
	log.Info().
		Dur("interval", s.interval).
		Int("batch_size", s.batchSize).
		Msg("Expiration sweeper started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Expiration sweeper stopped")
			return
		case <-ticker.C:
			s.tick()
		}
	}
}

func (s *ExpirationSweeper) tick() {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("Expiration sweep panicked")
		}
	}()
	if err := s.sweepOnce(time.Now().UTC()); err != nil {
		log.Error().Err(err).Msg("Expiration sweep failed")
	}
}

// sweepOnce loads the oldest in-progress attempts and force-completes the
// expired ones. A failure on one attempt is logged and does not abort the
// rest of the batch.
func (s *ExpirationSweeper) sweepOnce(now time.Time) error {
	attempts, err := s.attemptRepo.FindInProgressBatch(s.batchSize)
	if err != nil {
		return err
	}
	if len(attempts) == 0 {
		return nil
	}

	quizIDs := make([]uuid.UUID, 0, len(attempts))
	seen := make(map[uuid.UUID]struct{}, len(attempts))
	for _, attempt := range attempts {
		if _, ok := seen[attempt.QuizID]; ok {
			continue
		}
		seen[attempt.QuizID] = struct{}{}
		quizIDs = append(quizIDs, attempt.QuizID)
	}

	limits, err := s.quizRepo.TimeLimitsByIDs(quizIDs)
	if err != nil {
		return err
	}

	expired := 0
	for i := range attempts {
		attempt := &attempts[i]
		limit, ok := limits[attempt.QuizID]
		if !ok {
			// Quiz hard-deleted under the attempt; leave it for a human.
			log.Warn().
				Str("attempt_id", attempt.ID.String()).
				Str("quiz_id", attempt.QuizID.String()).
				Msg("In-progress attempt references missing quiz")
			continue
		}

		done, err := completeIfExpired(s.attemptRepo, attempt, limit, now)
		if err != nil {
			log.Error().Err(err).
				Str("attempt_id", attempt.ID.String()).
				Msg("Failed to force-complete expired attempt")
			continue
		}
		if done {
			expired++
		}
	}

	if expired > 0 {
		log.Info().Int("expired", expired).Int("scanned", len(attempts)).Msg("Expired attempts swept")
	}
	return nil
}
