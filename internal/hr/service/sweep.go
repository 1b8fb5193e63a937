package service

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/internal/hr/compliance"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/internal/hr/domain"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/internal/hr/events"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/internal/hr/repository"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/pkg/clock"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/pkg/config"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/pkg/logger"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/pkg/messaging"
)

// SweepService runs the daily expiry status sweep. The sweep moves active
// certificates whose dates have crossed a boundary into expiring_soon or
// expired; it never touches suspended, revoked or renewed records. Running
// it twice is a no-op the second time.
type SweepService struct {
	certs     *repository.CertificateRepository
	emitter   *events.Emitter
	clock     clock.Clock
	logger    *logger.Logger
	chunkSize int

	cron *cron.Cron
}

// SweepResult summarizes one sweep run
type SweepResult struct {
	Scanned  int           `json:"scanned"`
	Changed  int           `json:"changed"`
	Duration time.Duration `json:"-"`
}

// NewSweepService creates a new sweep service
func NewSweepService(
	certs *repository.CertificateRepository,
	emitter *events.Emitter,
	clk clock.Clock,
	cfg config.SweepConfig,
	log *logger.Logger,
) *SweepService {
	chunkSize := cfg.ChunkSize
	if chunkSize <= 0 {
		chunkSize = 500
	}
	return &SweepService{
		certs:     certs,
		emitter:   emitter,
		clock:     clk,
		logger:    log.WithComponent("sweep-service"),
		chunkSize: chunkSize,
	}
}

// Run executes one full sweep over all eligible certificates, in id-ordered
// chunks so a mid-run failure can be retried without double effects.
func (s *SweepService) Run(ctx context.Context) (*SweepResult, error) {
	started := time.Now()
	now := s.clock.Now()
	result := &SweepResult{}

	afterID := ""
	for {
		chunk, err := s.certs.ListSweepChunk(ctx, afterID, s.chunkSize)
		if err != nil {
			return nil, err
		}
		if len(chunk) == 0 {
			break
		}

		for _, candidate := range chunk {
			result.Scanned++

			next := compliance.NextLifecycle(&domain.Certificate{
				Status:     candidate.Status,
				ExpiryDate: candidate.ExpiryDate,
			}, candidate.WarningDays, now)

			if next == candidate.Status {
				continue
			}

			if err := s.certs.UpdateLifecycle(ctx, candidate.ID, next); err != nil {
				return nil, err
			}
			result.Changed++

			if next == domain.StatusExpiringSoon {
				s.emitter.Emit(ctx, messaging.EventCertificateExpiring, messaging.CertificateEvent{
					CertificateID: candidate.ID,
					Status:        string(next),
					ExpiryDate:    candidate.ExpiryDate,
				})
			}
		}

		afterID = chunk[len(chunk)-1].ID
	}

	result.Duration = time.Since(started)

	s.logger.Info().
		Int("scanned", result.Scanned).
		Int("changed", result.Changed).
		Dur("duration", result.Duration).
		Msg("expiry sweep completed")

	s.emitter.Emit(ctx, messaging.EventSweepCompleted, messaging.SweepEvent{
		Scanned: result.Scanned,
		Changed: result.Changed,
	})

	return result, nil
}

// Schedule starts the cron scheduler with the configured spec
func (s *SweepService) Schedule(spec string) error {
	s.cron = cron.New()
	_, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		if _, err := s.Run(ctx); err != nil {
			s.logger.Error().Err(err).Msg("scheduled expiry sweep failed")
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info().Str("spec", spec).Msg("expiry sweep scheduled")
	return nil
}

// Stop stops the scheduler and waits for a running sweep to finish
func (s *SweepService) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}
