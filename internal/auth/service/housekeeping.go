package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/teamauth/internal/auth/store"
	"github.com/aussiebroadwan/teamauth/pkg/slogx"
)

const DefaultHousekeepingInterval = time.Hour

// HousekeepingService periodically expires lapsed invitations and drops
// refresh tokens that can no longer be presented.
type HousekeepingService struct {
	Store    store.Store
	Invites  *InviteService
	Clock    Clock
	Logger   *slog.Logger
	Interval time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// SweepResult counts what one pass changed.
type SweepResult struct {
	ExpiredInvites       int64 `json:"expired_invites"`
	DeletedRefreshTokens int64 `json:"deleted_refresh_tokens"`
}

// NewHousekeepingService defaults a non-positive interval to one hour.
func NewHousekeepingService(st store.Store, invites *InviteService, clock Clock, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = DefaultHousekeepingInterval
	}
	if logger == nil {
		logger = slogx.Discard()
	}

	return &HousekeepingService{
		Store:    st,
		Invites:  invites,
		Clock:    clock,
		Logger:   logger,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start launches the worker. Call Stop to shut it down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop blocks until any in-progress pass has finished.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.RunOnce(slogx.WithContext(context.Background(), s.Logger))

	for {
		select {
		case <-ticker.C:
			s.RunOnce(slogx.WithContext(context.Background(), s.Logger))
		case <-s.stopCh:
			return
		}
	}
}

// RunOnce performs a single scheduled pass, logging any failure.
func (s *HousekeepingService) RunOnce(ctx context.Context) SweepResult {
	res, err := s.Sweep(ctx)
	if err != nil {
		slogx.FromContext(ctx).Error("housekeeping pass failed", "error", err)
	}
	return res
}

// Sweep performs a single pass. Each step is independent; a failure in one
// does not stop the other, and every failure is returned.
func (s *HousekeepingService) Sweep(ctx context.Context) (SweepResult, error) {
	var (
		res  SweepResult
		errs []error
	)

	if s.Invites != nil {
		n, err := s.Invites.SweepExpired(ctx)
		if err != nil {
			errs = append(errs, fmt.Errorf("expire pending invites: %w", err))
		}
		res.ExpiredInvites = n
	}

	n, err := s.Store.RefreshTokens().DeleteExpiredRefreshTokens(ctx, nowFrom(s.Clock))
	if err != nil {
		errs = append(errs, fmt.Errorf("delete expired refresh tokens: %w", err))
	}
	res.DeletedRefreshTokens = n

	slogx.FromContext(ctx).Debug("housekeeping pass completed",
		slog.Int64("expired_invites", res.ExpiredInvites),
		slog.Int64("deleted_refresh_tokens", res.DeletedRefreshTokens),
	)
	return res, errors.Join(errs...)
}
