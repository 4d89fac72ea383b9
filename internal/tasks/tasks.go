// Package tasks defines the background task types shared by the API and the
// worker, and the enqueue/handle plumbing around asynq.
package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-bizbook/internal/obs"
)

// TypeRefreshBalance recomputes a party's outstanding balance from its
// documents.
const TypeRefreshBalance = "party:refresh_balance"

// RefreshBalancePayload identifies the party to recompute.
type RefreshBalancePayload struct {
	PartyID uuid.UUID `json:"party_id"`
}

// NewRefreshBalanceTask builds the asynq task for a party.
func NewRefreshBalanceTask(partyID uuid.UUID) (*asynq.Task, error) {
	payload, err := json.Marshal(RefreshBalancePayload{PartyID: partyID})
	if err != nil {
		return nil, fmt.Errorf("marshal refresh balance payload: %w", err)
	}
	return asynq.NewTask(TypeRefreshBalance, payload, asynq.MaxRetry(5), asynq.Timeout(30*time.Second)), nil
}

// Enqueuer submits background tasks. A nil client degrades to a no-op so
// document writes never fail on queue trouble.
type Enqueuer struct {
	Client *asynq.Client
	Queue  string
	Logger zerolog.Logger
}

// RefreshPartyBalance enqueues a balance recompute for the party.
func (e Enqueuer) RefreshPartyBalance(ctx context.Context, partyID uuid.UUID) {
	if e.Client == nil || partyID == uuid.Nil {
		return
	}
	task, err := NewRefreshBalanceTask(partyID)
	if err != nil {
		e.Logger.Error().Err(err).Str("party_id", partyID.String()).Msg("build refresh balance task")
		return
	}
	opts := []asynq.Option{}
	if e.Queue != "" {
		opts = append(opts, asynq.Queue(e.Queue))
	}
	if _, err := e.Client.EnqueueContext(ctx, task, opts...); err != nil {
		e.Logger.Error().Err(err).Str("party_id", partyID.String()).Msg("enqueue refresh balance task")
	}
}

type balanceRefresher interface {
	RefreshBalance(ctx context.Context, id uuid.UUID) (decimal.Decimal, error)
}

// RefreshBalanceHandler processes TypeRefreshBalance tasks in the worker.
type RefreshBalanceHandler struct {
	Parties balanceRefresher
	Logger  zerolog.Logger
}

// ProcessTask implements asynq.Handler.
func (h RefreshBalanceHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	start := time.Now()
	var payload RefreshBalancePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		countRefresh("invalid")
		return fmt.Errorf("unmarshal refresh balance payload: %v: %w", err, asynq.SkipRetry)
	}
	if payload.PartyID == uuid.Nil {
		countRefresh("invalid")
		return fmt.Errorf("refresh balance: missing party id: %w", asynq.SkipRetry)
	}
	balance, err := h.Parties.RefreshBalance(ctx, payload.PartyID)
	if err != nil {
		countRefresh("error")
		return fmt.Errorf("refresh balance for %s: %w", payload.PartyID, err)
	}
	countRefresh("ok")
	if obs.BalanceRefreshDuration != nil {
		obs.BalanceRefreshDuration.Observe(float64(time.Since(start).Milliseconds()))
	}
	h.Logger.Info().
		Str("party_id", payload.PartyID.String()).
		Str("balance", balance.StringFixed(2)).
		Msg("party balance refreshed")
	return nil
}

func countRefresh(result string) {
	if obs.BalanceRefreshTotal != nil {
		obs.BalanceRefreshTotal.WithLabelValues(result).Inc()
	}
}
