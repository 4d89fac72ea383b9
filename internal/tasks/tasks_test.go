package tasks_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-bizbook/internal/tasks"
)

type fakeRefresher struct {
	calls []uuid.UUID
	err   error
}

func (f *fakeRefresher) RefreshBalance(_ context.Context, id uuid.UUID) (decimal.Decimal, error) {
	f.calls = append(f.calls, id)
	if f.err != nil {
		return decimal.Zero, f.err
	}
	return decimal.RequireFromString("42.00"), nil
}

func TestNewRefreshBalanceTask(t *testing.T) {
	id := uuid.New()
	task, err := tasks.NewRefreshBalanceTask(id)
	require.NoError(t, err)
	require.Equal(t, tasks.TypeRefreshBalance, task.Type())

	var payload tasks.RefreshBalancePayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	require.Equal(t, id, payload.PartyID)
}

func TestRefreshBalanceHandler(t *testing.T) {
	refresher := &fakeRefresher{}
	handler := tasks.RefreshBalanceHandler{Parties: refresher, Logger: zerolog.Nop()}

	id := uuid.New()
	task, err := tasks.NewRefreshBalanceTask(id)
	require.NoError(t, err)
	require.NoError(t, handler.ProcessTask(context.Background(), task))
	require.Equal(t, []uuid.UUID{id}, refresher.calls)
}

func TestRefreshBalanceHandlerSkipsBadPayload(t *testing.T) {
	handler := tasks.RefreshBalanceHandler{Parties: &fakeRefresher{}, Logger: zerolog.Nop()}

	err := handler.ProcessTask(context.Background(), asynq.NewTask(tasks.TypeRefreshBalance, []byte("{")))
	require.Error(t, err)
	require.True(t, errors.Is(err, asynq.SkipRetry))
}

func TestRefreshBalanceHandlerPropagatesErrors(t *testing.T) {
	refresher := &fakeRefresher{err: errors.New("db down")}
	handler := tasks.RefreshBalanceHandler{Parties: refresher, Logger: zerolog.Nop()}

	task, err := tasks.NewRefreshBalanceTask(uuid.New())
	require.NoError(t, err)
	err = handler.ProcessTask(context.Background(), task)
	require.Error(t, err)
	require.False(t, errors.Is(err, asynq.SkipRetry))
}
