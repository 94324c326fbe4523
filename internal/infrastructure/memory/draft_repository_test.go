package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WMASewwandi/clovesis-sub003/internal/domain/paymentplan"
	"github.com/WMASewwandi/clovesis-sub003/internal/infrastructure/memory"
)

func TestDraftRepo_GuardarLeerBorrar(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewDraftRepository()
	plan := paymentplan.NewPlan(time.Now())

	require.NoError(t, repo.Save(ctx, plan))
	assert.Equal(t, 1, repo.Len())

	got, err := repo.GetByID(ctx, plan.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, plan.ID, got.ID)
	assert.Len(t, got.Lines, 1)

	require.NoError(t, repo.Delete(ctx, plan.ID))
	got, err = repo.GetByID(ctx, plan.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDraftRepo_DevuelveCopias(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewDraftRepository()
	plan := paymentplan.NewPlan(time.Now())
	require.NoError(t, repo.Save(ctx, plan))

	got, err := repo.GetByID(ctx, plan.ID)
	require.NoError(t, err)
	got.Lines[0].Amount = decimal.NewFromInt(99)

	again, err := repo.GetByID(ctx, plan.ID)
	require.NoError(t, err)
	assert.True(t, again.Lines[0].Amount.IsZero())
}

func TestDraftRepo_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := memory.NewDraftRepository().Save(ctx, paymentplan.NewPlan(time.Now()))

	assert.ErrorIs(t, err, context.Canceled)
}
