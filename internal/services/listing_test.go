package services

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-withdrawal-workflow/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListingService_List_Clamping(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		pageSize   int
		wantLimit  int
		wantOffset int
		wantPage   int
	}{
		{"defaults", 0, 0, 20, 0, 1},
		{"negative page", -3, 10, 10, 0, 1},
		{"second page", 2, 10, 10, 10, 2},
		{"negative size", 1, -5, 1, 0, 1},
		{"oversized", 3, 1000, 100, 200, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			reader := NewMockWithdrawalReader(ctrl)
			reader.EXPECT().List(gomock.Any(), models.ListFilter{}, tt.wantLimit, tt.wantOffset).Return(nil, 0, nil)

			svc := NewListingService(reader, 20, 100)
			page, err := svc.List(context.Background(), models.ListFilter{}, tt.page, tt.pageSize)

			require.NoError(t, err)
			assert.Equal(t, tt.wantPage, page.Page)
			assert.Equal(t, tt.wantLimit, page.PageSize)
			assert.NotNil(t, page.Items)
			assert.Empty(t, page.Items)
		})
	}
}

func TestListingService_List_HugePageDoesNotOverflow(t *testing.T) {
	tests := []struct {
		name     string
		page     int
		pageSize int
	}{
		{"max int page", math.MaxInt, 100},
		{"page just past the offset limit", math.MaxInt64 / 50, 100},
		{"single item pages", math.MaxInt, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			reader := NewMockWithdrawalReader(ctrl)
			reader.EXPECT().List(gomock.Any(), gomock.Any(), tt.pageSize, gomock.Any()).
				DoAndReturn(func(_ any, _ models.ListFilter, limit, offset int) ([]models.WithdrawalRequest, int, error) {
					assert.GreaterOrEqual(t, offset, 0)
					assert.Zero(t, offset%limit)
					return nil, 3, nil
				})

			page, err := NewListingService(reader, 20, 100).List(context.Background(), models.ListFilter{}, tt.page, tt.pageSize)
			require.NoError(t, err)
			assert.Empty(t, page.Items)
			assert.Equal(t, 3, page.TotalCount)
			assert.Positive(t, page.Page)
		})
	}
}

func TestListingService_List_UnknownStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reader := NewMockWithdrawalReader(ctrl)
	svc := NewListingService(reader, 0, 0)

	st := models.Status("Archived")
	_, err := svc.List(context.Background(), models.ListFilter{Status: &st}, 1, 10)
	assert.ErrorIs(t, err, models.ErrValidationFailed)
}

func TestListingService_List_PersistenceFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reader := NewMockWithdrawalReader(ctrl)
	reader.EXPECT().List(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, 0, models.NewPersistenceFailure("list withdrawal requests", errors.New("timeout")))

	_, err := NewListingService(reader, 0, 0).List(context.Background(), models.ListFilter{}, 1, 10)
	assert.ErrorIs(t, err, models.ErrPersistenceFailure)
}

func TestListingService_List_QueueOrder(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()

	st := models.StatusPendingApproval
	var ids []uuid.UUID
	for i := 0; i < 5; i++ {
		r := &models.WithdrawalRequest{
			ID:              uuid.New(),
			RequesterID:     uuid.New(),
			RequestedAmount: decimal.NewFromInt(100),
			FinalAmount:     decimal.NewFromInt(100),
			Status:          st,
			CreatedAt:       t0.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, store.Create(ctx, r))
		ids = append(ids, r.ID)
	}

	svc := NewListingService(store, 2, 100)

	first, err := svc.List(ctx, models.ListFilter{Status: &st}, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, 5, first.TotalCount)
	require.Len(t, first.Items, 2)
	assert.Equal(t, ids[4], first.Items[0].ID)
	assert.Equal(t, ids[3], first.Items[1].ID)

	last, err := svc.List(ctx, models.ListFilter{Status: &st}, 3, 0)
	require.NoError(t, err)
	require.Len(t, last.Items, 1)
	assert.Equal(t, ids[0], last.Items[0].ID)

	past, err := svc.List(ctx, models.ListFilter{Status: &st}, 4, 0)
	require.NoError(t, err)
	assert.Empty(t, past.Items)
	assert.Equal(t, 5, past.TotalCount)
}

func TestListingService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reader := NewMockWithdrawalReader(ctrl)
	svc := NewListingService(reader, 0, 0)

	req := pendingApproval()
	reader.EXPECT().GetByID(gomock.Any(), req.ID).Return(req, nil)
	got, err := svc.Get(context.Background(), req.ID)
	require.NoError(t, err)
	assert.Len(t, got.History, 1)

	missing := uuid.New()
	reader.EXPECT().GetByID(gomock.Any(), missing).Return(nil, models.NewNotFound(missing))
	_, err = svc.Get(context.Background(), missing)
	assert.ErrorIs(t, err, models.ErrNotFound)
}
