package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/rhankbrguw/rumah-kosim-api/pkg/errors"

	"github.com/rhankbrguw/rumah-kosim-api/internal/domain"
)

func newReviewTestService(repo *mockReviewRepository) *ReviewService {
	return NewReviewService(repo, newTestProducer(), newTestLogger())
}

func TestSubmitReview_Success(t *testing.T) {
	repo := new(mockReviewRepository)
	svc := newReviewTestService(repo)
	ctx := context.Background()

	repo.On("Create", ctx, mock.AnythingOfType("*domain.Review")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Review).ID = 11
		}).
		Return(int64(11), nil).Once()

	review, err := svc.Submit(ctx, 1, 42, 7, 5, "mantap")
	require.NoError(t, err)
	assert.Equal(t, int64(11), review.ID)
	assert.Equal(t, int64(42), review.OrderID)
	assert.Equal(t, int64(7), review.ProductID)
	assert.Equal(t, int64(1), review.UserID)
	assert.Equal(t, 5, review.Rating)
	repo.AssertExpectations(t)
}

func TestSubmitReview_Validation(t *testing.T) {
	repo := new(mockReviewRepository)
	svc := newReviewTestService(repo)

	tests := []struct {
		name      string
		orderID   int64
		productID int64
		rating    int
	}{
		{"missing order", 0, 7, 5},
		{"missing product", 42, 0, 5},
		{"rating too low", 42, 7, 0},
		{"rating too high", 42, 7, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Submit(context.Background(), 1, tt.orderID, tt.productID, tt.rating, "")
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
		})
	}

	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSubmitReview_DuplicatePropagates(t *testing.T) {
	repo := new(mockReviewRepository)
	svc := newReviewTestService(repo)
	ctx := context.Background()

	repo.On("Create", ctx, mock.AnythingOfType("*domain.Review")).
		Return(int64(0), apperrors.DuplicateReview()).Once()

	_, err := svc.Submit(ctx, 1, 42, 7, 4, "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrConflict))

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "DUPLICATE_REVIEW", appErr.Code)
	repo.AssertExpectations(t)
}

func TestSubmitReview_NotOwnedOrder(t *testing.T) {
	repo := new(mockReviewRepository)
	svc := newReviewTestService(repo)
	ctx := context.Background()

	repo.On("Create", ctx, mock.AnythingOfType("*domain.Review")).
		Return(int64(0), apperrors.NotFound("order")).Once()

	_, err := svc.Submit(ctx, 1, 42, 7, 4, "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	repo.AssertExpectations(t)
}

func TestListReviewsByUser(t *testing.T) {
	repo := new(mockReviewRepository)
	svc := newReviewTestService(repo)
	ctx := context.Background()

	reviews := []domain.Review{
		{ID: 2, UserID: 1, ProductID: 7, Rating: 5, Title: "Laskar Pelangi"},
		{ID: 1, UserID: 1, ProductID: 9, Rating: 3, Title: "Bumi Manusia"},
	}
	repo.On("ListByUser", ctx, int64(1)).Return(reviews, nil).Once()

	got, err := svc.ListByUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, reviews, got)
	repo.AssertExpectations(t)
}
