package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ifinsure/internal/model"
	repoMocks "ifinsure/internal/repository/mocks"
)

func TestSubmitReview(t *testing.T) {
	ctx := context.Background()

	t.Run("starts pending", func(t *testing.T) {
		reviews := &repoMocks.MockReviewRepository{}
		svc := NewReviewService(reviews, &mockTrashRecorder{})
		reviews.On("Create", ctx, mock.Anything).Return(&model.UserReview{ID: "rev-1"}, nil)

		_, err := svc.Submit(ctx, "cust-1", "Great service, quick payout.", 5)
		require.NoError(t, err)

		passed := reviews.Calls[0].Arguments.Get(1).(*model.UserReview)
		assert.Equal(t, model.ReviewPending, passed.Status)
		assert.True(t, passed.IsActive)
	})

	t.Run("rating bounds", func(t *testing.T) {
		svc := NewReviewService(&repoMocks.MockReviewRepository{}, &mockTrashRecorder{})
		_, err := svc.Submit(ctx, "cust-1", "meh", 0)
		assert.ErrorIs(t, err, ErrRatingOutOfRange)
		_, err = svc.Submit(ctx, "cust-1", "meh", 6)
		assert.ErrorIs(t, err, ErrRatingOutOfRange)
	})
}

func TestReviewModeration(t *testing.T) {
	ctx := context.Background()

	t.Run("approve clears any earlier rejection", func(t *testing.T) {
		reviews := &repoMocks.MockReviewRepository{}
		svc := NewReviewService(reviews, &mockTrashRecorder{})
		reviews.On("FindByID", ctx, "rev-1").Return(&model.UserReview{
			ID:              "rev-1",
			Status:          model.ReviewRejected,
			RejectionReason: "too short",
		}, nil)
		reviews.On("Update", ctx, mock.Anything).Return(nil)

		approved, err := svc.Approve(ctx, "rev-1", "mod-1")
		require.NoError(t, err)
		assert.Equal(t, model.ReviewApproved, approved.Status)
		assert.Empty(t, approved.RejectionReason)
		require.NotNil(t, approved.ReviewedByID)
		assert.Equal(t, "mod-1", *approved.ReviewedByID)
	})

	t.Run("reject requires a reason", func(t *testing.T) {
		reviews := &repoMocks.MockReviewRepository{}
		svc := NewReviewService(reviews, &mockTrashRecorder{})
		reviews.On("FindByID", ctx, "rev-1").Return(&model.UserReview{ID: "rev-1", Status: model.ReviewPending}, nil)

		_, err := svc.Reject(ctx, "rev-1", "mod-1", "")
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestTrashReview_RecordsRegistryEntry(t *testing.T) {
	ctx := context.Background()
	reviews := &repoMocks.MockReviewRepository{}
	trash := &mockTrashRecorder{}
	svc := NewReviewService(reviews, trash)

	reviews.On("FindByID", ctx, "rev-1").Return(&model.UserReview{ID: "rev-1", Rating: 4, Status: model.ReviewApproved}, nil)
	reviews.On("Trash", ctx, "rev-1", mock.Anything).Return(nil)
	trash.On("Record", ctx, mock.MatchedBy(func(in RecordTrashInput) bool {
		return in.EntityType == model.EntityReview && in.EntityID == "rev-1"
	})).Return(nil)

	assert.NoError(t, svc.Trash(ctx, "rev-1", "adm", "spam"))
	trash.AssertExpectations(t)
}
