package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ifinsure/internal/model"
	"ifinsure/internal/repository"
)

var ErrRatingOutOfRange = errors.New("rating must be between 1 and 5")

// ReviewListResult is the service-level DTO for a review page.
type ReviewListResult struct {
	Items []model.UserReview `json:"data"`
	Total int                `json:"total"`
}

// ReviewService handles customer testimonials and their moderation.
// Reviews start pending and only surface publicly after approval.
type ReviewService interface {
	Submit(ctx context.Context, userID, quote string, rating int) (*model.UserReview, error)
	Get(ctx context.Context, id string) (*model.UserReview, error)
	List(ctx context.Context, f repository.ReviewFilter, limit, offset int) (*ReviewListResult, error)
	ListPublished(ctx context.Context, limit int) ([]model.UserReview, error)
	Approve(ctx context.Context, id, moderatorID string) (*model.UserReview, error)
	Reject(ctx context.Context, id, moderatorID, reason string) (*model.UserReview, error)
	SetActive(ctx context.Context, id string, active bool) (*model.UserReview, error)
	Trash(ctx context.Context, id, actorID, reason string) error

	RegisterTrashHandlers(trash TrashService)
}

type reviewService struct {
	reviews repository.ReviewRepository
	trash   TrashRecorder
	now     func() time.Time
}

// NewReviewService constructs a new ReviewService.
func NewReviewService(reviews repository.ReviewRepository, trash TrashRecorder) ReviewService {
	return &reviewService{reviews: reviews, trash: trash, now: time.Now}
}

func (s *reviewService) Submit(ctx context.Context, userID, quote string, rating int) (*model.UserReview, error) {
	if userID == "" {
		return nil, ErrIDRequired
	}
	if quote == "" {
		return nil, fmt.Errorf("%w: quote", ErrValidation)
	}
	if rating < 1 || rating > 5 {
		return nil, ErrRatingOutOfRange
	}
	return s.reviews.Create(ctx, &model.UserReview{
		UserID:   userID,
		Quote:    quote,
		Rating:   rating,
		Status:   model.ReviewPending,
		IsActive: true,
	})
}

func (s *reviewService) Get(ctx context.Context, id string) (*model.UserReview, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	r, err := s.reviews.FindByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return r, nil
}

func (s *reviewService) List(ctx context.Context, f repository.ReviewFilter, limit, offset int) (*ReviewListResult, error) {
	res, err := s.reviews.List(ctx, f, pageQuery(limit, offset))
	if err != nil {
		return nil, err
	}
	return &ReviewListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *reviewService) ListPublished(ctx context.Context, limit int) ([]model.UserReview, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.reviews.ListPublished(ctx, limit)
}

func (s *reviewService) Approve(ctx context.Context, id, moderatorID string) (*model.UserReview, error) {
	review, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.now()
	review.Status = model.ReviewApproved
	review.ReviewedByID = &moderatorID
	review.ReviewedAt = &now
	review.RejectionReason = ""
	if err := s.reviews.Update(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *reviewService) Reject(ctx context.Context, id, moderatorID, reason string) (*model.UserReview, error) {
	review, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if reason == "" {
		return nil, fmt.Errorf("%w: rejection reason", ErrValidation)
	}
	now := s.now()
	review.Status = model.ReviewRejected
	review.ReviewedByID = &moderatorID
	review.ReviewedAt = &now
	review.RejectionReason = reason
	if err := s.reviews.Update(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *reviewService) SetActive(ctx context.Context, id string, active bool) (*model.UserReview, error) {
	review, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	review.IsActive = active
	if err := s.reviews.Update(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *reviewService) Trash(ctx context.Context, id, actorID, reason string) error {
	review, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	tr := newTrashState(s.now(), actorID, reason)
	if err := s.reviews.Trash(ctx, id, tr); err != nil {
		return err
	}
	return s.trash.Record(ctx, RecordTrashInput{
		EntityType: model.EntityReview,
		EntityID:   id,
		Title:      fmt.Sprintf("%d star review", review.Rating),
		Subtitle:   review.Status,
		Icon:       "star",
		ActorID:    actorID,
		Reason:     reason,
		Snapshot:   review,
		ExpiresAt:  *tr.PermanentDeleteAt,
	})
}

// RegisterTrashHandlers wires review restore and purge into the trash
// registry.
func (s *reviewService) RegisterTrashHandlers(trash TrashService) {
	trash.RegisterHandler(model.EntityReview, TrashHandler{
		Restore: s.reviews.Restore,
		Purge:   s.reviews.Purge,
	})
}
