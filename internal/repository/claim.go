package repository

import (
	"context"

	"ifinsure/internal/model"
)

// ClaimFilter narrows claim listings.
type ClaimFilter struct {
	ClaimantID         string
	PolicyID           string
	AssignedAdjusterID string
	Status             string
	Priority           string
}

// ClaimRepository defines data access for claims.
type ClaimRepository interface {
	Create(ctx context.Context, c *model.Claim) (*model.Claim, error)
	FindByID(ctx context.Context, id string) (*model.Claim, error)
	FindByNumber(ctx context.Context, number string) (*model.Claim, error)
	List(ctx context.Context, f ClaimFilter, pq PageQuery) (*PageResult[model.Claim], error)
	Update(ctx context.Context, c *model.Claim) error
	Trash(ctx context.Context, id string, tr model.Trashable) error
	Restore(ctx context.Context, id string) error
	Purge(ctx context.Context, id string) error
	NextSequence(ctx context.Context, prefix string) (int, error)

	// CountByStatus returns claim counts keyed by status.
	CountByStatus(ctx context.Context) (map[string]int, error)
}

// ClaimDocumentRepository defines data access for claim documents.
type ClaimDocumentRepository interface {
	Create(ctx context.Context, d *model.ClaimDocument) (*model.ClaimDocument, error)
	FindByID(ctx context.Context, id string) (*model.ClaimDocument, error)
	ListByClaim(ctx context.Context, claimID string) ([]model.ClaimDocument, error)
	Delete(ctx context.Context, id string) error
}

// ClaimNoteRepository defines data access for claim notes.
type ClaimNoteRepository interface {
	Create(ctx context.Context, n *model.ClaimNote) (*model.ClaimNote, error)
	ListByClaim(ctx context.Context, claimID string, includeInternal bool) ([]model.ClaimNote, error)
}
