package service

import (
	"context"
	"strings"
	"time"

	"ifinsure/internal/model"
	"ifinsure/internal/repository"
)

// IndexInput describes an entity to add or refresh in the search index.
type IndexInput struct {
	EntityType string
	EntityID   string
	Title      string
	Subtitle   string
	Content    string
	Keywords   string
	Icon       string
	URL        string
	Visibility string
	OwnerID    *string
	Weight     int
}

// SearchResult carries the hits visible to the viewer.
type SearchResult struct {
	Query string            `json:"query"`
	Hits  []model.SearchHit `json:"data"`
	Total int               `json:"total"`
}

// Indexer is the narrow surface domain services use to keep the search
// index in sync with the records they own. Index upserts, Deindex drops
// the row when a record is trashed.
type Indexer interface {
	Index(ctx context.Context, in IndexInput) error
	Deindex(ctx context.Context, entityType, entityID string) error
}

// SearchService maintains the denormalized index and answers queries.
// Results are filtered by the entry visibility rules before they reach
// the viewer, and each query lands in the history for suggestions.
type SearchService interface {
	Indexer
	Search(ctx context.Context, viewer *model.User, query string, limit int) (*SearchResult, error)
	RecentQueries(ctx context.Context, userID string, limit int) ([]model.SearchHistory, error)
}

type searchService struct {
	index repository.SearchRepository
	now   func() time.Time
}

// NewSearchService constructs a new SearchService.
func NewSearchService(index repository.SearchRepository) SearchService {
	return &searchService{index: index, now: time.Now}
}

func (s *searchService) Index(ctx context.Context, in IndexInput) error {
	if in.EntityType == "" || in.EntityID == "" {
		return ErrIDRequired
	}
	if in.Visibility == "" {
		in.Visibility = model.VisibilityInternal
	}
	_, err := s.index.Upsert(ctx, &model.SearchEntry{
		EntityType: in.EntityType,
		EntityID:   in.EntityID,
		Title:      in.Title,
		Subtitle:   in.Subtitle,
		Content:    in.Content,
		Keywords:   in.Keywords,
		Icon:       in.Icon,
		URL:        in.URL,
		Visibility: in.Visibility,
		OwnerID:    in.OwnerID,
		Weight:     in.Weight,
	})
	return err
}

func (s *searchService) Deindex(ctx context.Context, entityType, entityID string) error {
	return s.index.DeleteEntity(ctx, entityType, entityID)
}

func (s *searchService) Search(ctx context.Context, viewer *model.User, query string, limit int) (*SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return &SearchResult{Query: query, Hits: []model.SearchHit{}}, nil
	}
	if limit <= 0 || limit > maxPageSize {
		limit = defaultPageSize
	}

	started := s.now()
	// Over-fetch so visibility filtering still fills the page.
	entries, err := s.index.Query(ctx, query, limit*3)
	if err != nil {
		return nil, err
	}

	hits := make([]model.SearchHit, 0, limit)
	for i := range entries {
		if !entries[i].VisibleTo(viewer) {
			continue
		}
		hits = append(hits, model.SearchHit{
			EntityType: entries[i].EntityType,
			EntityID:   entries[i].EntityID,
			Title:      entries[i].Title,
			Subtitle:   entries[i].Subtitle,
			Icon:       entries[i].Icon,
			URL:        entries[i].URL,
		})
		if len(hits) == limit {
			break
		}
	}

	history := &model.SearchHistory{
		Query:          query,
		ResultsCount:   len(hits),
		DurationMillis: int(s.now().Sub(started).Milliseconds()),
	}
	if viewer != nil {
		history.UserID = &viewer.ID
	}
	_ = s.index.RecordHistory(ctx, history)

	return &SearchResult{Query: query, Hits: hits, Total: len(hits)}, nil
}

func (s *searchService) RecentQueries(ctx context.Context, userID string, limit int) ([]model.SearchHistory, error) {
	if userID == "" {
		return nil, ErrIDRequired
	}
	if limit <= 0 {
		limit = 10
	}
	return s.index.RecentQueries(ctx, userID, limit)
}
