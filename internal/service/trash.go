package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"ifinsure/internal/model"
	"ifinsure/internal/repository"
)

var (
	ErrNotTrashed         = errors.New("record is not in the trash")
	ErrRestoreUnsupported = errors.New("entity type has no restore handler")
)

// RecordTrashInput describes a trashed record for the registry.
type RecordTrashInput struct {
	EntityType  string
	EntityID    string
	Title       string
	Subtitle    string
	Icon        string
	ActorID     string
	Reason      string
	Snapshot    any
	ExpiresAt   time.Time
	RestorePath string
}

// TrashRecorder is the narrow surface domain services use to keep the
// registry in sync when they trash or restore their own records.
type TrashRecorder interface {
	Record(ctx context.Context, in RecordTrashInput) error
	Remove(ctx context.Context, entityType, entityID string) error
}

// TrashHandler restores or purges one entity type. Domain services
// register their handlers at wiring time.
type TrashHandler struct {
	Restore func(ctx context.Context, entityID string) error
	Purge   func(ctx context.Context, entityID string) error
}

// TrashListResult is the service-level DTO for a trash page.
type TrashListResult struct {
	Items []model.TrashEntry `json:"data"`
	Total int                `json:"total"`
}

// TrashService is the cross-entity trash registry. Restore and Purge
// dispatch to the handler registered for the entry's entity type, then
// drop the registry row. PurgeExpired is the sweep the background worker
// runs against entries past retention.
type TrashService interface {
	TrashRecorder
	List(ctx context.Context, viewer *model.User, f repository.TrashFilter, limit, offset int) (*TrashListResult, error)
	Stats(ctx context.Context, viewer *model.User) (*model.TrashStats, error)
	Restore(ctx context.Context, viewer *model.User, entityType, entityID string) error
	Purge(ctx context.Context, viewer *model.User, entityType, entityID string) error
	PurgeExpired(ctx context.Context, now time.Time, limit int) (int, error)
	RegisterHandler(entityType string, h TrashHandler)
}

type trashService struct {
	entries  repository.TrashRepository
	handlers map[string]TrashHandler
	now      func() time.Time
}

// NewTrashService constructs a new TrashService.
func NewTrashService(entries repository.TrashRepository) TrashService {
	return &trashService{
		entries:  entries,
		handlers: make(map[string]TrashHandler),
		now:      time.Now,
	}
}

func (s *trashService) RegisterHandler(entityType string, h TrashHandler) {
	s.handlers[entityType] = h
}

func (s *trashService) Record(ctx context.Context, in RecordTrashInput) error {
	if in.EntityType == "" || in.EntityID == "" {
		return ErrIDRequired
	}
	snapshot, err := json.Marshal(in.Snapshot)
	if err != nil {
		return err
	}
	entry := &model.TrashEntry{
		EntityType:  in.EntityType,
		EntityID:    in.EntityID,
		Title:       in.Title,
		Subtitle:    in.Subtitle,
		Icon:        in.Icon,
		TrashReason: in.Reason,
		Snapshot:    snapshot,
		ExpiresAt:   in.ExpiresAt,
		RestorePath: in.RestorePath,
	}
	if in.ActorID != "" {
		entry.TrashedByID = &in.ActorID
	}
	_, err = s.entries.Upsert(ctx, entry)
	return err
}

func (s *trashService) Remove(ctx context.Context, entityType, entityID string) error {
	return s.entries.Delete(ctx, entityType, entityID)
}

func (s *trashService) List(ctx context.Context, viewer *model.User, f repository.TrashFilter, limit, offset int) (*TrashListResult, error) {
	scopeTrashFilter(viewer, &f)
	res, err := s.entries.List(ctx, f, pageQuery(limit, offset))
	if err != nil {
		return nil, err
	}
	return &TrashListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *trashService) Stats(ctx context.Context, viewer *model.User) (*model.TrashStats, error) {
	var f repository.TrashFilter
	scopeTrashFilter(viewer, &f)
	return s.entries.Stats(ctx, f, s.now())
}

// scopeTrashFilter restricts non-admin viewers to their own trash.
func scopeTrashFilter(viewer *model.User, f *repository.TrashFilter) {
	if viewer != nil && !viewer.IsAdmin() {
		f.TrashedByID = viewer.ID
	}
}

func (s *trashService) Restore(ctx context.Context, viewer *model.User, entityType, entityID string) error {
	entry, err := s.find(ctx, viewer, entityType, entityID)
	if err != nil {
		return err
	}
	h, ok := s.handlers[entry.EntityType]
	if !ok || h.Restore == nil {
		return ErrRestoreUnsupported
	}
	if err := h.Restore(ctx, entry.EntityID); err != nil {
		return err
	}
	return s.entries.Delete(ctx, entry.EntityType, entry.EntityID)
}

func (s *trashService) Purge(ctx context.Context, viewer *model.User, entityType, entityID string) error {
	entry, err := s.find(ctx, viewer, entityType, entityID)
	if err != nil {
		return err
	}
	h, ok := s.handlers[entry.EntityType]
	if !ok || h.Purge == nil {
		return ErrRestoreUnsupported
	}
	if err := h.Purge(ctx, entry.EntityID); err != nil {
		return err
	}
	return s.entries.Delete(ctx, entry.EntityType, entry.EntityID)
}

func (s *trashService) find(ctx context.Context, viewer *model.User, entityType, entityID string) (*model.TrashEntry, error) {
	entry, err := s.entries.FindByEntity(ctx, entityType, entityID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotTrashed
		}
		return nil, err
	}
	if viewer != nil && !viewer.IsAdmin() {
		if entry.TrashedByID == nil || *entry.TrashedByID != viewer.ID {
			return nil, ErrForbidden
		}
	}
	return entry, nil
}

// PurgeExpired permanently deletes entries past their retention
// deadline. Entries without a purge handler keep their registry row so
// the defect is visible instead of silently dropped.
func (s *trashService) PurgeExpired(ctx context.Context, now time.Time, limit int) (int, error) {
	expired, err := s.entries.ListExpired(ctx, now, limit)
	if err != nil {
		return 0, err
	}
	purged := 0
	for _, entry := range expired {
		h, ok := s.handlers[entry.EntityType]
		if !ok || h.Purge == nil {
			continue
		}
		if err := h.Purge(ctx, entry.EntityID); err != nil {
			return purged, err
		}
		if err := s.entries.Delete(ctx, entry.EntityType, entry.EntityID); err != nil {
			return purged, err
		}
		purged++
	}
	return purged, nil
}

// newTrashState builds the soft-delete columns for a trash operation.
func newTrashState(now time.Time, actorID, reason string) model.Trashable {
	deleteAt := now.Add(model.TrashRetention)
	tr := model.Trashable{
		TrashedAt:         &now,
		TrashReason:       reason,
		PermanentDeleteAt: &deleteAt,
	}
	if actorID != "" {
		tr.TrashedByID = &actorID
	}
	return tr
}
