package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"ifinsure/internal/model"
	"ifinsure/internal/repository"
	repoMocks "ifinsure/internal/repository/mocks"
)

func TestTrashService_Restore(t *testing.T) {
	ctx := context.Background()
	admin := &model.User{ID: "adm", UserType: model.UserTypeAdmin}

	t.Run("dispatches to the registered handler", func(t *testing.T) {
		entries := &repoMocks.MockTrashRepository{}
		svc := NewTrashService(entries)
		restored := ""
		svc.RegisterHandler(model.EntityPolicy, TrashHandler{
			Restore: func(ctx context.Context, id string) error {
				restored = id
				return nil
			},
		})

		entries.On("FindByEntity", ctx, model.EntityPolicy, "p1").
			Return(&model.TrashEntry{EntityType: model.EntityPolicy, EntityID: "p1"}, nil)
		entries.On("Delete", ctx, model.EntityPolicy, "p1").Return(nil)

		assert.NoError(t, svc.Restore(ctx, admin, model.EntityPolicy, "p1"))
		assert.Equal(t, "p1", restored)
		entries.AssertExpectations(t)
	})

	t.Run("unknown entity type", func(t *testing.T) {
		entries := &repoMocks.MockTrashRepository{}
		svc := NewTrashService(entries)
		entries.On("FindByEntity", ctx, "gadget", "g1").
			Return(&model.TrashEntry{EntityType: "gadget", EntityID: "g1"}, nil)

		err := svc.Restore(ctx, admin, "gadget", "g1")
		assert.ErrorIs(t, err, ErrRestoreUnsupported)
	})

	t.Run("missing entry", func(t *testing.T) {
		entries := &repoMocks.MockTrashRepository{}
		svc := NewTrashService(entries)
		entries.On("FindByEntity", ctx, model.EntityPolicy, "p1").Return(nil, sql.ErrNoRows)

		err := svc.Restore(ctx, admin, model.EntityPolicy, "p1")
		assert.ErrorIs(t, err, ErrNotTrashed)
	})

	t.Run("non-admin cannot touch another user's trash", func(t *testing.T) {
		entries := &repoMocks.MockTrashRepository{}
		svc := NewTrashService(entries)
		other := "someone-else"
		entries.On("FindByEntity", ctx, model.EntityPolicy, "p1").
			Return(&model.TrashEntry{EntityType: model.EntityPolicy, EntityID: "p1", TrashedByID: &other}, nil)

		viewer := &model.User{ID: "u1", UserType: model.UserTypeCustomer}
		err := svc.Restore(ctx, viewer, model.EntityPolicy, "p1")
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestTrashService_ListScopesNonAdmins(t *testing.T) {
	ctx := context.Background()
	entries := &repoMocks.MockTrashRepository{}
	svc := NewTrashService(entries)

	entries.On("List", ctx, mock.MatchedBy(func(f repository.TrashFilter) bool {
		return f.TrashedByID == "u1"
	}), mock.Anything).Return(&repository.PageResult[model.TrashEntry]{Items: []model.TrashEntry{}}, nil)

	viewer := &model.User{ID: "u1", UserType: model.UserTypeCustomer}
	_, err := svc.List(ctx, viewer, repository.TrashFilter{}, 20, 0)
	assert.NoError(t, err)
	entries.AssertExpectations(t)
}

func TestTrashService_PurgeExpired(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 8, 31, 3, 0, 0, 0, time.UTC)

	t.Run("purges handled types and skips the rest", func(t *testing.T) {
		entries := &repoMocks.MockTrashRepository{}
		svc := NewTrashService(entries)
		svc.RegisterHandler(model.EntityPolicy, TrashHandler{
			Purge: func(ctx context.Context, id string) error { return nil },
		})

		entries.On("ListExpired", ctx, now, 100).Return([]model.TrashEntry{
			{EntityType: model.EntityPolicy, EntityID: "p1"},
			{EntityType: "unhandled", EntityID: "x1"},
		}, nil)
		entries.On("Delete", ctx, model.EntityPolicy, "p1").Return(nil)

		n, err := svc.PurgeExpired(ctx, now, 100)
		assert.NoError(t, err)
		assert.Equal(t, 1, n)
		entries.AssertNotCalled(t, "Delete", ctx, "unhandled", "x1")
	})

	t.Run("stops on purge failure", func(t *testing.T) {
		entries := &repoMocks.MockTrashRepository{}
		svc := NewTrashService(entries)
		boom := errors.New("db down")
		svc.RegisterHandler(model.EntityPolicy, TrashHandler{
			Purge: func(ctx context.Context, id string) error { return boom },
		})
		entries.On("ListExpired", ctx, now, 100).Return([]model.TrashEntry{
			{EntityType: model.EntityPolicy, EntityID: "p1"},
		}, nil)

		n, err := svc.PurgeExpired(ctx, now, 100)
		assert.ErrorIs(t, err, boom)
		assert.Zero(t, n)
	})
}

func TestNewTrashState(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	tr := newTrashState(now, "u1", "cleanup")
	assert.Equal(t, now, *tr.TrashedAt)
	assert.Equal(t, "u1", *tr.TrashedByID)
	assert.Equal(t, now.Add(model.TrashRetention), *tr.PermanentDeleteAt)

	anon := newTrashState(now, "", "")
	assert.Nil(t, anon.TrashedByID)
}
