package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"ifinsure/internal/auth"
	"ifinsure/internal/model"
	repoMocks "ifinsure/internal/repository/mocks"
)

type accountMocks struct {
	users    *repoMocks.MockUserRepository
	profiles *repoMocks.MockProfileRepository
	agents   *repoMocks.MockAgentRepository
	wallets  *repoMocks.MockWalletRepository
	prefs    *repoMocks.MockPreferenceRepository
}

func newAccountService(t *testing.T) (AccountService, *accountMocks) {
	t.Helper()
	m := &accountMocks{
		users:    &repoMocks.MockUserRepository{},
		profiles: &repoMocks.MockProfileRepository{},
		agents:   &repoMocks.MockAgentRepository{},
		wallets:  &repoMocks.MockWalletRepository{},
		prefs:    &repoMocks.MockPreferenceRepository{},
	}
	svc := NewAccountService(m.users, m.profiles, m.agents, m.wallets, m.prefs, nil, nil)
	return svc, m
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("customer gets profile, wallet and preferences", func(t *testing.T) {
		svc, m := newAccountService(t)
		m.users.On("FindByEmail", ctx, "jane@example.com").Return(nil, sql.ErrNoRows)
		m.users.On("Create", ctx, mock.MatchedBy(func(u *model.User) bool {
			return u.Email == "jane@example.com" &&
				u.UserType == model.UserTypeCustomer &&
				u.IsActive &&
				u.PasswordHash != "" && u.PasswordHash != "secret-pass"
		})).Return(&model.User{ID: "u1", Email: "jane@example.com", UserType: model.UserTypeCustomer}, nil)
		m.profiles.On("Create", ctx, mock.MatchedBy(func(p *model.Profile) bool {
			return p.UserID == "u1"
		})).Return(&model.Profile{ID: "pr1"}, nil)
		m.wallets.On("Create", ctx, mock.MatchedBy(func(w *model.Wallet) bool {
			return w.UserID == "u1" && w.Currency == model.CurrencyKES && w.IsActive && w.Balance.IsZero()
		})).Return(&model.Wallet{ID: "w1"}, nil)
		m.prefs.On("Save", ctx, mock.MatchedBy(func(p *model.NotificationPreference) bool {
			return p.UserID == "u1" && p.InAppEnabled
		})).Return(&model.NotificationPreference{ID: "np1"}, nil)

		user, err := svc.Register(ctx, RegisterInput{
			Email:    " Jane@Example.com ",
			Password: "secret-pass",
		})
		assert.NoError(t, err)
		assert.Equal(t, "u1", user.ID)
		m.users.AssertExpectations(t)
		m.wallets.AssertExpectations(t)
		m.agents.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("staff additionally gets an agent profile", func(t *testing.T) {
		svc, m := newAccountService(t)
		m.users.On("FindByEmail", ctx, "ops@example.com").Return(nil, sql.ErrNoRows)
		m.users.On("Create", ctx, mock.Anything).
			Return(&model.User{ID: "u2", UserType: model.UserTypeStaff}, nil)
		m.profiles.On("Create", ctx, mock.Anything).Return(&model.Profile{}, nil)
		m.wallets.On("Create", ctx, mock.Anything).Return(&model.Wallet{}, nil)
		m.prefs.On("Save", ctx, mock.Anything).Return(&model.NotificationPreference{}, nil)
		m.agents.On("FindByUserID", ctx, "u2").Return(nil, sql.ErrNoRows)
		m.agents.On("Create", ctx, mock.MatchedBy(func(a *model.AgentProfile) bool {
			return a.UserID == "u2" && a.IsAvailable && a.DailyCapacity == 15 && a.Shift == model.ShiftFlexible
		})).Return(&model.AgentProfile{ID: "a1"}, nil)

		_, err := svc.Register(ctx, RegisterInput{
			Email:    "ops@example.com",
			Password: "secret-pass",
			UserType: model.UserTypeStaff,
		})
		assert.NoError(t, err)
		m.agents.AssertExpectations(t)
	})

	t.Run("duplicate email", func(t *testing.T) {
		svc, m := newAccountService(t)
		m.users.On("FindByEmail", ctx, "jane@example.com").Return(&model.User{ID: "u1"}, nil)

		_, err := svc.Register(ctx, RegisterInput{Email: "jane@example.com", Password: "secret-pass"})
		assert.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("short password", func(t *testing.T) {
		svc, _ := newAccountService(t)
		_, err := svc.Register(ctx, RegisterInput{Email: "jane@example.com", Password: "short"})
		assert.ErrorIs(t, err, ErrPasswordTooShort)
	})

	t.Run("unknown user type", func(t *testing.T) {
		svc, _ := newAccountService(t)
		_, err := svc.Register(ctx, RegisterInput{Email: "x@example.com", Password: "secret-pass", UserType: "root"})
		assert.ErrorIs(t, err, ErrInvalidUserType)
	})
}

func TestChangeUserType(t *testing.T) {
	ctx := context.Background()

	t.Run("promotion creates an agent profile", func(t *testing.T) {
		svc, m := newAccountService(t)
		m.users.On("FindByID", ctx, "u1").Return(&model.User{ID: "u1", UserType: model.UserTypeCustomer}, nil)
		m.users.On("Update", ctx, mock.MatchedBy(func(u *model.User) bool {
			return u.UserType == model.UserTypeAgent
		})).Return(nil)
		m.agents.On("FindByUserID", ctx, "u1").Return(nil, sql.ErrNoRows)
		m.agents.On("Create", ctx, mock.Anything).Return(&model.AgentProfile{ID: "a1"}, nil)

		got, err := svc.ChangeUserType(ctx, "u1", model.UserTypeAgent)
		assert.NoError(t, err)
		assert.Equal(t, model.UserTypeAgent, got.UserType)
		m.agents.AssertExpectations(t)
	})

	t.Run("demotion marks the agent unavailable", func(t *testing.T) {
		svc, m := newAccountService(t)
		m.users.On("FindByID", ctx, "u1").Return(&model.User{ID: "u1", UserType: model.UserTypeAgent}, nil)
		m.users.On("Update", ctx, mock.Anything).Return(nil)
		m.agents.On("FindByUserID", ctx, "u1").Return(&model.AgentProfile{ID: "a1", UserID: "u1"}, nil)
		m.agents.On("SetAvailability", ctx, "a1", false).Return(nil)

		_, err := svc.ChangeUserType(ctx, "u1", model.UserTypeCustomer)
		assert.NoError(t, err)
		m.agents.AssertExpectations(t)
	})

	t.Run("same type is a no-op", func(t *testing.T) {
		svc, m := newAccountService(t)
		m.users.On("FindByID", ctx, "u1").Return(&model.User{ID: "u1", UserType: model.UserTypeCustomer}, nil)

		_, err := svc.ChangeUserType(ctx, "u1", model.UserTypeCustomer)
		assert.NoError(t, err)
		m.users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	hash, err := auth.HashPassword("old-password")
	assert.NoError(t, err)

	t.Run("happy path", func(t *testing.T) {
		svc, m := newAccountService(t)
		m.users.On("FindByID", ctx, "u1").Return(&model.User{ID: "u1", PasswordHash: hash}, nil)
		m.users.On("Update", ctx, mock.MatchedBy(func(u *model.User) bool {
			return u.PasswordHash != hash && auth.CheckPassword("new-password", u.PasswordHash)
		})).Return(nil)

		assert.NoError(t, svc.ChangePassword(ctx, "u1", "old-password", "new-password"))
		m.users.AssertExpectations(t)
	})

	t.Run("wrong current password", func(t *testing.T) {
		svc, m := newAccountService(t)
		m.users.On("FindByID", ctx, "u1").Return(&model.User{ID: "u1", PasswordHash: hash}, nil)

		err := svc.ChangePassword(ctx, "u1", "guess", "new-password")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}
