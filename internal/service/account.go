package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"ifinsure/internal/auth"
	"ifinsure/internal/model"
	"ifinsure/internal/repository"
	"ifinsure/internal/session"
)

var (
	ErrNotFound           = errors.New("record not found")
	ErrIDRequired         = errors.New("id is required")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrInvalidUserType    = errors.New("invalid user type")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
)

// RegisterInput carries the fields accepted at signup.
type RegisterInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	UserType  string `json:"user_type"`
	Phone     string `json:"phone"`
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	Token     string      `json:"token"`
	SessionID string      `json:"session_id"`
	User      *model.User `json:"user"`
}

// UpdateUserInput carries the self-service editable account fields.
type UpdateUserInput struct {
	FirstName   *string    `json:"first_name"`
	LastName    *string    `json:"last_name"`
	Phone       *string    `json:"phone"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	Address     *string    `json:"address"`
	City        *string    `json:"city"`
	Country     *string    `json:"country"`
}

// UserListResult is the service-level DTO for paginated users.
type UserListResult struct {
	Items []model.User `json:"data"`
	Total int          `json:"total"`
}

// AccountService defines the use cases around users, authentication and
// profiles. Registering a user also provisions the dependent records a
// fresh account needs: a profile, a wallet, and default notification
// preferences. Back-office user types additionally get an agent profile.
type AccountService interface {
	Register(ctx context.Context, in RegisterInput) (*model.User, error)
	Login(ctx context.Context, email, password, device string) (*LoginResult, error)
	Logout(ctx context.Context, sessionID string) error

	Get(ctx context.Context, id string) (*model.User, error)
	List(ctx context.Context, f repository.UserFilter, limit, offset int) (*UserListResult, error)
	Update(ctx context.Context, id string, in UpdateUserInput) (*model.User, error)
	ChangePassword(ctx context.Context, id, current, next string) error

	// ChangeUserType moves a user between roles, keeping the agent
	// profile in sync: promotion to a back-office type creates one,
	// demotion to customer marks it unavailable.
	ChangeUserType(ctx context.Context, id, userType string) (*model.User, error)
	SetActive(ctx context.Context, id string, active bool) error

	GetProfile(ctx context.Context, userID string) (*model.Profile, error)
	UpdateProfile(ctx context.Context, p *model.Profile) (*model.Profile, error)

	RegisterSearchIndexer(ix Indexer)
}

type accountService struct {
	users    repository.UserRepository
	profiles repository.ProfileRepository
	agents   repository.AgentRepository
	wallets  repository.WalletRepository
	prefs    repository.PreferenceRepository
	sessions *session.Store
	tokens   *auth.TokenIssuer
	search   Indexer
}

// NewAccountService constructs a new AccountService.
func NewAccountService(
	users repository.UserRepository,
	profiles repository.ProfileRepository,
	agents repository.AgentRepository,
	wallets repository.WalletRepository,
	prefs repository.PreferenceRepository,
	sessions *session.Store,
	tokens *auth.TokenIssuer,
) AccountService {
	return &accountService{
		users:    users,
		profiles: profiles,
		agents:   agents,
		wallets:  wallets,
		prefs:    prefs,
		sessions: sessions,
		tokens:   tokens,
	}
}

func (s *accountService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" {
		return nil, fmt.Errorf("%w: email", ErrValidation)
	}
	if len(in.Password) < 8 {
		return nil, ErrPasswordTooShort
	}
	if in.UserType == "" {
		in.UserType = model.UserTypeCustomer
	}
	if !model.ValidUserType(in.UserType) {
		return nil, ErrInvalidUserType
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Create(ctx, &model.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		UserType:     in.UserType,
		Phone:        strings.TrimSpace(in.Phone),
		Country:      "Kenya",
		IsActive:     true,
	})
	if err != nil {
		return nil, err
	}

	if err := s.provision(ctx, user); err != nil {
		return nil, err
	}
	s.indexUser(ctx, user)
	return user, nil
}

// provision creates the records every account carries from day one.
func (s *accountService) provision(ctx context.Context, user *model.User) error {
	if _, err := s.profiles.Create(ctx, &model.Profile{UserID: user.ID}); err != nil {
		return fmt.Errorf("create profile: %w", err)
	}
	if _, err := s.wallets.Create(ctx, &model.Wallet{
		UserID:   user.ID,
		Balance:  decimal.Zero,
		Currency: model.CurrencyKES,
		IsActive: true,
	}); err != nil {
		return fmt.Errorf("create wallet: %w", err)
	}
	if _, err := s.prefs.Save(ctx, model.DefaultNotificationPreference(user.ID)); err != nil {
		return fmt.Errorf("create notification preferences: %w", err)
	}
	if user.IsBackOffice() {
		if err := s.ensureAgentProfile(ctx, user.ID); err != nil {
			return err
		}
	}
	return nil
}

func (s *accountService) ensureAgentProfile(ctx context.Context, userID string) error {
	_, err := s.agents.FindByUserID(ctx, userID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	_, err = s.agents.Create(ctx, &model.AgentProfile{
		UserID:        userID,
		DailyCapacity: 15,
		IsAvailable:   true,
		Shift:         model.ShiftFlexible,
	})
	return err
}

func (s *accountService) Login(ctx context.Context, email, password, device string) (*LoginResult, error) {
	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	sess, err := s.sessions.Create(ctx, user.ID, user.UserType, device)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	token, err := s.tokens.Issue(user.ID, user.UserType, sess.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	now := time.Now().UTC()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, err
	}
	user.LastLoginAt = &now

	return &LoginResult{Token: token, SessionID: sess.ID, User: user}, nil
}

func (s *accountService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return ErrIDRequired
	}
	return s.sessions.Delete(ctx, sessionID)
}

func (s *accountService) Get(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *accountService) List(ctx context.Context, f repository.UserFilter, limit, offset int) (*UserListResult, error) {
	res, err := s.users.List(ctx, f, pageQuery(limit, offset))
	if err != nil {
		return nil, err
	}
	return &UserListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *accountService) Update(ctx context.Context, id string, in UpdateUserInput) (*model.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.FirstName != nil {
		user.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		user.LastName = strings.TrimSpace(*in.LastName)
	}
	if in.Phone != nil {
		user.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.DateOfBirth != nil {
		user.DateOfBirth = in.DateOfBirth
	}
	if in.Address != nil {
		user.Address = *in.Address
	}
	if in.City != nil {
		user.City = *in.City
	}
	if in.Country != nil {
		user.Country = *in.Country
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	s.indexUser(ctx, user)
	return user, nil
}

func (s *accountService) ChangePassword(ctx context.Context, id, current, next string) error {
	user, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(current, user.PasswordHash) {
		return ErrInvalidCredentials
	}
	if len(next) < 8 {
		return ErrPasswordTooShort
	}
	hash, err := auth.HashPassword(next)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	return s.users.Update(ctx, user)
}

func (s *accountService) ChangeUserType(ctx context.Context, id, userType string) (*model.User, error) {
	if !model.ValidUserType(userType) {
		return nil, ErrInvalidUserType
	}
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.UserType == userType {
		return user, nil
	}

	wasBackOffice := user.IsBackOffice()
	user.UserType = userType
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	if user.IsBackOffice() {
		if err := s.ensureAgentProfile(ctx, user.ID); err != nil {
			return nil, err
		}
	} else if wasBackOffice {
		// Demoted agents stop receiving assignments but keep history.
		agent, err := s.agents.FindByUserID(ctx, user.ID)
		if err == nil {
			if err := s.agents.SetAvailability(ctx, agent.ID, false); err != nil {
				return nil, err
			}
		} else if !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
	}
	return user, nil
}

func (s *accountService) SetActive(ctx context.Context, id string, active bool) error {
	if id == "" {
		return ErrIDRequired
	}
	return s.users.SetActive(ctx, id, active)
}

func (s *accountService) GetProfile(ctx context.Context, userID string) (*model.Profile, error) {
	if userID == "" {
		return nil, ErrIDRequired
	}
	p, err := s.profiles.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *accountService) UpdateProfile(ctx context.Context, p *model.Profile) (*model.Profile, error) {
	current, err := s.GetProfile(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	p.ID = current.ID
	if err := s.profiles.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// RegisterSearchIndexer wires the search index refresh hooks. Refreshes
// are best effort and never fail the triggering write.
func (s *accountService) RegisterSearchIndexer(ix Indexer) {
	s.search = ix
}

func (s *accountService) indexUser(ctx context.Context, user *model.User) {
	if s.search == nil {
		return
	}
	owner := user.ID
	_ = s.search.Index(ctx, IndexInput{
		EntityType: model.EntityUser,
		EntityID:   user.ID,
		Title:      user.FullName(),
		Subtitle:   user.Email,
		Keywords:   user.Email + " " + user.Phone,
		Icon:       "user",
		URL:        "/api/v1/users/" + user.ID,
		Visibility: model.VisibilityInternal,
		OwnerID:    &owner,
		Weight:     4,
	})
}
