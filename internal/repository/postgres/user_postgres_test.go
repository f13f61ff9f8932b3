package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"ifinsure/internal/model"
	"ifinsure/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func userRows(u *model.User) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "email", "password_hash", "first_name", "last_name", "user_type", "phone",
		"date_of_birth", "address", "city", "country", "is_active", "is_superuser",
		"last_login_at", "created_at", "updated_at",
	}).AddRow(
		u.ID, u.Email, u.PasswordHash, u.FirstName, u.LastName, u.UserType, u.Phone,
		u.DateOfBirth, u.Address, u.City, u.Country, u.IsActive, u.IsSuperuser,
		u.LastLoginAt, u.CreatedAt, u.UpdatedAt,
	)
}

func TestUserPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewUserPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	u := &model.User{
		ID:           "7f0f4031-0b0c-4a6e-9c2e-000000000001",
		Email:        "jane@example.com",
		PasswordHash: "hash",
		FirstName:    "Jane",
		LastName:     "Wanjiku",
		UserType:     model.UserTypeCustomer,
		Phone:        "+254700000001",
		Country:      "Kenya",
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	mock.ExpectQuery("INSERT INTO users").
		WithArgs(u.Email, u.PasswordHash, u.FirstName, u.LastName, u.UserType, u.Phone,
			u.DateOfBirth, u.Address, u.City, u.Country, u.IsActive, u.IsSuperuser).
		WillReturnRows(userRows(u))

	result, err := repo.Create(ctx, u)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, u.ID, result.ID)
	assert.Equal(t, u.Email, result.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserPostgres_FindByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewUserPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		now := time.Now()
		u := &model.User{ID: "u1", Email: "jane@example.com", UserType: model.UserTypeCustomer, IsActive: true, CreatedAt: now, UpdatedAt: now}

		mock.ExpectQuery("SELECT (.+) FROM users WHERE lower").
			WithArgs("Jane@Example.com").
			WillReturnRows(userRows(u))

		got, err := repo.FindByEmail(ctx, "Jane@Example.com")

		assert.NoError(t, err)
		assert.NotNil(t, got)
		assert.Equal(t, "u1", got.ID)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM users WHERE lower").
			WithArgs("missing@example.com").
			WillReturnError(sql.ErrNoRows)

		got, err := repo.FindByEmail(ctx, "missing@example.com")

		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, got)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserPostgres_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewUserPostgres(db)
	ctx := context.Background()

	now := time.Now()
	u := &model.User{ID: "u1", Email: "jane@example.com", UserType: model.UserTypeAgent, IsActive: true, CreatedAt: now, UpdatedAt: now}

	mock.ExpectQuery("SELECT COUNT").
		WithArgs(model.UserTypeAgent, "", false).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs(model.UserTypeAgent, "", false, 20, 0).
		WillReturnRows(userRows(u))

	res, err := repo.List(ctx, repository.UserFilter{UserType: model.UserTypeAgent}, repository.PageQuery{Limit: 20, Offset: 0})

	assert.NoError(t, err)
	assert.Equal(t, 1, res.Total)
	assert.Len(t, res.Items, 1)
	assert.Equal(t, "u1", res.Items[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserPostgres_CountByType(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewUserPostgres(db)

	mock.ExpectQuery("SELECT user_type, COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"user_type", "count"}).
			AddRow(model.UserTypeCustomer, 42).
			AddRow(model.UserTypeAgent, 7))

	counts, err := repo.CountByType(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 42, counts[model.UserTypeCustomer])
	assert.Equal(t, 7, counts[model.UserTypeAgent])
	assert.NoError(t, mock.ExpectationsWereMet())
}
