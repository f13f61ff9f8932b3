package postgres

import (
	"context"
	"database/sql"
	"time"

	"ifinsure/internal/model"
	"ifinsure/internal/repository"
)

// UserPostgres is a PostgreSQL implementation of repository.UserRepository.
type UserPostgres struct {
	db *sql.DB
}

// NewUserPostgres creates a new UserPostgres repository.
func NewUserPostgres(db *sql.DB) *UserPostgres {
	return &UserPostgres{db: db}
}

var _ repository.UserRepository = (*UserPostgres)(nil)

const userColumns = `id, email, password_hash, first_name, last_name, user_type, phone,
	date_of_birth, address, city, country, is_active, is_superuser, last_login_at, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.FirstName,
		&u.LastName,
		&u.UserType,
		&u.Phone,
		&u.DateOfBirth,
		&u.Address,
		&u.City,
		&u.Country,
		&u.IsActive,
		&u.IsSuperuser,
		&u.LastLoginAt,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user row and returns the stored record.
func (r *UserPostgres) Create(ctx context.Context, u *model.User) (*model.User, error) {
	const q = `
		INSERT INTO users (email, password_hash, first_name, last_name, user_type, phone,
			date_of_birth, address, city, country, is_active, is_superuser)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + userColumns
	row := r.db.QueryRowContext(ctx, q,
		u.Email,
		u.PasswordHash,
		u.FirstName,
		u.LastName,
		u.UserType,
		u.Phone,
		u.DateOfBirth,
		u.Address,
		u.City,
		u.Country,
		u.IsActive,
		u.IsSuperuser,
	)
	return scanUser(row)
}

// FindByID fetches a single user by id.
func (r *UserPostgres) FindByID(ctx context.Context, id string) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, q, id))
}

// FindByEmail fetches a single user by email, matched case-insensitively.
func (r *UserPostgres) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`
	return scanUser(r.db.QueryRowContext(ctx, q, email))
}

// List returns users using LIMIT/OFFSET pagination and a total count.
func (r *UserPostgres) List(ctx context.Context, f repository.UserFilter, pq repository.PageQuery) (*repository.PageResult[model.User], error) {
	const where = `
		WHERE ($1 = '' OR user_type = $1)
		AND ($2 = '' OR email ILIKE '%' || $2 || '%' OR first_name ILIKE '%' || $2 || '%' OR last_name ILIKE '%' || $2 || '%')
		AND (NOT $3 OR is_active)
	`
	search := likeEscaper.Replace(f.Search)
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`+where,
		f.UserType, search, f.ActiveOnly).Scan(&total); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users`+where+` ORDER BY created_at DESC, id DESC LIMIT $4 OFFSET $5`,
		f.UserType, search, f.ActiveOnly, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.User]{Items: items, Total: total}, nil
}

// Update persists the mutable user fields.
func (r *UserPostgres) Update(ctx context.Context, u *model.User) error {
	const q = `
		UPDATE users
		SET email = $2, password_hash = $3, first_name = $4, last_name = $5, user_type = $6,
			phone = $7, date_of_birth = $8, address = $9, city = $10, country = $11,
			is_active = $12, is_superuser = $13, updated_at = now()
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, q,
		u.ID,
		u.Email,
		u.PasswordHash,
		u.FirstName,
		u.LastName,
		u.UserType,
		u.Phone,
		u.DateOfBirth,
		u.Address,
		u.City,
		u.Country,
		u.IsActive,
		u.IsSuperuser,
	)
	return err
}

// UpdateLastLogin stamps the last login time.
func (r *UserPostgres) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	const q = `UPDATE users SET last_login_at = $2, updated_at = now() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id, at)
	return err
}

// SetActive toggles the account.
func (r *UserPostgres) SetActive(ctx context.Context, id string, active bool) error {
	const q = `UPDATE users SET is_active = $2, updated_at = now() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id, active)
	return err
}

// CountByType returns user counts keyed by user type.
func (r *UserPostgres) CountByType(ctx context.Context) (map[string]int, error) {
	const q = `SELECT user_type, COUNT(*) FROM users GROUP BY user_type`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var t string
		var n int
		if err := rows.Scan(&t, &n); err != nil {
			return nil, err
		}
		out[t] = n
	}
	return out, rows.Err()
}

// ProfilePostgres is a PostgreSQL implementation of repository.ProfileRepository.
type ProfilePostgres struct {
	db *sql.DB
}

// NewProfilePostgres creates a new ProfilePostgres repository.
func NewProfilePostgres(db *sql.DB) *ProfilePostgres {
	return &ProfilePostgres{db: db}
}

var _ repository.ProfileRepository = (*ProfilePostgres)(nil)

const profileColumns = `id, user_id, avatar_key, id_type, id_number, occupation, employer,
	annual_income, emergency_contact_name, emergency_contact_phone, emergency_contact_relationship,
	notes, created_at, updated_at`

func scanProfile(row interface{ Scan(...any) error }) (*model.Profile, error) {
	var p model.Profile
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.AvatarKey,
		&p.IDType,
		&p.IDNumber,
		&p.Occupation,
		&p.Employer,
		&p.AnnualIncome,
		&p.EmergencyContactName,
		&p.EmergencyContactPhone,
		&p.EmergencyContactRelationship,
		&p.Notes,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a new profile row.
func (r *ProfilePostgres) Create(ctx context.Context, p *model.Profile) (*model.Profile, error) {
	const q = `
		INSERT INTO profiles (user_id, avatar_key, id_type, id_number, occupation, employer,
			annual_income, emergency_contact_name, emergency_contact_phone, emergency_contact_relationship, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + profileColumns
	row := r.db.QueryRowContext(ctx, q,
		p.UserID,
		p.AvatarKey,
		p.IDType,
		p.IDNumber,
		p.Occupation,
		p.Employer,
		p.AnnualIncome,
		p.EmergencyContactName,
		p.EmergencyContactPhone,
		p.EmergencyContactRelationship,
		p.Notes,
	)
	return scanProfile(row)
}

// FindByUserID fetches the profile for a user.
func (r *ProfilePostgres) FindByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	const q = `SELECT ` + profileColumns + ` FROM profiles WHERE user_id = $1`
	return scanProfile(r.db.QueryRowContext(ctx, q, userID))
}

// Update persists the mutable profile fields.
func (r *ProfilePostgres) Update(ctx context.Context, p *model.Profile) error {
	const q = `
		UPDATE profiles
		SET avatar_key = $2, id_type = $3, id_number = $4, occupation = $5, employer = $6,
			annual_income = $7, emergency_contact_name = $8, emergency_contact_phone = $9,
			emergency_contact_relationship = $10, notes = $11, updated_at = now()
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, q,
		p.ID,
		p.AvatarKey,
		p.IDType,
		p.IDNumber,
		p.Occupation,
		p.Employer,
		p.AnnualIncome,
		p.EmergencyContactName,
		p.EmergencyContactPhone,
		p.EmergencyContactRelationship,
		p.Notes,
	)
	return err
}
