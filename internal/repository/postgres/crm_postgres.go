package postgres

import (
	"context"
	"database/sql"

	"ifinsure/internal/model"
	"ifinsure/internal/repository"
)

// ProviderPostgres is a PostgreSQL implementation of repository.ProviderRepository.
type ProviderPostgres struct {
	db *sql.DB
}

func NewProviderPostgres(db *sql.DB) *ProviderPostgres {
	return &ProviderPostgres{db: db}
}

var _ repository.ProviderRepository = (*ProviderPostgres)(nil)

const providerColumns = `id, name, code, provider_type, email, phone, website, address, city, country,
	registration_number, ira_license, default_commission_rate, contract_start, contract_end, is_active,
	trashed_at, trashed_by, trash_reason, permanent_delete_at, created_at, updated_at`

func scanProvider(row interface{ Scan(...any) error }) (*model.InsuranceProvider, error) {
	var p model.InsuranceProvider
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Code,
		&p.ProviderType,
		&p.Email,
		&p.Phone,
		&p.Website,
		&p.Address,
		&p.City,
		&p.Country,
		&p.RegistrationNumber,
		&p.IRALicense,
		&p.DefaultCommissionRate,
		&p.ContractStart,
		&p.ContractEnd,
		&p.IsActive,
		&p.TrashedAt,
		&p.TrashedByID,
		&p.TrashReason,
		&p.PermanentDeleteAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProviderPostgres) Create(ctx context.Context, p *model.InsuranceProvider) (*model.InsuranceProvider, error) {
	const q = `
		INSERT INTO providers (name, code, provider_type, email, phone, website, address, city, country,
			registration_number, ira_license, default_commission_rate, contract_start, contract_end, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING ` + providerColumns
	return scanProvider(r.db.QueryRowContext(ctx, q,
		p.Name, p.Code, p.ProviderType, p.Email, p.Phone, p.Website, p.Address, p.City, p.Country,
		p.RegistrationNumber, p.IRALicense, p.DefaultCommissionRate, p.ContractStart, p.ContractEnd, p.IsActive))
}

func (r *ProviderPostgres) FindByID(ctx context.Context, id string) (*model.InsuranceProvider, error) {
	const q = `SELECT ` + providerColumns + ` FROM providers WHERE id = $1`
	return scanProvider(r.db.QueryRowContext(ctx, q, id))
}

func (r *ProviderPostgres) FindByCode(ctx context.Context, code string) (*model.InsuranceProvider, error) {
	const q = `SELECT ` + providerColumns + ` FROM providers WHERE code = $1`
	return scanProvider(r.db.QueryRowContext(ctx, q, code))
}

func (r *ProviderPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.InsuranceProvider], error) {
	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM providers WHERE trashed_at IS NULL`).Scan(&total); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+providerColumns+` FROM providers WHERE trashed_at IS NULL ORDER BY name LIMIT $1 OFFSET $2`,
		pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.InsuranceProvider, 0)
	for rows.Next() {
		p, err := scanProvider(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &repository.PageResult[model.InsuranceProvider]{Items: items, Total: total}, nil
}

func (r *ProviderPostgres) Update(ctx context.Context, p *model.InsuranceProvider) error {
	const q = `
		UPDATE providers
		SET name = $2, code = $3, provider_type = $4, email = $5, phone = $6, website = $7,
			address = $8, city = $9, country = $10, registration_number = $11, ira_license = $12,
			default_commission_rate = $13, contract_start = $14, contract_end = $15, is_active = $16,
			updated_at = now()
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, q,
		p.ID, p.Name, p.Code, p.ProviderType, p.Email, p.Phone, p.Website,
		p.Address, p.City, p.Country, p.RegistrationNumber, p.IRALicense,
		p.DefaultCommissionRate, p.ContractStart, p.ContractEnd, p.IsActive)
	return err
}

func (r *ProviderPostgres) Trash(ctx context.Context, id string, tr model.Trashable) error {
	return trashRow(ctx, r.db, "providers", id, tr)
}

func (r *ProviderPostgres) Restore(ctx context.Context, id string) error {
	return restoreRow(ctx, r.db, "providers", id)
}

func (r *ProviderPostgres) Purge(ctx context.Context, id string) error {
	return purgeRow(ctx, r.db, "providers", id)
}

// CategoryPostgres is a PostgreSQL implementation of repository.CategoryRepository.
type CategoryPostgres struct {
	db *sql.DB
}

func NewCategoryPostgres(db *sql.DB) *CategoryPostgres {
	return &CategoryPostgres{db: db}
}

var _ repository.CategoryRepository = (*CategoryPostgres)(nil)

const categoryColumns = `id, name, code, description, icon, display_order, is_active, created_at, updated_at`

func scanCategory(row interface{ Scan(...any) error }) (*model.ProductCategory, error) {
	var c model.ProductCategory
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Code,
		&c.Description,
		&c.Icon,
		&c.DisplayOrder,
		&c.IsActive,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CategoryPostgres) Create(ctx context.Context, c *model.ProductCategory) (*model.ProductCategory, error) {
	const q = `
		INSERT INTO product_categories (name, code, description, icon, display_order, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + categoryColumns
	return scanCategory(r.db.QueryRowContext(ctx, q,
		c.Name, c.Code, c.Description, c.Icon, c.DisplayOrder, c.IsActive))
}

func (r *CategoryPostgres) FindByID(ctx context.Context, id string) (*model.ProductCategory, error) {
	const q = `SELECT ` + categoryColumns + ` FROM product_categories WHERE id = $1`
	return scanCategory(r.db.QueryRowContext(ctx, q, id))
}

func (r *CategoryPostgres) List(ctx context.Context, includeInactive bool) ([]model.ProductCategory, error) {
	const q = `
		SELECT ` + categoryColumns + `
		FROM product_categories
		WHERE $1 OR is_active
		ORDER BY display_order, name
	`
	rows, err := r.db.QueryContext(ctx, q, includeInactive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.ProductCategory, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

func (r *CategoryPostgres) Update(ctx context.Context, c *model.ProductCategory) error {
	const q = `
		UPDATE product_categories
		SET name = $2, code = $3, description = $4, icon = $5, display_order = $6, is_active = $7, updated_at = now()
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, q, c.ID, c.Name, c.Code, c.Description, c.Icon, c.DisplayOrder, c.IsActive)
	return err
}

func (r *CategoryPostgres) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM product_categories WHERE id = $1`, id)
	return err
}

// ProductPostgres is a PostgreSQL implementation of repository.ProductRepository.
type ProductPostgres struct {
	db *sql.DB
}

func NewProductPostgres(db *sql.DB) *ProductPostgres {
	return &ProductPostgres{db: db}
}

var _ repository.ProductRepository = (*ProductPostgres)(nil)

const productColumns = `id, provider_id, category_id, name, code, short_description, description,
	base_premium, min_premium, min_sum_insured, max_sum_insured, commission_rate, commission_type,
	default_duration_months, requires_underwriting, auto_renew_enabled, application_payment_mode,
	convenience_fee, convenience_fee_type, featured, display_order, is_active,
	trashed_at, trashed_by, trash_reason, permanent_delete_at, created_at, updated_at`

func scanProduct(row interface{ Scan(...any) error }) (*model.InsuranceProduct, error) {
	var p model.InsuranceProduct
	err := row.Scan(
		&p.ID,
		&p.ProviderID,
		&p.CategoryID,
		&p.Name,
		&p.Code,
		&p.ShortDescription,
		&p.Description,
		&p.BasePremium,
		&p.MinPremium,
		&p.MinSumInsured,
		&p.MaxSumInsured,
		&p.CommissionRate,
		&p.CommissionType,
		&p.DefaultDurationMonths,
		&p.RequiresUnderwriting,
		&p.AutoRenewEnabled,
		&p.ApplicationPaymentMode,
		&p.ConvenienceFee,
		&p.ConvenienceFeeType,
		&p.Featured,
		&p.DisplayOrder,
		&p.IsActive,
		&p.TrashedAt,
		&p.TrashedByID,
		&p.TrashReason,
		&p.PermanentDeleteAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductPostgres) Create(ctx context.Context, p *model.InsuranceProduct) (*model.InsuranceProduct, error) {
	const q = `
		INSERT INTO products (provider_id, category_id, name, code, short_description, description,
			base_premium, min_premium, min_sum_insured, max_sum_insured, commission_rate, commission_type,
			default_duration_months, requires_underwriting, auto_renew_enabled, application_payment_mode,
			convenience_fee, convenience_fee_type, featured, display_order, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
		RETURNING ` + productColumns
	return scanProduct(r.db.QueryRowContext(ctx, q,
		p.ProviderID, p.CategoryID, p.Name, p.Code, p.ShortDescription, p.Description,
		p.BasePremium, p.MinPremium, p.MinSumInsured, p.MaxSumInsured, p.CommissionRate, p.CommissionType,
		p.DefaultDurationMonths, p.RequiresUnderwriting, p.AutoRenewEnabled, p.ApplicationPaymentMode,
		p.ConvenienceFee, p.ConvenienceFeeType, p.Featured, p.DisplayOrder, p.IsActive))
}

func (r *ProductPostgres) FindByID(ctx context.Context, id string) (*model.InsuranceProduct, error) {
	const q = `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	return scanProduct(r.db.QueryRowContext(ctx, q, id))
}

func (r *ProductPostgres) FindByCode(ctx context.Context, code string) (*model.InsuranceProduct, error) {
	const q = `SELECT ` + productColumns + ` FROM products WHERE code = $1`
	return scanProduct(r.db.QueryRowContext(ctx, q, code))
}

func (r *ProductPostgres) List(ctx context.Context, f repository.ProductFilter, pq repository.PageQuery) (*repository.PageResult[model.InsuranceProduct], error) {
	const where = `
		WHERE trashed_at IS NULL
		AND ($1 = '' OR provider_id::text = $1)
		AND ($2 = '' OR category_id::text = $2)
		AND (NOT $3 OR featured)
		AND (NOT $4 OR is_active)
		AND ($5 = '' OR name ILIKE '%' || $5 || '%' OR code ILIKE '%' || $5 || '%')
	`
	args := []any{f.ProviderID, f.CategoryID, f.FeaturedOnly, f.ActiveOnly, likeEscaper.Replace(f.Search)}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`+where, args...).Scan(&total); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+productColumns+` FROM products`+where+` ORDER BY display_order, name LIMIT $6 OFFSET $7`,
		append(args, pq.Limit, pq.Offset)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.InsuranceProduct, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &repository.PageResult[model.InsuranceProduct]{Items: items, Total: total}, nil
}

func (r *ProductPostgres) Update(ctx context.Context, p *model.InsuranceProduct) error {
	const q = `
		UPDATE products
		SET provider_id = $2, category_id = $3, name = $4, code = $5, short_description = $6,
			description = $7, base_premium = $8, min_premium = $9, min_sum_insured = $10,
			max_sum_insured = $11, commission_rate = $12, commission_type = $13,
			default_duration_months = $14, requires_underwriting = $15, auto_renew_enabled = $16,
			application_payment_mode = $17, convenience_fee = $18, convenience_fee_type = $19,
			featured = $20, display_order = $21, is_active = $22, updated_at = now()
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, q,
		p.ID, p.ProviderID, p.CategoryID, p.Name, p.Code, p.ShortDescription,
		p.Description, p.BasePremium, p.MinPremium, p.MinSumInsured,
		p.MaxSumInsured, p.CommissionRate, p.CommissionType,
		p.DefaultDurationMonths, p.RequiresUnderwriting, p.AutoRenewEnabled,
		p.ApplicationPaymentMode, p.ConvenienceFee, p.ConvenienceFeeType,
		p.Featured, p.DisplayOrder, p.IsActive)
	return err
}

func (r *ProductPostgres) Trash(ctx context.Context, id string, tr model.Trashable) error {
	return trashRow(ctx, r.db, "products", id, tr)
}

func (r *ProductPostgres) Restore(ctx context.Context, id string) error {
	return restoreRow(ctx, r.db, "products", id)
}

func (r *ProductPostgres) Purge(ctx context.Context, id string) error {
	return purgeRow(ctx, r.db, "products", id)
}

// LeadPostgres is a PostgreSQL implementation of repository.LeadRepository.
type LeadPostgres struct {
	db *sql.DB
}

func NewLeadPostgres(db *sql.DB) *LeadPostgres {
	return &LeadPostgres{db: db}
}

var _ repository.LeadRepository = (*LeadPostgres)(nil)

const leadColumns = `id, name, email, phone, source, status, product_id, assigned_agent_id,
	converted_user_id, notes, last_contacted_at,
	trashed_at, trashed_by, trash_reason, permanent_delete_at, created_at, updated_at`

func scanLead(row interface{ Scan(...any) error }) (*model.Lead, error) {
	var l model.Lead
	err := row.Scan(
		&l.ID,
		&l.Name,
		&l.Email,
		&l.Phone,
		&l.Source,
		&l.Status,
		&l.ProductID,
		&l.AssignedAgentID,
		&l.ConvertedUserID,
		&l.Notes,
		&l.LastContactedAt,
		&l.TrashedAt,
		&l.TrashedByID,
		&l.TrashReason,
		&l.PermanentDeleteAt,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *LeadPostgres) Create(ctx context.Context, l *model.Lead) (*model.Lead, error) {
	const q = `
		INSERT INTO leads (name, email, phone, source, status, product_id, assigned_agent_id, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + leadColumns
	return scanLead(r.db.QueryRowContext(ctx, q,
		l.Name, l.Email, l.Phone, l.Source, l.Status, l.ProductID, l.AssignedAgentID, l.Notes))
}

func (r *LeadPostgres) FindByID(ctx context.Context, id string) (*model.Lead, error) {
	const q = `SELECT ` + leadColumns + ` FROM leads WHERE id = $1`
	return scanLead(r.db.QueryRowContext(ctx, q, id))
}

func (r *LeadPostgres) List(ctx context.Context, f repository.LeadFilter, pq repository.PageQuery) (*repository.PageResult[model.Lead], error) {
	const where = `
		WHERE trashed_at IS NULL
		AND ($1 = '' OR status = $1)
		AND ($2 = '' OR assigned_agent_id::text = $2)
		AND ($3 = '' OR name ILIKE '%' || $3 || '%' OR email ILIKE '%' || $3 || '%' OR phone ILIKE '%' || $3 || '%')
	`
	args := []any{f.Status, f.AssignedAgentID, likeEscaper.Replace(f.Search)}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM leads`+where, args...).Scan(&total); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+leadColumns+` FROM leads`+where+` ORDER BY created_at DESC, id DESC LIMIT $4 OFFSET $5`,
		append(args, pq.Limit, pq.Offset)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Lead, 0)
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &repository.PageResult[model.Lead]{Items: items, Total: total}, nil
}

func (r *LeadPostgres) Update(ctx context.Context, l *model.Lead) error {
	const q = `
		UPDATE leads
		SET name = $2, email = $3, phone = $4, source = $5, status = $6, product_id = $7,
			assigned_agent_id = $8, converted_user_id = $9, notes = $10, last_contacted_at = $11,
			updated_at = now()
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, q,
		l.ID, l.Name, l.Email, l.Phone, l.Source, l.Status, l.ProductID,
		l.AssignedAgentID, l.ConvertedUserID, l.Notes, l.LastContactedAt)
	return err
}

func (r *LeadPostgres) Trash(ctx context.Context, id string, tr model.Trashable) error {
	return trashRow(ctx, r.db, "leads", id, tr)
}

func (r *LeadPostgres) Restore(ctx context.Context, id string) error {
	return restoreRow(ctx, r.db, "leads", id)
}

func (r *LeadPostgres) Purge(ctx context.Context, id string) error {
	return purgeRow(ctx, r.db, "leads", id)
}
