package migration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_extension_uuid_ossp",
		SQL:  `CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	},
	{
		Name: "create_table_users",
		SQL: `CREATE TABLE IF NOT EXISTS users (
  id            UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  email         TEXT        NOT NULL UNIQUE,
  password_hash TEXT        NOT NULL,
  first_name    TEXT        NOT NULL DEFAULT '',
  last_name     TEXT        NOT NULL DEFAULT '',
  user_type     TEXT        NOT NULL DEFAULT 'customer',
  phone         TEXT        NOT NULL DEFAULT '',
  date_of_birth DATE,
  address       TEXT        NOT NULL DEFAULT '',
  city          TEXT        NOT NULL DEFAULT '',
  country       TEXT        NOT NULL DEFAULT 'Kenya',
  is_active     BOOLEAN     NOT NULL DEFAULT TRUE,
  is_superuser  BOOLEAN     NOT NULL DEFAULT FALSE,
  last_login_at TIMESTAMPTZ,
  created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_users_user_type",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_users_user_type ON users (user_type);`,
	},
	{
		Name: "create_table_profiles",
		SQL: `CREATE TABLE IF NOT EXISTS profiles (
  id                             UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  user_id                        UUID        NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
  avatar_key                     TEXT        NOT NULL DEFAULT '',
  id_type                        TEXT        NOT NULL DEFAULT '',
  id_number                      TEXT        NOT NULL DEFAULT '',
  occupation                     TEXT        NOT NULL DEFAULT '',
  employer                       TEXT        NOT NULL DEFAULT '',
  annual_income                  NUMERIC(15,2),
  emergency_contact_name         TEXT        NOT NULL DEFAULT '',
  emergency_contact_phone        TEXT        NOT NULL DEFAULT '',
  emergency_contact_relationship TEXT        NOT NULL DEFAULT '',
  notes                          TEXT        NOT NULL DEFAULT '',
  created_at                     TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at                     TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_departments",
		SQL: `CREATE TABLE IF NOT EXISTS departments (
  id          UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  code        TEXT        NOT NULL UNIQUE,
  name        TEXT        NOT NULL,
  description TEXT        NOT NULL DEFAULT '',
  is_active   BOOLEAN     NOT NULL DEFAULT TRUE,
  trashed_at  TIMESTAMPTZ,
  trashed_by  UUID        REFERENCES users(id) ON DELETE SET NULL,
  trash_reason TEXT       NOT NULL DEFAULT '',
  permanent_delete_at TIMESTAMPTZ,
  created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_workclasses",
		SQL: `CREATE TABLE IF NOT EXISTS workclasses (
  id                 UUID          PRIMARY KEY DEFAULT uuid_generate_v4(),
  code               TEXT          NOT NULL UNIQUE,
  name               TEXT          NOT NULL,
  level              INT           NOT NULL DEFAULT 2 CHECK (level BETWEEN 1 AND 5),
  department_id      UUID          REFERENCES departments(id) ON DELETE SET NULL,
  description        TEXT          NOT NULL DEFAULT '',
  monetary_limit     NUMERIC(15,2) NOT NULL DEFAULT 0,
  permissions        JSONB         NOT NULL DEFAULT '{}',
  daily_ticket_limit INT           NOT NULL DEFAULT 20,
  is_active          BOOLEAN       NOT NULL DEFAULT TRUE,
  trashed_at         TIMESTAMPTZ,
  trashed_by         UUID          REFERENCES users(id) ON DELETE SET NULL,
  trash_reason       TEXT          NOT NULL DEFAULT '',
  permanent_delete_at TIMESTAMPTZ,
  created_at         TIMESTAMPTZ   NOT NULL DEFAULT now(),
  updated_at         TIMESTAMPTZ   NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_agent_profiles",
		SQL: `CREATE TABLE IF NOT EXISTS agent_profiles (
  id                   UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  user_id              UUID        NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
  employee_id          TEXT        UNIQUE,
  primary_workclass_id UUID        REFERENCES workclasses(id) ON DELETE SET NULL,
  department_id        UUID        REFERENCES departments(id) ON DELETE SET NULL,
  supervisor_id        UUID        REFERENCES agent_profiles(id) ON DELETE SET NULL,
  daily_capacity       INT         NOT NULL DEFAULT 15,
  current_load         INT         NOT NULL DEFAULT 0,
  is_available         BOOLEAN     NOT NULL DEFAULT TRUE,
  shift                TEXT        NOT NULL DEFAULT 'flexible',
  created_at           TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at           TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_agent_workclasses",
		SQL: `CREATE TABLE IF NOT EXISTS agent_workclasses (
  agent_id     UUID NOT NULL REFERENCES agent_profiles(id) ON DELETE CASCADE,
  workclass_id UUID NOT NULL REFERENCES workclasses(id) ON DELETE CASCADE,
  PRIMARY KEY (agent_id, workclass_id)
);`,
	},
	{
		Name: "create_table_tickets",
		SQL: `CREATE TABLE IF NOT EXISTS tickets (
  id                UUID          PRIMARY KEY DEFAULT uuid_generate_v4(),
  reference         TEXT          NOT NULL UNIQUE,
  ticket_type       TEXT          NOT NULL,
  priority          TEXT          NOT NULL DEFAULT 'medium',
  status            TEXT          NOT NULL DEFAULT 'open',
  entity_type       TEXT          NOT NULL DEFAULT '',
  entity_id         TEXT          NOT NULL DEFAULT '',
  required_level    INT           NOT NULL DEFAULT 2,
  department_id     UUID          REFERENCES departments(id) ON DELETE SET NULL,
  estimated_amount  NUMERIC(15,2) NOT NULL DEFAULT 0,
  assigned_to       UUID          REFERENCES agent_profiles(id) ON DELETE SET NULL,
  assigned_by       UUID          REFERENCES users(id) ON DELETE SET NULL,
  assigned_at       TIMESTAMPTZ,
  customer_id       UUID          REFERENCES users(id) ON DELETE SET NULL,
  subject           TEXT          NOT NULL,
  description       TEXT          NOT NULL DEFAULT '',
  sla_due_at        TIMESTAMPTZ,
  first_response_at TIMESTAMPTZ,
  resolved_at       TIMESTAMPTZ,
  closed_at         TIMESTAMPTZ,
  resolution_notes  TEXT          NOT NULL DEFAULT '',
  escalated_from    UUID          REFERENCES tickets(id) ON DELETE SET NULL,
  escalation_reason TEXT          NOT NULL DEFAULT '',
  created_by        UUID          REFERENCES users(id) ON DELETE SET NULL,
  trashed_at        TIMESTAMPTZ,
  trashed_by        UUID          REFERENCES users(id) ON DELETE SET NULL,
  trash_reason      TEXT          NOT NULL DEFAULT '',
  permanent_delete_at TIMESTAMPTZ,
  created_at        TIMESTAMPTZ   NOT NULL DEFAULT now(),
  updated_at        TIMESTAMPTZ   NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_tickets_status_created",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_tickets_status_created ON tickets (status, created_at DESC);`,
	},
	{
		Name: "create_index_tickets_assigned_status",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_tickets_assigned_status ON tickets (assigned_to, status);`,
	},
	{
		Name: "create_table_ticket_activities",
		SQL: `CREATE TABLE IF NOT EXISTS ticket_activities (
  id            UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  ticket_id     UUID        NOT NULL REFERENCES tickets(id) ON DELETE CASCADE,
  activity_type TEXT        NOT NULL,
  performed_by  UUID        REFERENCES users(id) ON DELETE SET NULL,
  details       JSONB       NOT NULL DEFAULT '{}',
  note          TEXT        NOT NULL DEFAULT '',
  created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_agent_performance",
		SQL: `CREATE TABLE IF NOT EXISTS agent_performance (
  id                  UUID          PRIMARY KEY DEFAULT uuid_generate_v4(),
  agent_id            UUID          NOT NULL REFERENCES agent_profiles(id) ON DELETE CASCADE,
  period_type         TEXT          NOT NULL DEFAULT 'daily',
  period_start        DATE          NOT NULL,
  period_end          DATE          NOT NULL,
  tickets_assigned    INT           NOT NULL DEFAULT 0,
  tickets_resolved    INT           NOT NULL DEFAULT 0,
  tickets_escalated   INT           NOT NULL DEFAULT 0,
  avg_resolution_mins INT           NOT NULL DEFAULT 0,
  sla_met             INT           NOT NULL DEFAULT 0,
  sla_breached        INT           NOT NULL DEFAULT 0,
  policies_sold       INT           NOT NULL DEFAULT 0,
  total_premium_value NUMERIC(15,2) NOT NULL DEFAULT 0,
  created_at          TIMESTAMPTZ   NOT NULL DEFAULT now(),
  updated_at          TIMESTAMPTZ   NOT NULL DEFAULT now(),
  UNIQUE (agent_id, period_type, period_start)
);`,
	},
	{
		Name: "create_table_providers",
		SQL: `CREATE TABLE IF NOT EXISTS providers (
  id                      UUID          PRIMARY KEY DEFAULT uuid_generate_v4(),
  name                    TEXT          NOT NULL,
  code                    TEXT          NOT NULL UNIQUE,
  provider_type           TEXT          NOT NULL DEFAULT 'underwriter',
  email                   TEXT          NOT NULL DEFAULT '',
  phone                   TEXT          NOT NULL DEFAULT '',
  website                 TEXT          NOT NULL DEFAULT '',
  address                 TEXT          NOT NULL DEFAULT '',
  city                    TEXT          NOT NULL DEFAULT '',
  country                 TEXT          NOT NULL DEFAULT 'Kenya',
  registration_number     TEXT          NOT NULL DEFAULT '',
  ira_license             TEXT          NOT NULL DEFAULT '',
  default_commission_rate NUMERIC(5,2)  NOT NULL DEFAULT 10.00,
  contract_start          DATE,
  contract_end            DATE,
  is_active               BOOLEAN       NOT NULL DEFAULT TRUE,
  trashed_at              TIMESTAMPTZ,
  trashed_by              UUID          REFERENCES users(id) ON DELETE SET NULL,
  trash_reason            TEXT          NOT NULL DEFAULT '',
  permanent_delete_at     TIMESTAMPTZ,
  created_at              TIMESTAMPTZ   NOT NULL DEFAULT now(),
  updated_at              TIMESTAMPTZ   NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_product_categories",
		SQL: `CREATE TABLE IF NOT EXISTS product_categories (
  id            UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  name          TEXT        NOT NULL,
  code          TEXT        NOT NULL UNIQUE,
  description   TEXT        NOT NULL DEFAULT '',
  icon          TEXT        NOT NULL DEFAULT '',
  display_order INT         NOT NULL DEFAULT 0,
  is_active     BOOLEAN     NOT NULL DEFAULT TRUE,
  created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_products",
		SQL: `CREATE TABLE IF NOT EXISTS products (
  id                       UUID          PRIMARY KEY DEFAULT uuid_generate_v4(),
  provider_id              UUID          NOT NULL REFERENCES providers(id) ON DELETE CASCADE,
  category_id              UUID          REFERENCES product_categories(id) ON DELETE SET NULL,
  name                     TEXT          NOT NULL,
  code                     TEXT          NOT NULL UNIQUE,
  short_description        TEXT          NOT NULL DEFAULT '',
  description              TEXT          NOT NULL DEFAULT '',
  base_premium             NUMERIC(12,2) NOT NULL DEFAULT 0,
  min_premium              NUMERIC(12,2) NOT NULL DEFAULT 0,
  min_sum_insured          NUMERIC(15,2) NOT NULL DEFAULT 0,
  max_sum_insured          NUMERIC(15,2),
  commission_rate          NUMERIC(5,2),
  commission_type          TEXT          NOT NULL DEFAULT 'percentage',
  default_duration_months  INT           NOT NULL DEFAULT 12,
  requires_underwriting    BOOLEAN       NOT NULL DEFAULT FALSE,
  auto_renew_enabled       BOOLEAN       NOT NULL DEFAULT TRUE,
  application_payment_mode TEXT          NOT NULL DEFAULT 'convenience_only',
  convenience_fee          NUMERIC(10,2) NOT NULL DEFAULT 500.00,
  convenience_fee_type     TEXT          NOT NULL DEFAULT 'fixed',
  featured                 BOOLEAN       NOT NULL DEFAULT FALSE,
  display_order            INT           NOT NULL DEFAULT 0,
  is_active                BOOLEAN       NOT NULL DEFAULT TRUE,
  trashed_at               TIMESTAMPTZ,
  trashed_by               UUID          REFERENCES users(id) ON DELETE SET NULL,
  trash_reason             TEXT          NOT NULL DEFAULT '',
  permanent_delete_at      TIMESTAMPTZ,
  created_at               TIMESTAMPTZ   NOT NULL DEFAULT now(),
  updated_at               TIMESTAMPTZ   NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_leads",
		SQL: `CREATE TABLE IF NOT EXISTS leads (
  id                 UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  name               TEXT        NOT NULL,
  email              TEXT        NOT NULL DEFAULT '',
  phone              TEXT        NOT NULL DEFAULT '',
  source             TEXT        NOT NULL DEFAULT '',
  status             TEXT        NOT NULL DEFAULT 'new',
  product_id         UUID        REFERENCES products(id) ON DELETE SET NULL,
  assigned_agent_id  UUID        REFERENCES agent_profiles(id) ON DELETE SET NULL,
  converted_user_id  UUID        REFERENCES users(id) ON DELETE SET NULL,
  notes              TEXT        NOT NULL DEFAULT '',
  last_contacted_at  TIMESTAMPTZ,
  trashed_at         TIMESTAMPTZ,
  trashed_by         UUID        REFERENCES users(id) ON DELETE SET NULL,
  trash_reason       TEXT        NOT NULL DEFAULT '',
  permanent_delete_at TIMESTAMPTZ,
  created_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at         TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_policies",
		SQL: `CREATE TABLE IF NOT EXISTS policies (
  id                       UUID          PRIMARY KEY DEFAULT uuid_generate_v4(),
  policy_number            TEXT          NOT NULL UNIQUE,
  customer_id              UUID          NOT NULL REFERENCES users(id),
  product_id               UUID          NOT NULL REFERENCES products(id),
  agent_id                 UUID          REFERENCES users(id) ON DELETE SET NULL,
  status                   TEXT          NOT NULL DEFAULT 'pending',
  start_date               DATE          NOT NULL,
  end_date                 DATE          NOT NULL,
  premium_amount           NUMERIC(12,2) NOT NULL,
  coverage_amount          NUMERIC(15,2) NOT NULL,
  payment_frequency        TEXT          NOT NULL DEFAULT 'monthly',
  beneficiary_name         TEXT          NOT NULL DEFAULT '',
  beneficiary_relationship TEXT          NOT NULL DEFAULT '',
  beneficiary_phone        TEXT          NOT NULL DEFAULT '',
  notes                    TEXT          NOT NULL DEFAULT '',
  trashed_at               TIMESTAMPTZ,
  trashed_by               UUID          REFERENCES users(id) ON DELETE SET NULL,
  trash_reason             TEXT          NOT NULL DEFAULT '',
  permanent_delete_at      TIMESTAMPTZ,
  created_at               TIMESTAMPTZ   NOT NULL DEFAULT now(),
  updated_at               TIMESTAMPTZ   NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_policies_customer_status",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_policies_customer_status ON policies (customer_id, status);`,
	},
	{
		Name: "create_table_policy_applications",
		SQL: `CREATE TABLE IF NOT EXISTS policy_applications (
  id                       UUID          PRIMARY KEY DEFAULT uuid_generate_v4(),
  application_number       TEXT          NOT NULL UNIQUE,
  applicant_id             UUID          NOT NULL REFERENCES users(id),
  product_id               UUID          NOT NULL REFERENCES products(id),
  assigned_agent_id        UUID          REFERENCES users(id) ON DELETE SET NULL,
  status                   TEXT          NOT NULL DEFAULT 'draft',
  requested_coverage       NUMERIC(15,2) NOT NULL,
  requested_term_months    INT           NOT NULL DEFAULT 12,
  payment_frequency        TEXT          NOT NULL DEFAULT 'monthly',
  calculated_premium       NUMERIC(12,2),
  beneficiary_name         TEXT          NOT NULL DEFAULT '',
  beneficiary_relationship TEXT          NOT NULL DEFAULT '',
  beneficiary_phone        TEXT          NOT NULL DEFAULT '',
  submitted_at             TIMESTAMPTZ,
  reviewed_at              TIMESTAMPTZ,
  reviewed_by              UUID          REFERENCES users(id) ON DELETE SET NULL,
  rejection_reason         TEXT          NOT NULL DEFAULT '',
  notes                    TEXT          NOT NULL DEFAULT '',
  policy_id                UUID          REFERENCES policies(id) ON DELETE SET NULL,
  payment_status           TEXT          NOT NULL DEFAULT 'pending',
  convenience_fee_amount   NUMERIC(10,2) NOT NULL DEFAULT 0,
  premium_amount           NUMERIC(12,2) NOT NULL DEFAULT 0,
  total_payment_due        NUMERIC(12,2) NOT NULL DEFAULT 0,
  amount_paid              NUMERIC(12,2) NOT NULL DEFAULT 0,
  payment_reference        TEXT          NOT NULL DEFAULT '',
  paid_at                  TIMESTAMPTZ,
  trashed_at               TIMESTAMPTZ,
  trashed_by               UUID          REFERENCES users(id) ON DELETE SET NULL,
  trash_reason             TEXT          NOT NULL DEFAULT '',
  permanent_delete_at      TIMESTAMPTZ,
  created_at               TIMESTAMPTZ   NOT NULL DEFAULT now(),
  updated_at               TIMESTAMPTZ   NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_policy_documents",
		SQL: `CREATE TABLE IF NOT EXISTS policy_documents (
  id            UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  policy_id     UUID        NOT NULL REFERENCES policies(id) ON DELETE CASCADE,
  document_type TEXT        NOT NULL,
  title         TEXT        NOT NULL,
  storage_key   TEXT        NOT NULL UNIQUE,
  size          BIGINT      NOT NULL CHECK (size >= 0),
  content_type  TEXT        NOT NULL,
  description   TEXT        NOT NULL DEFAULT '',
  uploaded_by   UUID        REFERENCES users(id) ON DELETE SET NULL,
  created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_claims",
		SQL: `CREATE TABLE IF NOT EXISTS claims (
  id                   UUID          PRIMARY KEY DEFAULT uuid_generate_v4(),
  claim_number         TEXT          NOT NULL UNIQUE,
  policy_id            UUID          NOT NULL REFERENCES policies(id),
  claimant_id          UUID          NOT NULL REFERENCES users(id),
  assigned_adjuster    UUID          REFERENCES users(id) ON DELETE SET NULL,
  status               TEXT          NOT NULL DEFAULT 'draft',
  priority             TEXT          NOT NULL DEFAULT 'medium',
  incident_date        DATE          NOT NULL,
  incident_description TEXT          NOT NULL,
  incident_location    TEXT          NOT NULL DEFAULT '',
  claimed_amount       NUMERIC(15,2) NOT NULL,
  approved_amount      NUMERIC(15,2),
  paid_amount          NUMERIC(15,2),
  submitted_at         TIMESTAMPTZ,
  reviewed_at          TIMESTAMPTZ,
  reviewed_by          UUID          REFERENCES users(id) ON DELETE SET NULL,
  rejection_reason     TEXT          NOT NULL DEFAULT '',
  adjuster_notes       TEXT          NOT NULL DEFAULT '',
  trashed_at           TIMESTAMPTZ,
  trashed_by           UUID          REFERENCES users(id) ON DELETE SET NULL,
  trash_reason         TEXT          NOT NULL DEFAULT '',
  permanent_delete_at  TIMESTAMPTZ,
  created_at           TIMESTAMPTZ   NOT NULL DEFAULT now(),
  updated_at           TIMESTAMPTZ   NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_claims_claimant_status",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_claims_claimant_status ON claims (claimant_id, status);`,
	},
	{
		Name: "create_table_claim_documents",
		SQL: `CREATE TABLE IF NOT EXISTS claim_documents (
  id            UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  claim_id      UUID        NOT NULL REFERENCES claims(id) ON DELETE CASCADE,
  document_type TEXT        NOT NULL,
  title         TEXT        NOT NULL,
  storage_key   TEXT        NOT NULL UNIQUE,
  size          BIGINT      NOT NULL CHECK (size >= 0),
  content_type  TEXT        NOT NULL,
  description   TEXT        NOT NULL DEFAULT '',
  uploaded_by   UUID        REFERENCES users(id) ON DELETE SET NULL,
  created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_claim_notes",
		SQL: `CREATE TABLE IF NOT EXISTS claim_notes (
  id          UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  claim_id    UUID        NOT NULL REFERENCES claims(id) ON DELETE CASCADE,
  author_id   UUID        REFERENCES users(id) ON DELETE SET NULL,
  note        TEXT        NOT NULL,
  is_internal BOOLEAN     NOT NULL DEFAULT TRUE,
  created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_invoices",
		SQL: `CREATE TABLE IF NOT EXISTS invoices (
  id             UUID          PRIMARY KEY DEFAULT uuid_generate_v4(),
  invoice_number TEXT          NOT NULL UNIQUE,
  customer_id    UUID          NOT NULL REFERENCES users(id),
  policy_id      UUID          REFERENCES policies(id) ON DELETE SET NULL,
  status         TEXT          NOT NULL DEFAULT 'pending',
  issued_date    DATE          NOT NULL DEFAULT CURRENT_DATE,
  due_date       DATE          NOT NULL,
  amount         NUMERIC(12,2) NOT NULL,
  paid_amount    NUMERIC(12,2) NOT NULL DEFAULT 0,
  description    TEXT          NOT NULL DEFAULT '',
  notes          TEXT          NOT NULL DEFAULT '',
  trashed_at     TIMESTAMPTZ,
  trashed_by     UUID          REFERENCES users(id) ON DELETE SET NULL,
  trash_reason   TEXT          NOT NULL DEFAULT '',
  permanent_delete_at TIMESTAMPTZ,
  created_at     TIMESTAMPTZ   NOT NULL DEFAULT now(),
  updated_at     TIMESTAMPTZ   NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_invoices_due_status",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_invoices_due_status ON invoices (due_date, status);`,
	},
	{
		Name: "create_table_payments",
		SQL: `CREATE TABLE IF NOT EXISTS payments (
  id             UUID          PRIMARY KEY DEFAULT uuid_generate_v4(),
  reference      TEXT          NOT NULL UNIQUE,
  invoice_id     UUID          NOT NULL REFERENCES invoices(id),
  received_by    UUID          REFERENCES users(id) ON DELETE SET NULL,
  amount         NUMERIC(12,2) NOT NULL CHECK (amount > 0),
  method         TEXT          NOT NULL,
  status         TEXT          NOT NULL DEFAULT 'completed',
  transaction_id TEXT          NOT NULL DEFAULT '',
  notes          TEXT          NOT NULL DEFAULT '',
  created_at     TIMESTAMPTZ   NOT NULL DEFAULT now(),
  updated_at     TIMESTAMPTZ   NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_wallets",
		SQL: `CREATE TABLE IF NOT EXISTS wallets (
  id         UUID          PRIMARY KEY DEFAULT uuid_generate_v4(),
  user_id    UUID          NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
  balance    NUMERIC(15,2) NOT NULL DEFAULT 0 CHECK (balance >= 0),
  currency   TEXT          NOT NULL DEFAULT 'KES',
  is_active  BOOLEAN       NOT NULL DEFAULT TRUE,
  created_at TIMESTAMPTZ   NOT NULL DEFAULT now(),
  updated_at TIMESTAMPTZ   NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_wallet_transactions",
		SQL: `CREATE TABLE IF NOT EXISTS wallet_transactions (
  id            UUID          PRIMARY KEY DEFAULT uuid_generate_v4(),
  wallet_id     UUID          NOT NULL REFERENCES wallets(id) ON DELETE CASCADE,
  txn_type      TEXT          NOT NULL,
  amount        NUMERIC(15,2) NOT NULL,
  balance_after NUMERIC(15,2) NOT NULL,
  description   TEXT          NOT NULL DEFAULT '',
  reference     TEXT          NOT NULL DEFAULT '',
  status        TEXT          NOT NULL DEFAULT 'completed',
  created_at    TIMESTAMPTZ   NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_wallet_transactions_wallet_created",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_wallet_txns_wallet_created ON wallet_transactions (wallet_id, created_at DESC);`,
	},
	{
		Name: "create_table_notifications",
		SQL: `CREATE TABLE IF NOT EXISTS notifications (
  id              UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  recipient_id    UUID        NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  sender_id       UUID        REFERENCES users(id) ON DELETE SET NULL,
  notify_type     TEXT        NOT NULL DEFAULT 'info',
  channel         TEXT        NOT NULL DEFAULT 'in_app',
  event           TEXT        NOT NULL DEFAULT '',
  title           TEXT        NOT NULL,
  message         TEXT        NOT NULL,
  icon            TEXT        NOT NULL DEFAULT 'bell',
  entity_type     TEXT        NOT NULL DEFAULT '',
  entity_id       TEXT        NOT NULL DEFAULT '',
  action_url      TEXT        NOT NULL DEFAULT '',
  is_read         BOOLEAN     NOT NULL DEFAULT FALSE,
  read_at         TIMESTAMPTZ,
  is_archived     BOOLEAN     NOT NULL DEFAULT FALSE,
  delivery_status TEXT        NOT NULL DEFAULT 'pending',
  created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_notifications_recipient_read",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_notifications_recipient_read ON notifications (recipient_id, is_read);`,
	},
	{
		Name: "create_table_notification_preferences",
		SQL: `CREATE TABLE IF NOT EXISTS notification_preferences (
  id                  UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  user_id             UUID        NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
  email_enabled       BOOLEAN     NOT NULL DEFAULT TRUE,
  sms_enabled         BOOLEAN     NOT NULL DEFAULT TRUE,
  push_enabled        BOOLEAN     NOT NULL DEFAULT TRUE,
  in_app_enabled      BOOLEAN     NOT NULL DEFAULT TRUE,
  disabled_events     JSONB       NOT NULL DEFAULT '[]',
  quiet_hours_enabled BOOLEAN     NOT NULL DEFAULT FALSE,
  quiet_hours_start   INT         NOT NULL DEFAULT 22,
  quiet_hours_end     INT         NOT NULL DEFAULT 7,
  created_at          TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at          TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_search_entries",
		SQL: `CREATE TABLE IF NOT EXISTS search_entries (
  id          UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  entity_type TEXT        NOT NULL,
  entity_id   TEXT        NOT NULL,
  title       TEXT        NOT NULL,
  subtitle    TEXT        NOT NULL DEFAULT '',
  content     TEXT        NOT NULL DEFAULT '',
  keywords    TEXT        NOT NULL DEFAULT '',
  icon        TEXT        NOT NULL DEFAULT 'file',
  url         TEXT        NOT NULL DEFAULT '',
  visibility  TEXT        NOT NULL DEFAULT 'private',
  owner_id    UUID        REFERENCES users(id) ON DELETE SET NULL,
  weight      INT         NOT NULL DEFAULT 0,
  created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
  UNIQUE (entity_type, entity_id)
);`,
	},
	{
		Name: "create_index_search_entries_title",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_search_entries_title ON search_entries (lower(title));`,
	},
	{
		Name: "create_table_search_history",
		SQL: `CREATE TABLE IF NOT EXISTS search_history (
  id                  UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  user_id             UUID        REFERENCES users(id) ON DELETE SET NULL,
  query               TEXT        NOT NULL,
  results_count       INT         NOT NULL DEFAULT 0,
  clicked_entity_id   TEXT        NOT NULL DEFAULT '',
  clicked_entity_type TEXT        NOT NULL DEFAULT '',
  duration_ms         INT         NOT NULL DEFAULT 0,
  created_at          TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_trash_entries",
		SQL: `CREATE TABLE IF NOT EXISTS trash_entries (
  id           UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  entity_type  TEXT        NOT NULL,
  entity_id    TEXT        NOT NULL,
  title        TEXT        NOT NULL,
  subtitle     TEXT        NOT NULL DEFAULT '',
  icon         TEXT        NOT NULL DEFAULT 'trash',
  trashed_by   UUID        REFERENCES users(id) ON DELETE SET NULL,
  trash_reason TEXT        NOT NULL DEFAULT '',
  snapshot     JSONB       NOT NULL DEFAULT '{}',
  expires_at   TIMESTAMPTZ NOT NULL,
  restore_path TEXT        NOT NULL DEFAULT '',
  created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
  UNIQUE (entity_type, entity_id)
);`,
	},
	{
		Name: "create_index_trash_entries_expires",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_trash_entries_expires ON trash_entries (expires_at);`,
	},
	{
		Name: "create_table_user_reviews",
		SQL: `CREATE TABLE IF NOT EXISTS user_reviews (
  id               UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  user_id          UUID        NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  quote            TEXT        NOT NULL,
  rating           INT         NOT NULL DEFAULT 5 CHECK (rating BETWEEN 1 AND 5),
  status           TEXT        NOT NULL DEFAULT 'pending',
  reviewed_by      UUID        REFERENCES users(id) ON DELETE SET NULL,
  reviewed_at      TIMESTAMPTZ,
  rejection_reason TEXT        NOT NULL DEFAULT '',
  is_active        BOOLEAN     NOT NULL DEFAULT TRUE,
  trashed_at       TIMESTAMPTZ,
  trashed_by       UUID        REFERENCES users(id) ON DELETE SET NULL,
  trash_reason     TEXT        NOT NULL DEFAULT '',
  permanent_delete_at TIMESTAMPTZ,
  created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
}

// EnsureMigrated checks if the 'users' table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, loc *time.Location, dbHost string) error {
	start := time.Now()

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_check",
		"status":    "starting",
		"db_host":   dbHost,
	})

	var exists bool
	query := "SELECT to_regclass('public.users') IS NOT NULL"
	err := db.QueryRowContext(ctx, query).Scan(&exists)
	if err != nil {
		logJSON(loc, map[string]any{
			"component":     "database",
			"event":         "db_migration_failed",
			"status":        "error",
			"error_message": fmt.Sprintf("failed to check sentinel table: %v", err),
			"db_host":       dbHost,
			"duration_ms":   time.Since(start).Milliseconds(),
		})
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		logJSON(loc, map[string]any{
			"component":   "database",
			"event":       "db_migration_skip",
			"status":      "success",
			"msg":         "schema already exists, skipping migration",
			"db_host":     dbHost,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return nil
	}

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_start",
		"status":    "in_progress",
		"db_host":   dbHost,
	})

	for _, step := range steps {
		stepStart := time.Now()
		_, err := db.ExecContext(ctx, step.SQL)
		if err != nil {
			logJSON(loc, map[string]any{
				"component":        "database",
				"event":            "db_migration_failed",
				"status":           "error",
				"migration_step":   step.Name,
				"error_message":    err.Error(),
				"db_host":          dbHost,
				"duration_ms":      time.Since(start).Milliseconds(),
				"step_duration_ms": time.Since(stepStart).Milliseconds(),
			})
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		logJSON(loc, map[string]any{
			"component":        "database",
			"event":            "db_migration_step",
			"status":           "success",
			"migration_step":   step.Name,
			"db_host":          dbHost,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		})
	}

	logJSON(loc, map[string]any{
		"component":   "database",
		"event":       "db_migration_success",
		"status":      "success",
		"db_host":     dbHost,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return nil
}

func logJSON(loc *time.Location, data map[string]any) {
	data["ts"] = time.Now().In(loc).Format(time.RFC3339Nano)
	if _, ok := data["level"]; !ok {
		if data["status"] == "error" {
			data["level"] = "error"
		} else {
			data["level"] = "info"
		}
	}

	b, err := json.Marshal(data)
	if err != nil {
		log.Printf("failed to marshal migration log: %v", err)
		return
	}
	log.SetFlags(0)
	log.Println(string(b))
}
