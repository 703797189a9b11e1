package migration

import (
	"context"

	"gorm.io/gorm"

	coreport "github.com/amirhossein-jamali/game-portal/internal/domain/port/core"
)

// IndexManager manages PostgreSQL-specific indexes and constraints that
// gorm's AutoMigrate cannot express
type IndexManager struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewIndexManager creates a new index manager
func NewIndexManager(db *gorm.DB, logger coreport.Logger) *IndexManager {
	return &IndexManager{
		db:     db,
		logger: logger,
	}
}

type ddlStatement struct {
	name string
	sql  string
}

// requiredDDL must succeed for the schema to be usable
var requiredDDL = []ddlStatement{
	{
		// at most one open or opening session per account
		name: "idx_game_sessions_one_active",
		sql: `CREATE UNIQUE INDEX IF NOT EXISTS idx_game_sessions_one_active
			ON game_sessions (account_id)
			WHERE status IN ('open', 'opening')`,
	},
	{
		// provider trade ids are booked once per kind
		name: "idx_ledger_entries_reference_kind",
		sql: `CREATE UNIQUE INDEX IF NOT EXISTS idx_ledger_entries_reference_kind
			ON ledger_entries (reference, kind)
			WHERE reference IS NOT NULL`,
	},
	{
		name: "chk_ledger_entries_amount_nonzero",
		sql: `DO $$ BEGIN
			IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_ledger_entries_amount_nonzero') THEN
				ALTER TABLE ledger_entries ADD CONSTRAINT chk_ledger_entries_amount_nonzero CHECK (amount <> 0 OR kind <> 'adjustment');
			END IF;
		END $$`,
	},
	{
		name: "chk_game_sessions_status",
		sql: `DO $$ BEGIN
			IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_game_sessions_status') THEN
				ALTER TABLE game_sessions ADD CONSTRAINT chk_game_sessions_status CHECK (status IN ('opening', 'open', 'closed'));
			END IF;
		END $$`,
	},
}

// CreateIndexes creates the partial unique indexes and check constraints
func (m *IndexManager) CreateIndexes(ctx context.Context) error {
	m.logger.Info("Creating PostgreSQL indexes and constraints", nil)

	for _, stmt := range requiredDDL {
		if err := m.db.WithContext(ctx).Exec(stmt.sql).Error; err != nil {
			m.logger.Error("Failed to apply DDL statement", map[string]any{
				"statement": stmt.name,
				"error":     err.Error(),
			})
			return err
		}
	}

	// BRIN suits the append-only, time ordered ledger
	if err := m.db.WithContext(ctx).Exec(`
		CREATE INDEX IF NOT EXISTS idx_ledger_entries_created_at_brin
		ON ledger_entries USING BRIN (created_at)
		WITH (pages_per_range = 32)
	`).Error; err != nil {
		m.logger.Warn("Failed to create BRIN index on ledger created_at", map[string]any{
			"error": err.Error(),
		})
	}

	m.logger.Info("PostgreSQL indexes created successfully", nil)
	return nil
}

// ApplyPerformanceTweaks applies non-critical PostgreSQL storage settings
func (m *IndexManager) ApplyPerformanceTweaks(ctx context.Context) {
	m.logger.Info("Applying PostgreSQL performance tweaks", nil)

	// accounts and sessions are updated in place on every bet
	for _, table := range []string{"accounts", "game_sessions"} {
		if err := m.db.WithContext(ctx).Exec("ALTER TABLE " + table + " SET (fillfactor = 90)").Error; err != nil {
			m.logger.Warn("Failed to set fillfactor", map[string]any{
				"table": table,
				"error": err.Error(),
			})
		}
	}

	if err := m.db.WithContext(ctx).Exec(`
		ALTER TABLE ledger_entries ALTER COLUMN actor_id SET STATISTICS 1000
	`).Error; err != nil {
		m.logger.Warn("Failed to set statistics target for actor_id", map[string]any{
			"error": err.Error(),
		})
	}
}
