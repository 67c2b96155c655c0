package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/tapsight-labs/possync/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/tapsight-labs/possync/internal/core/domain"
	"github.com/tapsight-labs/possync/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that provides access to
// the raw, fact and scheduler store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.possync/data/possync.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".possync", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "possync.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// RawStore returns a RawStore interface backed by this store.
func (s *Store) RawStore() driven.RawStore {
	return &rawStore{store: s}
}

// FactStore returns a FactStore interface backed by this store.
func (s *Store) FactStore() driven.FactStore {
	return &factStore{store: s}
}

// SchedulerStore returns a SchedulerStore interface backed by this store.
func (s *Store) SchedulerStore() driven.SchedulerStore {
	return &schedulerStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Raw Store ====================

// rawStore implements driven.RawStore.
type rawStore struct {
	store *Store
}

var _ driven.RawStore = (*rawStore)(nil)

// SaveRaw stores a raw report with conflict-ignore semantics on the
// (bar_id, category, report_date) key: the first fetch for a date wins.
func (s *rawStore) SaveRaw(ctx context.Context, report domain.RawReport) (*domain.RawReport, bool, error) {
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now().UTC()
	}

	res, err := s.store.db.ExecContext(ctx, `
		INSERT INTO raw_reports (id, source, bar_id, category, report_date, payload, record_count, processed, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, 0, ?)
		ON CONFLICT(bar_id, category, report_date) DO NOTHING
	`, report.ID, report.Source, report.BarID, string(report.Category), string(report.ReportDate),
		report.Payload, report.RecordCount, report.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return nil, false, fmt.Errorf("saving raw report: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("checking insert result: %w", err)
	}

	// Read back so a conflicting save returns the surviving record.
	stored, err := s.FindRaw(ctx, report.BarID, report.Category, report.ReportDate)
	if err != nil {
		return nil, false, fmt.Errorf("reading back raw report: %w", err)
	}

	return stored, affected > 0, nil
}

// GetRaw retrieves a raw report by id.
func (s *rawStore) GetRaw(ctx context.Context, id string) (*domain.RawReport, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, source, bar_id, category, report_date, payload, record_count, processed, created_at
		FROM raw_reports WHERE id = ?
	`, id)
	return scanRawReport(row)
}

// FindRaw retrieves the raw report stored for the key, if any.
func (s *rawStore) FindRaw(ctx context.Context, barID string, category domain.Category, date domain.Date) (*domain.RawReport, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, source, bar_id, category, report_date, payload, record_count, processed, created_at
		FROM raw_reports WHERE bar_id = ? AND category = ? AND report_date = ?
	`, barID, string(category), string(date))
	return scanRawReport(row)
}

// MarkProcessed flips the processed flag.
func (s *rawStore) MarkProcessed(ctx context.Context, id string) error {
	res, err := s.store.db.ExecContext(ctx, "UPDATE raw_reports SET processed = 1 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("marking raw report processed: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update result: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListUnprocessed returns unprocessed reports for a bar, oldest date first.
func (s *rawStore) ListUnprocessed(ctx context.Context, barID string) ([]domain.RawReport, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, source, bar_id, category, report_date, payload, record_count, processed, created_at
		FROM raw_reports
		WHERE bar_id = ? AND processed = 0
		ORDER BY report_date ASC, category ASC
	`, barID)
	if err != nil {
		return nil, fmt.Errorf("querying unprocessed reports: %w", err)
	}
	defer rows.Close()

	var reports []domain.RawReport //nolint:prealloc // size unknown from query
	for rows.Next() {
		report, err := scanRawReportRows(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *report)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating unprocessed reports: %w", err)
	}

	return reports, nil
}

// scanRawReport scans a raw report from *sql.Row.
func scanRawReport(row *sql.Row) (*domain.RawReport, error) {
	var report domain.RawReport
	var category, reportDate, createdAt string
	var processed int

	if err := row.Scan(&report.ID, &report.Source, &report.BarID, &category, &reportDate,
		&report.Payload, &report.RecordCount, &processed, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning raw report: %w", err)
	}

	report.Category = domain.Category(category)
	report.ReportDate = domain.Date(reportDate)
	report.Processed = processed == 1
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		report.CreatedAt = t
	}

	return &report, nil
}

// scanRawReportRows scans a raw report from *sql.Rows.
func scanRawReportRows(rows *sql.Rows) (*domain.RawReport, error) {
	var report domain.RawReport
	var category, reportDate, createdAt string
	var processed int

	if err := rows.Scan(&report.ID, &report.Source, &report.BarID, &category, &reportDate,
		&report.Payload, &report.RecordCount, &processed, &createdAt); err != nil {
		return nil, fmt.Errorf("scanning raw report: %w", err)
	}

	report.Category = domain.Category(category)
	report.ReportDate = domain.Date(reportDate)
	report.Processed = processed == 1
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		report.CreatedAt = t
	}

	return &report, nil
}

// ==================== Fact Store ====================

// factStore implements driven.FactStore.
// Every write is an upsert on the row's natural business key.
type factStore struct {
	store *Store
}

var _ driven.FactStore = (*factStore)(nil)

// UpsertSaleItems stores sale lines keyed by (bar, transaction, line).
func (s *factStore) UpsertSaleItems(ctx context.Context, rows []domain.SaleItem) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO sale_items (bar_id, transaction_id, line_id, product_code, product_name, group_name,
				quantity, unit_price, gross_total, discount, net_total, report_date)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(bar_id, transaction_id, line_id) DO UPDATE SET
				product_code = excluded.product_code,
				product_name = excluded.product_name,
				group_name = excluded.group_name,
				quantity = excluded.quantity,
				unit_price = excluded.unit_price,
				gross_total = excluded.gross_total,
				discount = excluded.discount,
				net_total = excluded.net_total,
				report_date = excluded.report_date
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, row := range rows {
			if _, err := stmt.ExecContext(ctx, row.BarID, row.TransactionID, row.LineID,
				row.ProductCode, row.ProductName, row.GroupName, row.Quantity, row.UnitPrice,
				row.GrossTotal, row.Discount, row.NetTotal, string(row.ReportDate)); err != nil {
				return err
			}
		}
		return nil
	}, "sale items")
}

// UpsertPayments stores tenders keyed by (bar, transaction, sequence).
func (s *factStore) UpsertPayments(ctx context.Context, rows []domain.Payment) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO payments (bar_id, transaction_id, sequence, method, amount, tip, report_date)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(bar_id, transaction_id, sequence) DO UPDATE SET
				method = excluded.method,
				amount = excluded.amount,
				tip = excluded.tip,
				report_date = excluded.report_date
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, row := range rows {
			if _, err := stmt.ExecContext(ctx, row.BarID, row.TransactionID, row.Sequence,
				row.Method, row.Amount, row.Tip, string(row.ReportDate)); err != nil {
				return err
			}
		}
		return nil
	}, "payments")
}

// UpsertHourlyRevenue stores hour buckets keyed by (bar, date, hour).
func (s *factStore) UpsertHourlyRevenue(ctx context.Context, rows []domain.HourlyRevenue) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO hourly_revenue (bar_id, report_date, hour, revenue, order_count)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(bar_id, report_date, hour) DO UPDATE SET
				revenue = excluded.revenue,
				order_count = excluded.order_count
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, row := range rows {
			if _, err := stmt.ExecContext(ctx, row.BarID, string(row.ReportDate), row.Hour,
				row.Revenue, row.OrderCount); err != nil {
				return err
			}
		}
		return nil
	}, "hourly revenue")
}

// UpsertStaffShifts stores shifts keyed by (bar, employee, date, shift).
func (s *factStore) UpsertStaffShifts(ctx context.Context, rows []domain.StaffShift) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO staff_shifts (bar_id, employee_id, employee_name, role, report_date, shift,
				clock_in, clock_out, worked_minutes)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(bar_id, employee_id, report_date, shift) DO UPDATE SET
				employee_name = excluded.employee_name,
				role = excluded.role,
				clock_in = excluded.clock_in,
				clock_out = excluded.clock_out,
				worked_minutes = excluded.worked_minutes
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, row := range rows {
			if _, err := stmt.ExecContext(ctx, row.BarID, row.EmployeeID, row.EmployeeName,
				row.Role, string(row.ReportDate), row.Shift, row.ClockIn, row.ClockOut,
				row.WorkedMinutes); err != nil {
				return err
			}
		}
		return nil
	}, "staff shifts")
}

// UpsertCoverCounts stores service periods keyed by (bar, date, period).
func (s *factStore) UpsertCoverCounts(ctx context.Context, rows []domain.CoverCount) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO cover_counts (bar_id, report_date, period, covers, avg_ticket)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(bar_id, report_date, period) DO UPDATE SET
				covers = excluded.covers,
				avg_ticket = excluded.avg_ticket
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, row := range rows {
			if _, err := stmt.ExecContext(ctx, row.BarID, string(row.ReportDate), row.Period,
				row.Covers, row.AvgTicket); err != nil {
				return err
			}
		}
		return nil
	}, "cover counts")
}

// UpsertStockLevels stores snapshots keyed by (bar, date, product).
func (s *factStore) UpsertStockLevels(ctx context.Context, rows []domain.StockLevel) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO stock_levels (bar_id, report_date, product_code, product_name, unit, on_hand, unit_cost)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(bar_id, report_date, product_code) DO UPDATE SET
				product_name = excluded.product_name,
				unit = excluded.unit,
				on_hand = excluded.on_hand,
				unit_cost = excluded.unit_cost
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, row := range rows {
			if _, err := stmt.ExecContext(ctx, row.BarID, string(row.ReportDate), row.ProductCode,
				row.ProductName, row.Unit, row.OnHand, row.UnitCost); err != nil {
				return err
			}
		}
		return nil
	}, "stock levels")
}

// factTables maps each category to the table its normalised rows land in.
var factTables = map[domain.Category]string{
	domain.CategoryAnalitico: "sale_items",
	domain.CategoryPayments:  "payments",
	domain.CategoryHourly:    "hourly_revenue",
	domain.CategoryStaffTime: "staff_shifts",
	domain.CategoryCovers:    "cover_counts",
	domain.CategoryStock:     "stock_levels",
}

// DistinctDates returns the dates with normalised rows for the category
// within the inclusive window, sorted ascending.
func (s *factStore) DistinctDates(ctx context.Context, barID string, category domain.Category, from, to domain.Date) ([]domain.Date, error) {
	table, ok := factTables[category]
	if !ok {
		return nil, fmt.Errorf("%w: unknown category %q", domain.ErrInvalidInput, category)
	}

	// Table name comes from the fixed map above, never from input.
	query := fmt.Sprintf(`
		SELECT DISTINCT report_date FROM %s
		WHERE bar_id = ? AND report_date >= ? AND report_date <= ?
		ORDER BY report_date ASC
	`, table)

	rows, err := s.store.db.QueryContext(ctx, query, barID, string(from), string(to))
	if err != nil {
		return nil, fmt.Errorf("querying distinct dates: %w", err)
	}
	defer rows.Close()

	var dates []domain.Date //nolint:prealloc // size unknown from query
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("scanning date: %w", err)
		}
		dates = append(dates, domain.Date(d))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating dates: %w", err)
	}

	return dates, nil
}

// withTx runs fn inside a transaction so a batch commits atomically.
func (s *factStore) withTx(ctx context.Context, fn func(tx *sql.Tx) error, what string) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("upserting %s: %w", what, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing %s: %w", what, err)
	}
	return nil
}
