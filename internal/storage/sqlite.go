package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite" // SQLite driver registration.

	"civic_ingest/internal/model"
	"civic_ingest/migrations"
)

const complaintColumns = `id, display_code, title, description, location, urgency, department,
	status, upvotes, created_at, source, source_handle, lat, lng`

// SQLite implements Storage backed by a SQLite database.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at dsn and runs pending migrations.
func NewSQLite(dsn string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if dsn == ":memory:" {
		// every pooled connection would get its own empty database
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	if err := migrations.Run(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Append implements pipeline.Sink.
func (s *SQLite) Append(ctx context.Context, rec model.ComplaintRecord) error {
	return s.AppendComplaint(ctx, rec)
}

// AppendComplaint inserts a record in a single statement.
func (s *SQLite) AppendComplaint(ctx context.Context, rec model.ComplaintRecord) error {
	var lat, lng *float64
	if rec.HasCoordinates() {
		lat, lng = &rec.Lat, &rec.Lng
	}
	status := rec.Status
	if status == "" {
		status = model.StatusOpen
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO complaints (`+complaintColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.DisplayCode, rec.Title, rec.Description, rec.Location,
		string(rec.Urgency), rec.Department, string(status), rec.Upvotes, rec.CreatedAt,
		string(rec.Source), rec.SourceHandle, lat, lng,
	)
	if err != nil {
		return fmt.Errorf("insert complaint: %w", err)
	}
	return nil
}

// ListComplaints returns complaints in append order. A positive Limit keeps
// the newest records.
func (s *SQLite) ListComplaints(ctx context.Context, opts ListOptions) ([]model.ComplaintRecord, error) {
	where := sq.Eq{}
	if opts.Status != "" {
		where["status"] = string(opts.Status)
	}
	if opts.Urgency != "" {
		where["urgency"] = string(opts.Urgency)
	}

	inner := sq.Select("seq", complaintColumns).From("complaints").Where(where)
	if opts.Limit > 0 {
		inner = inner.OrderBy("seq DESC").Limit(uint64(opts.Limit))
	}
	query, args, err := sq.Select(complaintColumns).
		FromSelect(inner, "c").
		OrderBy("seq").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build complaints query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query complaints: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.ComplaintRecord
	for rows.Next() {
		rec, err := scanComplaint(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

// GetComplaintByCode returns the latest complaint with the given display code.
func (s *SQLite) GetComplaintByCode(ctx context.Context, code string) (*model.ComplaintRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+complaintColumns+` FROM complaints
		 WHERE display_code = ? ORDER BY seq DESC LIMIT 1`, code,
	)
	rec, err := scanComplaint(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return rec, err
}

// UpdateStatus changes the status of the latest complaint with the code.
func (s *SQLite) UpdateStatus(ctx context.Context, code string, status model.Status) error {
	if !status.Valid() {
		return fmt.Errorf("update status: unknown status %q", status)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE complaints SET status = ?
		 WHERE seq = (SELECT MAX(seq) FROM complaints WHERE display_code = ?)`,
		string(status), code,
	)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	return requireRow(res)
}

// Upvote increments the upvote count of a complaint and returns the new count.
func (s *SQLite) Upvote(ctx context.Context, code string) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`UPDATE complaints SET upvotes = upvotes + 1
		 WHERE seq = (SELECT MAX(seq) FROM complaints WHERE display_code = ?)`, code,
	)
	if err != nil {
		return 0, fmt.Errorf("upvote: %w", err)
	}
	if err := requireRow(res); err != nil {
		return 0, err
	}

	var upvotes int
	err = tx.QueryRowContext(ctx,
		`SELECT upvotes FROM complaints WHERE display_code = ? ORDER BY seq DESC LIMIT 1`, code,
	).Scan(&upvotes)
	if err != nil {
		return 0, fmt.Errorf("read upvotes: %w", err)
	}
	return upvotes, tx.Commit()
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanComplaint(row scannable) (*model.ComplaintRecord, error) {
	var (
		rec                  model.ComplaintRecord
		urgency, status, src string
		lat, lng             sql.NullFloat64
	)
	err := row.Scan(&rec.ID, &rec.DisplayCode, &rec.Title, &rec.Description, &rec.Location,
		&urgency, &rec.Department, &status, &rec.Upvotes, &rec.CreatedAt,
		&src, &rec.SourceHandle, &lat, &lng)
	if err != nil {
		return nil, fmt.Errorf("scan complaint: %w", err)
	}
	rec.Urgency = model.Urgency(urgency)
	rec.Status = model.Status(status)
	rec.Source = model.Source(src)
	if lat.Valid && lng.Valid {
		rec.Lat, rec.Lng = lat.Float64, lng.Float64
	}
	return &rec, nil
}
