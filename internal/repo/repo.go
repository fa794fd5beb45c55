package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"Mudcheck/internal/calc/treatment"
)

var ErrNotFound = errors.New("calibration not found")

// Repository stores named calibration profiles.
type Repository interface {
	List(ctx context.Context) ([]treatment.Calibration, error)
	Get(ctx context.Context, name string) (treatment.Calibration, error)
	Save(ctx context.Context, cal treatment.Calibration) error
}

// queries holds the dialect-specific statements of SQLRepository.
type queries struct {
	create string
	list   string
	get    string
	upsert string
}

var postgresQueries = queries{
	create: `CREATE TABLE IF NOT EXISTS calibrations (
		name TEXT PRIMARY KEY,
		payload JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	list: "SELECT payload FROM calibrations ORDER BY name",
	get:  "SELECT payload FROM calibrations WHERE name=$1",
	upsert: `INSERT INTO calibrations (name, payload, updated_at) VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
}

var sqliteQueries = queries{
	create: `CREATE TABLE IF NOT EXISTS calibrations (
		name TEXT PRIMARY KEY,
		payload TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	list: "SELECT payload FROM calibrations ORDER BY name",
	get:  "SELECT payload FROM calibrations WHERE name=?",
	upsert: `INSERT INTO calibrations (name, payload, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
}

// SQLRepository keeps calibrations as JSON payloads in one table.
type SQLRepository struct {
	db *sql.DB
	q  queries
}

func NewPostgresCalibrationDB(db *sql.DB) *SQLRepository {
	return &SQLRepository{db: db, q: postgresQueries}
}

func NewSQLiteCalibrationDB(db *sql.DB) *SQLRepository {
	return &SQLRepository{db: db, q: sqliteQueries}
}

// Migrate creates the calibrations table if needed.
func (r *SQLRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, r.q.create); err != nil {
		return fmt.Errorf("create calibrations table: %w", err)
	}
	return nil
}

func (r *SQLRepository) List(ctx context.Context) ([]treatment.Calibration, error) {
	rows, err := r.db.QueryContext(ctx, r.q.list)
	if err != nil {
		return nil, fmt.Errorf("list calibrations: %w", err)
	}
	defer rows.Close()

	var out []treatment.Calibration
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan calibration: %w", err)
		}
		var cal treatment.Calibration
		if err := json.Unmarshal(payload, &cal); err != nil {
			return nil, fmt.Errorf("decode calibration: %w", err)
		}
		out = append(out, cal)
	}
	return out, rows.Err()
}

func (r *SQLRepository) Get(ctx context.Context, name string) (treatment.Calibration, error) {
	var payload []byte
	err := r.db.QueryRowContext(ctx, r.q.get, name).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return treatment.Calibration{}, ErrNotFound
		}
		return treatment.Calibration{}, fmt.Errorf("get calibration %q: %w", name, err)
	}
	var cal treatment.Calibration
	if err := json.Unmarshal(payload, &cal); err != nil {
		return treatment.Calibration{}, fmt.Errorf("decode calibration %q: %w", name, err)
	}
	return cal, nil
}

func (r *SQLRepository) Save(ctx context.Context, cal treatment.Calibration) error {
	if err := cal.Validate(); err != nil {
		return err
	}
	payload, err := json.Marshal(cal)
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, r.q.upsert, cal.Name, string(payload), time.Now().UTC()); err != nil {
		return fmt.Errorf("save calibration %q: %w", cal.Name, err)
	}
	return nil
}
