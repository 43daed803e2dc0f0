package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"roundness-meter/internal/domain/entity"
	"roundness-meter/internal/domain/port"
)

const measurementSchema = `
CREATE TABLE IF NOT EXISTS measurements (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	image TEXT NOT NULL,
	shape_index INTEGER NOT NULL,
	method TEXT NOT NULL,
	center_x REAL NOT NULL,
	center_y REAL NOT NULL,
	inner_radius REAL NOT NULL,
	outer_radius REAL NOT NULL,
	roundness REAL NOT NULL,
	converged INTEGER NOT NULL,
	created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_measurements_image ON measurements(image);
`

// SQLiteMeasurementRepository хранит историю измерений в SQLite
type SQLiteMeasurementRepository struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLiteMeasurementRepository открывает или создаёт базу по пути dbPath
func OpenSQLiteMeasurementRepository(dbPath string) (*SQLiteMeasurementRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?mode=rwc")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// SQLite допускает только одного писателя
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.ExecContext(context.Background(), measurementSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return &SQLiteMeasurementRepository{db: db, now: time.Now}, nil
}

// Close закрывает соединение с базой
func (r *SQLiteMeasurementRepository) Close() error {
	return r.db.Close()
}

// Save сохраняет все измерения изображения в одной транзакции
func (r *SQLiteMeasurementRepository) Save(ctx context.Context, image string, report *entity.ImageReport) error {
	if !report.HasShapes() {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO measurements
			(image, shape_index, method, center_x, center_y, inner_radius, outer_radius, roundness, converged, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	createdAt := r.now().UTC()
	for _, s := range report.Shapes {
		res := s.Result
		if _, err := stmt.ExecContext(ctx,
			image, s.Index, string(res.Method),
			res.Center().X, res.Center().Y,
			res.Inner.Radius, res.Outer.Radius, res.Roundness,
			res.Converged, createdAt,
		); err != nil {
			return fmt.Errorf("insert measurement %d: %w", s.Index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit measurements: %w", err)
	}
	return nil
}

// ListByImage возвращает измерения изображения, новые первыми
func (r *SQLiteMeasurementRepository) ListByImage(ctx context.Context, image string) ([]entity.StoredMeasurement, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, image, shape_index, method, center_x, center_y, inner_radius, outer_radius, roundness, converged, created_at
		FROM measurements
		WHERE image = ?
		ORDER BY created_at DESC, id DESC`, image)
	if err != nil {
		return nil, fmt.Errorf("query measurements: %w", err)
	}
	defer rows.Close()

	var out []entity.StoredMeasurement
	for rows.Next() {
		var (
			m       entity.StoredMeasurement
			method  string
			cx, cy  float64
			inner   float64
			outer   float64
			created time.Time
		)
		if err := rows.Scan(&m.ID, &m.Image, &m.ShapeIndex, &method, &cx, &cy, &inner, &outer,
			&m.Result.Roundness, &m.Result.Converged, &created); err != nil {
			return nil, fmt.Errorf("scan measurement: %w", err)
		}
		center := entity.Point2D{X: cx, Y: cy}
		m.Result.Method = entity.Method(method)
		m.Result.Inner = entity.Circle{Center: center, Radius: inner}
		m.Result.Outer = entity.Circle{Center: center, Radius: outer}
		m.CreatedAt = created
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate measurements: %w", err)
	}
	return out, nil
}

// Проверка реализации интерфейса
var _ port.MeasurementRepository = (*SQLiteMeasurementRepository)(nil)
