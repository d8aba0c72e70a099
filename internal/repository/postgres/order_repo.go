package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"poscan/internal/domain"
	"poscan/internal/port"
)

type orderRepo struct {
	db *sqlx.DB
}

// NewOrderRepo creates a new PostgreSQL-backed OrderRepository. The
// validated core lives in a jsonb column; server-owned metadata lives in
// dedicated columns.
func NewOrderRepo(db *sqlx.DB) port.OrderRepository {
	return &orderRepo{db: db}
}

type orderRow struct {
	ID             uuid.UUID    `db:"id"`
	Data           []byte       `db:"data"`
	SourceFileName string       `db:"source_file_name"`
	RawText        string       `db:"raw_text"`
	CreatedAt      time.Time    `db:"created_at"`
	UpdatedAt      sql.NullTime `db:"updated_at"`
}

func (row *orderRow) toRecord() (*domain.PurchaseOrderRecord, error) {
	rec := &domain.PurchaseOrderRecord{
		ID:             row.ID.String(),
		SourceFileName: row.SourceFileName,
		RawText:        row.RawText,
		CreatedAt:      row.CreatedAt,
	}
	if row.UpdatedAt.Valid {
		updatedAt := row.UpdatedAt.Time
		rec.UpdatedAt = &updatedAt
	}
	if err := json.Unmarshal(row.Data, &rec.PurchaseOrderCore); err != nil {
		return nil, fmt.Errorf("unmarshaling stored order %s: %w", row.ID, err)
	}
	return rec, nil
}

func (r *orderRepo) Insert(ctx context.Context, rec *domain.PurchaseOrderRecord) error {
	data, err := json.Marshal(rec.PurchaseOrderCore)
	if err != nil {
		return fmt.Errorf("orderRepo.Insert marshal: %w", err)
	}

	id := uuid.New()
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO purchase_orders (id, data, source_file_name, raw_text, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		id, data, rec.SourceFileName, rec.RawText, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("orderRepo.Insert: %w", err)
	}
	rec.ID = id.String()
	return nil
}

func (r *orderRepo) FindByID(ctx context.Context, id string) (*domain.PurchaseOrderRecord, error) {
	query := `SELECT id, data, source_file_name, raw_text, created_at, updated_at
		FROM purchase_orders WHERE ` + idPredicate(id)

	var row orderRow
	err := r.db.GetContext(ctx, &row, query, idArgument(id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("orderRepo.FindByID: %w", err)
	}
	return row.toRecord()
}

func (r *orderRepo) ListRecent(ctx context.Context, limit int) ([]domain.PurchaseOrderRecord, error) {
	var rows []orderRow
	err := r.db.SelectContext(ctx, &rows,
		`SELECT id, data, source_file_name, raw_text, created_at, updated_at
		 FROM purchase_orders ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("orderRepo.ListRecent: %w", err)
	}

	records := make([]domain.PurchaseOrderRecord, 0, len(rows))
	for i := range rows {
		rec, err := rows[i].toRecord()
		if err != nil {
			return nil, fmt.Errorf("orderRepo.ListRecent: %w", err)
		}
		records = append(records, *rec)
	}
	return records, nil
}

func (r *orderRepo) FindAndUpdate(ctx context.Context, id string, update *domain.OrderUpdate) (*domain.PurchaseOrderRecord, error) {
	data, err := json.Marshal(update.Core)
	if err != nil {
		return nil, fmt.Errorf("orderRepo.FindAndUpdate marshal: %w", err)
	}

	// Single-statement read-modify-write; the RETURNING row is the updated
	// document, so there is no find-then-update race.
	query := `UPDATE purchase_orders
		SET data = $2,
		    updated_at = $3,
		    raw_text = COALESCE($4::text, raw_text),
		    source_file_name = COALESCE($5::text, source_file_name)
		WHERE ` + idPredicate(id) + `
		RETURNING id, data, source_file_name, raw_text, created_at, updated_at`

	var row orderRow
	err = r.db.GetContext(ctx, &row, query,
		idArgument(id), data, update.UpdatedAt, update.RawText, update.SourceFileName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("orderRepo.FindAndUpdate: %w", err)
	}
	return row.toRecord()
}

// idPredicate matches natively when the identifier parses as a UUID and
// falls back to an exact text comparison otherwise, keeping the
// plain-string identifier contract even though ids are UUIDs here.
func idPredicate(id string) string {
	if _, err := uuid.Parse(strings.TrimSpace(id)); err == nil {
		return "id = $1"
	}
	return "id::text = $1"
}

func idArgument(id string) any {
	trimmed := strings.TrimSpace(id)
	if parsed, err := uuid.Parse(trimmed); err == nil {
		return parsed
	}
	return trimmed
}
