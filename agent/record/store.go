// Package record is the Postgres-backed record store adapter. It owns no
// business logic; the field-merge decisions happen in the operation layer and
// arrive here as an InteractionFields patch. Every statement is
// parameter-bound; caller-supplied text never reaches query text directly.
package record

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	contractx "github.com/medrep/hcp-crm-agent/agent/contract"
)

type Config struct {
	DSN string `envconfig:"DSN" split_words:"true" required:"true"`
}

// Store implements contract.RecordStore on a bun Postgres connection.
type Store struct {
	db *bun.DB
}

var _ contractx.RecordStore = (*Store)(nil)

func NewStore(cfg Config) (*Store, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, errors.New("record store dsn is required")
	}
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return &Store{db: bun.NewDB(sqldb, pgdialect.New())}, nil
}

// NewStoreWithDB wires an existing bun handle; tests and embedders use this.
func NewStoreWithDB(db *bun.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) InsertInteraction(ctx context.Context, fields contractx.InteractionFields) (int64, error) {
	row := rowFromFields(fields)
	if _, err := s.db.NewInsert().
		Model(row).
		Returning("id").
		Exec(ctx); err != nil {
		return 0, fmt.Errorf("%w: insert interaction: %v", contractx.ErrStore, err)
	}
	return row.ID, nil
}

func (s *Store) UpdateInteraction(ctx context.Context, id int64, fields contractx.InteractionFields) error {
	changes := changedColumns(fields)
	if len(changes) == 0 {
		return nil
	}

	q := s.db.NewUpdate().
		Model((*interactionRow)(nil)).
		Where("id = ?", id)
	for _, c := range changes {
		q = q.Set("? = ?", bun.Ident(c.Column), c.Value)
	}

	res, err := q.Exec(ctx)
	if err != nil {
		return fmt.Errorf("%w: update interaction id=%d: %v", contractx.ErrStore, id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: update interaction id=%d: %v", contractx.ErrStore, id, err)
	}
	if affected == 0 {
		return contractx.ErrNotFound
	}
	return nil
}

func (s *Store) UpdateLatestInteraction(ctx context.Context, fields contractx.InteractionFields) (int64, error) {
	var last interactionRow
	err := s.db.NewSelect().
		Model(&last).
		Column("id").
		OrderExpr("id DESC").
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, contractx.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("%w: find latest interaction: %v", contractx.ErrStore, err)
	}

	if err := s.UpdateInteraction(ctx, last.ID, fields); err != nil {
		return 0, err
	}
	return last.ID, nil
}

func (s *Store) SearchDirectory(ctx context.Context, fragment string) ([]contractx.DirectoryEntry, error) {
	var rows []directoryRow
	err := s.db.NewSelect().
		Model(&rows).
		Where("name ILIKE ?", "%"+fragment+"%").
		Order("name ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: search directory: %v", contractx.ErrStore, err)
	}

	entries := make([]contractx.DirectoryEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, contractx.DirectoryEntry{
			Name:        r.Name,
			Specialty:   r.Specialty,
			Institution: r.Hospital,
		})
	}
	return entries, nil
}
