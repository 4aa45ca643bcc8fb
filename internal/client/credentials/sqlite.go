package credentials

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/eventhub/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/eventhub/internal/dbx"
	"github.com/dmitrijs2005/eventhub/internal/logging"
)

// SQLiteStore persists tokens in the local client database's metadata table.
type SQLiteStore struct {
	db   *sql.DB
	repo metadata.Repository
	log  logging.Logger
}

var _ Store = (*SQLiteStore)(nil)

func NewSQLiteStore(db *sql.DB, log logging.Logger) *SQLiteStore {
	return &SQLiteStore{
		db:   db,
		repo: metadata.NewSQLiteRepository(db),
		log:  log.With("component", "credentials"),
	}
}

func (s *SQLiteStore) Get(ctx context.Context, kind Kind) (string, bool) {
	token, ok, err := s.repo.Get(ctx, string(kind))
	if err != nil {
		s.log.Warn(ctx, "credential storage unavailable, treating token as absent", "kind", string(kind), "error", err)
		return "", false
	}
	return token, ok && token != ""
}

func (s *SQLiteStore) Set(ctx context.Context, kind Kind, token string) error {
	if err := s.repo.Set(ctx, string(kind), token); err != nil {
		return fmt.Errorf("store %s: %w", kind, err)
	}
	return nil
}

func (s *SQLiteStore) SetPair(ctx context.Context, p Pair) error {
	return dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, string(Access), p.Access); err != nil {
			return err
		}
		return repo.Set(ctx, string(Refresh), p.Refresh)
	})
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	if err := s.repo.Delete(ctx, string(Access), string(Refresh)); err != nil {
		return fmt.Errorf("clear credentials: %w", err)
	}
	return nil
}
