// Package ledgerstore is an optional pgx-backed cache of provenance ledger
// snapshots. It is not consulted by the orchestrator — the in-memory
// ProvenanceLedger on the Asset aggregate remains authoritative for a
// single process — but it lets a read-side service persist and later
// reload ledger state across restarts without re-deriving it from chain
// data.
package ledgerstore

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/onirigin/originals-engine/internal/enginerr"
	"github.com/onirigin/originals-engine/internal/ledger"
	"github.com/onirigin/originals-engine/pkg/models"
)

// Store is a pgx connection pool wrapper persisting ledger snapshots keyed
// by an asset's primary identifier.
type Store struct {
	pool *pgxpool.Pool
}

// Connect opens a pool against connStr and verifies connectivity.
func Connect(ctx context.Context, connStr string) (*Store, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, enginerr.Wrap(enginerr.StorageError, "opening ledger store pool", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, enginerr.Wrap(enginerr.StorageError, "pinging ledger store", err)
	}
	log.Println("ledgerstore: connected")
	return &Store{pool: pool}, nil
}

// Close releases the underlying pool.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// InitSchema creates the snapshot table if it does not already exist.
func (s *Store) InitSchema(ctx context.Context) error {
	const ddl = `
		CREATE TABLE IF NOT EXISTS provenance_snapshots (
			primary_identifier TEXT PRIMARY KEY,
			creator TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			last_txid TEXT,
			migrations JSONB NOT NULL,
			transfers JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
	`
	if _, err := s.pool.Exec(ctx, ddl); err != nil {
		return enginerr.Wrap(enginerr.StorageError, "initializing ledger store schema", err)
	}
	return nil
}

// Save upserts a full snapshot of l under primaryIdentifier.
func (s *Store) Save(ctx context.Context, primaryIdentifier string, l *ledger.ProvenanceLedger) error {
	migrationsJSON, err := json.Marshal(l.Migrations)
	if err != nil {
		return enginerr.Wrap(enginerr.InvalidInput, "marshaling migrations", err)
	}
	transfersJSON, err := json.Marshal(l.Transfers)
	if err != nil {
		return enginerr.Wrap(enginerr.InvalidInput, "marshaling transfers", err)
	}

	const upsert = `
		INSERT INTO provenance_snapshots (primary_identifier, creator, created_at, last_txid, migrations, transfers, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		ON CONFLICT (primary_identifier) DO UPDATE
		SET creator = EXCLUDED.creator, last_txid = EXCLUDED.last_txid,
		    migrations = EXCLUDED.migrations, transfers = EXCLUDED.transfers, updated_at = now();
	`
	_, err = s.pool.Exec(ctx, upsert, primaryIdentifier, l.Creator, l.CreatedAt, l.LastTxid, migrationsJSON, transfersJSON)
	if err != nil {
		return enginerr.Wrap(enginerr.StorageError, "saving ledger snapshot", err)
	}
	return nil
}

// Load reconstructs a ProvenanceLedger from its most recently saved
// snapshot, or returns found=false if none exists.
func (s *Store) Load(ctx context.Context, primaryIdentifier string) (l *ledger.ProvenanceLedger, found bool, err error) {
	const query = `
		SELECT creator, created_at, last_txid, migrations, transfers
		FROM provenance_snapshots WHERE primary_identifier = $1;
	`
	row := s.pool.QueryRow(ctx, query, primaryIdentifier)

	var creator, lastTxid string
	var createdAt time.Time
	var migrationsJSON, transfersJSON []byte
	if err := row.Scan(&creator, &createdAt, &lastTxid, &migrationsJSON, &transfersJSON); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, enginerr.Wrap(enginerr.StorageError, "loading ledger snapshot", err)
	}

	restored := ledger.New(creator, createdAt)
	var migrations []models.MigrationEntry
	if err := json.Unmarshal(migrationsJSON, &migrations); err != nil {
		return nil, false, enginerr.Wrap(enginerr.StorageError, "decoding migrations", err)
	}
	var transfers []models.TransferEntry
	if err := json.Unmarshal(transfersJSON, &transfers); err != nil {
		return nil, false, enginerr.Wrap(enginerr.StorageError, "decoding transfers", err)
	}
	for _, m := range migrations {
		if err := restored.AppendMigration(m); err != nil {
			return nil, false, err
		}
	}
	for _, tr := range transfers {
		if err := restored.AppendTransfer(tr); err != nil {
			return nil, false, err
		}
	}
	return restored, true, nil
}
