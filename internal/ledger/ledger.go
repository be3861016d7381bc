// Package ledger implements the append-only provenance ledger and its
// lazy, composable query surface from spec §4.2.
package ledger

import (
	"time"

	"github.com/onirigin/originals-engine/internal/enginerr"
	"github.com/onirigin/originals-engine/pkg/models"
)

// ProvenanceLedger is an ordered pair of sequences (migrations, transfers)
// plus creator metadata and a last-seen transaction id cache.
type ProvenanceLedger struct {
	Creator       string
	CreatedAt     time.Time
	Migrations    []models.MigrationEntry
	Transfers     []models.TransferEntry
	LastTxid      string
	lastTimestamp time.Time
	haveTimestamp bool
}

// New constructs an empty ledger stamped with the asset's creator identifier
// and creation time.
func New(creator string, createdAt time.Time) *ProvenanceLedger {
	return &ProvenanceLedger{Creator: creator, CreatedAt: createdAt}
}

func (l *ProvenanceLedger) checkMonotonic(ts time.Time) error {
	if l.haveTimestamp && ts.Before(l.lastTimestamp) {
		return enginerr.Newf(enginerr.InvalidInput,
			"provenance entry timestamp %s precedes last recorded timestamp %s", ts, l.lastTimestamp)
	}
	return nil
}

// AppendMigration appends a migration entry. Sets LastTxid when the entry
// carries a transaction id.
func (l *ProvenanceLedger) AppendMigration(e models.MigrationEntry) error {
	if err := l.checkMonotonic(e.Timestamp); err != nil {
		return err
	}
	l.Migrations = append(l.Migrations, e)
	l.lastTimestamp, l.haveTimestamp = e.Timestamp, true
	if e.TransactionID != "" {
		l.LastTxid = e.TransactionID
	}
	return nil
}

// AppendTransfer appends a transfer entry. Sets LastTxid when the entry
// carries a transaction id.
func (l *ProvenanceLedger) AppendTransfer(e models.TransferEntry) error {
	if err := l.checkMonotonic(e.Timestamp); err != nil {
		return err
	}
	l.Transfers = append(l.Transfers, e)
	l.lastTimestamp, l.haveTimestamp = e.Timestamp, true
	if e.TransactionID != "" {
		l.LastTxid = e.TransactionID
	}
	return nil
}
