package ledger

import (
	"time"

	"github.com/onirigin/originals-engine/pkg/models"
)

// snapshot is the ledger state captured the moment a query was built;
// later appends to the live ledger never affect an already-built query.
type snapshot struct {
	migrations []models.MigrationEntry
	transfers  []models.TransferEntry
}

// MigrationEntry and TransferEntry alias the model types so this package's
// query surface reads naturally without every caller also spelling out
// pkg/models.
type MigrationEntry = models.MigrationEntry
type TransferEntry = models.TransferEntry

type dateRange struct {
	after  *time.Time
	before *time.Time
}

// matches implements after(t) as ts >= t, before(t) as ts < t, so that
// between(lo, hi) composes to the closed-open range [lo, hi) — the
// conventional range shape and unambiguous at the boundary.
func (d dateRange) matches(ts time.Time) bool {
	if d.after != nil && ts.Before(*d.after) {
		return false
	}
	if d.before != nil && !ts.Before(*d.before) {
		return false
	}
	return true
}

func cloneDate(d dateRange) dateRange {
	return dateRange{after: d.after, before: d.before}
}

// Query is the entry point: a snapshot with no cursor selected yet.
type Query struct {
	snap snapshot
	date dateRange
}

// NewQuery snapshots the ledger's two sequences as they currently stand.
func NewQuery(l *ProvenanceLedger) *Query {
	return &Query{snap: snapshot{
		migrations: append([]MigrationEntry(nil), l.Migrations...),
		transfers:  append([]TransferEntry(nil), l.Transfers...),
	}}
}

// After restricts to entries with timestamp >= t.
func (q *Query) After(t time.Time) *Query {
	q2 := *q
	q2.date.after = &t
	return &q2
}

// Before restricts to entries with timestamp < t.
func (q *Query) Before(t time.Time) *Query {
	q2 := *q
	q2.date.before = &t
	return &q2
}

// Between restricts to entries with lo <= timestamp < hi.
func (q *Query) Between(lo, hi time.Time) *Query {
	return q.After(lo).Before(hi)
}

// Migrations switches to the migrations cursor.
func (q *Query) Migrations() *MigrationQuery {
	return &MigrationQuery{snap: q.snap, date: cloneDate(q.date)}
}

// Transfers switches to the transfers cursor.
func (q *Query) Transfers() *TransferQuery {
	return &TransferQuery{snap: q.snap, date: cloneDate(q.date)}
}

// MigrationQuery is a lazy, composable filter set over migration entries.
type MigrationQuery struct {
	snap    snapshot
	date    dateRange
	filters []func(MigrationEntry) bool
}

func (q *MigrationQuery) withFilter(f func(MigrationEntry) bool) *MigrationQuery {
	q2 := *q
	q2.filters = append(append([]func(MigrationEntry) bool(nil), q.filters...), f)
	return &q2
}

func (q *MigrationQuery) FromLayer(layer string) *MigrationQuery {
	return q.withFilter(func(e MigrationEntry) bool { return e.FromLayer == layer })
}

func (q *MigrationQuery) ToLayer(layer string) *MigrationQuery {
	return q.withFilter(func(e MigrationEntry) bool { return e.ToLayer == layer })
}

func (q *MigrationQuery) WithTransaction(id string) *MigrationQuery {
	return q.withFilter(func(e MigrationEntry) bool { return e.TransactionID == id })
}

func (q *MigrationQuery) WithInscription(id string) *MigrationQuery {
	return q.withFilter(func(e MigrationEntry) bool { return e.InscriptionID == id })
}

func (q *MigrationQuery) After(t time.Time) *MigrationQuery {
	q2 := *q
	q2.date.after = &t
	return &q2
}

func (q *MigrationQuery) Before(t time.Time) *MigrationQuery {
	q2 := *q
	q2.date.before = &t
	return &q2
}

func (q *MigrationQuery) Between(lo, hi time.Time) *MigrationQuery {
	return q.After(lo).Before(hi)
}

// ToTransfers switches cursor, preserving the date range and dropping the
// migration-specific filters accumulated so far.
func (q *MigrationQuery) ToTransfers() *TransferQuery {
	return &TransferQuery{snap: q.snap, date: cloneDate(q.date)}
}

func (q *MigrationQuery) All() []MigrationEntry {
	out := make([]MigrationEntry, 0, len(q.snap.migrations))
	for _, e := range q.snap.migrations {
		if !q.date.matches(e.Timestamp) {
			continue
		}
		ok := true
		for _, f := range q.filters {
			if !f(e) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, e)
		}
	}
	return out
}

func (q *MigrationQuery) First() (MigrationEntry, bool) {
	all := q.All()
	if len(all) == 0 {
		return MigrationEntry{}, false
	}
	return all[0], true
}

func (q *MigrationQuery) Last() (MigrationEntry, bool) {
	all := q.All()
	if len(all) == 0 {
		return MigrationEntry{}, false
	}
	return all[len(all)-1], true
}

func (q *MigrationQuery) Count() int {
	return len(q.All())
}

// TransferQuery is a lazy, composable filter set over transfer entries.
type TransferQuery struct {
	snap    snapshot
	date    dateRange
	filters []func(TransferEntry) bool
}

func (q *TransferQuery) withFilter(f func(TransferEntry) bool) *TransferQuery {
	q2 := *q
	q2.filters = append(append([]func(TransferEntry) bool(nil), q.filters...), f)
	return &q2
}

func (q *TransferQuery) From(addr string) *TransferQuery {
	return q.withFilter(func(e TransferEntry) bool { return e.FromAddress == addr })
}

func (q *TransferQuery) To(addr string) *TransferQuery {
	return q.withFilter(func(e TransferEntry) bool { return e.ToAddress == addr })
}

func (q *TransferQuery) WithTransaction(id string) *TransferQuery {
	return q.withFilter(func(e TransferEntry) bool { return e.TransactionID == id })
}

func (q *TransferQuery) After(t time.Time) *TransferQuery {
	q2 := *q
	q2.date.after = &t
	return &q2
}

func (q *TransferQuery) Before(t time.Time) *TransferQuery {
	q2 := *q
	q2.date.before = &t
	return &q2
}

func (q *TransferQuery) Between(lo, hi time.Time) *TransferQuery {
	return q.After(lo).Before(hi)
}

// ToMigrations switches cursor, preserving the date range and dropping the
// transfer-specific filters accumulated so far.
func (q *TransferQuery) ToMigrations() *MigrationQuery {
	return &MigrationQuery{snap: q.snap, date: cloneDate(q.date)}
}

func (q *TransferQuery) All() []TransferEntry {
	out := make([]TransferEntry, 0, len(q.snap.transfers))
	for _, e := range q.snap.transfers {
		if !q.date.matches(e.Timestamp) {
			continue
		}
		ok := true
		for _, f := range q.filters {
			if !f(e) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, e)
		}
	}
	return out
}

func (q *TransferQuery) First() (TransferEntry, bool) {
	all := q.All()
	if len(all) == 0 {
		return TransferEntry{}, false
	}
	return all[0], true
}

func (q *TransferQuery) Last() (TransferEntry, bool) {
	all := q.All()
	if len(all) == 0 {
		return TransferEntry{}, false
	}
	return all[len(all)-1], true
}

func (q *TransferQuery) Count() int {
	return len(q.All())
}
