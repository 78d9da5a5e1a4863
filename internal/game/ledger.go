package game

import (
	"sort"

	"github.com/vakkila/spiritlens/internal/models"
)

// ledger is the deduplicated, ordered collection of discovered clues.
// Insertion is idempotent per clue key and first-write-wins: once a key has
// narrative text attached, later discoveries never overwrite it. Records are
// kept in ascending chapter order.
type ledger struct {
	records []models.Clue
	keys    map[string]bool
}

// insert appends the clue unless its key is already present. It reports
// whether the ledger changed.
func (l *ledger) insert(clue models.Clue) bool {
	if clue.Key == "" || l.keys[clue.Key] {
		return false
	}
	if l.keys == nil {
		l.keys = make(map[string]bool)
	}
	l.keys[clue.Key] = true
	l.records = append(l.records, clue)
	sort.SliceStable(l.records, func(i, j int) bool {
		return l.records[i].Chapter < l.records[j].Chapter
	})
	return true
}

// has reports whether a key already carries narrative text.
func (l *ledger) has(key string) bool {
	return l.keys[key]
}

// clues returns a copy of the records in chapter order.
func (l *ledger) clues() []models.Clue {
	return append([]models.Clue(nil), l.records...)
}

// reset drops every record, used on session reset and creation.
func (l *ledger) reset() {
	l.records = nil
	l.keys = nil
}
