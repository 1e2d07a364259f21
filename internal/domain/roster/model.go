// Package roster turns an opaque squad payload plus the championship player
// pool into the canonical player list the score engine consumes.
package roster

import (
	"strings"

	"github.com/onzecoach/onze-coach/internal/domain/player"
	"github.com/onzecoach/onze-coach/internal/platform/namematch"
)

// PoolEntry is one championship-pool record: the authoritative stats for a
// player, keyed by the provider's opaque id.
type PoolEntry struct {
	ID            string
	FirstName     string
	LastName      string
	Club          string
	PositionCode  string
	Quotation     float64
	SeasonAverage float64
	Matches       int
	Goals         int
	Assists       int
	YellowCards   int
	RedCards      int
	Suspended     bool

	// StartedPct is the share of matches started, in [0,1]; negative
	// means the pool does not carry the figure.
	StartedPct float64

	RecentMatches []player.RecentMatch
	Advanced      player.AdvancedStats
}

// Pool indexes the championship player pool for id and name lookups.
type Pool struct {
	byID   map[string]PoolEntry
	byName map[string]PoolEntry
}

// NewPool builds the lookup indexes. Later entries win on key collisions,
// matching provider feeds where corrections append.
func NewPool(entries []PoolEntry) *Pool {
	p := &Pool{
		byID:   make(map[string]PoolEntry, len(entries)),
		byName: make(map[string]PoolEntry, len(entries)),
	}
	for _, e := range entries {
		if e.ID != "" {
			p.byID[e.ID] = e
		}
		name := strings.TrimSpace(e.LastName + " " + e.FirstName)
		if key := namematch.NormalizeName(name); key != "" {
			p.byName[key] = e
		}
	}
	return p
}

// Size reports how many distinct ids the pool indexes.
func (p *Pool) Size() int {
	if p == nil {
		return 0
	}
	return len(p.byID)
}

// idPrefixes are the id conventions squad payloads have been seen to use.
// Lookup strips them one by one until the pool answers.
var idPrefixes = []string{
	"mpg_championship_player_",
	"mpg_player_",
	"player_",
}

// ByID resolves a squad id against the pool, retrying under each known
// prefixing convention in both directions.
func (p *Pool) ByID(id string) (PoolEntry, bool) {
	if p == nil || id == "" {
		return PoolEntry{}, false
	}
	if e, ok := p.byID[id]; ok {
		return e, true
	}
	for _, prefix := range idPrefixes {
		if trimmed := strings.TrimPrefix(id, prefix); trimmed != id {
			if e, ok := p.byID[trimmed]; ok {
				return e, true
			}
		}
		if e, ok := p.byID[prefix+id]; ok {
			return e, true
		}
	}
	// ids sometimes stack prefixes, e.g. championship over player
	bare := id
	for _, prefix := range idPrefixes {
		bare = strings.TrimPrefix(bare, prefix)
	}
	if bare != id {
		if e, ok := p.byID[bare]; ok {
			return e, true
		}
	}
	return PoolEntry{}, false
}

// ByName resolves a display name against the pool using the normalized
// name index.
func (p *Pool) ByName(name string) (PoolEntry, bool) {
	if p == nil {
		return PoolEntry{}, false
	}
	e, ok := p.byName[namematch.NormalizeName(name)]
	return e, ok
}
