// Package player defines the canonical player record every data source is
// normalized into before scoring.
package player

import (
	"strings"

	"github.com/onzecoach/onze-coach/internal/platform/namematch"
)

// Position represents the four canonical football positions.
type Position string

const (
	PositionGoalkeeper Position = "GK"
	PositionDefender   Position = "DEF"
	PositionMidfielder Position = "MID"
	PositionAttacker   Position = "ATT"
)

var AllPositions = map[Position]struct{}{
	PositionGoalkeeper: {},
	PositionDefender:   {},
	PositionMidfielder: {},
	PositionAttacker:   {},
}

// ParsePosition maps the many source-specific spellings and abbreviations
// onto one canonical position. Unknown strings resolve to midfielder, which
// is the least damaging default for scoring.
func ParsePosition(raw string) Position {
	p := strings.ToUpper(strings.TrimSpace(raw))
	switch p {
	case "G", "GK", "GARDIEN", "GOALKEEPER", "GOALKEEPERS", "KEEPER":
		return PositionGoalkeeper
	case "D", "DEF", "DC", "DL", "DD", "DG", "DEFENSEUR", "DEFENDER", "DEFENDERS":
		return PositionDefender
	case "M", "MID", "MC", "MD", "MG", "MO", "MILIEU", "MIDFIELDER", "MIDFIELDERS":
		return PositionMidfielder
	case "A", "AT", "ATT", "AC", "AD", "AG", "FW", "FWD", "ATTAQUANT", "ATTACKER", "ATTACKERS", "FORWARD", "STRIKER":
		return PositionAttacker
	}

	// Compound codes like "DEF-C" or "MIL" still carry a usable prefix.
	switch {
	case strings.HasPrefix(p, "G"):
		return PositionGoalkeeper
	case strings.HasPrefix(p, "D"):
		return PositionDefender
	case strings.HasPrefix(p, "A"), strings.HasPrefix(p, "F"), strings.HasPrefix(p, "S"):
		return PositionAttacker
	default:
		return PositionMidfielder
	}
}

// RecentMatch is one entry of a player's last-5 match history, most recent
// first.
type RecentMatch struct {
	Rating   float64
	Minutes  int
	Matchday int
}

// AdvancedStats carries the per-position extras only some sources provide.
type AdvancedStats struct {
	ExpectedGoals float64
	Tackles       int
	Interceptions int
	CleanSheets   int
	PassAccuracy  float64 // 0..1
	HasDefensive  bool
	HasPassing    bool
}

// Player is the canonical record produced by the roster normalizer.
type Player struct {
	ID        string
	FirstName string
	LastName  string
	Club      string
	Position  Position

	Quotation     float64
	SeasonAverage float64
	Matches       int
	Goals         int
	Assists       int
	YellowCards   int
	RedCards      int
	Suspended     bool

	// StartShare is the fraction of the player's matches started rather
	// than entered from the bench, in [0,1]. Negative means unknown.
	StartShare float64

	RecentMatches []RecentMatch
	Advanced      AdvancedStats
}

// Name assembles the display name from the name parts, tolerating either
// part being absent.
func (p Player) Name() string {
	name := strings.TrimSpace(strings.TrimSpace(p.LastName) + " " + strings.TrimSpace(p.FirstName))
	if name != "" {
		return name
	}
	return p.ID
}

// IdentityKey is the dedup key used by the normalizer: the opaque id when
// present, otherwise a (position, normalized name) composite.
func (p Player) IdentityKey() string {
	if id := strings.TrimSpace(p.ID); id != "" {
		return id
	}
	return string(p.Position) + "::" + namematch.NormalizeName(p.Name())
}
