// Package matchcontext derives per-player schedule context from standings,
// fixtures, match results and transfer feeds. Every enricher is optional:
// a missing source narrows the context instead of failing it.
package matchcontext

import "time"

// Opponent describes the next fixture from one club's point of view.
type Opponent struct {
	Name       string
	Rank       int // 1 = league leader
	TotalTeams int
	Home       bool
	HomeKnown  bool

	// Season goal totals of the opponent, with the league averages needed
	// to judge them. Zero LeagueAvg* means "unknown".
	GoalsFor         int
	GoalsAgainst     int
	LeagueAvgFor     float64
	LeagueAvgAgainst float64
}

// TeamForm is a club's record over its last five completed matches.
type TeamForm struct {
	Wins         int
	Draws        int
	Losses       int
	GoalsFor     int
	GoalsAgainst int
}

// RecentForm is a player's minutes-weighted, opponent-adjusted form signal.
type RecentForm struct {
	Score   float64
	Samples int
	// Weighted is false when round-level opponent data was unavailable and
	// the score fell back to a flat average.
	Weighted bool
}

// Context is everything the score engine may know about a player's next
// match. Nil members mean the corresponding source produced nothing.
type Context struct {
	Opponent   *Opponent
	TeamForm   *TeamForm
	RecentForm *RecentForm

	RecentlyTransferred bool

	// RecentMatchLoad counts matches with nonzero minutes inside the
	// fatigue window preceding now.
	RecentMatchLoad int

	// ElapsedMatchdays is how many rounds the championship has played,
	// used by the regularity term. Zero means unknown.
	ElapsedMatchdays int

	// NextMatchAt anchors return-date adjustments. Zero means unknown.
	NextMatchAt time.Time
}

// Table is a club-name-normalized snapshot of the league standings.
type Table struct {
	RankByClub         map[string]int
	GoalsForByClub     map[string]int
	GoalsAgainstByClub map[string]int
	TotalTeams         int
}

// NextFixtures maps each normalized club name to its next unplayed fixture.
type NextFixtures struct {
	OpponentByClub map[string]string
	HomeByClub     map[string]bool
}

// MatchResult is one completed match from the results feed.
type MatchResult struct {
	HomeTeam  string
	AwayTeam  string
	HomeGoals int
	AwayGoals int
	PlayedAt  time.Time
}

// Transfer is one entry of the transfer-recency feed.
type Transfer struct {
	PlayerName string
	Date       time.Time
}

// LineupRecord is one match's starting elevens, used by rotation-pair
// detection.
type LineupRecord struct {
	HomeTeam     string
	AwayTeam     string
	HomeStarters []string
	AwayStarters []string
}

// TransferRecencyWindow is how long a club change keeps depressing a
// player's short-term integration.
const TransferRecencyWindow = 21 * 24 * time.Hour

// FatigueWindow bounds the recent-load count.
const FatigueWindow = 15 * 24 * time.Hour
