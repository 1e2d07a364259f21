package usecase

import (
	"context"
	"time"

	"github.com/onzecoach/onze-coach/internal/domain/availability"
	"github.com/onzecoach/onze-coach/internal/domain/matchcontext"
	"github.com/onzecoach/onze-coach/internal/domain/roster"
)

// Schedule is the championship calendar joined from standings and fixtures:
// everything club- or round-keyed that context enrichment needs. Club keys
// are normalized names.
type Schedule struct {
	Table    matchcontext.Table
	Fixtures matchcontext.NextFixtures

	// NextMatchAt maps a club to its next kickoff.
	NextMatchAt map[string]time.Time

	// OpponentRankByClubRound maps club → round → the opponent's table
	// rank at that round, feeding the recent-form coefficients.
	OpponentRankByClubRound map[string]map[int]int

	// RoundDates maps round numbers to their (first) match date, feeding
	// the fatigue window.
	RoundDates map[int]time.Time

	ElapsedMatchdays int
}

// SquadSource fetches the raw squad payload for one squad id. This is the
// only source whose failure aborts a recommendation.
type SquadSource interface {
	Squad(ctx context.Context, squadID string) (map[string]any, error)
}

// PoolSource fetches the championship player pool.
type PoolSource interface {
	Pool(ctx context.Context, championship string) ([]roster.PoolEntry, error)
}

// InjurySource fetches out/doubtful signals, with club context where the
// upstream provides it.
type InjurySource interface {
	InjurySignals(ctx context.Context, championship string) (availability.Signals, error)
}

// NewsSource fetches the news-derived absence explanations, keyed by
// normalized player name.
type NewsSource interface {
	AbsenceExplained(ctx context.Context, championship string) (map[string]time.Time, error)
}

// ScheduleSource fetches the standings+fixtures join.
type ScheduleSource interface {
	Schedule(ctx context.Context, championship string) (Schedule, error)
}

// ResultsSource fetches recent completed matches for team-form reduction.
type ResultsSource interface {
	Results(ctx context.Context, championship string) ([]matchcontext.MatchResult, error)
}

// TransferSource fetches recent club changes.
type TransferSource interface {
	Transfers(ctx context.Context, championship string) ([]matchcontext.Transfer, error)
}

// LineupSource fetches starting-eleven history for rotation-pair hints.
type LineupSource interface {
	Lineups(ctx context.Context, championship string) ([]matchcontext.LineupRecord, error)
}

// Sources bundles every upstream provider. Squad is required; every other
// member may be nil, which reads as "source disabled" and degrades
// enrichment the same way a fetch failure does.
type Sources struct {
	Squad     SquadSource
	Pool      PoolSource
	Injuries  InjurySource
	News      NewsSource
	Schedule  ScheduleSource
	Results   ResultsSource
	Transfers TransferSource
	Lineups   LineupSource
}

// feeds is one recommendation's gathered upstream state. Fields left at
// their zero value mean the source was disabled or failed.
type feeds struct {
	pool      []roster.PoolEntry
	signals   availability.Signals
	schedule  Schedule
	results   []matchcontext.MatchResult
	transfers []matchcontext.Transfer
	lineups   []matchcontext.LineupRecord
}
