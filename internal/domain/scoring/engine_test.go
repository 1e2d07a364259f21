package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onzecoach/onze-coach/internal/domain/availability"
	"github.com/onzecoach/onze-coach/internal/domain/matchcontext"
	"github.com/onzecoach/onze-coach/internal/domain/player"
)

func solidMidfielder() player.Player {
	return player.Player{
		ID: "10", LastName: "Rabiot", Club: "Marseille",
		Position: player.PositionMidfielder,
		Quotation: 24, SeasonAverage: 6.2, Matches: 18,
		Goals: 3, Assists: 5, StartShare: 0.9,
		RecentMatches: []player.RecentMatch{
			{Rating: 7, Minutes: 90, Matchday: 18},
			{Rating: 6, Minutes: 90, Matchday: 17},
			{Rating: 6.5, Minutes: 77, Matchday: 16},
			{Rating: 5, Minutes: 90, Matchday: 15},
			{Rating: 6, Minutes: 60, Matchday: 14},
		},
	}
}

func available() availability.Resolution {
	return availability.Resolution{Status: availability.StatusAvailable}
}

func richContext() matchcontext.Context {
	return matchcontext.Context{
		Opponent: &matchcontext.Opponent{
			Name: "Nantes", Rank: 16, TotalTeams: 18,
			Home: true, HomeKnown: true,
			GoalsFor: 12, GoalsAgainst: 30,
			LeagueAvgFor: 22, LeagueAvgAgainst: 22,
		},
		TeamForm:         &matchcontext.TeamForm{Wins: 4, Draws: 1},
		RecentForm:       &matchcontext.RecentForm{Score: 6.4, Samples: 5, Weighted: true},
		ElapsedMatchdays: 19,
		NextMatchAt:      time.Date(2026, 2, 14, 20, 0, 0, 0, time.UTC),
	}
}

func TestScore_Deterministic(t *testing.T) {
	p, res, ctx, cfg := solidMidfielder(), available(), richContext(), DefaultConfig()
	first := Score(p, res, ctx, cfg)
	for i := 0; i < 10; i++ {
		require.Equal(t, first, Score(p, res, ctx, cfg))
	}
}

func TestScore_Bounded(t *testing.T) {
	cfg := DefaultConfig()
	players := []player.Player{
		solidMidfielder(),
		{}, // zero-value player
		{Position: player.PositionAttacker, Quotation: 80, SeasonAverage: 9.9,
			Matches: 30, Goals: 40, Assists: 20, StartShare: 1},
		{Position: player.PositionGoalkeeper, Matches: 1, SeasonAverage: 0.5},
	}
	contexts := []matchcontext.Context{{}, richContext()}
	for _, p := range players {
		for _, ctx := range contexts {
			got := Score(p, available(), ctx, cfg)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 10.0)
		}
	}
}

func TestScore_HardZeroForOutAndSuspended(t *testing.T) {
	cfg := DefaultConfig()
	p := solidMidfielder()
	p.SeasonAverage, p.Quotation = 8.0, 50

	for _, status := range []availability.Status{availability.StatusOut, availability.StatusSuspended} {
		res := availability.Resolution{Status: status}
		assert.Zero(t, Score(p, res, richContext(), cfg), "status %s", status)
	}
}

func TestScore_StarModeTrigger(t *testing.T) {
	cfg := DefaultConfig()
	star := player.Player{
		ID: "7", LastName: "Doué", Position: player.PositionAttacker,
		Quotation: 40, Matches: 2, SeasonAverage: 6.5, StartShare: -1,
	}
	explained := availability.Resolution{
		Status:           availability.StatusAbsenceExplained,
		AbsenceExplained: true,
	}

	got := Score(star, explained, matchcontext.Context{}, cfg)

	// quotation-led blend: (0.5*8 + 0.3*6.5 + 0.2*0.5*10 + 0.5) * 0.85
	want := (0.5*8 + 0.3*6.5 + 0.2*0.5*10 + 0.5) * 0.85
	require.InDelta(t, want, got, 0.01)

	// standard mode would have dampened the 2-match sample hard
	unexplained := availability.Resolution{Status: availability.StatusAvailable}
	standard := Score(star, unexplained, matchcontext.Context{}, cfg)
	assert.Greater(t, got, standard)
}

func TestScore_StarModeNeedsExplainedAbsence(t *testing.T) {
	cfg := DefaultConfig()
	p := player.Player{
		Position: player.PositionAttacker, Quotation: 40, Matches: 2,
		SeasonAverage: 6.5, StartShare: -1,
	}
	// same thin sample without the explanation: thin-sample dampener bites
	got := Score(p, available(), matchcontext.Context{}, cfg)
	assert.Less(t, got, 4.0)
}

func TestScore_DoubtfulReducesScore(t *testing.T) {
	cfg := DefaultConfig()
	p, ctx := solidMidfielder(), richContext()

	full := Score(p, available(), ctx, cfg)
	doubtful := Score(p, availability.Resolution{Status: availability.StatusDoubtful}, ctx, cfg)
	assert.Less(t, doubtful, full)
}

func TestScore_ReturnAfterNextMatchZeroesMultiplier(t *testing.T) {
	cfg := DefaultConfig()
	ctx := richContext()
	after := ctx.NextMatchAt.AddDate(0, 0, 3)
	res := availability.Resolution{
		Status:         availability.StatusDoubtful,
		ExpectedReturn: &after,
	}
	assert.Zero(t, Score(solidMidfielder(), res, ctx, cfg))
}

func TestScore_ReturnJustBeforeMatchDiscounts(t *testing.T) {
	cfg := DefaultConfig()
	ctx := richContext()
	dayBefore := ctx.NextMatchAt.Add(-24 * time.Hour)
	res := availability.Resolution{
		Status:         availability.StatusDoubtful,
		ExpectedReturn: &dayBefore,
	}
	discounted := Score(solidMidfielder(), res, ctx, cfg)
	plain := Score(solidMidfielder(), availability.Resolution{Status: availability.StatusDoubtful}, ctx, cfg)
	assert.Less(t, discounted, plain)
	assert.Greater(t, discounted, 0.0)
}

func TestScore_MultiplierDirections(t *testing.T) {
	cfg := DefaultConfig()
	p := solidMidfielder()
	base := matchcontext.Context{ElapsedMatchdays: 19}
	baseline := Score(p, available(), base, cfg)

	tests := []struct {
		name   string
		mutate func(*matchcontext.Context)
		higher bool
	}{
		{"top-3 opponent", func(c *matchcontext.Context) {
			c.Opponent = &matchcontext.Opponent{Name: "PSG", Rank: 1, TotalTeams: 18}
		}, false},
		{"bottom-2 opponent", func(c *matchcontext.Context) {
			c.Opponent = &matchcontext.Opponent{Name: "Metz", Rank: 18, TotalTeams: 18}
		}, true},
		{"heavy fixture load", func(c *matchcontext.Context) {
			c.RecentMatchLoad = 5
		}, false},
		{"cold team", func(c *matchcontext.Context) {
			c.TeamForm = &matchcontext.TeamForm{Wins: 0, Draws: 2, Losses: 3}
		}, false},
		{"hot team", func(c *matchcontext.Context) {
			c.TeamForm = &matchcontext.TeamForm{Wins: 5}
		}, true},
		{"fresh transfer", func(c *matchcontext.Context) {
			c.RecentlyTransferred = true
		}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctx := base
			tc.mutate(&ctx)
			got := Score(p, available(), ctx, cfg)
			if tc.higher {
				assert.Greater(t, got, baseline)
			} else {
				assert.Less(t, got, baseline)
			}
		})
	}
}

func TestScore_CardDiscipline(t *testing.T) {
	cfg := DefaultConfig()
	ctx := matchcontext.Context{ElapsedMatchdays: 19}
	clean := Score(solidMidfielder(), available(), ctx, cfg)

	red := solidMidfielder()
	red.RedCards = 1
	withRed := Score(red, available(), ctx, cfg)
	assert.InDelta(t, clean*0.7, withRed, 0.011)

	yellows := solidMidfielder()
	yellows.YellowCards = 4
	withYellows := Score(yellows, available(), ctx, cfg)
	assert.InDelta(t, clean*0.95, withYellows, 0.011)

	// red takes precedence over accumulated yellows
	both := solidMidfielder()
	both.RedCards, both.YellowCards = 1, 4
	assert.Equal(t, withRed, Score(both, available(), ctx, cfg))
}

func TestLowScoreReason(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		name  string
		p     player.Player
		score float64
		want  Reason
	}{
		{"healthy score untagged", player.Player{Matches: 20, StartShare: 0.9}, 6.5, ReasonNone},
		{"zero untagged", player.Player{}, 0, ReasonNone},
		{"thin sample", player.Player{Matches: 2, StartShare: 0.9}, 2.1, ReasonTooFewMatches},
		{"bench regular", player.Player{Matches: 20, StartShare: 0.2}, 3.0, ReasonRarelyStarts},
		{"just weak", player.Player{Matches: 20, StartShare: 0.9}, 3.0, ReasonLimitedForm},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, LowScoreReason(tc.p, tc.score, cfg))
		})
	}
}

func TestZeroReason(t *testing.T) {
	assert.Equal(t, ReasonSuspended, ZeroReason(availability.Resolution{Status: availability.StatusSuspended}))
	assert.Equal(t, ReasonInjured, ZeroReason(availability.Resolution{Status: availability.StatusOut}))
	assert.Equal(t, ReasonNone, ZeroReason(availability.Resolution{Status: availability.StatusAvailable}))
}

func TestReasonLabel(t *testing.T) {
	assert.Equal(t, "too few matches played", ReasonTooFewMatches.Label())
	assert.Equal(t, "rarely in the starting eleven", ReasonRarelyStarts.Label())
	assert.Equal(t, "limited recent form", ReasonLimitedForm.Label())
	assert.Equal(t, "injured", ReasonInjured.Label())
	assert.Equal(t, "suspended", ReasonSuspended.Label())
	assert.Empty(t, ReasonNone.Label())
}
