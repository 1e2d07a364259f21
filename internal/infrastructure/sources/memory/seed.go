package memory

import (
	"fmt"
	"time"

	"github.com/onzecoach/onze-coach/internal/domain/availability"
	"github.com/onzecoach/onze-coach/internal/domain/matchcontext"
	"github.com/onzecoach/onze-coach/internal/domain/player"
	"github.com/onzecoach/onze-coach/internal/domain/roster"
	"github.com/onzecoach/onze-coach/internal/usecase"
)

const (
	ChampionshipLigue1 = "fr-ligue-1"
	SquadIDDemo        = "demo-squad-1"
)

var seedKickoff = time.Date(2026, 2, 14, 20, 0, 0, 0, time.UTC)

// NewSeeded returns a provider loaded with a small demo championship: one
// squad, a player pool, standings and fixtures, recent results and a pair
// of availability signals.
func NewSeeded() *Provider {
	p := NewProvider()

	p.SetPool(ChampionshipLigue1, seedPool())
	p.SetSquad(SquadIDDemo, seedSquad())
	p.SetSignals(ChampionshipLigue1, availability.Signals{
		OutReports: []availability.Report{
			{PlayerName: "Defender6", Club: "Lens", Reason: "hamstring"},
		},
		DoubtfulNames: []string{"Midfielder6"},
	})
	p.SetSchedule(ChampionshipLigue1, seedSchedule())
	p.SetResults(ChampionshipLigue1, seedResults())
	p.SetTransfers(ChampionshipLigue1, []matchcontext.Transfer{
		{PlayerName: "Thomasson", Date: seedKickoff.AddDate(0, 0, -10)},
	})

	return p
}

func seedPool() []roster.PoolEntry {
	pool := []roster.PoolEntry{
		{ID: "gk1", LastName: "Samba", FirstName: "Brice", Club: "Lens", PositionCode: "G",
			Quotation: 18, SeasonAverage: 6.1, Matches: 20, StartedPct: 1.0,
			Advanced: player.AdvancedStats{CleanSheets: 7}},
		{ID: "gk2", LastName: "Ryan", FirstName: "Mat", Club: "Lens", PositionCode: "G",
			Quotation: 8, SeasonAverage: 5.2, Matches: 2, StartedPct: 0.1},
	}
	for i := 0; i < 6; i++ {
		pool = append(pool, roster.PoolEntry{
			ID: fmt.Sprintf("d%d", i+1), LastName: fmt.Sprintf("Defender%d", i+1),
			Club: "Lens", PositionCode: "D",
			Quotation: 12 - float64(i), SeasonAverage: 5.8 - float64(i)*0.2,
			Matches: 18 - i, Goals: 1, StartedPct: 0.9 - float64(i)*0.1,
			RecentMatches: seedRecent(5.8 - float64(i)*0.2),
		})
	}
	for i := 0; i < 6; i++ {
		pool = append(pool, roster.PoolEntry{
			ID: fmt.Sprintf("m%d", i+1), LastName: fmt.Sprintf("Midfielder%d", i+1),
			Club: "Lens", PositionCode: "M",
			Quotation: 15 - float64(i), SeasonAverage: 6.0 - float64(i)*0.2,
			Matches: 18 - i, Goals: 2, Assists: 3, StartedPct: 0.9 - float64(i)*0.1,
			RecentMatches: seedRecent(6.0 - float64(i)*0.2),
		})
	}
	for i := 0; i < 4; i++ {
		pool = append(pool, roster.PoolEntry{
			ID: fmt.Sprintf("a%d", i+1), LastName: fmt.Sprintf("Attacker%d", i+1),
			Club: "Lens", PositionCode: "A",
			Quotation: 25 - float64(i)*3, SeasonAverage: 6.3 - float64(i)*0.3,
			Matches: 17 - i, Goals: 9 - i*2, Assists: 2, StartedPct: 0.85 - float64(i)*0.1,
			RecentMatches: seedRecent(6.3 - float64(i)*0.3),
		})
	}
	return pool
}

func seedRecent(avg float64) []player.RecentMatch {
	out := make([]player.RecentMatch, 0, 5)
	for i := 0; i < 5; i++ {
		out = append(out, player.RecentMatch{
			Rating:   avg + float64(i%2),
			Minutes:  90,
			Matchday: 20 - i,
		})
	}
	return out
}

func seedSquad() map[string]any {
	ids := []string{"gk1", "gk2"}
	for i := 1; i <= 6; i++ {
		ids = append(ids, fmt.Sprintf("d%d", i))
	}
	for i := 1; i <= 6; i++ {
		ids = append(ids, fmt.Sprintf("m%d", i))
	}
	for i := 1; i <= 4; i++ {
		ids = append(ids, fmt.Sprintf("a%d", i))
	}
	entries := make(map[string]any, len(ids))
	for _, id := range ids {
		entries["mpg_player_"+id] = map[string]any{}
	}
	return entries
}

func seedSchedule() usecase.Schedule {
	return usecase.Schedule{
		Table: matchcontext.Table{
			RankByClub:         map[string]int{"psg": 1, "lens": 5, "nice": 8, "nantes": 16, "metz": 18},
			GoalsForByClub:     map[string]int{"psg": 45, "lens": 30, "nice": 25, "nantes": 15, "metz": 10},
			GoalsAgainstByClub: map[string]int{"psg": 12, "lens": 20, "nice": 22, "nantes": 32, "metz": 40},
			TotalTeams:         18,
		},
		Fixtures: matchcontext.NextFixtures{
			OpponentByClub: map[string]string{"lens": "Nantes", "nantes": "Lens"},
			HomeByClub:     map[string]bool{"lens": true, "nantes": false},
		},
		NextMatchAt:      map[string]time.Time{"lens": seedKickoff},
		ElapsedMatchdays: 20,
		RoundDates: map[int]time.Time{
			20: seedKickoff.AddDate(0, 0, -5),
			19: seedKickoff.AddDate(0, 0, -12),
			18: seedKickoff.AddDate(0, 0, -19),
		},
	}
}

func seedResults() []matchcontext.MatchResult {
	return []matchcontext.MatchResult{
		{HomeTeam: "Lens", AwayTeam: "Nice", HomeGoals: 2, AwayGoals: 1, PlayedAt: seedKickoff.AddDate(0, 0, -5)},
		{HomeTeam: "PSG", AwayTeam: "Lens", HomeGoals: 1, AwayGoals: 1, PlayedAt: seedKickoff.AddDate(0, 0, -12)},
		{HomeTeam: "Lens", AwayTeam: "Metz", HomeGoals: 3, AwayGoals: 0, PlayedAt: seedKickoff.AddDate(0, 0, -19)},
		{HomeTeam: "Nantes", AwayTeam: "Lens", HomeGoals: 0, AwayGoals: 2, PlayedAt: seedKickoff.AddDate(0, 0, -26)},
		{HomeTeam: "Lens", AwayTeam: "Lyon", HomeGoals: 1, AwayGoals: 2, PlayedAt: seedKickoff.AddDate(0, 0, -33)},
	}
}
