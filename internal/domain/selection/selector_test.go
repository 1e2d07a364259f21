package selection

import (
	"fmt"
	"testing"

	"github.com/onzecoach/onze-coach/internal/domain/availability"
	"github.com/onzecoach/onze-coach/internal/domain/formation"
	"github.com/onzecoach/onze-coach/internal/domain/player"
	"github.com/onzecoach/onze-coach/internal/domain/scoring"
)

func squadOf(counts map[player.Position]int, scoreFor func(player.Position, int) float64) []scoring.ScoredPlayer {
	var squad []scoring.ScoredPlayer
	for _, pos := range []player.Position{player.PositionGoalkeeper, player.PositionDefender, player.PositionMidfielder, player.PositionAttacker} {
		for i := 0; i < counts[pos]; i++ {
			squad = append(squad, scoring.ScoredPlayer{
				Player: player.Player{
					ID:       fmt.Sprintf("%s-%d", pos, i),
					LastName: fmt.Sprintf("%s%d", pos, i),
					Position: pos,
					Matches:  10,
				},
				Availability: availability.Resolution{Status: availability.StatusAvailable},
				Score:        scoreFor(pos, i),
			})
		}
	}
	return squad
}

func countByPosition(list []scoring.ScoredPlayer) map[player.Position]int {
	counts := make(map[player.Position]int)
	for _, sp := range list {
		counts[sp.Player.Position]++
	}
	return counts
}

func TestSelect_FormationCompleteness433(t *testing.T) {
	squad := squadOf(
		map[player.Position]int{
			player.PositionGoalkeeper: 2,
			player.PositionDefender:   6,
			player.PositionMidfielder: 6,
			player.PositionAttacker:   6,
		},
		func(pos player.Position, i int) float64 { return 7 - float64(i)*0.2 },
	)

	lineup := Select(squad, formation.F433, scoring.DefaultConfig())

	if len(lineup.Starters) != 11 {
		t.Fatalf("starters = %d, want 11", len(lineup.Starters))
	}
	got := countByPosition(lineup.Starters)
	want := map[player.Position]int{
		player.PositionGoalkeeper: 1,
		player.PositionDefender:   4,
		player.PositionMidfielder: 3,
		player.PositionAttacker:   3,
	}
	for pos, n := range want {
		if got[pos] != n {
			t.Fatalf("starters at %s = %d, want %d", pos, got[pos], n)
		}
	}
}

func TestSelect_StartersAreBestScorers(t *testing.T) {
	squad := squadOf(
		map[player.Position]int{player.PositionGoalkeeper: 2, player.PositionDefender: 5, player.PositionMidfielder: 5, player.PositionAttacker: 4},
		func(pos player.Position, i int) float64 { return 5 + float64(i) }, // later players score higher
	)
	lineup := Select(squad, formation.F433, scoring.DefaultConfig())

	for _, starter := range lineup.Starters {
		for _, sub := range lineup.Substitutes {
			if sub.Player.Position == starter.Player.Position && sub.Score > starter.Score {
				t.Fatalf("substitute %s outscores starter %s", sub.Player.Name(), starter.Player.Name())
			}
		}
	}
}

func TestSelect_BenchSizing(t *testing.T) {
	squad := squadOf(
		map[player.Position]int{
			player.PositionGoalkeeper: 3,
			player.PositionDefender:   8,
			player.PositionMidfielder: 8,
			player.PositionAttacker:   8,
		},
		func(pos player.Position, i int) float64 { return 8 - float64(i)*0.3 },
	)

	for _, code := range formation.Available() {
		lineup := Select(squad, code, scoring.DefaultConfig())
		if len(lineup.Substitutes) > 7 {
			t.Fatalf("%s: %d substitutes, want ≤ 7", code, len(lineup.Substitutes))
		}
		benchCounts := countByPosition(lineup.Substitutes)
		starterCounts := code.Starters()
		squadCounts := countByPosition(squad)
		for pos, n := range benchCounts {
			if max := squadCounts[pos] - starterCounts[pos]; n > max {
				t.Fatalf("%s: bench at %s = %d exceeds headcount %d", code, pos, n, max)
			}
		}
	}
}

func TestSelect_PartitionsSquad(t *testing.T) {
	squad := squadOf(
		map[player.Position]int{player.PositionGoalkeeper: 2, player.PositionDefender: 7, player.PositionMidfielder: 6, player.PositionAttacker: 5},
		func(pos player.Position, i int) float64 {
			if i == 3 {
				return 0 // some unavailable
			}
			return 6 - float64(i)*0.4
		},
	)
	lineup := Select(squad, formation.F352, scoring.DefaultConfig())

	seen := make(map[string]int)
	for _, list := range [][]scoring.ScoredPlayer{lineup.Starters, lineup.Substitutes, lineup.Leftovers} {
		for _, sp := range list {
			seen[sp.Player.IdentityKey()]++
		}
	}
	if len(seen) != len(squad) {
		t.Fatalf("selected %d distinct players, squad has %d", len(seen), len(squad))
	}
	for key, n := range seen {
		if n != 1 {
			t.Fatalf("player %s appears %d times", key, n)
		}
	}
}

func TestSelect_FifteenPlayerSquad442(t *testing.T) {
	// 2 GK, 5 D, 5 M, 3 A with season-average-only scores: the lineup must
	// still complete and leave no unavailability-tagged leftover.
	squad := squadOf(
		map[player.Position]int{
			player.PositionGoalkeeper: 2,
			player.PositionDefender:   5,
			player.PositionMidfielder: 5,
			player.PositionAttacker:   3,
		},
		func(pos player.Position, i int) float64 { return 6.5 - float64(i)*0.1 },
	)

	lineup := Select(squad, formation.F442, scoring.DefaultConfig())

	if len(lineup.Starters) != 11 {
		t.Fatalf("starters = %d, want 11", len(lineup.Starters))
	}
	got := countByPosition(lineup.Starters)
	if got[player.PositionDefender] != 4 || got[player.PositionMidfielder] != 4 || got[player.PositionAttacker] != 2 {
		t.Fatalf("unexpected shape: %v", got)
	}
	if len(lineup.Substitutes) != 4 {
		// 1 GK + 1 D + 1 M + 1 A remain
		t.Fatalf("substitutes = %d, want 4", len(lineup.Substitutes))
	}
	if len(lineup.Leftovers) != 0 {
		t.Fatalf("leftovers = %d, want 0", len(lineup.Leftovers))
	}
	for _, sp := range lineup.Leftovers {
		if sp.Reason == scoring.ReasonInjured || sp.Reason == scoring.ReasonSuspended {
			t.Fatalf("unexpected availability tag on %s", sp.Player.Name())
		}
	}
}

func TestSelect_SuspendedPlayerStaysOut(t *testing.T) {
	squad := squadOf(
		map[player.Position]int{player.PositionGoalkeeper: 2, player.PositionDefender: 5, player.PositionMidfielder: 5, player.PositionAttacker: 4},
		func(pos player.Position, i int) float64 { return 6 },
	)
	// best attacker on paper, but suspended
	squad = append(squad, scoring.ScoredPlayer{
		Player: player.Player{
			ID: "star", LastName: "Star", Position: player.PositionAttacker,
			SeasonAverage: 8.0, Quotation: 50, Suspended: true,
		},
		Availability: availability.Resolution{Status: availability.StatusSuspended},
		Score:        0,
	})

	lineup := Select(squad, formation.F433, scoring.DefaultConfig())

	for _, list := range [][]scoring.ScoredPlayer{lineup.Starters, lineup.Substitutes} {
		for _, sp := range list {
			if sp.Player.ID == "star" {
				t.Fatal("suspended player selected")
			}
		}
	}
	var found bool
	for _, sp := range lineup.Leftovers {
		if sp.Player.ID == "star" {
			found = true
			if sp.Reason != scoring.ReasonSuspended {
				t.Fatalf("reason = %q, want %q", sp.Reason, scoring.ReasonSuspended)
			}
		}
	}
	if !found {
		t.Fatal("suspended player missing from leftovers")
	}
}

func TestSelect_UnderstaffedPositionLeavesSlotUnfilled(t *testing.T) {
	squad := squadOf(
		map[player.Position]int{
			player.PositionGoalkeeper: 1,
			player.PositionDefender:   4,
			player.PositionMidfielder: 4,
			player.PositionAttacker:   0, // no attackers at all
		},
		func(pos player.Position, i int) float64 { return 6 },
	)
	lineup := Select(squad, formation.F433, scoring.DefaultConfig())

	got := countByPosition(lineup.Starters)
	if got[player.PositionAttacker] != 0 {
		t.Fatal("selector must not fill attacker slots from other positions")
	}
	if len(lineup.Starters) != 8 {
		t.Fatalf("starters = %d, want 8", len(lineup.Starters))
	}
}

func TestSelect_LowScoreSubstitutesTagged(t *testing.T) {
	squad := squadOf(
		map[player.Position]int{player.PositionGoalkeeper: 2, player.PositionDefender: 6, player.PositionMidfielder: 4, player.PositionAttacker: 3},
		func(pos player.Position, i int) float64 {
			if pos == player.PositionDefender && i >= 4 {
				return 2.5 // weak backups
			}
			return 6
		},
	)
	lineup := Select(squad, formation.F433, scoring.DefaultConfig())

	var tagged int
	for _, sp := range lineup.Substitutes {
		if sp.Score < 4.0 {
			if sp.Reason == scoring.ReasonNone {
				t.Fatalf("low-score substitute %s carries no reason", sp.Player.Name())
			}
			tagged++
		}
	}
	if tagged == 0 {
		t.Fatal("expected at least one tagged low-score substitute")
	}
}
