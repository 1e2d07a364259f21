// Package selection builds the final lineup from scored players: starters
// per formation, a bench filled from a per-position template, and leftovers
// annotated for the user.
package selection

import (
	"sort"

	"github.com/onzecoach/onze-coach/internal/domain/formation"
	"github.com/onzecoach/onze-coach/internal/domain/player"
	"github.com/onzecoach/onze-coach/internal/domain/scoring"
)

// Lineup is the selector output: three lists that exactly partition the
// input squad.
type Lineup struct {
	Formation   formation.Code
	Starters    []scoring.ScoredPlayer
	Substitutes []scoring.ScoredPlayer
	Leftovers   []scoring.ScoredPlayer
}

// outfieldOrder fixes the bench fill order after the goalkeeper slot.
var outfieldOrder = []player.Position{
	player.PositionDefender,
	player.PositionMidfielder,
	player.PositionAttacker,
}

// Select builds the lineup for one formation. Players scoring zero never
// start or sit on the bench; an understaffed position leaves its slots
// unfilled rather than borrowing from another position.
func Select(players []scoring.ScoredPlayer, code formation.Code, cfg scoring.Config) Lineup {
	lineup := Lineup{Formation: code}

	groups := make(map[player.Position][]scoring.ScoredPlayer)
	for _, sp := range players {
		if sp.Score <= 0 {
			continue
		}
		groups[sp.Player.Position] = append(groups[sp.Player.Position], sp)
	}
	for pos := range groups {
		g := groups[pos]
		sort.SliceStable(g, func(i, j int) bool { return g[i].Score > g[j].Score })
		groups[pos] = g
	}

	picked := make(map[string]struct{}, len(players))
	take := func(sp scoring.ScoredPlayer) { picked[sp.Player.IdentityKey()] = struct{}{} }

	starterCounts := code.Starters()
	for _, pos := range []player.Position{player.PositionGoalkeeper, player.PositionDefender, player.PositionMidfielder, player.PositionAttacker} {
		need := starterCounts[pos]
		for _, sp := range groups[pos] {
			if need == 0 {
				break
			}
			lineup.Starters = append(lineup.Starters, sp)
			take(sp)
			need--
		}
	}

	lineup.Substitutes = pickBench(groups, starterCounts, code.BenchTemplate(), picked, cfg)
	for _, sp := range lineup.Substitutes {
		take(sp)
	}

	for _, sp := range players {
		if _, ok := picked[sp.Player.IdentityKey()]; ok {
			continue
		}
		if sp.Score == 0 {
			sp.Reason = scoring.ZeroReason(sp.Availability)
		}
		lineup.Leftovers = append(lineup.Leftovers, sp)
	}
	return lineup
}

// pickBench fills 1 GK then outfield positions to their template targets in
// defender-midfielder-attacker order, then tops up to six outfield from the
// best remaining players of any outfield position, never exceeding a
// position's headcount after starters.
func pickBench(
	groups map[player.Position][]scoring.ScoredPlayer,
	starters map[player.Position]int,
	template map[player.Position]int,
	picked map[string]struct{},
	cfg scoring.Config,
) []scoring.ScoredPlayer {
	remaining := func(pos player.Position) []scoring.ScoredPlayer {
		var out []scoring.ScoredPlayer
		for _, sp := range groups[pos] {
			if _, ok := picked[sp.Player.IdentityKey()]; !ok {
				out = append(out, sp)
			}
		}
		return out
	}
	benchable := func(pos player.Position) int {
		n := len(groups[pos]) - starters[pos]
		if n < 0 {
			return 0
		}
		return n
	}

	var bench []scoring.ScoredPlayer
	benched := make(map[string]struct{})
	add := func(sp scoring.ScoredPlayer) {
		if sp.Score < cfg.LowScoreThreshold {
			sp.Reason = scoring.LowScoreReason(sp.Player, sp.Score, cfg)
		}
		bench = append(bench, sp)
		benched[sp.Player.IdentityKey()] = struct{}{}
	}
	unbenched := func(list []scoring.ScoredPlayer) []scoring.ScoredPlayer {
		var out []scoring.ScoredPlayer
		for _, sp := range list {
			if _, ok := benched[sp.Player.IdentityKey()]; !ok {
				out = append(out, sp)
			}
		}
		return out
	}

	if gk := remaining(player.PositionGoalkeeper); len(gk) > 0 {
		add(gk[0])
	}

	benchByPos := make(map[player.Position]int)
	for _, pos := range outfieldOrder {
		target := min(template[pos], benchable(pos))
		candidates := remaining(pos)
		for _, sp := range candidates[:min(target, len(candidates))] {
			add(sp)
			benchByPos[pos]++
		}
	}

	// Top up with the best leftovers regardless of outfield position.
	outfieldTotal := 0
	for _, pos := range outfieldOrder {
		outfieldTotal += benchByPos[pos]
	}
	if outfieldTotal < formation.BenchOutfieldSize {
		var pool []scoring.ScoredPlayer
		for _, pos := range outfieldOrder {
			candidates := unbenched(remaining(pos))
			room := benchable(pos) - benchByPos[pos]
			if room <= 0 {
				continue
			}
			if len(candidates) > room {
				candidates = candidates[:room]
			}
			pool = append(pool, candidates...)
		}
		sort.SliceStable(pool, func(i, j int) bool { return pool[i].Score > pool[j].Score })
		for _, sp := range pool {
			if outfieldTotal == formation.BenchOutfieldSize {
				break
			}
			add(sp)
			benchByPos[sp.Player.Position]++
			outfieldTotal++
		}
	}
	return bench
}
