package matchcontext

import (
	"sort"
	"time"

	"github.com/onzecoach/onze-coach/internal/domain/player"
	"github.com/onzecoach/onze-coach/internal/platform/namematch"
)

// OpponentFor joins a club against the fixtures feed and the standings
// table. It returns false when the club has no known next fixture; a
// fixture whose opponent is missing from the table still counts, with
// Rank left at zero.
func OpponentFor(club string, tbl Table, fx NextFixtures) (Opponent, bool) {
	oppName, ok := namematch.LookupByClub(club, fx.OpponentByClub)
	if !ok || oppName == "" {
		return Opponent{}, false
	}
	opp := Opponent{Name: oppName, TotalTeams: tbl.TotalTeams}
	if home, ok := namematch.LookupByClub(club, fx.HomeByClub); ok {
		opp.Home = home
		opp.HomeKnown = true
	}
	if rank, ok := namematch.LookupByClub(oppName, tbl.RankByClub); ok {
		opp.Rank = rank
	}
	if gf, ok := namematch.LookupByClub(oppName, tbl.GoalsForByClub); ok {
		opp.GoalsFor = gf
	}
	if ga, ok := namematch.LookupByClub(oppName, tbl.GoalsAgainstByClub); ok {
		opp.GoalsAgainst = ga
	}
	opp.LeagueAvgFor, opp.LeagueAvgAgainst = leagueAverages(tbl)
	return opp, true
}

func leagueAverages(tbl Table) (avgFor, avgAgainst float64) {
	if len(tbl.GoalsForByClub) > 0 {
		var sum int
		for _, g := range tbl.GoalsForByClub {
			sum += g
		}
		avgFor = float64(sum) / float64(len(tbl.GoalsForByClub))
	}
	if len(tbl.GoalsAgainstByClub) > 0 {
		var sum int
		for _, g := range tbl.GoalsAgainstByClub {
			sum += g
		}
		avgAgainst = float64(sum) / float64(len(tbl.GoalsAgainstByClub))
	}
	return avgFor, avgAgainst
}

// opponentCoefficient rewards ratings earned against strong opposition and
// discounts ones earned against the bottom of the table.
func opponentCoefficient(rank, totalTeams int) float64 {
	if rank <= 0 || totalTeams <= 0 {
		return 1.0
	}
	switch {
	case rank <= 3:
		return 1.2
	case rank <= 6:
		return 1.1
	case rank <= 12:
		return 1.0
	case rank <= totalTeams-5:
		return 0.95
	default:
		return 0.9
	}
}

// RecentFormFor weighs a player's last ratings by minutes played and by the
// strength of each round's opponent. Without round-level opponent ranks it
// degrades to a flat average of the same ratings; without any recent match
// it falls back to the season average.
func RecentFormFor(p player.Player, opponentRankByRound map[int]int, totalTeams int) RecentForm {
	if len(p.RecentMatches) == 0 {
		return RecentForm{Score: p.SeasonAverage, Samples: 0, Weighted: false}
	}
	weighted := len(opponentRankByRound) > 0
	if !weighted {
		var sum float64
		for _, m := range p.RecentMatches {
			sum += m.Rating
		}
		return RecentForm{
			Score:    sum / float64(len(p.RecentMatches)),
			Samples:  len(p.RecentMatches),
			Weighted: false,
		}
	}
	var weightedSum, weightSum float64
	for _, m := range p.RecentMatches {
		minutes := m.Minutes
		if minutes > 90 {
			minutes = 90
		}
		w := float64(minutes) / 90.0
		if w <= 0 {
			continue
		}
		coeff := 1.0
		if rank, ok := opponentRankByRound[m.Matchday]; ok {
			coeff = opponentCoefficient(rank, totalTeams)
		}
		weightedSum += m.Rating * coeff * w
		weightSum += w
	}
	if weightSum == 0 {
		// ratings without minutes: plain average
		var sum float64
		for _, m := range p.RecentMatches {
			sum += m.Rating
		}
		return RecentForm{
			Score:    sum / float64(len(p.RecentMatches)),
			Samples:  len(p.RecentMatches),
			Weighted: false,
		}
	}
	return RecentForm{
		Score:    weightedSum / weightSum,
		Samples:  len(p.RecentMatches),
		Weighted: weighted,
	}
}

// Momentum compares the average of a player's last three ratings against the
// three before them. Positive means trending up. Fewer than four recent
// matches yields zero.
func Momentum(matches []player.RecentMatch) float64 {
	if len(matches) < 4 {
		return 0
	}
	ordered := make([]player.RecentMatch, len(matches))
	copy(ordered, matches)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Matchday > ordered[j].Matchday
	})
	last := ordered[:3]
	prev := ordered[3:]
	if len(prev) > 3 {
		prev = prev[:3]
	}
	return average(last) - average(prev)
}

func average(matches []player.RecentMatch) float64 {
	if len(matches) == 0 {
		return 0
	}
	var sum float64
	for _, m := range matches {
		sum += m.Rating
	}
	return sum / float64(len(matches))
}

// TeamFormFor reduces a club's last five completed matches to a W/D/L
// record. Results are consumed most recent first.
func TeamFormFor(club string, results []MatchResult) (TeamForm, bool) {
	ordered := make([]MatchResult, 0, len(results))
	for _, r := range results {
		if namematch.SameClub(club, r.HomeTeam) || namematch.SameClub(club, r.AwayTeam) {
			ordered = append(ordered, r)
		}
	}
	if len(ordered) == 0 {
		return TeamForm{}, false
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].PlayedAt.After(ordered[j].PlayedAt)
	})
	if len(ordered) > 5 {
		ordered = ordered[:5]
	}
	var form TeamForm
	for _, r := range ordered {
		scored, conceded := r.HomeGoals, r.AwayGoals
		if namematch.SameClub(club, r.AwayTeam) {
			scored, conceded = r.AwayGoals, r.HomeGoals
		}
		form.GoalsFor += scored
		form.GoalsAgainst += conceded
		switch {
		case scored > conceded:
			form.Wins++
		case scored == conceded:
			form.Draws++
		default:
			form.Losses++
		}
	}
	return form, true
}

// TransferredRecently reports whether the player changed clubs inside the
// integration window ending at now.
func TransferredRecently(name string, transfers []Transfer, now time.Time) bool {
	for _, t := range transfers {
		if !namematch.SameName(name, t.PlayerName) {
			continue
		}
		if t.Date.After(now) {
			continue
		}
		if now.Sub(t.Date) <= TransferRecencyWindow {
			return true
		}
	}
	return false
}

// MatchLoad counts matches the player actually played (nonzero minutes)
// inside the fatigue window. Rounds with no known date are skipped, so a
// feed without dates leaves the load at zero and the fatigue multiplier
// neutral.
func MatchLoad(matches []player.RecentMatch, playedAtByRound map[int]time.Time, now time.Time) int {
	if len(playedAtByRound) == 0 {
		return 0
	}
	var load int
	for _, m := range matches {
		if m.Minutes <= 0 {
			continue
		}
		at, ok := playedAtByRound[m.Matchday]
		if !ok || at.After(now) {
			continue
		}
		if now.Sub(at) <= FatigueWindow {
			load++
		}
	}
	return load
}
