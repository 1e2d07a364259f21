package matchcontext

import (
	"sort"
	"strings"

	"github.com/onzecoach/onze-coach/internal/domain/player"
	"github.com/onzecoach/onze-coach/internal/platform/namematch"
)

// DefaultCoStartThreshold marks a pair as rotating when they started
// together in at most this share of the matches where either started.
const DefaultCoStartThreshold = 0.25

// PairKey identifies an unordered same-club, same-position player pair.
func PairKey(club string, pos player.Position, a, b string) string {
	na, nb := namematch.NormalizeName(a), namematch.NormalizeName(b)
	if nb < na {
		na, nb = nb, na
	}
	return namematch.NormalizeClub(club) + "|" + string(pos) + "|" + na + "|" + nb
}

// RotationPairs scans starting-eleven history for same-club, same-position
// pairs that almost never start together. The result keys are PairKey
// values; callers may surface them as a rotation hint alongside the
// recommendation.
func RotationPairs(players []player.Player, history []LineupRecord, threshold float64) map[string]struct{} {
	if threshold <= 0 {
		threshold = DefaultCoStartThreshold
	}
	byClub := make(map[string][]player.Player)
	for _, p := range players {
		key := namematch.NormalizeClub(p.Club)
		byClub[key] = append(byClub[key], p)
	}

	starts := make(map[string]int)   // player identity → matches started
	together := make(map[string]int) // pair key → matches started together

	for _, rec := range history {
		countStarts(byClub, rec.HomeTeam, rec.HomeStarters, starts, together)
		countStarts(byClub, rec.AwayTeam, rec.AwayStarters, starts, together)
	}

	pairs := make(map[string]struct{})
	for clubKey, squad := range byClub {
		grouped := make(map[player.Position][]player.Player)
		for _, p := range squad {
			grouped[p.Position] = append(grouped[p.Position], p)
		}
		for pos, group := range grouped {
			sort.SliceStable(group, func(i, j int) bool {
				return group[i].Name() < group[j].Name()
			})
			for i := 0; i < len(group); i++ {
				for j := i + 1; j < len(group); j++ {
					a, b := group[i], group[j]
					either := starts[a.IdentityKey()] + starts[b.IdentityKey()]
					if either == 0 {
						continue
					}
					key := PairKey(clubKey, pos, a.Name(), b.Name())
					co := together[key]
					// co-started matches were counted once per
					// player above
					either -= co
					if float64(co)/float64(either) <= threshold {
						pairs[key] = struct{}{}
					}
				}
			}
		}
	}
	return pairs
}

func countStarts(byClub map[string][]player.Player, team string, starters []string, starts, together map[string]int) {
	squad, ok := namematch.LookupByClub(team, byClub)
	if !ok {
		return
	}
	var started []player.Player
	for _, p := range squad {
		if namematch.NameInList(p.Name(), starters) {
			started = append(started, p)
			starts[p.IdentityKey()]++
		}
	}
	for i := 0; i < len(started); i++ {
		for j := i + 1; j < len(started); j++ {
			if started[i].Position != started[j].Position {
				continue
			}
			key := PairKey(started[i].Club, started[i].Position, started[i].Name(), started[j].Name())
			together[key]++
		}
	}
}

// RotationPairLabel renders a pair key as a readable hint.
func RotationPairLabel(key string) string {
	parts := strings.Split(key, "|")
	if len(parts) != 4 {
		return key
	}
	return parts[2] + " / " + parts[3] + " (" + parts[1] + ", " + parts[0] + ")"
}
