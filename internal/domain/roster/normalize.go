package roster

import (
	"github.com/onzecoach/onze-coach/internal/domain/player"
)

// Normalize merges squad membership with pool stats into canonical players.
// Every squad member yields exactly one player: a pool miss keeps the
// squad-embedded fields instead of dropping the member, and duplicate
// extraction paths collapse on the identity key, first occurrence winning.
func Normalize(doc SquadDocument, pool *Pool, defaultClub string) []player.Player {
	players := make([]player.Player, 0, len(doc.Members))
	seen := make(map[string]struct{}, len(doc.Members))

	for _, m := range doc.Members {
		p := resolveMember(m, pool, defaultClub)
		key := p.IdentityKey()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		players = append(players, p)
	}
	return players
}

func resolveMember(m SquadMember, pool *Pool, defaultClub string) player.Player {
	entry, found := pool.ByID(m.ID)
	if !found && (m.Name != "" || m.LastName != "") {
		name := m.Name
		if name == "" {
			name = m.LastName + " " + m.FirstName
		}
		entry, found = pool.ByName(name)
	}
	if found {
		return fromPool(entry, m, defaultClub)
	}
	return fromSquadOnly(m, defaultClub)
}

func fromPool(e PoolEntry, m SquadMember, defaultClub string) player.Player {
	p := player.Player{
		ID:            e.ID,
		FirstName:     e.FirstName,
		LastName:      e.LastName,
		Club:          e.Club,
		Position:      player.ParsePosition(e.PositionCode),
		Quotation:     e.Quotation,
		SeasonAverage: e.SeasonAverage,
		Matches:       e.Matches,
		Goals:         e.Goals,
		Assists:       e.Assists,
		YellowCards:   e.YellowCards,
		RedCards:      e.RedCards,
		Suspended:     e.Suspended,
		StartShare:    e.StartedPct,
		RecentMatches: e.RecentMatches,
		Advanced:      e.Advanced,
	}
	// Squad payload wins where the pool is silent.
	if p.Club == "" {
		p.Club = m.Club
	}
	if p.Club == "" {
		p.Club = defaultClub
	}
	if p.Quotation == 0 {
		p.Quotation = m.Quotation
	}
	if p.LastName == "" && p.FirstName == "" {
		p.LastName = displayLast(m)
		p.FirstName = m.FirstName
	}
	return p
}

func fromSquadOnly(m SquadMember, defaultClub string) player.Player {
	club := m.Club
	if club == "" {
		club = defaultClub
	}
	return player.Player{
		ID:         m.ID,
		FirstName:  m.FirstName,
		LastName:   displayLast(m),
		Club:       club,
		Position:   player.ParsePosition(m.PositionCode),
		Quotation:  m.Quotation,
		StartShare: -1,
	}
}

func displayLast(m SquadMember) string {
	if m.LastName != "" {
		return m.LastName
	}
	return m.Name
}
