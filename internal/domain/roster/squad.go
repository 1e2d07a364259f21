package roster

import (
	"sort"
	"strings"

	"github.com/onzecoach/onze-coach/internal/domain/player"
)

// Shape is the closed set of squad payload layouts seen upstream. Keeping
// the set explicit makes a new upstream layout a visible gap instead of a
// silent miss.
type Shape int

const (
	ShapeUnknown Shape = iota
	// ShapeEntriesByID maps player ids to metadata objects.
	ShapeEntriesByID
	// ShapePositionGroups maps position codes to arrays of bare ids or
	// embedded player objects.
	ShapePositionGroups
	// ShapePlayerList nests a flat array of player objects under a
	// wrapper key such as "players".
	ShapePlayerList
)

// listWrapperKeys are the keys ShapePlayerList payloads have used.
var listWrapperKeys = []string{"players", "squad", "members"}

// SquadMember is one squad slot after shape adaptation: at least one of
// the id or the embedded fields is set.
type SquadMember struct {
	ID           string
	Name         string
	FirstName    string
	LastName     string
	Club         string
	PositionCode string
	Quotation    float64
}

// SquadDocument is the shape-agnostic view of a squad payload.
type SquadDocument struct {
	Shape   Shape
	Members []SquadMember
}

// DetectShape classifies a raw squad payload.
func DetectShape(raw map[string]any) Shape {
	if len(raw) == 0 {
		return ShapeUnknown
	}
	for _, key := range listWrapperKeys {
		if _, ok := raw[key].([]any); ok {
			return ShapePlayerList
		}
	}
	arrays, objects := 0, 0
	for key, value := range raw {
		switch value.(type) {
		case []any:
			if player.ParsePosition(key) != player.PositionMidfielder || looksLikePositionCode(key) {
				arrays++
			}
		case map[string]any:
			objects++
		}
	}
	switch {
	case arrays > 0:
		return ShapePositionGroups
	case objects > 0:
		return ShapeEntriesByID
	default:
		return ShapeUnknown
	}
}

func looksLikePositionCode(key string) bool {
	switch strings.ToUpper(strings.TrimSpace(key)) {
	case "M", "MID", "MC", "MILIEU", "MIDFIELDER", "MIDFIELDERS":
		return true
	default:
		return false
	}
}

// ParseSquadDocument adapts a raw payload through the shape-specific
// adapter. An unknown shape yields an empty document, never an error.
func ParseSquadDocument(raw map[string]any) SquadDocument {
	shape := DetectShape(raw)
	switch shape {
	case ShapeEntriesByID:
		return SquadDocument{Shape: shape, Members: adaptEntriesByID(raw)}
	case ShapePositionGroups:
		return SquadDocument{Shape: shape, Members: adaptPositionGroups(raw)}
	case ShapePlayerList:
		return SquadDocument{Shape: shape, Members: adaptPlayerList(raw)}
	default:
		return SquadDocument{Shape: ShapeUnknown}
	}
}

func adaptEntriesByID(raw map[string]any) []SquadMember {
	members := make([]SquadMember, 0, len(raw))
	for _, key := range sortedKeys(raw) {
		obj, ok := raw[key].(map[string]any)
		if !ok {
			continue
		}
		m := memberFromObject(obj)
		if m.ID == "" {
			m.ID = key
		}
		members = append(members, m)
	}
	return members
}

func adaptPositionGroups(raw map[string]any) []SquadMember {
	var members []SquadMember
	for _, pos := range sortedKeys(raw) {
		items, ok := raw[pos].([]any)
		if !ok {
			continue
		}
		for _, item := range items {
			switch member := item.(type) {
			case string:
				members = append(members, SquadMember{ID: member, PositionCode: pos})
			case map[string]any:
				m := memberFromObject(member)
				if m.PositionCode == "" {
					m.PositionCode = pos
				}
				members = append(members, m)
			}
		}
	}
	return members
}

func adaptPlayerList(raw map[string]any) []SquadMember {
	var members []SquadMember
	for _, key := range listWrapperKeys {
		items, ok := raw[key].([]any)
		if !ok {
			continue
		}
		for _, item := range items {
			if obj, ok := item.(map[string]any); ok {
				members = append(members, memberFromObject(obj))
			}
		}
	}
	return members
}

func sortedKeys(raw map[string]any) []string {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func memberFromObject(obj map[string]any) SquadMember {
	var m SquadMember
	m.ID = stringField(obj, "id", "playerId", "playerID")
	m.Name = stringField(obj, "name", "displayName")
	m.FirstName = stringField(obj, "firstName", "firstname")
	m.LastName = stringField(obj, "lastName", "lastname")
	m.Club = stringField(obj, "club", "clubName", "team")
	m.PositionCode = stringField(obj, "position", "positionCode", "ultraPosition")
	m.Quotation = numberField(obj, "quotation", "price", "value")
	return m
}

func stringField(obj map[string]any, names ...string) string {
	for _, name := range names {
		if v, ok := obj[name].(string); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func numberField(obj map[string]any, names ...string) float64 {
	for _, name := range names {
		switch v := obj[name].(type) {
		case float64:
			return v
		case int:
			return float64(v)
		}
	}
	return 0
}
