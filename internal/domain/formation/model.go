// Package formation defines the closed set of supported formations and the
// bench templates that go with them.
package formation

import (
	"fmt"

	"github.com/onzecoach/onze-coach/internal/domain/player"
)

// Code identifies a formation by its numeric shape, e.g. 433 for 4-3-3.
type Code int

const (
	F343 Code = 343
	F352 Code = 352
	F433 Code = 433
	F442 Code = 442
	F451 Code = 451
	F532 Code = 532
	F541 Code = 541
)

// Default is the formation used when the caller supplies none.
const Default = F343

// BenchOutfieldSize is the outfield substitute quota shared by every bench
// template; the template only decides its distribution.
const BenchOutfieldSize = 6

// Available lists every supported formation in menu order.
func Available() []Code {
	return []Code{F343, F352, F433, F442, F451, F532, F541}
}

// Parse validates a raw formation number against the closed set.
func Parse(raw int) (Code, bool) {
	switch Code(raw) {
	case F343, F352, F433, F442, F451, F532, F541:
		return Code(raw), true
	default:
		return 0, false
	}
}

// Starters returns the required starter count per position. The keyed-switch
// form keeps additions compile-visible: a new Code without a case here is an
// immediate test failure via the zero map.
func (c Code) Starters() map[player.Position]int {
	switch c {
	case F343:
		return starters(3, 4, 3)
	case F352:
		return starters(3, 5, 2)
	case F433:
		return starters(4, 3, 3)
	case F442:
		return starters(4, 4, 2)
	case F451:
		return starters(4, 5, 1)
	case F532:
		return starters(5, 3, 2)
	case F541:
		return starters(5, 4, 1)
	default:
		return nil
	}
}

// BenchTemplate returns the target substitute count per position: always one
// goalkeeper plus six outfield slots distributed by the formation's shape.
func (c Code) BenchTemplate() map[player.Position]int {
	switch c {
	case F343, F433, F442:
		return bench(2, 2, 2)
	case F352, F451:
		return bench(2, 3, 1)
	case F532, F541:
		return bench(3, 2, 1)
	default:
		return nil
	}
}

// String renders the dashed form shown to users, e.g. "4-3-3".
func (c Code) String() string {
	n := int(c)
	return fmt.Sprintf("%d-%d-%d", n/100, (n/10)%10, n%10)
}

func starters(def, mid, att int) map[player.Position]int {
	return map[player.Position]int{
		player.PositionGoalkeeper: 1,
		player.PositionDefender:   def,
		player.PositionMidfielder: mid,
		player.PositionAttacker:   att,
	}
}

func bench(def, mid, att int) map[player.Position]int {
	return map[player.Position]int{
		player.PositionGoalkeeper: 1,
		player.PositionDefender:   def,
		player.PositionMidfielder: mid,
		player.PositionAttacker:   att,
	}
}
