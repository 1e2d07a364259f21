package formation

import (
	"testing"

	"github.com/onzecoach/onze-coach/internal/domain/player"
)

func TestParse(t *testing.T) {
	if _, ok := Parse(433); !ok {
		t.Fatal("433 must parse")
	}
	if _, ok := Parse(424); ok {
		t.Fatal("424 is not a supported formation")
	}
}

func TestStarters_EveryFormationFieldsEleven(t *testing.T) {
	for _, code := range Available() {
		counts := code.Starters()
		if counts == nil {
			t.Fatalf("formation %s has no starter table", code)
		}
		total := 0
		for _, n := range counts {
			total += n
		}
		if total != 11 {
			t.Fatalf("formation %s starters sum to %d", code, total)
		}
		if counts[player.PositionGoalkeeper] != 1 {
			t.Fatalf("formation %s must field exactly one goalkeeper", code)
		}
	}
}

func TestBenchTemplate_OneKeeperSixOutfield(t *testing.T) {
	for _, code := range Available() {
		tmpl := code.BenchTemplate()
		if tmpl == nil {
			t.Fatalf("formation %s has no bench template", code)
		}
		if tmpl[player.PositionGoalkeeper] != 1 {
			t.Fatalf("formation %s bench must hold one goalkeeper", code)
		}
		outfield := tmpl[player.PositionDefender] + tmpl[player.PositionMidfielder] + tmpl[player.PositionAttacker]
		if outfield != 6 {
			t.Fatalf("formation %s bench outfield = %d, want 6", code, outfield)
		}
	}
}

func TestString(t *testing.T) {
	if F433.String() != "4-3-3" {
		t.Fatalf("unexpected format: %s", F433.String())
	}
}
