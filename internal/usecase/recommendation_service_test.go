package usecase_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/onzecoach/onze-coach/internal/domain/availability"
	"github.com/onzecoach/onze-coach/internal/domain/player"
	"github.com/onzecoach/onze-coach/internal/domain/scoring"
	"github.com/onzecoach/onze-coach/internal/infrastructure/sources/memory"
	"github.com/onzecoach/onze-coach/internal/usecase"
)

func newService(p *memory.Provider) *usecase.RecommendationService {
	return usecase.NewRecommendationService(p.Sources(), scoring.DefaultConfig(), slog.New(slog.DiscardHandler))
}

func TestRecommend_RequiresSquadID(t *testing.T) {
	svc := newService(memory.NewSeeded())
	_, err := svc.Recommend(context.Background(), usecase.RecommendInput{})
	if !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestRecommend_RejectsUnknownFormation(t *testing.T) {
	svc := newService(memory.NewSeeded())
	_, err := svc.Recommend(context.Background(), usecase.RecommendInput{
		SquadID:   memory.SquadIDDemo,
		Formation: 271,
	})
	if !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestRecommend_UnknownSquad(t *testing.T) {
	svc := newService(memory.NewSeeded())
	_, err := svc.Recommend(context.Background(), usecase.RecommendInput{
		SquadID:      "no-such-squad",
		Championship: memory.ChampionshipLigue1,
	})
	if !errors.Is(err, usecase.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for an unseeded squad, got %v", err)
	}
}

func TestRecommend_SeededSquadProducesFullLineup(t *testing.T) {
	svc := newService(memory.NewSeeded())
	rec, err := svc.Recommend(context.Background(), usecase.RecommendInput{
		SquadID:      memory.SquadIDDemo,
		Championship: memory.ChampionshipLigue1,
		Formation:    433,
	})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	if len(rec.Lineup.Starters) != 11 {
		t.Fatalf("starters = %d, want 11", len(rec.Lineup.Starters))
	}
	counts := map[player.Position]int{}
	for _, sp := range rec.Lineup.Starters {
		counts[sp.Player.Position]++
		if sp.Score <= 0 || sp.Score > 10 {
			t.Fatalf("starter %s score %f out of range", sp.Player.Name(), sp.Score)
		}
	}
	if counts[player.PositionGoalkeeper] != 1 || counts[player.PositionDefender] != 4 ||
		counts[player.PositionMidfielder] != 3 || counts[player.PositionAttacker] != 3 {
		t.Fatalf("unexpected starter shape: %v", counts)
	}

	total := len(rec.Lineup.Starters) + len(rec.Lineup.Substitutes) + len(rec.Lineup.Leftovers)
	if total != 18 {
		t.Fatalf("partition covers %d players, squad has 18", total)
	}
	if rec.GeneratedAt.IsZero() {
		t.Fatal("GeneratedAt not set")
	}
}

func TestRecommend_InjuredSeedPlayerExcluded(t *testing.T) {
	svc := newService(memory.NewSeeded())
	rec, err := svc.Recommend(context.Background(), usecase.RecommendInput{
		SquadID:      memory.SquadIDDemo,
		Championship: memory.ChampionshipLigue1,
	})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	// Defender6 carries an out report in the seed data.
	for _, list := range [][]scoring.ScoredPlayer{rec.Lineup.Starters, rec.Lineup.Substitutes} {
		for _, sp := range list {
			if sp.Player.LastName == "Defender6" {
				t.Fatal("injured player selected")
			}
		}
	}
	var found bool
	for _, sp := range rec.Lineup.Leftovers {
		if sp.Player.LastName == "Defender6" {
			found = true
			if sp.Availability.Status != availability.StatusOut {
				t.Fatalf("status = %s, want OUT", sp.Availability.Status)
			}
			if sp.Reason != scoring.ReasonInjured {
				t.Fatalf("reason = %q, want injured", sp.Reason)
			}
		}
	}
	if !found {
		t.Fatal("injured player missing from leftovers")
	}
}

func TestRecommend_SourceFailureDegrades(t *testing.T) {
	// A provider with only squad and pool seeded: every enrichment source
	// returns empty, the lineup must still complete.
	seeded := memory.NewSeeded()
	bare := memory.NewProvider()
	ctx := context.Background()

	raw, err := seeded.Squad(ctx, memory.SquadIDDemo)
	if err != nil {
		t.Fatalf("seed squad: %v", err)
	}
	pool, err := seeded.Pool(ctx, memory.ChampionshipLigue1)
	if err != nil {
		t.Fatalf("seed pool: %v", err)
	}
	bare.SetSquad(memory.SquadIDDemo, raw)
	bare.SetPool(memory.ChampionshipLigue1, pool)

	svc := newService(bare)
	rec, err := svc.Recommend(ctx, usecase.RecommendInput{
		SquadID:      memory.SquadIDDemo,
		Championship: memory.ChampionshipLigue1,
	})
	if err != nil {
		t.Fatalf("Recommend without enrichment sources: %v", err)
	}
	if len(rec.Lineup.Starters) != 11 {
		t.Fatalf("starters = %d, want 11 from season averages alone", len(rec.Lineup.Starters))
	}
	if len(rec.Lineup.Leftovers) != 0 {
		t.Fatalf("leftovers = %d, want 0 with no injuries", len(rec.Lineup.Leftovers))
	}
}
