package usecase_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/onzecoach/onze-coach/internal/infrastructure/sources/memory"
	"github.com/onzecoach/onze-coach/internal/usecase"
)

func TestBulkRecommendAll(t *testing.T) {
	provider := memory.NewSeeded()
	// second squad sharing the seeded pool
	ctx := context.Background()
	raw, err := provider.Squad(ctx, memory.SquadIDDemo)
	if err != nil {
		t.Fatalf("seed squad: %v", err)
	}
	provider.SetSquad("demo-squad-2", raw)

	bulk := usecase.NewBulkService(newService(provider), 2, slog.New(slog.DiscardHandler))
	items, err := bulk.RecommendAll(ctx, usecase.BulkInput{
		Championship: memory.ChampionshipLigue1,
		Formation:    433,
		SquadIDs:     []string{memory.SquadIDDemo, "demo-squad-2", "missing-squad"},
	})
	if err != nil {
		t.Fatalf("RecommendAll: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("items = %d, want 3", len(items))
	}
	for _, item := range items[:2] {
		if item.Err != nil {
			t.Fatalf("squad %s failed: %v", item.SquadID, item.Err)
		}
		if len(item.Recommendation.Lineup.Starters) != 11 {
			t.Fatalf("squad %s starters = %d", item.SquadID, len(item.Recommendation.Lineup.Starters))
		}
	}
	if items[2].Err == nil {
		t.Fatal("missing squad should fail its item")
	}
	if items[2].SquadID != "missing-squad" {
		t.Fatal("input order not preserved")
	}
}

func TestBulkRecommendAll_RequiresSquadIDs(t *testing.T) {
	bulk := usecase.NewBulkService(newService(memory.NewSeeded()), 2, slog.New(slog.DiscardHandler))
	_, err := bulk.RecommendAll(context.Background(), usecase.BulkInput{SquadIDs: []string{" ", ""}})
	if !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}
