package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
)

// BulkInput asks for lineups across many squads of one championship, e.g.
// a whole division ahead of a deadline.
type BulkInput struct {
	Championship string
	Formation    int
	SquadIDs     []string
}

// BulkItem is one squad's outcome. Err is set when that squad failed; the
// batch itself still completes.
type BulkItem struct {
	SquadID        string
	Recommendation Recommendation
	Err            error
}

// BulkService runs recommendations over a bounded worker pool so a large
// batch cannot stampede the upstream feeds.
type BulkService struct {
	recommender *RecommendationService
	workers     int
	logger      *slog.Logger
}

func NewBulkService(recommender *RecommendationService, workers int, logger *slog.Logger) *BulkService {
	if workers < 1 {
		workers = 4
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &BulkService{
		recommender: recommender,
		workers:     workers,
		logger:      logger,
	}
}

// RecommendAll computes every squad's lineup, preserving input order.
// Per-squad failures are reported in the corresponding item, not raised.
func (s *BulkService) RecommendAll(ctx context.Context, input BulkInput) ([]BulkItem, error) {
	ctx, span := startUsecaseSpan(ctx, "BulkService.RecommendAll")
	defer span.End()

	ids := make([]string, 0, len(input.SquadIDs))
	for _, id := range input.SquadIDs {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: at least one squad_id is required", ErrInvalidInput)
	}

	pool, err := ants.NewPool(s.workers)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	items := make([]BulkItem, len(ids))
	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			rec, recErr := s.recommender.Recommend(ctx, RecommendInput{
				SquadID:      id,
				Championship: input.Championship,
				Formation:    input.Formation,
			})
			items[i] = BulkItem{SquadID: id, Recommendation: rec, Err: recErr}
			if recErr != nil {
				s.logger.WarnContext(ctx, "bulk squad failed",
					slog.String("squad_id", id), slog.Any("error", recErr))
			}
		})
		if submitErr != nil {
			wg.Done()
			items[i] = BulkItem{SquadID: id, Err: fmt.Errorf("submit squad %s: %w", id, submitErr)}
		}
	}
	wg.Wait()

	return items, nil
}
