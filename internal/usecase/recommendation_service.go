package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/onzecoach/onze-coach/internal/domain/availability"
	"github.com/onzecoach/onze-coach/internal/domain/formation"
	"github.com/onzecoach/onze-coach/internal/domain/matchcontext"
	"github.com/onzecoach/onze-coach/internal/domain/player"
	"github.com/onzecoach/onze-coach/internal/domain/roster"
	"github.com/onzecoach/onze-coach/internal/domain/scoring"
	"github.com/onzecoach/onze-coach/internal/domain/selection"
	"github.com/onzecoach/onze-coach/internal/platform/namematch"
)

// RecommendInput identifies one squad to build a lineup for.
type RecommendInput struct {
	SquadID      string
	Championship string
	Formation    int

	// Club fills in squad-only players when the payload carries no club.
	Club string
}

// Recommendation is one complete lineup with its advisory extras.
type Recommendation struct {
	Formation     formation.Code
	Lineup        selection.Lineup
	RotationHints []string
	GeneratedAt   time.Time
}

// RecommendationService orchestrates one recommendation: gather feeds,
// normalize, resolve availability, enrich, score, select. Only the squad
// fetch can fail it; every other source degrades to an empty payload.
type RecommendationService struct {
	sources Sources
	cfg     scoring.Config
	logger  *slog.Logger
	now     func() time.Time
}

func NewRecommendationService(sources Sources, cfg scoring.Config, logger *slog.Logger) *RecommendationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RecommendationService{
		sources: sources,
		cfg:     cfg,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *RecommendationService) Recommend(ctx context.Context, input RecommendInput) (Recommendation, error) {
	ctx, span := startUsecaseSpan(ctx, "RecommendationService.Recommend")
	defer span.End()

	input.SquadID = strings.TrimSpace(input.SquadID)
	if input.SquadID == "" {
		return Recommendation{}, fmt.Errorf("%w: squad_id is required", ErrInvalidInput)
	}
	code := formation.Default
	if input.Formation != 0 {
		parsed, ok := formation.Parse(input.Formation)
		if !ok {
			return Recommendation{}, fmt.Errorf("%w: unknown formation %d", ErrInvalidInput, input.Formation)
		}
		code = parsed
	}
	if s.sources.Squad == nil {
		return Recommendation{}, fmt.Errorf("%w: squad source is not configured", ErrDependencyUnavailable)
	}

	raw, err := s.sources.Squad.Squad(ctx, input.SquadID)
	if err != nil {
		return Recommendation{}, fmt.Errorf("fetch squad %s: %w", input.SquadID, err)
	}
	doc := roster.ParseSquadDocument(raw)
	if len(doc.Members) == 0 {
		return Recommendation{}, fmt.Errorf("%w: squad %s has no members", ErrNotFound, input.SquadID)
	}

	f := s.gather(ctx, input.Championship)
	now := s.now()

	players := roster.Normalize(doc, roster.NewPool(f.pool), input.Club)
	scored := s.scoreAll(players, f, now)
	lineup := selection.Select(scored, code, s.cfg)

	return Recommendation{
		Formation:     code,
		Lineup:        lineup,
		RotationHints: s.rotationHints(players, f.lineups),
		GeneratedAt:   now,
	}, nil
}

// gather fans out to every configured source and joins. A failed source
// logs and leaves its feed empty; the recommendation proceeds with what
// arrived.
func (s *RecommendationService) gather(ctx context.Context, championship string) feeds {
	ctx, span := startUsecaseSpan(ctx, "RecommendationService.gather")
	defer span.End()

	var f feeds
	var wg conc.WaitGroup
	if src := s.sources.Pool; src != nil {
		wg.Go(func() {
			f.pool = fetchFeed(ctx, s.logger, "pool", func() ([]roster.PoolEntry, error) {
				return src.Pool(ctx, championship)
			})
		})
	}
	if src := s.sources.Injuries; src != nil {
		wg.Go(func() {
			f.signals = fetchFeed(ctx, s.logger, "injuries", func() (availability.Signals, error) {
				return src.InjurySignals(ctx, championship)
			})
		})
	}
	if src := s.sources.Schedule; src != nil {
		wg.Go(func() {
			f.schedule = fetchFeed(ctx, s.logger, "schedule", func() (Schedule, error) {
				return src.Schedule(ctx, championship)
			})
		})
	}
	if src := s.sources.Results; src != nil {
		wg.Go(func() {
			f.results = fetchFeed(ctx, s.logger, "results", func() ([]matchcontext.MatchResult, error) {
				return src.Results(ctx, championship)
			})
		})
	}
	if src := s.sources.Transfers; src != nil {
		wg.Go(func() {
			f.transfers = fetchFeed(ctx, s.logger, "transfers", func() ([]matchcontext.Transfer, error) {
				return src.Transfers(ctx, championship)
			})
		})
	}
	if src := s.sources.Lineups; src != nil {
		wg.Go(func() {
			f.lineups = fetchFeed(ctx, s.logger, "lineups", func() ([]matchcontext.LineupRecord, error) {
				return src.Lineups(ctx, championship)
			})
		})
	}
	wg.Wait()

	// News folds into the availability signals, so it joins after them.
	if src := s.sources.News; src != nil {
		explained := fetchFeed(ctx, s.logger, "news", func() (map[string]time.Time, error) {
			return src.AbsenceExplained(ctx, championship)
		})
		if len(explained) > 0 {
			f.signals.AbsenceExplained = explained
		}
	}
	return f
}

// fetchFeed runs one source call, mapping failure to the zero value.
func fetchFeed[T any](ctx context.Context, logger *slog.Logger, name string, load func() (T, error)) T {
	value, err := load()
	if err != nil {
		logger.WarnContext(ctx, "source degraded to empty payload",
			slog.String("source", name), slog.Any("error", err))
		var zero T
		return zero
	}
	return value
}

func (s *RecommendationService) scoreAll(players []player.Player, f feeds, now time.Time) []scoring.ScoredPlayer {
	scored := make([]scoring.ScoredPlayer, 0, len(players))
	for _, p := range players {
		res := availability.Resolve(p.Name(), p.Club, p.Suspended, f.signals, now)
		ctx := s.buildContext(p, f, now)
		score := scoring.Score(p, res, ctx, s.cfg)

		sp := scoring.ScoredPlayer{Player: p, Availability: res, Score: score}
		if score == 0 {
			sp.Reason = scoring.ZeroReason(res)
		} else {
			sp.Reason = scoring.LowScoreReason(p, score, s.cfg)
		}
		scored = append(scored, sp)
	}
	return scored
}

func (s *RecommendationService) buildContext(p player.Player, f feeds, now time.Time) matchcontext.Context {
	ctx := matchcontext.Context{
		ElapsedMatchdays: f.schedule.ElapsedMatchdays,
	}
	if opp, ok := matchcontext.OpponentFor(p.Club, f.schedule.Table, f.schedule.Fixtures); ok {
		ctx.Opponent = &opp
	}
	if form, ok := matchcontext.TeamFormFor(p.Club, f.results); ok {
		ctx.TeamForm = &form
	}
	if len(p.RecentMatches) > 0 {
		ranks, _ := namematch.LookupByClub(p.Club, f.schedule.OpponentRankByClubRound)
		form := matchcontext.RecentFormFor(p, ranks, f.schedule.Table.TotalTeams)
		ctx.RecentForm = &form
	}
	ctx.RecentlyTransferred = matchcontext.TransferredRecently(p.Name(), f.transfers, now)
	ctx.RecentMatchLoad = matchcontext.MatchLoad(p.RecentMatches, f.schedule.RoundDates, now)
	if at, ok := namematch.LookupByClub(p.Club, f.schedule.NextMatchAt); ok {
		ctx.NextMatchAt = at
	}
	return ctx
}

// rotationHints surfaces low co-start pairs alongside the lineup. The
// score engine deliberately does not consult them.
func (s *RecommendationService) rotationHints(players []player.Player, lineups []matchcontext.LineupRecord) []string {
	if len(lineups) == 0 {
		return nil
	}
	pairs := matchcontext.RotationPairs(players, lineups, matchcontext.DefaultCoStartThreshold)
	if len(pairs) == 0 {
		return nil
	}
	hints := make([]string, 0, len(pairs))
	for key := range pairs {
		hints = append(hints, matchcontext.RotationPairLabel(key))
	}
	sort.Strings(hints)
	return hints
}
