package scoring

import (
	"math"
	"time"

	"github.com/onzecoach/onze-coach/internal/domain/availability"
	"github.com/onzecoach/onze-coach/internal/domain/matchcontext"
	"github.com/onzecoach/onze-coach/internal/domain/player"
)

// Reason tags a low or zero score with the condition that best explains it.
type Reason string

const (
	ReasonNone          Reason = ""
	ReasonTooFewMatches Reason = "TOO_FEW_MATCHES"
	ReasonRarelyStarts  Reason = "RARELY_STARTS"
	ReasonLimitedForm   Reason = "LIMITED_FORM"
	ReasonInjured       Reason = "INJURED"
	ReasonSuspended     Reason = "SUSPENDED"
)

// Label renders the reason as a short human-readable phrase.
func (r Reason) Label() string {
	switch r {
	case ReasonTooFewMatches:
		return "too few matches played"
	case ReasonRarelyStarts:
		return "rarely in the starting eleven"
	case ReasonLimitedForm:
		return "limited recent form"
	case ReasonInjured:
		return "injured"
	case ReasonSuspended:
		return "suspended"
	default:
		return ""
	}
}

// ScoredPlayer is a player together with its recommendation score.
type ScoredPlayer struct {
	Player       player.Player
	Availability availability.Resolution
	Score        float64
	Reason       Reason
}

// Score computes the recommendation score in [0,10]. Out and Suspended
// short-circuit to zero before anything else.
func Score(p player.Player, res availability.Resolution, ctx matchcontext.Context, cfg Config) float64 {
	if res.Status.Terminal() {
		return 0
	}

	star := starEligible(p, res, cfg.Star)
	var base float64
	if star {
		base = starBase(p, cfg)
	} else {
		base = standardBase(p, res, ctx, cfg)
	}

	score := base * multipliers(p, res, ctx)

	// Thin samples get dampened so one lucky rating cannot outrank an
	// established starter. Star mode is the deliberate exception: it was
	// chosen because the sample is thin.
	if !star && p.Matches < cfg.MinStarterMatches {
		score *= float64(p.Matches) / float64(cfg.MinStarterMatches)
	}

	return round2(clamp(score, 0, 10))
}

// LowScoreReason picks the tag for a nonzero score below the threshold.
func LowScoreReason(p player.Player, score float64, cfg Config) Reason {
	if score <= 0 || score >= cfg.LowScoreThreshold {
		return ReasonNone
	}
	if p.Matches < cfg.MinStarterMatches {
		return ReasonTooFewMatches
	}
	if p.StartShare >= 0 && p.StartShare < 0.5 {
		return ReasonRarelyStarts
	}
	return ReasonLimitedForm
}

// ZeroReason explains a hard zero for user-facing leftovers.
func ZeroReason(res availability.Resolution) Reason {
	switch res.Status {
	case availability.StatusSuspended:
		return ReasonSuspended
	case availability.StatusOut:
		return ReasonInjured
	default:
		return ReasonNone
	}
}

// starEligible decides whether the quotation-led formula applies: the
// player's sample must be too thin to trust AND the absence must be
// independently explained, so the gap reads as duty, not decline.
func starEligible(p player.Player, res availability.Resolution, star StarConfig) bool {
	explained := res.AbsenceExplained || res.Status == availability.StatusAbsenceExplained
	if !explained {
		return false
	}
	thin := p.Matches < star.MinMatches
	switch {
	case thin && p.Quotation >= star.HighQuotation:
		return true
	case len(p.RecentMatches) == 0 && p.Quotation >= star.NoFormQuotation:
		return true
	case p.StartShare >= star.HighStartShare && thin && p.Quotation >= star.ModerateQuotation:
		return true
	}
	return false
}

func starBase(p player.Player, cfg Config) float64 {
	star := cfg.Star
	quotationScore := clamp(p.Quotation/5, 0, 10)
	season := p.SeasonAverage
	if season <= 0 {
		season = cfg.NeutralAverage
	}
	startShare := p.StartShare
	if startShare < 0 {
		startShare = 0.5
	}

	base := star.QuotationWeight*quotationScore +
		star.SeasonWeight*season +
		star.StartShareWeight*startShare*10
	if p.Position == player.PositionAttacker && p.Quotation >= star.AttackerBonusQuotation {
		base += star.AttackerBonus
	}
	return base * star.Prudence
}

func standardBase(p player.Player, res availability.Resolution, ctx matchcontext.Context, cfg Config) float64 {
	w := cfg.Weights
	return w.RecentForm*recentFormTerm(p, ctx, cfg) +
		w.Regularity*regularityTerm(p, ctx, cfg) +
		w.PositionPerformance*performanceTerm(p, cfg) +
		w.Quotation*clamp(p.Quotation/5, 0, 10) +
		w.Momentum*clamp(cfg.NeutralAverage+matchcontext.Momentum(p.RecentMatches), 0, 10) +
		w.MatchContext*matchContextTerm(p, ctx, cfg) +
		w.Availability*availabilityFactor(res, ctx.NextMatchAt)*10
}

func recentFormTerm(p player.Player, ctx matchcontext.Context, cfg Config) float64 {
	if ctx.RecentForm != nil {
		return clamp(ctx.RecentForm.Score, 0, 10)
	}
	if p.SeasonAverage > 0 {
		return clamp(p.SeasonAverage, 0, 10)
	}
	return cfg.NeutralAverage
}

func regularityTerm(p player.Player, ctx matchcontext.Context, cfg Config) float64 {
	if ctx.ElapsedMatchdays <= 0 {
		return cfg.NeutralAverage
	}
	return clamp(10*float64(p.Matches)/float64(ctx.ElapsedMatchdays), 0, 10)
}

// performanceTerm scores the position-specific output per match played.
func performanceTerm(p player.Player, cfg Config) float64 {
	if p.Matches == 0 {
		return cfg.NeutralAverage
	}
	matches := float64(p.Matches)
	goalsRate := float64(p.Goals) / matches
	assistRate := float64(p.Assists) / matches

	switch p.Position {
	case player.PositionAttacker:
		rate := (float64(p.Goals) + p.Advanced.ExpectedGoals + float64(p.Assists)) / matches
		return clamp(rate*20, 0, 10)
	case player.PositionMidfielder:
		term := assistRate*20 + goalsRate*15
		if p.Advanced.HasPassing {
			term += p.Advanced.PassAccuracy * 5
		} else {
			term += 2.5
		}
		return clamp(term, 0, 10)
	case player.PositionDefender:
		if p.Advanced.HasDefensive {
			rate := float64(p.Advanced.Tackles+p.Advanced.Interceptions) / matches
			return clamp(rate*2, 0, 10)
		}
		return clamp((goalsRate+assistRate)*25, 0, 10)
	case player.PositionGoalkeeper:
		ratio := float64(p.Advanced.CleanSheets) / matches
		return clamp(ratio*15, 0, 10)
	}
	return cfg.NeutralAverage
}

// matchContextTerm blends opponent rank, venue and a position-aware matchup
// reading of the opponent's goal totals.
func matchContextTerm(p player.Player, ctx matchcontext.Context, cfg Config) float64 {
	opp := ctx.Opponent
	if opp == nil {
		return cfg.NeutralAverage
	}

	rankScore := cfg.NeutralAverage
	if opp.Rank > 0 && opp.TotalTeams > 1 {
		// rank 1 is the hardest draw
		rankScore = 10 * float64(opp.Rank-1) / float64(opp.TotalTeams-1)
	}

	venueScore := cfg.NeutralAverage
	if opp.HomeKnown {
		if opp.Home {
			venueScore = 7.5
		} else {
			venueScore = 2.5
		}
	}

	return 0.4*rankScore + 0.3*venueScore + 0.3*matchupScore(p.Position, opp, cfg)
}

func matchupScore(pos player.Position, opp *matchcontext.Opponent, cfg Config) float64 {
	attack := cfg.NeutralAverage
	if opp.LeagueAvgAgainst > 0 {
		// leaky opponent defence favours forwards
		attack = clamp(5*float64(opp.GoalsAgainst)/opp.LeagueAvgAgainst, 0, 10)
	}
	defence := cfg.NeutralAverage
	if opp.LeagueAvgFor > 0 {
		// shy opponent attack favours the back line
		defence = clamp(10-5*float64(opp.GoalsFor)/opp.LeagueAvgFor, 0, 10)
	}

	switch pos {
	case player.PositionAttacker:
		return attack
	case player.PositionGoalkeeper, player.PositionDefender:
		return defence
	default:
		return (attack + defence) / 2
	}
}

// availabilityFactor maps the resolution onto the fineness scale. Doubtful
// combined with an explained absence keeps the harsher factor.
func availabilityFactor(res availability.Resolution, nextMatch time.Time) float64 {
	factor := 1.0
	switch res.Status {
	case availability.StatusDoubtful:
		factor = 0.7
	case availability.StatusAbsenceExplained:
		factor = 0.3
	}
	if res.AbsenceExplained && factor > 0.3 {
		factor = 0.3
	}
	if res.ExpectedReturn != nil && !nextMatch.IsZero() {
		switch {
		case res.ExpectedReturn.After(nextMatch):
			return 0
		case nextMatch.Sub(*res.ExpectedReturn) <= 48*time.Hour && factor > 0.5:
			factor = 0.5
		}
	}
	return factor
}

func multipliers(p player.Player, res availability.Resolution, ctx matchcontext.Context) float64 {
	m := 1.0
	if opp := ctx.Opponent; opp != nil {
		m *= opponentTierMultiplier(opp.Rank, opp.TotalTeams)
		if opp.HomeKnown {
			if opp.Home {
				m *= 1.08
			} else {
				m *= 0.92
			}
		}
		m *= matchupMultiplier(p.Position, opp)
	}
	m *= fatigueMultiplier(ctx.RecentMatchLoad)
	if form := ctx.TeamForm; form != nil {
		switch {
		case form.Wins >= 4:
			m *= 1.12
		case form.Wins >= 2:
			// holding steady
		default:
			m *= 0.9
		}
	}
	m *= returnDateMultiplier(res, ctx.NextMatchAt)
	switch {
	case p.RedCards > 0:
		m *= 0.7
	case p.YellowCards >= 4:
		m *= 0.95
	}
	if ctx.RecentlyTransferred {
		m *= 0.92
	}
	return m
}

func opponentTierMultiplier(rank, totalTeams int) float64 {
	if rank <= 0 || totalTeams <= 0 {
		return 1.0
	}
	switch {
	case rank <= 3:
		return 0.85
	case rank > totalTeams-2:
		return 1.25
	case rank > totalTeams-4:
		return 1.15
	case rank <= 10:
		return 0.95
	default:
		return 1.0
	}
}

func matchupMultiplier(pos player.Position, opp *matchcontext.Opponent) float64 {
	attack, defence := 1.0, 1.0
	if opp.LeagueAvgAgainst > 0 {
		attack = float64(opp.GoalsAgainst) / opp.LeagueAvgAgainst
	}
	if opp.LeagueAvgFor > 0 && opp.GoalsFor > 0 {
		defence = opp.LeagueAvgFor / float64(opp.GoalsFor)
	}

	var ratio float64
	switch pos {
	case player.PositionAttacker:
		ratio = attack
	case player.PositionGoalkeeper, player.PositionDefender:
		ratio = defence
	default:
		ratio = (attack + defence) / 2
	}
	return clamp(ratio, 0.9, 1.1)
}

func fatigueMultiplier(load int) float64 {
	switch {
	case load <= 1:
		return 1.0
	case load == 2:
		return 0.95
	case load == 3:
		return 0.88
	case load == 4:
		return 0.8
	default:
		return 0.75
	}
}

func returnDateMultiplier(res availability.Resolution, nextMatch time.Time) float64 {
	if res.ExpectedReturn == nil || nextMatch.IsZero() {
		return 1.0
	}
	switch {
	case res.ExpectedReturn.After(nextMatch):
		return 0
	case nextMatch.Sub(*res.ExpectedReturn) <= 48*time.Hour:
		return 0.7
	default:
		return 1.0
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
