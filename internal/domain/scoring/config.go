// Package scoring computes the recommendation score in [0,10] for one
// player given availability and match context. The engine is a pure
// function of its inputs: same player, resolution and context always yield
// the same score.
package scoring

// Weights are the standard-mode term weights. They are empirically tuned
// and intentionally overridable rather than re-derived.
type Weights struct {
	RecentForm          float64
	Regularity          float64
	PositionPerformance float64
	Quotation           float64
	Momentum            float64
	MatchContext        float64
	Availability        float64
}

// DefaultWeights returns the tuned standard-mode weights.
func DefaultWeights() Weights {
	return Weights{
		RecentForm:          0.25,
		Regularity:          0.10,
		PositionPerformance: 0.25,
		Quotation:           0.05,
		Momentum:            0.05,
		MatchContext:        0.25,
		Availability:        0.15,
	}
}

// StarConfig controls star-returning mode: the quotation-led formula used
// when a high-profile player's sample is too thin to trust.
type StarConfig struct {
	// Eligibility thresholds.
	MinMatches        int     // below this, the sample is thin
	HighQuotation     float64 // thin sample only excuses expensive players
	NoFormQuotation   float64 // no recent matches at all needs a higher bar
	HighStartShare    float64 // near-automatic starter
	ModerateQuotation float64 // floor for the start-share trigger

	// Blend weights over quotation score, season average and start share.
	QuotationWeight  float64
	SeasonWeight     float64
	StartShareWeight float64

	// Flat attacker bonus above AttackerBonusQuotation.
	AttackerBonusQuotation float64
	AttackerBonus          float64

	// Prudence scales the whole star base down: the mode is a bet, not a
	// measurement.
	Prudence float64
}

// DefaultStarConfig returns the tuned star-mode constants.
func DefaultStarConfig() StarConfig {
	return StarConfig{
		MinMatches:        6,
		HighQuotation:     30,
		NoFormQuotation:   35,
		HighStartShare:    0.8,
		ModerateQuotation: 15,

		QuotationWeight:  0.5,
		SeasonWeight:     0.3,
		StartShareWeight: 0.2,

		AttackerBonusQuotation: 35,
		AttackerBonus:          0.5,

		Prudence: 0.85,
	}
}

// Config bundles every tunable of the engine.
type Config struct {
	Weights Weights
	Star    StarConfig

	// MinStarterMatches dampens thin samples: below it the score scales
	// by matches/MinStarterMatches.
	MinStarterMatches int

	// LowScoreThreshold is the score under which the selector attaches a
	// reason tag.
	LowScoreThreshold float64

	// NeutralAverage substitutes for a missing season average.
	NeutralAverage float64
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() Config {
	return Config{
		Weights:           DefaultWeights(),
		Star:              DefaultStarConfig(),
		MinStarterMatches: 5,
		LowScoreThreshold: 4.0,
		NeutralAverage:    5.0,
	}
}
