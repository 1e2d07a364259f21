package httpapi

import (
	"time"

	"github.com/onzecoach/onze-coach/internal/domain/scoring"
	"github.com/onzecoach/onze-coach/internal/usecase"
)

type recommendRequest struct {
	SquadID      string `json:"squad_id" validate:"required"`
	Championship string `json:"championship" validate:"required"`
	Formation    int    `json:"formation" validate:"omitempty,min=0"`
	Club         string `json:"club" validate:"omitempty,max=100"`
}

type bulkRecommendRequest struct {
	Championship string   `json:"championship" validate:"required"`
	Formation    int      `json:"formation" validate:"omitempty,min=0"`
	SquadIDs     []string `json:"squad_ids" validate:"required,min=1,dive,required"`
}

type positionCountsDTO struct {
	Goalkeepers int `json:"goalkeepers"`
	Defenders   int `json:"defenders"`
	Midfielders int `json:"midfielders"`
	Attackers   int `json:"attackers"`
}

type formationDTO struct {
	Code          int               `json:"code"`
	Label         string            `json:"label"`
	Starters      positionCountsDTO `json:"starters"`
	BenchTemplate positionCountsDTO `json:"benchTemplate"`
}

type scoredPlayerDTO struct {
	ID             string  `json:"id,omitempty"`
	Name           string  `json:"name"`
	Club           string  `json:"club,omitempty"`
	Position       string  `json:"position"`
	Score          float64 `json:"score"`
	Status         string  `json:"status"`
	ExpectedReturn string  `json:"expectedReturn,omitempty"`
	Reason         string  `json:"reason,omitempty"`
	ReasonLabel    string  `json:"reasonLabel,omitempty"`
}

type recommendationDTO struct {
	Formation     string            `json:"formation"`
	Starters      []scoredPlayerDTO `json:"starters"`
	Substitutes   []scoredPlayerDTO `json:"substitutes"`
	Leftovers     []scoredPlayerDTO `json:"leftovers,omitempty"`
	RotationHints []string          `json:"rotationHints,omitempty"`
	GeneratedAt   time.Time         `json:"generatedAt"`
}

type bulkItemDTO struct {
	SquadID        string             `json:"squadId"`
	Recommendation *recommendationDTO `json:"recommendation,omitempty"`
	Error          string             `json:"error,omitempty"`
}

func recommendationToDTO(item usecase.Recommendation) recommendationDTO {
	return recommendationDTO{
		Formation:     item.Formation.String(),
		Starters:      scoredPlayersToDTO(item.Lineup.Starters),
		Substitutes:   scoredPlayersToDTO(item.Lineup.Substitutes),
		Leftovers:     scoredPlayersToDTO(item.Lineup.Leftovers),
		RotationHints: item.RotationHints,
		GeneratedAt:   item.GeneratedAt,
	}
}

func scoredPlayersToDTO(list []scoring.ScoredPlayer) []scoredPlayerDTO {
	out := make([]scoredPlayerDTO, 0, len(list))
	for _, sp := range list {
		dto := scoredPlayerDTO{
			ID:          sp.Player.ID,
			Name:        sp.Player.Name(),
			Club:        sp.Player.Club,
			Position:    string(sp.Player.Position),
			Score:       sp.Score,
			Status:      string(sp.Availability.Status),
			Reason:      string(sp.Reason),
			ReasonLabel: sp.Reason.Label(),
		}
		if sp.Availability.ExpectedReturn != nil {
			dto.ExpectedReturn = sp.Availability.ExpectedReturn.Format(time.RFC3339)
		}
		out = append(out, dto)
	}
	return out
}
