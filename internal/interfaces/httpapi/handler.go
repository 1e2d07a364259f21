package httpapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"

	"github.com/onzecoach/onze-coach/internal/domain/formation"
	"github.com/onzecoach/onze-coach/internal/domain/player"
	"github.com/onzecoach/onze-coach/internal/usecase"
)

type Handler struct {
	recommendService *usecase.RecommendationService
	bulkService      *usecase.BulkService
	logger           *slog.Logger
	validator        *validator.Validate
}

func NewHandler(
	recommendService *usecase.RecommendationService,
	bulkService *usecase.BulkService,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		recommendService: recommendService,
		bulkService:      bulkService,
		logger:           logger,
		validator:        validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ListFormations(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListFormations")
	defer span.End()

	codes := formation.Available()
	items := make([]formationDTO, 0, len(codes))
	for _, code := range codes {
		starters := code.Starters()
		bench := code.BenchTemplate()
		items = append(items, formationDTO{
			Code:  int(code),
			Label: code.String(),
			Starters: positionCountsDTO{
				Goalkeepers: starters[player.PositionGoalkeeper],
				Defenders:   starters[player.PositionDefender],
				Midfielders: starters[player.PositionMidfielder],
				Attackers:   starters[player.PositionAttacker],
			},
			BenchTemplate: positionCountsDTO{
				Goalkeepers: bench[player.PositionGoalkeeper],
				Defenders:   bench[player.PositionDefender],
				Midfielders: bench[player.PositionMidfielder],
				Attackers:   bench[player.PositionAttacker],
			},
		})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Recommend")
	defer span.End()

	var req recommendRequest
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.recommendService.Recommend(ctx, usecase.RecommendInput{
		SquadID:      req.SquadID,
		Championship: req.Championship,
		Formation:    req.Formation,
		Club:         req.Club,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "recommend failed", "squad_id", req.SquadID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, recommendationToDTO(item))
}

func (h *Handler) BulkRecommend(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.BulkRecommend")
	defer span.End()

	var req bulkRecommendRequest
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.bulkService.RecommendAll(ctx, usecase.BulkInput{
		Championship: req.Championship,
		Formation:    req.Formation,
		SquadIDs:     req.SquadIDs,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "bulk recommend failed", "squads", len(req.SquadIDs), "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]bulkItemDTO, 0, len(items))
	for _, item := range items {
		dto := bulkItemDTO{SquadID: item.SquadID}
		if item.Err != nil {
			dto.Error = item.Err.Error()
		} else {
			rec := recommendationToDTO(item.Recommendation)
			dto.Recommendation = &rec
		}
		out = append(out, dto)
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}
