package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campushq/attendance-insights-api/internal/dto"
	"github.com/campushq/attendance-insights-api/internal/models"
	appErrors "github.com/campushq/attendance-insights-api/pkg/errors"
	"github.com/campushq/attendance-insights-api/pkg/response"
)

type seeder interface {
	Seed(ctx context.Context, actorType models.ActorType, force bool) (*dto.SeedResult, error)
}

// SeedHandler exposes the explicit sample-data seeding operation.
type SeedHandler struct {
	seed seeder
}

// NewSeedHandler constructs the seed handler.
func NewSeedHandler(seed seeder) *SeedHandler {
	return &SeedHandler{seed: seed}
}

type seedRequest struct {
	Type  string `json:"type" binding:"omitempty,oneof=student instructor"`
	Force bool   `json:"force"`
}

// Seed inserts synthetic attendance events for the requested actor type.
func (h *SeedHandler) Seed(c *gin.Context) {
	if h.seed == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}

	var req seedRequest
	// an empty body is a valid request for the defaults
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid seed payload"))
		return
	}
	actorType := models.ActorType(req.Type)
	if req.Type == "" {
		actorType = models.ActorInstructor
	}

	result, err := h.seed.Seed(c.Request.Context(), actorType, req.Force)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}
