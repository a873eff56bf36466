package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/jobmatch/internal/services"
)

type MatchHandler struct {
	svc services.MatchService
}

func NewMatchHandler(svc services.MatchService) *MatchHandler {
	return &MatchHandler{svc: svc}
}

func (h *MatchHandler) Compute(c *gin.Context) {
	out, err := h.svc.Compute(c.Request.Context(), c.Param("resume_id"), nil)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *MatchHandler) Get(c *gin.Context) {
	resumeID := c.Param("resume_id")
	matches, err := h.svc.Get(c.Request.Context(), resumeID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, services.MatchOutcome{
		ResumeID:     resumeID,
		TotalMatches: len(matches),
		Matches:      matches,
	})
}
