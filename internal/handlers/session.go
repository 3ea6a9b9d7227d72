package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/studyloop/studyloop-backend/internal/services"
)

type SessionHandler struct {
	planService services.PlanService
}

func NewSessionHandler(planService services.PlanService) *SessionHandler {
	return &SessionHandler{planService: planService}
}

func (sh *SessionHandler) Complete(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", fmt.Errorf("invalid session id"))
		return
	}
	var req struct {
		ActualMinutes    *int     `json:"actual_minutes"`
		PerformanceScore *float64 `json:"performance_score"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", fmt.Errorf("invalid request body"))
		return
	}
	ok, err := sh.planService.CompleteSession(c.Request.Context(), sessionID, req.PerformanceScore, req.ActualMinutes)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "session_complete_failed", err)
		return
	}
	if !ok {
		RespondError(c, http.StatusNotFound, "session_not_found", fmt.Errorf("session not found"))
		return
	}
	RespondOK(c, gin.H{"success": true})
}
