package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/studyloop/studyloop-backend/internal/scheduler"
	"github.com/studyloop/studyloop-backend/internal/services"
)

type PlanHandler struct {
	planService services.PlanService
}

func NewPlanHandler(planService services.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

type generatePlanRequest struct {
	ExamTitle        string     `json:"exam_title"`
	ExamDate         time.Time  `json:"exam_date" binding:"required"`
	StartDate        *time.Time `json:"start_date"`
	DocumentIDs      []string   `json:"document_ids" binding:"required"`
	LearningStyle    string     `json:"learning_style"`
	DailyTargetHours float64    `json:"daily_target_hours"`
	IncludeWeekends  *bool      `json:"include_weekends"`
	MasteryThreshold int        `json:"mastery_threshold"`
	PriorityModes    []string   `json:"priority_modes"`
}

func (ph *PlanHandler) Generate(c *gin.Context) {
	var req generatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", fmt.Errorf("invalid request body"))
		return
	}
	if len(req.DocumentIDs) == 0 {
		RespondError(c, http.StatusBadRequest, "invalid_request", fmt.Errorf("at least one document id required"))
		return
	}
	documentIDs := make([]uuid.UUID, 0, len(req.DocumentIDs))
	for _, raw := range req.DocumentIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_request", fmt.Errorf("invalid document id %q", raw))
			return
		}
		documentIDs = append(documentIDs, id)
	}
	priorityModes := make([]scheduler.Mode, 0, len(req.PriorityModes))
	for _, m := range req.PriorityModes {
		priorityModes = append(priorityModes, scheduler.Mode(m))
	}

	plan, err := ph.planService.GenerateStudyPlan(c.Request.Context(), services.GeneratePlanOptions{
		ExamTitle:        req.ExamTitle,
		ExamDate:         req.ExamDate,
		StartDate:        req.StartDate,
		DocumentIDs:      documentIDs,
		LearningStyle:    req.LearningStyle,
		DailyTargetHours: req.DailyTargetHours,
		IncludeWeekends:  req.IncludeWeekends,
		MasteryThreshold: req.MasteryThreshold,
		PriorityModes:    priorityModes,
	})
	if err != nil {
		if errors.Is(err, scheduler.ErrNoAvailableDays) {
			RespondError(c, http.StatusUnprocessableEntity, "no_available_days", err)
			return
		}
		RespondError(c, http.StatusInternalServerError, "plan_generation_failed", err)
		return
	}
	RespondOK(c, plan)
}

func (ph *PlanHandler) Get(c *gin.Context) {
	planID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", fmt.Errorf("invalid plan id"))
		return
	}
	plan, err := ph.planService.GetPlan(c.Request.Context(), planID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "plan_lookup_failed", err)
		return
	}
	if plan == nil {
		RespondError(c, http.StatusNotFound, "plan_not_found", fmt.Errorf("plan not found"))
		return
	}
	RespondOK(c, plan)
}

func (ph *PlanHandler) ListActive(c *gin.Context) {
	plans, err := ph.planService.GetActivePlans(c.Request.Context())
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "plan_list_failed", err)
		return
	}
	RespondOK(c, gin.H{"plans": plans})
}

func (ph *PlanHandler) UpdateStatus(c *gin.Context) {
	planID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", fmt.Errorf("invalid plan id"))
		return
	}
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", fmt.Errorf("invalid request body"))
		return
	}
	ok, err := ph.planService.UpdatePlanStatus(c.Request.Context(), planID, req.Status)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "plan_status_update_failed", err)
		return
	}
	if !ok {
		RespondError(c, http.StatusNotFound, "plan_not_found", fmt.Errorf("plan not found"))
		return
	}
	RespondOK(c, gin.H{"success": true})
}
