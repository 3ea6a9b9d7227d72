package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/studyloop/studyloop-backend/internal/scheduler"
	"github.com/studyloop/studyloop-backend/internal/services"
)

type DocumentHandler struct {
	documentService services.DocumentService
	analysisService services.AnalysisService
}

func NewDocumentHandler(documentService services.DocumentService, analysisService services.AnalysisService) *DocumentHandler {
	return &DocumentHandler{
		documentService: documentService,
		analysisService: analysisService,
	}
}

func (dh *DocumentHandler) Register(c *gin.Context) {
	var req struct {
		Name      string `json:"name"`
		PageCount int    `json:"page_count"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", fmt.Errorf("invalid request body"))
		return
	}
	doc, err := dh.documentService.RegisterDocument(c.Request.Context(), req.Name, req.PageCount)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "document_create_failed", err)
		return
	}
	RespondOK(c, doc)
}

func (dh *DocumentHandler) List(c *gin.Context) {
	docs, err := dh.documentService.GetUserDocuments(c.Request.Context())
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "document_list_failed", err)
		return
	}
	RespondOK(c, gin.H{"documents": docs})
}

// SaveAnalysis stores the external analyzer's output for an owned
// document. The analyzer runs outside this service and pushes results
// here once extraction finishes.
func (dh *DocumentHandler) SaveAnalysis(c *gin.Context) {
	documentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", fmt.Errorf("invalid document id"))
		return
	}
	var req struct {
		Topics              []scheduler.Topic `json:"topics"`
		EstimatedStudyHours float64           `json:"estimated_study_hours"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", fmt.Errorf("invalid request body"))
		return
	}

	doc, err := dh.documentService.GetOwnedDocument(c.Request.Context(), documentID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "document_lookup_failed", err)
		return
	}
	if doc == nil {
		RespondError(c, http.StatusNotFound, "document_not_found", fmt.Errorf("document not found"))
		return
	}
	if err := dh.analysisService.SaveAnalysis(c.Request.Context(), documentID, req.Topics, req.EstimatedStudyHours); err != nil {
		RespondError(c, http.StatusInternalServerError, "analysis_save_failed", err)
		return
	}
	RespondOK(c, gin.H{"success": true})
}

func (dh *DocumentHandler) GetAnalysis(c *gin.Context) {
	documentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", fmt.Errorf("invalid document id"))
		return
	}
	doc, err := dh.documentService.GetOwnedDocument(c.Request.Context(), documentID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "document_lookup_failed", err)
		return
	}
	if doc == nil {
		RespondError(c, http.StatusNotFound, "document_not_found", fmt.Errorf("document not found"))
		return
	}
	analysis, err := dh.analysisService.GetDocumentAnalysis(c.Request.Context(), documentID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "analysis_lookup_failed", err)
		return
	}
	if analysis == nil {
		RespondError(c, http.StatusNotFound, "analysis_not_found", fmt.Errorf("no analysis for document"))
		return
	}
	RespondOK(c, analysis)
}
