package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/studyloop/studyloop-backend/internal/logger"
	"github.com/studyloop/studyloop-backend/internal/repos"
	"github.com/studyloop/studyloop-backend/internal/scheduler"
	"github.com/studyloop/studyloop-backend/internal/types"
)

// DocumentAnalysisResult is the narrow contract the scheduler consumes:
// the analyzer's topic list plus its study-hours estimate.
type DocumentAnalysisResult struct {
	Topics              []scheduler.Topic `json:"topics"`
	EstimatedStudyHours float64           `json:"estimated_study_hours"`
}

// AnalysisService stores and serves the external analyzer's output.
// Topic extraction itself happens outside this service.
type AnalysisService interface {
	SaveAnalysis(ctx context.Context, documentID uuid.UUID, topics []scheduler.Topic, estimatedHours float64) error
	GetDocumentAnalysis(ctx context.Context, documentID uuid.UUID) (*DocumentAnalysisResult, error)
}

type analysisService struct {
	db           *gorm.DB
	log          *logger.Logger
	analysisRepo repos.DocumentAnalysisRepo
}

func NewAnalysisService(db *gorm.DB, baseLog *logger.Logger, analysisRepo repos.DocumentAnalysisRepo) AnalysisService {
	return &analysisService{
		db:           db,
		log:          baseLog.With("service", "AnalysisService"),
		analysisRepo: analysisRepo,
	}
}

func (s *analysisService) SaveAnalysis(ctx context.Context, documentID uuid.UUID, topics []scheduler.Topic, estimatedHours float64) error {
	if documentID == uuid.Nil {
		return fmt.Errorf("document id required")
	}
	raw, err := json.Marshal(topics)
	if err != nil {
		return fmt.Errorf("marshal topics: %w", err)
	}
	row := &types.DocumentAnalysis{
		ID:             uuid.New(),
		DocumentID:     documentID,
		Topics:         datatypes.JSON(raw),
		EstimatedHours: estimatedHours,
	}
	if err := s.analysisRepo.Upsert(ctx, nil, row); err != nil {
		return fmt.Errorf("store analysis: %w", err)
	}
	return nil
}

// GetDocumentAnalysis returns nil when no analysis exists; callers fall
// back to a default estimate rather than failing the plan.
func (s *analysisService) GetDocumentAnalysis(ctx context.Context, documentID uuid.UUID) (*DocumentAnalysisResult, error) {
	row, err := s.analysisRepo.GetByDocumentID(ctx, nil, documentID)
	if err != nil {
		return nil, fmt.Errorf("load analysis: %w", err)
	}
	if row == nil {
		return nil, nil
	}
	var topics []scheduler.Topic
	if len(row.Topics) > 0 {
		if err := json.Unmarshal(row.Topics, &topics); err != nil {
			return nil, fmt.Errorf("decode stored topics: %w", err)
		}
	}
	return &DocumentAnalysisResult{
		Topics:              topics,
		EstimatedStudyHours: row.EstimatedHours,
	}, nil
}
