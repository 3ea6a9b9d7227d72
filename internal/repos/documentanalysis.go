package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studyloop/studyloop-backend/internal/logger"
	"github.com/studyloop/studyloop-backend/internal/types"
)

type DocumentAnalysisRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, row *types.DocumentAnalysis) error
	GetByDocumentID(ctx context.Context, tx *gorm.DB, documentID uuid.UUID) (*types.DocumentAnalysis, error)
	GetByDocumentIDs(ctx context.Context, tx *gorm.DB, documentIDs []uuid.UUID) ([]*types.DocumentAnalysis, error)
}

type documentAnalysisRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDocumentAnalysisRepo(db *gorm.DB, baseLog *logger.Logger) DocumentAnalysisRepo {
	return &documentAnalysisRepo{db: db, log: baseLog.With("repo", "DocumentAnalysisRepo")}
}

func (r *documentAnalysisRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.DocumentAnalysis) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if row == nil {
		return nil
	}

	// One analysis per document.
	return transaction.WithContext(ctx).
		Where("document_id = ?", row.DocumentID).
		Assign(row).
		FirstOrCreate(row).Error
}

func (r *documentAnalysisRepo) GetByDocumentID(ctx context.Context, tx *gorm.DB, documentID uuid.UUID) (*types.DocumentAnalysis, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.DocumentAnalysis
	err := transaction.WithContext(ctx).
		Where("document_id = ?", documentID).
		First(&result).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (r *documentAnalysisRepo) GetByDocumentIDs(ctx context.Context, tx *gorm.DB, documentIDs []uuid.UUID) ([]*types.DocumentAnalysis, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.DocumentAnalysis
	if len(documentIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("document_id IN ?", documentIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
