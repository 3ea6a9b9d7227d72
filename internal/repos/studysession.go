package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studyloop/studyloop-backend/internal/logger"
	"github.com/studyloop/studyloop-backend/internal/types"
)

type StudySessionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.StudySession) ([]*types.StudySession, error)
	GetByIDAndUser(ctx context.Context, tx *gorm.DB, sessionID, userID uuid.UUID) (*types.StudySession, error)
	GetByPlanID(ctx context.Context, tx *gorm.DB, planID uuid.UUID) ([]*types.StudySession, error)
	Update(ctx context.Context, tx *gorm.DB, row *types.StudySession) error
}

type studySessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStudySessionRepo(db *gorm.DB, baseLog *logger.Logger) StudySessionRepo {
	return &studySessionRepo{db: db, log: baseLog.With("repo", "StudySessionRepo")}
}

func (r *studySessionRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.StudySession) ([]*types.StudySession, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rows) == 0 {
		return []*types.StudySession{}, nil
	}

	// Plans can carry hundreds of sessions; insert in batches.
	if err := transaction.WithContext(ctx).CreateInBatches(&rows, 100).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *studySessionRepo) GetByIDAndUser(ctx context.Context, tx *gorm.DB, sessionID, userID uuid.UUID) (*types.StudySession, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.StudySession
	err := transaction.WithContext(ctx).
		Where("id = ? AND user_id = ?", sessionID, userID).
		First(&result).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (r *studySessionRepo) GetByPlanID(ctx context.Context, tx *gorm.DB, planID uuid.UUID) ([]*types.StudySession, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.StudySession
	if planID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("plan_id = ?", planID).
		Order("scheduled_date ASC, created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *studySessionRepo) Update(ctx context.Context, tx *gorm.DB, row *types.StudySession) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if row == nil {
		return nil
	}
	return transaction.WithContext(ctx).Save(row).Error
}
