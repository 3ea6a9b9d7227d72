package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studyloop/studyloop-backend/internal/logger"
	"github.com/studyloop/studyloop-backend/internal/repos"
	"github.com/studyloop/studyloop-backend/internal/requestdata"
	"github.com/studyloop/studyloop-backend/internal/types"
)

type DocumentService interface {
	RegisterDocument(ctx context.Context, name string, pageCount int) (*types.Document, error)
	GetUserDocuments(ctx context.Context) ([]*types.Document, error)
	GetOwnedDocument(ctx context.Context, documentID uuid.UUID) (*types.Document, error)
}

type documentService struct {
	db           *gorm.DB
	log          *logger.Logger
	documentRepo repos.DocumentRepo
}

func NewDocumentService(db *gorm.DB, baseLog *logger.Logger, documentRepo repos.DocumentRepo) DocumentService {
	return &documentService{
		db:           db,
		log:          baseLog.With("service", "DocumentService"),
		documentRepo: documentRepo,
	}
}

func (ds *documentService) RegisterDocument(ctx context.Context, name string, pageCount int) (*types.Document, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, fmt.Errorf("request data not set in context")
	}
	if name == "" {
		return nil, fmt.Errorf("document name required")
	}

	doc := &types.Document{
		ID:        uuid.New(),
		UserID:    rd.UserID,
		Name:      name,
		PageCount: pageCount,
		Status:    "uploaded",
	}
	if _, err := ds.documentRepo.Create(ctx, nil, []*types.Document{doc}); err != nil {
		ds.log.Error("RegisterDocument failed", "error", err, "user_id", rd.UserID)
		return nil, fmt.Errorf("create document: %w", err)
	}
	return doc, nil
}

func (ds *documentService) GetUserDocuments(ctx context.Context) ([]*types.Document, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, fmt.Errorf("request data not set in context")
	}
	docs, err := ds.documentRepo.GetByUserID(ctx, nil, rd.UserID)
	if err != nil {
		return nil, fmt.Errorf("load documents: %w", err)
	}
	return docs, nil
}

// GetOwnedDocument resolves a document id for the current user; a
// missing or foreign document returns nil without error so callers can
// apply their own soft-failure policy.
func (ds *documentService) GetOwnedDocument(ctx context.Context, documentID uuid.UUID) (*types.Document, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, fmt.Errorf("request data not set in context")
	}
	docs, err := ds.documentRepo.GetByIDs(ctx, nil, []uuid.UUID{documentID})
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	if len(docs) == 0 || docs[0].UserID != rd.UserID {
		return nil, nil
	}
	return docs[0], nil
}
