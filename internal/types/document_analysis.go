package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DocumentAnalysis stores the analyzer's output for one document: the
// extracted topic list plus its overall study-hours estimate. The
// analyzer itself is an external collaborator; this service only keeps
// and serves what it produced.
type DocumentAnalysis struct {
	ID             uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	DocumentID     uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"document_id"`
	Document       *Document      `gorm:"constraint:OnDelete:CASCADE;foreignKey:DocumentID;references:ID" json:"document,omitempty"`
	Topics         datatypes.JSON `gorm:"column:topics;type:jsonb" json:"topics"`
	EstimatedHours float64        `gorm:"column:estimated_hours;not null;default:0" json:"estimated_hours"`
	CreatedAt      time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (DocumentAnalysis) TableName() string { return "document_analysis" }
