package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type StudyPlan struct {
	ID                  uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID              uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	User                *User           `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	ExamTitle           string          `gorm:"column:exam_title" json:"exam_title"`
	ExamDate            time.Time       `gorm:"column:exam_date;not null" json:"exam_date"`
	StartDate           time.Time       `gorm:"column:start_date;not null" json:"start_date"`
	Status              string          `gorm:"column:status;not null;default:'draft'" json:"status"`
	LearningStyle       string          `gorm:"column:learning_style;not null;default:'mixed'" json:"learning_style"`
	DailyTargetHours    float64         `gorm:"column:daily_target_hours;not null;default:2" json:"daily_target_hours"`
	TotalEstimatedHours float64         `gorm:"column:total_estimated_hours;not null;default:0" json:"total_estimated_hours"`
	HoursCompleted      float64         `gorm:"column:hours_completed;not null;default:0" json:"hours_completed"`
	MasteryThreshold    int             `gorm:"column:mastery_threshold;not null;default:80" json:"mastery_threshold"`
	ModePriorities      datatypes.JSON  `gorm:"column:mode_priorities;type:jsonb" json:"mode_priorities"`
	WeakTopics          datatypes.JSON  `gorm:"column:weak_topics;type:jsonb" json:"weak_topics"`
	Documents           datatypes.JSON  `gorm:"column:documents;type:jsonb" json:"documents"`
	SessionsCompleted   int             `gorm:"column:sessions_completed;not null;default:0" json:"sessions_completed"`
	SessionsTotal       int             `gorm:"column:sessions_total;not null;default:0" json:"sessions_total"`
	Sessions            []*StudySession `gorm:"foreignKey:PlanID;references:ID" json:"sessions,omitempty"`
	CreatedAt           time.Time       `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt           time.Time       `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt           gorm.DeletedAt  `gorm:"index" json:"deleted_at,omitempty"`
}

func (StudyPlan) TableName() string { return "study_plan" }
