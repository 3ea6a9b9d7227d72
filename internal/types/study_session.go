package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type StudySession struct {
	ID               uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	PlanID           uuid.UUID      `gorm:"type:uuid;not null;index" json:"plan_id"`
	Plan             *StudyPlan     `gorm:"constraint:OnDelete:CASCADE;foreignKey:PlanID;references:ID" json:"plan,omitempty"`
	UserID           uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	ScheduledDate    time.Time      `gorm:"column:scheduled_date;not null;index" json:"scheduled_date"`
	EstimatedMinutes int            `gorm:"column:estimated_minutes;not null" json:"estimated_minutes"`
	Mode             string         `gorm:"column:mode;not null" json:"mode"`
	TopicTitle       string         `gorm:"column:topic_title;not null" json:"topic_title"`
	DocumentID       uuid.UUID      `gorm:"type:uuid;column:document_id" json:"document_id"`
	DocumentName     string         `gorm:"column:document_name" json:"document_name"`
	SessionType      string         `gorm:"column:session_type;not null;default:'new'" json:"session_type"`
	ReviewNumber     int            `gorm:"column:review_number;not null;default:1" json:"review_number"`
	Status           string         `gorm:"column:status;not null;default:'pending'" json:"status"`
	HasDailyQuiz     bool           `gorm:"column:has_daily_quiz;not null;default:true" json:"has_daily_quiz"`
	HasWeeklyExam    bool           `gorm:"column:has_weekly_exam;not null;default:false" json:"has_weekly_exam"`
	WeekNumber       int            `gorm:"column:week_number;not null;default:1" json:"week_number"`
	TopicPages       datatypes.JSON `gorm:"column:topic_pages;type:jsonb" json:"topic_pages,omitempty"`
	ChapterID        string         `gorm:"column:chapter_id" json:"chapter_id,omitempty"`
	ChapterTitle     string         `gorm:"column:chapter_title" json:"chapter_title,omitempty"`
	IsChapterFinal   bool           `gorm:"column:is_chapter_final;not null;default:false" json:"is_chapter_final"`
	ActualMinutes    *int           `gorm:"column:actual_minutes" json:"actual_minutes,omitempty"`
	PerformanceScore *float64       `gorm:"column:performance_score" json:"performance_score,omitempty"`
	CompletedAt      *time.Time     `gorm:"column:completed_at" json:"completed_at,omitempty"`
	CreatedAt        time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (StudySession) TableName() string { return "study_session" }
