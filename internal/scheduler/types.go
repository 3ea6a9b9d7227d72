package scheduler

import (
	"time"

	"github.com/google/uuid"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

type ContentType string

const (
	ContentConcepts   ContentType = "concepts"
	ContentProcedures ContentType = "procedures"
	ContentFacts      ContentType = "facts"
	ContentFormulas   ContentType = "formulas"
)

type Mode string

const (
	ModeFlashcards Mode = "flashcards"
	ModePodcast    Mode = "podcast"
	ModeMindmap    Mode = "mindmap"
	ModeExam       Mode = "exam"
	ModeReading    Mode = "reading"
	ModeReview     Mode = "review"
	ModeChat       Mode = "chat"
)

type SessionType string

const (
	SessionNew         SessionType = "new"
	SessionReview      SessionType = "review"
	SessionFinalReview SessionType = "final_review"
)

type SessionStatus string

const (
	StatusPending     SessionStatus = "pending"
	StatusInProgress  SessionStatus = "in_progress"
	StatusCompleted   SessionStatus = "completed"
	StatusSkipped     SessionStatus = "skipped"
	StatusRescheduled SessionStatus = "rescheduled"
	StatusMissed      SessionStatus = "missed"
)

type PlanStatus string

const (
	PlanDraft     PlanStatus = "draft"
	PlanActive    PlanStatus = "active"
	PlanPaused    PlanStatus = "paused"
	PlanCompleted PlanStatus = "completed"
	PlanAbandoned PlanStatus = "abandoned"
)

// PageRange is the analyzer-supplied page span of a topic.
type PageRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Topic is one unit of learnable content as produced by the external
// document analyzer. Immutable once handed to the scheduler.
type Topic struct {
	Title            string      `json:"title"`
	Difficulty       Difficulty  `json:"difficulty"`
	EstimatedMinutes int         `json:"estimated_minutes"`
	ContentType      ContentType `json:"content_type"`
	Pages            *PageRange  `json:"pages,omitempty"`
	Sections         []string    `json:"sections,omitempty"`
}

// DocumentTopics carries one document's analyzer output into a
// generation run.
type DocumentTopics struct {
	DocumentID     uuid.UUID
	DocumentName   string
	Topics         []Topic
	EstimatedHours float64
}

// TopicPages is the page metadata carried on a session. Review sessions
// always carry the same pages as their originating session.
type TopicPages struct {
	StartPage int      `json:"start_page"`
	EndPage   int      `json:"end_page"`
	Sections  []string `json:"sections,omitempty"`
}

// Session is one scheduled unit of study.
type Session struct {
	UserID           uuid.UUID
	ScheduledDate    time.Time
	EstimatedMinutes int
	Mode             Mode
	TopicTitle       string
	DocumentID       uuid.UUID
	DocumentName     string
	SessionType      SessionType
	ReviewNumber     int
	Status           SessionStatus
	HasDailyQuiz     bool
	HasWeeklyExam    bool
	WeekNumber       int
	TopicPages       *TopicPages
	ChapterID        string
	ChapterTitle     string
	IsChapterFinal   bool
}

// PlanDocument is the per-document summary embedded in a plan.
type PlanDocument struct {
	DocumentID     uuid.UUID `json:"document_id"`
	Name           string    `json:"name"`
	TopicCount     int       `json:"topic_count"`
	EstimatedHours float64   `json:"estimated_hours"`
}

// Plan is the aggregate the generator produces. It is created in draft
// status; the persistence layer flips it to active on save.
type Plan struct {
	UserID              uuid.UUID
	ExamTitle           string
	ExamDate            time.Time
	StartDate           time.Time
	Status              PlanStatus
	LearningStyle       string
	DailyTargetHours    float64
	TotalEstimatedHours float64
	HoursCompleted      float64
	MasteryThreshold    int
	ModePriorities      map[Mode]int
	WeakTopics          []string
	Documents           []PlanDocument
	SessionsCompleted   int
	SessionsTotal       int
	Sessions            []Session
}

// Input is the full, already-resolved input of one generation run. All
// lookups (document analyses, defaults) happen before the core is
// called, which keeps Generate pure and deterministic.
type Input struct {
	UserID           uuid.UUID
	ExamTitle        string
	ExamDate         time.Time
	StartDate        time.Time
	IncludeWeekends  bool
	LearningStyle    string
	DailyTargetHours float64
	MasteryThreshold int
	PriorityModes    []Mode
	Documents        []DocumentTopics
	// StyleProfiles overrides the built-in learning-style tables when
	// non-nil (loaded from the optional YAML profile file).
	StyleProfiles map[string]map[Mode]int
}
