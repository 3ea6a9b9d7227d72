package services

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/studyloop/studyloop-backend/internal/scheduler"
)

func TestPlanToRowMapsAggregateFields(t *testing.T) {
	userID := uuid.New()
	examDate := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)
	startDate := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	plan := &scheduler.Plan{
		UserID:              userID,
		ExamTitle:           "Biology Final",
		ExamDate:            examDate,
		StartDate:           startDate,
		Status:              scheduler.PlanDraft,
		LearningStyle:       "visual",
		DailyTargetHours:    2,
		TotalEstimatedHours: 5.5,
		MasteryThreshold:    80,
		ModePriorities: map[scheduler.Mode]int{
			scheduler.ModeMindmap:    1,
			scheduler.ModeFlashcards: 2,
		},
		WeakTopics: []string{},
		Documents: []scheduler.PlanDocument{
			{DocumentID: uuid.New(), Name: "notes.pdf", TopicCount: 3, EstimatedHours: 5.5},
		},
		SessionsTotal: 12,
	}

	row, err := planToRow(plan)
	if err != nil {
		t.Fatalf("planToRow failed: %v", err)
	}
	if row.ID == uuid.Nil {
		t.Fatalf("expected generated plan id")
	}
	if row.UserID != userID {
		t.Errorf("user id = %s, want %s", row.UserID, userID)
	}
	if row.ExamTitle != "Biology Final" || !row.ExamDate.Equal(examDate) || !row.StartDate.Equal(startDate) {
		t.Errorf("exam fields not carried over: %+v", row)
	}
	if row.Status != "draft" {
		t.Errorf("status = %q, want draft", row.Status)
	}
	if row.SessionsTotal != 12 || row.SessionsCompleted != 0 {
		t.Errorf("session counters = %d/%d, want 0/12", row.SessionsCompleted, row.SessionsTotal)
	}

	var priorities map[string]int
	if err := json.Unmarshal(row.ModePriorities, &priorities); err != nil {
		t.Fatalf("mode priorities not valid json: %v", err)
	}
	if priorities["mindmap"] != 1 || priorities["flashcards"] != 2 {
		t.Errorf("unexpected mode priorities: %v", priorities)
	}

	var weak []string
	if err := json.Unmarshal(row.WeakTopics, &weak); err != nil {
		t.Fatalf("weak topics not valid json: %v", err)
	}
	if len(weak) != 0 {
		t.Errorf("expected empty weak topics, got %v", weak)
	}

	var docs []scheduler.PlanDocument
	if err := json.Unmarshal(row.Documents, &docs); err != nil {
		t.Fatalf("documents not valid json: %v", err)
	}
	if len(docs) != 1 || docs[0].Name != "notes.pdf" {
		t.Errorf("unexpected document summaries: %v", docs)
	}
}

func TestSessionsToRowsCarriesScheduleAndPages(t *testing.T) {
	planID := uuid.New()
	userID := uuid.New()
	docID := uuid.New()
	date := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)

	sessions := []scheduler.Session{
		{
			UserID:           userID,
			ScheduledDate:    date,
			EstimatedMinutes: 45,
			Mode:             scheduler.ModeMindmap,
			TopicTitle:       "Cell Structure",
			DocumentID:       docID,
			DocumentName:     "notes.pdf",
			SessionType:      scheduler.SessionNew,
			ReviewNumber:     1,
			Status:           scheduler.StatusPending,
			HasDailyQuiz:     true,
			WeekNumber:       1,
			TopicPages:       &scheduler.TopicPages{StartPage: 1, EndPage: 14},
			ChapterID:        docID.String() + "-ch1",
			ChapterTitle:     "Chapter 1",
			IsChapterFinal:   true,
		},
		{
			UserID:           userID,
			ScheduledDate:    date.AddDate(0, 0, 1),
			EstimatedMinutes: 10,
			Mode:             scheduler.ModeFlashcards,
			TopicTitle:       "Cell Structure",
			DocumentID:       docID,
			DocumentName:     "notes.pdf",
			SessionType:      scheduler.SessionReview,
			ReviewNumber:     2,
			Status:           scheduler.StatusPending,
			HasDailyQuiz:     true,
			WeekNumber:       1,
		},
	}

	rows := sessionsToRows(planID, sessions)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	for i, row := range rows {
		if row.PlanID != planID {
			t.Errorf("row %d plan id = %s, want %s", i, row.PlanID, planID)
		}
		if row.UserID != userID {
			t.Errorf("row %d user id = %s, want %s", i, row.UserID, userID)
		}
		if row.ID == uuid.Nil {
			t.Errorf("row %d missing generated id", i)
		}
	}

	first := rows[0]
	if first.Mode != "mindmap" || first.SessionType != "new" || !first.IsChapterFinal {
		t.Errorf("new session mapped wrong: %+v", first)
	}
	var pages scheduler.TopicPages
	if err := json.Unmarshal(first.TopicPages, &pages); err != nil {
		t.Fatalf("topic pages not valid json: %v", err)
	}
	if pages.StartPage != 1 || pages.EndPage != 14 {
		t.Errorf("unexpected pages: %+v", pages)
	}

	second := rows[1]
	if second.SessionType != "review" || second.ReviewNumber != 2 {
		t.Errorf("review session mapped wrong: %+v", second)
	}
	if len(second.TopicPages) != 0 {
		t.Errorf("expected no pages on unpaged session, got %s", second.TopicPages)
	}
}
