package scheduler

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
)

func hardTopic(title string, minutes int) Topic {
	return Topic{
		Title:            title,
		Difficulty:       DifficultyHard,
		EstimatedMinutes: minutes,
		ContentType:      ContentConcepts,
		Pages:            &PageRange{Start: 1, End: 5},
	}
}

func scenarioAInput(t *testing.T) Input {
	t.Helper()
	return Input{
		UserID:           uuid.MustParse("7f0a1fb6-9c3e-4a6e-8a6e-0d8f3a2b1c4d"),
		ExamTitle:        "Midterm",
		ExamDate:         day(2026, time.March, 12),
		StartDate:        day(2026, time.March, 2), // Monday
		IncludeWeekends:  true,
		DailyTargetHours: 1,
		Documents: []DocumentTopics{{
			DocumentID:     uuid.MustParse("f3b9c7e2-5d4a-4b1f-9e8c-2a7d6f5e4c3b"),
			DocumentName:   "Physics Notes",
			EstimatedHours: 3,
			Topics: []Topic{
				hardTopic("Kinematics - motion", 20),
				hardTopic("Dynamics - forces", 20),
				hardTopic("Energy - conservation", 20),
			},
		}},
	}
}

func sessionsOfType(sessions []Session, st SessionType) []Session {
	var out []Session
	for _, s := range sessions {
		if s.SessionType == st {
			out = append(out, s)
		}
	}
	return out
}

func TestGenerateScenarioA(t *testing.T) {
	plan, err := Generate(scenarioAInput(t))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	lastLearningDay := day(2026, time.March, 9)
	newSessions := sessionsOfType(plan.Sessions, SessionNew)
	if len(newSessions) != 3 {
		t.Fatalf("expected 3 new sessions, got %d", len(newSessions))
	}
	for _, s := range newSessions {
		if s.ScheduledDate.After(lastLearningDay) {
			t.Fatalf("new session on reserved day %v", s.ScheduledDate)
		}
		if s.ReviewNumber != 1 {
			t.Fatalf("new session review number = %d, want 1", s.ReviewNumber)
		}
	}

	reviews := sessionsOfType(plan.Sessions, SessionReview)
	for _, s := range reviews {
		if s.Mode != ModeFlashcards {
			t.Fatalf("review session mode = %s, want flashcards", s.Mode)
		}
		if s.EstimatedMinutes != reviewSessionMinutes {
			t.Fatalf("review session minutes = %d, want %d", s.EstimatedMinutes, reviewSessionMinutes)
		}
		if s.ScheduledDate.After(lastLearningDay) {
			t.Fatalf("review session on reserved day %v", s.ScheduledDate)
		}
	}

	finals := sessionsOfType(plan.Sessions, SessionFinalReview)
	if len(finals) != 6 {
		t.Fatalf("expected 3 topics x 2 reserved days = 6 final reviews, got %d", len(finals))
	}
	for _, s := range finals {
		if s.ReviewNumber != finalReviewNumber {
			t.Fatalf("final review number = %d, want %d", s.ReviewNumber, finalReviewNumber)
		}
		if d := s.ScheduledDate; !d.Equal(day(2026, time.March, 10)) && !d.Equal(day(2026, time.March, 11)) {
			t.Fatalf("final review outside reserved window: %v", d)
		}
	}

	// The very last reserved-day session carries the comprehensive check.
	last := plan.Sessions[len(plan.Sessions)-1]
	if last.SessionType != SessionFinalReview || !last.HasWeeklyExam {
		t.Fatalf("last session must be a final review with the weekly exam flag, got %+v", last)
	}

	for _, s := range plan.Sessions {
		if !s.HasDailyQuiz {
			t.Fatalf("every session carries a daily quiz, missing on %q", s.TopicTitle)
		}
		if s.Status != StatusPending {
			t.Fatalf("session status = %s, want pending", s.Status)
		}
	}
}

func TestGenerateReviewOffsetsForHardTopic(t *testing.T) {
	in := scenarioAInput(t)
	in.Documents[0].Topics = in.Documents[0].Topics[:1]
	plan, err := Generate(in)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	newSessions := sessionsOfType(plan.Sessions, SessionNew)
	if len(newSessions) != 1 {
		t.Fatalf("expected 1 new session, got %d", len(newSessions))
	}
	base := newSessions[0].ScheduledDate

	// hard intervals are 1,2,4,7,11 with 8 learning days; day 11 is out
	// of range, so reviews land at exactly +1,+2,+4,+7.
	wantOffsets := map[int]int{1: 2, 2: 3, 4: 4, 7: 5}
	reviews := sessionsOfType(plan.Sessions, SessionReview)
	if len(reviews) != len(wantOffsets) {
		t.Fatalf("expected %d reviews, got %d", len(wantOffsets), len(reviews))
	}
	seen := map[int]bool{}
	for _, s := range reviews {
		offset := daysBetween(base, s.ScheduledDate)
		wantNumber, ok := wantOffsets[offset]
		if !ok {
			t.Fatalf("unexpected review offset %d", offset)
		}
		if s.ReviewNumber != wantNumber {
			t.Fatalf("review at +%d has number %d, want %d", offset, s.ReviewNumber, wantNumber)
		}
		if seen[offset] {
			t.Fatalf("duplicate review at offset %d", offset)
		}
		seen[offset] = true
		if !reflect.DeepEqual(s.TopicPages, newSessions[0].TopicPages) {
			t.Fatalf("review pages differ from originating session")
		}
	}
}

func TestGenerateDeterminism(t *testing.T) {
	a, err := Generate(scenarioAInput(t))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	b, err := Generate(scenarioAInput(t))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !reflect.DeepEqual(a.Sessions, b.Sessions) {
		t.Fatalf("two runs over identical inputs produced different session lists")
	}
	if !reflect.DeepEqual(a.ModePriorities, b.ModePriorities) {
		t.Fatalf("mode priorities differ between runs")
	}
}

func TestGenerateScenarioBNoDays(t *testing.T) {
	in := scenarioAInput(t)
	in.ExamDate = in.StartDate
	if _, err := Generate(in); !errors.Is(err, ErrNoAvailableDays) {
		t.Fatalf("expected ErrNoAvailableDays, got %v", err)
	}
}

func TestGenerateBudgetRespectedForNewSessions(t *testing.T) {
	in := scenarioAInput(t)
	in.DailyTargetHours = 1
	topics := make([]Topic, 0, 8)
	for i := 0; i < 8; i++ {
		topics = append(topics, hardTopic("Topic", 25))
	}
	in.Documents[0].Topics = topics
	in.ExamDate = day(2026, time.March, 22) // 20 days, no wrap pressure

	plan, err := Generate(in)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	byDay := map[time.Time]int{}
	for _, s := range sessionsOfType(plan.Sessions, SessionNew) {
		byDay[s.ScheduledDate] += s.EstimatedMinutes
	}
	for d, total := range byDay {
		if total > 60 {
			t.Fatalf("day %v has %d new-session minutes, budget is 60", d, total)
		}
	}
}

func TestGenerateOversizedTopicStillScheduled(t *testing.T) {
	in := scenarioAInput(t)
	in.Documents[0].Topics = []Topic{hardTopic("Everything at once", 90)}
	plan, err := Generate(in)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	newSessions := sessionsOfType(plan.Sessions, SessionNew)
	if len(newSessions) != 1 {
		t.Fatalf("oversized topic must not be dropped, got %d new sessions", len(newSessions))
	}
	if newSessions[0].EstimatedMinutes != 90 {
		t.Fatalf("oversized topic minutes = %d", newSessions[0].EstimatedMinutes)
	}
}

func TestGenerateWrapsWhenTopicsExceedDays(t *testing.T) {
	// Scenario D: 10 topics, 4 learning days, budget large enough to
	// never block. The cursor must wrap and no topic may be dropped.
	in := scenarioAInput(t)
	in.ExamDate = day(2026, time.March, 8) // 6 days total, 4 learning
	in.DailyTargetHours = 10
	topics := make([]Topic, 0, 10)
	for i := 0; i < 10; i++ {
		topics = append(topics, hardTopic("Topic", 30))
	}
	in.Documents[0].Topics = topics

	plan, err := Generate(in)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	newSessions := sessionsOfType(plan.Sessions, SessionNew)
	if len(newSessions) != 10 {
		t.Fatalf("expected all 10 topics scheduled, got %d", len(newSessions))
	}
	byDay := map[time.Time]int{}
	for _, s := range newSessions {
		byDay[s.ScheduledDate]++
	}
	if len(byDay) != 4 {
		t.Fatalf("expected sessions across all 4 learning days, got %d days", len(byDay))
	}
	for d, n := range byDay {
		if n < 2 {
			t.Fatalf("day %v has %d sessions; cursor did not wrap evenly", d, n)
		}
	}
}

func TestGenerateReviewInsertionRespectsCap(t *testing.T) {
	// Budget 30 (cap 45). Six 30-minute hard topics across 4 learning
	// days: wrap-around overloads later days, so only the reviews that
	// keep a day at or below 45 minutes may be inserted.
	in := scenarioAInput(t)
	in.ExamDate = day(2026, time.March, 8)
	in.DailyTargetHours = 0.5
	topics := make([]Topic, 0, 6)
	for i := 0; i < 6; i++ {
		topics = append(topics, hardTopic("Topic", 30))
	}
	in.Documents[0].Topics = topics

	plan, err := Generate(in)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	reviews := sessionsOfType(plan.Sessions, SessionReview)
	if len(reviews) != 2 {
		t.Fatalf("expected exactly 2 reviews to fit under the 1.5x cap, got %d", len(reviews))
	}
	for _, s := range reviews {
		if d := s.ScheduledDate; !d.Equal(day(2026, time.March, 3)) && !d.Equal(day(2026, time.March, 4)) {
			t.Fatalf("review inserted on overloaded day %v", d)
		}
	}
}

func TestGenerateChapterFinalUniqueness(t *testing.T) {
	in := scenarioAInput(t)
	in.Documents[0].Topics = []Topic{
		pagedTopic("Cells - structure", 10, 15),
		pagedTopic("Membranes - transport", 20, 25),
		pagedTopic("Genetics - inheritance", 50, 55),
		pagedTopic("Evolution - selection", 60, 70),
	}

	plan, err := Generate(in)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	finalsPerChapter := map[string]int{}
	totalPerChapter := map[string]int{}
	for _, s := range sessionsOfType(plan.Sessions, SessionNew) {
		if s.ChapterID == "" {
			t.Fatalf("new session missing chapter id: %q", s.TopicTitle)
		}
		totalPerChapter[s.ChapterID]++
		if s.IsChapterFinal {
			finalsPerChapter[s.ChapterID]++
		}
	}
	if len(totalPerChapter) != 2 {
		t.Fatalf("expected 2 chapters, got %d", len(totalPerChapter))
	}
	for ch := range totalPerChapter {
		if finalsPerChapter[ch] != 1 {
			t.Fatalf("chapter %s has %d chapter-final sessions, want exactly 1", ch, finalsPerChapter[ch])
		}
	}
}

func TestGenerateFinalReviewIsolation(t *testing.T) {
	plan, err := Generate(scenarioAInput(t))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	reserved := map[time.Time]bool{
		day(2026, time.March, 10): true,
		day(2026, time.March, 11): true,
	}
	for _, s := range plan.Sessions {
		if reserved[s.ScheduledDate] && s.SessionType != SessionFinalReview {
			t.Fatalf("%s session leaked into reserved window on %v", s.SessionType, s.ScheduledDate)
		}
		if !reserved[s.ScheduledDate] && s.SessionType == SessionFinalReview {
			t.Fatalf("final review outside reserved window on %v", s.ScheduledDate)
		}
	}
}

func TestGenerateSkipsReservationWhenFewerThanThreeDays(t *testing.T) {
	in := scenarioAInput(t)
	in.ExamDate = day(2026, time.March, 4) // 2 days only
	plan, err := Generate(in)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if finals := sessionsOfType(plan.Sessions, SessionFinalReview); len(finals) != 0 {
		t.Fatalf("no final-review window fits in 2 days, got %d final sessions", len(finals))
	}
	if news := sessionsOfType(plan.Sessions, SessionNew); len(news) != 3 {
		t.Fatalf("expected 3 new sessions on the 2 learning days, got %d", len(news))
	}
}

func TestGenerateWeekAnnotations(t *testing.T) {
	plan, err := Generate(scenarioAInput(t))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	examDays := map[time.Time]int{}
	for _, s := range plan.Sessions {
		want := daysBetween(plan.StartDate, s.ScheduledDate)/7 + 1
		if s.WeekNumber != want {
			t.Fatalf("session on %v has week %d, want %d", s.ScheduledDate, s.WeekNumber, want)
		}
		if s.HasWeeklyExam {
			examDays[s.ScheduledDate]++
		}
	}
	for d, n := range examDays {
		if n > 1 {
			t.Fatalf("day %v carries %d weekly exams, at most 1 allowed", d, n)
		}
	}
	// Start is Monday Mar 2: week 1 ends Sunday Mar 8, and the last
	// learning day Mar 9 closes its own (partial) week.
	for _, d := range []time.Time{day(2026, time.March, 8), day(2026, time.March, 9)} {
		if examDays[d] != 1 {
			t.Fatalf("expected a weekly exam on boundary day %v", d)
		}
	}
}

func TestGeneratePlanAggregate(t *testing.T) {
	in := scenarioAInput(t)
	plan, err := Generate(in)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if plan.Status != PlanDraft {
		t.Fatalf("plan status = %s, want draft", plan.Status)
	}
	if plan.SessionsTotal != len(plan.Sessions) {
		t.Fatalf("sessions total = %d, len = %d", plan.SessionsTotal, len(plan.Sessions))
	}
	if plan.SessionsCompleted != 0 || plan.HoursCompleted != 0 {
		t.Fatalf("fresh plan must have zero progress")
	}
	if plan.TotalEstimatedHours != 3 {
		t.Fatalf("total estimated hours = %v, want 3", plan.TotalEstimatedHours)
	}
	if plan.LearningStyle != "mixed" {
		t.Fatalf("default learning style = %q, want mixed", plan.LearningStyle)
	}
	if plan.MasteryThreshold != 80 {
		t.Fatalf("default mastery threshold = %d, want 80", plan.MasteryThreshold)
	}
	if len(plan.Documents) != 1 || plan.Documents[0].TopicCount != 3 {
		t.Fatalf("document summaries wrong: %+v", plan.Documents)
	}
	for _, s := range plan.Sessions {
		if s.UserID != in.UserID {
			t.Fatalf("session missing plan owner")
		}
	}
}
