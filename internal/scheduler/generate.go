package scheduler

import (
	"sort"
	"time"
)

const (
	defaultDailyTargetHours = 2.0
	defaultMasteryThreshold = 80

	// Reviews are short flashcard passes; their insertion may push a
	// day up to reviewBudgetFactor times the daily budget but no
	// further.
	reviewSessionMinutes = 10
	reviewBudgetFactor   = 1.5

	finalReviewMinutes  = 15
	finalReviewNumber   = 99
	finalReviewTopicCap = 5
	reservedFinalDays   = 2
)

// reviewIntervals maps difficulty to spaced-repetition day offsets from
// a topic's initial session, within the learning-day array. Harder
// material gets more and tighter early reviews.
var reviewIntervals = map[Difficulty][]int{
	DifficultyEasy:   {1, 4, 9},
	DifficultyMedium: {1, 3, 6, 10},
	DifficultyHard:   {1, 2, 4, 7, 11},
}

func difficultyRank(d Difficulty) int {
	switch d {
	case DifficultyHard:
		return 3
	case DifficultyMedium:
		return 2
	case DifficultyEasy:
		return 1
	default:
		return 0
	}
}

// packState is the mutable working set of one generation run: per-day
// committed minutes plus per-chapter progress. Scoped to a single call
// and discarded afterward.
type packState struct {
	dayMinutes    []int
	cursor        int
	chapterTotals map[string]int
	chapterDone   map[string]int
}

func newPackState(dayCount int, topics []PlannedTopic) *packState {
	totals := make(map[string]int, len(topics))
	for _, t := range topics {
		totals[t.ChapterID]++
	}
	return &packState{
		dayMinutes:    make([]int, dayCount),
		chapterTotals: totals,
		chapterDone:   make(map[string]int, len(totals)),
	}
}

// place commits a topic's minutes to a learning day and returns its
// index. A day that would overflow the budget pushes the cursor
// forward, except the last learning day, which accepts any remainder
// (an oversized topic is scheduled over budget rather than dropped).
// After a commit the cursor advances and wraps to day 0, so topics may
// outnumber days; the resulting overflow is accepted.
func (ps *packState) place(minutes, budget int) int {
	last := len(ps.dayMinutes) - 1
	for ps.dayMinutes[ps.cursor]+minutes > budget && ps.cursor != last {
		ps.cursor++
	}
	idx := ps.cursor
	ps.dayMinutes[idx] += minutes
	ps.cursor++
	if ps.cursor > last {
		ps.cursor = 0
	}
	return idx
}

// completeChapterTopic records one scheduled topic for a chapter and
// reports whether it was the chapter's last.
func (ps *packState) completeChapterTopic(chapterID string) bool {
	ps.chapterDone[chapterID]++
	return ps.chapterDone[chapterID] == ps.chapterTotals[chapterID]
}

type placement struct {
	topic    PlannedTopic
	dayIndex int
}

// Generate produces a complete draft study plan from fully-resolved
// inputs. It is pure: identical inputs yield identical session lists,
// and no partial plan ever escapes an error path.
func Generate(in Input) (*Plan, error) {
	style := in.LearningStyle
	if style == "" {
		style = defaultLearningStyle
	}
	targetHours := in.DailyTargetHours
	if targetHours <= 0 {
		targetHours = defaultDailyTargetHours
	}
	mastery := in.MasteryThreshold
	if mastery <= 0 {
		mastery = defaultMasteryThreshold
	}

	days := StudyDays(in.StartDate, in.ExamDate, in.IncludeWeekends)
	if len(days) == 0 {
		return nil, ErrNoAvailableDays
	}

	budget := int(targetHours * 60)
	priorities := resolveModePriorities(style, in.PriorityModes, in.StyleProfiles)

	topics := AssignChapters(in.Documents)
	sortTopicsByPriority(topics)

	// The last two eligible days are reserved for cross-topic final
	// review; with fewer than 3 days every day is a learning day.
	learningDays := days
	var finalDays []time.Time
	if len(days) >= reservedFinalDays+1 {
		learningDays = days[:len(days)-reservedFinalDays]
		finalDays = days[len(days)-reservedFinalDays:]
	}

	state := newPackState(len(learningDays), topics)
	sessions := make([]Session, 0, len(topics)*3)
	placements := make([]placement, 0, len(topics))
	for _, t := range topics {
		idx := state.place(t.EstimatedMinutes, budget)
		sessions = append(sessions, Session{
			UserID:           in.UserID,
			ScheduledDate:    learningDays[idx],
			EstimatedMinutes: t.EstimatedMinutes,
			Mode:             pickMode(t.ContentType, priorities),
			TopicTitle:       t.Title,
			DocumentID:       t.DocumentID,
			DocumentName:     t.DocumentName,
			SessionType:      SessionNew,
			ReviewNumber:     1,
			Status:           StatusPending,
			HasDailyQuiz:     true,
			TopicPages:       topicPagesFor(t.Topic),
			ChapterID:        t.ChapterID,
			ChapterTitle:     t.ChapterTitle,
			IsChapterFinal:   state.completeChapterTopic(t.ChapterID),
		})
		placements = append(placements, placement{topic: t, dayIndex: idx})
	}

	// Spaced reviews. Offsets landing past the learning-day array are
	// dropped: the exam arrives before that review would occur.
	for _, p := range placements {
		for i, offset := range reviewIntervals[p.topic.Difficulty] {
			target := p.dayIndex + offset
			if target >= len(learningDays) {
				continue
			}
			if float64(state.dayMinutes[target]+reviewSessionMinutes) > reviewBudgetFactor*float64(budget) {
				continue
			}
			state.dayMinutes[target] += reviewSessionMinutes
			sessions = append(sessions, Session{
				UserID:           in.UserID,
				ScheduledDate:    learningDays[target],
				EstimatedMinutes: reviewSessionMinutes,
				Mode:             ModeFlashcards,
				TopicTitle:       p.topic.Title,
				DocumentID:       p.topic.DocumentID,
				DocumentName:     p.topic.DocumentName,
				SessionType:      SessionReview,
				ReviewNumber:     i + 2,
				Status:           StatusPending,
				HasDailyQuiz:     true,
				TopicPages:       topicPagesFor(p.topic.Topic),
				ChapterID:        p.topic.ChapterID,
				ChapterTitle:     p.topic.ChapterTitle,
			})
		}
	}

	// Final review: the top topics by scheduling priority, revisited on
	// each reserved day.
	if len(finalDays) > 0 && len(topics) > 0 {
		top := topics
		if len(top) > finalReviewTopicCap {
			top = top[:finalReviewTopicCap]
		}
		for _, day := range finalDays {
			for _, t := range top {
				sessions = append(sessions, Session{
					UserID:           in.UserID,
					ScheduledDate:    day,
					EstimatedMinutes: finalReviewMinutes,
					Mode:             ModeFlashcards,
					TopicTitle:       t.Title,
					DocumentID:       t.DocumentID,
					DocumentName:     t.DocumentName,
					SessionType:      SessionFinalReview,
					ReviewNumber:     finalReviewNumber,
					Status:           StatusPending,
					HasDailyQuiz:     true,
					TopicPages:       topicPagesFor(t.Topic),
					ChapterID:        t.ChapterID,
					ChapterTitle:     t.ChapterTitle,
				})
			}
		}
	}

	startDay := truncateToDay(in.StartDate)
	annotateWeeks(sessions, startDay)
	markWeeklyExams(sessions, startDay, learningDays)
	if len(finalDays) > 0 && len(topics) > 0 {
		// The very last reserved day closes with a comprehensive check,
		// independent of the week-boundary rule.
		sessions[len(sessions)-1].HasWeeklyExam = true
	}

	var totalHours float64
	docSummaries := make([]PlanDocument, 0, len(in.Documents))
	for _, doc := range in.Documents {
		totalHours += doc.EstimatedHours
		docSummaries = append(docSummaries, PlanDocument{
			DocumentID:     doc.DocumentID,
			Name:           doc.DocumentName,
			TopicCount:     len(doc.Topics),
			EstimatedHours: doc.EstimatedHours,
		})
	}

	return &Plan{
		UserID:              in.UserID,
		ExamTitle:           in.ExamTitle,
		ExamDate:            in.ExamDate,
		StartDate:           startDay,
		Status:              PlanDraft,
		LearningStyle:       style,
		DailyTargetHours:    targetHours,
		TotalEstimatedHours: totalHours,
		MasteryThreshold:    mastery,
		ModePriorities:      priorities,
		WeakTopics:          []string{},
		Documents:           docSummaries,
		SessionsTotal:       len(sessions),
		Sessions:            sessions,
	}, nil
}

// sortTopicsByPriority orders topics hard to easy, larger first within
// a difficulty, so difficult long material lands earliest and gets the
// longest review runway. Stable, so analyzer order breaks ties.
func sortTopicsByPriority(topics []PlannedTopic) {
	sort.SliceStable(topics, func(i, j int) bool {
		ri, rj := difficultyRank(topics[i].Difficulty), difficultyRank(topics[j].Difficulty)
		if ri != rj {
			return ri > rj
		}
		return topics[i].EstimatedMinutes > topics[j].EstimatedMinutes
	})
}

func topicPagesFor(t Topic) *TopicPages {
	if t.Pages == nil {
		return nil
	}
	return &TopicPages{
		StartPage: t.Pages.Start,
		EndPage:   t.Pages.End,
		Sections:  t.Sections,
	}
}

func weekNumberFor(start, day time.Time) int {
	return daysBetween(start, day)/7 + 1
}

func annotateWeeks(sessions []Session, start time.Time) {
	for i := range sessions {
		sessions[i].WeekNumber = weekNumberFor(start, sessions[i].ScheduledDate)
	}
}

// markWeeklyExams flags the last session of each week-boundary learning
// day. A learning day is a week boundary when the next learning day
// falls in a later week, or no next day exists.
func markWeeklyExams(sessions []Session, start time.Time, learningDays []time.Time) {
	for i, day := range learningDays {
		boundary := i == len(learningDays)-1 ||
			weekNumberFor(start, learningDays[i+1]) > weekNumberFor(start, day)
		if !boundary {
			continue
		}
		lastIdx := -1
		for j := range sessions {
			if sessions[j].ScheduledDate.Equal(day) {
				lastIdx = j
			}
		}
		if lastIdx >= 0 {
			sessions[lastIdx].HasWeeklyExam = true
		}
	}
}
