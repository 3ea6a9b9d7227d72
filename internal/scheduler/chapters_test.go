package scheduler

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
)

func pagedTopic(title string, start, end int) Topic {
	return Topic{
		Title:            title,
		Difficulty:       DifficultyMedium,
		EstimatedMinutes: 30,
		ContentType:      ContentConcepts,
		Pages:            &PageRange{Start: start, End: end},
	}
}

func TestAssignChaptersSplitsOnPageGap(t *testing.T) {
	docID := uuid.New()
	doc := DocumentTopics{
		DocumentID:   docID,
		DocumentName: "Biology Notes",
		Topics: []Topic{
			pagedTopic("Cells - structure", 10, 15),
			pagedTopic("Membranes - transport", 20, 25),
			pagedTopic("Genetics - inheritance", 50, 55),
		},
	}

	out := AssignChapters([]DocumentTopics{doc})
	if len(out) != 3 {
		t.Fatalf("expected 3 annotated topics, got %d", len(out))
	}
	if out[0].ChapterID != out[1].ChapterID {
		t.Fatalf("gap of 10 pages must not split a chapter: %q vs %q", out[0].ChapterID, out[1].ChapterID)
	}
	if out[1].ChapterID == out[2].ChapterID {
		t.Fatalf("gap of 40 pages must open a new chapter")
	}
	if want := fmt.Sprintf("%s-ch1", docID); out[0].ChapterID != want {
		t.Fatalf("chapter id = %q, want %q", out[0].ChapterID, want)
	}
	if out[0].ChapterTitle != "Chapter 1: Cells" {
		t.Fatalf("chapter title = %q, want %q", out[0].ChapterTitle, "Chapter 1: Cells")
	}
	if out[2].ChapterTitle != "Chapter 2: Genetics" {
		t.Fatalf("chapter title = %q, want %q", out[2].ChapterTitle, "Chapter 2: Genetics")
	}
}

func TestAssignChaptersSortsUnpagedTopicsFirst(t *testing.T) {
	doc := DocumentTopics{
		DocumentID:   uuid.New(),
		DocumentName: "Lecture Slides",
		Topics: []Topic{
			pagedTopic("Late topic", 100, 110),
			{Title: "Intro overview", Difficulty: DifficultyEasy, EstimatedMinutes: 15, ContentType: ContentFacts},
		},
	}

	out := AssignChapters([]DocumentTopics{doc})
	if out[0].Title != "Intro overview" {
		t.Fatalf("topic without pages must sort first, got %q", out[0].Title)
	}
	if out[0].Ordinal != 0 || out[1].Ordinal != 1 {
		t.Fatalf("ordinals = %d,%d, want 0,1", out[0].Ordinal, out[1].Ordinal)
	}
	if out[0].ChapterID == out[1].ChapterID {
		t.Fatalf("page 0 to page 100 must split chapters")
	}
}

func TestAssignChaptersNeverCollidesAcrossDocuments(t *testing.T) {
	docA := DocumentTopics{DocumentID: uuid.New(), DocumentName: "A", Topics: []Topic{pagedTopic("A1", 1, 5)}}
	docB := DocumentTopics{DocumentID: uuid.New(), DocumentName: "B", Topics: []Topic{pagedTopic("B1", 1, 5)}}

	out := AssignChapters([]DocumentTopics{docA, docB})
	if len(out) != 2 {
		t.Fatalf("expected 2 topics, got %d", len(out))
	}
	if out[0].ChapterID == out[1].ChapterID {
		t.Fatalf("chapter ids collided across documents: %q", out[0].ChapterID)
	}
}

func TestAssignChaptersTitleWithoutHyphen(t *testing.T) {
	doc := DocumentTopics{
		DocumentID:   uuid.New(),
		DocumentName: "C",
		Topics:       []Topic{pagedTopic("Thermodynamics", 1, 8)},
	}
	out := AssignChapters([]DocumentTopics{doc})
	if out[0].ChapterTitle != "Chapter 1: Thermodynamics" {
		t.Fatalf("chapter title = %q", out[0].ChapterTitle)
	}
}
