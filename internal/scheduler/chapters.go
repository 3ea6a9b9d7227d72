package scheduler

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// pageGapThreshold is the page-range gap beyond which a topic starts a
// new inferred chapter within its document.
const pageGapThreshold = 30

// PlannedTopic is a topic annotated with its document and inferred
// chapter. The annotation lives only for one scheduling run.
type PlannedTopic struct {
	Topic
	DocumentID   uuid.UUID
	DocumentName string
	ChapterID    string
	ChapterTitle string
	Ordinal      int
}

// AssignChapters groups each document's topics into inferred chapters.
// Documents are pre-segmented by the analyzer only at the topic level,
// so chapters have to be derived from page-range proximity: within a
// document, topics sorted by start page open a new chapter whenever
// their start page jumps more than pageGapThreshold past the running
// chapter start. Chapter ids embed the document id, so chapters never
// collide across documents.
func AssignChapters(docs []DocumentTopics) []PlannedTopic {
	var out []PlannedTopic
	for _, doc := range docs {
		out = append(out, assignDocumentChapters(doc)...)
	}
	return out
}

func assignDocumentChapters(doc DocumentTopics) []PlannedTopic {
	if len(doc.Topics) == 0 {
		return nil
	}

	sorted := make([]Topic, len(doc.Topics))
	copy(sorted, doc.Topics)
	// Topics without a page range sort first, treated as start page 0.
	sort.SliceStable(sorted, func(i, j int) bool {
		return pageStart(sorted[i]) < pageStart(sorted[j])
	})

	out := make([]PlannedTopic, 0, len(sorted))
	chapterNum := 1
	chapterStart := pageStart(sorted[0])
	chapterTitle := chapterTitleFor(chapterNum, sorted[0])
	for i, topic := range sorted {
		if start := pageStart(topic); start-chapterStart > pageGapThreshold {
			chapterNum++
			chapterStart = start
			chapterTitle = chapterTitleFor(chapterNum, topic)
		}
		out = append(out, PlannedTopic{
			Topic:        topic,
			DocumentID:   doc.DocumentID,
			DocumentName: doc.DocumentName,
			ChapterID:    fmt.Sprintf("%s-ch%d", doc.DocumentID, chapterNum),
			ChapterTitle: chapterTitle,
			Ordinal:      i,
		})
	}
	return out
}

func pageStart(t Topic) int {
	if t.Pages == nil {
		return 0
	}
	return t.Pages.Start
}

// chapterTitleFor labels a chapter after its first topic: the text
// before the first hyphen, trimmed, prefixed "Chapter N".
func chapterTitleFor(n int, first Topic) string {
	label := first.Title
	if idx := strings.Index(label, "-"); idx >= 0 {
		label = label[:idx]
	}
	label = strings.TrimSpace(label)
	if label == "" {
		return fmt.Sprintf("Chapter %d", n)
	}
	return fmt.Sprintf("Chapter %d: %s", n, label)
}
