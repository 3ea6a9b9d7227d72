package scheduler

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPickModeFollowsStylePriorities(t *testing.T) {
	cases := []struct {
		name  string
		style string
		ct    ContentType
		want  Mode
	}{
		{name: "visual_concepts_prefers_mindmap", style: "visual", ct: ContentConcepts, want: ModeMindmap},
		{name: "auditory_concepts_prefers_podcast", style: "auditory", ct: ContentConcepts, want: ModePodcast},
		{name: "auditory_facts_prefers_podcast", style: "auditory", ct: ContentFacts, want: ModePodcast},
		{name: "kinesthetic_formulas_prefers_exam", style: "kinesthetic", ct: ContentFormulas, want: ModeExam},
		{name: "reading_writing_facts_prefers_reading", style: "reading_writing", ct: ContentFacts, want: ModeReading},
		{name: "mixed_procedures_prefers_flashcards", style: "mixed", ct: ContentProcedures, want: ModeFlashcards},
		{name: "unknown_style_falls_back_to_mixed", style: "telepathic", ct: ContentProcedures, want: ModeFlashcards},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			priorities := resolveModePriorities(tc.style, nil, nil)
			if got := pickMode(tc.ct, priorities); got != tc.want {
				t.Fatalf("pickMode(%s, %s) = %s, want %s", tc.ct, tc.style, got, tc.want)
			}
		})
	}
}

func TestPickModeDefaultsToFlashcards(t *testing.T) {
	// Priorities that rank none of the candidate modes.
	priorities := map[Mode]int{ModeReview: 1}
	if got := pickMode(ContentConcepts, priorities); got != ModeFlashcards {
		t.Fatalf("expected flashcards fallback, got %s", got)
	}
	if got := pickMode(ContentType("unknown"), resolveModePriorities("mixed", nil, nil)); got != ModeFlashcards {
		t.Fatalf("unknown content type must fall back to flashcards, got %s", got)
	}
}

func TestResolveModePrioritiesOverrideList(t *testing.T) {
	priorities := resolveModePriorities("visual", []Mode{ModePodcast, ModeExam, ModeFlashcards}, nil)
	if len(priorities) != 3 {
		t.Fatalf("override must replace the style table, got %d entries", len(priorities))
	}
	if priorities[ModePodcast] != 1 || priorities[ModeExam] != 2 || priorities[ModeFlashcards] != 3 {
		t.Fatalf("override ranks wrong: %v", priorities)
	}
	// concepts candidates are mindmap/flashcards/podcast; podcast wins here.
	if got := pickMode(ContentConcepts, priorities); got != ModePodcast {
		t.Fatalf("pickMode with override = %s, want podcast", got)
	}
}

func TestLoadStyleProfiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profiles.yaml")
	content := []byte(`profiles:
  visual:
    reading: 1
    flashcards: 2
`)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write profile file: %v", err)
	}

	profiles, err := LoadStyleProfiles(path)
	if err != nil {
		t.Fatalf("LoadStyleProfiles: %v", err)
	}
	if profiles["visual"][ModeReading] != 1 {
		t.Fatalf("profile rank not loaded: %v", profiles)
	}

	priorities := resolveModePriorities("visual", nil, profiles)
	if got := pickMode(ContentFacts, priorities); got != ModeReading {
		t.Fatalf("override profile must win: got %s", got)
	}
}

func TestLoadStyleProfilesRejectsUnknownMode(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profiles.yaml")
	content := []byte(`profiles:
  visual:
    osmosis: 1
`)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write profile file: %v", err)
	}
	if _, err := LoadStyleProfiles(path); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}
