package scheduler

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// contentModeCandidates maps a topic's content type to its candidate
// study modes, most specific first. The final pick is the candidate the
// learner's style ranks highest (lowest number).
var contentModeCandidates = map[ContentType][]Mode{
	ContentConcepts:   {ModeMindmap, ModeFlashcards, ModePodcast},
	ContentProcedures: {ModeExam, ModeFlashcards, ModeChat},
	ContentFacts:      {ModeFlashcards, ModeReading, ModePodcast},
	ContentFormulas:   {ModeExam, ModeFlashcards, ModeChat},
}

// defaultStyleProfiles ranks every mode per learning style; lower is
// more preferred.
var defaultStyleProfiles = map[string]map[Mode]int{
	"visual": {
		ModeMindmap: 1, ModeFlashcards: 2, ModeReading: 3,
		ModeExam: 4, ModeChat: 5, ModePodcast: 6, ModeReview: 7,
	},
	"auditory": {
		ModePodcast: 1, ModeChat: 2, ModeFlashcards: 3,
		ModeExam: 4, ModeMindmap: 5, ModeReading: 6, ModeReview: 7,
	},
	"kinesthetic": {
		ModeExam: 1, ModeFlashcards: 2, ModeChat: 3,
		ModeMindmap: 4, ModeReading: 5, ModePodcast: 6, ModeReview: 7,
	},
	"reading_writing": {
		ModeReading: 1, ModeFlashcards: 2, ModeMindmap: 3,
		ModeExam: 4, ModeChat: 5, ModePodcast: 6, ModeReview: 7,
	},
	"mixed": {
		ModeFlashcards: 1, ModeMindmap: 2, ModeExam: 3,
		ModeReading: 4, ModePodcast: 5, ModeChat: 6, ModeReview: 7,
	},
}

const defaultLearningStyle = "mixed"

// resolveModePriorities returns the mode ranking for a generation run:
// an explicit priority list wins, position meaning rank; otherwise the
// style table (falling back to mixed for unknown styles).
func resolveModePriorities(style string, override []Mode, profiles map[string]map[Mode]int) map[Mode]int {
	if len(override) > 0 {
		out := make(map[Mode]int, len(override))
		for i, m := range override {
			if _, seen := out[m]; !seen {
				out[m] = i + 1
			}
		}
		return out
	}
	if profiles == nil {
		profiles = defaultStyleProfiles
	}
	table, ok := profiles[style]
	if !ok {
		table = profiles[defaultLearningStyle]
		if table == nil {
			table = defaultStyleProfiles[defaultLearningStyle]
		}
	}
	out := make(map[Mode]int, len(table))
	for m, p := range table {
		out[m] = p
	}
	return out
}

// pickMode selects the study mode for a new session: the content type's
// candidate with the best (lowest) rank in the priority table, falling
// back to flashcards when nothing resolves.
func pickMode(ct ContentType, priorities map[Mode]int) Mode {
	best := ModeFlashcards
	bestRank := -1
	for _, candidate := range contentModeCandidates[ct] {
		rank, ok := priorities[candidate]
		if !ok {
			continue
		}
		if bestRank < 0 || rank < bestRank {
			best = candidate
			bestRank = rank
		}
	}
	return best
}

// styleProfileFile is the YAML shape of an on-disk style override.
type styleProfileFile struct {
	Profiles map[string]map[string]int `yaml:"profiles"`
}

// LoadStyleProfiles reads an optional YAML file overriding the built-in
// learning-style tables. Unknown modes are rejected so a typo in the
// file fails loudly at startup instead of silently skewing plans.
func LoadStyleProfiles(path string) (map[string]map[Mode]int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read style profiles: %w", err)
	}
	var file styleProfileFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse style profiles: %w", err)
	}
	if len(file.Profiles) == 0 {
		return nil, fmt.Errorf("style profile file %q has no profiles", path)
	}
	out := make(map[string]map[Mode]int, len(file.Profiles))
	for style, table := range file.Profiles {
		ranked := make(map[Mode]int, len(table))
		for name, rank := range table {
			mode := Mode(name)
			if !validMode(mode) {
				return nil, fmt.Errorf("style profile %q ranks unknown mode %q", style, name)
			}
			ranked[mode] = rank
		}
		out[style] = ranked
	}
	return out, nil
}

func validMode(m Mode) bool {
	switch m {
	case ModeFlashcards, ModePodcast, ModeMindmap, ModeExam, ModeReading, ModeReview, ModeChat:
		return true
	default:
		return false
	}
}
