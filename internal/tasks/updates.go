package tasks

import (
	"fmt"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchLyrics Phase = iota
	Normalize
	DetectLanguage
	Translate
	Assemble
	Annotate
	AnalyzeSentiment
	Bulk
)

func (p Phase) String() string {
	switch p {
	case FetchLyrics:
		return "fetch_lyrics"
	case Normalize:
		return "normalize"
	case DetectLanguage:
		return "detect_language"
	case Translate:
		return "translate"
	case Assemble:
		return "assemble"
	case Annotate:
		return "annotate"
	case AnalyzeSentiment:
		return "analyze_sentiment"
	case Bulk:
		return "bulk"
	default:
		return ""
	}
}

func cacheHitUpdate(phase Phase, song string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   phase,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Using cached result for %s", song),
	}
}

func fetchLyricsUpdate(ref string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchLyrics,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Fetching lyrics (%s)...", ref),
	}
}

func normalizeUpdate(lines int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Normalize,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Normalized %d lyric lines", lines),
		Data:    lines,
	}
}

func detectLanguageUpdate(language string, forced bool) ProgressUpdate {
	source := "detected"
	if forced {
		source = "requested"
	}
	return ProgressUpdate{
		Phase:   DetectLanguage,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Source language %s (%s)", language, source),
		Data:    language,
	}
}

func translateBatchUpdate(done, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Translate,
		Step:    done,
		Total:   total,
		Message: fmt.Sprintf("Translated batch %d/%d", done, total),
	}
}

func assembleUpdate(cards int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Assemble,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Assembled %d flashcards", cards),
		Data:    cards,
	}
}

func annotateUpdate(cards int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Annotate,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Added readings to %d flashcards", cards),
	}
}

func analyzeUpdate(song string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AnalyzeSentiment,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Analyzing sentiment for %s...", song),
	}
}

func bulkStartedUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Bulk,
		Step:    0,
		Total:   total,
		Message: fmt.Sprintf("Generating flashcards for %d songs...", total),
	}
}

func bulkCompletedUpdate(step, total int, song string, cards int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Bulk,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("✓ %s (%d cards)", song, cards),
	}
}

func bulkFailedUpdate(step, total int, song, reason string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Bulk,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("✗ %s: %s", song, reason),
	}
}
