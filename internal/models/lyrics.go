package models

// LyricLine is a single normalized lyric line.
//
// Index is 0-based over retained lines and Text is trimmed and never empty.
type LyricLine struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// Flashcard pairs an original lyric line with its English translation.
//
// IsIdentical is display metadata: the card is kept even when front and back match.
// Reading holds a kana reading of the front for Japanese lyrics.
type Flashcard struct {
	Front       string `json:"front"`
	Back        string `json:"back"`
	IsIdentical bool   `json:"isIdentical"`
	Reading     string `json:"reading,omitempty"`
}

// EmotionLabel is one raw label/score pair from an emotion classifier.
type EmotionLabel struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// EmotionScore is an emotion with its score formatted to two decimals.
type EmotionScore struct {
	Emotion string `json:"emotion"`
	Score   string `json:"score"`
}

// SentimentResult summarizes the mood of a song.
//
// Fallback is true when classification failed and the fixed neutral defaults were returned.
type SentimentResult struct {
	Sentiment      string         `json:"sentiment"`
	Emoji          string         `json:"emoji"`
	Score          string         `json:"score"`
	Emotions       []EmotionScore `json:"emotions"`
	PrimaryEmotion string         `json:"primaryEmotion"`
	EmotionScore   string         `json:"emotionScore"`
	Fallback       bool           `json:"fallback"`
}

// Fronts returns the original text of each card.
func Fronts(cards []Flashcard) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.Front
	}
	return out
}

// Backs returns the translated text of each card.
func Backs(cards []Flashcard) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.Back
	}
	return out
}

// Deck is a song's flashcards with optional sentiment, the unit written by exports.
type Deck struct {
	UserID    string           `json:"userId,omitempty"`
	SongTitle string           `json:"songTitle"`
	Artist    string           `json:"artist,omitempty"`
	Language  string           `json:"language,omitempty"`
	Cards     []Flashcard      `json:"cards"`
	Sentiment *SentimentResult `json:"sentiment,omitempty"`
}
