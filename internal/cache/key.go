package cache

import "strings"

// Namespaces separate flashcard and sentiment results for the same song.
const (
	NamespaceFlashcards = "flashcards"
	NamespaceSentiment  = "sentiment"
)

const separator = ":"

var segmentEscaper = strings.NewReplacer("%", "%25", ":", "%3A")

// Key identifies a cached result.
type Key struct {
	Namespace string
	UserID    string
	SongTitle string
	Language  string // optional
}

// String renders "namespace:user:song[:language]" with '%' and ':' escaped in each segment.
func (k Key) String() string {
	parts := []string{escape(k.Namespace), escape(k.UserID), escape(k.SongTitle)}
	if k.Language != "" {
		parts = append(parts, escape(k.Language))
	}
	return strings.Join(parts, separator)
}

// VariantPrefix matches every language variant of the key.
func (k Key) VariantPrefix() string {
	base := k
	base.Language = ""
	return base.String() + separator
}

// UserPrefix matches every key for userID in namespace.
func UserPrefix(namespace, userID string) string {
	return escape(namespace) + separator + escape(userID) + separator
}

// FlashcardKey returns the key for a song's flashcards, with an optional language.
func FlashcardKey(userID, songTitle, language string) Key {
	return Key{Namespace: NamespaceFlashcards, UserID: userID, SongTitle: songTitle, Language: language}
}

// SentimentKey returns the key for a song's sentiment. The mood is read from the English backs,
// so every language variant of the song shares it.
func SentimentKey(userID, songTitle string) Key {
	return Key{Namespace: NamespaceSentiment, UserID: userID, SongTitle: songTitle}
}

func escape(segment string) string {
	return segmentEscaper.Replace(segment)
}
