package sentiment

// Bucket is a coarse sentiment level with its display emoji and representative score.
type Bucket struct {
	Name  string
	Emoji string
	Score float64
}

var (
	VeryPositive = Bucket{Name: "Very Positive", Emoji: "😄", Score: 0.90}
	Positive     = Bucket{Name: "Positive", Emoji: "🙂", Score: 0.70}
	Neutral      = Bucket{Name: "Neutral", Emoji: "😐", Score: 0.50}
	Negative     = Bucket{Name: "Negative", Emoji: "🙁", Score: 0.30}
	VeryNegative = Bucket{Name: "Very Negative", Emoji: "😢", Score: 0.10}
)

// emotionBuckets covers the labels of the common English emotion models
// (Ekman-style seven-label models and the GoEmotions taxonomy).
var emotionBuckets = map[string]Bucket{
	"joy":        VeryPositive,
	"love":       VeryPositive,
	"excitement": VeryPositive,
	"amusement":  VeryPositive,
	"gratitude":  VeryPositive,
	"admiration": VeryPositive,

	"optimism":    Positive,
	"surprise":    Positive,
	"pride":       Positive,
	"approval":    Positive,
	"caring":      Positive,
	"relief":      Positive,
	"desire":      Positive,
	"curiosity":   Positive,
	"realization": Positive,

	"neutral":   Neutral,
	"confusion": Neutral,

	"fear":           Negative,
	"nervousness":    Negative,
	"disappointment": Negative,
	"embarrassment":  Negative,
	"annoyance":      Negative,
	"disapproval":    Negative,
	"remorse":        Negative,

	"sadness": VeryNegative,
	"grief":   VeryNegative,
	"anger":   VeryNegative,
	"disgust": VeryNegative,
}

// BucketFor returns the bucket for an emotion label. Unknown labels are Neutral.
func BucketFor(emotion string) Bucket {
	if b, ok := emotionBuckets[emotion]; ok {
		return b
	}
	return Neutral
}
