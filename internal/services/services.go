package services

import (
	"github.com/desertthunder/lyrx/internal/lyrics"
	"github.com/desertthunder/lyrx/internal/sentiment"
	"github.com/desertthunder/lyrx/internal/tasks"
)

var (
	_ lyrics.Translator    = (*TranslateClient)(nil)
	_ sentiment.Classifier = (*EmotionClient)(nil)
	_ tasks.LyricsSource   = (*PageLyricsSource)(nil)
	_ tasks.LyricsSource   = FileLyricsSource{}
	_ tasks.LyricsSource   = LyricsSourceFunc(nil)
)
