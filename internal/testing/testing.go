// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/desertthunder/lyrx/internal/models"
)

// MockTranslator is a test double for [lyrics.Translator].
//
// It records every batch it receives. Errs are returned for successive calls (nil entries succeed);
// Translate maps each line when set, otherwise lines are echoed with an "en:" prefix.
type MockTranslator struct {
	mu        sync.Mutex
	Calls     [][]string
	Languages []string
	Errs      []error
	Translate func(line string) string
}

func (m *MockTranslator) TranslateBatch(ctx context.Context, lines []string, sourceLang string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	call := len(m.Calls)
	batch := make([]string, len(lines))
	copy(batch, lines)
	m.Calls = append(m.Calls, batch)
	m.Languages = append(m.Languages, sourceLang)

	if call < len(m.Errs) && m.Errs[call] != nil {
		return nil, m.Errs[call]
	}

	out := make([]string, len(lines))
	for i, line := range lines {
		if m.Translate != nil {
			out[i] = m.Translate(line)
		} else {
			out[i] = "en:" + line
		}
	}
	return out, nil
}

// CallCount returns the number of batches translated so far.
func (m *MockTranslator) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// DictionaryTranslator returns a Translate func backed by a fixed dictionary.
// Unknown lines translate to themselves.
func DictionaryTranslator(dict map[string]string) func(string) string {
	return func(line string) string {
		if t, ok := dict[line]; ok {
			return t
		}
		return line
	}
}

// MockClassifier is a test double for [sentiment.Classifier].
type MockClassifier struct {
	mu     sync.Mutex
	Inputs []string
	Labels []models.EmotionLabel
	Errs   []error
}

func (m *MockClassifier) Classify(ctx context.Context, text string) ([]models.EmotionLabel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	call := len(m.Inputs)
	m.Inputs = append(m.Inputs, text)
	if call < len(m.Errs) && m.Errs[call] != nil {
		return nil, m.Errs[call]
	}
	return m.Labels, nil
}

// CallCount returns the number of classification requests so far.
func (m *MockClassifier) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Inputs)
}

// MockLyricsSource is a test double for [tasks.LyricsSource] backed by a map of refs to lyrics.
type MockLyricsSource struct {
	mu      sync.Mutex
	Lyrics  map[string]string
	Fetches int
}

func (m *MockLyricsSource) Fetch(ctx context.Context, ref string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Fetches++
	lyrics, ok := m.Lyrics[ref]
	if !ok {
		return "", errors.New("lyrics not found: " + ref)
	}
	return lyrics, nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// NewResponse builds an HTTP response with the given status and body.
func NewResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

func MustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write file %s: %v", path, err)
	}
}
