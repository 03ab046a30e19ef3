package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/go-shiori/go-readability"

	"github.com/desertthunder/lyrx/internal/retry"
	"github.com/desertthunder/lyrx/internal/shared"
)

const maxPageSize = 10 * 1024 * 1024

var (
	reLineBreak = regexp.MustCompile(`(?i)<br\s*/?>`)
	reRubyText  = regexp.MustCompile(`(?si)<rt\b[^>]*>.*?</rt>`)
	reRubyParen = regexp.MustCompile(`(?si)<rp\b[^>]*>.*?</rp>`)
)

// LyricsSourceFunc adapts a function to the tasks.LyricsSource interface.
type LyricsSourceFunc func(ctx context.Context, ref string) (string, error)

func (f LyricsSourceFunc) Fetch(ctx context.Context, ref string) (string, error) { return f(ctx, ref) }

// PageLyricsSource fetches a lyrics page and extracts its main text.
type PageLyricsSource struct {
	client *http.Client
	policy retry.Policy
}

// NewPageLyricsSource creates a [PageLyricsSource] with the given request timeout.
func NewPageLyricsSource(timeout time.Duration, policy retry.Policy) *PageLyricsSource {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	return &PageLyricsSource{client: &http.Client{Timeout: timeout}, policy: policy}
}

// Fetch downloads ref and returns the readable text, one lyric line per line.
func (s *PageLyricsSource) Fetch(ctx context.Context, ref string) (string, error) {
	pageURL, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	body, err := retry.DoValue(ctx, s.policy, func(ctx context.Context) ([]byte, error) {
		return s.download(ctx, pageURL.String())
	})
	if err != nil {
		return "", fmt.Errorf("failed to fetch lyrics page: %w", err)
	}

	article, err := readability.FromReader(bytes.NewReader(prepareHTML(body)), pageURL)
	if err != nil {
		return "", fmt.Errorf("failed to extract lyrics: %w", err)
	}

	text := strings.TrimSpace(article.TextContent)
	if text == "" {
		return "", fmt.Errorf("%w: no readable text at %s", shared.ErrLyricsNotFound, ref)
	}
	return text, nil
}

func (s *PageLyricsSource) download(ctx context.Context, pageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/html")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, retry.FromTransport(err)
	}
	defer resp.Body.Close()

	if err := retry.FromResponse(resp); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageSize+1))
	if err != nil {
		return nil, retry.FromTransport(err)
	}
	if len(body) > maxPageSize {
		return nil, fmt.Errorf("%w: page exceeds %d bytes", shared.ErrInvalidInput, maxPageSize)
	}
	return body, nil
}

// prepareHTML turns <br> into newlines and drops ruby annotations so extracted text keeps line structure.
func prepareHTML(body []byte) []byte {
	body = reRubyText.ReplaceAll(body, nil)
	body = reRubyParen.ReplaceAll(body, nil)
	return reLineBreak.ReplaceAll(body, []byte("\n"))
}

// FileLyricsSource reads lyrics from local files.
type FileLyricsSource struct{}

// Fetch reads the file at ref.
func (FileLyricsSource) Fetch(ctx context.Context, ref string) (string, error) {
	data, err := os.ReadFile(ref)
	if os.IsNotExist(err) {
		return "", fmt.Errorf("%w: %s", shared.ErrLyricsNotFound, ref)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read lyrics file: %w", err)
	}
	return string(data), nil
}

// NewLyricsSource routes http(s) refs to a [PageLyricsSource] and everything else to a [FileLyricsSource].
func NewLyricsSource(page *PageLyricsSource) LyricsSourceFunc {
	return func(ctx context.Context, ref string) (string, error) {
		if IsURL(ref) {
			return page.Fetch(ctx, ref)
		}
		return FileLyricsSource{}.Fetch(ctx, ref)
	}
}

// NewRemoteLyricsSource routes http(s) refs to a [PageLyricsSource] and rejects everything else,
// so callers outside the local machine cannot read its files.
func NewRemoteLyricsSource(page *PageLyricsSource) LyricsSourceFunc {
	return func(ctx context.Context, ref string) (string, error) {
		if !IsURL(ref) {
			return "", fmt.Errorf("%w: lyrics must be an http(s) URL", shared.ErrInvalidArgument)
		}
		return page.Fetch(ctx, ref)
	}
}

// IsURL reports whether ref is an absolute http or https URL.
func IsURL(ref string) bool {
	u, err := url.Parse(ref)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
