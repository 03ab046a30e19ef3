package services

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"

	"github.com/desertthunder/lyrx/internal/retry"
	"github.com/desertthunder/lyrx/internal/shared"
)

// RetryingTokenSource retries token fetches from Base under a [retry.Policy].
//
// Token endpoint errors are classified like API errors, so bad client credentials fail fast
// while rate limits and outages back off. Wrap it in [oauth2.ReuseTokenSource] to cache tokens.
type RetryingTokenSource struct {
	ctx    context.Context
	base   oauth2.TokenSource
	policy retry.Policy
}

// NewRetryingTokenSource creates a [RetryingTokenSource]. ctx bounds every refresh.
func NewRetryingTokenSource(ctx context.Context, base oauth2.TokenSource, policy retry.Policy, logger *log.Logger) *RetryingTokenSource {
	if policy.Logger == nil {
		policy.Logger = logger
	}
	return &RetryingTokenSource{ctx: ctx, base: base, policy: policy}
}

// Token implements [oauth2.TokenSource].
func (s *RetryingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := retry.DoValue(s.ctx, s.policy, func(context.Context) (*oauth2.Token, error) {
		tok, err := s.base.Token()
		if err != nil {
			return nil, classifyTokenError(err)
		}
		return tok, nil
	})
	if err != nil {
		if kind, ok := retry.KindOf(err); ok && kind == retry.ClientError {
			return nil, errors.Join(shared.ErrInvalidCredentials, err)
		}
		return nil, errors.Join(shared.ErrRefreshFailed, err)
	}
	return tok, nil
}

func classifyTokenError(err error) error {
	var re *oauth2.RetrieveError
	if errors.As(err, &re) && re.Response != nil {
		if failure := retry.FromStatus(re.Response.StatusCode, re.Response.Header, re.Body); failure != nil {
			return failure
		}
	}
	return retry.FromTransport(err)
}
