// Package github is the client for the remote result store: analysis
// results are uploaded to GitHub code scanning as SARIF. It handles
// credential lookup from the environment and OAuth2 token-based
// authentication; unauthenticated clients are still constructed so the
// failure surfaces as a classified store error, not a nil dereference.
package github

import (
	"context"
	"net/http"
	"os"

	"github.com/google/go-github/v74/github"
	"golang.org/x/oauth2"
)

type (
	Client        = github.Client
	Response      = github.Response
	ErrorResponse = github.ErrorResponse
	SarifAnalysis = github.SarifAnalysis
	SarifID       = github.SarifID
)

// New creates a result-store client authenticated with token. An empty
// token yields an unauthenticated client.
func New(ctx context.Context, token string) *Client {
	return github.NewClient(httpClient(ctx, token))
}

// Token returns the result-store credential from the environment.
// REPCONV_GITHUB_TOKEN wins over GITHUB_TOKEN so the converter can use a
// dedicated credential in workflows that already export one.
func Token() string {
	if t := os.Getenv("REPCONV_GITHUB_TOKEN"); t != "" {
		return t
	}
	return os.Getenv("GITHUB_TOKEN")
}

// Ptr returns a pointer to the provided value, as the API structs want.
func Ptr[T any](v T) *T {
	return github.Ptr(v)
}

func httpClient(ctx context.Context, token string) *http.Client {
	if token == "" {
		return http.DefaultClient
	}
	return oauth2.NewClient(ctx, oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	))
}
