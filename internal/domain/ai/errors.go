package ai

import "errors"

// ErrRateLimited indicates the AI provider returned a rate limit or quota error (HTTP 429).
var ErrRateLimited = errors.New("ai rate limited")
