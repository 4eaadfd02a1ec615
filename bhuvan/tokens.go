package bhuvan

import (
	"errors"
	"fmt"

	"geogateway-backend/config"
)

// ErrNoToken is returned when neither a service-specific token nor the
// legacy fallback token is configured.
var ErrNoToken = errors.New("no valid bhuvan token available")

// TokenSet resolves per-service API tokens. Resolution is pure once the
// configuration is loaded: exact service token, else the shared legacy
// token, else failure.
type TokenSet struct {
	tokens map[string]string
	legacy string
}

func NewTokenSet(cfg config.BhuvanSettings) *TokenSet {
	tokens := make(map[string]string, len(cfg.Tokens))
	for svc, tok := range cfg.Tokens {
		tokens[svc] = tok
	}
	return &TokenSet{tokens: tokens, legacy: cfg.Legacy}
}

// Get returns the token for a service.
func (t *TokenSet) Get(service string) (string, error) {
	if tok := t.tokens[service]; tok != "" {
		return tok, nil
	}
	if t.legacy != "" {
		return t.legacy, nil
	}
	return "", fmt.Errorf("%w for %s", ErrNoToken, service)
}
