package linkedin

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/jasmeetsingh/autoposter/config"
	"github.com/jasmeetsingh/autoposter/models"
)

const (
	envAccessToken = "LINKEDIN_ACCESS_TOKEN"
	envPersonURN   = "LINKEDIN_PERSON_URN"
)

// LoadTokens resolves publish credentials: the environment pair first (the
// CI path), then the persisted token file written by the one-time auth
// bootstrap. Returns models.ErrNoTokens when neither yields an access token.
func LoadTokens(cfg config.LinkedInConfig) (models.AuthTokens, error) {
	accessToken := os.Getenv(envAccessToken)
	personURN := os.Getenv(envPersonURN)
	if accessToken != "" && personURN != "" {
		return models.AuthTokens{AccessToken: accessToken, PersonURN: personURN}, nil
	}

	data, err := os.ReadFile(cfg.TokenFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return models.AuthTokens{}, models.ErrNoTokens
		}
		return models.AuthTokens{}, fmt.Errorf("failed to read token file: %w", err)
	}

	var tokens models.AuthTokens
	if err := json.Unmarshal(data, &tokens); err != nil {
		return models.AuthTokens{}, fmt.Errorf("failed to parse token file: %w", err)
	}
	if tokens.AccessToken == "" {
		return models.AuthTokens{}, models.ErrNoTokens
	}
	return tokens, nil
}
