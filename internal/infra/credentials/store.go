package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"videogen/internal/infra"
	"videogen/internal/sqlinline"
)

const (
	ProviderOpenRouter = "openrouter"
)

// Store reads and writes provider tokens kept in the integration_tokens table.
type Store struct {
	sql infra.SQLExecutor
}

func NewStore(sql infra.SQLExecutor) *Store {
	return &Store{sql: sql}
}

// OpenRouterAPIKey returns the stored key, or "" when none is stored.
func (s *Store) OpenRouterAPIKey(ctx context.Context) (string, error) {
	return s.Token(ctx, ProviderOpenRouter)
}

func (s *Store) Token(ctx context.Context, provider string) (string, error) {
	row := s.sql.QueryRow(ctx, sqlinline.QSelectIntegrationToken, provider)
	var token string
	if err := row.Scan(&token); err != nil {
		if infra.IsNoRows(err) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(token), nil
}

func (s *Store) SetOpenRouterAPIKey(ctx context.Context, key string, props map[string]any) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("openrouter api key is required")
	}
	return s.upsert(ctx, ProviderOpenRouter, key, props)
}

// ResolveAPIKey prefers the configured key and falls back to the stored one.
func (s *Store) ResolveAPIKey(ctx context.Context, configured string) (string, error) {
	if key := strings.TrimSpace(configured); key != "" {
		return key, nil
	}
	return s.OpenRouterAPIKey(ctx)
}

func (s *Store) upsert(ctx context.Context, provider, token string, props map[string]any) error {
	payload := props
	if payload == nil {
		payload = map[string]any{}
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = s.sql.Exec(ctx, sqlinline.QUpsertIntegrationToken, provider, token, raw)
	return err
}
