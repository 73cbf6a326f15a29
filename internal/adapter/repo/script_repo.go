package repo

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"videogen/internal/domain"
	"videogen/internal/infra"
	"videogen/internal/sqlinline"
)

// ScriptRepositoryPG implements domain.ScriptRepository.
type ScriptRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewScriptRepository creates a script repository backed by PostgreSQL.
func NewScriptRepository(sql infra.SQLExecutor) *ScriptRepositoryPG {
	return &ScriptRepositoryPG{sql: sql}
}

// GetScript loads a script with its scenes and palette decoded from JSONB.
func (r *ScriptRepositoryPG) GetScript(ctx context.Context, scriptID string) (*domain.Script, error) {
	if _, err := uuid.Parse(scriptID); err != nil {
		return nil, domain.ErrNotFound
	}
	var (
		script       domain.Script
		scenesRaw    []byte
		paletteRaw   []byte
		imagePrompts []byte
	)
	row := r.sql.QueryRow(ctx, sqlinline.QSelectScript, scriptID)
	if err := row.Scan(
		&script.ID,
		&script.JobID,
		&script.TotalDuration,
		&script.VoiceoverScript,
		&scenesRaw,
		&paletteRaw,
		&imagePrompts,
	); err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(scenesRaw, &script.Scenes); err != nil {
		return nil, fmt.Errorf("decode scenes for script %s: %w", scriptID, err)
	}
	if len(paletteRaw) > 0 {
		if err := json.Unmarshal(paletteRaw, &script.ColorPalette); err != nil {
			return nil, fmt.Errorf("decode palette for script %s: %w", scriptID, err)
		}
	}
	if len(imagePrompts) > 0 {
		if err := json.Unmarshal(imagePrompts, &script.ImagePrompts); err != nil {
			return nil, fmt.Errorf("decode image prompts for script %s: %w", scriptID, err)
		}
	}
	return &script, nil
}

var _ domain.ScriptRepository = (*ScriptRepositoryPG)(nil)
