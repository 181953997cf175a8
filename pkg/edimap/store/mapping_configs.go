package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ukaji3/edimap-go/pkg/edimap/models"
)

const mappingConfigColumns = `id, app_id, app_name, message_type, field_mappings, format_type, created_at, updated_at`

// CreateMappingConfig inserts cfg, assigning its id and timestamps.
// It fails with models.ErrConflict when the application already has a
// config for the message type.
func (s *Store) CreateMappingConfig(ctx context.Context, cfg *models.MappingConfig) error {
	fields, err := json.Marshal(cfg.FieldMappings)
	if err != nil {
		return fmt.Errorf("encode field mappings: %w", err)
	}
	if cfg.FormatType == "" {
		cfg.FormatType = models.FormatJSON
	}
	cfg.ID = s.NewID()
	cfg.CreatedAt = s.now()
	cfg.UpdatedAt = cfg.CreatedAt

	_, err = s.DB.ExecContext(ctx, `
		INSERT INTO mapping_configs (`+mappingConfigColumns+`)
		VALUES (?,?,?,?,?,?,?,?)`,
		cfg.ID, cfg.AppID, cfg.AppName, string(cfg.MessageType), string(fields), string(cfg.FormatType),
		cfg.CreatedAt.UnixMilli(), cfg.UpdatedAt.UnixMilli(),
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("mapping config for %s/%s: %w", cfg.AppID, cfg.MessageType, models.ErrConflict)
	}
	return err
}

// GetMappingConfig retrieves a config by id.
func (s *Store) GetMappingConfig(ctx context.Context, id string) (*models.MappingConfig, error) {
	row := s.DB.QueryRowContext(ctx, `SELECT `+mappingConfigColumns+` FROM mapping_configs WHERE id = ?`, id)
	cfg, err := scanMappingConfig(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("mapping config", id)
	}
	return cfg, err
}

// FindByAppAndMessageType returns the config an application registered for
// a message type.
func (s *Store) FindByAppAndMessageType(ctx context.Context, appID string, messageType models.MessageType) (*models.MappingConfig, error) {
	row := s.DB.QueryRowContext(ctx, `
		SELECT `+mappingConfigColumns+` FROM mapping_configs
		WHERE app_id = ? AND message_type = ?`, appID, string(messageType))
	cfg, err := scanMappingConfig(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("mapping config", appID+"/"+string(messageType))
	}
	return cfg, err
}

// ListMappingConfigs returns the configs of an application, newest first.
func (s *Store) ListMappingConfigs(ctx context.Context, appID string) ([]*models.MappingConfig, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT `+mappingConfigColumns+` FROM mapping_configs
		WHERE app_id = ? ORDER BY created_at DESC, id DESC`, appID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.MappingConfig
	for rows.Next() {
		cfg, err := scanMappingConfig(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, cfg)
	}
	return out, rows.Err()
}

// UpdateMappingConfig replaces the mutable fields of the config with cfg.ID.
func (s *Store) UpdateMappingConfig(ctx context.Context, cfg *models.MappingConfig) error {
	fields, err := json.Marshal(cfg.FieldMappings)
	if err != nil {
		return fmt.Errorf("encode field mappings: %w", err)
	}
	if cfg.FormatType == "" {
		cfg.FormatType = models.FormatJSON
	}
	cfg.UpdatedAt = s.now()

	res, err := s.DB.ExecContext(ctx, `
		UPDATE mapping_configs
		SET app_name = ?, message_type = ?, field_mappings = ?, format_type = ?, updated_at = ?
		WHERE id = ?`,
		cfg.AppName, string(cfg.MessageType), string(fields), string(cfg.FormatType), cfg.UpdatedAt.UnixMilli(), cfg.ID,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("mapping config for %s/%s: %w", cfg.AppID, cfg.MessageType, models.ErrConflict)
	}
	if err != nil {
		return err
	}
	return checkAffected(res, "mapping config", cfg.ID)
}

// DeleteMappingConfig removes a config.
func (s *Store) DeleteMappingConfig(ctx context.Context, id string) error {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM mapping_configs WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkAffected(res, "mapping config", id)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMappingConfig(row scanner) (*models.MappingConfig, error) {
	var (
		cfg                  models.MappingConfig
		messageType, format  string
		fields               string
		createdAt, updatedAt int64
	)
	if err := row.Scan(&cfg.ID, &cfg.AppID, &cfg.AppName, &messageType, &fields, &format, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(fields), &cfg.FieldMappings); err != nil {
		return nil, fmt.Errorf("decode field mappings of %s: %w", cfg.ID, err)
	}
	cfg.MessageType = models.MessageType(messageType)
	cfg.FormatType = models.FormatType(format)
	cfg.CreatedAt = fromMillis(createdAt)
	cfg.UpdatedAt = fromMillis(updatedAt)
	return &cfg, nil
}
