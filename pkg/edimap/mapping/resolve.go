package mapping

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ukaji3/edimap-go/pkg/edimap/models"
)

// ConfigFinder looks up the mapping config stored for an application.
// Implementations return an error wrapping models.ErrNotFound when none exists.
type ConfigFinder interface {
	FindByAppAndMessageType(ctx context.Context, appID string, messageType models.MessageType) (*models.MappingConfig, error)
}

// TableSource provides generic mapping tables extracted from the standard.
// Mapping returns nil when the message type has no table.
type TableSource interface {
	Mapping(messageType string) *models.MappingTable
}

// Request identifies the rules for one mapping call.
type Request struct {
	// Config, when set, is used as is.
	Config      *models.MappingConfig
	AppID       string
	MessageType models.MessageType
}

// Resolver picks mapping rules for a message and applies them.
// Configs and Tables may be nil.
type Resolver struct {
	Mapper  *Mapper
	Configs ConfigFinder
	Tables  TableSource
	Log     *slog.Logger
}

func (r *Resolver) logger() *slog.Logger {
	if r.Log == nil {
		return slog.Default()
	}
	return r.Log
}

// Rules returns the rules for req: the explicit config, then the config
// stored for the application, then the generic table for the message type.
// The boolean is false when nothing applies.
func (r *Resolver) Rules(ctx context.Context, req Request) ([]models.FieldMapping, bool, error) {
	if req.Config != nil {
		return req.Config.FieldMappings, true, nil
	}

	if r.Configs != nil && req.AppID != "" {
		cfg, err := r.Configs.FindByAppAndMessageType(ctx, req.AppID, req.MessageType)
		switch {
		case err == nil && cfg != nil:
			return cfg.FieldMappings, true, nil
		case err != nil && !errors.Is(err, models.ErrNotFound):
			return nil, false, fmt.Errorf("find mapping config: %w", err)
		}
	}

	if r.Tables != nil {
		if table := r.Tables.Mapping(string(req.MessageType)); table != nil {
			return table.FieldMappings(), true, nil
		}
	}
	return nil, false, nil
}

// ToEDI maps data to the EDI structure. Without applicable rules data is
// returned unchanged.
func (r *Resolver) ToEDI(ctx context.Context, data map[string]any, req Request) (map[string]any, error) {
	rules, ok, err := r.Rules(ctx, req)
	if err != nil {
		return nil, err
	}
	if !ok {
		r.logger().Warn("no mapping table found", "messageType", req.MessageType)
		return data, nil
	}
	return r.Mapper.ToEDI(data, rules), nil
}

// FromEDI maps EDI data back to the application structure. Without
// applicable rules data is returned unchanged.
func (r *Resolver) FromEDI(ctx context.Context, data map[string]any, req Request) (map[string]any, error) {
	rules, ok, err := r.Rules(ctx, req)
	if err != nil {
		return nil, err
	}
	if !ok {
		r.logger().Warn("no mapping table found", "messageType", req.MessageType)
		return data, nil
	}
	return r.Mapper.FromEDI(data, rules), nil
}
