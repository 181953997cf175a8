package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/ukaji3/edimap-go/pkg/edimap/models"
)

const applicationColumns = `id, name, api_key_hash, is_active, created_at`

// HashAPIKey returns the stored form of an API key.
func HashAPIKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

// CreateApplication registers an active application and returns it with
// its API key. The key is only available here; the store keeps its hash.
func (s *Store) CreateApplication(ctx context.Context, name string) (*models.Application, string, error) {
	key := "sk_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	app := &models.Application{
		ID:         s.NewID(),
		Name:       name,
		APIKeyHash: HashAPIKey(key),
		IsActive:   true,
		CreatedAt:  s.now(),
	}

	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO applications (`+applicationColumns+`) VALUES (?,?,?,?,?)`,
		app.ID, app.Name, app.APIKeyHash, 1, app.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return nil, "", err
	}
	return app, key, nil
}

// GetApplication retrieves an application by id, active or not.
func (s *Store) GetApplication(ctx context.Context, id string) (*models.Application, error) {
	row := s.DB.QueryRowContext(ctx, `SELECT `+applicationColumns+` FROM applications WHERE id = ?`, id)
	app, err := scanApplication(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("application", id)
	}
	return app, err
}

// FindApplicationByAPIKey returns the active application owning key.
func (s *Store) FindApplicationByAPIKey(ctx context.Context, key string) (*models.Application, error) {
	row := s.DB.QueryRowContext(ctx, `
		SELECT `+applicationColumns+` FROM applications
		WHERE api_key_hash = ? AND is_active = 1`, HashAPIKey(key))
	app, err := scanApplication(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("application", "for api key")
	}
	return app, err
}

// DeactivateApplication disables an application. Its API key stops working.
func (s *Store) DeactivateApplication(ctx context.Context, id string) error {
	res, err := s.DB.ExecContext(ctx, `UPDATE applications SET is_active = 0 WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkAffected(res, "application", id)
}

func scanApplication(row scanner) (*models.Application, error) {
	var (
		app       models.Application
		createdAt int64
	)
	if err := row.Scan(&app.ID, &app.Name, &app.APIKeyHash, &app.IsActive, &createdAt); err != nil {
		return nil, err
	}
	app.CreatedAt = fromMillis(createdAt)
	return &app, nil
}
