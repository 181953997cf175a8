package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukaji3/edimap-go/pkg/edimap/models"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(Memory)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	// strictly increasing clock so ordering is deterministic
	base := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	tick := 0
	s.Now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	return s
}

func sampleConfig(appID string, mt models.MessageType) *models.MappingConfig {
	return &models.MappingConfig{
		AppID:       appID,
		AppName:     "販売管理",
		MessageType: mt,
		FieldMappings: []models.FieldMapping{
			{AppField: "orderNo", EDIField: "ExchangedDocument.ID", Required: true},
			{AppField: "total", EDIField: "Summation.Total", DataType: models.DataTypeNumber, DefaultValue: 0.0},
		},
	}
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "edimap.db")
	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	app, _, err := s.CreateApplication(context.Background(), "app")
	require.NoError(t, err)
	assert.Len(t, app.ID, 36)
}

func TestMappingConfigCRUD(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	cfg := sampleConfig("app-1", models.MessageOrder)
	require.NoError(t, s.CreateMappingConfig(ctx, cfg))
	require.NotEmpty(t, cfg.ID)
	assert.Equal(t, models.FormatJSON, cfg.FormatType)

	got, err := s.GetMappingConfig(ctx, cfg.ID)
	require.NoError(t, err)
	assert.Equal(t, cfg.AppName, got.AppName)
	assert.Equal(t, models.MessageOrder, got.MessageType)
	assert.Equal(t, cfg.FieldMappings, got.FieldMappings)
	assert.True(t, cfg.CreatedAt.Equal(got.CreatedAt))

	found, err := s.FindByAppAndMessageType(ctx, "app-1", models.MessageOrder)
	require.NoError(t, err)
	assert.Equal(t, cfg.ID, found.ID)

	_, err = s.FindByAppAndMessageType(ctx, "app-1", models.MessageInvoice)
	assert.ErrorIs(t, err, models.ErrNotFound)

	got.FieldMappings = got.FieldMappings[:1]
	got.FormatType = models.FormatXML
	require.NoError(t, s.UpdateMappingConfig(ctx, got))

	updated, err := s.GetMappingConfig(ctx, cfg.ID)
	require.NoError(t, err)
	assert.Len(t, updated.FieldMappings, 1)
	assert.Equal(t, models.FormatXML, updated.FormatType)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))

	require.NoError(t, s.DeleteMappingConfig(ctx, cfg.ID))
	_, err = s.GetMappingConfig(ctx, cfg.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.ErrorIs(t, s.DeleteMappingConfig(ctx, cfg.ID), models.ErrNotFound)

	missing := sampleConfig("app-1", models.MessageOrder)
	missing.ID = "nope"
	assert.ErrorIs(t, s.UpdateMappingConfig(ctx, missing), models.ErrNotFound)
}

func TestMappingConfigConflict(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateMappingConfig(ctx, sampleConfig("app-1", models.MessageOrder)))
	err := s.CreateMappingConfig(ctx, sampleConfig("app-1", models.MessageOrder))
	assert.ErrorIs(t, err, models.ErrConflict)

	// same message type for another application is fine
	require.NoError(t, s.CreateMappingConfig(ctx, sampleConfig("app-2", models.MessageOrder)))
}

func TestListMappingConfigs(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	first := sampleConfig("app-1", models.MessageOrder)
	second := sampleConfig("app-1", models.MessageInvoice)
	require.NoError(t, s.CreateMappingConfig(ctx, first))
	require.NoError(t, s.CreateMappingConfig(ctx, second))
	require.NoError(t, s.CreateMappingConfig(ctx, sampleConfig("app-2", models.MessageOrder)))

	list, err := s.ListMappingConfigs(ctx, "app-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)

	empty, err := s.ListMappingConfigs(ctx, "none")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestApplications(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	app, key, err := s.CreateApplication(ctx, "受注システム")
	require.NoError(t, err)
	assert.True(t, app.IsActive)
	assert.Regexp(t, `^sk_[0-9a-f]{32}$`, key)
	assert.Equal(t, HashAPIKey(key), app.APIKeyHash)
	assert.NotContains(t, app.APIKeyHash, key)

	got, err := s.GetApplication(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, "受注システム", got.Name)
	assert.True(t, got.IsActive)

	byKey, err := s.FindApplicationByAPIKey(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, app.ID, byKey.ID)

	_, err = s.FindApplicationByAPIKey(ctx, "sk_wrong")
	assert.ErrorIs(t, err, models.ErrNotFound)

	require.NoError(t, s.DeactivateApplication(ctx, app.ID))
	_, err = s.FindApplicationByAPIKey(ctx, key)
	assert.ErrorIs(t, err, models.ErrNotFound)

	inactive, err := s.GetApplication(ctx, app.ID)
	require.NoError(t, err)
	assert.False(t, inactive.IsActive)

	_, err = s.GetApplication(ctx, "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.ErrorIs(t, s.DeactivateApplication(ctx, "missing"), models.ErrNotFound)
}

func TestMessages(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	msg := &models.Message{
		MessageType: models.MessageOrder,
		SenderID:    "app-1",
		ReceiverID:  "app-2@local",
		Data:        map[string]any{"ExchangedDocument": map[string]any{"ID": "PO-1"}, "Total": 1500.0},
		XMLData:     "<SMEOrder/>",
	}
	require.NoError(t, s.CreateMessage(ctx, msg))
	assert.Equal(t, models.StatusPending, msg.Status)

	got, err := s.GetMessage(ctx, msg.ID)
	require.NoError(t, err)
	assert.Equal(t, msg.Data, got.Data)
	assert.Equal(t, "<SMEOrder/>", got.XMLData)
	assert.Equal(t, "app-2@local", got.ReceiverID)
	assert.Nil(t, got.DeliveredAt)

	delivered := time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.UpdateMessageStatus(ctx, msg.ID, models.StatusDelivered, "", &delivered))

	got, err = s.GetMessage(ctx, msg.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDelivered, got.Status)
	require.NotNil(t, got.DeliveredAt)
	assert.True(t, delivered.Equal(*got.DeliveredAt))
	assert.Empty(t, got.ErrorMessage)

	require.NoError(t, s.UpdateMessageStatus(ctx, msg.ID, models.StatusError, "receiver inactive", nil))
	got, err = s.GetMessage(ctx, msg.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusError, got.Status)
	assert.Equal(t, "receiver inactive", got.ErrorMessage)
	require.NotNil(t, got.DeliveredAt)

	assert.ErrorIs(t, s.UpdateMessageStatus(ctx, "missing", models.StatusSent, "", nil), models.ErrNotFound)
	_, err = s.GetMessage(ctx, "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestListMessages(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 5; i++ {
		msg := &models.Message{MessageType: models.MessageInvoice, SenderID: "app-1", ReceiverID: "app-2", Data: map[string]any{"n": float64(i)}}
		require.NoError(t, s.CreateMessage(ctx, msg))
		ids = append(ids, msg.ID)
	}
	require.NoError(t, s.CreateMessage(ctx, &models.Message{MessageType: models.MessageOrder, SenderID: "app-3", Data: map[string]any{}}))

	page, total, err := s.ListMessagesBySender(ctx, "app-1", 2, 0)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, page, 2)
	assert.Equal(t, ids[4], page[0].ID)
	assert.Equal(t, ids[3], page[1].ID)

	page, _, err = s.ListMessagesBySender(ctx, "app-1", 2, 4)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, ids[0], page[0].ID)

	page, total, err = s.ListMessagesByReceiver(ctx, "app-2", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Len(t, page, 5)

	page, total, err = s.ListMessagesBySender(ctx, "nobody", 10, 0)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, page)
}
