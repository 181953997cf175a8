package router

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukaji3/edimap-go/pkg/edimap/models"
	"github.com/ukaji3/edimap-go/pkg/edimap/store"
)

func TestParseRoute(t *testing.T) {
	tests := []struct {
		in   string
		want Route
	}{
		{in: "app-1", want: Route{Provider: "local", Address: "app-1", Protocol: ProtocolLocal}},
		{in: "app-1@local", want: Route{Provider: "local", Address: "app-1", Protocol: ProtocolLocal}},
		{in: "app-1@local-tokyo", want: Route{Provider: "local-tokyo", Address: "app-1", Protocol: ProtocolLocal}},
		{in: "shop@esp-east", want: Route{Provider: "esp-east", Address: "shop", Protocol: ProtocolESP}},
		{in: "shop@provider.example.jp", want: Route{Provider: "provider.example.jp", Address: "shop", Protocol: ProtocolAPI}},
		{in: "a@b@c", want: Route{Provider: "local", Address: "a@b@c", Protocol: ProtocolLocal}},
		{in: "  app-1 ", want: Route{Provider: "local", Address: "app-1", Protocol: ProtocolLocal}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRoute(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRouteErrors(t *testing.T) {
	_, err := ParseRoute("")
	assert.ErrorIs(t, err, ErrNoReceiver)

	_, err = ParseRoute("@esp")
	assert.Error(t, err)

	_, err = ParseRoute("app@")
	assert.Error(t, err)
}

type routerFixture struct {
	store  *store.Store
	router *Router
	active *models.Application
}

func newFixture(t *testing.T) routerFixture {
	t.Helper()
	s, err := store.Open(store.Memory)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	app, _, err := s.CreateApplication(context.Background(), "receiver")
	require.NoError(t, err)

	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return routerFixture{
		store:  s,
		active: app,
		router: &Router{Apps: s, Statuses: s, Now: func() time.Time { return fixed }},
	}
}

func (f routerFixture) message(t *testing.T, receiver string) *models.Message {
	t.Helper()
	msg := &models.Message{
		MessageType: models.MessageOrder,
		SenderID:    "sender",
		ReceiverID:  receiver,
		Data:        map[string]any{"ID": "PO-1"},
	}
	require.NoError(t, f.store.CreateMessage(context.Background(), msg))
	return msg
}

func TestDeliverLocal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	msg := f.message(t, f.active.ID+"@local")

	conf, err := f.router.Deliver(ctx, msg)
	require.NoError(t, err)
	assert.True(t, conf.Delivered())
	assert.Equal(t, msg.ID, conf.MessageID)
	require.NotNil(t, conf.DeliveredAt)
	assert.Empty(t, conf.Error)

	stored, err := f.store.GetMessage(ctx, msg.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDelivered, stored.Status)
	require.NotNil(t, stored.DeliveredAt)
	assert.True(t, conf.DeliveredAt.Equal(*stored.DeliveredAt))
}

func TestDeliverLocalFailures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	inactive, _, err := f.store.CreateApplication(ctx, "retired")
	require.NoError(t, err)
	require.NoError(t, f.store.DeactivateApplication(ctx, inactive.ID))

	tests := []struct {
		name     string
		receiver string
		errSub   string
	}{
		{name: "unknown receiver", receiver: "ghost", errSub: "receiver application not found: ghost"},
		{name: "inactive receiver", receiver: inactive.ID, errSub: "receiver application is inactive"},
		{name: "no receiver", receiver: "", errSub: "receiver not set"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := f.message(t, tt.receiver)
			conf, err := f.router.Deliver(ctx, msg)
			require.NoError(t, err)
			assert.False(t, conf.Delivered())
			assert.Equal(t, models.StatusError, conf.Status)
			assert.Contains(t, conf.Error, tt.errSub)
			assert.Nil(t, conf.DeliveredAt)

			stored, err := f.store.GetMessage(ctx, msg.ID)
			require.NoError(t, err)
			assert.Equal(t, models.StatusError, stored.Status)
			assert.Equal(t, conf.Error, stored.ErrorMessage)
		})
	}
}

func TestRouteRemoteTransports(t *testing.T) {
	var sent []Route
	r := &Router{
		Transports: map[Protocol]Transport{
			ProtocolESP: TransportFunc(func(_ context.Context, route Route, _ *models.Message) error {
				sent = append(sent, route)
				return nil
			}),
			ProtocolAPI: TransportFunc(func(context.Context, Route, *models.Message) error {
				return errors.New("connection refused")
			}),
		},
	}
	ctx := context.Background()

	require.NoError(t, r.Route(ctx, &models.Message{ID: "m1", ReceiverID: "shop@esp-1"}))
	require.Len(t, sent, 1)
	assert.Equal(t, "shop", sent[0].Address)

	err := r.Route(ctx, &models.Message{ID: "m2", ReceiverID: "shop@api.example.jp"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api delivery failed")

	// no transport configured for the protocol
	r.Transports = nil
	assert.NoError(t, r.Route(ctx, &models.Message{ID: "m3", ReceiverID: "shop@esp-1"}))

	// local delivery needs an application lookup
	assert.Error(t, r.Route(ctx, &models.Message{ID: "m4", ReceiverID: "shop"}))
}

type failingStatuses struct{}

func (failingStatuses) UpdateMessageStatus(context.Context, string, models.MessageStatus, string, *time.Time) error {
	return errors.New("disk full")
}

func TestDeliverStatusError(t *testing.T) {
	r := &Router{Statuses: failingStatuses{}}
	msg := &models.Message{ID: "m1", ReceiverID: "shop@esp"}

	conf, err := r.Deliver(context.Background(), msg)
	require.Error(t, err)
	assert.True(t, conf.Delivered())
	assert.Equal(t, models.StatusDelivered, msg.Status)
}
