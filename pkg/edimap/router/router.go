// Package router delivers stored EDI messages to their receivers.
package router

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ukaji3/edimap-go/pkg/edimap/models"
)

// Protocol is the delivery channel chosen for a receiver.
type Protocol string

const (
	ProtocolLocal Protocol = "local"
	ProtocolAPI   Protocol = "api"
	ProtocolESP   Protocol = "esp"
)

// ErrNoReceiver is returned for messages without a receiver.
var ErrNoReceiver = errors.New("receiver not set")

// Route is a parsed receiver address.
type Route struct {
	// Provider is the EDI provider hosting the receiver.
	Provider string `json:"provider"`
	// Address is the receiver inside the provider.
	Address  string   `json:"address"`
	Protocol Protocol `json:"protocol"`
}

// ParseRoute splits a receiver id of the form receiver@provider.
// Providers starting with "local" use the local protocol, those starting
// with "esp" the ESP protocol and all others the API protocol. A bare
// receiver is local.
func ParseRoute(receiverID string) (Route, error) {
	receiverID = strings.TrimSpace(receiverID)
	if receiverID == "" {
		return Route{}, ErrNoReceiver
	}

	receiver, provider, ok := strings.Cut(receiverID, "@")
	if !ok || strings.Contains(provider, "@") {
		return Route{Provider: "local", Address: receiverID, Protocol: ProtocolLocal}, nil
	}
	if receiver == "" || provider == "" {
		return Route{}, fmt.Errorf("malformed receiver %q", receiverID)
	}

	protocol := ProtocolAPI
	switch {
	case strings.HasPrefix(provider, "local"):
		protocol = ProtocolLocal
	case strings.HasPrefix(provider, "esp"):
		protocol = ProtocolESP
	}
	return Route{Provider: provider, Address: receiver, Protocol: protocol}, nil
}

// ApplicationGetter looks up registered applications.
type ApplicationGetter interface {
	GetApplication(ctx context.Context, id string) (*models.Application, error)
}

// StatusUpdater persists the delivery status of a message.
type StatusUpdater interface {
	UpdateMessageStatus(ctx context.Context, id string, status models.MessageStatus, errMsg string, deliveredAt *time.Time) error
}

// Transport hands a message to a remote provider.
type Transport interface {
	Send(ctx context.Context, route Route, msg *models.Message) error
}

// TransportFunc adapts a function to Transport.
type TransportFunc func(ctx context.Context, route Route, msg *models.Message) error

// Send calls f.
func (f TransportFunc) Send(ctx context.Context, route Route, msg *models.Message) error {
	return f(ctx, route, msg)
}

// Router chooses a route per message and delivers it.
type Router struct {
	// Apps resolves local receivers. Required for local delivery.
	Apps ApplicationGetter
	// Statuses, when set, receives the delivery outcome.
	Statuses StatusUpdater
	// Transports maps remote protocols to their senders. Protocols
	// without a transport are accepted and logged.
	Transports map[Protocol]Transport
	Log        *slog.Logger
	Now        func() time.Time
}

func (r *Router) logger() *slog.Logger {
	if r.Log == nil {
		return slog.Default()
	}
	return r.Log
}

func (r *Router) now() time.Time {
	if r.Now == nil {
		return time.Now().UTC()
	}
	return r.Now()
}

// Route delivers msg according to its receiver address.
func (r *Router) Route(ctx context.Context, msg *models.Message) error {
	route, err := ParseRoute(msg.ReceiverID)
	if err != nil {
		return err
	}

	switch route.Protocol {
	case ProtocolLocal:
		return r.sendLocal(ctx, route)
	case ProtocolAPI, ProtocolESP:
		if t, ok := r.Transports[route.Protocol]; ok {
			if err := t.Send(ctx, route, msg); err != nil {
				return fmt.Errorf("%s delivery failed: %w", route.Protocol, err)
			}
			return nil
		}
		r.logger().Info("message handed to provider",
			"messageId", msg.ID, "provider", route.Provider, "protocol", route.Protocol)
		return nil
	default:
		return fmt.Errorf("unknown protocol: %s", route.Protocol)
	}
}

func (r *Router) sendLocal(ctx context.Context, route Route) error {
	if r.Apps == nil {
		return errors.New("local delivery unavailable")
	}
	app, err := r.Apps.GetApplication(ctx, route.Address)
	if errors.Is(err, models.ErrNotFound) {
		return fmt.Errorf("receiver application not found: %s", route.Address)
	}
	if err != nil {
		return fmt.Errorf("local delivery failed: %w", err)
	}
	if !app.IsActive {
		return fmt.Errorf("receiver application is inactive: %s", route.Address)
	}
	return nil
}
