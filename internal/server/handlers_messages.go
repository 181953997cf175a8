package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ukaji3/edimap-go/pkg/edimap/mapping"
	"github.com/ukaji3/edimap-go/pkg/edimap/models"
	"github.com/ukaji3/edimap-go/pkg/edimap/router"
	"github.com/ukaji3/edimap-go/pkg/edimap/store"
	"github.com/ukaji3/edimap-go/pkg/edimap/xmlconv"
)

// sendRequest is the body of POST /messages/{messageType}. A body without
// a data member is taken as the data itself.
type sendRequest struct {
	ReceiverID string         `json:"receiverId"`
	Data       map[string]any `json:"data"`
}

type sendResponse struct {
	ID           string               `json:"id"`
	MessageType  models.MessageType   `json:"messageType"`
	Status       models.MessageStatus `json:"status"`
	CreatedAt    time.Time            `json:"createdAt"`
	Confirmation router.Confirmation  `json:"confirmation"`
}

// handleSendMessage maps application data to the EDI standard, renders and
// validates XML, stores the message and routes it to the receiver.
func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	app := applicationFrom(r.Context())
	mt := models.MessageType(chi.URLParam(r, "messageType"))
	if !mt.Valid() {
		respondErrorJSON(w, http.StatusBadRequest, "unknown message type: "+string(mt), "BAD_REQUEST")
		return
	}

	var raw map[string]any
	if err := decodeJSON(r, &raw); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	req := parseSendRequest(raw)
	if req.ReceiverID == "" {
		respondErrorJSON(w, http.StatusBadRequest, "receiverId is required", "BAD_REQUEST")
		return
	}

	ediData, err := s.resolver.ToEDI(r.Context(), req.Data, mapping.Request{AppID: app.ID, MessageType: mt})
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	doc, err := xmlconv.ToXML(ediData, mt)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	if res := xmlconv.Validate(doc, mt); !res.Valid {
		respondErrorJSON(w, http.StatusBadRequest, "XML validation failed", "VALIDATION", res.Errors...)
		return
	}

	msg := &models.Message{
		MessageType: mt,
		SenderID:    app.ID,
		ReceiverID:  req.ReceiverID,
		Data:        ediData,
		XMLData:     doc,
	}
	if err := s.store.CreateMessage(r.Context(), msg); err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	conf, err := s.delivery.Deliver(r.Context(), msg)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusCreated, sendResponse{
		ID:           msg.ID,
		MessageType:  msg.MessageType,
		Status:       msg.Status,
		CreatedAt:    msg.CreatedAt,
		Confirmation: conf,
	})
}

func parseSendRequest(raw map[string]any) sendRequest {
	var req sendRequest
	for _, k := range []string{"receiverId", "receiver_id"} {
		if v, ok := raw[k].(string); ok && v != "" {
			req.ReceiverID = v
			break
		}
	}
	if data, ok := raw["data"].(map[string]any); ok {
		req.Data = data
		return req
	}
	req.Data = make(map[string]any, len(raw))
	for k, v := range raw {
		if k != "receiverId" && k != "receiver_id" {
			req.Data[k] = v
		}
	}
	return req
}

type listMessagesResponse struct {
	Messages []*models.Message `json:"messages"`
	Total    int               `json:"total"`
	Limit    int               `json:"limit"`
	Offset   int               `json:"offset"`
}

func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	app := applicationFrom(r.Context())
	limit := intQuery(r, "limit", store.DefaultPageSize)
	offset := intQuery(r, "offset", 0)

	msgs, total, err := s.store.ListMessagesBySender(r.Context(), app.ID, limit, offset)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	if msgs == nil {
		msgs = []*models.Message{}
	}
	respondJSON(w, http.StatusOK, listMessagesResponse{Messages: msgs, Total: total, Limit: limit, Offset: offset})
}

// loadMessage fetches the message in the URL and checks the caller may see it.
// Senders and receivers have access; receivers are matched on their address.
func (s *Server) loadMessage(w http.ResponseWriter, r *http.Request) (*models.Message, bool) {
	app := applicationFrom(r.Context())
	msg, err := s.store.GetMessage(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return nil, false
	}
	if msg.SenderID == app.ID {
		return msg, true
	}
	if route, err := router.ParseRoute(msg.ReceiverID); err == nil && route.Address == app.ID {
		return msg, true
	}
	respondErrorJSON(w, http.StatusForbidden, "you do not have permission to access this message", "FORBIDDEN")
	return nil, false
}

func (s *Server) handleGetMessage(w http.ResponseWriter, r *http.Request) {
	msg, ok := s.loadMessage(w, r)
	if !ok {
		return
	}
	if r.URL.Query().Get("format") == "xml" && msg.XMLData != "" {
		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(msg.XMLData))
		return
	}
	respondJSON(w, http.StatusOK, msg)
}

type statusResponse struct {
	ID           string               `json:"id"`
	Status       models.MessageStatus `json:"status"`
	CreatedAt    time.Time            `json:"createdAt"`
	UpdatedAt    time.Time            `json:"updatedAt"`
	DeliveredAt  *time.Time           `json:"deliveredAt,omitempty"`
	ErrorMessage string               `json:"errorMessage,omitempty"`
}

func (s *Server) handleMessageStatus(w http.ResponseWriter, r *http.Request) {
	msg, ok := s.loadMessage(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, statusResponse{
		ID:           msg.ID,
		Status:       msg.Status,
		CreatedAt:    msg.CreatedAt,
		UpdatedAt:    msg.UpdatedAt,
		DeliveredAt:  msg.DeliveredAt,
		ErrorMessage: msg.ErrorMessage,
	})
}
