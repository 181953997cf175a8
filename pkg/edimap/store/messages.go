package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ukaji3/edimap-go/pkg/edimap/models"
)

const messageColumns = `id, message_type, sender_id, receiver_id, status, data, xml_data, error_message, created_at, updated_at, delivered_at`

// DefaultPageSize is used by list queries when limit is not positive.
const DefaultPageSize = 50

// CreateMessage inserts msg, assigning its id and timestamps. An empty
// status is stored as pending.
func (s *Store) CreateMessage(ctx context.Context, msg *models.Message) error {
	data, err := json.Marshal(msg.Data)
	if err != nil {
		return fmt.Errorf("encode message data: %w", err)
	}
	if msg.Status == "" {
		msg.Status = models.StatusPending
	}
	msg.ID = s.NewID()
	msg.CreatedAt = s.now()
	msg.UpdatedAt = msg.CreatedAt

	_, err = s.DB.ExecContext(ctx, `
		INSERT INTO messages (`+messageColumns+`)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		msg.ID, string(msg.MessageType), msg.SenderID, msg.ReceiverID, string(msg.Status),
		string(data), msg.XMLData, msg.ErrorMessage,
		msg.CreatedAt.UnixMilli(), msg.UpdatedAt.UnixMilli(), millisOrNil(msg.DeliveredAt),
	)
	return err
}

// GetMessage retrieves a message by id.
func (s *Store) GetMessage(ctx context.Context, id string) (*models.Message, error) {
	row := s.DB.QueryRowContext(ctx, `SELECT `+messageColumns+` FROM messages WHERE id = ?`, id)
	msg, err := scanMessage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("message", id)
	}
	return msg, err
}

// UpdateMessageStatus sets the status of a message. errMsg and deliveredAt
// are only written when set.
func (s *Store) UpdateMessageStatus(ctx context.Context, id string, status models.MessageStatus, errMsg string, deliveredAt *time.Time) error {
	query := `UPDATE messages SET status = ?, updated_at = ?`
	args := []any{string(status), s.now().UnixMilli()}
	if errMsg != "" {
		query += `, error_message = ?`
		args = append(args, errMsg)
	}
	if deliveredAt != nil {
		query += `, delivered_at = ?`
		args = append(args, deliveredAt.UnixMilli())
	}
	query += ` WHERE id = ?`
	args = append(args, id)

	res, err := s.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	return checkAffected(res, "message", id)
}

// ListMessagesBySender returns one page of a sender's messages, newest
// first, and the total count.
func (s *Store) ListMessagesBySender(ctx context.Context, senderID string, limit, offset int) ([]*models.Message, int, error) {
	return s.listMessages(ctx, "sender_id", senderID, limit, offset)
}

// ListMessagesByReceiver returns one page of a receiver's messages, newest
// first, and the total count.
func (s *Store) ListMessagesByReceiver(ctx context.Context, receiverID string, limit, offset int) ([]*models.Message, int, error) {
	return s.listMessages(ctx, "receiver_id", receiverID, limit, offset)
}

// listMessages filters on column, which is always a constant from this file.
func (s *Store) listMessages(ctx context.Context, column, value string, limit, offset int) ([]*models.Message, int, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if offset < 0 {
		offset = 0
	}

	var total int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM messages WHERE `+column+` = ?`, value).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.DB.QueryContext(ctx, `
		SELECT `+messageColumns+` FROM messages
		WHERE `+column+` = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`, value, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*models.Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, msg)
	}
	return out, total, rows.Err()
}

func scanMessage(row scanner) (*models.Message, error) {
	var (
		msg                  models.Message
		messageType, status  string
		data                 string
		createdAt, updatedAt int64
		deliveredAt          sql.NullInt64
	)
	err := row.Scan(&msg.ID, &messageType, &msg.SenderID, &msg.ReceiverID, &status,
		&data, &msg.XMLData, &msg.ErrorMessage, &createdAt, &updatedAt, &deliveredAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(data), &msg.Data); err != nil {
		return nil, fmt.Errorf("decode data of message %s: %w", msg.ID, err)
	}
	msg.MessageType = models.MessageType(messageType)
	msg.Status = models.MessageStatus(status)
	msg.CreatedAt = fromMillis(createdAt)
	msg.UpdatedAt = fromMillis(updatedAt)
	if deliveredAt.Valid {
		t := fromMillis(deliveredAt.Int64)
		msg.DeliveredAt = &t
	}
	return &msg, nil
}

func millisOrNil(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UnixMilli()
}
