package repositories

import (
	"database/sql"
	"time"

	"github.com/alimgiray/staffhub/internal/models"
	"github.com/google/uuid"
)

const notificationColumns = `id, type, title, message, is_read, recipient, link, priority, created_at`

type NotificationRepository struct {
	db Querier
}

func NewNotificationRepository(db Querier) *NotificationRepository {
	return &NotificationRepository{
		db: db,
	}
}

// WithTx returns a repository bound to tx
func (r *NotificationRepository) WithTx(tx *sql.Tx) *NotificationRepository {
	return &NotificationRepository{db: tx}
}

// Create creates a new notification
func (r *NotificationRepository) Create(n *models.Notification) error {
	query := `
		INSERT INTO notifications (id, type, title, message, is_read, recipient, link, priority, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		n.ID.String(),
		n.Type,
		n.Title,
		n.Message,
		n.Read,
		n.Recipient,
		n.Link,
		n.Priority,
		n.CreatedAt,
	)
	return err
}

// GetByRecipient retrieves every notification of a recipient, newest first
func (r *NotificationRepository) GetByRecipient(recipient string) ([]*models.Notification, error) {
	return r.list(`SELECT `+notificationColumns+` FROM notifications WHERE recipient = ? ORDER BY created_at DESC`, recipient)
}

// GetUnread retrieves the unread notifications of a recipient
func (r *NotificationRepository) GetUnread(recipient string) ([]*models.Notification, error) {
	return r.list(`SELECT `+notificationColumns+` FROM notifications WHERE recipient = ? AND is_read = 0 ORDER BY created_at DESC`, recipient)
}

// CountUnread counts the unread notifications of a recipient
func (r *NotificationRepository) CountUnread(recipient string) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM notifications WHERE recipient = ? AND is_read = 0`, recipient).Scan(&count)
	return count, err
}

// GetByType retrieves a recipient's notifications of one type
func (r *NotificationRepository) GetByType(recipient string, notificationType models.NotificationType) ([]*models.Notification, error) {
	return r.list(`SELECT `+notificationColumns+` FROM notifications WHERE recipient = ? AND type = ? ORDER BY created_at DESC`, recipient, notificationType)
}

// GetByPriority retrieves a recipient's notifications of one priority
func (r *NotificationRepository) GetByPriority(recipient string, priority models.NotificationPriority) ([]*models.Notification, error) {
	return r.list(`SELECT `+notificationColumns+` FROM notifications WHERE recipient = ? AND priority = ? ORDER BY created_at DESC`, recipient, priority)
}

// GetSince retrieves a recipient's notifications created at or after since.
// Timestamps are stored in one UTC text layout, so they compare as strings.
func (r *NotificationRepository) GetSince(recipient string, since time.Time) ([]*models.Notification, error) {
	return r.list(`SELECT `+notificationColumns+` FROM notifications WHERE recipient = ? AND created_at >= ? ORDER BY created_at DESC`, recipient, since.UTC())
}

// MarkRead marks one of the recipient's notifications read
func (r *NotificationRepository) MarkRead(id, recipient string) error {
	result, err := r.db.Exec(`UPDATE notifications SET is_read = 1 WHERE id = ? AND recipient = ?`, id, recipient)
	if err != nil {
		return err
	}
	if err := checkAffected(result); err != nil {
		return models.NewNotFoundError("Notification", id)
	}
	return nil
}

// MarkAllRead marks every notification of the recipient read
func (r *NotificationRepository) MarkAllRead(recipient string) (int, error) {
	result, err := r.db.Exec(`UPDATE notifications SET is_read = 1 WHERE recipient = ? AND is_read = 0`, recipient)
	if err != nil {
		return 0, err
	}
	affected, err := result.RowsAffected()
	return int(affected), err
}

// Delete deletes one of the recipient's notifications
func (r *NotificationRepository) Delete(id, recipient string) error {
	result, err := r.db.Exec(`DELETE FROM notifications WHERE id = ? AND recipient = ?`, id, recipient)
	if err != nil {
		return err
	}
	if err := checkAffected(result); err != nil {
		return models.NewNotFoundError("Notification", id)
	}
	return nil
}

// DeleteReadBefore removes read notifications created before cutoff
func (r *NotificationRepository) DeleteReadBefore(cutoff time.Time) (int, error) {
	result, err := r.db.Exec(`DELETE FROM notifications WHERE is_read = 1 AND created_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, err
	}
	affected, err := result.RowsAffected()
	return int(affected), err
}

func (r *NotificationRepository) list(query string, args ...any) ([]*models.Notification, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notifications := []*models.Notification{}
	for rows.Next() {
		n := &models.Notification{}
		var id string
		err := rows.Scan(
			&id,
			&n.Type,
			&n.Title,
			&n.Message,
			&n.Read,
			&n.Recipient,
			&n.Link,
			&n.Priority,
			&n.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		if n.ID, err = uuid.Parse(id); err != nil {
			return nil, err
		}
		n.CreatedAt = n.CreatedAt.UTC()
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}
