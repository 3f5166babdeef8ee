package chat

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// ErrMessageNotFound is returned when a feedback target does not exist.
var ErrMessageNotFound = errors.New("chat: message not found")

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) CreateChat(ctx context.Context, c *Chat) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *Repo) GetChatBySessionID(ctx context.Context, sessionID string) (*Chat, error) {
	var c Chat
	if err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repo) InsertMessage(ctx context.Context, m *Message) error {
	return r.db.WithContext(ctx).Create(m).Error
}

// UpdateFeedback overwrites any prior feedback value (last write wins).
func (r *Repo) UpdateFeedback(ctx context.Context, messageID uint64, feedback string) error {
	res := r.db.WithContext(ctx).Model(&Message{}).
		Where("id = ?", messageID).
		Update("feedback", feedback)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrMessageNotFound
	}
	return nil
}

// ListMessagesAsc returns all messages of a chat in creation order.
// The id breaks ties between turns created within the same timestamp tick.
func (r *Repo) ListMessagesAsc(ctx context.Context, chatID uint64) ([]Message, error) {
	var msgs []Message
	if err := r.db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("timestamp ASC").
		Order("id ASC").
		Find(&msgs).Error; err != nil {
		return nil, err
	}
	return msgs, nil
}
