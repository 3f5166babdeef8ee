package chat

import "time"

// User exists for future authentication work; no flow populates it.
type User struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Username  string    `gorm:"type:varchar(64);uniqueIndex" json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

func (User) TableName() string { return "users" }

// Chat groups all turns for one client session token. Created once per
// first-seen session id, never updated, never deleted.
type Chat struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    *uint64   `gorm:"index" json:"-"`
	SessionID string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"session_id"`
	CreatedAt time.Time `json:"created_at"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}

func (Chat) TableName() string { return "chats" }

// Message is one turn of a chat. Content is immutable after insert; only
// Feedback is mutated post-creation.
type Message struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	ChatID       uint64    `gorm:"index;not null" json:"-"`
	Role         string    `gorm:"type:varchar(16);not null;check:role IN ('user','bot')" json:"role"`
	Content      string    `gorm:"type:text;not null" json:"content"`
	Sources      *string   `gorm:"type:text" json:"-"`
	ResponseTime *float64  `json:"response_time"`
	Feedback     *string   `gorm:"type:text" json:"feedback"`
	Timestamp    time.Time `gorm:"column:timestamp;autoCreateTime" json:"timestamp"`

	Chat *Chat `gorm:"foreignKey:ChatID" json:"-"`
}

func (Message) TableName() string { return "messages" }

const (
	RoleUser = "user"
	RoleBot  = "bot"
)
