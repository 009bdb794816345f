package model

import (
	"time"
)

type Message struct {
	ID         int64      `json:"id" db:"id"`
	SenderID   int64      `json:"senderId" db:"sender_id"`
	ReceiverID int64      `json:"receiverId" db:"receiver_id"`
	Content    string     `json:"content" db:"content"`
	IsRead     bool       `json:"isRead" db:"is_read"`
	ReadAt     *time.Time `json:"readAt" db:"read_at"`
	Timestamps
}

// SendMessageRequest: a zero SenderID means the authenticated user.
type SendMessageRequest struct {
	SenderID   int64  `json:"senderId" binding:"gte=0"`
	ReceiverID int64  `json:"receiverId" binding:"required,gt=0"`
	Content    string `json:"content" binding:"required,notblank"`
}
