// Package messaging stores direct messages between users. User ids are
// opaque here; neither party is looked up.
package messaging

import (
	"context"

	"github.com/benbjohnson/clock"

	"github.com/jwalitptl/medtrack-api/internal/model"
	"github.com/jwalitptl/medtrack-api/internal/repository"
	"github.com/jwalitptl/medtrack-api/pkg/metrics"
)

type Service struct {
	messages repository.MessageRepository
	clock    clock.Clock
	metrics  *metrics.Metrics
}

func NewService(messages repository.MessageRepository, clk clock.Clock, m *metrics.Metrics) *Service {
	return &Service{messages: messages, clock: clk, metrics: m}
}

// Send stores an unread message. A zero SenderID is replaced with authUserID.
func (s *Service) Send(ctx context.Context, authUserID int64, req *model.SendMessageRequest) (*model.Message, error) {
	senderID := req.SenderID
	if senderID == 0 {
		senderID = authUserID
	}

	msg := &model.Message{
		SenderID:   senderID,
		ReceiverID: req.ReceiverID,
		Content:    req.Content,
	}
	msg.CreatedAt = s.clock.Now()

	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, err
	}
	s.metrics.MessageSent()
	return msg, nil
}

// Conversation returns messages the user sent or received, oldest first.
func (s *Service) Conversation(ctx context.Context, userID int64) ([]*model.Message, error) {
	return s.messages.ListByParticipant(ctx, userID)
}

// Unread returns unread messages addressed to the user, newest first.
func (s *Service) Unread(ctx context.Context, userID int64) ([]*model.Message, error) {
	return s.messages.ListUnread(ctx, userID)
}

func (s *Service) MarkRead(ctx context.Context, id int64) (*model.Message, error) {
	return s.messages.MarkRead(ctx, id, s.clock.Now())
}
