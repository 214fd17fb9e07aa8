package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/khalfanathman/portfolio-api/types"
)

// ContactRepository defines persistence operations for contact messages.
type ContactRepository interface {
	List(ctx context.Context) ([]types.ContactMessage, error)
	Get(ctx context.Context, id int) (types.ContactMessage, error)
	Create(ctx context.Context, msg types.ContactMessage) (types.ContactMessage, error)
	Delete(ctx context.Context, id int) error
}

// ContactNotifier announces new contact messages.
type ContactNotifier interface {
	ContactCreated(ctx context.Context, msg types.ContactMessage) (string, error)
}

// ContactService accepts messages from anonymous visitors. Reading and
// deleting them is restricted to admins by the transport layer.
type ContactService struct {
	repo     ContactRepository
	notifier ContactNotifier
	logger   *zap.Logger
}

func NewContactService(repo ContactRepository, notifier ContactNotifier, logger *zap.Logger) *ContactService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContactService{repo: repo, notifier: notifier, logger: logger}
}

// Submit validates and stores msg, then publishes a notification. A failed
// publish is logged and does not fail the submission.
func (s *ContactService) Submit(ctx context.Context, msg types.ContactMessage) (types.ContactMessage, error) {
	msg.ID = 0
	msg.Name = strings.TrimSpace(msg.Name)
	msg.Email = strings.TrimSpace(msg.Email)
	msg.Subject = strings.TrimSpace(msg.Subject)
	if err := validateStruct(msg); err != nil {
		return types.ContactMessage{}, err
	}

	created, err := s.repo.Create(ctx, msg)
	if err != nil {
		return types.ContactMessage{}, err
	}

	if s.notifier != nil {
		if id, err := s.notifier.ContactCreated(ctx, created); err != nil {
			s.logger.Error("failed to publish contact notification",
				zap.Int("contact_id", created.ID), zap.Error(err))
		} else if id != "" {
			s.logger.Debug("contact notification published",
				zap.Int("contact_id", created.ID), zap.String("message_id", id))
		}
	}
	return created, nil
}

func (s *ContactService) List(ctx context.Context) ([]types.ContactMessage, error) {
	return s.repo.List(ctx)
}

func (s *ContactService) Get(ctx context.Context, id int) (types.ContactMessage, error) {
	return s.repo.Get(ctx, id)
}

func (s *ContactService) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}
