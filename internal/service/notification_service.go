package service

import (
	"fmt"

	"spp-be-svc/internal/models"
	"spp-be-svc/internal/repository"
	"spp-be-svc/pkg/logger"
)

// NotificationService is the in-app notification gateway. All methods are
// fire-and-forget from the billing workflows' perspective: a failure to
// notify is logged and never rolls back the billing transaction.
type NotificationService interface {
	NotifyUser(userID uint, title, message, kind string)
	PublishPaymentAwaitingReview(claim *models.PaymentClaim, studentName string)
	ListByUser(userID uint, page, limit int) ([]*models.Notification, int64, error)
	MarkRead(id, userID uint) error
}

// notificationService implements NotificationService
type notificationService struct {
	notificationRepo repository.NotificationRepository
	userRepo         repository.UserRepository
	logger           *logger.Logger
}

// NewNotificationService creates a new instance of NotificationService
func NewNotificationService(notificationRepo repository.NotificationRepository, userRepo repository.UserRepository, logger *logger.Logger) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		logger:           logger,
	}
}

// NotifyUser stores a notification for one user
func (s *notificationService) NotifyUser(userID uint, title, message, kind string) {
	if userID == 0 {
		return
	}

	notification := &models.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
		Kind:    kind,
	}

	if err := s.notificationRepo.Create(notification); err != nil {
		s.logger.WithError(err).WithFields(map[string]interface{}{
			"user_id": userID,
			"kind":    kind,
		}).Error("Failed to create notification")
	}
}

// PublishPaymentAwaitingReview fans the event out to every admin subscribed
// to app notifications. Subscriber resolution is a separate query so the
// workflow does not know or care how many recipients exist.
func (s *notificationService) PublishPaymentAwaitingReview(claim *models.PaymentClaim, studentName string) {
	admins, err := s.userRepo.GetAdminSubscribers()
	if err != nil {
		s.logger.WithError(err).Error("Failed to resolve admin notification subscribers")
		return
	}

	if len(admins) == 0 {
		return
	}

	message := fmt.Sprintf("%s submitted a payment of %d for invoice #%d", studentName, claim.Amount, claim.InvoiceID)

	notifications := make([]*models.Notification, 0, len(admins))
	for _, admin := range admins {
		notifications = append(notifications, &models.Notification{
			UserID:  admin.ID,
			Title:   "Payment awaiting review",
			Message: message,
			Kind:    models.NotificationKindAwaitingReview,
		})
	}

	if err := s.notificationRepo.CreateBatch(notifications); err != nil {
		s.logger.WithError(err).WithField("claim_id", claim.ID).Error("Failed to fan out payment review notifications")
		return
	}

	s.logger.WithFields(map[string]interface{}{
		"claim_id":   claim.ID,
		"recipients": len(admins),
	}).Info("Payment review notifications published")
}

// ListByUser retrieves notifications for one user with pagination
func (s *notificationService) ListByUser(userID uint, page, limit int) ([]*models.Notification, int64, error) {
	return s.notificationRepo.ListByUser(userID, page, limit)
}

// MarkRead marks one notification as read
func (s *notificationService) MarkRead(id, userID uint) error {
	return s.notificationRepo.MarkRead(id, userID)
}
