package services

import (
	"SiKecil/models"
	"SiKecil/repositories"
	"context"
)

type NotificationService struct {
	notifications *repositories.NotificationRepository
}

func NewNotificationService(notifications *repositories.NotificationRepository) *NotificationService {
	return &NotificationService{notifications: notifications}
}

// ListByPatient returns the patient's notifications; due rows flip to
// delivered as a side effect of listing.
func (s *NotificationService) ListByPatient(ctx context.Context, patientID string) ([]models.Notification, error) {
	return s.notifications.ListByPatient(ctx, patientID)
}

func (s *NotificationService) Delete(ctx context.Context, patientID string, id uint) error {
	return s.notifications.Delete(ctx, patientID, id)
}
