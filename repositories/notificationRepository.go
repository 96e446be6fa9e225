package repositories

import (
	"SiKecil/models"
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	if err := r.db.WithContext(ctx).Create(notification).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// ListByPatient returns a patient's notifications newest first. Opening the
// list delivers it: every row whose due time has passed is flagged before the
// read, so the caller sees current delivery state.
func (r *NotificationRepository) ListByPatient(ctx context.Context, patientID string) ([]models.Notification, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("patient_id = ? AND due_at <= ? AND delivered = ?", patientID, time.Now(), false).
		Update("delivered", true).Error
	if err != nil {
		return nil, fmt.Errorf("failed to mark due notifications delivered: %w", err)
	}

	var notifications []models.Notification
	err = r.db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("due_at DESC").
		Find(&notifications).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

func (r *NotificationRepository) Delete(ctx context.Context, patientID string, id uint) error {
	err := r.db.WithContext(ctx).
		Delete(&models.Notification{}, "id = ? AND patient_id = ?", id, patientID).Error
	if err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	return nil
}
