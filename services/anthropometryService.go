package services

import (
	"SiKecil/config"
	"SiKecil/models"
	"SiKecil/repositories"
	"SiKecil/utils"
	"context"
	"log"
	"math"
	"time"

	"github.com/pkg/errors"
)

// maxAgeMonths guards against data-entry mistakes; nobody screened here is
// older than 20 years.
const maxAgeMonths = 240

// growthReference holds the median/standard-deviation pair for one age, for
// weight and height. The three linear bands below stand in for a population
// growth-standard lookup table; they are a deterministic placeholder, not a
// clinical source of truth.
type growthReference struct {
	WeightMedian float64
	WeightSD     float64
	HeightMedian float64
	HeightSD     float64
}

func referenceFor(ageMonths int) growthReference {
	age := float64(ageMonths)
	switch {
	case ageMonths <= 24:
		return growthReference{
			WeightMedian: 0.5*age + 3.0,
			WeightSD:     0.2*age + 0.5,
			HeightMedian: 2.0*age + 45.0,
			HeightSD:     0.3*age + 1.0,
		}
	case ageMonths <= 60:
		return growthReference{
			WeightMedian: 0.2*age + 7.0,
			WeightSD:     0.15*age + 0.8,
			HeightMedian: 1.5*age + 65.0,
			HeightSD:     0.2*age + 1.2,
		}
	default:
		return growthReference{
			WeightMedian: 0.15*age + 10.0,
			WeightSD:     0.1*age + 1.0,
			HeightMedian: 1.2*age + 80.0,
			HeightSD:     0.15*age + 1.5,
		}
	}
}

// AnthropometryService turns raw measurements into standardized deviation
// scores and schedules the follow-up reminder.
type AnthropometryService struct {
	measurements  *repositories.MeasurementRepository
	notifications *repositories.NotificationRepository
	config        *config.AppConfig
}

func NewAnthropometryService(
	measurements *repositories.MeasurementRepository,
	notifications *repositories.NotificationRepository,
	config *config.AppConfig,
) *AnthropometryService {
	return &AnthropometryService{
		measurements:  measurements,
		notifications: notifications,
		config:        config,
	}
}

// ScoreMeasurement computes the weight-for-age and height-for-age deviation
// scores for a stored measurement and persists both in a single update, so a
// measurement never ends up half-scored.
//
// Age is whole months, no day-level correction. Negative ages (measurement
// predating birth) and ages above 240 months fail with ErrInvalidInput.
func (s *AnthropometryService) ScoreMeasurement(ctx context.Context, measurementID uint) (*models.Measurement, error) {
	measurement, err := s.measurements.GetByID(ctx, measurementID)
	if err != nil {
		return nil, errors.Wrap(err, "score: failed to load measurement")
	}
	if measurement == nil {
		return nil, errors.Wrap(ErrNotFound, "score: measurement does not exist")
	}

	birth := measurement.Patient.BirthDate
	ageMonths := (measurement.MeasuredAt.Year()-birth.Year())*12 +
		int(measurement.MeasuredAt.Month()) - int(birth.Month())

	if ageMonths < 0 {
		return nil, errors.Wrap(ErrInvalidInput, "score: measurement predates the patient's birth")
	}
	if ageMonths > maxAgeMonths {
		return nil, errors.Wrap(ErrInvalidInput, "score: patient age exceeds 240 months")
	}

	ref := referenceFor(ageMonths)
	if ref.WeightSD == 0 || ref.HeightSD == 0 {
		return nil, errors.Wrap(ErrComputation, "score: zero reference standard deviation")
	}

	weightForAgeZ := clampScore(round2((measurement.Weight - ref.WeightMedian) / ref.WeightSD))
	heightForAgeZ := clampScore(round2((measurement.Height - ref.HeightMedian) / ref.HeightSD))

	if err := s.measurements.SaveScores(ctx, measurement.ID, weightForAgeZ, heightForAgeZ); err != nil {
		return nil, errors.Wrap(err, "score: failed to persist scores")
	}

	measurement.WeightForAgeZ = &weightForAgeZ
	measurement.HeightForAgeZ = &heightForAgeZ
	return measurement, nil
}

// ScheduleFollowup creates the remeasurement reminder due 30 calendar days
// after the measurement date (normalized to start of day, local time) plus an
// immediate nutrition-tip notification for the same patient. When a guardian
// email is on file and SMTP is configured, a copy of the reminder goes out by
// mail; mail failures are logged and never fail the scheduling.
func (s *AnthropometryService) ScheduleFollowup(ctx context.Context, measurement *models.Measurement) (*models.Notification, error) {
	patient := measurement.Patient
	if patient.ID == "" {
		return nil, errors.Wrap(ErrInvalidInput, "followup: measurement has no resolvable patient")
	}

	measured := measurement.MeasuredAt
	startOfDay := time.Date(measured.Year(), measured.Month(), measured.Day(), 0, 0, 0, 0, time.Local)
	dueAt := startOfDay.AddDate(0, 0, 30)

	reminder := &models.Notification{
		PatientID: patient.ID,
		Title:     "Jadwal Pengukuran Ulang",
		Message:   "Saatnya melakukan pengukuran ulang pertumbuhan " + patient.Name + ".",
		DueAt:     dueAt,
		Kind:      models.NotificationRemeasure,
	}
	if err := s.notifications.Create(ctx, reminder); err != nil {
		return nil, errors.Wrap(err, "followup: failed to create reminder")
	}

	tip := &models.Notification{
		PatientID: patient.ID,
		Title:     "Tips Gizi Hari Ini",
		Message:   "Jangan lupa berikan asupan protein hewani untuk mencegah stunting pada si kecil!",
		DueAt:     time.Now(),
		Kind:      models.NotificationNutrition,
	}
	if err := s.notifications.Create(ctx, tip); err != nil {
		return nil, errors.Wrap(err, "followup: failed to create nutrition tip")
	}

	if patient.GuardianEmail != "" && s.config != nil && s.config.MailConfigured() {
		if err := utils.SendFollowupEmail(patient.GuardianEmail, patient.Name, dueAt.Format("2006-01-02")); err != nil {
			log.Printf("Failed to email follow-up reminder: %v", err)
		}
	}

	return reminder, nil
}

// round2 rounds to two decimal places before clamping, matching the
// screening protocol's published arithmetic.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// clampScore keeps a deviation score inside the plausible [-3, 3] band.
func clampScore(v float64) float64 {
	return math.Max(math.Min(v, 3.0), -3.0)
}
