package services

import (
	"SiKecil/models"
	"SiKecil/repositories"
	"SiKecil/utils"
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type PatientService struct {
	patients *repositories.PatientRepository
}

func NewPatientService(patients *repositories.PatientRepository) *PatientService {
	return &PatientService{patients: patients}
}

// Register validates and creates a new patient account with a hashed
// credential pair.
func (s *PatientService) Register(ctx context.Context, patient *models.Patient, rawPassword string) error {
	if err := utils.ValidatePatientRegistration(*patient, rawPassword); err != nil {
		return errors.Wrap(ErrInvalidInput, err.Error())
	}

	existing, err := s.patients.GetByUsername(ctx, patient.Username)
	if err != nil {
		return errors.Wrap(err, "register: failed to check username")
	}
	if existing != nil {
		return errors.Wrap(ErrInvalidInput, "register: username already taken")
	}

	patient.ID = uuid.New().String()
	if err := patient.SetPassword(rawPassword); err != nil {
		return errors.Wrap(err, "register: failed to hash password")
	}
	return s.patients.Create(ctx, patient)
}

// Authenticate verifies the credential pair and returns the patient.
func (s *PatientService) Authenticate(ctx context.Context, username, rawPassword string) (*models.Patient, error) {
	patient, err := s.patients.GetByUsername(ctx, username)
	if err != nil {
		return nil, errors.Wrap(err, "authenticate: failed to load patient")
	}
	if patient == nil || !patient.CheckPassword(rawPassword) {
		return nil, errors.Wrap(ErrNotFound, "authenticate: invalid username or password")
	}
	return patient, nil
}

func (s *PatientService) GetByID(ctx context.Context, id string) (*models.Patient, error) {
	patient, err := s.patients.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, errors.Wrap(ErrNotFound, "patient does not exist")
	}
	return patient, nil
}

func (s *PatientService) GetAll(ctx context.Context) ([]models.Patient, error) {
	return s.patients.GetAll(ctx)
}

// Update edits the demographic fields; the credential pair only changes when
// a new password is supplied.
func (s *PatientService) Update(ctx context.Context, patient *models.Patient, newPassword string) error {
	if newPassword != "" {
		if err := patient.SetPassword(newPassword); err != nil {
			return errors.Wrap(err, "update: failed to hash password")
		}
	}
	return s.patients.Update(ctx, patient)
}

func (s *PatientService) Delete(ctx context.Context, id string) error {
	return s.patients.Delete(ctx, id)
}
