package utils

import (
	"SiKecil/models"
	"errors"
	"log"
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Validation errors
var (
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters long")
	ErrPasswordNotComplex = errors.New("password must include at least one uppercase letter, one lowercase letter, one digit, and one special character")
	ErrInvalidResetCode   = errors.New("invalid reset code")
)

// ValidateUserData validates expert portal user data using ozzo-validation.
func ValidateUserData(user models.User) error {
	err := validation.ValidateStruct(&user,
		validation.Field(&user.Username, validation.Required, validation.Length(3, 50)),
		validation.Field(&user.Email, validation.Required, is.Email),
		validation.Field(&user.Password, validation.Required.Error("password cannot be blank"), validation.By(validatePassword)),
	)
	if err != nil {
		log.Printf("Validation error: %v\n", err)
	}
	return err
}

// ValidatePatientRegistration validates a new patient's registration data.
// Patient passwords are guardian-chosen and only length-checked; the expert
// complexity policy is not applied to them.
func ValidatePatientRegistration(patient models.Patient, rawPassword string) error {
	err := validation.Errors{
		"username":   validation.Validate(patient.Username, validation.Required, validation.Length(3, 50)),
		"password":   validation.Validate(rawPassword, validation.Required, validation.Length(6, 128)),
		"name":       validation.Validate(patient.Name, validation.Required, validation.Length(1, 100)),
		"sex":        validation.Validate(patient.Sex, validation.Required, validation.In("L", "P")),
		"birth_date": validation.Validate(patient.BirthDate, validation.Required, validation.By(notInFuture)),
		"phone":      validation.Validate(patient.Phone, validation.Length(0, 15)),
	}.Filter()
	if err != nil {
		log.Printf("Validation error: %v\n", err)
	}
	return err
}

// ValidateMeasurementInput validates a measurement before it is recorded:
// required fields present, date not in the future, date not before birth.
func ValidateMeasurementInput(measurement models.Measurement, birthDate time.Time) error {
	err := validation.Errors{
		"measured_at": validation.Validate(measurement.MeasuredAt,
			validation.Required,
			validation.By(notInFuture),
			validation.Min(birthDate).Error("measurement date must not be before the patient's birth date"),
		),
		"weight": validation.Validate(measurement.Weight, validation.Required, validation.Min(0.1)),
		"height": validation.Validate(measurement.Height, validation.Required, validation.Min(0.1)),
	}.Filter()
	if err != nil {
		log.Printf("Validation error: %v\n", err)
	}
	return err
}

func notInFuture(value interface{}) error {
	date, _ := value.(time.Time)
	if date.After(time.Now()) {
		return errors.New("must not be in the future")
	}
	return nil
}

// ValidatePasswordReset validates the reset code and new password.
func ValidatePasswordReset(resetCode, newPassword string) error {
	err := validation.Errors{
		"resetCode": validation.Validate(resetCode, validation.Required.Error("invalid reset code")),
		"password":  validation.Validate(newPassword, validation.Required, validation.By(validatePassword)),
	}.Filter()
	if err != nil {
		log.Printf("Validation error: %v\n", err)
	}
	return err
}

// validatePassword checks the password for length and complexity.
func validatePassword(value interface{}) error {
	password, _ := value.(string)

	if len(password) < 8 {
		return ErrPasswordTooShort
	}

	var (
		lowercaseRegex = regexp.MustCompile(`[a-z]`)
		uppercaseRegex = regexp.MustCompile(`[A-Z]`)
		digitRegex     = regexp.MustCompile(`\d`)
		specialRegex   = regexp.MustCompile(`[@$!%*?&]`)
	)

	if !lowercaseRegex.MatchString(password) ||
		!uppercaseRegex.MatchString(password) ||
		!digitRegex.MatchString(password) ||
		!specialRegex.MatchString(password) {
		return ErrPasswordNotComplex
	}

	return nil
}
