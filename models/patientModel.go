package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Patient model. Represents the child being screened; the guardian logs in
// with a simple local credential pair, separate from the expert portal users.
type Patient struct {
	ID            string         `gorm:"primaryKey;column:id" json:"id"`
	Username      string         `gorm:"column:username;size:50;unique;not null;index" json:"username"`
	PasswordHash  string         `gorm:"column:password_hash;size:128;not null" json:"-"`
	Name          string         `gorm:"column:name;size:100;not null" json:"name"`
	Sex           string         `gorm:"column:sex;size:1;check:sex IN ('L', 'P');not null" json:"sex"`
	BirthDate     time.Time      `gorm:"column:birth_date;type:date;not null" json:"birth_date"`
	GuardianName  string         `gorm:"column:guardian_name;size:100" json:"guardian_name"`
	GuardianEmail string         `gorm:"column:guardian_email;size:255" json:"guardian_email"`
	Phone         string         `gorm:"column:phone;size:15" json:"phone"`
	CreatedAt     time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	Measurements  []Measurement  `gorm:"foreignKey:PatientID;references:ID" json:"-"`
	Consultations []Consultation `gorm:"foreignKey:PatientID;references:ID" json:"-"`
	Notifications []Notification `gorm:"foreignKey:PatientID;references:ID" json:"-"`
}

func (Patient) TableName() string {
	return "patient"
}

// SetPassword hashes and stores the raw password.
func (p *Patient) SetPassword(raw string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	p.PasswordHash = string(hash)
	return nil
}

// CheckPassword compares a raw password against the stored hash.
func (p *Patient) CheckPassword(raw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(raw)) == nil
}

// AgeInMonths returns the patient's age in whole months at the given date,
// with a day-of-month correction for display purposes. The anthropometric
// scorer uses its own uncorrected month arithmetic.
func (p *Patient) AgeInMonths(at time.Time) int {
	months := (at.Year()-p.BirthDate.Year())*12 + int(at.Month()) - int(p.BirthDate.Month())
	if at.Day() < p.BirthDate.Day() {
		months--
	}
	return months
}

// Measurement model. One periodic anthropometric observation; the two Z-score
// columns stay null until the scorer has run.
type Measurement struct {
	ID                uint      `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	PatientID         string    `gorm:"column:patient_id;not null;index" json:"patient_id"`
	MeasuredAt        time.Time `gorm:"column:measured_at;type:date;not null;index" json:"measured_at"`
	Weight            float64   `gorm:"column:weight;not null" json:"weight"`
	Height            float64   `gorm:"column:height;not null" json:"height"`
	HeadCircumference *float64  `gorm:"column:head_circumference" json:"head_circumference,omitempty"`
	ArmCircumference  *float64  `gorm:"column:arm_circumference" json:"arm_circumference,omitempty"`
	Immunization      string    `gorm:"column:immunization;size:100" json:"immunization,omitempty"`
	WeightForAgeZ     *float64  `gorm:"column:weight_for_age_z" json:"weight_for_age_z"`
	HeightForAgeZ     *float64  `gorm:"column:height_for_age_z" json:"height_for_age_z"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	Patient           Patient   `gorm:"foreignKey:PatientID;references:ID" json:"-"`
}

func (Measurement) TableName() string {
	return "measurement"
}

// Notification kinds.
const (
	NotificationRemeasure = "pengukuran_ulang"
	NotificationNutrition = "edukasi_gizi"
)

// Notification model. A scheduled reminder or educational message; Delivered
// flips once the due time has passed and the patient opens the list.
type Notification struct {
	ID        uint      `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	PatientID string    `gorm:"column:patient_id;not null;index" json:"patient_id"`
	Title     string    `gorm:"column:title;size:255;not null" json:"title"`
	Message   string    `gorm:"column:message;type:text;not null" json:"message"`
	DueAt     time.Time `gorm:"column:due_at;not null;index" json:"due_at"`
	Delivered bool      `gorm:"column:delivered;default:false" json:"delivered"`
	Kind      string    `gorm:"column:kind;size:50;default:'pengukuran_ulang'" json:"kind"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	Patient   Patient   `gorm:"foreignKey:PatientID;references:ID" json:"-"`
}

func (Notification) TableName() string {
	return "notification"
}
