package models

import (
	"time"
)

// Consultation is one inference run: who asked, when, and what (if anything)
// came out. ResultCode stays null when no rule group matched; deleting a
// condition later nulls it out as well instead of erasing the history row.
type Consultation struct {
	ID          uint                 `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	PatientID   string               `gorm:"column:patient_id;not null;index" json:"patient_id"`
	ConsultedAt time.Time            `gorm:"column:consulted_at;autoCreateTime" json:"consulted_at"`
	ResultCode  *string              `gorm:"column:result_code;size:10" json:"result_code"`
	Result      *Condition           `gorm:"foreignKey:ResultCode;references:Code;constraint:OnDelete:SET NULL" json:"result,omitempty"`
	Details     []ConsultationDetail `gorm:"foreignKey:ConsultationID;references:ID" json:"details,omitempty"`
	Patient     Patient              `gorm:"foreignKey:PatientID;references:ID" json:"-"`
}

func (Consultation) TableName() string {
	return "consultation"
}

// ConsultationDetail is one reported symptom of a consultation, append-only.
type ConsultationDetail struct {
	ID             uint    `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	ConsultationID uint    `gorm:"column:consultation_id;not null;index;uniqueIndex:idx_consultation_symptom" json:"consultation_id"`
	SymptomCode    string  `gorm:"column:symptom_code;size:10;not null;uniqueIndex:idx_consultation_symptom" json:"symptom_code"`
	Symptom        Symptom `gorm:"foreignKey:SymptomCode;references:Code;constraint:OnDelete:CASCADE" json:"symptom"`
}

func (ConsultationDetail) TableName() string {
	return "consultation_detail"
}
