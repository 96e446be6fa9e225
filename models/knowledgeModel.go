package models

import (
	"gorm.io/gorm"
)

// Symptom is one atomic observable sign; the code is the stable identifier
// used everywhere during matching.
type Symptom struct {
	Code  string `gorm:"primaryKey;column:code;size:10" json:"code"`
	Label string `gorm:"column:label;size:255;not null" json:"label"`
}

func (Symptom) TableName() string {
	return "symptom"
}

// Condition is a diagnosable outcome together with its guidance text.
type Condition struct {
	Code           string `gorm:"primaryKey;column:code;size:10" json:"code"`
	Name           string `gorm:"column:name;size:255;not null" json:"name"`
	Description    string `gorm:"column:description;type:text" json:"description"`
	Recommendation string `gorm:"column:recommendation;type:text" json:"recommendation"`
}

func (Condition) TableName() string {
	return "condition"
}

// Rule is a single IF-fact: one symptom belonging to one AND-group concluding
// one condition. All rows sharing (condition, group code) form a conjunction;
// multiple groups for the same condition act as OR alternatives.
type Rule struct {
	ID            uint      `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	ConditionCode string    `gorm:"column:condition_code;size:10;not null;index;uniqueIndex:idx_rule_fact" json:"condition_code"`
	SymptomCode   string    `gorm:"column:symptom_code;size:10;not null;uniqueIndex:idx_rule_fact" json:"symptom_code"`
	GroupCode     string    `gorm:"column:group_code;size:10;not null;index;uniqueIndex:idx_rule_fact" json:"group_code"`
	Note          string    `gorm:"column:note;type:text" json:"note,omitempty"`
	Condition     Condition `gorm:"foreignKey:ConditionCode;references:Code;constraint:OnDelete:CASCADE" json:"condition"`
	Symptom       Symptom   `gorm:"foreignKey:SymptomCode;references:Code;constraint:OnDelete:CASCADE" json:"symptom"`
}

func (Rule) TableName() string {
	return "rule"
}

// SeedKnowledgeBase inserts the initial symptom/condition/rule facts so a
// fresh install can diagnose out of the box. Experts edit these afterwards.
func SeedKnowledgeBase(db *gorm.DB) error {
	symptoms := []Symptom{
		{Code: "G01", Label: "Tinggi badan di bawah standar usia"},
		{Code: "G02", Label: "Berat badan di bawah standar usia"},
		{Code: "G03", Label: "Nafsu makan baik"},
		{Code: "G04", Label: "Sering sakit atau infeksi berulang"},
		{Code: "G05", Label: "Perkembangan motorik sesuai usia"},
		{Code: "G06", Label: "Nafsu makan menurun"},
	}
	conditions := []Condition{
		{
			Code:           "K01",
			Name:           "Pertumbuhan Normal",
			Description:    "Pertumbuhan anak sesuai dengan standar usianya.",
			Recommendation: "Pertahankan pola makan bergizi seimbang dan pemantauan rutin di Posyandu.",
		},
		{
			Code:           "K02",
			Name:           "Risiko Stunting",
			Description:    "Berat badan anak di bawah standar dan nafsu makan menurun.",
			Recommendation: "Tingkatkan asupan protein hewani dan konsultasikan ke tenaga kesehatan.",
		},
		{
			Code:           "K03",
			Name:           "Stunting",
			Description:    "Tinggi dan berat badan anak berada di bawah standar usianya.",
			Recommendation: "Segera rujuk ke Puskesmas untuk penanganan gizi lebih lanjut.",
		},
	}
	rules := []Rule{
		{ConditionCode: "K03", GroupCode: "R01", SymptomCode: "G01"},
		{ConditionCode: "K03", GroupCode: "R01", SymptomCode: "G02"},
		{ConditionCode: "K03", GroupCode: "R02", SymptomCode: "G01"},
		{ConditionCode: "K03", GroupCode: "R02", SymptomCode: "G02"},
		{ConditionCode: "K03", GroupCode: "R02", SymptomCode: "G04"},
		{ConditionCode: "K02", GroupCode: "R03", SymptomCode: "G02"},
		{ConditionCode: "K02", GroupCode: "R03", SymptomCode: "G06"},
		{ConditionCode: "K01", GroupCode: "R04", SymptomCode: "G03"},
		{ConditionCode: "K01", GroupCode: "R04", SymptomCode: "G05"},
	}
	return db.Transaction(func(tx *gorm.DB) error {
		for _, symptom := range symptoms {
			if err := tx.FirstOrCreate(&symptom, Symptom{Code: symptom.Code}).Error; err != nil {
				return err
			}
		}
		for _, condition := range conditions {
			if err := tx.FirstOrCreate(&condition, Condition{Code: condition.Code}).Error; err != nil {
				return err
			}
		}
		for _, rule := range rules {
			where := Rule{ConditionCode: rule.ConditionCode, GroupCode: rule.GroupCode, SymptomCode: rule.SymptomCode}
			if err := tx.FirstOrCreate(&rule, where).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
