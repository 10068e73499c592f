package models

import "time"

// HealthRecord is an immutable snapshot of one check: the submitted vitals
// plus the classifier outcome. Rows are append-only.
type HealthRecord struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"index;not null" json:"user_id"`
	Glucose       float64   `gorm:"not null" json:"glucose"`
	Insulin       float64   `gorm:"not null" json:"insulin"`
	BMI           float64   `gorm:"not null" json:"bmi"`
	Age           int       `gorm:"not null" json:"age"`
	BPSystolic    float64   `gorm:"not null" json:"bp_systolic"`
	BPDiastolic   float64   `gorm:"not null" json:"bp_diastolic"`
	FamilyHistory bool      `gorm:"default:false" json:"family_history"`
	Prediction    int       `gorm:"not null" json:"prediction"`
	CreatedAt     time.Time `json:"created_at"`
	User          User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}
