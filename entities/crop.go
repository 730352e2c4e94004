package entities

import "time"

// Crop is the stored record; everything else about a crop (stage, harvest
// outlook, next action) is derived from these fields on read and never
// written back.
type Crop struct {
	CropID           uint      `gorm:"primaryKey" json:"crop_id"`
	UserID           string    `json:"user_id" gorm:"index"`
	CropType         string    `json:"crop_type"` // timeline table key; free text, unknown falls back to default
	Variety          string    `json:"variety"`
	Area             float64   `json:"area"`
	IrrigationSrc    string    `json:"irrigation_src"` // well|surface|none
	SowingDate       time.Time `json:"sowing_date"`
	DurationDays     int       `json:"duration_days"`
	RegistrationMode string    `json:"registration_mode"` // new|existing
	// Stage the owner stated at creation for a late-registered crop. Display
	// hint only; derivation always recomputes from the sowing date.
	InitialStageOverride string `json:"initial_stage_override,omitempty"`

	LastIrrigationAt    *time.Time `json:"last_irrigation_at"`
	LastFertilizationAt *time.Time `json:"last_fertilization_at"`
	LastPestCheckAt     *time.Time `json:"last_pest_check_at"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
