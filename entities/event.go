package entities

import "time"

// CareEvent is the append-only log of performed farm actions. Logging one
// also bumps the matching last_*_at column on the crop, which is what the
// derivation engine actually reads.
type CareEvent struct {
	EventID     uint      `gorm:"primaryKey" json:"event_id"`
	CropID      uint      `gorm:"index" json:"crop_id"`
	Type        string    `json:"type"` // irrigation|fertilization|pest_check
	PerformedAt time.Time `json:"performed_at"`
	Qty         *float64  `json:"qty"`
	Unit        string    `json:"unit"`
	Note        string    `json:"note"`
	CreatedAt   time.Time
}
