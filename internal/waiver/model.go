package waiver

import (
	"time"
)

// Révision courante du texte de décharge. À incrémenter quand le texte
// légal change : les signatures des révisions précédentes ne valent plus.
const CurrentRevision = 2

// Waiver est la décharge de responsabilité signée par un rider (ou son
// tuteur légal pour les mineurs) avant d'accéder au park.
type Waiver struct {
	ID           string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	CreatedAt    time.Time `json:"created_at"`
	UserID       string    `json:"user_id" gorm:"index"`
	ParkID       string    `json:"park_id" gorm:"index"`
	GuardianName string    `json:"guardian_name,omitempty"`
	SignedAt     time.Time `json:"signed_at"`
	SignatureURL string    `json:"signature_url"`
	Revision     int       `json:"revision"`
}

func (Waiver) TableName() string {
	return "waivers"
}
