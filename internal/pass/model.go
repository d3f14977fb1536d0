package pass

import "time"

// PassType définit les formules vendues par les parks
type PassType string

const (
	PassDay    PassType = "day"
	PassMonth  PassType = "month"
	PassSeason PassType = "season"
	PassAnnual PassType = "annual"
)

func (t PassType) IsValid() bool {
	switch t {
	case PassDay, PassMonth, PassSeason, PassAnnual:
		return true
	default:
		return false
	}
}

// Duration renvoie la durée de validité de la formule.
func (t PassType) Duration() time.Duration {
	switch t {
	case PassDay:
		return 24 * time.Hour
	case PassMonth:
		return 30 * 24 * time.Hour
	case PassSeason:
		return 90 * 24 * time.Hour
	case PassAnnual:
		return 365 * 24 * time.Hour
	default:
		return 0
	}
}

// Pass est un droit d'accès à un park. Type et expiration sont immuables une
// fois la ligne créée ; il n'existe pas d'état "pending", un pass n'existe
// qu'après paiement confirmé.
type Pass struct {
	ID              string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	CreatedAt       time.Time `json:"created_at"`
	UserID          string    `json:"user_id" gorm:"index"`
	ParkID          string    `json:"park_id" gorm:"index"`
	PassType        PassType  `json:"pass_type"`
	ExpiresAt       time.Time `json:"expires_at"`
	StripePaymentID string    `json:"-" gorm:"uniqueIndex"`
}

func (Pass) TableName() string {
	return "passes"
}

// IsExpired indique si le pass n'ouvre plus l'accès.
func (p Pass) IsExpired() bool {
	return time.Now().After(p.ExpiresAt)
}
