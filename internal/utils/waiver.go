package utils

import (
	"errors"
	"gorm.io/gorm"
	"time"

	"github.com/LucasBertrand/SkateHub-Back/internal/database"
)

type Waiver struct {
	ID           string `gorm:"primaryKey"`
	CreatedAt    time.Time
	UserID       string
	ParkID       string
	GuardianName string
	SignedAt     time.Time
	SignatureURL string
	Revision     int
}

// HasValidWaiver vérifie qu'un utilisateur a signé la décharge du park pour
// la révision demandée.
func HasValidWaiver(userID, parkID string, revision int) (bool, error) {
	var waiver Waiver
	err := database.DB.
		Where("user_id = ? AND park_id = ? AND revision = ?", userID, parkID, revision).
		First(&waiver).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil // Pas de décharge signée
		}
		return false, err // Une erreur s'est produite
	}

	return true, nil
}
