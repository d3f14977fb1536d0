package pass

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/LucasBertrand/SkateHub-Back/internal/database"
	"github.com/LucasBertrand/SkateHub-Back/internal/logs"
)

// IssueFromPayment crée le pass correspondant à un paiement confirmé.
// Idempotent sur paymentRef : Stripe livre les webhooks au-moins-une-fois,
// une relivraison du même événement renvoie le pass déjà émis au lieu d'en
// créer un second.
func IssueFromPayment(userID, parkID string, passType PassType, paymentRef string) (*Pass, error) {
	if userID == "" || paymentRef == "" {
		return nil, fmt.Errorf("userID et paymentRef requis")
	}
	if !passType.IsValid() {
		return nil, fmt.Errorf("formule de pass inconnue : %s", passType)
	}

	var existing Pass
	err := database.DB.Where("stripe_payment_id = ?", paymentRef).First(&existing).Error
	if err == nil {
		logs.LogJSON("INFO", "Pass already issued for payment, skipping", map[string]interface{}{
			"paymentRef": paymentRef,
			"passID":     existing.ID,
		})
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	now := time.Now()
	newPass := Pass{
		ID:              uuid.New().String(),
		CreatedAt:       now,
		UserID:          userID,
		ParkID:          parkID,
		PassType:        passType,
		ExpiresAt:       now.Add(passType.Duration()),
		StripePaymentID: paymentRef,
	}

	if err := database.DB.Create(&newPass).Error; err != nil {
		// La contrainte unique sur stripe_payment_id couvre la course entre
		// deux livraisons simultanées du même événement
		var raced Pass
		if database.DB.Where("stripe_payment_id = ?", paymentRef).First(&raced).Error == nil {
			return &raced, nil
		}
		return nil, err
	}

	return &newPass, nil
}
