package marketplace

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/LucasBertrand/SkateHub-Back/internal/database"
	"github.com/LucasBertrand/SkateHub-Back/internal/logs"
)

// ErrNoPendingTransaction signale qu'aucune transaction en attente ne
// correspond à la session de checkout.
var ErrNoPendingTransaction = errors.New("aucune transaction en attente pour cette session")

// CompleteBySession passe la transaction liée à une session de checkout à
// COMPLETED et marque le listing vendu. No-op si la transaction est déjà
// dans un état terminal : Stripe peut relivrer l'événement.
func CompleteBySession(sessionID string) (*Transaction, error) {
	var tx Transaction
	if err := database.DB.Where("stripe_session_id = ?", sessionID).First(&tx).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoPendingTransaction
		}
		return nil, err
	}

	if tx.Status != TransactionPending {
		logs.LogJSON("INFO", "Transaction already terminal, skipping completion", map[string]interface{}{
			"transactionID": tx.ID,
			"status":        string(tx.Status),
		})
		return &tx, nil
	}

	// UPDATE gardé par le statut : si deux livraisons se croisent, une seule
	// ligne est affectée
	result := database.DB.Model(&Transaction{}).
		Where("id = ? AND status = ?", tx.ID, TransactionPending).
		Updates(map[string]interface{}{
			"status":     TransactionCompleted,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		logs.LogJSON("INFO", "Transaction completion lost the race, skipping", map[string]interface{}{
			"transactionID": tx.ID,
		})
		tx.Status = TransactionCompleted
		return &tx, nil
	}

	tx.Status = TransactionCompleted

	// Le listing passe en vendu, les autres transactions pendantes sur le
	// même listing sont annulées
	if err := database.DB.Model(&Listing{}).
		Where("id = ?", tx.ListingID).
		Update("status", ListingSold).Error; err != nil {
		logs.LogJSON("ERROR", "Listing sold update error", map[string]interface{}{
			"error":     err.Error(),
			"listingID": tx.ListingID,
		})
	}

	if err := database.DB.Model(&Transaction{}).
		Where("listing_id = ? AND status = ? AND id <> ?", tx.ListingID, TransactionPending, tx.ID).
		Updates(map[string]interface{}{
			"status":     TransactionCancelled,
			"updated_at": time.Now(),
		}).Error; err != nil {
		logs.LogJSON("ERROR", "Concurrent pending transactions cancellation error", map[string]interface{}{
			"error":     err.Error(),
			"listingID": tx.ListingID,
		})
	}

	return &tx, nil
}

// CancelBySession passe la transaction à CANCELLED quand la session de
// checkout expire. No-op si elle est déjà terminale.
func CancelBySession(sessionID string) (*Transaction, error) {
	var tx Transaction
	if err := database.DB.Where("stripe_session_id = ?", sessionID).First(&tx).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoPendingTransaction
		}
		return nil, err
	}

	if tx.Status != TransactionPending {
		logs.LogJSON("INFO", "Transaction already terminal, skipping cancellation", map[string]interface{}{
			"transactionID": tx.ID,
			"status":        string(tx.Status),
		})
		return &tx, nil
	}

	result := database.DB.Model(&Transaction{}).
		Where("id = ? AND status = ?", tx.ID, TransactionPending).
		Updates(map[string]interface{}{
			"status":     TransactionCancelled,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return nil, result.Error
	}

	tx.Status = TransactionCancelled
	return &tx, nil
}
