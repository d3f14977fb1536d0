package stripe

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/webhook"

	"github.com/LucasBertrand/SkateHub-Back/internal/database"
	"github.com/LucasBertrand/SkateHub-Back/internal/feed"
	"github.com/LucasBertrand/SkateHub-Back/internal/logs"
	"github.com/LucasBertrand/SkateHub-Back/internal/marketplace"
	"github.com/LucasBertrand/SkateHub-Back/internal/notification"
	"github.com/LucasBertrand/SkateHub-Back/internal/pass"
)

// HandleStripeWebhook POST /api/webhooks/stripe : point d'entrée des événements
// Stripe. La signature est vérifiée avant tout traitement ; passée cette
// vérification on répond toujours 200, Stripe relivrant les événements
// non acquittés on ne veut jamais bloquer la file sur une erreur interne.
func HandleStripeWebhook(c *gin.Context) {
	const MaxBodyBytes = int64(65536)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes)

	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Lecture du corps échouée"})
		return
	}

	endpointSecret := os.Getenv("STRIPE_WEBHOOK_SECRET")
	sigHeader := c.GetHeader("Stripe-Signature")

	event, err := webhook.ConstructEventWithOptions(payload, sigHeader, endpointSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Signature Stripe invalide"})
		return
	}

	dispatchEvent(event)

	c.JSON(http.StatusOK, gin.H{"received": true})
}

func dispatchEvent(event stripe.Event) {
	switch event.Type {

	case "checkout.session.completed":
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err == nil {
			handleCheckoutSessionCompleted(session)
		}

	case "checkout.session.expired":
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err == nil {
			handleCheckoutSessionExpired(session)
		}

	case "payment_intent.succeeded", "payment_intent.payment_failed",
		"invoice.payment_succeeded", "account.updated", "transfer.created":
		// Informationnel : le cycle de vie est piloté par les événements
		// checkout.session, ceux-ci sont juste tracés
		logs.LogJSON("INFO", "Stripe event acknowledged", map[string]interface{}{
			"type": string(event.Type),
		})

	default:
		fmt.Printf("⚠️  Événement non géré : %s\n", event.Type)
	}
}

func handleCheckoutSessionCompleted(session stripe.CheckoutSession) {
	switch session.Metadata["kind"] {
	case "pass":
		completePassPurchase(session)
	case "listing":
		completeListingPurchase(session)
	default:
		fmt.Println("❌ Metadata kind manquante ou inconnue")
	}
}

func completePassPurchase(session stripe.CheckoutSession) {
	userID := session.Metadata["user_id"]
	parkID := session.Metadata["park_id"]
	passType := pass.PassType(session.Metadata["pass_type"])

	if userID == "" || parkID == "" {
		fmt.Println("❌ Metadata manquante")
		return
	}

	// Référence de déduplication : le PaymentIntent quand Stripe l'a déjà
	// attaché à la session, sinon l'ID de session lui-même
	paymentRef := session.ID
	if session.PaymentIntent != nil && session.PaymentIntent.ID != "" {
		paymentRef = session.PaymentIntent.ID
	}

	issued, err := pass.IssueFromPayment(userID, parkID, passType, paymentRef)
	if err != nil {
		logs.LogJSON("ERROR", "Failed to issue pass from payment", map[string]interface{}{
			"userID":     userID,
			"paymentRef": paymentRef,
			"error":      err.Error(),
		})
		return
	}

	fmt.Printf("✅ Pass %s émis pour %s\n", issued.PassType, userID)

	notification.Notify(userID, notification.TypePassIssued, "", issued.ID, "pass",
		fmt.Sprintf("Ton pass %s est actif 🛹", issued.PassType))
	feed.EmitActivity(feed.ActivityPassMilestone, userID, parkID, issued.ID, string(issued.PassType))
}

func completeListingPurchase(session stripe.CheckoutSession) {
	tx, err := marketplace.CompleteBySession(session.ID)
	if err != nil {
		if errors.Is(err, marketplace.ErrNoPendingTransaction) {
			// Relivraison d'un événement déjà traité, ou session inconnue :
			// on acquitte sans rien toucher
			logs.LogJSON("INFO", "No pending transaction for session, skipping", map[string]interface{}{
				"sessionID": session.ID,
			})
			return
		}
		logs.LogJSON("ERROR", "Failed to complete marketplace transaction", map[string]interface{}{
			"sessionID": session.ID,
			"error":     err.Error(),
		})
		return
	}

	fmt.Printf("✅ Vente conclue : annonce %s\n", tx.ListingID)

	var listing marketplace.Listing
	if err := database.DB.First(&listing, "id = ?", tx.ListingID).Error; err != nil {
		fmt.Println("❌ Erreur lors de la récupération de l'annonce vendue")
		return
	}

	notification.Notify(listing.SellerID, notification.TypeListingSold, tx.BuyerID, tx.ListingID, "listing",
		fmt.Sprintf("Ton annonce « %s » est vendue 💸", listing.Title))
	feed.EmitActivity(feed.ActivityListingSold, listing.SellerID, listing.ParkID, tx.ListingID, listing.Title)
}

func handleCheckoutSessionExpired(session stripe.CheckoutSession) {
	_, err := marketplace.CancelBySession(session.ID)
	if err != nil {
		if errors.Is(err, marketplace.ErrNoPendingTransaction) {
			return
		}
		logs.LogJSON("ERROR", "Failed to cancel marketplace transaction", map[string]interface{}{
			"sessionID": session.ID,
			"error":     err.Error(),
		})
	}
}
