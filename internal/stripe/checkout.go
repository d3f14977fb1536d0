package stripe

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/checkout/session"

	"github.com/LucasBertrand/SkateHub-Back/internal/database"
	"github.com/LucasBertrand/SkateHub-Back/internal/marketplace"
	"github.com/LucasBertrand/SkateHub-Back/internal/park"
	"github.com/LucasBertrand/SkateHub-Back/internal/pass"
	"github.com/LucasBertrand/SkateHub-Back/internal/user"
)

// Tarifs des formules en centimes d'euro
var passPrices = map[pass.PassType]int64{
	pass.PassDay:    1000,
	pass.PassMonth:  4500,
	pass.PassSeason: 11000,
	pass.PassAnnual: 35000,
}

// Commission plateforme sur les ventes marketplace
const applicationFeePercent = 10.0

// CreatePassCheckout POST /api/checkout : session de paiement pour un pass
func CreatePassCheckout(c *gin.Context) {
	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
	domain := os.Getenv("DOMAIN_URL")

	userID := c.GetString("user_id")
	userEmail := c.GetString("user_email")

	var input struct {
		PassType string `json:"pass_type" binding:"required"`
		ParkID   string `json:"park_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pass_type et park_id requis"})
		return
	}

	passType := pass.PassType(input.PassType)
	price, ok := passPrices[passType]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Formule de pass inconnue"})
		return
	}

	if !park.Exists(input.ParkID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Park introuvable"})
		return
	}

	sessionParams := &stripe.CheckoutSessionParams{
		Mode:       stripe.String("payment"),
		SuccessURL: stripe.String(fmt.Sprintf("%s/passes?checkout=success", domain)),
		CancelURL:  stripe.String(fmt.Sprintf("%s/passes?checkout=cancelled", domain)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String("eur"),
					UnitAmount: stripe.Int64(price),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(fmt.Sprintf("Pass %s SkateHub", passType)),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		CustomerEmail: stripe.String(userEmail),
		Metadata: map[string]string{
			"kind":      "pass",
			"user_id":   userID,
			"park_id":   input.ParkID,
			"pass_type": string(passType),
		},
	}

	createdSession, err := session.New(sessionParams)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création session Stripe"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": createdSession.URL})
}

// CreateListingCheckout POST /api/checkout/listing : achat marketplace avec
// payout vers le compte connecté du vendeur et commission plateforme
func CreateListingCheckout(c *gin.Context) {
	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
	domain := os.Getenv("DOMAIN_URL")

	buyerID := c.GetString("user_id")
	buyerEmail := c.GetString("user_email")

	var input struct {
		ListingID string `json:"listing_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "listing_id requis"})
		return
	}

	var listing marketplace.Listing
	if err := database.DB.First(&listing, "id = ? AND status = ?", input.ListingID, marketplace.ListingActive).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Annonce introuvable ou déjà vendue"})
		return
	}

	if listing.SellerID == buyerID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Impossible d'acheter sa propre annonce"})
		return
	}

	var seller user.User
	if err := database.DB.First(&seller, "id = ?", listing.SellerID).Error; err != nil || seller.StripeAccountID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le vendeur n'a pas de compte Stripe"})
		return
	}

	feeCents := int64(float64(listing.PriceCents) * applicationFeePercent / 100)

	sessionParams := &stripe.CheckoutSessionParams{
		Mode:       stripe.String("payment"),
		SuccessURL: stripe.String(fmt.Sprintf("%s/marketplace/%s?checkout=success", domain, listing.ID)),
		CancelURL:  stripe.String(fmt.Sprintf("%s/marketplace/%s?checkout=cancelled", domain, listing.ID)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String("eur"),
					UnitAmount: stripe.Int64(listing.PriceCents),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(listing.Title),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		CustomerEmail: stripe.String(buyerEmail),
		PaymentIntentData: &stripe.CheckoutSessionPaymentIntentDataParams{
			ApplicationFeeAmount: stripe.Int64(feeCents),
			TransferData: &stripe.CheckoutSessionPaymentIntentDataTransferDataParams{
				Destination: stripe.String(seller.StripeAccountID),
			},
		},
		Metadata: map[string]string{
			"kind":       "listing",
			"listing_id": listing.ID,
			"buyer_id":   buyerID,
		},
	}

	createdSession, err := session.New(sessionParams)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création session Stripe"})
		return
	}

	// Transaction PENDING liée à la session, résolue par le webhook
	tx := marketplace.Transaction{
		ID:              uuid.New().String(),
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
		ListingID:       listing.ID,
		BuyerID:         buyerID,
		AmountCents:     listing.PriceCents,
		Status:          marketplace.TransactionPending,
		StripeSessionID: createdSession.ID,
	}
	if err := database.DB.Create(&tx).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création transaction"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": createdSession.URL})
}
