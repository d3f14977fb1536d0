package stripe

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/account"
	"github.com/stripe/stripe-go/v78/accountlink"

	"github.com/LucasBertrand/SkateHub-Back/internal/database"
	"github.com/LucasBertrand/SkateHub-Back/internal/user"
)

// CreateAccountLink POST /api/stripe/connect : onboarding vendeur
func CreateAccountLink(c *gin.Context) {
	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
	domain := os.Getenv("DOMAIN_URL")

	userId := c.GetString("user_id")

	// Création d’un compte connecté Stripe (standard)
	acctParams := &stripe.AccountParams{
		Type: stripe.String("standard"),
	}
	acct, err := account.New(acctParams)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la création du compte Stripe"})
		return
	}

	// Lien d'onboarding Stripe
	linkParams := &stripe.AccountLinkParams{
		Account:    stripe.String(acct.ID),
		RefreshURL: stripe.String(fmt.Sprintf("%s/become-seller/error", domain)),
		ReturnURL:  stripe.String(fmt.Sprintf("%s/become-seller/success?account_id=%s", domain, acct.ID)),
		Type:       stripe.String("account_onboarding"),
	}
	link, err := accountlink.New(linkParams)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la création du lien d'onboarding Stripe"})
		return
	}

	// Enregistrer StripeAccountID dans la DB de l'utilisateur
	if err := database.DB.Model(&user.User{}).Where("id = ?", userId).Update("stripe_account_id", acct.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour StripeAccountID"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": link.URL})
}

// CompleteConnect GET /api/stripe/connect/complete : valide l'activation du
// compte et débloque la vente
func CompleteConnect(c *gin.Context) {
	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
	userId := c.GetString("user_id")

	accountID := c.Query("account_id")
	if accountID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Paramètre account_id manquant"})
		return
	}

	// Vérifie l'état du compte Stripe
	acct, err := account.GetByID(accountID, nil)
	if err != nil || !acct.ChargesEnabled {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Le compte n’est pas encore activé"})
		return
	}

	if err := database.DB.Model(&user.User{}).Where("id = ?", userId).Update("is_seller", true).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour utilisateur"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
