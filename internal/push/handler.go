package push

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/LucasBertrand/SkateHub-Back/internal/database"
	"github.com/LucasBertrand/SkateHub-Back/internal/logs"
)

// GetPublicKey GET /api/push/subscribe : la clé publique VAPID pour le client
func GetPublicKey(c *gin.Context) {
	publicKey := os.Getenv("VAPID_PUBLIC_KEY")
	if publicKey == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Push non configuré"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"public_key": publicKey})
}

// Subscribe POST /api/push/subscribe : enregistre l'abonnement de l'appareil
func Subscribe(c *gin.Context) {
	userID := c.GetString("user_id")

	var input struct {
		Endpoint string `json:"endpoint" binding:"required"`
		Keys     struct {
			P256dh string `json:"p256dh" binding:"required"`
			Auth   string `json:"auth" binding:"required"`
		} `json:"keys" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Abonnement push invalide"})
		return
	}

	// Ré-abonnement du même appareil : on remplace la ligne existante
	database.DB.Delete(&Subscription{}, "endpoint = ?", input.Endpoint)

	sub := Subscription{
		ID:        uuid.New().String(),
		CreatedAt: time.Now(),
		UserID:    userID,
		Endpoint:  input.Endpoint,
		P256dh:    input.Keys.P256dh,
		Auth:      input.Keys.Auth,
	}

	if err := database.DB.Create(&sub).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de l'enregistrement de l'abonnement"})
		logs.LogJSON("ERROR", "Push subscription error", map[string]interface{}{
			"error":  err.Error(),
			"userID": userID,
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Abonnement push enregistré"})
}

// Unsubscribe DELETE /api/push/subscribe : retire l'abonnement de l'appareil
func Unsubscribe(c *gin.Context) {
	userID := c.GetString("user_id")

	var input struct {
		Endpoint string `json:"endpoint" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Endpoint requis"})
		return
	}

	result := database.DB.Delete(&Subscription{}, "endpoint = ? AND user_id = ?", input.Endpoint, userID)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la suppression de l'abonnement"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Abonnement push supprimé"})
}

// Send POST /api/push/send : broadcast admin à tous les abonnés
func Send(c *gin.Context) {
	route := c.FullPath()
	adminID := c.GetString("user_id")

	var input struct {
		Title string `json:"title" binding:"required"`
		Body  string `json:"body" binding:"required"`
		URL   string `json:"url"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Titre et corps obligatoires"})
		return
	}

	count := Broadcast(Payload{Title: input.Title, Body: input.Body, URL: input.URL})

	c.JSON(http.StatusOK, gin.H{
		"message": "Notification envoyée",
		"count":   count,
	})
	logs.LogJSON("INFO", "Admin push broadcast", map[string]interface{}{
		"route":  route,
		"userID": adminID,
		"extra":  input.Title,
	})
}
