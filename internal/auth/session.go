package auth

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/LucasBertrand/SkateHub-Back/internal/database"
	"github.com/LucasBertrand/SkateHub-Back/internal/logs"
)

// Session représente un appareil connecté. La révocation est logique : le
// token Supabase reste valable jusqu'à expiration, mais le client coupe la
// session dès qu'elle est marquée révoquée.
type Session struct {
	ID         string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	CreatedAt  time.Time  `json:"created_at"`
	UserID     string     `json:"user_id" gorm:"index"`
	UserAgent  string     `json:"user_agent"`
	IP         string     `json:"ip"`
	LastSeenAt time.Time  `json:"last_seen_at"`
	RevokedAt  *time.Time `json:"revoked_at,omitempty"`
}

func (Session) TableName() string {
	return "sessions"
}

// GetSessions GET /api/sessions : liste les sessions actives de l'utilisateur
func GetSessions(c *gin.Context) {
	userID := c.GetString("user_id")

	var sessions []Session
	if err := database.DB.
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Order("last_seen_at DESC").
		Find(&sessions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la récupération des sessions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

// CreateSession POST /api/sessions : enregistre l'appareil courant après login
func CreateSession(c *gin.Context) {
	userID := c.GetString("user_id")

	now := time.Now()
	session := Session{
		ID:         uuid.New().String(),
		CreatedAt:  now,
		UserID:     userID,
		UserAgent:  c.GetHeader("User-Agent"),
		IP:         c.ClientIP(),
		LastSeenAt: now,
	}

	if err := database.DB.Create(&session).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la création de la session"})
		logs.LogJSON("ERROR", "Session creation error", map[string]interface{}{
			"error":  err.Error(),
			"userID": userID,
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"session": session})
}

// DeleteSession DELETE /api/sessions/:id : révoque une session précise
func DeleteSession(c *gin.Context) {
	userID := c.GetString("user_id")
	sessionID := c.Param("id")

	var session Session
	if err := database.DB.First(&session, "id = ? AND user_id = ?", sessionID, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session non trouvée"})
		return
	}

	now := time.Now()
	if err := database.DB.Model(&session).Update("revoked_at", now).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la révocation de la session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Session révoquée"})
}

// RevokeAllSessions POST /api/sessions/revoke-all : déconnecte tous les appareils
func RevokeAllSessions(c *gin.Context) {
	userID := c.GetString("user_id")

	now := time.Now()
	result := database.DB.Model(&Session{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Update("revoked_at", now)

	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la révocation des sessions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Sessions révoquées",
		"count":   result.RowsAffected,
	})
}
