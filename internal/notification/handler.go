package notification

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/LucasBertrand/SkateHub-Back/internal/database"
)

// GetNotifications GET /api/notifications?limit=N : la cloche du membre
func GetNotifications(c *gin.Context) {
	userID := c.GetString("user_id")

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "30"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 30
	}

	var notifications []Notification
	if err := database.DB.
		Where("recipient_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&notifications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la récupération des notifications"})
		return
	}

	var unreadCount int64
	database.DB.Model(&Notification{}).
		Where("recipient_id = ? AND is_read = false", userID).
		Count(&unreadCount)

	c.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
		"unread_count":  unreadCount,
	})
}

// MarkRead PUT /api/notifications/:id/read
func MarkRead(c *gin.Context) {
	userID := c.GetString("user_id")
	notifID := c.Param("id")

	result := database.DB.Model(&Notification{}).
		Where("id = ? AND recipient_id = ?", notifID, userID).
		Update("is_read", true)

	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la mise à jour"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification non trouvée"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification lue"})
}

// MarkAllRead PUT /api/notifications/read-all
func MarkAllRead(c *gin.Context) {
	userID := c.GetString("user_id")

	result := database.DB.Model(&Notification{}).
		Where("recipient_id = ? AND is_read = false", userID).
		Update("is_read", true)

	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la mise à jour"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Notifications lues",
		"count":   result.RowsAffected,
	})
}
