package announcement

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/LucasBertrand/SkateHub-Back/internal/database"
	"github.com/LucasBertrand/SkateHub-Back/internal/logs"
	"github.com/LucasBertrand/SkateHub-Back/internal/park"
	"github.com/LucasBertrand/SkateHub-Back/internal/push"
)

// GetAnnouncements GET /api/announcements?park_id=...
func GetAnnouncements(c *gin.Context) {
	parkID := c.Query("park_id")
	if parkID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Paramètre park_id manquant"})
		return
	}

	var announcements []Announcement
	if err := database.DB.
		Where("park_id = ?", parkID).
		Order("pinned DESC, created_at DESC").
		Find(&announcements).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération annonces"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"announcements": announcements})
}

// CreateAnnouncement POST /api/admin/announcements
func CreateAnnouncement(c *gin.Context) {
	userID := c.GetString("user_id")

	var input struct {
		ParkID string `json:"park_id" binding:"required"`
		Title  string `json:"title" binding:"required"`
		Body   string `json:"body" binding:"required"`
		Pinned bool   `json:"pinned"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "park_id, title et body requis"})
		return
	}

	if !park.Exists(input.ParkID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Park introuvable"})
		return
	}

	a := Announcement{
		ID:        uuid.New().String(),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
		ParkID:    input.ParkID,
		AuthorID:  userID,
		Title:     input.Title,
		Body:      input.Body,
		Pinned:    input.Pinned,
	}

	if err := database.DB.Create(&a).Error; err != nil {
		logs.LogJSON("ERROR", "Announcement creation error", map[string]interface{}{
			"error":  err.Error(),
			"parkID": input.ParkID,
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création annonce"})
		return
	}

	sent := push.Broadcast(push.Payload{
		Title: fmt.Sprintf("📢 %s", a.Title),
		Body:  a.Body,
		URL:   "/announcements",
	})
	logs.LogJSON("INFO", "Announcement push sent", map[string]interface{}{
		"announcementID": a.ID,
		"devices":        sent,
	})

	c.JSON(http.StatusCreated, gin.H{"announcement": a})
}

// UpdateAnnouncement PUT /api/admin/announcements/:id
func UpdateAnnouncement(c *gin.Context) {
	id := c.Param("id")

	var a Announcement
	if err := database.DB.First(&a, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Annonce introuvable"})
		return
	}

	var input struct {
		Title  *string `json:"title"`
		Body   *string `json:"body"`
		Pinned *bool   `json:"pinned"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Corps de requête invalide"})
		return
	}

	if input.Title != nil {
		a.Title = *input.Title
	}
	if input.Body != nil {
		a.Body = *input.Body
	}
	if input.Pinned != nil {
		a.Pinned = *input.Pinned
	}
	a.UpdatedAt = time.Now()

	if err := database.DB.Save(&a).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour annonce"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"announcement": a})
}

// DeleteAnnouncement DELETE /api/admin/announcements/:id
func DeleteAnnouncement(c *gin.Context) {
	id := c.Param("id")

	result := database.DB.Delete(&Announcement{}, "id = ?", id)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression annonce"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Annonce introuvable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Annonce supprimée"})
}
