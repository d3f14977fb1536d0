package event

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/LucasBertrand/SkateHub-Back/internal/database"
	"github.com/LucasBertrand/SkateHub-Back/internal/feed"
	"github.com/LucasBertrand/SkateHub-Back/internal/logs"
	"github.com/LucasBertrand/SkateHub-Back/internal/park"
	"github.com/LucasBertrand/SkateHub-Back/internal/push"
	"github.com/LucasBertrand/SkateHub-Back/internal/utils"
	"github.com/LucasBertrand/SkateHub-Back/internal/waiver"
)

type eventResponse struct {
	Event
	AttendeeCount int64 `json:"attendee_count"`
	IsAttending   bool  `json:"is_attending"`
}

// GetEvents GET /api/events?park_id=... : événements à venir du park
func GetEvents(c *gin.Context) {
	parkID := c.Query("park_id")
	if parkID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Paramètre park_id manquant"})
		return
	}

	userID := c.GetString("user_id")

	var events []Event
	if err := database.DB.
		Where("park_id = ? AND starts_at > ?", parkID, time.Now()).
		Order("starts_at ASC").
		Find(&events).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération événements"})
		return
	}

	responses := make([]eventResponse, 0, len(events))
	for _, ev := range events {
		resp := eventResponse{Event: ev}
		database.DB.Model(&Attendance{}).Where("event_id = ?", ev.ID).Count(&resp.AttendeeCount)
		if userID != "" {
			var att Attendance
			resp.IsAttending = database.DB.Where("event_id = ? AND user_id = ?", ev.ID, userID).First(&att).Error == nil
		}
		responses = append(responses, resp)
	}

	c.JSON(http.StatusOK, gin.H{"events": responses})
}

// CreateEvent POST /api/admin/events : réservé aux admins
func CreateEvent(c *gin.Context) {
	userID := c.GetString("user_id")

	var input struct {
		ParkID      string    `json:"park_id" binding:"required"`
		Title       string    `json:"title" binding:"required"`
		Description string    `json:"description"`
		StartsAt    time.Time `json:"starts_at" binding:"required"`
		Capacity    int       `json:"capacity"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "park_id, title et starts_at requis"})
		return
	}

	if !park.Exists(input.ParkID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Park introuvable"})
		return
	}
	if input.StartsAt.Before(time.Now()) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "La date de début est déjà passée"})
		return
	}
	if input.Capacity < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Capacité invalide"})
		return
	}

	ev := Event{
		ID:          uuid.New().String(),
		CreatedAt:   time.Now(),
		ParkID:      input.ParkID,
		Title:       input.Title,
		Description: input.Description,
		StartsAt:    input.StartsAt,
		Capacity:    input.Capacity,
		CreatedBy:   userID,
	}

	if err := database.DB.Create(&ev).Error; err != nil {
		logs.LogJSON("ERROR", "Event creation error", map[string]interface{}{
			"error":  err.Error(),
			"parkID": input.ParkID,
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création événement"})
		return
	}

	feed.EmitActivity(feed.ActivityEventCreated, userID, ev.ParkID, ev.ID, ev.Title)
	push.Broadcast(push.Payload{
		Title: "Nouvel événement 📅",
		Body:  ev.Title,
		URL:   fmt.Sprintf("/events/%s", ev.ID),
	})

	c.JSON(http.StatusCreated, gin.H{"event": ev})
}

// Attend POST /api/events/:id/attend
func Attend(c *gin.Context) {
	userID := c.GetString("user_id")
	eventID := c.Param("id")

	var ev Event
	if err := database.DB.First(&ev, "id = ?", eventID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Événement introuvable"})
		return
	}

	if ev.StartsAt.Before(time.Now()) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Événement déjà commencé"})
		return
	}

	// La décharge du park doit être signée avant de participer sur place
	hasWaiver, err := utils.HasValidWaiver(userID, ev.ParkID, waiver.CurrentRevision)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur vérification décharge"})
		return
	}
	if !hasWaiver {
		c.JSON(http.StatusForbidden, gin.H{"error": "Décharge de responsabilité non signée"})
		return
	}

	var existing Attendance
	if database.DB.Where("event_id = ? AND user_id = ?", eventID, userID).First(&existing).Error == nil {
		c.JSON(http.StatusOK, gin.H{"message": "Déjà inscrit"})
		return
	}

	// Capacité 0 = illimitée
	if ev.Capacity > 0 {
		var count int64
		database.DB.Model(&Attendance{}).Where("event_id = ?", eventID).Count(&count)
		if count >= int64(ev.Capacity) {
			c.JSON(http.StatusConflict, gin.H{"error": "Événement complet"})
			return
		}
	}

	att := Attendance{
		ID:        uuid.New().String(),
		CreatedAt: time.Now(),
		EventID:   eventID,
		UserID:    userID,
	}
	if err := database.DB.Create(&att).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur inscription"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Inscrit 🎉"})
}

// Unattend DELETE /api/events/:id/attend
func Unattend(c *gin.Context) {
	userID := c.GetString("user_id")
	eventID := c.Param("id")

	if err := database.DB.Where("event_id = ? AND user_id = ?", eventID, userID).
		Delete(&Attendance{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur désinscription"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Désinscrit"})
}
