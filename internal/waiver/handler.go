package waiver

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/LucasBertrand/SkateHub-Back/internal/database"
	"github.com/LucasBertrand/SkateHub-Back/internal/logs"
	"github.com/LucasBertrand/SkateHub-Back/internal/park"
	"github.com/LucasBertrand/SkateHub-Back/internal/storage"
)

// SignWaiver POST /api/waivers : multipart avec l'image de la signature
func SignWaiver(c *gin.Context) {
	userID := c.GetString("user_id")

	parkID := c.PostForm("park_id")
	guardianName := c.PostForm("guardian_name")

	if parkID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Paramètre park_id manquant"})
		return
	}
	if !park.Exists(parkID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Park introuvable"})
		return
	}

	// Une signature valide pour la révision courante suffit
	var existing Waiver
	err := database.DB.
		Where("user_id = ? AND park_id = ? AND revision = ?", userID, parkID, CurrentRevision).
		First(&existing).Error
	if err == nil {
		c.JSON(http.StatusOK, gin.H{"waiver": existing, "message": "Décharge déjà signée"})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur vérification décharge"})
		return
	}

	fileHeader, err := c.FormFile("signature")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Fichier signature manquant"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture fichier"})
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	filename := fmt.Sprintf("%s_%d_%s", userID, time.Now().Unix(), fileHeader.Filename)

	signatureURL, err := storage.UploadToS3(file, filename, contentType, storage.FolderWaivers)
	if err != nil {
		logs.LogJSON("ERROR", "Waiver signature upload error", map[string]interface{}{
			"error":  err.Error(),
			"userID": userID,
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur upload signature"})
		return
	}

	w := Waiver{
		ID:           uuid.New().String(),
		CreatedAt:    time.Now(),
		UserID:       userID,
		ParkID:       parkID,
		GuardianName: guardianName,
		SignedAt:     time.Now(),
		SignatureURL: signatureURL,
		Revision:     CurrentRevision,
	}

	if err := database.DB.Create(&w).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur enregistrement décharge"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"waiver": w})
}

// GetMyWaivers GET /api/waivers/me
func GetMyWaivers(c *gin.Context) {
	userID := c.GetString("user_id")

	var waivers []Waiver
	if err := database.DB.
		Where("user_id = ?", userID).
		Order("signed_at DESC").
		Find(&waivers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération décharges"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"waivers": waivers})
}

// ListWaivers GET /api/admin/waivers?park_id=...
func ListWaivers(c *gin.Context) {
	query := database.DB.Order("signed_at DESC")
	if parkID := c.Query("park_id"); parkID != "" {
		query = query.Where("park_id = ?", parkID)
	}

	var waivers []Waiver
	if err := query.Find(&waivers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération décharges"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"waivers": waivers})
}
