package pass

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/LucasBertrand/SkateHub-Back/internal/database"
	"github.com/LucasBertrand/SkateHub-Back/internal/logs"
)

// GetMyPasses GET /api/passes : les passes du membre connecté
func GetMyPasses(c *gin.Context) {
	userID := c.GetString("user_id")

	var passes []Pass
	if err := database.DB.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&passes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la récupération des passes"})
		return
	}

	var response []gin.H
	for _, p := range passes {
		response = append(response, gin.H{
			"id":         p.ID,
			"park_id":    p.ParkID,
			"pass_type":  p.PassType,
			"expires_at": p.ExpiresAt,
			"created_at": p.CreatedAt,
			"expired":    p.IsExpired(),
		})
	}

	c.JSON(http.StatusOK, gin.H{"passes": response})
}

// GetPassByID GET /api/passes/:id : détail d'un pass (propriétaire uniquement)
func GetPassByID(c *gin.Context) {
	userID := c.GetString("user_id")
	passID := c.Param("id")

	var p Pass
	if err := database.DB.First(&p, "id = ?", passID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Pass non trouvé"})
		return
	}

	if p.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Ce pass ne vous appartient pas"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"pass": gin.H{
		"id":         p.ID,
		"park_id":    p.ParkID,
		"pass_type":  p.PassType,
		"expires_at": p.ExpiresAt,
		"created_at": p.CreatedAt,
		"expired":    p.IsExpired(),
	}})
}

// ScanPass POST /api/admin/scan : contrôle d'accès à l'entrée du park.
// Le scan QR côté app fournit l'ID du pass, ici on ne fait que valider.
func ScanPass(c *gin.Context) {
	route := c.FullPath()
	adminID := c.GetString("user_id")

	var input struct {
		PassID string `json:"pass_id" binding:"required"`
		ParkID string `json:"park_id"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pass_id requis"})
		return
	}

	var p Pass
	if err := database.DB.First(&p, "id = ?", input.PassID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusOK, gin.H{"valid": false, "reason": "unknown"})
			logs.LogJSON("WARN", "Scan of unknown pass", map[string]interface{}{
				"route":  route,
				"userID": adminID,
				"passID": input.PassID,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur de base de données"})
		return
	}

	if p.IsExpired() {
		c.JSON(http.StatusOK, gin.H{"valid": false, "reason": "expired", "expired_at": p.ExpiresAt})
		return
	}

	if input.ParkID != "" && p.ParkID != input.ParkID {
		c.JSON(http.StatusOK, gin.H{"valid": false, "reason": "wrong_park"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"valid": true,
		"pass": gin.H{
			"id":         p.ID,
			"user_id":    p.UserID,
			"pass_type":  p.PassType,
			"expires_at": p.ExpiresAt,
		},
	})
}
