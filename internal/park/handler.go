package park

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/LucasBertrand/SkateHub-Back/internal/database"
)

// GetParks GET /api/parks
func GetParks(c *gin.Context) {
	var parks []Park
	if err := database.DB.Where("is_active = true").Order("name ASC").Find(&parks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la récupération des parks"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"parks": parks})
}

// GetParkBySlug GET /api/parks/:slug
func GetParkBySlug(c *gin.Context) {
	slug := c.Param("slug")

	var park Park
	if err := database.DB.First(&park, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Park introuvable"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur de récupération du park"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"park": park})
}

// Exists vérifie qu'un park actif existe pour cet ID.
func Exists(parkID string) bool {
	var count int64
	database.DB.Model(&Park{}).Where("id = ? AND is_active = true", parkID).Count(&count)
	return count > 0
}
