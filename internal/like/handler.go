package like

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/LucasBertrand/SkateHub-Back/internal/database"
	"github.com/LucasBertrand/SkateHub-Back/internal/logs"
	"github.com/LucasBertrand/SkateHub-Back/internal/realtime"
)

// ToggleLike POST /api/feed/:id/like : un seul like par (user, post), le
// second appel le retire.
func ToggleLike(c *gin.Context) {
	route := c.FullPath()
	userID := c.GetString("user_id")
	postID := c.Param("id")

	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur non authentifié"})
		return
	}

	// Vérifier que le post existe
	var postCount int64
	if err := database.DB.Table("posts").Where("id = ?", postID).Count(&postCount).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur de base de données"})
		logs.LogJSON("ERROR", "Database error", map[string]interface{}{
			"error":  err.Error(),
			"route":  route,
			"userID": userID,
			"postID": postID,
		})
		return
	}
	if postCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post non trouvé"})
		return
	}

	// Vérifier si l'utilisateur a déjà liké ce post
	var existingLike Like
	err := database.DB.Where("user_id = ? AND post_id = ?", userID, postID).First(&existingLike).Error

	if err == nil {
		// Le like existe, on le supprime (unlike)
		if err := database.DB.Delete(&existingLike).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la suppression du like"})
			logs.LogJSON("ERROR", "Error when unliking", map[string]interface{}{
				"error":  err.Error(),
				"route":  route,
				"userID": userID,
				"postID": postID,
			})
			return
		}

		response := Status(postID, userID)
		realtime.Publish(realtime.TableLikes, realtime.KindDelete, realtime.LikeChange{
			PostID:    postID,
			UserID:    userID,
			LikeCount: &response.LikeCount,
		})
		c.JSON(http.StatusOK, response)
		return
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Le like n'existe pas, on le crée
		newLike := Like{
			ID:        uuid.New().String(),
			CreatedAt: time.Now(),
			UserID:    userID,
			PostID:    postID,
		}

		if err := database.DB.Create(&newLike).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de l'ajout du like"})
			logs.LogJSON("ERROR", "Error when liking", map[string]interface{}{
				"error":  err.Error(),
				"route":  route,
				"userID": userID,
				"postID": postID,
			})
			return
		}

		response := Status(postID, userID)
		realtime.Publish(realtime.TableLikes, realtime.KindInsert, realtime.LikeChange{
			PostID:    postID,
			UserID:    userID,
			LikeCount: &response.LikeCount,
		})
		c.JSON(http.StatusOK, response)
		return
	}

	// Erreur de base de données
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur de base de données"})
	logs.LogJSON("ERROR", "Database error", map[string]interface{}{
		"error":  err.Error(),
		"route":  route,
		"userID": userID,
		"postID": postID,
	})
}

// GetLikeStatus GET /api/feed/:id/like
func GetLikeStatus(c *gin.Context) {
	postID := c.Param("id")
	userID := c.GetString("user_id") // Peut être vide si non connecté

	var postCount int64
	if err := database.DB.Table("posts").Where("id = ?", postID).Count(&postCount).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur de base de données"})
		return
	}
	if postCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post non trouvé"})
		return
	}

	c.JSON(http.StatusOK, Status(postID, userID))
}

// Status calcule le compteur de likes d'un post et le drapeau is_liked pour
// un lecteur donné (userID vide accepté).
func Status(postID, userID string) LikeResponse {
	var likeCount int64
	database.DB.Model(&Like{}).Where("post_id = ?", postID).Count(&likeCount)

	var isLiked bool
	if userID != "" {
		var existingLike Like
		err := database.DB.Where("user_id = ? AND post_id = ?", userID, postID).First(&existingLike).Error
		isLiked = (err == nil)
	}

	return LikeResponse{
		PostID:    postID,
		LikeCount: likeCount,
		IsLiked:   isLiked,
	}
}
