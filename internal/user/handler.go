package user

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/go-resty/resty/v2"

	"github.com/LucasBertrand/SkateHub-Back/internal/database"
	"github.com/LucasBertrand/SkateHub-Back/internal/logs"
)

// GetUserByUsername GET /api/users/:username
func GetUserByUsername(c *gin.Context) {
	username := c.Param("username")

	var user User
	if err := database.DB.First(&user, "username = ?", username).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Utilisateur introuvable"})
		return
	}

	// Profil public : pas d'email ni de flags internes
	c.JSON(http.StatusOK, gin.H{"user": gin.H{
		"id":           user.ID,
		"username":     user.Username,
		"firstname":    user.Firstname,
		"lastname":     user.Lastname,
		"avatar_url":   user.AvatarURL,
		"bio":          user.Bio,
		"stance":       user.Stance,
		"skill_level":  user.SkillLevel,
		"home_park_id": user.HomeParkID,
	}})
}

// SearchUsers GET /api/users?q=...
func SearchUsers(c *gin.Context) {
	route := c.FullPath()

	query := c.Query("q")

	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Paramètre de recherche 'q' requis"})
		logs.LogJSON("WARN", "Search parameter 'q' required", map[string]interface{}{
			"route": route,
		})
		return
	}

	if len(query) < 2 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "La recherche doit contenir au moins 2 caractères"})
		return
	}

	var users []User
	// Recherche par username ou firstname/lastname
	if err := database.DB.
		Where("username ILIKE ? OR firstname ILIKE ? OR lastname ILIKE ?",
			"%"+query+"%", "%"+query+"%", "%"+query+"%").
		Limit(20).
		Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la recherche"})
		logs.LogJSON("WARN", "Search error", map[string]interface{}{
			"route": route,
			"extra": fmt.Sprintf("The search is : %s", query),
		})
		return
	}

	var response []gin.H
	for _, user := range users {
		response = append(response, gin.H{
			"id":          user.ID,
			"username":    user.Username,
			"firstname":   user.Firstname,
			"lastname":    user.Lastname,
			"avatar_url":  user.AvatarURL,
			"skill_level": user.SkillLevel,
		})
	}

	c.JSON(http.StatusOK, gin.H{"users": response})
}

// DeleteUser DELETE /api/admin/users/:id : supprime le compte côté auth puis en base
func DeleteUser(c *gin.Context) {
	route := c.FullPath()
	currentUserID := c.GetString("user_id")
	id := c.Param("id")

	client := resty.New()
	supabaseURL := os.Getenv("NEXT_PUBLIC_SUPABASE_URL")
	supabaseServiceKey := os.Getenv("SUPABASE_SERVICE_ROLE_KEY")

	resp, err := client.R().
		SetHeader("apikey", supabaseServiceKey).
		SetHeader("Authorization", "Bearer "+supabaseServiceKey).
		Delete(supabaseURL + "/auth/v1/admin/users/" + id)

	if err != nil || resp.IsError() {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur auth lors de la suppression d'utilisateur"})
		logs.LogJSON("ERROR", "Auth user deletion error", map[string]interface{}{
			"route":  route,
			"userID": currentUserID,
			"extra":  fmt.Sprintf("target user : %s", id),
		})
		return
	}

	if err := database.DB.Delete(&User{}, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression base utilisateurs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Utilisateur supprimé"})
	logs.LogJSON("INFO", "User deleted successfully", map[string]interface{}{
		"route":  route,
		"userID": currentUserID,
		"extra":  fmt.Sprintf("User deleted successfully : %s", id),
	})
}

// SetAdmin PUT /api/admin/users/:id/admin : promeut ou rétrograde un admin
func SetAdmin(c *gin.Context) {
	route := c.FullPath()
	currentUserID := c.GetString("user_id")
	id := c.Param("id")

	var input struct {
		IsAdmin bool `json:"is_admin"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Requête invalide"})
		return
	}

	if id == currentUserID && !input.IsAdmin {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Impossible de se retirer soi-même les droits admin"})
		return
	}

	if err := database.DB.Model(&User{}).Where("id = ?", id).Update("is_admin", input.IsAdmin).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour utilisateur"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Rôle mis à jour"})
	logs.LogJSON("INFO", "Admin role updated", map[string]interface{}{
		"route":  route,
		"userID": currentUserID,
		"extra":  fmt.Sprintf("target: %s, is_admin: %t", id, input.IsAdmin),
	})
}
