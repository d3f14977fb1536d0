// internal/admin/handler.go
package admin

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/LucasBertrand/SkateHub-Back/internal/database"
	"github.com/LucasBertrand/SkateHub-Back/internal/logs"
)

// GetDashboardStats GET /api/admin/stats
func GetDashboardStats(c *gin.Context) {
	route := c.FullPath()
	userID := c.GetString("user_id")

	startDate, endDate, err := parseDateRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var totalUsers, sellersCount, totalPosts int64
	var passesSold, activeListings, pendingReports, upcomingEvents int64
	var transactionsVolume int64

	// Total des utilisateurs
	database.DB.Table("users").Count(&totalUsers)

	// Total des vendeurs
	database.DB.Table("users").Where("is_seller = true").Count(&sellersCount)

	// Total des posts
	database.DB.Table("posts").Count(&totalPosts)

	// Pass vendus sur la période
	database.DB.Table("passes").
		Where("created_at >= ? AND created_at <= ?", startDate, endDate).
		Count(&passesSold)

	// Annonces en vente
	database.DB.Table("listings").Where("status = 'active'").Count(&activeListings)

	// Volume des transactions complétées sur la période (en centimes)
	database.DB.Table("transactions").
		Where("status = 'completed' AND created_at >= ? AND created_at <= ?", startDate, endDate).
		Select("COALESCE(SUM(amount_cents), 0)").
		Scan(&transactionsVolume)

	// Signalements en attente
	database.DB.Table("reports").Where("status = 'pending'").Count(&pendingReports)

	// Événements à venir
	database.DB.Table("events").Where("starts_at > ?", time.Now()).Count(&upcomingEvents)

	stats := gin.H{
		"total_users":         totalUsers,
		"sellers_count":       sellersCount,
		"total_posts":         totalPosts,
		"passes_sold":         passesSold,
		"active_listings":     activeListings,
		"transactions_volume": transactionsVolume,
		"pending_reports":     pendingReports,
		"upcoming_events":     upcomingEvents,
		"date_range": gin.H{
			"start": startDate.Format("2006-01-02"),
			"end":   endDate.Format("2006-01-02"),
		},
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats})
	logs.LogJSON("INFO", "Admin stats retrieved successfully", map[string]interface{}{
		"route":  route,
		"userID": userID,
	})
}

// GetChartData GET /api/admin/charts/:type
func GetChartData(c *gin.Context) {
	route := c.FullPath()
	userID := c.GetString("user_id")
	chartType := c.Param("type")

	startDate, endDate, err := parseDateRange(c)
	if err != nil {
		startDate = time.Now().AddDate(0, 0, -30)
		endDate = time.Now()
	}

	switch chartType {
	case "evolution":
		data := getEvolutionData(startDate, endDate)
		c.JSON(http.StatusOK, gin.H{"data": data})
	case "revenue":
		data := getRevenueData(startDate, endDate)
		c.JSON(http.StatusOK, gin.H{"data": data})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Type de graphique non supporté"})
		return
	}

	logs.LogJSON("INFO", "Chart data retrieved successfully", map[string]interface{}{
		"route":     route,
		"userID":    userID,
		"chartType": chartType,
		"startDate": startDate.Format("2006-01-02"),
		"endDate":   endDate.Format("2006-01-02"),
	})
}

func parseDateRange(c *gin.Context) (time.Time, time.Time, error) {
	startDate := time.Now().AddDate(0, 0, -30) // 30 jours par défaut
	endDate := time.Now()

	if s := c.Query("start_date"); s != "" {
		parsed, err := time.Parse("2006-01-02", s)
		if err != nil {
			return startDate, endDate, fmt.Errorf("Format de date invalide pour start_date")
		}
		startDate = parsed
	}
	if s := c.Query("end_date"); s != "" {
		parsed, err := time.Parse("2006-01-02", s)
		if err != nil {
			return startDate, endDate, fmt.Errorf("Format de date invalide pour end_date")
		}
		endDate = parsed
	}

	return startDate, endDate, nil
}

func getEvolutionData(startDate, endDate time.Time) []gin.H {
	var results []gin.H

	// Données jour par jour
	for d := startDate; d.Before(endDate) || d.Equal(endDate); d = d.AddDate(0, 0, 1) {
		dayStart := d
		dayEnd := d.AddDate(0, 0, 1)

		var usersCount, postsCount, passesCount, listingsCount int64

		// Utilisateurs créés ce jour
		database.DB.Table("users").
			Where("created_at >= ? AND created_at < ?", dayStart, dayEnd).
			Count(&usersCount)

		// Posts créés ce jour
		database.DB.Table("posts").
			Where("created_at >= ? AND created_at < ?", dayStart, dayEnd).
			Count(&postsCount)

		// Pass vendus ce jour
		database.DB.Table("passes").
			Where("created_at >= ? AND created_at < ?", dayStart, dayEnd).
			Count(&passesCount)

		// Annonces publiées ce jour
		database.DB.Table("listings").
			Where("created_at >= ? AND created_at < ?", dayStart, dayEnd).
			Count(&listingsCount)

		results = append(results, gin.H{
			"date":     d.Format("2006-01-02"),
			"users":    usersCount,
			"posts":    postsCount,
			"passes":   passesCount,
			"listings": listingsCount,
		})
	}

	return results
}

func getRevenueData(startDate, endDate time.Time) []gin.H {
	// Revenus des pass par formule sur la période : pas de prix stocké sur le
	// pass, on compte les ventes par formule
	var passesByType []struct {
		PassType string `json:"pass_type"`
		Count    int64  `json:"count"`
	}
	database.DB.Table("passes").
		Select("pass_type, COUNT(*) as count").
		Where("created_at >= ? AND created_at <= ?", startDate, endDate).
		Group("pass_type").
		Scan(&passesByType)

	var marketplaceVolume int64
	database.DB.Table("transactions").
		Where("status = 'completed' AND created_at >= ? AND created_at <= ?", startDate, endDate).
		Select("COALESCE(SUM(amount_cents), 0)").
		Scan(&marketplaceVolume)

	data := make([]gin.H, 0, len(passesByType)+1)
	for _, p := range passesByType {
		data = append(data, gin.H{"name": "Pass " + p.PassType, "value": p.Count})
	}
	data = append(data, gin.H{"name": "Volume marketplace (centimes)", "value": marketplaceVolume})

	return data
}

// GetTopUsers GET /api/admin/top-users
func GetTopUsers(c *gin.Context) {
	route := c.FullPath()
	userID := c.GetString("user_id")

	limit := 10
	if l := c.Query("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	// Top riders par nombre de posts
	var topByPosts []struct {
		UserID    string `json:"user_id"`
		Username  string `json:"username"`
		PostCount int64  `json:"post_count"`
	}

	database.DB.Table("posts").
		Select("posts.user_id, users.username, COUNT(posts.id) as post_count").
		Joins("LEFT JOIN users ON posts.user_id = users.id").
		Group("posts.user_id, users.username").
		Order("post_count DESC").
		Limit(limit).
		Scan(&topByPosts)

	// Top riders par likes reçus
	var topByLikes []struct {
		UserID     string `json:"user_id"`
		Username   string `json:"username"`
		LikesCount int64  `json:"likes_count"`
	}

	database.DB.Table("likes").
		Select("posts.user_id, users.username, COUNT(likes.id) as likes_count").
		Joins("LEFT JOIN posts ON likes.post_id = posts.id").
		Joins("LEFT JOIN users ON posts.user_id = users.id").
		Group("posts.user_id, users.username").
		Order("likes_count DESC").
		Limit(limit).
		Scan(&topByLikes)

	c.JSON(http.StatusOK, gin.H{
		"top_by_posts": topByPosts,
		"top_by_likes": topByLikes,
	})

	logs.LogJSON("INFO", "Top users retrieved successfully", map[string]interface{}{
		"route":  route,
		"userID": userID,
		"limit":  limit,
	})
}
