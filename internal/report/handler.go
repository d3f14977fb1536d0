package report

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/LucasBertrand/SkateHub-Back/internal/database"
	"github.com/LucasBertrand/SkateHub-Back/internal/feed"
	"github.com/LucasBertrand/SkateHub-Back/internal/logs"
	"github.com/LucasBertrand/SkateHub-Back/internal/marketplace"
	"github.com/LucasBertrand/SkateHub-Back/internal/user"
)

// CreateReport POST /api/reports
func CreateReport(c *gin.Context) {
	route := c.FullPath()
	userID := c.GetString("user_id")

	var input CreateReportInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides", "details": err.Error()})
		logs.LogJSON("WARN", "Invalid report data", map[string]interface{}{
			"error":  err.Error(),
			"route":  route,
			"userID": userID,
		})
		return
	}

	if !input.TargetType.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Type de signalement invalide"})
		return
	}

	if !input.Reason.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Raison de signalement invalide"})
		return
	}

	if err := validateTargetExists(input.TargetType, input.TargetID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Élément à signaler non trouvé"})
		logs.LogJSON("WARN", "Report target not found", map[string]interface{}{
			"targetType": input.TargetType,
			"targetID":   input.TargetID,
			"route":      route,
			"userID":     userID,
		})
		return
	}

	// Un seul signalement par utilisateur et par cible
	var existingReport Report
	err := database.DB.Where("reporter_id = ? AND target_type = ? AND target_id = ?",
		userID, input.TargetType, input.TargetID).First(&existingReport).Error

	if err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Vous avez déjà signalé cet élément"})
		return
	}

	report := Report{
		ReporterID:  userID,
		TargetType:  input.TargetType,
		TargetID:    input.TargetID,
		Reason:      input.Reason,
		Description: input.Description,
		Status:      StatusPending,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := database.DB.Create(&report).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la création du signalement"})
		logs.LogJSON("ERROR", "Error creating report", map[string]interface{}{
			"error":  err.Error(),
			"route":  route,
			"userID": userID,
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Signalement créé avec succès",
		"report":  report,
	})

	logs.LogJSON("INFO", "Report created successfully", map[string]interface{}{
		"reportID":   report.ID,
		"targetType": input.TargetType,
		"targetID":   input.TargetID,
		"route":      route,
		"userID":     userID,
	})
}

// GetReports GET /api/admin/reports (Admin seulement)
func GetReports(c *gin.Context) {
	route := c.FullPath()
	userID := c.GetString("user_id")

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset := (page - 1) * limit

	status := c.Query("status")
	targetType := c.Query("target_type")
	reason := c.Query("reason")

	query := database.DB.Model(&Report{}).
		Preload("Reporter").
		Preload("Admin").
		Order("created_at DESC")

	if status != "" {
		query = query.Where("status = ?", status)
	}
	if targetType != "" {
		query = query.Where("target_type = ?", targetType)
	}
	if reason != "" {
		query = query.Where("reason = ?", reason)
	}

	var total int64
	query.Count(&total)

	var reports []Report
	if err := query.Limit(limit).Offset(offset).Find(&reports).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la récupération des signalements"})
		logs.LogJSON("ERROR", "Error fetching reports", map[string]interface{}{
			"error":  err.Error(),
			"route":  route,
			"userID": userID,
		})
		return
	}

	// Enrichir avec les détails des cibles
	reportsWithTargets := make([]ReportWithTarget, len(reports))
	for i, report := range reports {
		reportWithTarget := ReportWithTarget{Report: report}

		switch report.TargetType {
		case ReportTypePost:
			var targetPost feed.Post
			if err := database.DB.First(&targetPost, "id = ?", report.TargetID).Error; err == nil {
				reportWithTarget.TargetPost = &targetPost
			}
		case ReportTypeComment:
			var targetComment feed.Comment
			if err := database.DB.First(&targetComment, "id = ?", report.TargetID).Error; err == nil {
				reportWithTarget.TargetComment = &targetComment
			}
		case ReportTypeUser:
			var targetUser user.User
			if err := database.DB.First(&targetUser, "id = ?", report.TargetID).Error; err == nil {
				reportWithTarget.TargetUser = &targetUser
			}
		case ReportTypeListing:
			var targetListing marketplace.Listing
			if err := database.DB.First(&targetListing, "id = ?", report.TargetID).Error; err == nil {
				reportWithTarget.TargetListing = &targetListing
			}
		}

		reportsWithTargets[i] = reportWithTarget
	}

	c.JSON(http.StatusOK, gin.H{
		"reports": reportsWithTargets,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
			"pages": (total + int64(limit) - 1) / int64(limit),
		},
	})
}

// UpdateReport PUT /api/admin/reports/:id (Admin seulement)
func UpdateReport(c *gin.Context) {
	route := c.FullPath()
	userID := c.GetString("user_id")
	reportID := c.Param("id")

	var input UpdateReportInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides", "details": err.Error()})
		return
	}

	var report Report
	if err := database.DB.First(&report, "id = ?", reportID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Signalement non trouvé"})
		return
	}

	updates := map[string]interface{}{
		"status":     input.Status,
		"admin_note": input.AdminNote,
		"admin_id":   userID,
		"updated_at": time.Now(),
	}

	if input.Status == StatusResolved || input.Status == StatusRejected {
		now := time.Now()
		updates["resolved_at"] = &now
	}

	if err := database.DB.Model(&report).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la mise à jour"})
		logs.LogJSON("ERROR", "Error updating report", map[string]interface{}{
			"error":    err.Error(),
			"reportID": reportID,
			"route":    route,
			"userID":   userID,
		})
		return
	}

	// Résoudre un signalement d'annonce peut retirer l'annonce de la vente
	if input.Status == StatusResolved && input.RemoveListing && report.TargetType == ReportTypeListing {
		if err := database.DB.Model(&marketplace.Listing{}).
			Where("id = ? AND status = ?", report.TargetID, marketplace.ListingActive).
			Update("status", marketplace.ListingRemoved).Error; err != nil {
			logs.LogJSON("ERROR", "Error removing reported listing", map[string]interface{}{
				"error":     err.Error(),
				"listingID": report.TargetID,
				"reportID":  reportID,
			})
		} else {
			logs.LogJSON("INFO", "Reported listing removed", map[string]interface{}{
				"listingID": report.TargetID,
				"reportID":  reportID,
				"adminID":   userID,
			})
		}
	}

	if err := database.DB.Preload("Reporter").Preload("Admin").First(&report, "id = ?", reportID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors du rechargement"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Signalement mis à jour avec succès",
		"report":  report,
	})
}

// DeleteReport DELETE /api/admin/reports/:id (Admin seulement)
func DeleteReport(c *gin.Context) {
	userID := c.GetString("user_id")
	reportID := c.Param("id")

	var report Report
	if err := database.DB.First(&report, "id = ?", reportID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Signalement non trouvé"})
		return
	}

	if err := database.DB.Delete(&report).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la suppression"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Signalement supprimé avec succès"})

	logs.LogJSON("INFO", "Report deleted successfully", map[string]interface{}{
		"reportID": reportID,
		"userID":   userID,
	})
}

// GetReportStats GET /api/admin/reports/stats (Admin seulement)
func GetReportStats(c *gin.Context) {
	var statsByStatus []struct {
		Status ReportStatus `json:"status"`
		Count  int64        `json:"count"`
	}
	database.DB.Model(&Report{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&statsByStatus)

	var statsByType []struct {
		TargetType ReportType `json:"target_type"`
		Count      int64      `json:"count"`
	}
	database.DB.Model(&Report{}).
		Select("target_type, COUNT(*) as count").
		Group("target_type").
		Scan(&statsByType)

	var statsByReason []struct {
		Reason ReportReason `json:"reason"`
		Count  int64        `json:"count"`
	}
	database.DB.Model(&Report{}).
		Select("reason, COUNT(*) as count").
		Group("reason").
		Scan(&statsByReason)

	// Signalements récents (dernières 24h)
	var recentCount int64
	database.DB.Model(&Report{}).
		Where("created_at > ?", time.Now().Add(-24*time.Hour)).
		Count(&recentCount)

	c.JSON(http.StatusOK, gin.H{
		"stats_by_status": statsByStatus,
		"stats_by_type":   statsByType,
		"stats_by_reason": statsByReason,
		"recent_count":    recentCount,
	})
}

// Fonction utilitaire pour valider l'existence de la cible
func validateTargetExists(targetType ReportType, targetID string) error {
	switch targetType {
	case ReportTypePost:
		var p feed.Post
		return database.DB.First(&p, "id = ?", targetID).Error
	case ReportTypeComment:
		var comment feed.Comment
		return database.DB.First(&comment, "id = ?", targetID).Error
	case ReportTypeUser:
		var u user.User
		return database.DB.First(&u, "id = ?", targetID).Error
	case ReportTypeListing:
		var listing marketplace.Listing
		return database.DB.First(&listing, "id = ?", targetID).Error
	default:
		return fmt.Errorf("type de cible invalide")
	}
}
