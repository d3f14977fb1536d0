package marketplace

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/LucasBertrand/SkateHub-Back/internal/database"
	"github.com/LucasBertrand/SkateHub-Back/internal/logs"
	"github.com/LucasBertrand/SkateHub-Back/internal/storage"
	"github.com/LucasBertrand/SkateHub-Back/internal/user"
)

// GetListings GET /api/marketplace?park_id=...
func GetListings(c *gin.Context) {
	query := database.DB.Preload("Seller").
		Where("status = ?", ListingActive).
		Order("created_at DESC")

	if parkID := c.Query("park_id"); parkID != "" {
		query = query.Where("park_id = ?", parkID)
	}

	var listings []Listing
	if err := query.Find(&listings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la récupération des annonces"})
		return
	}

	var response []gin.H
	for _, l := range listings {
		response = append(response, listingResponse(l))
	}

	c.JSON(http.StatusOK, gin.H{"listings": response})
}

// GetListingByID GET /api/marketplace/:id
func GetListingByID(c *gin.Context) {
	listingID := c.Param("id")

	var listing Listing
	if err := database.DB.Preload("Seller").First(&listing, "id = ?", listingID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Annonce non trouvée"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"listing": listingResponse(listing)})
}

// CreateListing POST /api/marketplace : multipart : champs + photo
func CreateListing(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur non authentifié"})
		return
	}

	// Un vendeur doit avoir un compte Stripe connecté pour recevoir le payout
	var seller user.User
	if err := database.DB.First(&seller, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Utilisateur non trouvé"})
		return
	}
	if !seller.IsSeller || seller.StripeAccountID == "" {
		c.JSON(http.StatusForbidden, gin.H{"error": "Compte vendeur requis pour publier une annonce"})
		return
	}

	title := c.PostForm("title")
	description := c.PostForm("description")
	parkID := c.PostForm("park_id")
	priceStr := c.PostForm("price_cents")

	if title == "" || priceStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Titre et prix obligatoires"})
		return
	}

	var priceCents int64
	if _, err := fmt.Sscanf(priceStr, "%d", &priceCents); err != nil || priceCents <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Prix invalide"})
		return
	}

	listingID := uuid.New().String()
	var photoURL string

	file, header, err := c.Request.FormFile("photo")
	if err == nil {
		defer file.Close()

		ext := strings.ToLower(filepath.Ext(header.Filename))
		validExtensions := map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".heic": true}
		if !validExtensions[ext] {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Extension de fichier invalide"})
			return
		}

		filename := fmt.Sprintf("listing_%s%s", listingID, ext)
		url, uploadErr := storage.UploadToS3(file, filename, header.Header.Get("Content-Type"), storage.FolderListings)
		if uploadErr != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de l'upload", "details": uploadErr.Error()})
			return
		}
		photoURL = url
	}

	listing := Listing{
		ID:          listingID,
		CreatedAt:   time.Now(),
		SellerID:    userID,
		ParkID:      parkID,
		Title:       title,
		Description: description,
		PriceCents:  priceCents,
		PhotoURL:    photoURL,
		Status:      ListingActive,
	}

	if err := database.DB.Create(&listing).Error; err != nil {
		if photoURL != "" {
			if key := storage.KeyFromURL(photoURL); key != "" {
				_ = storage.DeleteFromS3(key)
			}
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la création de l'annonce"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Annonce publiée avec succès",
		"listing": listing,
	})
}

// DeleteListing DELETE /api/marketplace/:id : le vendeur retire son annonce
func DeleteListing(c *gin.Context) {
	userID := c.GetString("user_id")
	listingID := c.Param("id")

	var listing Listing
	if err := database.DB.First(&listing, "id = ? AND seller_id = ?", listingID, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Annonce non trouvée ou vous n'êtes pas autorisé à la supprimer"})
		return
	}

	if listing.Status == ListingSold {
		c.JSON(http.StatusConflict, gin.H{"error": "Annonce déjà vendue"})
		return
	}

	if err := database.DB.Model(&listing).Update("status", ListingRemoved).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la suppression de l'annonce"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Annonce retirée"})
}

// RemoveListingAdmin DELETE /api/admin/marketplace/:id : modération
func RemoveListingAdmin(c *gin.Context) {
	route := c.FullPath()
	adminID := c.GetString("user_id")
	listingID := c.Param("id")

	result := database.DB.Model(&Listing{}).
		Where("id = ?", listingID).
		Update("status", ListingRemoved)

	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors du retrait de l'annonce"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Annonce non trouvée"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Annonce retirée par la modération"})
	logs.LogJSON("INFO", "Listing removed by moderation", map[string]interface{}{
		"route":     route,
		"userID":    adminID,
		"listingID": listingID,
	})
}

// GetMyTransactions GET /api/marketplace/transactions : achats du membre
func GetMyTransactions(c *gin.Context) {
	userID := c.GetString("user_id")

	var transactions []Transaction
	if err := database.DB.Preload("Listing").
		Where("buyer_id = ?", userID).
		Order("created_at DESC").
		Find(&transactions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la récupération des transactions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": transactions})
}

func listingResponse(l Listing) gin.H {
	return gin.H{
		"id":          l.ID,
		"created_at":  l.CreatedAt,
		"park_id":     l.ParkID,
		"title":       l.Title,
		"description": l.Description,
		"price_cents": l.PriceCents,
		"photo_url":   l.PhotoURL,
		"status":      l.Status,
		"seller": gin.H{
			"id":         l.Seller.ID,
			"username":   l.Seller.Username,
			"avatar_url": l.Seller.AvatarURL,
		},
	}
}
