package feed

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/LucasBertrand/SkateHub-Back/internal/database"
	"github.com/LucasBertrand/SkateHub-Back/internal/logs"
	"github.com/LucasBertrand/SkateHub-Back/internal/realtime"
	"github.com/LucasBertrand/SkateHub-Back/internal/storage"
)

var source Source = DBSource{}

// GetFeed GET /api/feed?page=N&limit=M : page de posts, avec les activités
// intercalées en 3:1 sur la première page uniquement.
func GetFeed(c *gin.Context) {
	viewerID := c.GetString("user_id") // Peut être vide si non connecté

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 || limit > 50 {
		limit = 20
	}

	posts, hasMore, err := source.Page(page, limit, viewerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la récupération du feed"})
		logs.LogJSON("ERROR", "Feed retrieval error", map[string]interface{}{
			"error": err.Error(),
			"page":  page,
		})
		return
	}

	var items []FeedItem
	if page == 1 {
		activities, aerr := source.Activities(activitiesPageOne)
		if aerr != nil {
			// Feed best-effort : les activités manquantes ne bloquent pas les posts
			logs.LogJSON("WARN", "Feed activities error", map[string]interface{}{
				"error": aerr.Error(),
			})
			activities = nil
		}
		items = Interleave(posts, activities)
	} else {
		items = Interleave(posts, nil)
	}

	var nextCursor *int
	if hasMore && len(posts) > 0 {
		next := page + 1
		nextCursor = &next
	}

	c.JSON(http.StatusOK, gin.H{
		"items":       items,
		"next_cursor": nextCursor,
	})
}

// CreatePost POST /api/feed : crée un post (texte, photo ou vidéo via URL
// média déjà uploadée)
func CreatePost(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur non authentifié"})
		return
	}

	var input struct {
		Content  string `json:"content"`
		MediaURL string `json:"media_url"`
		PostType string `json:"type"`
		TrickTag string `json:"trick_tag"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Content == "" && input.MediaURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Un contenu ou un média est obligatoire"})
		return
	}

	validTypes := map[string]bool{"text": true, "photo": true, "video": true}
	if input.PostType == "" {
		input.PostType = "text"
	}
	if !validTypes[input.PostType] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Type de post invalide"})
		return
	}

	newPost := Post{
		ID:        uuid.New().String(),
		CreatedAt: time.Now(),
		UserID:    userID,
		Content:   input.Content,
		MediaURL:  input.MediaURL,
		PostType:  input.PostType,
		TrickTag:  strings.ToLower(strings.TrimSpace(input.TrickTag)),
	}

	if err := database.DB.Create(&newPost).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la création du post"})
		return
	}

	realtime.Publish(realtime.TablePosts, realtime.KindInsert, realtime.PostChange{
		ID:     newPost.ID,
		UserID: newPost.UserID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Post créé avec succès",
		"post":    newPost,
	})
}

// UploadPostMedia POST /api/feed/media : upload du média avant création du post
func UploadPostMedia(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur non authentifié"})
		return
	}

	file, header, err := c.Request.FormFile("media")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Aucun média fourni", "details": err.Error()})
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	validExtensions := map[string]bool{
		".jpg": true, ".jpeg": true, ".png": true,
		".gif": true, ".webp": true, ".heic": true,
		".mp4": true, ".mov": true, ".avi": true,
	}
	if !validExtensions[ext] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Extension de fichier invalide"})
		return
	}

	filename := fmt.Sprintf("post_%s%s", uuid.New().String(), ext)
	contentType := header.Header.Get("Content-Type")

	url, err := storage.UploadToS3(file, filename, contentType, storage.FolderPosts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de l'upload", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"media_url": url})
}

// DeletePost DELETE /api/feed/:id : suppression par l'auteur
func DeletePost(c *gin.Context) {
	postID := c.Param("id")
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur non authentifié"})
		return
	}

	var post Post
	if err := database.DB.First(&post, "id = ? AND user_id = ?", postID, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post non trouvé ou vous n'êtes pas autorisé à le supprimer"})
		return
	}

	// Supprimer le média S3 associé, on continue même en cas d'échec
	if post.MediaURL != "" {
		if mediaKey := storage.KeyFromURL(post.MediaURL); mediaKey != "" {
			if err := storage.DeleteFromS3(mediaKey); err != nil {
				logs.LogJSON("WARN", "S3 media deletion error", map[string]interface{}{
					"error":  err.Error(),
					"postID": postID,
				})
			}
		}
	}

	if err := database.DB.Delete(&post).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la suppression du post"})
		return
	}

	realtime.Publish(realtime.TablePosts, realtime.KindDelete, realtime.PostChange{
		ID:     post.ID,
		UserID: post.UserID,
	})

	c.JSON(http.StatusOK, gin.H{"message": "Post supprimé avec succès"})
}

// GetComments GET /api/feed/:id/comments
func GetComments(c *gin.Context) {
	postID := c.Param("id")

	var postCount int64
	if err := database.DB.Model(&Post{}).Where("id = ?", postID).Count(&postCount).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur de base de données"})
		return
	}
	if postCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post non trouvé"})
		return
	}

	var comments []Comment
	if err := database.DB.Where("post_id = ?", postID).Order("created_at desc").Find(&comments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la récupération des commentaires"})
		return
	}

	// Résolution des auteurs
	src := DBSource{}
	responses := make([]CommentResponse, 0, len(comments))
	for _, comment := range comments {
		if resp, err := src.CommentByID(comment.ID); err == nil && resp != nil {
			responses = append(responses, *resp)
		}
	}

	c.JSON(http.StatusOK, gin.H{"comments": responses})
}

// CreateComment POST /api/feed/:id/comments
func CreateComment(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur non authentifié"})
		return
	}

	postID := c.Param("id")

	var input struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var post Post
	if err := database.DB.First(&post, "id = ?", postID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post non trouvé"})
		return
	}

	comment := Comment{
		ID:        uuid.New().String(),
		PostID:    postID,
		UserID:    userID,
		Content:   input.Text,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := database.DB.Create(&comment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la création du commentaire"})
		return
	}

	realtime.Publish(realtime.TableComments, realtime.KindInsert, realtime.CommentChange{
		ID:     comment.ID,
		PostID: comment.PostID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Commentaire ajouté avec succès",
		"comment": comment,
	})
}

// DeleteComment DELETE /api/feed/:id/comments/:commentId
func DeleteComment(c *gin.Context) {
	commentID := c.Param("commentId")
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur non authentifié"})
		return
	}

	var comment Comment
	if err := database.DB.First(&comment, "id = ? AND user_id = ?", commentID, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commentaire non trouvé ou vous n'êtes pas autorisé à le supprimer"})
		return
	}

	if err := database.DB.Delete(&comment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la suppression du commentaire"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Commentaire supprimé avec succès"})
}
