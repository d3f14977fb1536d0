package feed

import (
	"errors"

	"gorm.io/gorm"

	"github.com/LucasBertrand/SkateHub-Back/internal/database"
	"github.com/LucasBertrand/SkateHub-Back/internal/like"
	"github.com/LucasBertrand/SkateHub-Back/internal/user"
)

// Source abstrait les lectures dont le feed a besoin. L'implémentation GORM
// est la seule en production, les tests du réconciliateur en fournissent une
// en mémoire.
type Source interface {
	// Page renvoie une page de posts dénormalisés (ordre anté-chronologique)
	// et indique s'il reste des posts après celle-ci.
	Page(page, limit int, viewerID string) ([]PostResponse, bool, error)
	// Activities renvoie les dernières activités (page 1 uniquement).
	Activities(limit int) ([]Activity, error)
	// PostByID renvoie un post dénormalisé complet, nil si introuvable.
	PostByID(postID, viewerID string) (*PostResponse, error)
	// CommentByID renvoie un commentaire dénormalisé, nil si introuvable.
	CommentByID(commentID string) (*CommentResponse, error)
}

// DBSource est l'implémentation GORM de Source.
type DBSource struct{}

func (DBSource) Page(page, limit int, viewerID string) ([]PostResponse, bool, error) {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * limit

	var posts []Post
	// limit+1 pour savoir s'il reste une page suivante
	if err := database.DB.
		Preload("User").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit + 1).
		Find(&posts).Error; err != nil {
		return nil, false, err
	}

	hasMore := len(posts) > limit
	if hasMore {
		posts = posts[:limit]
	}

	responses := make([]PostResponse, 0, len(posts))
	for _, p := range posts {
		responses = append(responses, denormalize(p, viewerID))
	}

	return responses, hasMore, nil
}

func (DBSource) Activities(limit int) ([]Activity, error) {
	var activities []Activity
	if err := database.DB.
		Order("created_at DESC").
		Limit(limit).
		Find(&activities).Error; err != nil {
		return nil, err
	}

	// Résolution des noms d'acteurs pour l'affichage
	for i := range activities {
		var username string
		row := database.DB.Table("users").Select("username").Where("id = ?", activities[i].ActorID).Row()
		if err := row.Scan(&username); err == nil {
			activities[i].ActorUsername = username
		}
	}

	return activities, nil
}

func (DBSource) PostByID(postID, viewerID string) (*PostResponse, error) {
	var post Post
	if err := database.DB.Preload("User").First(&post, "id = ?", postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	resp := denormalize(post, viewerID)
	return &resp, nil
}

func (DBSource) CommentByID(commentID string) (*CommentResponse, error) {
	var comment Comment
	if err := database.DB.First(&comment, "id = ?", commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	resp := CommentResponse{
		ID:        comment.ID,
		PostID:    comment.PostID,
		UserID:    comment.UserID,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
	}

	var author user.User
	if err := database.DB.First(&author, "id = ?", comment.UserID).Error; err == nil {
		resp.Username = author.Username
		resp.AvatarURL = author.AvatarURL
	}

	return &resp, nil
}

// denormalize construit la forme affichable d'un post : auteur et compteurs.
func denormalize(p Post, viewerID string) PostResponse {
	likeStatus := like.Status(p.ID, viewerID)

	var commentCount int64
	database.DB.Model(&Comment{}).Where("post_id = ?", p.ID).Count(&commentCount)

	return PostResponse{
		ID:           p.ID,
		CreatedAt:    p.CreatedAt,
		UserID:       p.UserID,
		Username:     p.User.Username,
		AvatarURL:    p.User.AvatarURL,
		Content:      p.Content,
		MediaURL:     p.MediaURL,
		PostType:     p.PostType,
		TrickTag:     p.TrickTag,
		LikeCount:    likeStatus.LikeCount,
		IsLiked:      likeStatus.IsLiked,
		CommentCount: commentCount,
	}
}
