package feed

import (
	"time"

	"github.com/LucasBertrand/SkateHub-Back/internal/user"
)

type Post struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	CreatedAt time.Time `json:"created_at"`
	UserID    string    `json:"user_id" gorm:"index"`
	User      user.User `json:"-" gorm:"foreignKey:UserID"`
	Content   string    `json:"content" gorm:"type:text"`
	MediaURL  string    `json:"media_url,omitempty"`
	PostType  string    `json:"post_type" gorm:"default:'text'"` // "text", "photo", "video"
	TrickTag  string    `json:"trick_tag,omitempty" gorm:"index"`
}

func (Post) TableName() string {
	return "posts"
}

// ItemType discrimine les deux variantes d'un élément de feed.
type ItemType string

const (
	ItemPost     ItemType = "post"
	ItemActivity ItemType = "activity"
)

// FeedItem est l'union affichée dans la timeline : un post complet avec ses
// compteurs dénormalisés, ou une activité. Un seul des deux pointeurs est
// renseigné selon Type. Les IDs ne peuvent pas entrer en collision entre
// variantes, chacune venant de sa propre table.
type FeedItem struct {
	Type     ItemType      `json:"type"`
	Post     *PostResponse `json:"post,omitempty"`
	Activity *Activity     `json:"activity,omitempty"`
}

// ID renvoie l'identifiant de la variante portée.
func (f FeedItem) ID() string {
	if f.Type == ItemPost && f.Post != nil {
		return f.Post.ID
	}
	if f.Type == ItemActivity && f.Activity != nil {
		return f.Activity.ID
	}
	return ""
}

// PostResponse est la forme dénormalisée d'un post telle qu'affichée dans le
// feed : auteur résolu, compteur de likes, drapeau "liké par le lecteur" et
// commentaires éventuellement chargés.
type PostResponse struct {
	ID           string            `json:"id"`
	CreatedAt    time.Time         `json:"created_at"`
	UserID       string            `json:"user_id"`
	Username     string            `json:"username"`
	AvatarURL    string            `json:"avatar_url,omitempty"`
	Content      string            `json:"content"`
	MediaURL     string            `json:"media_url,omitempty"`
	PostType     string            `json:"post_type"`
	TrickTag     string            `json:"trick_tag,omitempty"`
	LikeCount    int64             `json:"like_count"`
	IsLiked      bool              `json:"is_liked"`
	CommentCount int64             `json:"comment_count"`
	Comments     []CommentResponse `json:"comments,omitempty"`

	// Pending marque un post inséré de façon optimiste, pas encore confirmé
	// par le serveur.
	Pending bool `json:"pending,omitempty"`
}
