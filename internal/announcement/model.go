package announcement

import (
	"time"
)

// Announcement est une annonce officielle du park (fermeture météo, travaux,
// nouveaux horaires...). Les annonces épinglées restent en tête de liste.
type Announcement struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	ParkID    string    `json:"park_id" gorm:"index"`
	AuthorID  string    `json:"author_id"`
	Title     string    `json:"title"`
	Body      string    `json:"body" gorm:"type:text"`
	Pinned    bool      `json:"pinned" gorm:"default:false"`
}

func (Announcement) TableName() string {
	return "announcements"
}
