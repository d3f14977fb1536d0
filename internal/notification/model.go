package notification

import "time"

// NotificationType est l'union fermée des notifications in-app (la cloche).
type NotificationType string

const (
	TypeLike         NotificationType = "like"
	TypeComment      NotificationType = "comment"
	TypePassIssued   NotificationType = "pass_issued"
	TypeListingSold  NotificationType = "listing_sold"
	TypeAnnouncement NotificationType = "announcement"
	TypeEvent        NotificationType = "event"
)

type Notification struct {
	ID          string           `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	CreatedAt   time.Time        `json:"created_at"`
	Type        NotificationType `json:"type" gorm:"index"`
	ActorID     string           `json:"actor_id,omitempty"`
	RecipientID string           `json:"recipient_id" gorm:"index"`
	TargetID    string           `json:"target_id,omitempty"`
	TargetType  string           `json:"target_type,omitempty"` // "post", "pass", "listing", "event", "announcement"
	Message     string           `json:"message"`
	IsRead      bool             `json:"is_read" gorm:"default:false;index"`
}

func (Notification) TableName() string {
	return "notifications"
}
