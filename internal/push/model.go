package push

import "time"

// Subscription est un abonnement Web Push (endpoint + clés du navigateur).
// Un utilisateur peut en avoir plusieurs, un par appareil.
type Subscription struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	CreatedAt time.Time `json:"created_at"`
	UserID    string    `json:"user_id" gorm:"index"`
	Endpoint  string    `json:"endpoint" gorm:"uniqueIndex"`
	P256dh    string    `json:"p256dh"`
	Auth      string    `json:"auth"`
}

func (Subscription) TableName() string {
	return "push_subscriptions"
}
