package park

import "time"

// Park représente un skatepark géré sur la plateforme. Toutes les entités
// rattachées à un lieu (passes, événements, annonces, listings) portent un
// park_id.
type Park struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	CreatedAt time.Time `json:"created_at"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug" gorm:"uniqueIndex"`
	City      string    `json:"city"`
	Timezone  string    `json:"timezone" gorm:"default:'Europe/Paris'"`
	IsActive  bool      `json:"is_active" gorm:"default:true"`
}

func (Park) TableName() string {
	return "parks"
}
