package marketplace

import (
	"time"

	"github.com/LucasBertrand/SkateHub-Back/internal/user"
)

// ListingStatus définit le cycle de vie d'une annonce
type ListingStatus string

const (
	ListingActive  ListingStatus = "active"
	ListingSold    ListingStatus = "sold"
	ListingRemoved ListingStatus = "removed"
)

// Listing est une annonce de matériel (deck, trucks, protections...) vendue
// entre membres, le park prenant une commission via Stripe Connect.
type Listing struct {
	ID          string        `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	CreatedAt   time.Time     `json:"created_at"`
	SellerID    string        `json:"seller_id" gorm:"index"`
	Seller      user.User     `json:"-" gorm:"foreignKey:SellerID"`
	ParkID      string        `json:"park_id" gorm:"index"`
	Title       string        `json:"title"`
	Description string        `json:"description" gorm:"type:text"`
	PriceCents  int64         `json:"price_cents"`
	PhotoURL    string        `json:"photo_url,omitempty"`
	Status      ListingStatus `json:"status" gorm:"default:'active';index"`
}

func (Listing) TableName() string {
	return "listings"
}

// TransactionStatus : pending → completed | cancelled, terminal ensuite.
type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "pending"
	TransactionCompleted TransactionStatus = "completed"
	TransactionCancelled TransactionStatus = "cancelled"
)

// Transaction trace un achat marketplace. Créée PENDING au départ en
// checkout, résolue par le webhook Stripe (complétion ou expiration de la
// session).
type Transaction struct {
	ID              string            `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
	ListingID       string            `json:"listing_id" gorm:"index"`
	Listing         Listing           `json:"-" gorm:"foreignKey:ListingID"`
	BuyerID         string            `json:"buyer_id" gorm:"index"`
	AmountCents     int64             `json:"amount_cents"`
	Status          TransactionStatus `json:"status" gorm:"default:'pending';index"`
	StripeSessionID string            `json:"-" gorm:"uniqueIndex"`
}

func (Transaction) TableName() string {
	return "transactions"
}
