package domain

import (
	"time"

	"github.com/google/uuid"
)

// Merchant owns orders, payments and refunds, and receives signed webhook
// notifications at WebhookURL. A merchant with no WebhookURL configured gets
// no deliveries.
type Merchant struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name          string    `json:"name" gorm:"size:255;not null;uniqueIndex"`
	Email         string    `json:"email" gorm:"size:255;not null;uniqueIndex"`
	APIKey        string    `json:"api_key" gorm:"column:api_key;size:64;not null;uniqueIndex"`
	APISecret     string    `json:"-" gorm:"column:api_secret;size:64;not null"`
	WebhookURL    string    `json:"webhook_url" gorm:"column:webhook_url;size:255"`
	WebhookSecret string    `json:"-" gorm:"column:webhook_secret;size:64"`
	IsActive      bool      `json:"is_active" gorm:"column:is_active;not null;default:true"`
	CreatedAt     time.Time `json:"created_at" gorm:"not null"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Merchant) TableName() string { return "merchants" }
