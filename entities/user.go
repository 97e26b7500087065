package entities

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Email        string    `gorm:"type:varchar(254);uniqueIndex" json:"email"`
	Username     string    `gorm:"type:varchar(150);uniqueIndex" json:"username"`
	FirstName    string    `gorm:"type:varchar(150)" json:"first_name"`
	LastName     string    `gorm:"type:varchar(150)" json:"last_name"`
	PasswordHash string    `gorm:"type:varchar(255)" json:"-"`
	AvatarURL    string    `json:"avatar_url,omitempty"`
	Role         string    `gorm:"type:varchar(20);default:user" json:"role"`

	Recipes []*Recipe `gorm:"foreignKey:AuthorID" json:"recipes,omitempty"`
	Timestamp
}

// UserSubscription is a directed follow edge. The pair is unique and the
// database additionally carries a CHECK that subscriber_id <> target_user_id
// (added in the migration), so a self-follow can never be stored.
type UserSubscription struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	SubscriberID uuid.UUID `gorm:"uniqueIndex:idx_subscriber_target" json:"subscriber_id"`
	TargetUserID uuid.UUID `gorm:"uniqueIndex:idx_subscriber_target" json:"target_user_id"`
	CreatedAt    time.Time `gorm:"type:timestamp" json:"created_at"`

	Subscriber *User `gorm:"foreignKey:SubscriberID;constraint:OnDelete:CASCADE" json:"-"`
	TargetUser *User `gorm:"foreignKey:TargetUserID;constraint:OnDelete:CASCADE" json:"-"`
}
