package domain

import "time"

// PushSubscription is one browser push endpoint registered by a user so they
// hear about decisions on their reservations without keeping a tab open.
type PushSubscription struct {
	Endpoint  string    `json:"endpoint" gorm:"primaryKey"`
	UserID    int64     `json:"user_id" gorm:"index"`
	P256DH    string    `json:"p256dh"`
	Auth      string    `json:"auth"`
	CreatedAt time.Time `json:"created_at"`
}
