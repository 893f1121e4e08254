package models

import (
	"time"

	"github.com/google/uuid"
)

type LoginTracking struct {
	Base
	UserID    uuid.UUID `json:"userId" gorm:"type:uuid;index;not null"`
	IPAddress string    `json:"ipAddress"`
	Device    string    `json:"device"`
	Timestamp time.Time `json:"timestamp"`
}
