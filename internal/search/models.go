package search

import (
	"time"

	"go-board/internal/device"
	"go-board/internal/user"
)

// SearchValue is a canonical query. ReferenceCount holds the result count of
// the most recent execution of that query.
type SearchValue struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Value          string    `gorm:"uniqueIndex;size:255;not null" json:"value"`
	ReferenceCount int       `gorm:"not null" json:"reference_count"`
	CreatedDate    time.Time `json:"created_date"`
}

// Search is one history event. A nil UserID means the event is anonymous,
// either because nobody was signed in or because the owner removed it from
// their history.
type Search struct {
	ID            uint          `gorm:"primaryKey" json:"pk"`
	UserID        *uint         `gorm:"index" json:"-"`
	User          *user.User    `gorm:"constraint:OnDelete:SET NULL;" json:"-"`
	DeviceID      uint          `gorm:"index;not null" json:"-"`
	Device        device.Device `json:"-"`
	SearchValueID uint          `gorm:"index;not null" json:"-"`
	SearchValue   SearchValue   `json:"-"`
	CreatedDate   time.Time     `gorm:"index" json:"created_date"`
}
