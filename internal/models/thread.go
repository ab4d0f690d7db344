package models

import (
	"time"
)

// Thread groups messages connected via resolved reply/reference links.
// First always points at the member with the earliest date, and Date mirrors
// that message's date. A thread whose last member was removed keeps its row
// but loses First; such orphans are excluded from queries.
type Thread struct {
	ID      uint      `gorm:"primaryKey" json:"id"`
	FirstID *uint     `gorm:"index" json:"first_id,omitempty"`
	Date    time.Time `gorm:"index" json:"date"`

	// Relationships
	First    *Message  `gorm:"foreignKey:FirstID" json:"-"`
	Messages []Message `gorm:"foreignKey:ThreadID" json:"-"`
}

// TableName returns the table name for Thread
func (Thread) TableName() string {
	return "threads"
}

// Established reports whether the thread has a first message set
func (t *Thread) Established() bool {
	return t.FirstID != nil
}
