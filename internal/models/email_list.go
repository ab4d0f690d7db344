package models

import (
	"path/filepath"
	"time"
)

// Subdirectory names under a list's archive directory
const (
	AttachmentsSubdir = "_attachments"
	FailedSubdir      = "_failed"
	RemovedSubdir     = "_removed"
)

// EmailList represents a mailing list whose messages are archived
type EmailList struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null;size:255" json:"name"`
	Active      bool      `gorm:"default:true;index" json:"active"`
	Private     bool      `gorm:"default:false;index" json:"private"`
	Alias       string    `gorm:"size:255" json:"alias,omitempty"`
	Description string    `gorm:"size:255" json:"description,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Members  []User    `gorm:"many2many:email_list_members" json:"-"`
	Messages []Message `gorm:"foreignKey:EmailListID" json:"-"`
}

// TableName returns the table name for EmailList
func (EmailList) TableName() string {
	return "email_lists"
}

// ArchiveDir returns the list's message directory under the archive root
func (l *EmailList) ArchiveDir(root string) string {
	return filepath.Join(root, l.Name)
}

// AttachmentsDir returns the list's attachment directory
func (l *EmailList) AttachmentsDir(root string) string {
	return filepath.Join(root, l.Name, AttachmentsSubdir)
}

// FailedDir returns the directory for messages that failed to archive
func (l *EmailList) FailedDir(root string) string {
	return filepath.Join(root, l.Name, FailedSubdir)
}

// RemovedDir returns the directory message files are relocated to on removal
func (l *EmailList) RemovedDir(root string) string {
	return filepath.Join(root, l.Name, RemovedSubdir)
}
