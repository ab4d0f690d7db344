package models

import "path/filepath"

// Attachment represents a file extracted from an archived message. The
// content lives under the list's _attachments directory; Error carries a
// non-fatal extraction failure marker.
type Attachment struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	MessageID   uint   `gorm:"not null;index" json:"message_id"`
	Name        string `gorm:"size:255" json:"name"`
	Filename    string `gorm:"size:255" json:"filename"`
	ContentType string `gorm:"size:100" json:"content_type,omitempty"`
	Description string `gorm:"size:255" json:"description,omitempty"`
	Error       string `gorm:"size:255" json:"error,omitempty"`

	// Relationships
	Message Message `gorm:"foreignKey:MessageID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName returns the table name for Attachment
func (Attachment) TableName() string {
	return "attachments"
}

// FilePath returns the attachment's path under the list's attachment dir
func (a *Attachment) FilePath(root, listName string) string {
	return filepath.Join(root, listName, AttachmentsSubdir, a.Filename)
}
