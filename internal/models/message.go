package models

import (
	"fmt"
	"net/mail"
	"path/filepath"
	"strings"
	"time"
)

// Spam score flag bits. The field is an open bit-field, not an enum, so
// orthogonal markers can coexist; any non-zero score means suspect.
const (
	FlagSpamSuspect = 1 << iota
	FlagQuarantined
	FlagImportError
)

// mbox envelope date layout ("%a %b %d %H:%M:%S %Y")
const fromLineDateLayout = "Mon Jan 02 15:04:05 2006"

// Message represents an archived email message. The raw bytes live on disk
// at <archive root>/<list name>/<hashcode>; this record carries the parsed
// metadata and the message's position in its thread.
type Message struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	EmailListID    uint       `gorm:"not null;index;uniqueIndex:idx_messages_list_hashcode" json:"email_list_id"`
	ThreadID       uint       `gorm:"not null;index" json:"thread_id"`
	InReplyToID    *uint      `gorm:"index" json:"in_reply_to_id,omitempty"`
	BaseSubject    string     `gorm:"size:512" json:"base_subject,omitempty"`
	CC             string     `gorm:"column:cc" json:"cc,omitempty"`
	Date           time.Time  `gorm:"index" json:"date"`
	Frm            string     `gorm:"size:255" json:"frm,omitempty"`
	FromLine       string     `gorm:"size:255" json:"from_line,omitempty"`
	Hashcode       string     `gorm:"size:28;uniqueIndex:idx_messages_list_hashcode" json:"hashcode"`
	InReplyToValue string     `json:"in_reply_to_value,omitempty"`
	LegacyNumber   *int       `gorm:"index" json:"legacy_number,omitempty"`
	MsgID          string     `gorm:"size:255;index" json:"msgid"`
	References     string     `json:"references,omitempty"`
	SpamScore      int        `gorm:"default:0" json:"spam_score"`
	Subject        string     `gorm:"size:512" json:"subject,omitempty"`
	ThreadDepth    int        `gorm:"default:0" json:"thread_depth"`
	ThreadOrder    int        `gorm:"default:0" json:"thread_order"`
	To             string     `json:"to,omitempty"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	EmailList   EmailList    `gorm:"foreignKey:EmailListID" json:"-"`
	Thread      Thread       `gorm:"foreignKey:ThreadID" json:"-"`
	InReplyTo   *Message     `gorm:"foreignKey:InReplyToID" json:"-"`
	Attachments []Attachment `gorm:"foreignKey:MessageID" json:"attachments,omitempty"`
}

// TableName returns the table name for Message
func (Message) TableName() string {
	return "messages"
}

// FilePath returns the path of the message's backing file
func (m *Message) FilePath(root, listName string) string {
	return filepath.Join(root, listName, m.Hashcode)
}

// FromEmail returns the lowercased email portion of the From header,
// with the realname stripped
func (m *Message) FromEmail() string {
	addr, err := mail.ParseAddress(m.Frm)
	if err != nil {
		return ""
	}
	return strings.ToLower(addr.Address)
}

// FromRealname returns the realname portion of the From header, falling
// back to the email address when no realname is present
func (m *Message) FromRealname() string {
	addr, err := mail.ParseAddress(m.Frm)
	if err != nil {
		return ""
	}
	if addr.Name != "" {
		return addr.Name
	}
	return strings.ToLower(addr.Address)
}

// GetFromLine reconstructs the mbox "From " envelope line. The originally
// captured line wins; otherwise one is built from the sender email and date,
// or "(none)" when no sender email is known.
func (m *Message) GetFromLine() string {
	if m.FromLine != "" {
		return fmt.Sprintf("From %s", m.FromLine)
	}
	if email := m.FromEmail(); email != "" {
		return fmt.Sprintf("From %s %s", email, m.Date.Format(fromLineDateLayout))
	}
	return fmt.Sprintf("From (none) %s", m.Date.Format(fromLineDateLayout))
}

// ToAndCC returns the To and CC headers combined, for indexing
func (m *Message) ToAndCC() string {
	if m.CC != "" {
		return m.To + " " + m.CC
	}
	return m.To
}

// Marked reports whether the given flag bit is set on the spam score
func (m *Message) Marked(bit int) bool {
	return m.SpamScore&bit != 0
}
