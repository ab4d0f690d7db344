package fixtures

import (
	"fmt"
	"time"

	"github.com/mailhoard/mailhoard/internal/models"
)

// ListBuilder creates test EmailList instances with fluent API
type ListBuilder struct {
	list models.EmailList
}

// NewListBuilder creates a new ListBuilder with sensible defaults
func NewListBuilder() *ListBuilder {
	now := time.Now()
	return &ListBuilder{
		list: models.EmailList{
			ID:        1,
			Name:      "eng",
			Active:    true,
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}

// WithID sets the list ID
func (b *ListBuilder) WithID(id uint) *ListBuilder {
	b.list.ID = id
	return b
}

// WithName sets the list name
func (b *ListBuilder) WithName(name string) *ListBuilder {
	b.list.Name = name
	return b
}

// WithActive sets the list active status
func (b *ListBuilder) WithActive(active bool) *ListBuilder {
	b.list.Active = active
	return b
}

// WithPrivate sets the list privacy flag
func (b *ListBuilder) WithPrivate(private bool) *ListBuilder {
	b.list.Private = private
	return b
}

// WithMembers sets the list members
func (b *ListBuilder) WithMembers(members ...models.User) *ListBuilder {
	b.list.Members = members
	return b
}

// Build returns the constructed EmailList
func (b *ListBuilder) Build() *models.EmailList {
	return &b.list
}

// BuildValue returns the constructed EmailList as a value (not pointer)
func (b *ListBuilder) BuildValue() models.EmailList {
	return b.list
}

// MessageBuilder creates test Message instances with fluent API
type MessageBuilder struct {
	message models.Message
}

// NewMessageBuilder creates a new MessageBuilder with sensible defaults
func NewMessageBuilder() *MessageBuilder {
	date := time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)
	return &MessageBuilder{
		message: models.Message{
			ID:          1,
			EmailListID: 1,
			ThreadID:    1,
			Date:        date,
			Frm:         "Alice <alice@example.com>",
			MsgID:       "m1@example.com",
			Hashcode:    "hash-m1",
			Subject:     "Test Subject",
			BaseSubject: "Test Subject",
			To:          "eng@example.com",
		},
	}
}

// WithID sets the message ID
func (b *MessageBuilder) WithID(id uint) *MessageBuilder {
	b.message.ID = id
	return b
}

// WithListID sets the email list ID
func (b *MessageBuilder) WithListID(listID uint) *MessageBuilder {
	b.message.EmailListID = listID
	return b
}

// WithThreadID sets the thread ID
func (b *MessageBuilder) WithThreadID(threadID uint) *MessageBuilder {
	b.message.ThreadID = threadID
	return b
}

// WithMsgID sets the message-id
func (b *MessageBuilder) WithMsgID(msgid string) *MessageBuilder {
	b.message.MsgID = msgid
	return b
}

// WithHashcode sets the content hash
func (b *MessageBuilder) WithHashcode(hash string) *MessageBuilder {
	b.message.Hashcode = hash
	return b
}

// WithDate sets the message date
func (b *MessageBuilder) WithDate(t time.Time) *MessageBuilder {
	b.message.Date = t
	return b
}

// WithSubject sets the subject and its prefix-stripped form
func (b *MessageBuilder) WithSubject(subject, base string) *MessageBuilder {
	b.message.Subject = subject
	b.message.BaseSubject = base
	return b
}

// WithFrom sets the From header value
func (b *MessageBuilder) WithFrom(frm string) *MessageBuilder {
	b.message.Frm = frm
	return b
}

// WithInReplyTo sets the reply parent
func (b *MessageBuilder) WithInReplyTo(parentID uint, value string) *MessageBuilder {
	b.message.InReplyToID = &parentID
	b.message.InReplyToValue = value
	return b
}

// WithThreadPosition sets the traversal order and depth
func (b *MessageBuilder) WithThreadPosition(order, depth int) *MessageBuilder {
	b.message.ThreadOrder = order
	b.message.ThreadDepth = depth
	return b
}

// WithSpamScore sets the spam flag bit-field
func (b *MessageBuilder) WithSpamScore(score int) *MessageBuilder {
	b.message.SpamScore = score
	return b
}

// Build returns the constructed Message
func (b *MessageBuilder) Build() *models.Message {
	return &b.message
}

// BuildValue returns the constructed Message as a value (not pointer)
func (b *MessageBuilder) BuildValue() models.Message {
	return b.message
}

// ThreadBuilder creates test Thread instances with fluent API
type ThreadBuilder struct {
	thread models.Thread
}

// NewThreadBuilder creates a new ThreadBuilder with sensible defaults
func NewThreadBuilder() *ThreadBuilder {
	return &ThreadBuilder{
		thread: models.Thread{
			ID:   1,
			Date: time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC),
		},
	}
}

// WithID sets the thread ID
func (b *ThreadBuilder) WithID(id uint) *ThreadBuilder {
	b.thread.ID = id
	return b
}

// WithFirst sets the thread's first message and mirrored date
func (b *ThreadBuilder) WithFirst(messageID uint, date time.Time) *ThreadBuilder {
	b.thread.FirstID = &messageID
	b.thread.Date = date
	return b
}

// Build returns the constructed Thread
func (b *ThreadBuilder) Build() *models.Thread {
	return &b.thread
}

// AttachmentBuilder creates test Attachment instances with fluent API
type AttachmentBuilder struct {
	attachment models.Attachment
}

// NewAttachmentBuilder creates a new AttachmentBuilder with sensible defaults
func NewAttachmentBuilder() *AttachmentBuilder {
	return &AttachmentBuilder{
		attachment: models.Attachment{
			ID:          1,
			MessageID:   1,
			Name:        "document.pdf",
			Filename:    "document.pdf",
			ContentType: "application/pdf",
		},
	}
}

// WithID sets the attachment ID
func (b *AttachmentBuilder) WithID(id uint) *AttachmentBuilder {
	b.attachment.ID = id
	return b
}

// WithMessageID sets the owning message ID
func (b *AttachmentBuilder) WithMessageID(messageID uint) *AttachmentBuilder {
	b.attachment.MessageID = messageID
	return b
}

// WithFilename sets the original and sanitized filenames
func (b *AttachmentBuilder) WithFilename(filename string) *AttachmentBuilder {
	b.attachment.Name = filename
	b.attachment.Filename = filename
	return b
}

// WithContentType sets the content type
func (b *AttachmentBuilder) WithContentType(contentType string) *AttachmentBuilder {
	b.attachment.ContentType = contentType
	return b
}

// WithError sets the extraction error
func (b *AttachmentBuilder) WithError(message string) *AttachmentBuilder {
	b.attachment.Error = message
	return b
}

// Build returns the constructed Attachment
func (b *AttachmentBuilder) Build() *models.Attachment {
	return &b.attachment
}

// BuildValue returns the constructed Attachment as a value (not pointer)
func (b *AttachmentBuilder) BuildValue() models.Attachment {
	return b.attachment
}

// CreateMessages creates a slice of messages for a list and thread, one
// minute apart, with sequential IDs
func CreateMessages(listID, threadID uint, count int) []models.Message {
	base := time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)
	messages := make([]models.Message, count)
	for i := 0; i < count; i++ {
		msgid := fmt.Sprintf("m%d@example.com", i+1)
		messages[i] = NewMessageBuilder().
			WithID(uint(i + 1)).
			WithListID(listID).
			WithThreadID(threadID).
			WithMsgID(msgid).
			WithHashcode("hash-" + msgid).
			WithDate(base.Add(time.Duration(i) * time.Minute)).
			WithThreadPosition(i, 0).
			BuildValue()
	}
	return messages
}
