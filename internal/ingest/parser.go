// Package ingest parses inbound raw messages into the fields the archive
// records, using enmime for MIME decoding.
package ingest

import (
	"bytes"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/jhillyerd/enmime"

	"github.com/mailhoard/mailhoard/internal/reference"
)

// ParsedMessage holds the header fields and attachments extracted from an
// inbound raw message
type ParsedMessage struct {
	MsgID           string
	Date            time.Time
	From            string
	FromLine        string // captured mbox envelope line, without the "From " prefix
	Subject         string
	To              string
	CC              string
	InReplyToValue  string
	ReferencesValue string
	Attachments     []ParsedAttachment
	Defects         []string // non-fatal MIME problems reported by the decoder
}

// ParsedAttachment is a single extracted attachment part
type ParsedAttachment struct {
	Filename    string
	ContentType string
	Content     []byte
	Error       string
}

// Parse decodes a raw message. A leading mbox "From " envelope line is
// captured and stripped before MIME parsing. When the Date header is absent
// or unparseable, fallback is used so every archived message carries a date.
func Parse(raw []byte, fallback time.Time) (*ParsedMessage, error) {
	fromLine, body := splitEnvelopeLine(raw)

	env, err := enmime.ReadEnvelope(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse message: %w", err)
	}

	parsed := &ParsedMessage{
		From:            env.GetHeader("From"),
		FromLine:        fromLine,
		Subject:         env.GetHeader("Subject"),
		To:              env.GetHeader("To"),
		CC:              env.GetHeader("Cc"),
		InReplyToValue:  env.GetHeader("In-Reply-To"),
		ReferencesValue: env.GetHeader("References"),
	}

	// Message-ID normalized to the bare identifier
	if ids := reference.ParseMessageIDs(env.GetHeader("Message-ID")); len(ids) > 0 {
		parsed.MsgID = ids[0]
	}

	parsed.Date = parseDate(env.GetHeader("Date"), fallback)

	for _, e := range env.Errors {
		parsed.Defects = append(parsed.Defects, e.Error())
	}

	parsed.Attachments = collectAttachments(env)
	return parsed, nil
}

// splitEnvelopeLine detaches a leading mbox "From " line, if present
func splitEnvelopeLine(raw []byte) (string, []byte) {
	if !bytes.HasPrefix(raw, []byte("From ")) {
		return "", raw
	}
	idx := bytes.IndexByte(raw, '\n')
	if idx < 0 {
		return "", raw
	}
	line := strings.TrimRight(string(raw[len("From "):idx]), "\r")
	return line, raw[idx+1:]
}

// parseDate parses an RFC 5322 date, falling back to the archive time
func parseDate(value string, fallback time.Time) time.Time {
	if value == "" {
		return fallback
	}
	t, err := mail.ParseDate(value)
	if err != nil {
		return fallback
	}
	return t.UTC()
}

// collectAttachments gathers proper attachments plus named inline parts,
// recording per-part extraction problems without failing the parse
func collectAttachments(env *enmime.Envelope) []ParsedAttachment {
	var out []ParsedAttachment
	add := func(part *enmime.Part) {
		att := ParsedAttachment{
			Filename:    part.FileName,
			ContentType: part.ContentType,
			Content:     part.Content,
		}
		if len(part.Content) == 0 {
			att.Error = "empty attachment content"
		}
		out = append(out, att)
	}
	for _, part := range env.Attachments {
		add(part)
	}
	for _, part := range env.Inlines {
		if part.FileName != "" {
			add(part)
		}
	}
	return out
}
