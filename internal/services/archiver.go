package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/mailhoard/mailhoard/internal/errors"
	"github.com/mailhoard/mailhoard/internal/ingest"
	"github.com/mailhoard/mailhoard/internal/models"
	"github.com/mailhoard/mailhoard/internal/repository"
	"github.com/mailhoard/mailhoard/internal/storage"
)

var subjectPrefixPattern = regexp.MustCompile(`(?i)^\s*(re|fw|fwd)\s*:\s*`)

// Archiver orchestrates the archival lifecycle: message creation, removal
// and spam marking
type Archiver struct {
	lists    repository.ListRepository
	messages repository.MessageRepository
	threads  repository.ThreadRepository
	store    storage.Store
	index    *ThreadIndex
	logger   *slog.Logger
}

// NewArchiver creates a new Archiver
func NewArchiver(lists repository.ListRepository, messages repository.MessageRepository,
	threads repository.ThreadRepository, store storage.Store, index *ThreadIndex,
	logger *slog.Logger) *Archiver {
	return &Archiver{
		lists:    lists,
		messages: messages,
		threads:  threads,
		store:    store,
		index:    index,
		logger:   logger,
	}
}

// Archive stores a raw inbound message for the named list and attaches it to
// its thread. Re-archiving byte-identical content for the same list is an
// idempotent success returning the existing message.
func (a *Archiver) Archive(ctx context.Context, raw []byte, listName string, private bool) (*models.Message, error) {
	hash := storage.Hash(raw)

	list, err := a.lists.GetByName(ctx, listName)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrUnknownList, listName)
		}
		return nil, err
	}
	if list.Private != private {
		a.logger.Warn("visibility flag does not match stored list privacy",
			slog.String("list", listName),
			slog.Bool("flag_private", private),
			slog.Bool("list_private", list.Private))
	}

	if existing, err := a.messages.GetByHash(ctx, list.ID, hash); err == nil {
		a.logger.Info("duplicate content, returning existing message",
			slog.String("list", listName), slog.String("hashcode", hash))
		return existing, nil
	} else if !apperrors.IsNotFound(err) {
		return nil, err
	}

	parsed, err := ingest.Parse(raw, time.Now().UTC())
	if err != nil {
		if _, ferr := a.store.WriteFailed(listName, hash, raw); ferr != nil {
			a.logger.Error("could not save unparseable message", slog.String("error", ferr.Error()))
		}
		return nil, fmt.Errorf("message parse failed: %w", err)
	}
	for _, defect := range parsed.Defects {
		a.logger.Warn("MIME defect", slog.String("list", listName),
			slog.String("hashcode", hash), slog.String("defect", defect))
	}

	msgid := parsed.MsgID
	if msgid == "" {
		msgid = fmt.Sprintf("%s@%s.archive", uuid.New().String(), listName)
		a.logger.Warn("message has no Message-ID, generated one",
			slog.String("list", listName), slog.String("msgid", msgid))
	}

	parent, err := a.index.ResolveParent(ctx, parsed.InReplyToValue, parsed.ReferencesValue, list.ID)
	if err != nil {
		return nil, err
	}

	var thread *models.Thread
	var parentID *uint
	depth := 0
	if parent != nil {
		thread, err = a.threads.GetByID(ctx, parent.ThreadID)
		if err != nil {
			return nil, err
		}
		id := parent.ID
		parentID = &id
		depth = parent.ThreadDepth + 1
	} else {
		thread = &models.Thread{Date: parsed.Date}
		if err := a.threads.Create(ctx, thread); err != nil {
			return nil, err
		}
	}

	if _, err := a.store.Write(list.Name, hash, raw); err != nil {
		return nil, err
	}

	message := &models.Message{
		EmailListID:    list.ID,
		ThreadID:       thread.ID,
		InReplyToID:    parentID,
		BaseSubject:    baseSubject(parsed.Subject),
		CC:             parsed.CC,
		Date:           parsed.Date,
		Frm:            parsed.From,
		FromLine:       parsed.FromLine,
		Hashcode:       hash,
		InReplyToValue: parsed.InReplyToValue,
		MsgID:          msgid,
		References:     parsed.ReferencesValue,
		Subject:        parsed.Subject,
		ThreadDepth:    depth,
		To:             parsed.To,
	}

	attachments := a.writeAttachments(list.Name, parsed.Attachments)

	if err := a.messages.CreateWithAttachments(ctx, message, attachments); err != nil {
		// a concurrent archive of the same content got there first; its
		// record shares the content-addressed file, so leave it in place
		if errors.Is(err, apperrors.ErrDuplicateEntry) {
			existing, gerr := a.messages.GetByHash(ctx, list.ID, hash)
			if gerr != nil {
				return nil, gerr
			}
			a.logger.Info("duplicate content raced, returning existing message",
				slog.String("list", listName), slog.String("hashcode", hash))
			return existing, nil
		}
		// compensate the file write so a retry starts clean
		if rerr := a.store.Remove(list.Name, hash); rerr != nil {
			a.logger.Error("could not remove file after failed record write",
				slog.String("error", rerr.Error()))
		}
		return nil, err
	}

	if err := a.index.Attach(ctx, thread, message); err != nil {
		return nil, err
	}

	a.logger.Info("message archived",
		slog.String("list", listName),
		slog.String("msgid", msgid),
		slog.String("hashcode", hash),
		slog.Uint64("thread_id", uint64(thread.ID)))
	return message, nil
}

// writeAttachments stores extracted attachment content under the list's
// _attachments directory. Write failures are recorded on the attachment
// record, never fatal to the archive operation.
func (a *Archiver) writeAttachments(listName string, parsed []ingest.ParsedAttachment) []models.Attachment {
	attachments := make([]models.Attachment, 0, len(parsed))
	for _, att := range parsed {
		record := models.Attachment{
			Name:        att.Filename,
			ContentType: att.ContentType,
			Error:       att.Error,
		}
		filename := filepath.Base(att.Filename)
		if filename == "" || filename == "." || filename == string(filepath.Separator) {
			filename = uuid.New().String()
		}
		record.Filename = filename
		if record.Error == "" {
			if _, err := a.store.WriteAttachment(listName, filename, att.Content); err != nil {
				record.Error = err.Error()
				a.logger.Warn("attachment write failed",
					slog.String("list", listName), slog.String("filename", filename))
			}
		}
		attachments = append(attachments, record)
	}
	return attachments
}

// Remove relocates a message's backing file to the list's _removed
// directory, repairs the thread index and deletes the record. An absent
// backing file is skipped so the operation stays retryable.
func (a *Archiver) Remove(ctx context.Context, message *models.Message) error {
	list, err := a.lists.GetByID(ctx, message.EmailListID)
	if err != nil {
		return err
	}

	err = a.store.Relocate(list.Name, message.Hashcode, models.RemovedSubdir)
	switch {
	case err == nil:
		a.logger.Info("message file moved",
			slog.String("list", list.Name),
			slog.String("hashcode", message.Hashcode),
			slog.String("target", models.RemovedSubdir))
	case apperrors.IsMissingFile(err):
		a.logger.Info("message file already absent, skipping relocation",
			slog.String("list", list.Name), slog.String("hashcode", message.Hashcode))
	default:
		return err
	}

	// attachment files stay under _attachments; only the record rows go
	if err := a.index.Detach(ctx, message); err != nil {
		return err
	}
	return a.messages.Delete(ctx, message.ID)
}

// Mark sets a flag bit on the message's spam score and persists it
func (a *Archiver) Mark(ctx context.Context, message *models.Message, bit int) error {
	message.SpamScore |= bit
	return a.messages.UpdateSpamScore(ctx, message.ID, message.SpamScore)
}

// RawBody returns the raw contents of the message file. A missing file is
// logged and replaced with a diagnostic placeholder rather than failing.
func (a *Archiver) RawBody(ctx context.Context, message *models.Message) string {
	list, err := a.lists.GetByID(ctx, message.EmailListID)
	if err != nil {
		return fmt.Sprintf("Error reading message file: %s", message.Hashcode)
	}
	data, err := a.store.Read(list.Name, message.Hashcode)
	if err != nil {
		path := a.store.MessagePath(list.Name, message.Hashcode)
		a.logger.Warn("error reading message file", slog.String("path", path))
		return fmt.Sprintf("Error reading message file: %s", path)
	}
	return string(data)
}

// baseSubject strips reply/forward prefixes for subject grouping
func baseSubject(subject string) string {
	s := strings.TrimSpace(subject)
	for {
		stripped := subjectPrefixPattern.ReplaceAllString(s, "")
		if stripped == s {
			return s
		}
		s = stripped
	}
}
