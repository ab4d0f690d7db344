// Package export publishes list memberships as the ms_config XML document
// consumed by the mail-access-control collaborator.
package export

import (
	"context"
	"encoding/xml"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	apperrors "github.com/mailhoard/mailhoard/internal/errors"
	"github.com/mailhoard/mailhoard/internal/repository"
)

// ExportFilename is the membership export file written under the export dir
const ExportFilename = "email_lists.xml"

const sharedRootPrefix = "/var/isode/ms/shared"

// ListMembers is one entry of the membership snapshot: a list name and the
// usernames with read access. An empty member set means anyone may read.
type ListMembers struct {
	Name    string
	Members []string
}

type msConfig struct {
	XMLName xml.Name     `xml:"ms_config"`
	Roots   []sharedRoot `xml:"shared_root"`
}

type sharedRoot struct {
	Name   string       `xml:"name,attr"`
	Path   string       `xml:"path,attr"`
	Users  []accessRule `xml:"user"`
	Groups []accessRule `xml:"group"`
}

type accessRule struct {
	Name   string `xml:"name,attr"`
	Access string `xml:"access,attr"`
}

// Exporter produces the membership snapshot and writes the XML export
type Exporter struct {
	lists         repository.ListRepository
	exportDir     string
	notifyCommand string
	logger        *slog.Logger
}

// NewExporter creates a new Exporter. notifyCommand may be empty to skip
// the external notification step.
func NewExporter(lists repository.ListRepository, exportDir, notifyCommand string, logger *slog.Logger) *Exporter {
	return &Exporter{
		lists:         lists,
		exportDir:     exportDir,
		notifyCommand: notifyCommand,
		logger:        logger,
	}
}

// Snapshot returns {listName -> [usernames]} ordered by list name
func (e *Exporter) Snapshot(ctx context.Context) ([]ListMembers, error) {
	lists, err := e.lists.ListAllOrdered(ctx)
	if err != nil {
		return nil, err
	}
	snapshot := make([]ListMembers, 0, len(lists))
	for _, list := range lists {
		entry := ListMembers{Name: list.Name}
		for _, member := range list.Members {
			entry.Members = append(entry.Members, member.Username)
		}
		snapshot = append(snapshot, entry)
	}
	return snapshot, nil
}

// MarshalSnapshot serializes a snapshot as the ms_config document
func MarshalSnapshot(snapshot []ListMembers) ([]byte, error) {
	doc := msConfig{}
	for _, entry := range snapshot {
		root := sharedRoot{
			Name: entry.Name,
			Path: fmt.Sprintf("%s/%s", sharedRootPrefix, entry.Name),
		}
		if len(entry.Members) > 0 {
			root.Users = append(root.Users, accessRule{Name: "anonymous", Access: "none"})
			for _, member := range entry.Members {
				root.Users = append(root.Users, accessRule{Name: member, Access: "read,write"})
			}
		} else {
			root.Users = append(root.Users, accessRule{Name: "anonymous", Access: "read"})
			root.Groups = append(root.Groups, accessRule{Name: "anyone", Access: "read,write"})
		}
		doc.Roots = append(doc.Roots, root)
	}
	return xml.MarshalIndent(doc, "", "  ")
}

// Export writes the XML document to <exportDir>/email_lists.xml and invokes
// the notify command with the file path. The caller is expected to treat
// failures as non-fatal; they are logged here and returned for tests.
func (e *Exporter) Export(ctx context.Context) error {
	snapshot, err := e.Snapshot(ctx)
	if err != nil {
		e.logger.Error("error building membership snapshot", slog.String("error", err.Error()))
		return err
	}
	data, err := MarshalSnapshot(snapshot)
	if err != nil {
		e.logger.Error("error serializing membership export", slog.String("error", err.Error()))
		return err
	}

	if err := os.MkdirAll(e.exportDir, 0o755); err != nil {
		e.logger.Error("error creating export dir", slog.String("error", err.Error()))
		return fmt.Errorf("%w: creating %s: %v", apperrors.ErrFileIO, e.exportDir, err)
	}
	path := filepath.Join(e.exportDir, ExportFilename)
	if err := os.WriteFile(path, data, 0o666); err != nil {
		e.logger.Error("error creating export file", slog.String("error", err.Error()))
		return fmt.Errorf("%w: writing %s: %v", apperrors.ErrFileIO, path, err)
	}
	// the access-control collaborator runs under a different uid
	if err := os.Chmod(path, 0o666); err != nil {
		e.logger.Warn("could not chmod export file", slog.String("error", err.Error()))
	}

	if e.notifyCommand == "" {
		return nil
	}
	if err := exec.CommandContext(ctx, e.notifyCommand, path).Run(); err != nil {
		e.logger.Error("error calling external command",
			slog.String("command", e.notifyCommand),
			slog.String("error", err.Error()))
		return fmt.Errorf("%w: %s: %v", apperrors.ErrExternalCommand, e.notifyCommand, err)
	}
	return nil
}
