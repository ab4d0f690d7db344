package services

import (
	"context"
	"log/slog"

	apperrors "github.com/mailhoard/mailhoard/internal/errors"
	"github.com/mailhoard/mailhoard/internal/models"
	"github.com/mailhoard/mailhoard/internal/repository"
)

// MembershipExporter publishes the list-membership snapshot for the
// mail-access-control collaborator
type MembershipExporter interface {
	Export(ctx context.Context) error
}

// ListAdmin administers email lists. Cache invalidation and the membership
// export are explicit post-commit steps here, not hidden listeners: the
// cache entry is dropped before any mutator returns, and export failures
// are logged but never fail the triggering save.
type ListAdmin struct {
	lists    repository.ListRepository
	cache    *ListCache
	exporter MembershipExporter
	logger   *slog.Logger
}

// NewListAdmin creates a new ListAdmin. exporter may be nil when the
// membership export is not configured.
func NewListAdmin(lists repository.ListRepository, cache *ListCache, exporter MembershipExporter, logger *slog.Logger) *ListAdmin {
	return &ListAdmin{
		lists:    lists,
		cache:    cache,
		exporter: exporter,
		logger:   logger,
	}
}

// Create creates an email list
func (s *ListAdmin) Create(ctx context.Context, list *models.EmailList) error {
	if list.Name == "" {
		return apperrors.ErrInvalidInput
	}
	if err := s.lists.Create(ctx, list); err != nil {
		return err
	}
	s.cache.Invalidate(list.Name)
	s.export(ctx)
	return nil
}

// Update saves changes to an email list
func (s *ListAdmin) Update(ctx context.Context, list *models.EmailList) error {
	if err := s.lists.Update(ctx, list); err != nil {
		return err
	}
	s.cache.Invalidate(list.Name)
	s.export(ctx)
	return nil
}

// Delete removes an email list
func (s *ListAdmin) Delete(ctx context.Context, list *models.EmailList) error {
	if err := s.lists.Delete(ctx, list.ID); err != nil {
		return err
	}
	s.cache.Invalidate(list.Name)
	s.export(ctx)
	return nil
}

// Lookup returns list metadata, served from the cache when warm
func (s *ListAdmin) Lookup(ctx context.Context, name string) (ListInfo, error) {
	if info, ok := s.cache.Get(name); ok {
		return info, nil
	}
	list, err := s.lists.GetByName(ctx, name)
	if err != nil {
		return ListInfo{}, err
	}
	info := ListInfo{ID: list.ID, Name: list.Name, Active: list.Active, Private: list.Private}
	s.cache.Put(info)
	return info, nil
}

// export publishes the membership snapshot best-effort
func (s *ListAdmin) export(ctx context.Context) {
	if s.exporter == nil {
		return
	}
	if err := s.exporter.Export(ctx); err != nil {
		s.logger.Error("membership export failed", slog.String("error", err.Error()))
	}
}
