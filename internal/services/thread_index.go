package services

import (
	"context"
	"log/slog"
	"sync"

	apperrors "github.com/mailhoard/mailhoard/internal/errors"
	"github.com/mailhoard/mailhoard/internal/models"
	"github.com/mailhoard/mailhoard/internal/reference"
	"github.com/mailhoard/mailhoard/internal/repository"
)

// ThreadIndex maintains the per-thread first/date invariant and the
// depth-first traversal order of thread members. Attach and detach on the
// same thread are serialized by a per-thread lock; distinct threads proceed
// in parallel.
type ThreadIndex struct {
	threads  repository.ThreadRepository
	messages repository.MessageRepository
	logger   *slog.Logger

	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

// NewThreadIndex creates a new ThreadIndex
func NewThreadIndex(threads repository.ThreadRepository, messages repository.MessageRepository, logger *slog.Logger) *ThreadIndex {
	return &ThreadIndex{
		threads:  threads,
		messages: messages,
		logger:   logger,
		locks:    make(map[uint]*sync.Mutex),
	}
}

// threadLock returns the mutex serializing mutations of one thread
func (t *ThreadIndex) threadLock(threadID uint) *sync.Mutex {
	t.mu.Lock()
	defer t.mu.Unlock()
	lock, ok := t.locks[threadID]
	if !ok {
		lock = &sync.Mutex{}
		t.locks[threadID] = lock
	}
	return lock
}

// ResolveParent resolves the reply parent of a message from its In-Reply-To
// and References header values: the first In-Reply-To identifier wins, then
// the first resolvable References identifier, each preferring a match in the
// given list. Returns (nil, nil) when nothing resolves.
func (t *ThreadIndex) ResolveParent(ctx context.Context, inReplyTo, references string, listID uint) (*models.Message, error) {
	if ids := reference.ParseMessageIDs(inReplyTo); len(ids) > 0 {
		parent, err := t.messages.GetByMsgIDPreferList(ctx, ids[0], listID)
		if err == nil {
			return parent, nil
		}
		if !apperrors.IsNotFound(err) {
			return nil, err
		}
	}
	for _, id := range reference.ParseReferences(references) {
		parent, err := t.messages.GetByMsgIDPreferList(ctx, id, listID)
		if err == nil {
			return parent, nil
		}
		if !apperrors.IsNotFound(err) {
			return nil, err
		}
	}
	return nil, nil
}

// Attach adds a persisted message to its thread. An empty thread adopts the
// message as first; an established thread only changes first when the new
// message predates the current thread date. The traversal order is then
// recomputed for the affected thread.
func (t *ThreadIndex) Attach(ctx context.Context, thread *models.Thread, message *models.Message) error {
	lock := t.threadLock(thread.ID)
	lock.Lock()
	defer lock.Unlock()

	// the caller's snapshot may predate a concurrent attach; the
	// comparison has to run against the row as it stands under the lock
	current, err := t.threads.GetByID(ctx, thread.ID)
	if err != nil {
		return err
	}
	if current.FirstID == nil || message.Date.Before(current.Date) {
		if err := t.threads.SetFirst(ctx, thread.ID, message.ID, message.Date); err != nil {
			return err
		}
		id := message.ID
		thread.FirstID = &id
		thread.Date = message.Date
	} else {
		thread.FirstID = current.FirstID
		thread.Date = current.Date
	}
	return t.recomputeOrder(ctx, thread.ID)
}

// Detach removes a message from its thread's index before the record is
// deleted. Only removal of the current first changes the invariant: the
// remaining member with minimum (date, id) takes over, or the thread moves
// to the empty state when no members remain.
func (t *ThreadIndex) Detach(ctx context.Context, message *models.Message) error {
	lock := t.threadLock(message.ThreadID)
	lock.Lock()
	defer lock.Unlock()

	thread, err := t.threads.GetByID(ctx, message.ThreadID)
	if err != nil {
		return err
	}
	if thread.FirstID == nil || *thread.FirstID != message.ID {
		return nil
	}

	next, err := t.messages.MinDateInThread(ctx, message.ThreadID, message.ID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			t.logger.Info("thread emptied", slog.Uint64("thread_id", uint64(message.ThreadID)))
			return t.threads.ClearFirst(ctx, message.ThreadID)
		}
		return err
	}
	return t.threads.SetFirst(ctx, message.ThreadID, next.ID, next.Date)
}

// recomputeOrder rebuilds thread_order and thread_depth for every member of
// a thread: depth-first traversal with roots and sibling groups ordered by
// (date, id). Only changed positions are written back.
func (t *ThreadIndex) recomputeOrder(ctx context.Context, threadID uint) error {
	members, err := t.messages.ByThread(ctx, threadID)
	if err != nil {
		return err
	}

	inThread := make(map[uint]bool, len(members))
	for i := range members {
		inThread[members[i].ID] = true
	}

	// members arrive sorted by (date, id), so child slices stay sorted
	children := make(map[uint][]*models.Message)
	var roots []*models.Message
	for i := range members {
		m := &members[i]
		if m.InReplyToID != nil && inThread[*m.InReplyToID] && *m.InReplyToID != m.ID {
			children[*m.InReplyToID] = append(children[*m.InReplyToID], m)
		} else {
			roots = append(roots, m)
		}
	}

	order := 0
	visited := make(map[uint]bool, len(members))
	var walk func(m *models.Message, depth int) error
	walk = func(m *models.Message, depth int) error {
		if visited[m.ID] {
			return nil
		}
		visited[m.ID] = true
		if m.ThreadOrder != order || m.ThreadDepth != depth {
			if err := t.messages.SetThreadPosition(ctx, m.ID, order, depth); err != nil {
				return err
			}
		}
		order++
		for _, child := range children[m.ID] {
			if err := walk(child, depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	for _, root := range roots {
		if err := walk(root, 0); err != nil {
			return err
		}
	}
	return nil
}
