package services

import (
	"context"

	"github.com/mailhoard/mailhoard/internal/models"
	"github.com/mailhoard/mailhoard/internal/repository"
)

// Navigator answers ordered navigation queries over archived messages.
// List navigation follows the (date, id) total order; thread navigation
// follows the depth-first thread_order.
type Navigator struct {
	lists    repository.ListRepository
	messages repository.MessageRepository
	legacies repository.LegacyRepository
}

// NewNavigator creates a new Navigator
func NewNavigator(lists repository.ListRepository, messages repository.MessageRepository,
	legacies repository.LegacyRepository) *Navigator {
	return &Navigator{
		lists:    lists,
		messages: messages,
		legacies: legacies,
	}
}

// NextInList returns the chronologically next message in the same list
func (n *Navigator) NextInList(ctx context.Context, message *models.Message) (*models.Message, error) {
	return n.messages.NextInList(ctx, message)
}

// PreviousInList returns the chronologically previous message in the same list
func (n *Navigator) PreviousInList(ctx context.Context, message *models.Message) (*models.Message, error) {
	return n.messages.PreviousInList(ctx, message)
}

// NextInThread returns the next message in reply-tree traversal order
func (n *Navigator) NextInThread(ctx context.Context, message *models.Message) (*models.Message, error) {
	return n.messages.NextInThread(ctx, message)
}

// PreviousInThread returns the previous message in reply-tree traversal order
func (n *Navigator) PreviousInThread(ctx context.Context, message *models.Message) (*models.Message, error) {
	return n.messages.PreviousInThread(ctx, message)
}

// ResolveLegacy resolves a historical archive number to a message, for
// back-compatible link resolution
func (n *Navigator) ResolveLegacy(ctx context.Context, listName string, number int) (*models.Message, error) {
	list, err := n.lists.GetByName(ctx, listName)
	if err != nil {
		return nil, err
	}
	msgid, err := n.legacies.GetMsgID(ctx, list.Name, number)
	if err != nil {
		return nil, err
	}
	return n.messages.GetByMsgIDPreferList(ctx, msgid, list.ID)
}
