package database

import (
	"context"

	"github.com/pkg/errors"

	"project-editor/backend/internal/models"
)

// ErrNotFound is returned when no node matches the requested id.
var ErrNotFound = errors.New("node not found")

// Queries is the set of node operations every backend supports, both on the
// store itself and inside a transaction.
type Queries interface {
	// ListNodes returns every node ordered by id.
	ListNodes(ctx context.Context) ([]models.Node, error)
	// ListChildren returns the direct children of parentID, or the root
	// nodes when parentID is nil.
	ListChildren(ctx context.Context, parentID *int64) ([]models.Node, error)
	GetNode(ctx context.Context, id int64) (*models.Node, error)
	// InsertNode stores node and sets node.ID to the generated id.
	InsertNode(ctx context.Context, node *models.Node) error
	// UpdateNode persists the name and content of an existing node.
	UpdateNode(ctx context.Context, node *models.Node) error
	DeleteNode(ctx context.Context, id int64) error
}

// Store is a handle on an open node table. It is created once at startup
// with Open and must be closed on shutdown.
type Store interface {
	Queries

	// InTx runs fn inside a single transaction. The transaction is
	// committed when fn returns nil and rolled back otherwise.
	InTx(ctx context.Context, fn func(q Queries) error) error
	Ping(ctx context.Context) error
	Close() error
}
