// Package filetree implements the file and folder operations behind the
// editor's explorer on top of a database.Store.
package filetree

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"project-editor/backend/internal/database"
	"project-editor/backend/internal/models"
)

// Service is the tree service. It holds no node state of its own; every
// call goes to the store.
type Service struct {
	store         database.Store
	strictParents bool
	eventEmitter  func(Event)
}

type Option func(*Service)

// WithStrictParents makes Create reject a parentId that does not name an
// existing folder. The default trusts the client.
func WithStrictParents(strict bool) Option {
	return func(s *Service) { s.strictParents = strict }
}

// WithEventEmitter registers a callback for committed changes.
func WithEventEmitter(emitter func(Event)) Option {
	return func(s *Service) { s.eventEmitter = emitter }
}

func NewService(store database.Store, opts ...Option) *Service {
	s := &Service{store: store}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type CreateInput struct {
	Name     string
	Type     models.NodeType
	ParentID *int64
}

// UpdateInput carries the optional fields of an update. A nil field is
// left unchanged; an empty Name is treated as absent, an empty Content is not.
type UpdateInput struct {
	Name    *string
	Content *string
}

type DeleteResult struct {
	// Removed holds the deleted ids in deletion order; the target is last.
	Removed []int64
}

func (s *Service) ListAll(ctx context.Context) ([]models.Node, error) {
	nodes, err := s.store.ListNodes(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch files")
	}
	return nodes, nil
}

// ListChildren returns the direct children of parentID, or the roots when
// parentID is nil.
func (s *Service) ListChildren(ctx context.Context, parentID *int64) ([]models.Node, error) {
	nodes, err := s.store.ListChildren(ctx, parentID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch children")
	}
	return nodes, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*models.Node, error) {
	node, err := s.store.GetNode(ctx, id)
	if err != nil {
		return nil, translate(err, id)
	}
	return node, nil
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*models.Node, error) {
	if in.Name == "" {
		return nil, invalidArgument("name is required")
	}
	if !in.Type.Valid() {
		return nil, invalidArgument("invalid type %q: must be %q or %q", in.Type, models.TypeFile, models.TypeFolder)
	}

	node := &models.Node{
		Name:     in.Name,
		Type:     in.Type,
		ParentID: in.ParentID,
	}
	if in.Type == models.TypeFile {
		content := ""
		language := models.LanguageFor(in.Name)
		node.Content = &content
		node.Language = &language
	}

	err := s.store.InTx(ctx, func(q database.Queries) error {
		if err := s.validateParent(ctx, q, in.ParentID); err != nil {
			return err
		}
		return q.InsertNode(ctx, node)
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create file/folder")
	}

	s.emit(newEvent(EventFileCreated, node))
	return node, nil
}

// validateParent is the single place parent references are checked.
func (s *Service) validateParent(ctx context.Context, q database.Queries, parentID *int64) error {
	if !s.strictParents || parentID == nil {
		return nil
	}

	parent, err := q.GetNode(ctx, *parentID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return invalidArgument("parent %d does not exist", *parentID)
		}
		return err
	}
	if !parent.IsFolder() {
		return invalidArgument("parent %d is not a folder", *parentID)
	}
	return nil
}

func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (*models.Node, error) {
	var node *models.Node
	err := s.store.InTx(ctx, func(q database.Queries) error {
		var err error
		node, err = q.GetNode(ctx, id)
		if err != nil {
			return err
		}

		if in.Name != nil && *in.Name != "" {
			node.Name = *in.Name
		}
		// Folders carry no content.
		if in.Content != nil && !node.IsFolder() {
			content := *in.Content
			node.Content = &content
		}
		return q.UpdateNode(ctx, node)
	})
	if err != nil {
		return nil, translate(errors.Wrap(err, "failed to update file"), id)
	}

	s.emit(newEvent(EventFileUpdated, node))
	return node, nil
}

// Delete removes a node. A folder is removed together with its whole
// subtree, children before parents, inside a single transaction so a
// failure part way leaves the tree untouched.
func (s *Service) Delete(ctx context.Context, id int64) (DeleteResult, error) {
	var removed []int64
	err := s.store.InTx(ctx, func(q database.Queries) error {
		removed = nil

		node, err := q.GetNode(ctx, id)
		if err != nil {
			return err
		}
		if !node.IsFolder() {
			if err := q.DeleteNode(ctx, id); err != nil {
				return err
			}
			removed = append(removed, id)
			return nil
		}
		return deleteFolder(ctx, q, id, make(map[int64]bool), &removed)
	})
	if err != nil {
		return DeleteResult{}, translate(errors.Wrap(err, "failed to delete file/folder"), id)
	}

	event := newEvent(EventFileDeleted, nil)
	event.Removed = removed
	s.emit(event)
	return DeleteResult{Removed: removed}, nil
}

// deleteFolder walks the subtree below folderID post-order. visited guards
// against parent cycles, which lenient parent checking can produce.
func deleteFolder(ctx context.Context, q database.Queries, folderID int64, visited map[int64]bool, removed *[]int64) error {
	visited[folderID] = true

	children, err := q.ListChildren(ctx, &folderID)
	if err != nil {
		return err
	}
	for _, child := range children {
		if visited[child.ID] {
			continue
		}
		if child.IsFolder() {
			if err := deleteFolder(ctx, q, child.ID, visited, removed); err != nil {
				return err
			}
			continue
		}
		visited[child.ID] = true
		if err := q.DeleteNode(ctx, child.ID); err != nil {
			return err
		}
		*removed = append(*removed, child.ID)
	}

	logrus.WithFields(logrus.Fields{"folder": folderID, "children": len(children)}).Debug("removing folder")
	if err := q.DeleteNode(ctx, folderID); err != nil {
		return err
	}
	*removed = append(*removed, folderID)
	return nil
}

// translate maps store errors onto the service error kinds.
func translate(err error, id int64) error {
	if errors.Is(err, database.ErrNotFound) {
		return notFound(id)
	}
	return err
}
