package filetree

import (
	"context"

	"project-editor/backend/internal/models"
)

// Tree returns the root nodes with their descendants nested in Children.
// A node whose parent does not exist is returned as a root.
func (s *Service) Tree(ctx context.Context) ([]*models.Node, error) {
	nodes, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return BuildTree(nodes), nil
}

// BuildTree links a flat node list into a forest, preserving input order
// among siblings. Nodes caught in a parent cycle are unreachable from any
// root and are left out.
func BuildTree(nodes []models.Node) []*models.Node {
	byID := make(map[int64]*models.Node, len(nodes))
	all := make([]*models.Node, 0, len(nodes))
	for i := range nodes {
		node := nodes[i]
		node.Children = nil
		byID[node.ID] = &node
		all = append(all, &node)
	}

	tree := make([]*models.Node, 0)
	for _, node := range all {
		if node.ParentID == nil {
			tree = append(tree, node)
			continue
		}
		if parent, ok := byID[*node.ParentID]; ok {
			parent.Children = append(parent.Children, node)
		} else {
			tree = append(tree, node)
		}
	}
	return tree
}
