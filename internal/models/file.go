package models

import (
	"path"
	"strings"
)

// NodeType distinguishes files from folders in the tree.
type NodeType string

const (
	TypeFile   NodeType = "file"
	TypeFolder NodeType = "folder"
)

// Valid reports whether t is exactly "file" or "folder".
func (t NodeType) Valid() bool {
	return t == TypeFile || t == TypeFolder
}

// Node represents a file or a folder in the editor's file tree.
type Node struct {
	ID       int64    `json:"id"`
	Name     string   `json:"name"`
	Type     NodeType `json:"type"`
	ParentID *int64   `json:"parentId,omitempty"` // nil for root nodes
	Content  *string  `json:"content,omitempty"`  // files only
	Language *string  `json:"language,omitempty"` // files only, set once at creation
	// Populated by the tree view only.
	Children []*Node `json:"children,omitempty"`
}

func (n *Node) IsFolder() bool {
	return n.Type == TypeFolder
}

var languages = map[string]string{
	"js":   "javascript",
	"ts":   "typescript",
	"py":   "python",
	"json": "json",
}

// LanguageFor maps a file name to the editor language of its extension.
// Unknown or missing extensions map to "plaintext".
func LanguageFor(name string) string {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))
	if lang, ok := languages[ext]; ok {
		return lang
	}
	return "plaintext"
}
