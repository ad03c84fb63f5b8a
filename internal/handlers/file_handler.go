package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"

	"project-editor/backend/internal/filetree"
	"project-editor/backend/internal/models"
)

// parentRef decodes a parentId given as a number, a numeric string or
// null. Zero and the empty string mean "no parent".
type parentRef struct {
	ID *int64
}

func (p *parentRef) UnmarshalJSON(data []byte) error {
	p.ID = nil

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var id int64
	switch v := raw.(type) {
	case nil:
		return nil
	case float64:
		if v != float64(int64(v)) {
			return errors.Errorf("parentId %v is not an integer", v)
		}
		id = int64(v)
	case string:
		if strings.TrimSpace(v) == "" {
			return nil
		}
		parsed, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return errors.Errorf("parentId %q is not numeric", v)
		}
		id = parsed
	default:
		return errors.Errorf("parentId must be a number")
	}

	if id != 0 {
		p.ID = &id
	}
	return nil
}

type createFileRequest struct {
	Name     string    `json:"name"`
	Type     string    `json:"type"`
	ParentID parentRef `json:"parentId"`
}

type updateFileRequest struct {
	Name    *string `json:"name"`
	Content *string `json:"content"`
}

type deleteFileResponse struct {
	Message string  `json:"message"`
	Removed []int64 `json:"removed"`
}

func parseID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil
}

// ListFiles handles GET /files. With ?parentId=N only the direct children
// of N are listed; ?parentId=root lists the root nodes.
func (h *Handler) ListFiles(w http.ResponseWriter, r *http.Request) {
	var (
		nodes []models.Node
		err   error
	)

	if r.URL.Query().Has("parentId") {
		raw := r.URL.Query().Get("parentId")
		var parentID *int64
		if raw != "root" && raw != "" {
			id, parseErr := strconv.ParseInt(raw, 10, 64)
			if parseErr != nil {
				respondError(w, http.StatusBadRequest, "Invalid parent ID")
				return
			}
			parentID = &id
		}
		nodes, err = h.files.ListChildren(r.Context(), parentID)
	} else {
		nodes, err = h.files.ListAll(r.Context())
	}
	if err != nil {
		respondServiceError(w, r, err, "Failed to fetch files")
		return
	}

	respondJSON(w, http.StatusOK, nodes)
}

// GetFileTree handles GET /files/tree, returning root nodes with their
// descendants nested under children.
func (h *Handler) GetFileTree(w http.ResponseWriter, r *http.Request) {
	tree, err := h.files.Tree(r.Context())
	if err != nil {
		respondServiceError(w, r, err, "Failed to retrieve file structure")
		return
	}
	respondJSON(w, http.StatusOK, tree)
}

// GetFile handles GET /files/{id}.
func (h *Handler) GetFile(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid ID format")
		return
	}

	node, err := h.files.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err, "Failed to fetch file")
		return
	}
	respondJSON(w, http.StatusOK, node)
}

// CreateFile handles POST /files.
func (h *Handler) CreateFile(w http.ResponseWriter, r *http.Request) {
	var req createFileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" || req.Type == "" {
		respondError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	node, err := h.files.Create(r.Context(), filetree.CreateInput{
		Name:     req.Name,
		Type:     models.NodeType(req.Type),
		ParentID: req.ParentID.ID,
	})
	if err != nil {
		respondServiceError(w, r, err, "Failed to create file/folder")
		return
	}
	respondJSON(w, http.StatusCreated, node)
}

// UpdateFile handles PUT /files/{id}. Omitted fields keep their value; an
// explicit empty content clears the file.
func (h *Handler) UpdateFile(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid ID format")
		return
	}

	var req updateFileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	node, err := h.files.Update(r.Context(), id, filetree.UpdateInput{Name: req.Name, Content: req.Content})
	if err != nil {
		respondServiceError(w, r, err, "Failed to update file")
		return
	}
	respondJSON(w, http.StatusOK, node)
}

// DeleteFile handles DELETE /files/{id}. Folders are removed with all of
// their descendants.
func (h *Handler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid ID format")
		return
	}

	res, err := h.files.Delete(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err, "Failed to delete file/folder")
		return
	}
	respondJSON(w, http.StatusOK, deleteFileResponse{
		Message: "File/Folder deleted successfully",
		Removed: res.Removed,
	})
}
