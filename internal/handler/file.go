package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/openvault/filevault/internal/ctxkeys"
	"github.com/openvault/filevault/internal/model"
	"github.com/openvault/filevault/internal/service"
)

type FileHandler struct {
	fileService *service.FileService
}

func NewFileHandler(fileService *service.FileService) *FileHandler {
	return &FileHandler{fileService: fileService}
}

// flexID accepts a parent id as either a JSON string or a number, because
// clients send the root parent as the literal 0.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = flexID(s)
		return nil
	}
	var n json.Number
	err := json.Unmarshal(b, &n)
	if err != nil {
		return errors.New("parentId must be a string or a number")
	}
	*f = flexID(n.String())
	return nil
}

// normalize maps the root spellings ("", "0", 0) to the stored sentinel.
func (f flexID) normalize() string {
	if f == "" || f == "0" {
		return model.RootParentID
	}
	return string(f)
}

type uploadRequest struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	ParentID flexID `json:"parentId"`
	IsPublic bool   `json:"isPublic"`
	Data     string `json:"data"`
}

// Upload creates a folder, file or image entry.
func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req uploadRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	file, err := h.fileService.Create(user.ID, service.CreateInput{
		Name:     req.Name,
		Type:     req.Type,
		ParentID: req.ParentID.normalize(),
		IsPublic: req.IsPublic,
		Data:     req.Data,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingName):
			writeError(w, http.StatusBadRequest, "Missing name")
		case errors.Is(err, service.ErrMissingType):
			writeError(w, http.StatusBadRequest, "Missing type")
		case errors.Is(err, service.ErrMissingData):
			writeError(w, http.StatusBadRequest, "Missing data")
		case errors.Is(err, service.ErrInvalidPayload):
			writeError(w, http.StatusBadRequest, "Invalid data")
		case errors.Is(err, service.ErrParentNotFound):
			writeError(w, http.StatusBadRequest, "Parent not found")
		case errors.Is(err, service.ErrParentNotFolder):
			writeError(w, http.StatusBadRequest, "Parent is not a folder")
		default:
			writeInternalError(w, err)
		}
		return
	}

	writeJSON(w, http.StatusCreated, file)
}

// Show returns one owner-scoped entry.
func (h *FileHandler) Show(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	file, err := h.fileService.Get(user.ID, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, service.ErrFileNotFound) {
			writeError(w, http.StatusNotFound, "Not found")
			return
		}
		writeInternalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, file)
}

// Index lists one page of the user's entries under a parent.
func (h *FileHandler) Index(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	parentID := flexID(r.URL.Query().Get("parentId")).normalize()
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 0 {
		page = 0
	}

	files, err := h.fileService.List(user.ID, parentID, page)
	if err != nil {
		writeInternalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, files)
}

// Publish sets isPublic to true.
func (h *FileHandler) Publish(w http.ResponseWriter, r *http.Request) {
	h.setVisibility(w, r, true)
}

// Unpublish sets isPublic to false.
func (h *FileHandler) Unpublish(w http.ResponseWriter, r *http.Request) {
	h.setVisibility(w, r, false)
}

func (h *FileHandler) setVisibility(w http.ResponseWriter, r *http.Request, public bool) {
	user := ctxkeys.User(r.Context())

	file, err := h.fileService.SetVisibility(user.ID, r.PathValue("id"), public)
	if err != nil {
		if errors.Is(err, service.ErrFileNotFound) {
			writeError(w, http.StatusNotFound, "Not found")
			return
		}
		writeInternalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, file)
}

// Data streams the stored bytes. Public entries need no token; private
// ones are owner-only. Registered without RequireAuth for that reason.
func (h *FileHandler) Data(w http.ResponseWriter, r *http.Request) {
	userID := ""
	if user := ctxkeys.User(r.Context()); user != nil {
		userID = user.ID
	}

	body, file, err := h.fileService.Data(userID, r.PathValue("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFileNotFound):
			writeError(w, http.StatusNotFound, "Not found")
		case errors.Is(err, service.ErrFolderNoContent):
			writeError(w, http.StatusBadRequest, "A folder doesn't have content")
		default:
			writeInternalError(w, err)
		}
		return
	}
	defer body.Close()

	contentType := mime.TypeByExtension(filepath.Ext(file.Name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	_, err = io.Copy(w, body)
	if err != nil {
		slog.Error("failed to stream file content", "error", err, "file", file.ID)
	}
}
