package model

import (
	"encoding/json"
	"time"
)

const (
	FileTypeFolder = "folder"
	FileTypeFile   = "file"
	FileTypeImage  = "image"
)

// RootParentID marks an entry attached directly under the root. The wire
// format uses the number 0 for root, ids are store-assigned strings.
const RootParentID = ""

// ValidFileType reports whether t is one of the three entry variants.
func ValidFileType(t string) bool {
	return t == FileTypeFolder || t == FileTypeFile || t == FileTypeImage
}

type File struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Name      string    `db:"name"`
	Type      string    `db:"type"`
	ParentID  string    `db:"parent_id"`
	IsPublic  bool      `db:"is_public"`
	LocalPath string    `db:"local_path"` // blob reference; empty for folders
	CreatedAt time.Time `db:"created_at"`
}

func (f *File) IsFolder() bool {
	return f.Type == FileTypeFolder
}

// MarshalJSON keeps the wire shape of the original API: parentId is the
// number 0 at the root, otherwise the parent's id, and the blob reference
// never leaves the server.
func (f *File) MarshalJSON() ([]byte, error) {
	var parentID any = f.ParentID
	if f.ParentID == RootParentID {
		parentID = 0
	}
	return json.Marshal(struct {
		ID       string `json:"id"`
		UserID   string `json:"userId"`
		Name     string `json:"name"`
		Type     string `json:"type"`
		IsPublic bool   `json:"isPublic"`
		ParentID any    `json:"parentId"`
	}{
		ID:       f.ID,
		UserID:   f.UserID,
		Name:     f.Name,
		Type:     f.Type,
		IsPublic: f.IsPublic,
		ParentID: parentID,
	})
}
