package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/openvault/filevault/internal/model"
)

var (
	ErrFileNotFound = errors.New("file not found")
)

// DefaultPageSize is the fixed listing page size.
const DefaultPageSize = 20

type FileRepository interface {
	Create(file *model.File) error
	ByID(id string) (*model.File, error)
	ByOwnerAndParent(userID, parentID string, page, pageSize int) ([]*model.File, error)
	SetPublic(id string, public bool) (*model.File, error)
	Count() (int64, error)
}

type fileRepository struct {
	db *sqlx.DB
}

func NewFileRepository(db *sqlx.DB) FileRepository {
	return &fileRepository{db: db}
}

func (r *fileRepository) Create(file *model.File) error {
	if file.ID == "" {
		file.ID = uuid.New().String()
	}
	if file.CreatedAt.IsZero() {
		file.CreatedAt = time.Now()
	}

	query := `INSERT INTO files (id, user_id, name, type, parent_id, is_public, local_path, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.Exec(query,
		file.ID,
		file.UserID,
		file.Name,
		file.Type,
		file.ParentID,
		file.IsPublic,
		file.LocalPath,
		file.CreatedAt,
	)

	return err
}

func (r *fileRepository) ByID(id string) (*model.File, error) {
	file := &model.File{}
	query := `SELECT * FROM files WHERE id = $1`

	err := r.db.Get(file, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrFileNotFound
	}

	return file, err
}

// ByOwnerAndParent returns one page of entries in insertion order.
// Pages are zero-based; a page past the end is an empty slice, not an error.
func (r *fileRepository) ByOwnerAndParent(userID, parentID string, page, pageSize int) ([]*model.File, error) {
	if page < 0 {
		page = 0
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	files := []*model.File{}
	query := `SELECT * FROM files WHERE user_id = $1 AND parent_id = $2
	          ORDER BY created_at, id LIMIT $3 OFFSET $4`

	err := r.db.Select(&files, query, userID, parentID, pageSize, page*pageSize)
	if err != nil {
		return nil, err
	}

	return files, nil
}

func (r *fileRepository) SetPublic(id string, public bool) (*model.File, error) {
	query := `UPDATE files SET is_public = $1 WHERE id = $2`

	result, err := r.db.Exec(query, public, id)
	if err != nil {
		return nil, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrFileNotFound
	}

	return r.ByID(id)
}

func (r *fileRepository) Count() (int64, error) {
	var n int64
	err := r.db.Get(&n, `SELECT COUNT(*) FROM files`)
	return n, err
}
