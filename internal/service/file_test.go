package service

import (
	"encoding/base64"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openvault/filevault/internal/model"
	"github.com/openvault/filevault/internal/storage"
)

func newTestFileService(t *testing.T) *FileService {
	t.Helper()
	_, files := newTestRepos(t)
	return NewFileService(files, storage.NewLocalStorage(t.TempDir()))
}

func b64(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

func TestCreateFolder(t *testing.T) {
	svc := newTestFileService(t)

	folder, err := svc.Create("user-1", CreateInput{
		Name: "documents",
		Type: model.FileTypeFolder,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, folder.ID)
	assert.Empty(t, folder.LocalPath) // folders carry no bytes
}

func TestCreateFile_StoresPayload(t *testing.T) {
	svc := newTestFileService(t)

	file, err := svc.Create("user-1", CreateInput{
		Name: "hello.txt",
		Type: model.FileTypeFile,
		Data: b64("Hello Webstack!\n"),
	})
	require.NoError(t, err)
	require.NotEmpty(t, file.LocalPath)

	body, _, err := svc.Data("user-1", file.ID)
	require.NoError(t, err)
	defer body.Close()

	content, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "Hello Webstack!\n", string(content))
}

func TestCreate_ValidationOrder(t *testing.T) {
	svc := newTestFileService(t)

	_, err := svc.Create("user-1", CreateInput{Type: model.FileTypeFile, Data: b64("x")})
	assert.ErrorIs(t, err, ErrMissingName)

	_, err = svc.Create("user-1", CreateInput{Name: "x", Type: "symlink"})
	assert.ErrorIs(t, err, ErrMissingType)

	_, err = svc.Create("user-1", CreateInput{Name: "x", Type: model.FileTypeFile})
	assert.ErrorIs(t, err, ErrMissingData)

	// Missing name wins over missing type: first failing check decides
	_, err = svc.Create("user-1", CreateInput{})
	assert.ErrorIs(t, err, ErrMissingName)
}

func TestCreate_InvalidPayload(t *testing.T) {
	svc := newTestFileService(t)

	_, err := svc.Create("user-1", CreateInput{
		Name: "x", Type: model.FileTypeFile, Data: "not base64 at all!!!",
	})
	assert.ErrorIs(t, err, ErrInvalidPayload)
}

func TestCreate_ParentChecks(t *testing.T) {
	svc := newTestFileService(t)

	_, err := svc.Create("user-1", CreateInput{
		Name: "x", Type: model.FileTypeFolder, ParentID: "missing",
	})
	assert.ErrorIs(t, err, ErrParentNotFound)

	file, err := svc.Create("user-1", CreateInput{
		Name: "plain.txt", Type: model.FileTypeFile, Data: b64("x"),
	})
	require.NoError(t, err)

	// A non-folder entry can never be a parent
	_, err = svc.Create("user-1", CreateInput{
		Name: "y", Type: model.FileTypeFile, ParentID: file.ID, Data: b64("y"),
	})
	assert.ErrorIs(t, err, ErrParentNotFolder)

	folder, err := svc.Create("user-1", CreateInput{
		Name: "docs", Type: model.FileTypeFolder,
	})
	require.NoError(t, err)

	child, err := svc.Create("user-1", CreateInput{
		Name: "nested.txt", Type: model.FileTypeFile, ParentID: folder.ID, Data: b64("z"),
	})
	require.NoError(t, err)
	assert.Equal(t, folder.ID, child.ParentID)
}

func TestGet_OwnerScoped(t *testing.T) {
	svc := newTestFileService(t)

	file, err := svc.Create("user-1", CreateInput{
		Name: "secret.txt", Type: model.FileTypeFile, Data: b64("x"),
	})
	require.NoError(t, err)

	got, err := svc.Get("user-1", file.ID)
	require.NoError(t, err)
	assert.Equal(t, file.ID, got.ID)

	// Unknown id and foreign owner are indistinguishable
	_, err = svc.Get("user-2", file.ID)
	assert.ErrorIs(t, err, ErrFileNotFound)

	_, err = svc.Get("user-1", "missing")
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestSetVisibility_Toggle(t *testing.T) {
	svc := newTestFileService(t)

	file, err := svc.Create("user-1", CreateInput{
		Name: "pic.png", Type: model.FileTypeImage, Data: b64("png"),
	})
	require.NoError(t, err)

	published, err := svc.SetVisibility("user-1", file.ID, true)
	require.NoError(t, err)
	assert.True(t, published.IsPublic)

	restored, err := svc.SetVisibility("user-1", file.ID, false)
	require.NoError(t, err)
	assert.False(t, restored.IsPublic)
	assert.Equal(t, file.Name, restored.Name)
	assert.Equal(t, file.LocalPath, restored.LocalPath)

	// Non-owner sees absence, not a permission error
	_, err = svc.SetVisibility("user-2", file.ID, true)
	assert.ErrorIs(t, err, ErrFileNotFound)

	_, err = svc.SetVisibility("user-1", "missing", true)
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestData_Visibility(t *testing.T) {
	svc := newTestFileService(t)

	file, err := svc.Create("user-1", CreateInput{
		Name: "note.txt", Type: model.FileTypeFile, Data: b64("hi"),
	})
	require.NoError(t, err)

	// Private: owner only
	_, _, err = svc.Data("user-2", file.ID)
	assert.ErrorIs(t, err, ErrFileNotFound)
	_, _, err = svc.Data("", file.ID)
	assert.ErrorIs(t, err, ErrFileNotFound)

	// Public: readable without identity
	_, err = svc.SetVisibility("user-1", file.ID, true)
	require.NoError(t, err)

	body, got, err := svc.Data("", file.ID)
	require.NoError(t, err)
	defer body.Close()
	assert.Equal(t, "note.txt", got.Name)
}

func TestData_Folder(t *testing.T) {
	svc := newTestFileService(t)

	folder, err := svc.Create("user-1", CreateInput{
		Name: "docs", Type: model.FileTypeFolder,
	})
	require.NoError(t, err)

	_, _, err = svc.Data("user-1", folder.ID)
	assert.ErrorIs(t, err, ErrFolderNoContent)
}

func TestList_Pages(t *testing.T) {
	svc := newTestFileService(t)

	created := make([]string, 0, 25)
	for i := 0; i < 25; i++ {
		f, err := svc.Create("user-1", CreateInput{
			Name: fmt.Sprintf("f%02d", i), Type: model.FileTypeFile, Data: b64("x"),
		})
		require.NoError(t, err)
		created = append(created, f.ID)
	}

	page0, err := svc.List("user-1", model.RootParentID, 0)
	require.NoError(t, err)
	require.Len(t, page0, 20)

	page1, err := svc.List("user-1", model.RootParentID, 1)
	require.NoError(t, err)
	require.Len(t, page1, 5)

	// Both pages together cover every entry exactly once
	got := make([]string, 0, 25)
	for _, f := range append(page0, page1...) {
		got = append(got, f.ID)
	}
	assert.ElementsMatch(t, created, got)

	page9, err := svc.List("user-1", model.RootParentID, 9)
	require.NoError(t, err)
	assert.Empty(t, page9)
}
