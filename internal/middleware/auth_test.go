package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/openvault/filevault/internal/cache"
	"github.com/openvault/filevault/internal/db"
	"github.com/openvault/filevault/internal/model"
	"github.com/openvault/filevault/internal/repository"
	"github.com/openvault/filevault/internal/service"
)

type authFixture struct {
	cache    *cache.Cache
	db       *sqlx.DB
	sessions *service.SessionService
	users    *service.UserService
	handler  http.Handler
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	database, err := sqlx.Connect("sqlite", ":memory:")
	require.NoError(t, err)
	database.SetMaxOpenConns(1)
	require.NoError(t, db.RunMigrations(database.DB, "sqlite"))
	t.Cleanup(func() { database.Close() })

	c, err := cache.New("")
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	userRepo := repository.NewUserRepository(database)
	fileRepo := repository.NewFileRepository(database)

	f := &authFixture{
		cache:    c,
		db:       database,
		sessions: service.NewSessionService(c, time.Minute),
		users:    service.NewUserService(userRepo, fileRepo),
	}
	f.handler = TokenAuth(f.sessions, f.users)(RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	return f
}

func (f *authFixture) get(token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", "/users/me", nil)
	if token != "" {
		req.Header.Set(TokenHeader, token)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func (f *authFixture) registerAndIssue(t *testing.T) (*model.User, string) {
	t.Helper()

	user, err := f.users.Register("bob@dylan.com", "toto1234!")
	require.NoError(t, err)

	token, err := f.sessions.Issue(user.ID)
	require.NoError(t, err)
	return user, token
}

func TestTokenAuth_UnknownToken(t *testing.T) {
	f := newAuthFixture(t)

	rec := f.get("no-such-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Unauthorized"}`, rec.Body.String())
}

func TestTokenAuth_ValidToken(t *testing.T) {
	f := newAuthFixture(t)
	_, token := f.registerAndIssue(t)

	rec := f.get(token)
	assert.Equal(t, http.StatusOK, rec.Code)
}

// A session whose user record has since disappeared is unauthenticated,
// not a server failure.
func TestTokenAuth_DanglingSession(t *testing.T) {
	f := newAuthFixture(t)

	token, err := f.sessions.Issue("no-such-user")
	require.NoError(t, err)

	rec := f.get(token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// An unreachable session store must surface as an internal failure, never
// be masked as a bad token.
func TestTokenAuth_CacheDown(t *testing.T) {
	f := newAuthFixture(t)
	_, token := f.registerAndIssue(t)

	require.NoError(t, f.cache.Close())

	rec := f.get(token)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, rec.Body.String())
}

// Same for the user store: a live session plus a dead database is a 500.
func TestTokenAuth_DatabaseDown(t *testing.T) {
	f := newAuthFixture(t)
	_, token := f.registerAndIssue(t)

	require.NoError(t, f.db.Close())

	rec := f.get(token)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, rec.Body.String())
}
