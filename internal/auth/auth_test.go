package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"AgroSim/internal/repo"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	users map[string]fakeUser
	err   error
}

type fakeUser struct {
	id   int
	hash string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: map[string]fakeUser{}}
}

func (f *fakeRepo) CreateUser(_ context.Context, login, _, password string) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	if _, ok := f.users[login]; ok {
		return 0, repo.ErrLoginTaken
	}
	id := len(f.users) + 1
	f.users[login] = fakeUser{id: id, hash: password}
	return id, nil
}

func (f *fakeRepo) GetByLogin(_ context.Context, login string) (int, string, error) {
	if f.err != nil {
		return 0, "", f.err
	}
	u, ok := f.users[login]
	if !ok {
		return 0, "", nil
	}
	return u.id, u.hash, nil
}

func (f *fakeRepo) GetProfileByID(_ context.Context, id int) (repo.Profile, error) {
	for login, u := range f.users {
		if u.id == id {
			return repo.Profile{ID: id, Login: login}, nil
		}
	}
	return repo.Profile{}, repo.ErrNotFound
}

func newEnv() *Authenv {
	return &Authenv{JWTkey: []byte("test-key"), Repo: newFakeRepo()}
}

func post(h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
	return rec
}

func sessionFrom(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookie {
			return c
		}
	}
	t.Fatal("no session cookie")
	return nil
}

func TestRegisterAndLogin(t *testing.T) {
	env := newEnv()

	rec := post(env.RegisterHandler, `{"login":" ana ","email":"ana@fazenda.com.br","password":"laranja1"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	c := sessionFrom(t, rec)
	assert.True(t, c.HttpOnly)

	user, err := env.parse(c.Value)
	require.NoError(t, err)
	assert.Equal(t, User{ID: 1, Login: "ana"}, user)

	rec = post(env.RegisterHandler, `{"login":"ana","email":"x@y.z","password":"laranja1"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = post(env.AuthHandler, `{"login":"ana","password":"laranja1"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	sessionFrom(t, rec)

	rec = post(env.AuthHandler, `{"login":"ana","password":"limao"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = post(env.AuthHandler, `{"login":"bia","password":"laranja1"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegisterValidation(t *testing.T) {
	env := newEnv()
	for _, body := range []string{
		`{`,
		`{"login":"","email":"a@b.c","password":"secret1"}`,
		`{"login":"a","email":"a@b.c","password":"123"}`,
	} {
		assert.Equal(t, http.StatusBadRequest, post(env.RegisterHandler, body).Code, body)
	}

	env.Repo.(*fakeRepo).err = errors.New("connection reset")
	assert.Equal(t, http.StatusInternalServerError,
		post(env.RegisterHandler, `{"login":"a","email":"a@b.c","password":"secret1"}`).Code)
	assert.Equal(t, http.StatusInternalServerError,
		post(env.AuthHandler, `{"login":"a","password":"secret1"}`).Code)
}

func TestAuthMiddleware(t *testing.T) {
	env := newEnv()
	var got User
	h := env.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = UserFromContext(r.Context())
	}))

	t.Run("no cookie", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid session", func(t *testing.T) {
		rec := httptest.NewRecorder()
		require.NoError(t, env.addCookie(rec, 42, "ana"))
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.AddCookie(sessionFrom(t, rec))

		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, User{ID: 42, Login: "ana"}, got)
	})

	t.Run("foreign key", func(t *testing.T) {
		other := &Authenv{JWTkey: []byte("other-key")}
		rec := httptest.NewRecorder()
		require.NoError(t, other.addCookie(rec, 1, "ana"))
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.AddCookie(sessionFrom(t, rec))

		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("expired", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"user_id": 1, "login": "ana", "exp": time.Now().Add(-time.Hour).Unix(),
		})
		s, err := token.SignedString(env.JWTkey)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.AddCookie(&http.Cookie{Name: sessionCookie, Value: s})

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRedirectIfLoggedIn(t *testing.T) {
	env := newEnv()
	h := env.RedirectIfLoggedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	cookieRec := httptest.NewRecorder()
	require.NoError(t, env.addCookie(cookieRec, 3, "caio"))
	req := httptest.NewRequest(http.MethodGet, "/auth/", nil)
	req.AddCookie(sessionFrom(t, cookieRec))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
}

func TestIPRateLimiterEvictsIdleIPs(t *testing.T) {
	now := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	l := NewIPRateLimiter(1, 3)
	l.now = func() time.Time { return now }

	l.getLimiter("10.0.0.1")
	l.getLimiter("10.0.0.2")
	assert.Len(t, l.ips, 2)

	now = now.Add(limiterIdleTTL / 2)
	l.getLimiter("10.0.0.2")

	now = now.Add(limiterIdleTTL/2 + time.Second)
	l.getLimiter("10.0.0.3")
	assert.Len(t, l.ips, 2)
	assert.NotContains(t, l.ips, "10.0.0.1")
	assert.Contains(t, l.ips, "10.0.0.2")
}

func TestIPRateLimiterKeepsUnrefilledBuckets(t *testing.T) {
	l := NewIPRateLimiter(0.001, 2)
	assert.Equal(t, 2000*time.Second, l.ttl)
}

func TestIPRateLimiter(t *testing.T) {
	l := NewIPRateLimiter(0.001, 2)
	h := l.LimitMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	call := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, call("10.0.0.1:5000"))
	assert.Equal(t, http.StatusOK, call("10.0.0.1:5001"), "ports share the IP bucket")
	assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.1:5002"))
	assert.Equal(t, http.StatusOK, call("10.0.0.2:5000"))
}
