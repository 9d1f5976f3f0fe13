package api_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/habit/api"
	"github.com/kbukum/habit/auth"
	"github.com/kbukum/habit/auth/credential"
	"github.com/kbukum/habit/auth/jwt"
	"github.com/kbukum/habit/logger"
	"github.com/kbukum/habit/server"
	"github.com/kbukum/habit/server/middleware"
	"github.com/kbukum/habit/server/testutil"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestAPI(t *testing.T, limit int) (*testutil.Server, *clock) {
	t.Helper()
	clk := &clock{now: time.Unix(1700000000, 0)}
	cfg := auth.Config{JWT: jwt.Config{Secret: "test-signing-secret"}}
	svc, err := credential.NewService(cfg, credential.NewMemoryStore(),
		credential.WithClock(clk.Now),
		credential.WithLogger(logger.Nop()),
	)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	scfg := server.Config{Host: "127.0.0.1"}
	scfg.ApplyDefaults()
	srv := server.New(scfg, logger.Nop())
	gin.SetMode(gin.TestMode)
	api.NewHandler(svc, middleware.RateLimitConfig{RequestsPerMinute: limit}).Mount(srv.GinEngine())
	return testutil.NewServer(t, srv), clk
}

func token(t *testing.T, resp *testutil.Response) string {
	t.Helper()
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, resp.Body)
	}
	var body api.TokenResponse
	resp.Decode(t, &body)
	if body.Token == "" {
		t.Fatal("expected token in response")
	}
	return body.Token
}

var elon = map[string]string{"name": "ElonMusk", "email": "elon@example.com", "password": "g0t0m@rs"}

func TestRegisterLogInMe(t *testing.T) {
	ts, _ := newTestAPI(t, 0)

	t1 := token(t, ts.Do(t, "POST", "/auth/register", elon, ""))

	resp := ts.Do(t, "GET", "/me", nil, t1)
	if resp.StatusCode != 200 {
		t.Fatalf("GET /me: %d %s", resp.StatusCode, resp.Body)
	}
	var me map[string]interface{}
	resp.Decode(t, &me)
	if me["id"] != "1" || me["name"] != "ElonMusk" || me["email"] != "elon@example.com" {
		t.Errorf("unexpected /me body %v", me)
	}
	for _, secret := range []string{"salt", "secret", "password", "last_password_update"} {
		if _, ok := me[secret]; ok {
			t.Errorf("/me leaked %q", secret)
		}
	}

	t2 := token(t, ts.Do(t, "POST", "/auth/log_in", map[string]string{"name": "ElonMusk", "password": "g0t0m@rs"}, ""))
	if resp := ts.Do(t, "GET", "/me", nil, t2); resp.StatusCode != 200 {
		t.Errorf("login token rejected: %d", resp.StatusCode)
	}
}

func TestLogInFailuresAreIndistinguishable(t *testing.T) {
	ts, _ := newTestAPI(t, 0)
	token(t, ts.Do(t, "POST", "/auth/register", elon, ""))

	wrong := ts.Do(t, "POST", "/auth/log_in", map[string]string{"name": "ElonMusk", "password": "wrongpass"}, "")
	unknown := ts.Do(t, "POST", "/auth/log_in", map[string]string{"name": "Nobody", "password": "wrongpass"}, "")
	if wrong.StatusCode != 401 || unknown.StatusCode != 401 {
		t.Fatalf("expected 401s, got %d and %d", wrong.StatusCode, unknown.StatusCode)
	}
	if string(wrong.Body) != string(unknown.Body) {
		t.Errorf("bodies differ:\n%s\n%s", wrong.Body, unknown.Body)
	}
}

func TestLogInWithUnhashablePasswordDoesNotRevealName(t *testing.T) {
	ts, _ := newTestAPI(t, 0)
	token(t, ts.Do(t, "POST", "/auth/register", elon, ""))

	pw := "\xff\xfe"
	known := ts.PostForm(t, "/auth/log_in", url.Values{"name": {"ElonMusk"}, "password": {pw}})
	unknown := ts.PostForm(t, "/auth/log_in", url.Values{"name": {"Nobody"}, "password": {pw}})
	if known.StatusCode != 401 || unknown.StatusCode != 401 {
		t.Fatalf("expected 401s, got %d and %d", known.StatusCode, unknown.StatusCode)
	}
	if string(known.Body) != string(unknown.Body) {
		t.Errorf("bodies differ:\n%s\n%s", known.Body, unknown.Body)
	}
}

func TestMissingFields(t *testing.T) {
	ts, _ := newTestAPI(t, 0)
	tests := []struct {
		path string
		body map[string]string
		msg  string
	}{
		{"/auth/log_in", nil, "Name is missing"},
		{"/auth/log_in", map[string]string{"name": "ElonMusk"}, "Password is missing"},
		{"/auth/register", map[string]string{"name": "ElonMusk", "password": "g0t0m@rs"}, "Email is missing"},
		{"/auth/update_password", map[string]string{"name": "ElonMusk", "password": "g0t0m@rs"}, "New password is missing"},
	}
	for _, tc := range tests {
		t.Run(tc.msg, func(t *testing.T) {
			var body any
			if tc.body != nil {
				body = tc.body
			}
			resp := ts.Do(t, "POST", tc.path, body, "")
			if resp.StatusCode != 400 {
				t.Fatalf("expected 400, got %d", resp.StatusCode)
			}
			var env struct {
				Error struct {
					Code    string `json:"code"`
					Message string `json:"message"`
				} `json:"error"`
			}
			resp.Decode(t, &env)
			if env.Error.Code != "MISSING_FIELD" || env.Error.Message != tc.msg {
				t.Errorf("got %s %q, want MISSING_FIELD %q", env.Error.Code, env.Error.Message, tc.msg)
			}
		})
	}
}

func TestRegisterConflictsAndValidation(t *testing.T) {
	ts, _ := newTestAPI(t, 0)
	token(t, ts.Do(t, "POST", "/auth/register", elon, ""))

	resp := ts.Do(t, "POST", "/auth/register", elon, "")
	if resp.StatusCode != 409 || resp.ErrorCode(t) != "CREDENTIAL_EXISTS" {
		t.Errorf("duplicate register: %d %s", resp.StatusCode, resp.Body)
	}

	bad := map[string]string{"name": "elon musk", "email": "nope", "password": "short"}
	resp = ts.Do(t, "POST", "/auth/register", bad, "")
	if resp.StatusCode != 400 || resp.ErrorCode(t) != "VALIDATION_ERROR" {
		t.Errorf("invalid register: %d %s", resp.StatusCode, resp.Body)
	}
}

func TestUpdatePasswordRevokesOldTokens(t *testing.T) {
	ts, clk := newTestAPI(t, 0)
	t1 := token(t, ts.Do(t, "POST", "/auth/register", elon, ""))

	clk.Advance(30 * time.Second)
	t2 := token(t, ts.Do(t, "POST", "/auth/update_password", map[string]string{
		"name": "ElonMusk", "password": "g0t0m@rs", "new_password": "g0t0m@rs2",
	}, ""))

	if resp := ts.Do(t, "GET", "/me", nil, t1); resp.StatusCode != 403 {
		t.Errorf("stale token should be forbidden, got %d", resp.StatusCode)
	}
	if resp := ts.Do(t, "GET", "/me", nil, t2); resp.StatusCode != 200 {
		t.Errorf("fresh token rejected: %d", resp.StatusCode)
	}

	resp := ts.Do(t, "POST", "/auth/log_in", map[string]string{"name": "ElonMusk", "password": "g0t0m@rs"}, "")
	if resp.StatusCode != 401 {
		t.Errorf("old password should fail, got %d", resp.StatusCode)
	}
	token(t, ts.Do(t, "POST", "/auth/log_in", map[string]string{"name": "ElonMusk", "password": "g0t0m@rs2"}, ""))
}

func TestUpdatePasswordUnchanged(t *testing.T) {
	ts, _ := newTestAPI(t, 0)
	token(t, ts.Do(t, "POST", "/auth/register", elon, ""))

	resp := ts.Do(t, "POST", "/auth/update_password", map[string]string{
		"name": "ElonMusk", "password": "g0t0m@rs", "new_password": "g0t0m@rs",
	}, "")
	if resp.StatusCode != 400 || resp.ErrorCode(t) != "PASSWORD_UNCHANGED" {
		t.Errorf("unexpected response %d %s", resp.StatusCode, resp.Body)
	}
}

func TestUpdatePasswordRejectsOtherIdentity(t *testing.T) {
	ts, _ := newTestAPI(t, 0)
	token(t, ts.Do(t, "POST", "/auth/register", elon, ""))
	other := token(t, ts.Do(t, "POST", "/auth/register", map[string]string{
		"name": "Gwynne", "email": "gwynne@example.com", "password": "starship1",
	}, ""))

	resp := ts.Do(t, "POST", "/auth/update_password", map[string]string{
		"name": "ElonMusk", "password": "g0t0m@rs", "new_password": "hijacked1",
	}, other)
	if resp.StatusCode != 403 || resp.ErrorCode(t) != "INVALID_CREDENTIALS" {
		t.Fatalf("unexpected response %d %s", resp.StatusCode, resp.Body)
	}
	token(t, ts.Do(t, "POST", "/auth/log_in", map[string]string{"name": "ElonMusk", "password": "g0t0m@rs"}, ""))
}

func TestTokenExpiry(t *testing.T) {
	ts, clk := newTestAPI(t, 0)
	tok := token(t, ts.Do(t, "POST", "/auth/register", elon, ""))

	clk.Advance(10*time.Minute - time.Second)
	if resp := ts.Do(t, "GET", "/me", nil, tok); resp.StatusCode != 200 {
		t.Fatalf("token should still verify, got %d", resp.StatusCode)
	}
	clk.Advance(time.Second)
	if resp := ts.Do(t, "GET", "/me", nil, tok); resp.StatusCode != 403 {
		t.Errorf("expired token should be forbidden, got %d", resp.StatusCode)
	}
}

func TestMeRequiresIdentity(t *testing.T) {
	ts, _ := newTestAPI(t, 0)
	for _, tok := range []string{"", "not-a-jwt"} {
		resp := ts.Do(t, "GET", "/me", nil, tok)
		if resp.StatusCode != 403 || resp.ErrorCode(t) != "INVALID_CREDENTIALS" {
			t.Errorf("token %q: %d %s", tok, resp.StatusCode, resp.Body)
		}
	}
}

func TestMeWithoutIdentityIsRejected(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", api.NewHandler(nil, middleware.RateLimitConfig{}).Me)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/me", http.NoBody))
	if rr.Code != http.StatusForbidden || !strings.Contains(rr.Body.String(), `"INVALID_CREDENTIALS"`) {
		t.Errorf("unexpected response %d %s", rr.Code, rr.Body.String())
	}
}

func TestAuthRoutesAreRateLimited(t *testing.T) {
	ts, _ := newTestAPI(t, 2)
	body := map[string]string{"name": "Nobody", "password": "whatever1"}
	for i := 0; i < 2; i++ {
		if resp := ts.Do(t, "POST", "/auth/log_in", body, ""); resp.StatusCode != 401 {
			t.Fatalf("attempt %d: %d", i, resp.StatusCode)
		}
	}
	if resp := ts.Do(t, "POST", "/auth/log_in", body, ""); resp.StatusCode != 429 {
		t.Errorf("expected 429, got %d", resp.StatusCode)
	}
}

func TestMalformedBody(t *testing.T) {
	ts, _ := newTestAPI(t, 0)
	resp := ts.Do(t, "POST", "/auth/log_in", []int{1, 2}, "")
	if resp.StatusCode != 400 || resp.ErrorCode(t) != "INVALID_INPUT" {
		t.Errorf("unexpected response %d %s", resp.StatusCode, resp.Body)
	}
}
