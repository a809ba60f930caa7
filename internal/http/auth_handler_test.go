package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"ecofinds/internal/domain"
	"ecofinds/internal/service"
)

type mockUserRepo struct {
	usersByID    map[string]domain.User
	usersByEmail map[string]string
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		usersByID:    make(map[string]domain.User),
		usersByEmail: make(map[string]string),
	}
}

func (m *mockUserRepo) Create(_ context.Context, user domain.User) error {
	m.usersByID[user.ID] = user
	if user.Email != "" {
		m.usersByEmail[user.Email] = user.ID
	}
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (domain.User, error) {
	user, ok := m.usersByID[id]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return user, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (domain.User, error) {
	id, ok := m.usersByEmail[email]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return m.GetByID(context.Background(), id)
}

func (m *mockUserRepo) GetByVerificationCode(_ context.Context, code string, now time.Time) (domain.User, error) {
	for _, user := range m.usersByID {
		if user.VerificationCode == code && user.VerificationExpiresAt != nil && user.VerificationExpiresAt.After(now) {
			return user, nil
		}
	}
	return domain.User{}, pgx.ErrNoRows
}

func (m *mockUserRepo) GetByResetToken(_ context.Context, token string, now time.Time) (domain.User, error) {
	for _, user := range m.usersByID {
		if user.ResetToken == token && user.ResetExpiresAt != nil && user.ResetExpiresAt.After(now) {
			return user, nil
		}
	}
	return domain.User{}, pgx.ErrNoRows
}

func (m *mockUserRepo) MarkVerified(_ context.Context, id string) error {
	user, ok := m.usersByID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.IsVerified = true
	user.VerificationCode = ""
	user.VerificationExpiresAt = nil
	m.usersByID[id] = user
	return nil
}

func (m *mockUserRepo) SetResetToken(_ context.Context, id, token string, expiresAt time.Time) error {
	user, ok := m.usersByID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.ResetToken = token
	user.ResetExpiresAt = &expiresAt
	m.usersByID[id] = user
	return nil
}

func (m *mockUserRepo) ResetPassword(_ context.Context, id, passwordHash string) error {
	user, ok := m.usersByID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.PasswordHash = passwordHash
	user.ResetToken = ""
	user.ResetExpiresAt = nil
	m.usersByID[id] = user
	return nil
}

func (m *mockUserRepo) UpdateLastLogin(_ context.Context, id string, at time.Time) error {
	user, ok := m.usersByID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.LastLoginAt = &at
	m.usersByID[id] = user
	return nil
}

type mockEmailSender struct {
	lastCode     string
	lastResetURL string
}

func (m *mockEmailSender) SendVerificationCode(_ context.Context, _ string, code string, _ time.Time) error {
	m.lastCode = code
	return nil
}

func (m *mockEmailSender) SendWelcome(_ context.Context, _ string, _ string) error {
	return nil
}

func (m *mockEmailSender) SendPasswordReset(_ context.Context, _ string, resetURL string) error {
	m.lastResetURL = resetURL
	return nil
}

func (m *mockEmailSender) SendResetSuccess(_ context.Context, _ string) error {
	return nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *mockUserRepo, *mockEmailSender) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := newMockUserRepo()
	sender := &mockEmailSender{}
	logger := zap.NewNop()

	authSvc := service.NewAuthService(logger, repo, sender, nil, "http://localhost:5173")
	sessionSvc := service.NewSessionService("test-secret", 7*24*time.Hour)
	cookies := NewSessionCookies(false, 7*24*time.Hour)
	handler := NewAuthHandler(logger, authSvc, sessionSvc, cookies)

	return NewRouter(logger, handler, sessionSvc, "http://localhost:5173"), repo, sender
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var parsed map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &parsed); err != nil {
		t.Fatalf("unmarshal response %q: %v", rec.Body.String(), err)
	}
	return parsed
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookieName {
			return c
		}
	}
	return nil
}

func TestSignup_IssuesSessionAndReturnsUnverifiedUser(t *testing.T) {
	r, _, _ := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/api/auth/signup", map[string]string{
		"email": "a@x.com", "password": "Secr3t!", "name": "Ann",
	}, nil)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	body := parseBody(t, rec)
	if body["success"] != true {
		t.Fatalf("expected success=true, got %v", body)
	}
	user, ok := body["user"].(map[string]any)
	if !ok {
		t.Fatalf("expected user in body, got %v", body)
	}
	if user["is_verified"] != false {
		t.Fatalf("expected is_verified=false, got %v", user)
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Fatalf("response leaked password material: %s", rec.Body.String())
	}

	cookie := sessionCookie(rec)
	if cookie == nil || cookie.Value == "" {
		t.Fatalf("expected session cookie on signup")
	}
	if !cookie.HttpOnly {
		t.Fatalf("expected HttpOnly session cookie")
	}
}

func TestSignup_MissingFields(t *testing.T) {
	r, _, _ := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/api/auth/signup", map[string]string{
		"email": "a@x.com", "password": "", "name": "Ann",
	}, nil)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if parseBody(t, rec)["message"] != "All fields are required" {
		t.Fatalf("unexpected message: %s", rec.Body.String())
	}
}

func TestSignup_DuplicateEmail(t *testing.T) {
	r, _, _ := newTestRouter(t)

	first := doJSON(t, r, http.MethodPost, "/api/auth/signup", map[string]string{
		"email": "a@x.com", "password": "Secr3t!", "name": "Ann",
	}, nil)
	if first.Code != http.StatusCreated {
		t.Fatalf("first signup: %d", first.Code)
	}

	second := doJSON(t, r, http.MethodPost, "/api/auth/signup", map[string]string{
		"email": "a@x.com", "password": "Other1!", "name": "Bob",
	}, nil)
	if second.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", second.Code)
	}
	if parseBody(t, second)["message"] != "User already exists" {
		t.Fatalf("unexpected message: %s", second.Body.String())
	}
}

func TestVerifyEmail_UnknownCode(t *testing.T) {
	r, _, _ := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/api/auth/verify-email", map[string]string{"code": "000000"}, nil)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if parseBody(t, rec)["message"] != "Invalid or expired code" {
		t.Fatalf("unexpected message: %s", rec.Body.String())
	}
}

func TestVerifyEmail_Success(t *testing.T) {
	r, _, sender := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/api/auth/signup", map[string]string{
		"email": "a@x.com", "password": "Secr3t!", "name": "Ann",
	}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup: %d", rec.Code)
	}

	verify := doJSON(t, r, http.MethodPost, "/api/auth/verify-email", map[string]string{"code": sender.lastCode}, nil)
	if verify.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", verify.Code, verify.Body.String())
	}
	body := parseBody(t, verify)
	if body["message"] != "Email verified successfully" {
		t.Fatalf("unexpected message: %v", body)
	}
	user := body["user"].(map[string]any)
	if user["is_verified"] != true {
		t.Fatalf("expected verified user, got %v", user)
	}
}

func TestLogin_UniformErrorMessage(t *testing.T) {
	r, _, _ := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/api/auth/signup", map[string]string{
		"email": "a@x.com", "password": "Secr3t!", "name": "Ann",
	}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup: %d", rec.Code)
	}

	wrongPass := doJSON(t, r, http.MethodPost, "/api/auth/login", map[string]string{
		"email": "a@x.com", "password": "nope",
	}, nil)
	unknown := doJSON(t, r, http.MethodPost, "/api/auth/login", map[string]string{
		"email": "nobody@x.com", "password": "nope",
	}, nil)

	if wrongPass.Code != http.StatusBadRequest || unknown.Code != http.StatusBadRequest {
		t.Fatalf("expected 400/400, got %d/%d", wrongPass.Code, unknown.Code)
	}
	msg1 := parseBody(t, wrongPass)["message"]
	msg2 := parseBody(t, unknown)["message"]
	if msg1 != "Invalid credentials" || msg1 != msg2 {
		t.Fatalf("expected uniform message, got %v vs %v", msg1, msg2)
	}
}

func TestCheckAuth_Lifecycle(t *testing.T) {
	r, _, _ := newTestRouter(t)

	// Sin cookie: 401.
	noCookie := doJSON(t, r, http.MethodGet, "/api/auth/check-auth", nil, nil)
	if noCookie.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without cookie, got %d", noCookie.Code)
	}

	signup := doJSON(t, r, http.MethodPost, "/api/auth/signup", map[string]string{
		"email": "a@x.com", "password": "Secr3t!", "name": "Ann",
	}, nil)
	if signup.Code != http.StatusCreated {
		t.Fatalf("signup: %d", signup.Code)
	}
	signedUpUser := parseBody(t, signup)["user"].(map[string]any)
	cookie := sessionCookie(signup)
	if cookie == nil {
		t.Fatalf("expected session cookie")
	}

	check := doJSON(t, r, http.MethodGet, "/api/auth/check-auth", nil, []*http.Cookie{cookie})
	if check.Code != http.StatusOK {
		t.Fatalf("expected 200 with cookie, got %d: %s", check.Code, check.Body.String())
	}
	checkedUser := parseBody(t, check)["user"].(map[string]any)
	if checkedUser["id"] != signedUpUser["id"] {
		t.Fatalf("expected matching user id, got %v vs %v", checkedUser["id"], signedUpUser["id"])
	}

	// Cookie adulterada: 401.
	bad := *cookie
	bad.Value = cookie.Value + "x"
	tampered := doJSON(t, r, http.MethodGet, "/api/auth/check-auth", nil, []*http.Cookie{&bad})
	if tampered.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for tampered cookie, got %d", tampered.Code)
	}
}

func TestLogout_Idempotent(t *testing.T) {
	r, _, _ := newTestRouter(t)

	for i := 0; i < 2; i++ {
		rec := doJSON(t, r, http.MethodPost, "/api/auth/logout", nil, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("logout %d: expected 200, got %d", i, rec.Code)
		}
		body := parseBody(t, rec)
		if body["success"] != true || body["message"] != "Logged out successfully" {
			t.Fatalf("unexpected logout body: %v", body)
		}
	}
}

func TestLogout_ClearsSessionCookie(t *testing.T) {
	r, _, _ := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/api/auth/logout", nil, nil)
	cookie := sessionCookie(rec)
	if cookie == nil {
		t.Fatalf("expected cleared cookie header")
	}
	if cookie.Value != "" || cookie.MaxAge >= 0 {
		t.Fatalf("expected expired empty cookie, got %+v", cookie)
	}
}

func TestForgotAndResetPassword_Flow(t *testing.T) {
	r, _, sender := newTestRouter(t)

	signup := doJSON(t, r, http.MethodPost, "/api/auth/signup", map[string]string{
		"email": "a@x.com", "password": "Secr3t!", "name": "Ann",
	}, nil)
	if signup.Code != http.StatusCreated {
		t.Fatalf("signup: %d", signup.Code)
	}

	forgot := doJSON(t, r, http.MethodPost, "/api/auth/forgot-password", map[string]string{"email": "a@x.com"}, nil)
	if forgot.Code != http.StatusOK {
		t.Fatalf("forgot: %d: %s", forgot.Code, forgot.Body.String())
	}
	if parseBody(t, forgot)["message"] != "Reset link sent" {
		t.Fatalf("unexpected message: %s", forgot.Body.String())
	}

	token := sender.lastResetURL[strings.LastIndex(sender.lastResetURL, "/")+1:]
	reset := doJSON(t, r, http.MethodPost, "/api/auth/reset-password/"+token, map[string]string{"password": "NewPass1!"}, nil)
	if reset.Code != http.StatusOK {
		t.Fatalf("reset: %d: %s", reset.Code, reset.Body.String())
	}

	login := doJSON(t, r, http.MethodPost, "/api/auth/login", map[string]string{
		"email": "a@x.com", "password": "NewPass1!",
	}, nil)
	if login.Code != http.StatusOK {
		t.Fatalf("login with new password: %d", login.Code)
	}

	replay := doJSON(t, r, http.MethodPost, "/api/auth/reset-password/"+token, map[string]string{"password": "Again2!"}, nil)
	if replay.Code != http.StatusBadRequest {
		t.Fatalf("expected replayed token rejected, got %d", replay.Code)
	}
	if parseBody(t, replay)["message"] != "Invalid or expired token" {
		t.Fatalf("unexpected message: %s", replay.Body.String())
	}
}

func TestForgotPassword_UnknownEmail(t *testing.T) {
	r, _, _ := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/api/auth/forgot-password", map[string]string{"email": "nobody@x.com"}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if parseBody(t, rec)["message"] != "User not found" {
		t.Fatalf("unexpected message: %s", rec.Body.String())
	}
}
