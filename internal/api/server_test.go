package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SundayYogurt/application_service/config"
	"github.com/SundayYogurt/application_service/internal/helper"
	"github.com/SundayYogurt/application_service/internal/metrics"
	"github.com/SundayYogurt/application_service/internal/repository"
	"github.com/SundayYogurt/application_service/internal/services"
	"github.com/SundayYogurt/application_service/internal/testutil"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

type downDB struct{}

func (downDB) Ping(context.Context) error { return errors.New("connection refused") }

type fakeUploader struct {
	folder string
	size   int
	err    error
}

func (u *fakeUploader) UploadBytes(_ context.Context, folder, filename string, b []byte) (string, error) {
	u.folder, u.size = folder, len(b)
	if u.err != nil {
		return "", u.err
	}
	return "https://cdn.example/" + folder + "/" + filename + ".jpg", nil
}

type testServer struct {
	app   *fiber.App
	store *repository.Store
	auth  helper.Auth
}

func newTestServer(t *testing.T, cfg config.Config, mutate func(*Deps)) *testServer {
	t.Helper()
	if cfg.BaseURL == "" {
		cfg.BaseURL = "*"
	}

	store := repository.NewStore(testutil.OpenDB(t))
	repos := store.Repositories()
	m := metrics.New()
	opts := services.Options{BcryptCost: bcrypt.MinCost, Metrics: m}
	auth := helper.SetupAuth(testSecret)

	deps := Deps{
		Intake:   services.NewIntakeService(repos.Applications, repos.Accounts, store, opts),
		Decision: services.NewDecisionService(store, store, nil, opts),
		Stats:    services.NewStatsService(repos.Applications, store),
		Health:   store,
		Auth:     auth,
		Metrics:  m,
	}
	if mutate != nil {
		mutate(&deps)
	}
	return &testServer{app: NewApp(cfg, deps), store: store, auth: auth}
}

func (s *testServer) token(t *testing.T, role string) string {
	t.Helper()
	tok, err := s.auth.GenerateToken("rev-1", "reviewer@amiable.example", role, time.Hour)
	require.NoError(t, err)
	return tok
}

func (s *testServer) do(t *testing.T, method, path string, body any, token string) (int, map[string]any) {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return s.send(t, req)
}

func (s *testServer) send(t *testing.T, req *http.Request) (int, map[string]any) {
	t.Helper()
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &out)
	}
	return resp.StatusCode, out
}

func talentForm(email string) map[string]any {
	return map[string]any{
		"name":       "Asha Rao",
		"email":      email,
		"password":   "s3cret-pass",
		"purpose":    "talent",
		"role":       "acting",
		"category":   "Film",
		"experience": "5-10 years",
		"skills":     []string{"Acting"},
		"languages":  []string{"Hindi"},
		"location":   "Mumbai",
		"bio":        "Stage and screen actor with ten years of regional theatre and two feature films.",
	}
}

func TestSubmitEndpoint(t *testing.T) {
	s := newTestServer(t, config.Config{}, nil)

	status, body := s.do(t, http.MethodPost, "/api/applications", talentForm("a@x.com"), "")
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Application submitted successfully! Please wait for admin approval.", body["message"])
	app := body["application"].(map[string]any)
	assert.Equal(t, "pending", app["status"])
	assert.NotContains(t, app, "password")

	status, body = s.do(t, http.MethodPost, "/api/applications", talentForm("A@X.com"), "")
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "An application with this email already exists", body["message"])

	status, body = s.do(t, http.MethodPost, "/api/applications", map[string]any{"purpose": "talent"}, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Validation failed", body["message"])
	fields := body["errors"].(map[string]any)
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "bio")

	req := httptest.NewRequest(http.MethodPost, "/api/applications", bytes.NewBufferString("{oops"))
	req.Header.Set("Content-Type", "application/json")
	status, _ = s.send(t, req)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestReviewerRoutesRequireSession(t *testing.T) {
	s := newTestServer(t, config.Config{}, nil)

	status, _ := s.do(t, http.MethodGet, "/api/applications", nil, "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = s.do(t, http.MethodGet, "/api/applications", nil, "garbage")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body := s.do(t, http.MethodGet, "/api/applications/stats", nil, s.token(t, "talent"))
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Reviewer access required", body["message"])

	req := httptest.NewRequest(http.MethodGet, "/api/applications", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: s.token(t, "reviewer")})
	status, _ = s.send(t, req)
	assert.Equal(t, http.StatusOK, status)
}

func TestDecisionEndpoints(t *testing.T) {
	s := newTestServer(t, config.Config{}, nil)
	admin := s.token(t, "admin")

	_, body := s.do(t, http.MethodPost, "/api/applications", talentForm("a@x.com"), "")
	first := body["application"].(map[string]any)["id"].(string)
	_, body = s.do(t, http.MethodPost, "/api/applications", talentForm("b@x.com"), "")
	second := body["application"].(map[string]any)["id"].(string)

	status, body := s.do(t, http.MethodPut, "/api/applications/"+first+"/approve", nil, admin)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "a@x.com", body["user"].(map[string]any)["email"])

	status, body = s.do(t, http.MethodPut, "/api/applications/"+first+"/approve", nil, admin)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "Application has already been processed", body["message"])

	status, _ = s.do(t, http.MethodPut, "/api/applications/"+first+"/reject", nil, admin)
	assert.Equal(t, http.StatusConflict, status)

	status, body = s.do(t, http.MethodPut, "/api/applications/"+second+"/reject",
		map[string]any{"email": "someone@else.com"}, admin)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["errors"], "email")

	status, _ = s.do(t, http.MethodPut, "/api/applications/"+second+"/reject",
		map[string]any{"email": "B@x.com", "reason": "incomplete portfolio"}, admin)
	assert.Equal(t, http.StatusOK, status)

	status, body = s.do(t, http.MethodGet, "/api/applications/"+second, nil, admin)
	require.Equal(t, http.StatusOK, status)
	got := body["application"].(map[string]any)
	assert.Equal(t, "rejected", got["status"])
	assert.Equal(t, "incomplete portfolio", got["adminNotes"])

	status, body = s.do(t, http.MethodGet, "/api/applications/stats", nil, admin)
	require.Equal(t, http.StatusOK, status)
	stats := body["stats"].(map[string]any)
	assert.EqualValues(t, 2, stats["total"])
	assert.EqualValues(t, 0, stats["pending"])
	assert.EqualValues(t, 1, stats["approved"])
	assert.EqualValues(t, 1, stats["rejected"])

	status, body = s.do(t, http.MethodGet, "/api/applications?status=approved", nil, admin)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["applications"], 1)

	status, _ = s.do(t, http.MethodGet, "/api/applications?status=archived", nil, admin)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = s.do(t, http.MethodPut, "/api/applications/not-a-uuid/approve", nil, admin)
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = s.do(t, http.MethodPut, "/api/applications/00000000-0000-0000-0000-000000000001/approve", nil, admin)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Application not found", body["message"])

	status, _ = s.do(t, http.MethodPost, "/api/applications", talentForm("a@x.com"), "")
	assert.Equal(t, http.StatusConflict, status)
}

func TestHealthAndServiceUnavailable(t *testing.T) {
	s := newTestServer(t, config.Config{}, nil)
	status, body := s.do(t, http.MethodGet, "/api/health", nil, "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])

	down := newTestServer(t, config.Config{}, func(d *Deps) {
		repos := repository.NewStore(testutil.OpenDB(t)).Repositories()
		d.Health = downDB{}
		d.Intake = services.NewIntakeService(repos.Applications, repos.Accounts, downDB{}, services.Options{})
	})
	status, body = down.do(t, http.MethodGet, "/api/health", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "degraded", body["status"])

	status, body = down.do(t, http.MethodPost, "/api/applications", talentForm("a@x.com"), "")
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "Database not available. Please try again later.", body["message"])
}

func TestPublicRateLimit(t *testing.T) {
	s := newTestServer(t, config.Config{RateLimitMax: 2, RateLimitWindow: time.Minute}, nil)

	for i, email := range []string{"a@x.com", "b@x.com"} {
		status, _ := s.do(t, http.MethodPost, "/api/applications", talentForm(email), "")
		require.Equal(t, http.StatusCreated, status, "request %d", i)
	}
	status, body := s.do(t, http.MethodPost, "/api/applications", talentForm("c@x.com"), "")
	assert.Equal(t, http.StatusTooManyRequests, status)
	assert.Equal(t, rateLimitMessage, body["message"])

	status, _ = s.do(t, http.MethodGet, "/api/applications", nil, s.token(t, "admin"))
	assert.Equal(t, http.StatusOK, status)
}

func pngUpload(t *testing.T, filename string) *http.Request {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 40, 20))
	for x := 0; x < 40; x++ {
		for y := 0; y < 20; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 6), G: 80, B: 160, A: 255})
		}
	}
	var pngBuf bytes.Buffer
	require.NoError(t, png.Encode(&pngBuf, img))

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(pngBuf.Bytes())
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/uploads/profile-image", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestProfileImageUpload(t *testing.T) {
	up := &fakeUploader{}
	s := newTestServer(t, config.Config{}, func(d *Deps) { d.Uploader = up })

	status, body := s.send(t, pngUpload(t, "me.png"))
	require.Equal(t, http.StatusCreated, status)
	assert.Contains(t, body["url"], "https://cdn.example/amiable/profile_images/")
	assert.Equal(t, "amiable/profile_images", up.folder)
	assert.Positive(t, up.size)

	status, _ = s.send(t, pngUpload(t, "me.gif"))
	assert.Equal(t, http.StatusBadRequest, status)

	up.err = errors.New("cloud down")
	status, _ = s.send(t, pngUpload(t, "me.png"))
	assert.Equal(t, http.StatusBadGateway, status)

	unconfigured := newTestServer(t, config.Config{}, nil)
	status, _ = unconfigured.send(t, pngUpload(t, "me.png"))
	assert.Equal(t, http.StatusServiceUnavailable, status)
}

func TestMetricsAndUnknownRoute(t *testing.T) {
	s := newTestServer(t, config.Config{}, nil)
	s.do(t, http.MethodPost, "/api/applications", talentForm("a@x.com"), "")

	resp, err := s.app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "amiable_applications_submitted_total")

	status, body := s.do(t, http.MethodGet, "/api/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Route not found", body["message"])
}
