package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikepea/marks/pkg/marks/auth"
	"github.com/mikepea/marks/pkg/marks/config"
	"github.com/mikepea/marks/pkg/marks/metatag"
	"github.com/mikepea/marks/pkg/marks/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testPassword = "hunter2"

const samplePage = `<html><head>
<title>Sample Page</title>
<meta name="description" content="A page about samples">
<meta name="keywords" content="sample, test">
</head><body></body></html>`

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	return db
}

// setupFullServer returns the complete router and a site serving samplePage.
func setupFullServer(t *testing.T) (*gin.Engine, *httptest.Server) {
	gin.SetMode(gin.TestMode)

	hash, err := auth.HashPassword(testPassword)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	site := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, samplePage)
	}))
	t.Cleanup(site.Close)

	cfg := &config.Config{
		Seed:           1000,
		Secret:         "test-secret",
		TokenTTL:       time.Hour,
		AdminPassword:  hash,
		RequestTimeout: 5 * time.Second,
		Site:           config.Site{Title: "marks", Timezone: "UTC"},
	}
	loader := metatag.NewLoader(2*time.Second, "")
	return New(cfg, setupTestDB(t), nil, loader), site
}

func doRequest(r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func login(t *testing.T, r *gin.Engine) string {
	t.Helper()
	resp := doRequest(r, "POST", "/api/v1/auth/token", "", gin.H{"password": testPassword})
	if resp.Code != http.StatusOK {
		t.Fatalf("Login failed: %d %s", resp.Code, resp.Body.String())
	}
	var body auth.TokenResponse
	json.Unmarshal(resp.Body.Bytes(), &body)
	return body.Token
}

func TestHealthAndRequestID(t *testing.T) {
	r, _ := setupFullServer(t)

	resp := doRequest(r, "GET", "/health", "", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.Code)
	}
	if resp.Header().Get(RequestIDHeader) == "" {
		t.Error("Expected a generated request id")
	}

	req, _ := http.NewRequest("GET", "/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if got := rec.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Errorf("Expected client request id to be echoed, got %q", got)
	}
}

func TestBookmarkLifecycle(t *testing.T) {
	r, site := setupFullServer(t)
	token := login(t, r)

	// Title, description and tags all come from the page.
	resp := doRequest(r, "POST", "/api/v1/links", token, gin.H{"url": site.URL})
	if resp.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var link struct {
		ID       uint     `json:"id"`
		ShortURL string   `json:"shorturl"`
		Title    string   `json:"title"`
		Private  bool     `json:"private"`
		Tags     []string `json:"tags"`
	}
	json.Unmarshal(resp.Body.Bytes(), &link)
	if link.Title != "Sample Page" || len(link.Tags) != 2 || !link.Private {
		t.Errorf("Unexpected link %+v", link)
	}

	resp = doRequest(r, "GET", "/"+link.ShortURL, "", nil)
	if resp.Code != http.StatusFound || resp.Header().Get("Location") != site.URL {
		t.Errorf("Expected redirect to %s, got %d %q", site.URL, resp.Code, resp.Header().Get("Location"))
	}
	if resp := doRequest(r, "GET", "/zzzzzz", "", nil); resp.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 for unknown alias, got %d", resp.Code)
	}

	var anon []interface{}
	resp = doRequest(r, "GET", "/api/v1/links", "", nil)
	json.Unmarshal(resp.Body.Bytes(), &anon)
	if len(anon) != 0 {
		t.Errorf("Anonymous caller should not see the private link, got %d", len(anon))
	}

	resp = doRequest(r, "GET", "/api/v1/tags?limit=all", "", nil)
	if resp.Code != http.StatusOK {
		t.Errorf("Expected tags to be readable anonymously, got %d", resp.Code)
	}

	resp = doRequest(r, "DELETE", fmt.Sprintf("/api/v1/links/%d", link.ID), token, nil)
	if resp.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", resp.Code)
	}

	resp = doRequest(r, "GET", "/api/v1/history", token, nil)
	var entries []models.HistoryEntry
	json.Unmarshal(resp.Body.Bytes(), &entries)
	if len(entries) != 2 || entries[0].Event != models.EventCreated || entries[1].Event != models.EventDeleted {
		t.Errorf("Expected CREATED then DELETED, got %+v", entries)
	}
}

func TestSettingsDrivePrivacyDefault(t *testing.T) {
	r, site := setupFullServer(t)
	token := login(t, r)

	resp := doRequest(r, "PUT", "/api/v1/settings", token, gin.H{"default_private_links": false})
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	doRequest(r, "POST", "/api/v1/links", token, gin.H{"url": site.URL, "title": "t", "description": "", "tags": []string{}})

	resp = doRequest(r, "GET", "/api/v1/info", token, nil)
	var body struct {
		GlobalCounter  int64 `json:"global_counter"`
		PrivateCounter int64 `json:"private_counter"`
	}
	json.Unmarshal(resp.Body.Bytes(), &body)
	if body.GlobalCounter != 1 || body.PrivateCounter != 0 {
		t.Errorf("Expected one public link, got %+v", body)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r, _ := setupFullServer(t)

	tests := []struct {
		method string
		path   string
	}{
		{"POST", "/api/v1/links"},
		{"DELETE", "/api/v1/links"},
		{"PUT", "/api/v1/tags/go"},
		{"GET", "/api/v1/history"},
		{"GET", "/api/v1/info"},
		{"PUT", "/api/v1/settings"},
		{"POST", "/api/v1/import"},
		{"GET", "/api/v1/export"},
	}
	for _, tt := range tests {
		if resp := doRequest(r, tt.method, tt.path, "", nil); resp.Code != http.StatusForbidden {
			t.Errorf("%s %s: expected status 403, got %d", tt.method, tt.path, resp.Code)
		}
		if resp := doRequest(r, tt.method, tt.path, "not-a-token", nil); resp.Code != http.StatusForbidden {
			t.Errorf("%s %s: expected status 403 for bad token, got %d", tt.method, tt.path, resp.Code)
		}
	}

	if resp := doRequest(r, "POST", "/api/v1/auth/token", "", gin.H{"password": "wrong"}); resp.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401 for wrong password, got %d", resp.Code)
	}
}

func TestTimeoutSetsDeadline(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Timeout(time.Second))

	var hasDeadline bool
	r.GET("/", func(c *gin.Context) {
		_, hasDeadline = c.Request.Context().Deadline()
		c.Status(http.StatusOK)
	})

	req, _ := http.NewRequest("GET", "/", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)
	if !hasDeadline {
		t.Error("Expected the request context to carry a deadline")
	}
}
