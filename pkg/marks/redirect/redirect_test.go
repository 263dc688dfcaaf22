package redirect

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mikepea/marks/pkg/marks/links"
	"github.com/mikepea/marks/pkg/marks/models"
	"github.com/mikepea/marks/pkg/marks/shorturl"
	"github.com/mikepea/marks/pkg/marks/tags"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	models.AutoMigrate(db)
	return db
}

func setupTestStore(t *testing.T) *links.Store {
	db := setupTestDB(t)
	return links.NewStore(db, shorturl.New(shorturl.DefaultSeed), tags.NewStore(db, nil), nil, nil)
}

func createTestLink(t *testing.T, store *links.Store, url string, private bool) *links.Bookmark {
	title, description := "Test Link", ""
	b, err := store.Create(context.Background(), links.CreateInput{
		URL:         url,
		Title:       &title,
		Description: &description,
		Tags:        []string{},
		Private:     &private,
	})
	if err != nil {
		t.Fatalf("Failed to create test link: %v", err)
	}
	return b
}

func setupTestRouter(store *links.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(store).RegisterRoutes(r)
	return r
}

func TestRedirectPublicLink(t *testing.T) {
	store := setupTestStore(t)
	router := setupTestRouter(store)
	link := createTestLink(t, store, "https://example.com", false)

	req, _ := http.NewRequest("GET", "/"+link.Alias(), nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusFound {
		t.Fatalf("Expected status 302, got %d: %s", resp.Code, resp.Body.String())
	}
	if location := resp.Header().Get("Location"); location != "https://example.com" {
		t.Errorf("Expected redirect to https://example.com, got %s", location)
	}
}

func TestRedirectPrivateLink(t *testing.T) {
	store := setupTestStore(t)
	router := setupTestRouter(store)
	link := createTestLink(t, store, "https://private.example.com", true)

	req, _ := http.NewRequest("GET", "/"+link.Alias(), nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusFound {
		t.Errorf("Expected status 302, got %d", resp.Code)
	}
}

func TestRedirectNotFound(t *testing.T) {
	store := setupTestStore(t)
	router := setupTestRouter(store)
	createTestLink(t, store, "https://example.com", false)

	codec := shorturl.New(shorturl.DefaultSeed)
	for _, alias := range []string{"nonexistent!", "1", codec.Encode(12345)} {
		req, _ := http.NewRequest("GET", "/"+alias, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		if resp.Code != http.StatusNotFound {
			t.Errorf("/%s: expected status 404, got %d", alias, resp.Code)
		}
	}
}
