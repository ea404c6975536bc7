package router

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"ledger/internal/events"
	"ledger/internal/logger"
	"ledger/internal/middleware"
	"ledger/internal/testutil"
)

const (
	testSecret = "router-test-secret"
	testIssuer = "https://auth.example.test"
)

// testApp holds the full application stack for flow tests.
type testApp struct {
	DB        *gorm.DB
	Router    *gin.Engine
	Publisher *recordingPublisher
}

// recordingPublisher captures published events.
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) routingKeys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	keys := make([]string, 0, len(p.events))
	for _, e := range p.events {
		keys = append(keys, e.RoutingKey())
	}
	return keys
}

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	publisher := &recordingPublisher{}
	router := New(Options{
		DB:        db,
		JWTSecret: testSecret,
		JWTIssuer: testIssuer,
		Currency:  "USD",
		Publisher: publisher,
	})
	return &testApp{DB: db, Router: router, Publisher: publisher}
}

// tokenFor mints a bearer token for userID as the auth provider would.
func tokenFor(t *testing.T, userID string) string {
	t.Helper()
	token, err := middleware.IssueToken(testSecret, testIssuer, userID, time.Hour)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	return token
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func dataObject(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	data, ok := parseJSON(t, rec)["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected data object, got %s", rec.Body.String())
	}
	return data
}

func dataList(t *testing.T, rec *httptest.ResponseRecorder) []interface{} {
	t.Helper()
	data, ok := parseJSON(t, rec)["data"].([]interface{})
	if !ok {
		t.Fatalf("expected data list, got %s", rec.Body.String())
	}
	return data
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	errObj, ok := parseJSON(t, rec)["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object, got %s", rec.Body.String())
	}
	code, _ := errObj["code"].(string)
	return code
}

// createNamed creates an account or category and returns its id.
func (app *testApp) createNamed(t *testing.T, resource, name, token string) string {
	t.Helper()
	rec := app.request(http.MethodPost, "/api/"+resource, fmt.Sprintf(`{"name":%q}`, name), token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create %s failed: %d %s", resource, rec.Code, rec.Body.String())
	}
	return dataObject(t, rec)["id"].(string)
}

// createTransaction creates a transaction and returns its id.
func (app *testApp) createTransaction(t *testing.T, token, accountID string, categoryID *string, amount int64, date time.Time) string {
	t.Helper()
	category := "null"
	if categoryID != nil {
		category = fmt.Sprintf("%q", *categoryID)
	}
	body := fmt.Sprintf(`{"accountId":%q,"categoryId":%s,"payee":"Payee","amount":%d,"date":%q}`,
		accountID, category, amount, date.Format("2006-01-02"))
	rec := app.request(http.MethodPost, "/api/transactions", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create transaction failed: %d %s", rec.Code, rec.Body.String())
	}
	return dataObject(t, rec)["id"].(string)
}
