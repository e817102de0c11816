package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"moneytrack/internal/auth"
	"moneytrack/internal/handler"
	"moneytrack/internal/model"
	"moneytrack/internal/repository"
	"moneytrack/internal/router"
	"moneytrack/internal/service"
)

// testApp wires the full router over an in-memory sqlite database, so
// requests exercise the gates, handlers, services and repositories
// together.
type testApp struct {
	e  *echo.Echo
	db *gorm.DB
}

func newTestApp(t *testing.T, accessTTL time.Duration) *testApp {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	// one connection, or every pooled conn would see its own :memory: db
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, gdb.AutoMigrate(&model.User{}, &model.Category{}, &model.Record{}))

	tokens := auth.NewTokenService("test-secret", accessTTL)

	userRepo := repository.NewUserRepository(gdb)
	categoryRepo := repository.NewCategoryRepository(gdb)
	recordRepo := repository.NewRecordRepository(gdb)

	authHandler := handler.NewAuthHandler(service.NewAuthService(userRepo, tokens))
	userHandler := handler.NewUserHandler(service.NewUserService(userRepo, nil))
	categoryHandler := handler.NewCategoryHandler(service.NewCategoryService(categoryRepo, nil))
	recordHandler := handler.NewRecordHandler(service.NewRecordService(recordRepo, categoryRepo))

	e := echo.New()
	router.Register(e, tokens, authHandler, userHandler, categoryHandler, recordHandler)
	return &testApp{e: e, db: gdb}
}

func (app *testApp) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.e.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

// register creates a user through the public endpoint and returns the
// issued token pair.
func (app *testApp) register(t *testing.T, email string) auth.TokenPair {
	t.Helper()

	rec := app.request(t, "POST", "/api/auth/register", "", map[string]string{
		"email":    email,
		"password": "qwerty1",
		"confirm":  "qwerty1",
		"name":     "Eugene",
	})
	require.Equal(t, 201, rec.Code, rec.Body.String())

	var pair auth.TokenPair
	decodeJSON(t, rec, &pair)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	return pair
}

// createCategory creates a category for the given session and returns
// its id.
func (app *testApp) createCategory(t *testing.T, token, title string, limit int) uint {
	t.Helper()

	rec := app.request(t, "POST", "/api/category", token, map[string]interface{}{
		"title": title,
		"limit": limit,
	})
	require.Equal(t, 201, rec.Code, rec.Body.String())

	var created struct {
		ID uint `json:"id"`
	}
	decodeJSON(t, rec, &created)
	require.NotZero(t, created.ID)
	return created.ID
}

// validationParams extracts the failing field names from a 422 body.
func validationParams(t *testing.T, rec *httptest.ResponseRecorder) []string {
	t.Helper()

	var body struct {
		Errors []struct {
			Msg      string `json:"msg"`
			Param    string `json:"param"`
			Location string `json:"location"`
		} `json:"errors"`
		Message string `json:"message"`
	}
	decodeJSON(t, rec, &body)
	require.Equal(t, "Invalid input data", body.Message)

	params := make([]string, len(body.Errors))
	for i, fe := range body.Errors {
		require.NotEmpty(t, fe.Msg)
		require.Equal(t, "body", fe.Location)
		params[i] = fe.Param
	}
	return params
}
