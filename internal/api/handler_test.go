package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightdelivered/statement-ingest/internal/ingest"
	"github.com/insightdelivered/statement-ingest/internal/models"
)

func setupTestApp() *fiber.App {
	app := fiber.New()
	svc := ingest.NewDefaultService(slog.New(slog.NewTextHandler(io.Discard, nil)))
	NewHandler(svc, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(app)
	return app
}

func TestHealthEndpoint(t *testing.T) {
	app := setupTestApp()

	resp, err := app.Test(httptest.NewRequest("GET", "/api/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	var result map[string]string
	require.NoError(t, json.Unmarshal(body, &result))
	assert.Equal(t, "ok", result["status"])
	assert.Equal(t, "fiber", result["engine"])
}

func TestParseEndpoint(t *testing.T) {
	app := setupTestApp()

	text := "01/05/2024 GROCERY MART 45.50 -\n01/06/2024 DEPOSIT 100.00 +"
	req := httptest.NewRequest("POST", "/api/parse", strings.NewReader(text))
	req.Header.Set("Content-Type", "text/plain")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var parsed ParseResponse
	body, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(body, &parsed))

	assert.True(t, parsed.Success)
	assert.Equal(t, 2, parsed.Count)
	require.NotNil(t, parsed.Statement)
	require.Len(t, parsed.Statement.Transactions, 2)
	assert.Equal(t, models.Credit, parsed.Statement.Transactions[1].Direction)
}

func TestParseEndpointRequiresText(t *testing.T) {
	app := setupTestApp()

	resp, err := app.Test(httptest.NewRequest("POST", "/api/parse", strings.NewReader("   ")))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestExtractEndpointRequiresFile(t *testing.T) {
	app := setupTestApp()

	req := httptest.NewRequest("POST", "/api/extract", nil)
	req.Header.Set("Content-Type", "multipart/form-data; boundary=----test")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestExtractEndpointReportsFailureInBody(t *testing.T) {
	// An unsupported document type is an expected failure: HTTP 200 with
	// result.error set, per the graceful-degradation contract.
	app := setupTestApp()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "notes.txt")
	require.NoError(t, err)
	fw.Write([]byte("not a statement"))
	require.NoError(t, mw.WriteField("mimeType", "text/plain"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/api/extract", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var extracted ExtractResponse
	body, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(body, &extracted))

	assert.True(t, extracted.Success)
	require.NotNil(t, extracted.Result)
	assert.Equal(t, models.ProviderNone, extracted.Result.Provider)
	assert.NotEmpty(t, extracted.Result.Error)
}
