package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bachesapp/bachesapp/internal/models"
	"github.com/bachesapp/bachesapp/internal/repository"
	"github.com/bachesapp/bachesapp/internal/service"
	"github.com/bachesapp/bachesapp/internal/snapshot"
)

// newTestServer wires the real services over in-memory snapshot stores
// behind the full router, the way cmd/server does.
func newTestServer(t *testing.T) (*httptest.Server, *service.AuthManager, *service.ReportStore) {
	t.Helper()
	durable := snapshot.NewMemStore()
	log := zap.NewNop()

	creds := repository.NewCredentialStore(durable, log)
	require.NoError(t, creds.Load())
	tokens := repository.NewResetTokenRegistry(creds, durable, log)
	require.NoError(t, tokens.Load())

	manager := service.NewAuthManager(creds, tokens, nil,
		durable, snapshot.NewMemStore(), nil, log)
	require.NoError(t, manager.Load())

	reports := service.NewReportStore(durable, false, log)
	require.NoError(t, reports.Load())

	router := NewRouter(NewAuthHandler(manager), NewReportHandler(reports, manager), manager, log)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, manager, reports
}

func doJSON(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestReportsAPI_CreateAndGet(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/reports", `{
		"titulo": "Bache en la Calle 9",
		"direccion": "Calle 9 #14-20, San Antonio",
		"severidad": "alta",
		"descripcion": "Bache profundo junto al semáforo.",
		"ubicacion": {"lat": 3.4489, "lng": -76.5284}
	}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created models.Report
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.Equal(t, models.StatusPendiente, created.Estado)
	assert.Equal(t, 0, created.Votos)
	assert.Equal(t, models.AnonymousID, created.Usuario.ID)

	resp = doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/reports/%d", srv.URL, created.ID), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var fetched models.Report
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&fetched))
	assert.Equal(t, created.ID, fetched.ID)
}

func TestReportsAPI_CreateRejectsBadSeverity(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/reports", `{
		"titulo": "Bache",
		"direccion": "Calle 9",
		"severidad": "gigante",
		"descripcion": "x"
	}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestReportsAPI_VoteAndComment(t *testing.T) {
	srv, _, reports := newTestServer(t)
	report := reports.Create(models.ReportDraft{
		Titulo: "Bache", Direccion: "Calle 9",
		Severidad: models.SeverityBaja, Descripcion: "x",
	}, nil)

	for i := 0; i < 3; i++ {
		resp := doJSON(t, http.MethodPost, fmt.Sprintf("%s/api/reports/%d/vote", srv.URL, report.ID), "")
		require.Equal(t, http.StatusNoContent, resp.StatusCode)
	}
	resp := doJSON(t, http.MethodPost, fmt.Sprintf("%s/api/reports/%d/comments", srv.URL, report.ID), "")
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	got, ok := reports.GetByID(report.ID)
	require.True(t, ok)
	assert.Equal(t, 3, got.Votos)
	assert.Equal(t, 1, got.Comentarios)

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/reports/999/vote", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestReportsAPI_DeleteRequiresSessionAndOwnership(t *testing.T) {
	srv, manager, reports := newTestServer(t)

	owner, err := manager.Register("Ana", "ana@example.com", "secret123", "")
	require.NoError(t, err)
	report := reports.Create(models.ReportDraft{
		Titulo: "Bache", Direccion: "Calle 9",
		Severidad: models.SeverityMedia, Descripcion: "x",
	}, &owner)

	// Sessionless delete is rejected before reaching the store.
	manager.Logout()
	resp := doJSON(t, http.MethodDelete, fmt.Sprintf("%s/api/reports/%d", srv.URL, report.ID), "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// A different identity gets a 403.
	_, err = manager.Register("Luis", "luis@example.com", "secret456", "")
	require.NoError(t, err)
	resp = doJSON(t, http.MethodDelete, fmt.Sprintf("%s/api/reports/%d", srv.URL, report.ID), "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	_, stillThere := reports.GetByID(report.ID)
	assert.True(t, stillThere)

	// The owner succeeds.
	_, err = manager.Login("ana@example.com", "secret123", false)
	require.NoError(t, err)
	resp = doJSON(t, http.MethodDelete, fmt.Sprintf("%s/api/reports/%d", srv.URL, report.ID), "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	_, stillThere = reports.GetByID(report.ID)
	assert.False(t, stillThere)

	// Unknown ids answer 404 rather than 403.
	resp = doJSON(t, http.MethodDelete, fmt.Sprintf("%s/api/reports/%d", srv.URL, report.ID), "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestReportsAPI_ListIsMostRecentFirst(t *testing.T) {
	srv, _, reports := newTestServer(t)
	first := reports.Create(models.ReportDraft{
		Titulo: "Primero", Direccion: "A",
		Severidad: models.SeverityBaja, Descripcion: "x",
	}, nil)
	second := reports.Create(models.ReportDraft{
		Titulo: "Segundo", Direccion: "B",
		Severidad: models.SeverityBaja, Descripcion: "x",
	}, nil)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/reports", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var listed []models.Report
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&listed))
	require.Len(t, listed, 2)
	assert.Equal(t, second.ID, listed[0].ID)
	assert.Equal(t, first.ID, listed[1].ID)
}

func TestPasswordResetAPI_ValidateUnknownToken(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/password-reset/no-such-token", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]bool
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.False(t, body["valid"])
}

func TestAPI_RejectsNonJSONContentType(t *testing.T) {
	srv, _, _ := newTestServer(t)

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/login", strings.NewReader("email=x"))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)
}
