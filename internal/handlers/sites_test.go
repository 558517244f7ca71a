package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ndtollman/mainstay/internal/database/testutil"
	"github.com/ndtollman/mainstay/internal/models"
	"github.com/ndtollman/mainstay/internal/rbac"
)

func setupSiteRouter(t *testing.T) (*gorm.DB, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.MustOpenTestDB(t)

	init, err := rbac.NewInitializer(db)
	require.NoError(t, err)
	require.NoError(t, init.Initialize(context.Background()))

	h, err := NewSiteHandler(db)
	require.NoError(t, err)

	r := gin.New()
	r.GET("/sites", h.List)
	r.POST("/sites", h.Create)
	r.GET("/sites/:id/buildings", h.ListBuildings)
	r.POST("/sites/:id/buildings", h.CreateBuilding)
	r.POST("/buildings/:id/rooms", h.CreateRoom)
	return db, r
}

func postJSON(t *testing.T, r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSiteHierarchyCreation(t *testing.T) {
	_, r := setupSiteRouter(t)

	w := postJSON(t, r, "/sites", gin.H{"name": "North Campus", "address": "1 Main St"})
	require.Equal(t, http.StatusCreated, w.Code)

	var site models.Site
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &site))
	require.NotEmpty(t, site.ID)

	w = postJSON(t, r, "/sites/"+site.ID+"/buildings", gin.H{"name": "Building A"})
	require.Equal(t, http.StatusCreated, w.Code)

	var building models.Building
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &building))
	require.Equal(t, site.ID, building.SiteID)

	w = postJSON(t, r, "/buildings/"+building.ID+"/rooms", gin.H{"name": "101", "floor": "1"})
	require.Equal(t, http.StatusCreated, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/sites/"+site.ID+"/buildings", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var buildings []models.Building
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &buildings))
	require.Len(t, buildings, 1)
	require.Len(t, buildings[0].Rooms, 1)
}

func TestSiteCreationConflictsOnDuplicateName(t *testing.T) {
	_, r := setupSiteRouter(t)

	w := postJSON(t, r, "/sites", gin.H{"name": "HQ"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(t, r, "/sites", gin.H{"name": "HQ"})
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestBuildingCreationForMissingSite(t *testing.T) {
	_, r := setupSiteRouter(t)

	w := postJSON(t, r, "/sites/nonexistent/buildings", gin.H{"name": "Orphan"})
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestSiteCreationValidatesName(t *testing.T) {
	_, r := setupSiteRouter(t)

	w := postJSON(t, r, "/sites", gin.H{"address": "nameless"})
	require.Equal(t, http.StatusBadRequest, w.Code)
}
