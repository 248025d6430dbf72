package stuff

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/grillazz/stuff-and-nonsense/internal/models"
)

func newRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Stuff{}, &models.RandomStuff{}))

	r := gin.New()
	v1 := r.Group("/v1")
	NewHandler(NewService(db)).RegisterRoutes(v1)
	return r, db
}

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestCreateAndGet(t *testing.T) {
	r, _ := newRouter(t)

	w := doJSON(r, http.MethodPost, "/v1/stuff", `{"name":"widget","description":"a widget"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, http.MethodGet, "/v1/stuff/widget", "")
	require.Equal(t, http.StatusOK, w.Code)

	var st models.Stuff
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &st))
	assert.Equal(t, "widget", st.Name)
	assert.Equal(t, "a widget", st.Description)
	assert.NotEmpty(t, st.ID)
}

func TestCreateDuplicateName(t *testing.T) {
	r, _ := newRouter(t)

	doJSON(r, http.MethodPost, "/v1/stuff", `{"name":"widget","description":"a widget"}`)
	w := doJSON(r, http.MethodPost, "/v1/stuff", `{"name":"widget","description":"another"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCreateMapsUniqueIndexViolation(t *testing.T) {
	_, db := newRouter(t)

	// Insert directly, the way a concurrent request would have.
	require.NoError(t, db.Create(&models.Stuff{Name: "widget", Description: "existing"}).Error)

	_, err := NewService(db).Create(&CreateStuffDTO{Name: "widget", Description: "late duplicate"})
	assert.ErrorIs(t, err, ErrNameTaken)
}

func TestGetUnknownName(t *testing.T) {
	r, _ := newRouter(t)

	w := doJSON(r, http.MethodGet, "/v1/stuff/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAddMany(t *testing.T) {
	r, db := newRouter(t)

	w := doJSON(r, http.MethodPost, "/v1/stuff/add_many",
		`[{"name":"a","description":"first"},{"name":"b","description":"second"}]`)
	require.Equal(t, http.StatusCreated, w.Code)

	var count int64
	db.Model(&models.Stuff{}).Count(&count)
	assert.EqualValues(t, 2, count)
}

func TestAddManyRollsBackOnDuplicate(t *testing.T) {
	r, db := newRouter(t)
	doJSON(r, http.MethodPost, "/v1/stuff", `{"name":"a","description":"existing"}`)

	w := doJSON(r, http.MethodPost, "/v1/stuff/add_many",
		`[{"name":"fresh","description":"new"},{"name":"a","description":"dup"}]`)
	assert.Equal(t, http.StatusConflict, w.Code)

	var count int64
	db.Model(&models.Stuff{}).Where("name = ?", "fresh").Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestUpdateAndDelete(t *testing.T) {
	r, _ := newRouter(t)
	doJSON(r, http.MethodPost, "/v1/stuff", `{"name":"widget","description":"a widget"}`)

	w := doJSON(r, http.MethodPatch, "/v1/stuff/widget", `{"description":"updated"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "updated")

	w = doJSON(r, http.MethodDelete, "/v1/stuff/widget", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(r, http.MethodGet, "/v1/stuff/widget", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateRandom(t *testing.T) {
	r, db := newRouter(t)

	w := doJSON(r, http.MethodPost, "/v1/stuff/random", `{"answer":42,"nested":{"ok":true}}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var rs models.RandomStuff
	require.NoError(t, db.First(&rs).Error)
	assert.EqualValues(t, 42, rs.Chaos["answer"])
}
