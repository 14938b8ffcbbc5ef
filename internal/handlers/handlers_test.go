package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "realestate-catalog/internal/errors"
	"realestate-catalog/internal/middleware"
	"realestate-catalog/internal/models"
	"realestate-catalog/internal/transformers"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubSearch struct {
	filter   models.PropertyFilter
	result   *models.PagedResult[models.Property]
	minPrice *float64
	maxPrice *float64
	err      error
}

func (s *stubSearch) SearchProperties(ctx context.Context, f models.PropertyFilter) (*models.PagedResult[models.Property], error) {
	s.filter = f
	return s.result, s.err
}

func (s *stubSearch) GetPropertyWithDetails(ctx context.Context, id string) (*models.Property, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &s.result.Items[0], nil
}

func (s *stubSearch) GetPropertiesByOwner(ctx context.Context, ownerID string) ([]models.Property, error) {
	return s.result.Items, s.err
}

func (s *stubSearch) GetPropertiesByPriceRange(ctx context.Context, min, max *float64) ([]models.Property, error) {
	s.minPrice, s.maxPrice = min, max
	return s.result.Items, s.err
}

func (s *stubSearch) GetPropertiesByLocation(ctx context.Context, city, state, country string) ([]models.Property, error) {
	return s.result.Items, s.err
}

type stubProperties struct {
	input *models.PropertyInput
	err   error
}

func (s *stubProperties) Create(ctx context.Context, in *models.PropertyInput) (*models.Property, error) {
	s.input = in
	if s.err != nil {
		return nil, s.err
	}
	p := &models.Property{Name: *in.Name}
	p.ID = primitive.NewObjectID()
	return p, nil
}

func (s *stubProperties) Update(ctx context.Context, id string, in *models.PropertyInput) (*models.Property, error) {
	return nil, s.err
}

func (s *stubProperties) Delete(ctx context.Context, id string) error { return s.err }

func (s *stubProperties) ExistsByCodigoInternal(ctx context.Context, code string) (bool, error) {
	return code == "A-1", s.err
}

type stubImages struct {
	upload  *models.ImageUpload
	content []byte
}

func (s *stubImages) Upload(ctx context.Context, propertyID string, upload *models.ImageUpload, file io.Reader) (*models.PropertyImage, error) {
	s.upload = upload
	s.content, _ = io.ReadAll(file)
	return &models.PropertyImage{OriginalFileName: upload.FileName, Enabled: true, IsMain: upload.IsMain}, nil
}

func (s *stubImages) GetImages(ctx context.Context, propertyID string, enabledOnly bool) ([]models.PropertyImage, error) {
	return nil, nil
}

func (s *stubImages) GetMainImage(ctx context.Context, propertyID string) (*models.PropertyImage, error) {
	return nil, apperrors.NotFound("main image of property", propertyID)
}

func (s *stubImages) SetMainImage(ctx context.Context, propertyID, imageID string) error { return nil }

func (s *stubImages) DisableImage(ctx context.Context, propertyID, imageID string) error { return nil }

func (s *stubImages) DeleteImage(ctx context.Context, propertyID, imageID string) error { return nil }

func (s *stubImages) GetResponsiveURLs(ctx context.Context, propertyID, imageID string) (*models.ResponsiveURLs, error) {
	return &models.ResponsiveURLs{Original: "o"}, nil
}

func newRouter() *gin.Engine {
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	return r
}

func do(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSearchPropertiesHandler(t *testing.T) {
	p := models.Property{Name: "Casa"}
	p.ID = primitive.NewObjectID()
	search := &stubSearch{result: &models.PagedResult[models.Property]{
		Items: []models.Property{p},
		Meta:  models.PaginationMeta{TotalCount: 11, Page: 2, PageSize: 5, TotalPages: 3, HasNextPage: true, HasPreviousPage: true},
	}}
	h := NewPropertyHandler(search, &stubProperties{}, transformers.NewPropertyTransformer())
	r := newRouter()
	r.GET("/api/properties", h.SearchProperties)

	w := do(r, httptest.NewRequest(http.MethodGet, "/api/properties?city=Cali&minPrice=100&page=2&pageSize=5&sortBy=price", nil))
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, "Cali", search.filter.City)
	require.NotNil(t, search.filter.MinPrice)
	assert.Equal(t, 100.0, *search.filter.MinPrice)
	assert.Equal(t, "price", search.filter.SortBy)

	var body models.PagedResult[transformers.PropertyResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Items, 1)
	assert.Equal(t, p.ID.Hex(), body.Items[0].ID)
	require.NotNil(t, body.Meta.Next)
	assert.Contains(t, *body.Meta.Next, "page=3")
	assert.Contains(t, *body.Meta.Next, "city=Cali")
}

func TestSearchPropertiesRejectsMalformedQuery(t *testing.T) {
	h := NewPropertyHandler(&stubSearch{}, &stubProperties{}, transformers.NewPropertyTransformer())
	r := newRouter()
	r.GET("/api/properties", h.SearchProperties)

	w := do(r, httptest.NewRequest(http.MethodGet, "/api/properties?page=abc", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetPropertyByIDMapsErrors(t *testing.T) {
	h := NewPropertyHandler(&stubSearch{err: apperrors.InvalidIdentifier("nope")}, &stubProperties{}, transformers.NewPropertyTransformer())
	r := newRouter()
	r.GET("/api/properties/:id", h.GetPropertyByID)

	w := do(r, httptest.NewRequest(http.MethodGet, "/api/properties/nope", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), apperrors.ErrCodeInvalidIdentifier)
}

func TestPriceRangeHandler(t *testing.T) {
	search := &stubSearch{result: &models.PagedResult[models.Property]{}}
	h := NewPropertyHandler(search, &stubProperties{}, transformers.NewPropertyTransformer())
	r := newRouter()
	r.GET("/api/properties/price-range", h.GetPropertiesByPriceRange)

	w := do(r, httptest.NewRequest(http.MethodGet, "/api/properties/price-range?minPrice=10", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
	require.NotNil(t, search.minPrice)
	assert.Equal(t, 10.0, *search.minPrice)
	assert.Nil(t, search.maxPrice)

	w = do(r, httptest.NewRequest(http.MethodGet, "/api/properties/price-range?maxPrice=cheap", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreatePropertyHandler(t *testing.T) {
	props := &stubProperties{}
	h := NewPropertyHandler(&stubSearch{}, props, transformers.NewPropertyTransformer())
	r := newRouter()
	r.POST("/api/properties", h.CreateProperty)

	req := httptest.NewRequest(http.MethodPost, "/api/properties", strings.NewReader(`{"name":"Casa","price":100,"city":"Cali"}`))
	req.Header.Set("Content-Type", "application/json")
	w := do(r, req)
	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, props.input.City)
	assert.Equal(t, "Cali", *props.input.City)

	props.err = apperrors.Conflict("property", "codigoInternal", "A-1")
	req = httptest.NewRequest(http.MethodPost, "/api/properties", strings.NewReader(`{"name":"Casa"}`))
	w = do(r, req)
	assert.Equal(t, http.StatusConflict, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/properties", strings.NewReader(`{"price":"free"}`))
	w = do(r, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCodigoInternalExists(t *testing.T) {
	h := NewPropertyHandler(&stubSearch{}, &stubProperties{}, transformers.NewPropertyTransformer())
	r := newRouter()
	r.GET("/api/properties/codigo/:codigo/exists", h.CodigoInternalExists)

	w := do(r, httptest.NewRequest(http.MethodGet, "/api/properties/codigo/A-1/exists", nil))
	assert.JSONEq(t, `{"exists":true}`, w.Body.String())
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00\x1f\x15\xc4\x89")

func multipartUpload(t *testing.T, content []byte, fields map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "front.png")
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/images/property/abc/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadImageHandler(t *testing.T) {
	images := &stubImages{}
	h := NewImageHandler(images)
	r := newRouter()
	r.POST("/api/images/property/:propertyId/upload", h.UploadImage)

	w := do(r, multipartUpload(t, pngHeader, map[string]string{"description": "Front", "isMain": "true"}))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	require.NotNil(t, images.upload)
	assert.Equal(t, "image/png", images.upload.ContentType)
	assert.Equal(t, "front.png", images.upload.FileName)
	assert.Equal(t, int64(len(pngHeader)), images.upload.Size)
	assert.True(t, images.upload.IsMain)
	assert.Equal(t, "Front", images.upload.Description)
	assert.Equal(t, pngHeader, images.content)
}

func TestUploadImageHandlerRejects(t *testing.T) {
	h := NewImageHandler(&stubImages{})
	r := newRouter()
	r.POST("/api/images/property/:propertyId/upload", h.UploadImage)

	req := httptest.NewRequest(http.MethodPost, "/api/images/property/abc/upload", strings.NewReader(""))
	assert.Equal(t, http.StatusBadRequest, do(r, req).Code)

	w := do(r, multipartUpload(t, pngHeader, map[string]string{"isMain": "sometimes"}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetMainImageNotFound(t *testing.T) {
	h := NewImageHandler(&stubImages{})
	r := newRouter()
	r.GET("/api/images/property/:propertyId/main", h.GetMainImage)

	w := do(r, httptest.NewRequest(http.MethodGet, "/api/images/property/abc/main", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
