package main

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mytheresa/product-catalog/app/catalog"
	"github.com/mytheresa/product-catalog/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// --- In-memory stores ---

type memProducts struct {
	items []models.Product
}

func (m *memProducts) FindAll(_ context.Context) iter.Seq2[models.Product, error] {
	return func(yield func(models.Product, error) bool) {
		for _, p := range m.items {
			if !yield(p, nil) {
				return
			}
		}
	}
}

func (m *memProducts) FindByID(_ context.Context, id string) (*models.Product, error) {
	for _, p := range m.items {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, models.ErrProductNotFound
}

func (m *memProducts) Save(_ context.Context, p *models.Product) (*models.Product, error) {
	saved := *p
	saved.ID = fmt.Sprintf("p-%d", len(m.items)+1)
	m.items = append(m.items, saved)
	return &saved, nil
}

func (m *memProducts) Delete(_ context.Context, p *models.Product) error {
	return nil
}

type memCategories struct {
	items []models.Category
}

func (m *memCategories) FindAll(_ context.Context) ([]models.Category, error) {
	return m.items, nil
}

func (m *memCategories) FindByID(_ context.Context, id string) (*models.Category, error) {
	for _, c := range m.items {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, models.ErrCategoryNotFound
}

func (m *memCategories) Save(_ context.Context, c *models.Category) (*models.Category, error) {
	saved := *c
	saved.ID = fmt.Sprintf("c-%d", len(m.items)+1)
	m.items = append(m.items, saved)
	return &saved, nil
}

func newTestStores() *stores {
	return &stores{
		products:   &memProducts{},
		categories: &memCategories{},
		close:      func() error { return nil },
	}
}

func newTestRouter(t *testing.T, st *stores) http.Handler {
	t.Helper()

	photos, err := catalog.NewPhotoStore(t.TempDir())
	require.NoError(t, err)
	svc := catalog.NewService(st.products, st.categories, zap.NewNop())
	return newRouter(svc, photos, catalog.NewFormSession("test"), zap.NewNop(), catalog.Options{RepeatCount: 1})
}

// --- Tests ---

func TestSeed(t *testing.T) {
	// Arrange
	st := newTestStores()

	// Act
	err := seed(context.Background(), st, zap.NewNop())

	// Assert
	require.NoError(t, err)
	cats := st.categories.(*memCategories).items
	products := st.products.(*memProducts).items
	assert.Len(t, cats, len(seedCategories))
	assert.Len(t, products, len(seedProducts))
	for _, p := range products {
		assert.NotEmpty(t, p.Category.ID, "product %s has a category snapshot", p.Name)
		assert.False(t, p.CreatedAt.IsZero())
	}
	assert.Equal(t, "TV Panasonic Pantalla LCD", products[0].Name)
	assert.Equal(t, "Electrónico", products[0].Category.Name)
}

func TestRouter(t *testing.T) {
	st := newTestStores()
	require.NoError(t, seed(context.Background(), st, zap.NewNop()))
	router := newTestRouter(t, st)

	testCases := []struct {
		name               string
		method             string
		url                string
		body               string
		expectedStatusCode int
		checkResponse      func(t *testing.T, rec *httptest.ResponseRecorder)
	}{
		{
			name:               "Health",
			method:             "GET",
			url:                "/health",
			expectedStatusCode: http.StatusOK,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
			},
		},
		{
			name:               "Root lists products",
			method:             "GET",
			url:                "/",
			expectedStatusCode: http.StatusOK,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Contains(t, rec.Body.String(), "TV PANASONIC PANTALLA LCD")
			},
		},
		{
			name:               "Full listing repeats",
			method:             "GET",
			url:                "/listar-full",
			expectedStatusCode: http.StatusOK,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, 2*len(seedProducts), strings.Count(rec.Body.String(), `<a href="/ver/`))
			},
		},
		{
			name:               "Categories JSON",
			method:             "GET",
			url:                "/categories",
			expectedStatusCode: http.StatusOK,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var resp []map[string]string
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
				assert.Len(t, resp, len(seedCategories))
			},
		},
		{
			name:               "Create category",
			method:             "POST",
			url:                "/categories",
			body:               `{"name":"Juguetes"}`,
			expectedStatusCode: http.StatusCreated,
		},
		{
			name:               "Missing product redirects",
			method:             "GET",
			url:                "/ver/nope",
			expectedStatusCode: http.StatusSeeOther,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, "/listar?error=no+existe+el+producto", rec.Header().Get("Location"))
			},
		},
		{
			name:               "Unknown route",
			method:             "GET",
			url:                "/nothing-here",
			expectedStatusCode: http.StatusNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			req := httptest.NewRequest(tc.method, tc.url, strings.NewReader(tc.body))
			req.Header.Set("X-Request-ID", "req-42")
			rec := httptest.NewRecorder()

			// Act
			router.ServeHTTP(rec, req)

			// Assert
			assert.Equal(t, tc.expectedStatusCode, rec.Code)
			assert.Equal(t, "req-42", rec.Header().Get("X-Request-ID"))
			if tc.checkResponse != nil {
				tc.checkResponse(t, rec)
			}
		})
	}
}
