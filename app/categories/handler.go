package categories

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mytheresa/product-catalog/models"
	"go.uber.org/zap"
)

type CategoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type CategoryProvider interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	SaveCategory(ctx context.Context, category *models.Category) (*models.Category, error)
}

type CategoryHandler struct {
	repo     CategoryProvider
	validate *validator.Validate
	logger   *zap.Logger
}

func NewCategoryHandler(r CategoryProvider, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{repo: r, validate: validator.New(), logger: logger}
}

func (h *CategoryHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /categories", h.HandleGetAll)
	mux.HandleFunc("POST /categories", h.HandleCreate)
}

func (h *CategoryHandler) HandleGetAll(w http.ResponseWriter, r *http.Request) {
	categories, err := h.repo.ListCategories(r.Context())
	if err != nil {
		h.logger.Error("Failed to list categories", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to fetch categories")
		return
	}

	response := make([]CategoryResponse, len(categories))
	for i, c := range categories {
		response[i] = CategoryResponse{
			ID:   c.ID,
			Name: c.Name,
		}
	}

	writeJSON(w, http.StatusOK, response)
}

func (h *CategoryHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name string `json:"name" validate:"required"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	input.Name = strings.TrimSpace(input.Name)
	if err := h.validate.Struct(&input); err != nil {
		writeError(w, http.StatusBadRequest, "Missing name")
		return
	}

	saved, err := h.repo.SaveCategory(r.Context(), &models.Category{Name: input.Name})
	if err != nil {
		h.logger.Error("Failed to create category", zap.String("name", input.Name), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to create category")
		return
	}

	writeJSON(w, http.StatusCreated, CategoryResponse{ID: saved.ID, Name: saved.Name})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
