package catalog

import (
	"context"
	"errors"
	"html/template"
	"io/fs"
	"iter"
	"net/http"
	"net/url"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mytheresa/product-catalog/models"
	"go.uber.org/zap"
)

const (
	msgSaved            = "producto guardado con exito"
	msgDeleted          = "producto eliminado con exito"
	msgNotFound         = "no existe el producto"
	msgNotFoundToDelete = "no existe el producto a eliminar"
	msgFormExpired      = "el formulario ha expirado"
)

// Catalog is what the handlers need from the catalog service.
type Catalog interface {
	ListAllUppercased(ctx context.Context) iter.Seq2[models.Product, error]
	ListAllUppercasedRepeated(ctx context.Context, n int) iter.Seq2[models.Product, error]
	FindByID(ctx context.Context, id string) (*models.Product, error)
	Save(ctx context.Context, p *models.Product) (*models.Product, error)
	Delete(ctx context.Context, p *models.Product) error
	ListCategories(ctx context.Context) ([]models.Category, error)
	FindCategoryByID(ctx context.Context, id string) (*models.Category, error)
}

// Options tunes the demo listings.
type Options struct {
	DataDriverDelay time.Duration // pause before each element of /listar-datadriver
	DataDriverChunk int           // elements per flush on /listar-datadriver
	RepeatCount     int           // extra passes on /listar-full and /listar-chunked
}

type CatalogHandler struct {
	catalog  Catalog
	photos   *PhotoStore
	forms    *FormSession
	validate *validator.Validate
	tmpl     *template.Template
	logger   *zap.Logger
	opts     Options
}

func NewCatalogHandler(c Catalog, photos *PhotoStore, forms *FormSession, logger *zap.Logger, opts Options) *CatalogHandler {
	if opts.DataDriverChunk < 1 {
		opts.DataDriverChunk = 2
	}
	return &CatalogHandler{
		catalog:  c,
		photos:   photos,
		forms:    forms,
		validate: newValidator(),
		tmpl:     parseTemplates(),
		logger:   logger,
		opts:     opts,
	}
}

func (h *CatalogHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.HandleList)
	mux.HandleFunc("GET /listar", h.HandleList)
	mux.HandleFunc("GET /listar-datadriver", h.HandleListDataDriver)
	mux.HandleFunc("GET /listar-full", h.HandleListFull)
	mux.HandleFunc("GET /listar-chunked", h.HandleListChunked)
	mux.HandleFunc("GET /ver/{id}", h.HandleView)
	mux.HandleFunc("GET /form", h.HandleCreateForm)
	mux.HandleFunc("GET /form/{id}", h.HandleEditForm)
	mux.HandleFunc("GET /form-v2/{id}", h.HandleEditForm)
	mux.HandleFunc("POST /form", h.HandleSave)
	mux.HandleFunc("GET /eliminar/{id}", h.HandleDelete)
	mux.HandleFunc("GET /uploads/img/{filename}", h.HandlePhoto)
}

func (h *CatalogHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	h.renderList(w, r, h.catalog.ListAllUppercased(r.Context()), listMode{template: "listar"})
}

func (h *CatalogHandler) HandleListDataDriver(w http.ResponseWriter, r *http.Request) {
	h.renderList(w, r, h.catalog.ListAllUppercased(r.Context()), listMode{
		template:   "listar",
		flushEvery: h.opts.DataDriverChunk,
		delay:      h.opts.DataDriverDelay,
	})
}

func (h *CatalogHandler) HandleListFull(w http.ResponseWriter, r *http.Request) {
	h.renderList(w, r, h.catalog.ListAllUppercasedRepeated(r.Context(), h.opts.RepeatCount), listMode{template: "listar"})
}

func (h *CatalogHandler) HandleListChunked(w http.ResponseWriter, r *http.Request) {
	h.renderList(w, r, h.catalog.ListAllUppercasedRepeated(r.Context(), h.opts.RepeatCount), listMode{
		template:   "chunked",
		flushEvery: chunkedFlushRows,
	})
}

func (h *CatalogHandler) HandleView(w http.ResponseWriter, r *http.Request) {
	product, err := h.lookupProduct(r.Context(), r.PathValue("id"))
	if err != nil {
		h.recoverLookup(w, r, err, msgNotFound)
		return
	}
	h.render(w, "ver", detailView{
		page:    page{Title: "Detalle del producto"},
		Product: product,
	})
}

func (h *CatalogHandler) HandleCreateForm(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, formView{
		page:   page{Title: "Formulario de producto"},
		Button: "Crear",
	})
}

// HandleEditForm serves both /form/{id} and /form-v2/{id}.
func (h *CatalogHandler) HandleEditForm(w http.ResponseWriter, r *http.Request) {
	product, err := h.lookupProduct(r.Context(), r.PathValue("id"))
	if err != nil {
		h.recoverLookup(w, r, err, msgNotFound)
		return
	}
	h.logger.Info("Editing product", zap.String("id", product.ID), zap.String("name", product.Name))

	token, err := h.forms.Issue(product)
	if err != nil {
		h.logger.Error("Failed to issue form session", zap.String("id", product.ID), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	h.renderForm(w, r, formView{
		page:    page{Title: "Editar producto"},
		Button:  "Editar",
		Form:    formFromProduct(product),
		Photo:   product.Photo,
		Session: token,
	})
}

// HandleSave creates or updates a product. The database write always
// happens before the photo is written to disk.
func (h *CatalogHandler) HandleSave(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	form, upload, err := bindProductForm(r)
	if err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	product := &models.Product{}
	token := r.PostFormValue("session")
	if token != "" {
		product, err = h.forms.Restore(token)
		if err != nil {
			h.logger.Warn("Rejected form session", zap.Error(err))
			redirect(w, r, "error", msgFormExpired)
			return
		}
	}

	fieldErrors := form.validate(h.validate)
	if upload != nil && !isImage(upload) {
		fieldErrors["file"] = "debe ser una imagen (jpeg, png, gif o webp)"
	}

	var category *models.Category
	if len(fieldErrors) == 0 {
		category, err = h.catalog.FindCategoryByID(ctx, form.CategoryID)
		switch {
		case errors.Is(err, models.ErrCategoryNotFound):
			fieldErrors["categoryId"] = "la categoría no existe"
		case err != nil:
			h.logger.Error("Failed to load category", zap.String("category_id", form.CategoryID), zap.Error(err))
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
	}

	if len(fieldErrors) > 0 {
		h.renderForm(w, r, formView{
			page:    page{Title: "Errores en formulario producto"},
			Button:  "Guardar",
			Form:    form,
			Photo:   product.Photo,
			Session: token,
			Errors:  fieldErrors,
		})
		return
	}

	form.apply(product, *category)
	if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now()
	}
	if upload != nil {
		product.Photo = PhotoName(upload.Filename)
	}

	saved, err := h.catalog.Save(ctx, product)
	if err != nil {
		h.logger.Error("Failed to save product", zap.String("id", product.ID), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	h.logger.Info("Product saved",
		zap.String("id", saved.ID),
		zap.String("name", saved.Name),
		zap.String("category_id", saved.Category.ID),
		zap.String("category", saved.Category.Name),
	)

	if upload != nil {
		// The record already names this photo; a failure here leaves it
		// pointing at a missing file.
		if err := h.photos.Save(saved.Photo, upload); err != nil {
			h.logger.Error("Failed to store photo", zap.String("id", saved.ID), zap.String("photo", saved.Photo), zap.Error(err))
			http.Error(w, "failed to store photo", http.StatusInternalServerError)
			return
		}
	}

	redirect(w, r, "success", msgSaved)
}

func (h *CatalogHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	product, err := h.lookupProduct(ctx, r.PathValue("id"))
	if err == nil {
		err = h.catalog.Delete(ctx, product)
	}
	if err != nil {
		h.recoverLookup(w, r, err, msgNotFoundToDelete)
		return
	}
	h.logger.Info("Product deleted", zap.String("id", product.ID))
	redirect(w, r, "success", msgDeleted)
}

func (h *CatalogHandler) HandlePhoto(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("filename")

	f, info, err := h.photos.Open(name)
	if err != nil {
		if errors.Is(err, ErrInvalidPhotoName) || errors.Is(err, fs.ErrNotExist) {
			http.NotFound(w, r)
			return
		}
		h.logger.Error("Failed to open photo", zap.String("photo", name), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	http.ServeContent(w, r, name, info.ModTime(), f)
}

// lookupProduct returns models.ErrProductNotFound for missing products and
// for results that carry no id.
func (h *CatalogHandler) lookupProduct(ctx context.Context, id string) (*models.Product, error) {
	product, err := h.catalog.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.HasID() {
		return nil, models.ErrProductNotFound
	}
	return product, nil
}

// recoverLookup turns a not-found lookup into a redirect to the listing
// carrying msg; any other error is a 500.
func (h *CatalogHandler) recoverLookup(w http.ResponseWriter, r *http.Request, err error, msg string) {
	if errors.Is(err, models.ErrProductNotFound) {
		redirect(w, r, "error", msg)
		return
	}
	h.logger.Error("Failed to load product", zap.String("id", r.PathValue("id")), zap.Error(err))
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func (h *CatalogHandler) renderForm(w http.ResponseWriter, r *http.Request, view formView) {
	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		h.logger.Error("Failed to list categories", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	view.Categories = categories
	h.render(w, "form", view)
}

// redirect sends the browser to the listing with a flash message in the
// query string.
func redirect(w http.ResponseWriter, r *http.Request, kind, msg string) {
	http.Redirect(w, r, "/listar?"+kind+"="+url.QueryEscape(msg), http.StatusSeeOther)
}
