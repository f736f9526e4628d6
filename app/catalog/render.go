package catalog

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/mytheresa/product-catalog/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

var templateFuncs = template.FuncMap{
	"price": func(d decimal.Decimal) string { return d.StringFixed(2) },
	"date": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("02/01/2006")
	},
}

func parseTemplates() *template.Template {
	return template.Must(template.New("catalog").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html"))
}

// page holds what the shared header needs.
type page struct {
	Title   string
	Success string
	Error   string
}

type detailView struct {
	page
	Product *models.Product
}

type formView struct {
	page
	Button     string
	Form       ProductForm
	Photo      string
	Session    string
	Categories []models.Category
	Errors     map[string]string
}

// render executes a full page into a buffer first so a template error can
// still become a 500.
func (h *CatalogHandler) render(w http.ResponseWriter, name string, data any) {
	var buf bytes.Buffer
	if err := h.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		h.logger.Error("Failed to render template", zap.String("template", name), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}
