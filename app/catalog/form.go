package catalog

import (
	"errors"
	"mime/multipart"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mytheresa/product-catalog/models"
	"github.com/shopspring/decimal"
)

const (
	maxUploadSize = 10 << 20
	dateLayout    = "2006-01-02"
)

// ProductForm is the submitted product form, kept as strings so a rejected
// submission can be rendered back exactly as entered.
type ProductForm struct {
	Name       string `form:"name" validate:"required"`
	Price      string `form:"price" validate:"required,numeric"`
	CreatedAt  string `form:"createdAt" validate:"omitempty,datetime=2006-01-02"`
	CategoryID string `form:"categoryId" validate:"required"`

	price     decimal.Decimal
	createdAt time.Time
}

var fieldMessages = map[string]string{
	"required": "no puede estar vacío",
	"numeric":  "debe ser un número",
	"datetime": "debe tener el formato aaaa-mm-dd",
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func formFromProduct(p *models.Product) ProductForm {
	f := ProductForm{
		Name:       p.Name,
		Price:      p.Price.String(),
		CategoryID: p.Category.ID,
	}
	if !p.CreatedAt.IsZero() {
		f.CreatedAt = p.CreatedAt.Format(dateLayout)
	}
	return f
}

// bindProductForm reads the form fields and the optional "file" part.
// A file part without a name counts as no upload.
func bindProductForm(r *http.Request) (ProductForm, *multipart.FileHeader, error) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return ProductForm{}, nil, err
	}

	form := ProductForm{
		Name:       strings.TrimSpace(r.PostFormValue("name")),
		Price:      strings.TrimSpace(r.PostFormValue("price")),
		CreatedAt:  strings.TrimSpace(r.PostFormValue("createdAt")),
		CategoryID: strings.TrimSpace(r.PostFormValue("categoryId")),
	}

	_, header, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return form, nil, nil
		}
		return ProductForm{}, nil, err
	}
	if header.Filename == "" {
		return form, nil, nil
	}
	return form, header, nil
}

// validate checks the form and returns a message per invalid field.
// On success the parsed price and date are kept on the form.
func (f *ProductForm) validate(v *validator.Validate) map[string]string {
	errs := map[string]string{}

	if err := v.Struct(f); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			errs["form"] = err.Error()
			return errs
		}
		for _, fe := range verrs {
			msg, ok := fieldMessages[fe.Tag()]
			if !ok {
				msg = "no es válido"
			}
			errs[fe.Field()] = msg
		}
	}

	if _, bad := errs["price"]; !bad && f.Price != "" {
		price, err := decimal.NewFromString(f.Price)
		switch {
		case err != nil:
			errs["price"] = fieldMessages["numeric"]
		case price.IsNegative():
			errs["price"] = "debe ser mayor o igual a cero"
		default:
			f.price = price
		}
	}

	if _, bad := errs["createdAt"]; !bad && f.CreatedAt != "" {
		t, err := time.ParseInLocation(dateLayout, f.CreatedAt, time.Local)
		if err != nil {
			errs["createdAt"] = fieldMessages["datetime"]
		} else {
			f.createdAt = t
		}
	}
	return errs
}

// apply copies the validated values and the category snapshot onto p.
func (f *ProductForm) apply(p *models.Product, category models.Category) {
	p.Name = f.Name
	p.Price = f.price
	p.Category = category
	if !f.createdAt.IsZero() {
		p.CreatedAt = f.createdAt
	}
}
