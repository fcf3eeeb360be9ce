package service

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/mordensafety/admin-console/internal/core/domain"
	"github.com/mordensafety/admin-console/internal/core/ports"
)

type ProductService struct {
	gateway  ports.Gateway
	validate *inputValidator
	log      zerolog.Logger
}

var _ ports.ProductService = (*ProductService)(nil)

func NewProductService(gateway ports.Gateway, log zerolog.Logger) *ProductService {
	return &ProductService{
		gateway:  gateway,
		validate: newInputValidator(),
		log:      log.With().Str("component", "products").Logger(),
	}
}

// List returns the public catalog; unavailable products are hidden unless
// filter.IncludeAll is set.
func (s *ProductService) List(ctx context.Context, filter ports.ProductFilter) (*domain.ProductList, error) {
	q := pagingQuery(filter.Page, filter.Limit)
	setIfNotEmpty(q, "category", filter.Category)
	q.Set("available_only", strconv.FormatBool(!filter.IncludeAll))

	var out domain.ProductList
	if err := getJSON(ctx, s.gateway, "/api/products", q, &out); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return &out, nil
}

// ListAdmin returns every product, available or not.
func (s *ProductService) ListAdmin(ctx context.Context, filter ports.ProductFilter) (*domain.ProductList, error) {
	q := pagingQuery(filter.Page, filter.Limit)
	setIfNotEmpty(q, "category", filter.Category)

	var out domain.ProductList
	if err := getJSON(ctx, s.gateway, "/api/admin/products", q, &out); err != nil {
		return nil, fmt.Errorf("list admin products: %w", err)
	}
	return &out, nil
}

func (s *ProductService) Get(ctx context.Context, id domain.ID) (*domain.Product, error) {
	var out domain.Product
	if err := getJSON(ctx, s.gateway, productPath("/api/products", id), nil, &out); err != nil {
		return nil, fmt.Errorf("get product %s: %w", id, err)
	}
	return &out, nil
}

func (s *ProductService) Create(ctx context.Context, input ports.ProductInput) (*domain.Product, error) {
	form, err := s.productForm(input)
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	var out domain.Product
	if err := sendForm(ctx, s.gateway, http.MethodPost, "/api/admin/products", form, &out); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	s.log.Info().Str("product_id", out.ID.String()).Str("name", input.Name).Msg("product created")
	return &out, nil
}

func (s *ProductService) Update(ctx context.Context, id domain.ID, input ports.ProductInput) (*domain.Product, error) {
	form, err := s.productForm(input)
	if err != nil {
		return nil, fmt.Errorf("update product %s: %w", id, err)
	}
	var out domain.Product
	if err := sendForm(ctx, s.gateway, http.MethodPut, productPath("/api/admin/products", id), form, &out); err != nil {
		return nil, fmt.Errorf("update product %s: %w", id, err)
	}
	return &out, nil
}

// SetAvailability toggles is_available with a JSON update.
func (s *ProductService) SetAvailability(ctx context.Context, id domain.ID, available bool) error {
	body := map[string]bool{"is_available": available}
	if err := sendJSON(ctx, s.gateway, http.MethodPut, productPath("/api/admin/products", id), body, nil); err != nil {
		return fmt.Errorf("set availability %s: %w", id, err)
	}
	return nil
}

func (s *ProductService) Delete(ctx context.Context, id domain.ID) error {
	if _, err := s.gateway.Send(ctx, ports.Request{Method: http.MethodDelete, Path: productPath("/api/admin/products", id)}); err != nil {
		return fmt.Errorf("delete product %s: %w", id, err)
	}
	s.log.Info().Str("product_id", id.String()).Msg("product deleted")
	return nil
}

func (s *ProductService) productForm(input ports.ProductInput) (*ports.MultipartForm, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, err
	}
	if input.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price must not be negative", domain.ErrInvalidInput)
	}
	if n := len(input.ExistingImages) + len(input.NewImages); n > domain.MaxProductImages {
		return nil, fmt.Errorf("%w: at most %d images per product, got %d", domain.ErrInvalidInput, domain.MaxProductImages, n)
	}

	specs := input.Specifications
	if specs == "" {
		specs = "{}"
	}

	form := &ports.MultipartForm{OnProgress: input.OnProgress}
	form.Add("name", input.Name)
	form.Add("description", input.Description)
	form.Add("category", input.Category)
	form.Add("price", input.Price.String())
	form.Add("stock_quantity", strconv.Itoa(input.StockQuantity))
	form.Add("specifications", specs)
	form.Add("is_available", strconv.FormatBool(input.IsAvailable))
	for _, img := range input.ExistingImages {
		form.Add("existing_images", img)
	}
	for _, f := range input.NewImages {
		f.Field = "images"
		form.Files = append(form.Files, f)
	}
	return form, nil
}

func productPath(base string, id domain.ID) string {
	return base + "/" + url.PathEscape(id.String())
}

// UploadService posts standalone files to /api/upload.
type UploadService struct {
	gateway ports.Gateway
}

var _ ports.UploadService = (*UploadService)(nil)

func NewUploadService(gateway ports.Gateway) *UploadService {
	return &UploadService{gateway: gateway}
}

func (s *UploadService) Upload(ctx context.Context, file ports.FormFile, onProgress func(percent int)) (*ports.UploadResult, error) {
	file.Field = "file"
	form := &ports.MultipartForm{Files: []ports.FormFile{file}, OnProgress: onProgress}

	var out ports.UploadResult
	if err := sendForm(ctx, s.gateway, http.MethodPost, "/api/upload", form, &out); err != nil {
		return nil, fmt.Errorf("upload %s: %w", file.Filename, err)
	}
	return &out, nil
}
