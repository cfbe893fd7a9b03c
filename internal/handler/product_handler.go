package handler

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"eshop/internal/model"
	"eshop/internal/response"
	"eshop/internal/service"
	"eshop/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

const (
	// maxMultipartMemory is held in memory before parts spill to temp files.
	maxMultipartMemory = 32 << 20
	// maxImageSize caps a single uploaded image.
	maxImageSize = 10 << 20
	// maxUploadBody caps a whole multipart request: a full gallery plus form overhead.
	maxUploadBody = (storage.MaxGalleryImages + 1) * maxImageSize
)

var errBodyTooLarge = model.NewBadRequest("request body is too large")

// ProductHandler handles product-related HTTP requests.
type ProductHandler struct {
	service        service.ProductService
	logger         zerolog.Logger
	maxUploadBytes int64
}

// NewProductHandler creates a new product handler.
func NewProductHandler(service service.ProductService, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service:        service,
		logger:         logger.With().Str("handler", "product").Logger(),
		maxUploadBytes: maxUploadBody,
	}
}

// GetAll handles GET /products with an optional ?categories=a,b filter.
func (h *ProductHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	categoryIDs, err := model.ParseIDList(r.URL.Query().Get("categories"), "Category")
	if err != nil {
		response.Error(w, r, err, h.logger)
		return
	}

	products, err := h.service.GetAll(r.Context(), categoryIDs)
	if err != nil {
		response.Error(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// GetByID handles GET /products/{id}.
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "Product")
	if err != nil {
		response.Error(w, r, err, h.logger)
		return
	}

	product, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		response.Error(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// Count handles GET /products/get/count.
func (h *ProductHandler) Count(w http.ResponseWriter, r *http.Request) {
	n, err := h.service.Count(r.Context())
	if err != nil {
		response.Error(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, countResponse{"productCount": n})
}

// GetFeatured handles GET /products/get/featured and /products/get/featured/{count}.
func (h *ProductHandler) GetFeatured(w http.ResponseWriter, r *http.Request) {
	limit := int64(-1)
	if raw := chi.URLParam(r, "count"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 0 {
			response.Error(w, r, model.NewBadRequest("Invalid count."), h.logger)
			return
		}
		limit = n
	}

	products, err := h.service.GetFeatured(r.Context(), limit)
	if err != nil {
		response.Error(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// Create handles POST /products. The body is multipart/form-data with the
// product fields and an "image" file.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, image, err := h.readProductRequest(w, r)
	if err != nil {
		response.Error(w, r, err, h.logger)
		return
	}

	product, err := h.service.Create(r.Context(), req, image, baseURL(r))
	if err != nil {
		response.Error(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, product)
}

// Update handles PUT /products/{id}. Multipart and JSON bodies are accepted;
// without an "image" file the stored image is kept.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "Product")
	if err != nil {
		response.Error(w, r, err, h.logger)
		return
	}

	req, image, err := h.readProductRequest(w, r)
	if err != nil {
		response.Error(w, r, err, h.logger)
		return
	}

	product, err := h.service.Update(r.Context(), id, req, image, baseURL(r))
	if err != nil {
		response.Error(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// UpdateGallery handles PUT /products/gallery-images/{id} with up to ten "images" files.
func (h *ProductHandler) UpdateGallery(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "Product")
	if err != nil {
		response.Error(w, r, err, h.logger)
		return
	}

	if !isMultipart(r) {
		response.Error(w, r, model.ErrNoImage, h.logger)
		return
	}
	if err := h.parseMultipart(w, r); err != nil {
		response.Error(w, r, err, h.logger)
		return
	}

	headers := r.MultipartForm.File["images"]
	if len(headers) == 0 {
		response.Error(w, r, model.ErrNoImage, h.logger)
		return
	}
	if len(headers) > storage.MaxGalleryImages {
		response.Error(w, r, model.ErrTooManyImages, h.logger)
		return
	}

	uploads := make([]*storage.Upload, 0, len(headers))
	for _, fh := range headers {
		upload, err := readUpload(fh)
		if err != nil {
			response.Error(w, r, err, h.logger)
			return
		}
		uploads = append(uploads, upload)
	}

	product, err := h.service.UpdateGallery(r.Context(), id, uploads, baseURL(r))
	if err != nil {
		response.Error(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// Delete handles DELETE /products/{id}.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "Product")
	if err != nil {
		response.Error(w, r, err, h.logger)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		response.Error(w, r, err, h.logger)
		return
	}
	writeMessage(w, "The product is deleted!")
}

// parseMultipart parses the form with the body capped at maxUploadBytes, so an
// oversized request is rejected before it is spooled to disk in full.
func (h *ProductHandler) parseMultipart(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return errBodyTooLarge
		}
		return model.ErrInvalidBody
	}
	return nil
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

// readProductRequest reads the product fields and the optional "image" file.
// JSON bodies never carry an image.
func (h *ProductHandler) readProductRequest(w http.ResponseWriter, r *http.Request) (*model.ProductRequest, *storage.Upload, error) {
	if !isMultipart(r) {
		var req model.ProductRequest
		if err := decodeJSON(r, &req); err != nil {
			return nil, nil, err
		}
		return &req, nil, nil
	}

	if err := h.parseMultipart(w, r); err != nil {
		return nil, nil, err
	}

	req, err := productFromForm(r.MultipartForm.Value)
	if err != nil {
		return nil, nil, err
	}

	var image *storage.Upload
	if files := r.MultipartForm.File["image"]; len(files) > 0 {
		if image, err = readUpload(files[0]); err != nil {
			return nil, nil, err
		}
	}
	return req, image, nil
}

// productFromForm converts multipart text fields. Numbers that fail to parse are
// reported per field.
func productFromForm(form map[string][]string) (*model.ProductRequest, error) {
	get := func(key string) string {
		if v := form[key]; len(v) > 0 {
			return strings.TrimSpace(v[0])
		}
		return ""
	}

	req := &model.ProductRequest{
		Name:            get("name"),
		Description:     get("description"),
		RichDescription: get("richDescription"),
		Brand:           get("brand"),
		Category:        get("category"),
	}

	fields := map[string]string{}
	parseFloat := func(key string, dst *float64) {
		if raw := get(key); raw != "" {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				fields[key] = "must be a number"
				return
			}
			*dst = v
		}
	}
	parseInt := func(key string, dst *int) {
		if raw := get(key); raw != "" {
			v, err := strconv.Atoi(raw)
			if err != nil {
				fields[key] = "must be an integer"
				return
			}
			*dst = v
		}
	}

	parseFloat("price", &req.Price)
	parseFloat("rating", &req.Rating)
	parseInt("countInStock", &req.CountInStock)
	parseInt("numReviews", &req.NumReviews)

	if raw := get("isFeatured"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			fields["isFeatured"] = "must be a boolean"
		}
		req.IsFeatured = v
	}

	if len(fields) > 0 {
		return nil, model.NewValidationError(fields)
	}
	return req, nil
}

func readUpload(fh *multipart.FileHeader) (*storage.Upload, error) {
	if fh.Size > maxImageSize {
		return nil, model.NewBadRequest(fmt.Sprintf("image %q is larger than %d bytes", fh.Filename, maxImageSize))
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxImageSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if len(data) > maxImageSize {
		return nil, model.NewBadRequest(fmt.Sprintf("image %q is larger than %d bytes", fh.Filename, maxImageSize))
	}
	if len(data) == 0 {
		return nil, model.ErrNoImage
	}

	return &storage.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
