package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"nemo-ecommerce/internal/logger"
	"nemo-ecommerce/internal/model"
	"nemo-ecommerce/internal/service"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// ProductService is what the handlers call into.
type ProductService interface {
	Create(ctx context.Context, p *model.Product) (model.InsertResult, error)
	GetAll(ctx context.Context) ([]model.Product, error)
	GetByID(ctx context.Context, id string) (*model.Product, error)
	Update(ctx context.Context, id string, u model.ProductUpdate) (model.UpdateResult, error)
	Delete(ctx context.Context, id string) (model.DeleteResult, error)
}

type ProductHandler struct {
	service ProductService
}

var HttpProductHandlerTracer = otel.Tracer("HttpProductHandler")

func NewProductHandler(service ProductService) *ProductHandler {
	return &ProductHandler{
		service: service,
	}
}

// Routes mounts the product endpoints under /products.
func (h *ProductHandler) Routes(r chi.Router) {
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.GetAll)
		r.Post("/", h.Create)
		r.Get("/{id}", h.GetByID)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

type deleteResponse struct {
	Message string             `json:"message"`
	Result  model.DeleteResult `json:"result"`
}

type validationErrorResponse struct {
	Error            string            `json:"error"`
	ValidationErrors map[string]string `json:"validation_errors"`
}

// respondServiceError maps service errors onto the HTTP error envelope.
func respondServiceError(ctx context.Context, w http.ResponseWriter, err error, fallback string) {
	if fields, ok := service.FieldErrors(err); ok {
		logger.Warn(ctx, "Validation failed", slog.Any("errors", fields))
		RespondJSON(ctx, w, http.StatusBadRequest, validationErrorResponse{
			Error:            "Validation failed",
			ValidationErrors: fields,
		})
		return
	}

	switch {
	case errors.Is(err, service.ErrInvalidID):
		RespondError(ctx, w, http.StatusBadRequest, "Invalid product ID")
	case errors.Is(err, service.ErrProductNotFound):
		RespondError(ctx, w, http.StatusNotFound, "Product not found")
	case errors.Is(err, service.ErrEmptyUpdate):
		RespondError(ctx, w, http.StatusBadRequest, "No updatable fields provided")
	default:
		logger.Error(ctx, fallback, slog.String("error", err.Error()))
		RespondError(ctx, w, http.StatusInternalServerError, fallback)
	}
}

func (h *ProductHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpProductHandlerTracer.Start(r.Context(), "HttpProductHandler.GetAll")
	defer span.End()

	products, err := h.service.GetAll(ctx)
	if err != nil {
		respondServiceError(ctx, w, err, "Failed to fetch products")
		return
	}
	span.SetAttributes(attribute.Int("product.count", len(products)))
	RespondJSON(ctx, w, http.StatusOK, products)
}

// GetByID answers null for an unknown but well-formed id.
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpProductHandlerTracer.Start(r.Context(), "HttpProductHandler.GetByID")
	defer span.End()

	id := chi.URLParam(r, "id")
	span.SetAttributes(attribute.String("product.id", id))

	product, err := h.service.GetByID(ctx, id)
	if err != nil {
		respondServiceError(ctx, w, err, "Failed to fetch product")
		return
	}
	RespondJSON(ctx, w, http.StatusOK, product)
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpProductHandlerTracer.Start(r.Context(), "HttpProductHandler.Create")
	defer span.End()

	var product model.Product
	if err := decodeBody(r, &product); err != nil {
		respondDecodeError(ctx, w, err)
		return
	}

	res, err := h.service.Create(ctx, &product)
	if err != nil {
		respondServiceError(ctx, w, err, "Failed to create product")
		return
	}
	logger.Info(ctx, "Product created", slog.String("id", res.InsertedID.Hex()))
	RespondJSON(ctx, w, http.StatusCreated, res)
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpProductHandlerTracer.Start(r.Context(), "HttpProductHandler.Update")
	defer span.End()

	id := chi.URLParam(r, "id")
	span.SetAttributes(attribute.String("product.id", id))

	var update model.ProductUpdate
	if err := decodeBody(r, &update); err != nil {
		respondDecodeError(ctx, w, err)
		return
	}

	res, err := h.service.Update(ctx, id, update)
	if err != nil {
		respondServiceError(ctx, w, err, "Failed to update product")
		return
	}
	RespondJSON(ctx, w, http.StatusOK, res)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpProductHandlerTracer.Start(r.Context(), "HttpProductHandler.Delete")
	defer span.End()

	id := chi.URLParam(r, "id")
	span.SetAttributes(attribute.String("product.id", id))

	res, err := h.service.Delete(ctx, id)
	if err != nil {
		respondServiceError(ctx, w, err, "Failed to delete product")
		return
	}
	logger.Info(ctx, "Product deleted", slog.String("id", id))
	RespondJSON(ctx, w, http.StatusOK, deleteResponse{
		Message: "Product deleted successfully",
		Result:  res,
	})
}
