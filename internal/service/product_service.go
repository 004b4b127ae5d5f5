package service

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"nemo-ecommerce/internal/logger"
	"nemo-ecommerce/internal/model"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel"
)

// Repository is the storage the product service needs.
type Repository interface {
	Insert(ctx context.Context, product *model.Product) (model.InsertResult, error)
	FindAll(ctx context.Context) ([]model.Product, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Product, error)
	Update(ctx context.Context, id primitive.ObjectID, set map[string]any) (model.UpdateResult, error)
	Delete(ctx context.Context, id primitive.ObjectID) (model.DeleteResult, error)
}

type ProductService struct {
	repo     Repository
	validate *validator.Validate
}

var ProductServiceTracer = otel.Tracer("ProductService")

func NewProductService(repo Repository) *ProductService {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report json names so errors match the request body
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &ProductService{repo: repo, validate: v}
}

func parseID(id string) (primitive.ObjectID, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return objID, nil
}

func (s *ProductService) Create(ctx context.Context, p *model.Product) (model.InsertResult, error) {
	ctx, span := ProductServiceTracer.Start(ctx, "ProductService.Create")
	defer span.End()
	logger.Debug(ctx, "Service")

	if err := s.validate.StructCtx(ctx, p); err != nil {
		return model.InsertResult{}, err
	}
	return s.repo.Insert(ctx, p)
}

func (s *ProductService) GetAll(ctx context.Context) ([]model.Product, error) {
	ctx, span := ProductServiceTracer.Start(ctx, "ProductService.GetAll")
	defer span.End()
	logger.Debug(ctx, "Service")

	return s.repo.FindAll(ctx)
}

// GetByID returns nil, nil when the id is well formed but unknown.
func (s *ProductService) GetByID(ctx context.Context, id string) (*model.Product, error) {
	ctx, span := ProductServiceTracer.Start(ctx, "ProductService.GetByID")
	defer span.End()
	logger.Debug(ctx, "Service")

	objID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, objID)
}

func (s *ProductService) Update(ctx context.Context, id string, u model.ProductUpdate) (model.UpdateResult, error) {
	ctx, span := ProductServiceTracer.Start(ctx, "ProductService.Update")
	defer span.End()
	logger.Debug(ctx, "Service")

	objID, err := parseID(id)
	if err != nil {
		return model.UpdateResult{}, err
	}
	if err := s.validate.StructCtx(ctx, u); err != nil {
		return model.UpdateResult{}, err
	}

	set := u.SetDocument()
	if len(set) == 0 {
		return model.UpdateResult{}, ErrEmptyUpdate
	}

	res, err := s.repo.Update(ctx, objID, set)
	if err != nil {
		return model.UpdateResult{}, err
	}
	if res.MatchedCount == 0 {
		return res, ErrProductNotFound
	}
	return res, nil
}

func (s *ProductService) Delete(ctx context.Context, id string) (model.DeleteResult, error) {
	ctx, span := ProductServiceTracer.Start(ctx, "ProductService.Delete")
	defer span.End()
	logger.Debug(ctx, "Service")

	objID, err := parseID(id)
	if err != nil {
		return model.DeleteResult{}, err
	}

	res, err := s.repo.Delete(ctx, objID)
	if err != nil {
		return model.DeleteResult{}, err
	}
	if res.DeletedCount == 0 {
		return res, ErrProductNotFound
	}
	return res, nil
}
