package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"nemo-ecommerce/internal/database"
	"nemo-ecommerce/internal/logger"
	"nemo-ecommerce/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type ProductRepository struct {
	db         *database.Provider
	collection string
}

var ProductRepositoryTracer = otel.Tracer("ProductRepository")

func NewProductRepository(db *database.Provider, collection string) *ProductRepository {
	return &ProductRepository{
		db:         db,
		collection: collection,
	}
}

func (r *ProductRepository) coll(ctx context.Context) (*mongo.Collection, error) {
	c, err := r.db.Collection(ctx, r.collection)
	if err != nil {
		return nil, fmt.Errorf("open collection %s: %w", r.collection, err)
	}
	return c, nil
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

func (r *ProductRepository) Insert(ctx context.Context, product *model.Product) (model.InsertResult, error) {
	ctx, span := ProductRepositoryTracer.Start(ctx, "ProductRepository.Insert")
	defer span.End()
	logger.Debug(ctx, "Repository")

	c, err := r.coll(ctx)
	if err != nil {
		return model.InsertResult{}, fail(span, err)
	}

	product.ID = primitive.NewObjectID()
	if _, err := c.InsertOne(ctx, product); err != nil {
		return model.InsertResult{}, fail(span, fmt.Errorf("insert product: %w", err))
	}
	span.SetAttributes(attribute.String("product.id", product.ID.Hex()))
	return model.InsertResult{Acknowledged: true, InsertedID: product.ID}, nil
}

// FindAll returns every document in natural order, never nil.
func (r *ProductRepository) FindAll(ctx context.Context) ([]model.Product, error) {
	ctx, span := ProductRepositoryTracer.Start(ctx, "ProductRepository.FindAll")
	defer span.End()
	logger.Debug(ctx, "Repository")

	c, err := r.coll(ctx)
	if err != nil {
		return nil, fail(span, err)
	}

	cursor, err := c.Find(ctx, bson.M{})
	if err != nil {
		return nil, fail(span, fmt.Errorf("find products: %w", err))
	}
	defer cursor.Close(ctx)

	products, err := decodeProducts(ctx, cursor)
	if err != nil {
		return nil, fail(span, err)
	}
	span.SetAttributes(attribute.Int("product.count", len(products)))
	return products, nil
}

// decodeProducts drains the cursor. Documents that do not fit model.Product
// are logged and left out rather than failing the whole listing.
func decodeProducts(ctx context.Context, cursor *mongo.Cursor) ([]model.Product, error) {
	span := trace.SpanFromContext(ctx)

	products := make([]model.Product, 0)
	skipped := 0
	for cursor.Next(ctx) {
		var product model.Product
		if err := cursor.Decode(&product); err != nil {
			id := cursor.Current.Lookup("_id").String()
			skipped++
			span.AddEvent("product.skipped", trace.WithAttributes(
				attribute.String("product.id", id),
				attribute.String("error", err.Error()),
			))
			logger.Warn(ctx, "Skipping undecodable product",
				slog.String("id", id),
				slog.String("error", err.Error()),
			)
			continue
		}
		products = append(products, product)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	if skipped > 0 {
		span.SetAttributes(attribute.Int("product.skipped", skipped))
	}
	return products, nil
}

// FindByID returns nil without error when no document matches.
func (r *ProductRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Product, error) {
	ctx, span := ProductRepositoryTracer.Start(ctx, "ProductRepository.FindByID",
		trace.WithAttributes(attribute.String("product.id", id.Hex())))
	defer span.End()
	logger.Debug(ctx, "Repository")

	c, err := r.coll(ctx)
	if err != nil {
		return nil, fail(span, err)
	}

	var product model.Product
	err = c.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fail(span, fmt.Errorf("find product: %w", err))
	}
	return &product, nil
}

func (r *ProductRepository) Update(ctx context.Context, id primitive.ObjectID, set map[string]any) (model.UpdateResult, error) {
	ctx, span := ProductRepositoryTracer.Start(ctx, "ProductRepository.Update",
		trace.WithAttributes(attribute.String("product.id", id.Hex())))
	defer span.End()
	logger.Debug(ctx, "Repository")

	c, err := r.coll(ctx)
	if err != nil {
		return model.UpdateResult{}, fail(span, err)
	}

	res, err := c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return model.UpdateResult{}, fail(span, fmt.Errorf("update product: %w", err))
	}
	return model.UpdateResult{
		Acknowledged:  true,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		UpsertedCount: res.UpsertedCount,
		UpsertedID:    res.UpsertedID,
	}, nil
}

func (r *ProductRepository) Delete(ctx context.Context, id primitive.ObjectID) (model.DeleteResult, error) {
	ctx, span := ProductRepositoryTracer.Start(ctx, "ProductRepository.Delete",
		trace.WithAttributes(attribute.String("product.id", id.Hex())))
	defer span.End()
	logger.Debug(ctx, "Repository")

	c, err := r.coll(ctx)
	if err != nil {
		return model.DeleteResult{}, fail(span, err)
	}

	res, err := c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return model.DeleteResult{}, fail(span, fmt.Errorf("delete product: %w", err))
	}
	return model.DeleteResult{Acknowledged: true, DeletedCount: res.DeletedCount}, nil
}
