package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"nemo-ecommerce/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memRepository keeps products in a map and applies $set the way Mongo does.
type memRepository struct {
	mu       sync.Mutex
	order    []primitive.ObjectID
	products map[primitive.ObjectID]model.Product
	err      error
}

func newMemRepository() *memRepository {
	return &memRepository{products: make(map[primitive.ObjectID]model.Product)}
}

func (m *memRepository) Insert(_ context.Context, p *model.Product) (model.InsertResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return model.InsertResult{}, m.err
	}
	p.ID = primitive.NewObjectID()
	m.products[p.ID] = *p
	m.order = append(m.order, p.ID)
	return model.InsertResult{Acknowledged: true, InsertedID: p.ID}, nil
}

func (m *memRepository) FindAll(_ context.Context) ([]model.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make([]model.Product, 0, len(m.order))
	for _, id := range m.order {
		if p, ok := m.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memRepository) FindByID(_ context.Context, id primitive.ObjectID) (*model.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *memRepository) Update(_ context.Context, id primitive.ObjectID, set map[string]any) (model.UpdateResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return model.UpdateResult{}, m.err
	}
	p, ok := m.products[id]
	if !ok {
		return model.UpdateResult{Acknowledged: true}, nil
	}
	for k, v := range set {
		switch k {
		case "productName":
			p.ProductName = v.(string)
		case "price":
			f := v.(float64)
			p.Price = &f
		case "description":
			s := v.(string)
			p.Description = &s
		case "brandName":
			s := v.(string)
			p.BrandName = &s
		case "stock":
			n := v.(int)
			p.Stock = &n
		case "colors":
			c := v.([]string)
			p.Colors = &c
		case "category":
			s := v.(string)
			p.Category = &s
		case "images":
			i := v.([]string)
			p.Images = &i
		}
	}
	m.products[id] = p
	return model.UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: 1}, nil
}

func (m *memRepository) Delete(_ context.Context, id primitive.ObjectID) (model.DeleteResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return model.DeleteResult{}, m.err
	}
	if _, ok := m.products[id]; !ok {
		return model.DeleteResult{Acknowledged: true}, nil
	}
	delete(m.products, id)
	return model.DeleteResult{Acknowledged: true, DeletedCount: 1}, nil
}

func ptr[T any](v T) *T { return &v }

func sampleProduct() model.Product {
	return model.Product{
		ProductName: "Fin",
		Price:       ptr(9.99),
		Description: ptr("Carbon swim fin"),
		BrandName:   ptr("Nemo"),
		Stock:       ptr(12),
		Colors:      &[]string{"blue", "black"},
		Category:    ptr("swim"),
		Images:      &[]string{"https://cdn.example.com/fin.png"},
	}
}

func TestProductService_CreateThenGet(t *testing.T) {
	ctx := context.Background()
	svc := NewProductService(newMemRepository())

	in := sampleProduct()
	res, err := svc.Create(ctx, &in)
	require.NoError(t, err)
	assert.True(t, res.Acknowledged)
	assert.False(t, res.InsertedID.IsZero())

	got, err := svc.GetByID(ctx, res.InsertedID.Hex())
	require.NoError(t, err)
	require.NotNil(t, got)

	want := sampleProduct()
	want.ID = res.InsertedID
	assert.Equal(t, want, *got)
}

func TestProductService_Create_Validation(t *testing.T) {
	testCases := []struct {
		name    string
		product model.Product
		field   string
	}{
		{name: "missing name", product: model.Product{Price: ptr(1.0)}, field: "productName"},
		{name: "negative price", product: model.Product{ProductName: "x", Price: ptr(-1.0)}, field: "price"},
		{name: "negative stock", product: model.Product{ProductName: "x", Stock: ptr(-3)}, field: "stock"},
		{name: "blank color", product: model.Product{ProductName: "x", Colors: &[]string{"red", ""}}, field: "colors[1]"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newMemRepository()
			svc := NewProductService(repo)

			_, err := svc.Create(context.Background(), &tc.product)
			require.Error(t, err)

			fields, ok := FieldErrors(err)
			require.True(t, ok, "expected validation errors, got %v", err)
			assert.Contains(t, fields, tc.field)
			assert.Empty(t, repo.products)
		})
	}
}

func TestProductService_GetByID(t *testing.T) {
	ctx := context.Background()
	svc := NewProductService(newMemRepository())

	t.Run("malformed id", func(t *testing.T) {
		_, err := svc.GetByID(ctx, "not-an-object-id")
		assert.ErrorIs(t, err, ErrInvalidID)
	})

	t.Run("unknown id", func(t *testing.T) {
		got, err := svc.GetByID(ctx, primitive.NewObjectID().Hex())
		assert.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestProductService_Update_OnlyPresentFields(t *testing.T) {
	ctx := context.Background()
	svc := NewProductService(newMemRepository())

	in := sampleProduct()
	created, err := svc.Create(ctx, &in)
	require.NoError(t, err)
	id := created.InsertedID.Hex()

	res, err := svc.Update(ctx, id, model.ProductUpdate{Price: ptr(12.5), Colors: &[]string{"red"}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.MatchedCount)

	got, err := svc.GetByID(ctx, id)
	require.NoError(t, err)

	want := sampleProduct()
	want.ID = created.InsertedID
	want.Price = ptr(12.5)
	want.Colors = &[]string{"red"}
	assert.Equal(t, want, *got)
}

func TestProductService_Update_Errors(t *testing.T) {
	ctx := context.Background()
	svc := NewProductService(newMemRepository())

	_, err := svc.Update(ctx, "zzz", model.ProductUpdate{Price: ptr(1.0)})
	assert.ErrorIs(t, err, ErrInvalidID)

	_, err = svc.Update(ctx, primitive.NewObjectID().Hex(), model.ProductUpdate{})
	assert.ErrorIs(t, err, ErrEmptyUpdate)

	_, err = svc.Update(ctx, primitive.NewObjectID().Hex(), model.ProductUpdate{Stock: ptr(-1)})
	_, isValidation := FieldErrors(err)
	assert.True(t, isValidation)

	_, err = svc.Update(ctx, primitive.NewObjectID().Hex(), model.ProductUpdate{Price: ptr(1.0)})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductService_Delete(t *testing.T) {
	ctx := context.Background()
	svc := NewProductService(newMemRepository())

	in := sampleProduct()
	created, err := svc.Create(ctx, &in)
	require.NoError(t, err)
	id := created.InsertedID.Hex()

	res, err := svc.Delete(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.DeletedCount)

	got, err := svc.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = svc.Delete(ctx, id)
	assert.ErrorIs(t, err, ErrProductNotFound)

	_, err = svc.Delete(ctx, "123")
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestProductService_GetAll(t *testing.T) {
	ctx := context.Background()
	svc := NewProductService(newMemRepository())

	all, err := svc.GetAll(ctx)
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)

	ids := make([]primitive.ObjectID, 0, 3)
	for range 3 {
		p := sampleProduct()
		res, err := svc.Create(ctx, &p)
		require.NoError(t, err)
		ids = append(ids, res.InsertedID)
	}

	all, err = svc.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	for i, p := range all {
		assert.Equal(t, ids[i], p.ID)
	}
}

func TestProductService_StoreErrorsPropagate(t *testing.T) {
	repo := newMemRepository()
	repo.err = errors.New("server selection timeout")
	svc := NewProductService(repo)

	_, err := svc.GetAll(context.Background())
	assert.ErrorIs(t, err, repo.err)

	_, err = svc.Delete(context.Background(), primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, repo.err)
}

func TestProductService_Update_EmptyValuesAreApplied(t *testing.T) {
	ctx := context.Background()
	svc := NewProductService(newMemRepository())

	in := sampleProduct()
	created, err := svc.Create(ctx, &in)
	require.NoError(t, err)
	id := created.InsertedID.Hex()

	_, err = svc.Update(ctx, id, model.ProductUpdate{Colors: &[]string{}, Description: ptr("")})
	require.NoError(t, err)

	got, err := svc.GetByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got.Colors)
	assert.Empty(t, *got.Colors)
	require.NotNil(t, got.Description)
	assert.Equal(t, "", *got.Description)
	assert.Equal(t, "Nemo", *got.BrandName)
}
