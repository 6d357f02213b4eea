package hardware

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hwcatalog/internal/core/apperror"
	"hwcatalog/pkg/logger"
)

func seedCatalog(store *memStore) {
	parts := []struct {
		name    string
		typ     Type
		price   string
		rating  int
		inStock bool
		tags    []string
	}{
		{"GeForce RTX 4090", TypeGraphicsCard, "1899.99", 5, true, []string{"gaming", "high-speed"}},
		{"Ryzen 7 7800X3D", TypeProcessor, "449.00", 5, true, []string{"gaming"}},
		{"Vengeance 32GB", TypeRAM, "119.90", 4, false, []string{"DDR4"}},
		{"Barracuda 2TB", TypeHDD, "64.99", 3, true, nil},
		{"Pure Rock 2", TypeCooler, "44.90", 2, true, []string{"reliable"}},
		{"Radeon RX 7800 XT", TypeGraphicsCard, "699.00", 4, false, []string{"gaming"}},
	}
	for _, p := range parts {
		store.seed(Record{
			Name:         p.name,
			Manufacturer: "acme",
			Type:         p.typ,
			Price:        decimal.RequireFromString(p.price),
			Rating:       p.rating,
			InStock:      p.inStock,
			Tags:         p.tags,
		})
	}
}

func newReadService(builder QueryBuilder) *ReadService {
	return NewReadService(builder, logger.NewNop())
}

func TestReadService_FindByID(t *testing.T) {
	store := newMemStore()
	id := store.seed(Record{Name: "Barracuda 2TB", Type: TypeHDD, Rating: 3})
	svc := newReadService(store)

	rec, err := svc.FindByID(context.Background(), id, false)
	require.NoError(t, err)

	assert.Equal(t, id, rec.ID)
	assert.Equal(t, 0, rec.Version)
	assert.NotNil(t, rec.Tags, "absent tags must be normalized")
	assert.Empty(t, rec.Tags)
	assert.Nil(t, rec.Images)
}

func TestReadService_FindByID_WithImages(t *testing.T) {
	store := newMemStore()
	id := store.seed(Record{
		Name: "GeForce RTX 4090",
		Images: []Image{
			{Caption: "front", ContentType: "image/png"},
			{Caption: "back", ContentType: "image/jpeg"},
		},
	})
	bare := store.seed(Record{Name: "Pure Rock 2"})
	svc := newReadService(store)

	rec, err := svc.FindByID(context.Background(), id, true)
	require.NoError(t, err)
	require.Len(t, rec.Images, 2)
	assert.Equal(t, "front", rec.Images[0].Caption)

	rec, err = svc.FindByID(context.Background(), bare, true)
	require.NoError(t, err)
	assert.NotNil(t, rec.Images)
	assert.Empty(t, rec.Images)
}

func TestReadService_FindByID_NotFound(t *testing.T) {
	svc := newReadService(newMemStore())

	_, err := svc.FindByID(context.Background(), 42, false)

	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestReadService_FindByID_StoreError(t *testing.T) {
	store := newMemStore()
	store.queryErr = errBoom
	svc := newReadService(store)

	_, err := svc.FindByID(context.Background(), 1, false)

	require.ErrorIs(t, err, errBoom)
	assert.False(t, apperror.IsNotFound(err))
}

func TestReadService_Find_EmptyCriteriaDelegatesToFindAll(t *testing.T) {
	store := newMemStore()
	seedCatalog(store)
	svc := newReadService(store)

	for name, criteria := range map[string]SearchCriteria{"nil": nil, "empty": {}} {
		t.Run(name, func(t *testing.T) {
			slice, err := svc.Find(context.Background(), criteria, Pageable{Number: 0, Size: 4})
			require.NoError(t, err)
			assert.Len(t, slice.Content, 4)
			assert.EqualValues(t, 6, slice.TotalElements)
		})
	}
}

func TestReadService_Find_InvalidCriteriaIsNotFound(t *testing.T) {
	store := newMemStore()
	seedCatalog(store)
	svc := newReadService(store)
	ctx := context.Background()

	tests := map[string]SearchCriteria{
		"unknown key":        {"foo": "bar"},
		"unknown key mixed":  {"name": "Ryzen", "color": "red"},
		"unknown type":       {"type": "MONITOR"},
		"lower case type":    {"type": "ssd"},
		"case sensitive key": {"Images": "1"},
	}
	for name, criteria := range tests {
		t.Run(name, func(t *testing.T) {
			queriesBefore := store.queries

			_, err := svc.Find(ctx, criteria, Pageable{Size: 5})

			require.Error(t, err)
			assert.True(t, apperror.IsNotFound(err))
			assert.Equal(t, queriesBefore, store.queries, "invalid criteria must not reach the store")
		})
	}

	// Rejected criteria and an empty match are indistinguishable to the caller.
	_, invalid := svc.Find(ctx, SearchCriteria{"foo": "bar"}, Pageable{Size: 5})
	_, empty := svc.Find(ctx, SearchCriteria{"name": "no such part"}, Pageable{Size: 5})
	assert.Equal(t, apperror.GetHTTPStatus(invalid), apperror.GetHTTPStatus(empty))
	assert.True(t, apperror.IsNotFound(empty))
}

func TestReadService_Find_Rating(t *testing.T) {
	store := newMemStore()
	seedCatalog(store)
	svc := newReadService(store)

	slice, err := svc.Find(context.Background(), SearchCriteria{"rating": "4"}, Unpaged)
	require.NoError(t, err)

	require.Len(t, slice.Content, 4)
	for _, rec := range slice.Content {
		assert.GreaterOrEqual(t, rec.Rating, 4)
	}
	assert.EqualValues(t, 4, slice.TotalElements)
}

func TestReadService_Find_RatingLeadingInteger(t *testing.T) {
	store := newMemStore()
	seedCatalog(store)
	svc := newReadService(store)

	for _, raw := range []string{"4.9", "4abc", " 4"} {
		slice, err := svc.Find(context.Background(), SearchCriteria{"rating": raw}, Unpaged)
		require.NoError(t, err, raw)
		assert.EqualValues(t, 4, slice.TotalElements, raw)
	}
}

func TestReadService_Find_ImagesKeyIsAcceptedWithoutFilter(t *testing.T) {
	store := newMemStore()
	seedCatalog(store)
	svc := newReadService(store)

	slice, err := svc.Find(context.Background(), SearchCriteria{"images": "any"}, Unpaged)
	require.NoError(t, err)

	assert.EqualValues(t, 6, slice.TotalElements)
}

func TestReadService_Find_UnparseableRatingIsIgnored(t *testing.T) {
	store := newMemStore()
	seedCatalog(store)
	svc := newReadService(store)

	slice, err := svc.Find(context.Background(), SearchCriteria{"rating": "many"}, Unpaged)
	require.NoError(t, err)

	assert.EqualValues(t, 6, slice.TotalElements)
}

func TestReadService_Find_Price(t *testing.T) {
	store := newMemStore()
	seedCatalog(store)
	svc := newReadService(store)
	limit := decimal.NewFromInt(700)

	slice, err := svc.Find(context.Background(), SearchCriteria{"price": "700"}, Unpaged)
	require.NoError(t, err)

	require.Len(t, slice.Content, 5)
	for _, rec := range slice.Content {
		assert.True(t, rec.Price.LessThanOrEqual(limit), "price %s", rec.Price)
	}
}

func TestReadService_Find_PagesAreConsistent(t *testing.T) {
	store := newMemStore()
	seedCatalog(store)
	svc := newReadService(store)
	ctx := context.Background()
	criteria := SearchCriteria{"rating": "3"}

	seen := map[int64]bool{}
	for page := 0; page < 3; page++ {
		slice, err := svc.Find(ctx, criteria, Pageable{Number: page, Size: 2})
		require.NoError(t, err, "page %d", page)
		assert.EqualValues(t, 5, slice.TotalElements)
		for _, rec := range slice.Content {
			assert.False(t, seen[rec.ID], "record %d returned twice", rec.ID)
			seen[rec.ID] = true
		}
	}
	assert.Len(t, seen, 5)

	_, err := svc.Find(ctx, criteria, Pageable{Number: 3, Size: 2})
	assert.True(t, apperror.IsNotFound(err))
}

func TestReadService_Find_TagLiteralsAndTypes(t *testing.T) {
	store := newMemStore()
	seedCatalog(store)
	svc := newReadService(store)
	ctx := context.Background()

	slice, err := svc.Find(ctx, SearchCriteria{"gaming": "true", "type": string(TypeGraphicsCard)}, Unpaged)
	require.NoError(t, err)
	assert.EqualValues(t, 2, slice.TotalElements)

	slice, err = svc.Find(ctx, SearchCriteria{"DDR4": "true"}, Unpaged)
	require.NoError(t, err)
	require.Len(t, slice.Content, 1)
	assert.Equal(t, "Vengeance 32GB", slice.Content[0].Name)
}

func TestReadService_Find_NormalizesTags(t *testing.T) {
	store := newMemStore()
	seedCatalog(store)
	svc := newReadService(store)

	slice, err := svc.Find(context.Background(), SearchCriteria{"name": "barracuda"}, Unpaged)
	require.NoError(t, err)

	require.Len(t, slice.Content, 1)
	assert.NotNil(t, slice.Content[0].Tags)
}

func TestReadService_FindAll_NotFound(t *testing.T) {
	ctx := context.Background()

	t.Run("empty store", func(t *testing.T) {
		svc := newReadService(newMemStore())
		_, err := svc.FindAll(ctx, Pageable{Size: 5})
		assert.True(t, apperror.IsNotFound(err))
	})

	t.Run("beyond last page", func(t *testing.T) {
		store := newMemStore()
		seedCatalog(store)
		svc := newReadService(store)

		_, err := svc.FindAll(ctx, Pageable{Number: 2, Size: 5})
		require.Error(t, err)
		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeNotFound, appErr.Code)
		assert.Equal(t, 2, appErr.Details["page"])
	})
}

func TestReadService_Find_CountError(t *testing.T) {
	store := newMemStore()
	seedCatalog(store)
	svc := newReadService(&failingCount{memStore: store})

	_, err := svc.FindAll(context.Background(), Pageable{Size: 5})

	require.ErrorIs(t, err, errBoom)
}

// failingCount wraps memStore so that only Count fails.
type failingCount struct{ *memStore }

func (f *failingCount) Build(criteria SearchCriteria, pageable Pageable) Query {
	return countErrQuery{f.memStore.Build(criteria, pageable)}
}

type countErrQuery struct{ Query }

func (countErrQuery) Count(context.Context) (int64, error) {
	return 0, fmt.Errorf("count: %w", errBoom)
}
