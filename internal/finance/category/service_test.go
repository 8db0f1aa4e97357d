// Copyright (c) 2026 Kakeibo. All rights reserved.
// Author: nhat.vu.dev@gmail.com

package category_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhatvu/kakeibo/internal/finance/category"
	"github.com/nhatvu/kakeibo/internal/finance/recordtype"
	"github.com/nhatvu/kakeibo/internal/platform/apperr"
	"github.com/nhatvu/kakeibo/pkg/pointer"
)

// # In-Memory Fakes

type fakeCategoryRepository struct {
	categories map[int64]*category.Category
	nextID     int64
}

func newFakeCategoryRepository() *fakeCategoryRepository {
	return &fakeCategoryRepository{categories: map[int64]*category.Category{}, nextID: 1}
}

func (repo *fakeCategoryRepository) ListByUser(_ context.Context, userID int64) ([]category.Category, error) {
	var rows []category.Category
	for _, row := range repo.categories {
		if row.UserID == userID {
			rows = append(rows, *row)
		}
	}
	return rows, nil
}

func (repo *fakeCategoryRepository) GetByID(_ context.Context, userID, id int64) (*category.Category, error) {
	row, ok := repo.categories[id]
	if !ok || row.UserID != userID {
		return nil, apperr.NotFound("Category")
	}
	return row, nil
}

func (repo *fakeCategoryRepository) Create(_ context.Context, row *category.Category) error {
	row.ID = repo.nextID
	repo.nextID++
	repo.categories[row.ID] = row
	return nil
}

func (repo *fakeCategoryRepository) Update(_ context.Context, row *category.Category) error {
	if _, ok := repo.categories[row.ID]; !ok {
		return apperr.NotFound("Category")
	}
	repo.categories[row.ID] = row
	return nil
}

func (repo *fakeCategoryRepository) SoftDelete(_ context.Context, userID, id int64) error {
	row, ok := repo.categories[id]
	if !ok || row.UserID != userID {
		return apperr.NotFound("Category")
	}
	delete(repo.categories, id)
	return nil
}

// fakeTypeRepository serves the seeded dictionary only.
type fakeTypeRepository struct{}

func (fakeTypeRepository) List(_ context.Context) ([]recordtype.RecordType, error) {
	return nil, nil
}

func (fakeTypeRepository) GetByID(_ context.Context, id int64) (*recordtype.RecordType, error) {
	if id < recordtype.TypeExpense || id > recordtype.TypeTransfer {
		return nil, apperr.NotFound("Record type")
	}
	return &recordtype.RecordType{ID: id}, nil
}

func newCategoryService(t *testing.T) (*category.Service, *fakeCategoryRepository) {
	t.Helper()

	repo := newFakeCategoryRepository()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return category.NewService(repo, fakeTypeRepository{}, logger), repo
}

// # Tests

/*
TestService_CreateCategory verifies dictionary validation on creation.
*/
func TestService_CreateCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		service, repo := newCategoryService(t)

		created, err := service.CreateCategory(ctx, 1, category.CreateInput{
			TypeID: recordtype.TypeExpense,
			Name:   "Groceries",
		})
		require.NoError(t, err)

		assert.Equal(t, int64(1), created.UserID)
		assert.Contains(t, repo.categories, created.ID)
	})

	t.Run("unknown_record_type", func(t *testing.T) {
		service, repo := newCategoryService(t)

		_, err := service.CreateCategory(ctx, 1, category.CreateInput{
			TypeID: 999,
			Name:   "Groceries",
		})
		require.Error(t, err)

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "UNPROCESSABLE", ae.Code)
		assert.Empty(t, repo.categories)
	})
}

/*
TestService_UpdateCategory verifies partial updates and type immutability.
*/
func TestService_UpdateCategory(t *testing.T) {
	ctx := context.Background()
	service, _ := newCategoryService(t)

	created, err := service.CreateCategory(ctx, 1, category.CreateInput{
		TypeID:    recordtype.TypeExpense,
		Name:      "Groceries",
		SortOrder: 1,
	})
	require.NoError(t, err)

	updated, err := service.UpdateCategory(ctx, 1, created.ID, category.UpdateInput{Name: pointer.To("Food")})
	require.NoError(t, err)

	// Name changed, everything else untouched.
	assert.Equal(t, "Food", updated.Name)
	assert.Equal(t, 1, updated.SortOrder)
	assert.Equal(t, recordtype.TypeExpense, updated.TypeID)

	// A stranger cannot reach the category.
	_, err = service.UpdateCategory(ctx, 2, created.ID, category.UpdateInput{Name: pointer.To("Food")})
	assert.True(t, apperr.IsNotFound(err))
}

/*
TestService_DeleteCategory verifies ownership-scoped deletion.
*/
func TestService_DeleteCategory(t *testing.T) {
	ctx := context.Background()
	service, _ := newCategoryService(t)

	created, err := service.CreateCategory(ctx, 1, category.CreateInput{
		TypeID: recordtype.TypeExpense,
		Name:   "Groceries",
	})
	require.NoError(t, err)

	assert.True(t, apperr.IsNotFound(service.DeleteCategory(ctx, 2, created.ID)))
	require.NoError(t, service.DeleteCategory(ctx, 1, created.ID))
}
