// Copyright (c) 2026 Kakeibo. All rights reserved.
// Author: nhat.vu.dev@gmail.com

package record_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhatvu/kakeibo/internal/finance/category"
	"github.com/nhatvu/kakeibo/internal/finance/record"
	"github.com/nhatvu/kakeibo/internal/finance/recordtype"
	"github.com/nhatvu/kakeibo/internal/finance/tag"
	"github.com/nhatvu/kakeibo/internal/platform/apperr"
)

// # In-Memory Fakes

type fakeRecordRepository struct {
	records map[int64]*record.Record
	tags    map[int64][]int64
	nextID  int64
}

func newFakeRecordRepository() *fakeRecordRepository {
	return &fakeRecordRepository{
		records: map[int64]*record.Record{},
		tags:    map[int64][]int64{},
		nextID:  1,
	}
}

func (repo *fakeRecordRepository) GetByID(_ context.Context, userID, id int64) (*record.Record, error) {
	row, ok := repo.records[id]
	if !ok || row.UserID != userID {
		return nil, apperr.NotFound("Record")
	}
	copied := *row
	return &copied, nil
}

func (repo *fakeRecordRepository) List(_ context.Context, userID int64, _ record.ListFilter) ([]record.Record, int, error) {
	var rows []record.Record
	for _, row := range repo.records {
		if row.UserID == userID {
			rows = append(rows, *row)
		}
	}
	return rows, len(rows), nil
}

func (repo *fakeRecordRepository) Create(_ context.Context, row *record.Record, tagIDs []int64) error {
	row.ID = repo.nextID
	repo.nextID++
	repo.records[row.ID] = row
	repo.tags[row.ID] = tagIDs
	return nil
}

func (repo *fakeRecordRepository) Update(_ context.Context, row *record.Record, tagIDs *[]int64) error {
	if _, ok := repo.records[row.ID]; !ok {
		return apperr.NotFound("Record")
	}
	repo.records[row.ID] = row
	if tagIDs != nil {
		repo.tags[row.ID] = *tagIDs
	}
	return nil
}

func (repo *fakeRecordRepository) SoftDelete(_ context.Context, userID, id int64) error {
	row, ok := repo.records[id]
	if !ok || row.UserID != userID {
		return apperr.NotFound("Record")
	}
	delete(repo.records, id)
	return nil
}

func (repo *fakeRecordRepository) MonthlySummary(_ context.Context, userID int64, year int) ([]record.MonthlySummary, error) {
	rollup := map[string]*record.MonthlySummary{}
	for _, row := range repo.records {
		if row.UserID != userID || row.OccurredOn.Year() != year {
			continue
		}
		key := fmt.Sprintf("%s/%d", row.OccurredOn.Format("2006-01"), row.TypeID)
		entry, ok := rollup[key]
		if !ok {
			entry = &record.MonthlySummary{Month: row.OccurredOn.Format("2006-01"), TypeID: row.TypeID}
			rollup[key] = entry
		}
		entry.Total += row.Amount
		entry.Count++
	}

	var summaries []record.MonthlySummary
	for _, entry := range rollup {
		summaries = append(summaries, *entry)
	}
	return summaries, nil
}

type fakeCategoryRepository struct {
	categories map[int64]*category.Category
}

func (repo *fakeCategoryRepository) ListByUser(_ context.Context, _ int64) ([]category.Category, error) {
	return nil, nil
}

func (repo *fakeCategoryRepository) GetByID(_ context.Context, userID, id int64) (*category.Category, error) {
	row, ok := repo.categories[id]
	if !ok || row.UserID != userID {
		return nil, apperr.NotFound("Category")
	}
	return row, nil
}

func (repo *fakeCategoryRepository) Create(_ context.Context, _ *category.Category) error { return nil }
func (repo *fakeCategoryRepository) Update(_ context.Context, _ *category.Category) error { return nil }
func (repo *fakeCategoryRepository) SoftDelete(_ context.Context, _, _ int64) error       { return nil }

type fakeTagRepository struct {
	tags map[int64]*tag.Tag
}

func (repo *fakeTagRepository) ListByUser(_ context.Context, _ int64) ([]tag.Tag, error) {
	return nil, nil
}

func (repo *fakeTagRepository) GetByID(_ context.Context, userID, id int64) (*tag.Tag, error) {
	row, ok := repo.tags[id]
	if !ok || row.UserID != userID {
		return nil, apperr.NotFound("Tag")
	}
	return row, nil
}

func (repo *fakeTagRepository) Create(_ context.Context, _ *tag.Tag) error  { return nil }
func (repo *fakeTagRepository) Delete(_ context.Context, _, _ int64) error { return nil }

// # Test Harness

const (
	ownerID    = int64(1)
	strangerID = int64(2)
)

func newRecordService(t *testing.T) (*record.Service, *fakeRecordRepository) {
	t.Helper()

	categories := &fakeCategoryRepository{categories: map[int64]*category.Category{
		10: {ID: 10, UserID: ownerID, TypeID: recordtype.TypeExpense, Name: "Groceries"},
		11: {ID: 11, UserID: ownerID, TypeID: recordtype.TypeIncome, Name: "Salary"},
		12: {ID: 12, UserID: strangerID, TypeID: recordtype.TypeExpense, Name: "Rent"},
	}}
	tags := &fakeTagRepository{tags: map[int64]*tag.Tag{
		20: {ID: 20, UserID: ownerID, Name: "family"},
		21: {ID: 21, UserID: strangerID, Name: "work"},
	}}

	repo := newFakeRecordRepository()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return record.NewService(repo, categories, tags, logger), repo
}

func validInput() record.WriteInput {
	return record.WriteInput{
		TypeID:     recordtype.TypeExpense,
		CategoryID: 10,
		Amount:     2500,
		OccurredOn: time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC),
		TagIDs:     []int64{20},
	}
}

// # Write Constraints

/*
TestService_CreateRecord_References verifies category ownership, type
agreement, and tag ownership on writes.
*/
func TestService_CreateRecord_References(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		mutate  func(*record.WriteInput)
		wantMsg string
	}{
		{
			"unknown_category",
			func(input *record.WriteInput) { input.CategoryID = 999 },
			"Unknown category",
		},
		{
			"foreign_category",
			func(input *record.WriteInput) { input.CategoryID = 12 },
			"Unknown category",
		},
		{
			"type_mismatch",
			func(input *record.WriteInput) { input.CategoryID = 11 },
			"Category does not match the record type",
		},
		{
			"unknown_tag",
			func(input *record.WriteInput) { input.TagIDs = []int64{999} },
			"Unknown tag",
		},
		{
			"foreign_tag",
			func(input *record.WriteInput) { input.TagIDs = []int64{21} },
			"Unknown tag",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, repo := newRecordService(t)

			input := validInput()
			tt.mutate(&input)

			_, err := service.CreateRecord(ctx, ownerID, input)
			require.Error(t, err)

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, "UNPROCESSABLE", ae.Code)
			assert.Equal(t, tt.wantMsg, ae.Message)

			// Nothing reached storage.
			assert.Empty(t, repo.records)
		})
	}
}

/*
TestService_CreateRecord verifies the happy path including tag attachment.
*/
func TestService_CreateRecord(t *testing.T) {
	ctx := context.Background()
	service, repo := newRecordService(t)

	created, err := service.CreateRecord(ctx, ownerID, validInput())
	require.NoError(t, err)

	assert.Equal(t, int64(2500), created.Amount)
	assert.Equal(t, ownerID, repo.records[created.ID].UserID)
	assert.Equal(t, []int64{20}, repo.tags[created.ID])
}

/*
TestService_UpdateRecord verifies ownership enforcement and field overwrite.
*/
func TestService_UpdateRecord(t *testing.T) {
	ctx := context.Background()
	service, repo := newRecordService(t)

	created, err := service.CreateRecord(ctx, ownerID, validInput())
	require.NoError(t, err)

	t.Run("foreign_record_invisible", func(t *testing.T) {
		_, err := service.UpdateRecord(ctx, strangerID, created.ID, record.WriteInput{
			TypeID:     recordtype.TypeExpense,
			CategoryID: 12,
			Amount:     1,
			OccurredOn: created.OccurredOn,
		})
		assert.True(t, apperr.IsNotFound(err))
	})

	t.Run("overwrite", func(t *testing.T) {
		input := validInput()
		input.Amount = 9900
		input.TagIDs = nil

		updated, err := service.UpdateRecord(ctx, ownerID, created.ID, input)
		require.NoError(t, err)

		assert.Equal(t, int64(9900), updated.Amount)
		assert.Empty(t, repo.tags[created.ID])
	})
}

/*
TestService_Summarize verifies the per-month, per-type aggregation of one
calendar year.
*/
func TestService_Summarize(t *testing.T) {
	ctx := context.Background()
	service, _ := newRecordService(t)

	// Two expenses in August, one in September, one outside the year.
	for _, seed := range []struct {
		amount int64
		date   time.Time
	}{
		{2500, time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)},
		{1500, time.Date(2026, 8, 21, 0, 0, 0, 0, time.UTC)},
		{4000, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)},
		{9999, time.Date(2025, 8, 3, 0, 0, 0, 0, time.UTC)},
	} {
		input := validInput()
		input.Amount = seed.amount
		input.OccurredOn = seed.date

		_, err := service.CreateRecord(ctx, ownerID, input)
		require.NoError(t, err)
	}

	summaries, err := service.Summarize(ctx, ownerID, 2026)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	byMonth := map[string]record.MonthlySummary{}
	for _, summary := range summaries {
		byMonth[summary.Month] = summary
	}

	assert.Equal(t, int64(4000), byMonth["2026-08"].Total)
	assert.Equal(t, 2, byMonth["2026-08"].Count)
	assert.Equal(t, int64(4000), byMonth["2026-09"].Total)
	assert.Equal(t, 1, byMonth["2026-09"].Count)
}

/*
TestService_DeleteRecord verifies ownership-scoped deletion.
*/
func TestService_DeleteRecord(t *testing.T) {
	ctx := context.Background()
	service, _ := newRecordService(t)

	created, err := service.CreateRecord(ctx, ownerID, validInput())
	require.NoError(t, err)

	// A stranger cannot reach the record.
	err = service.DeleteRecord(ctx, strangerID, created.ID)
	assert.True(t, apperr.IsNotFound(err))

	// The owner can.
	require.NoError(t, service.DeleteRecord(ctx, ownerID, created.ID))

	_, err = service.GetRecord(ctx, ownerID, created.ID)
	assert.True(t, apperr.IsNotFound(err))
}
