// Copyright (c) 2026 Kakeibo. All rights reserved.
// Author: nhat.vu.dev@gmail.com

package category

import (
	"context"
	"log/slog"

	"github.com/nhatvu/kakeibo/internal/finance/recordtype"
	"github.com/nhatvu/kakeibo/internal/platform/apperr"
)

type Service struct {
	repo     Repository
	typeRepo recordtype.Repository
	logger   *slog.Logger
}

func NewService(repo Repository, typeRepo recordtype.Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		typeRepo: typeRepo,
		logger:   logger,
	}
}

func (service *Service) ListCategories(context context.Context, userID int64) ([]Category, error) {
	return service.repo.ListByUser(context, userID)
}

func (service *Service) GetCategory(context context.Context, userID, id int64) (*Category, error) {
	return service.repo.GetByID(context, userID, id)
}

// CreateInput carries the fields for a new category.
type CreateInput struct {
	TypeID    int64
	Name      string
	SortOrder int
}

func (service *Service) CreateCategory(context context.Context, userID int64, input CreateInput) (*Category, error) {

	// The type must come from the dictionary.
	if _, err := service.typeRepo.GetByID(context, input.TypeID); err != nil {
		return nil, apperr.Unprocessable("Unknown record type")
	}

	category := &Category{
		UserID:    userID,
		TypeID:    input.TypeID,
		Name:      input.Name,
		SortOrder: input.SortOrder,
	}

	if err := service.repo.Create(context, category); err != nil {
		return nil, err
	}

	service.logger.Info("category_created",
		slog.Int64("user_id", userID),
		slog.Int64("category_id", category.ID),
	)

	return category, nil
}

// UpdateInput carries the partial update set for a category. The type is
// immutable once records may reference the category.
type UpdateInput struct {
	Name      *string
	SortOrder *int
}

func (service *Service) UpdateCategory(context context.Context, userID, id int64, input UpdateInput) (*Category, error) {

	category, err := service.repo.GetByID(context, userID, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		category.Name = *input.Name
	}
	if input.SortOrder != nil {
		category.SortOrder = *input.SortOrder
	}

	if err := service.repo.Update(context, category); err != nil {
		return nil, err
	}

	return category, nil
}

func (service *Service) DeleteCategory(context context.Context, userID, id int64) error {
	if err := service.repo.SoftDelete(context, userID, id); err != nil {
		return err
	}

	service.logger.Info("category_deleted",
		slog.Int64("user_id", userID),
		slog.Int64("category_id", id),
	)

	return nil
}
