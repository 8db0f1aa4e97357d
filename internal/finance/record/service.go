// Copyright (c) 2026 Kakeibo. All rights reserved.
// Author: nhat.vu.dev@gmail.com

package record

import (
	"context"
	"log/slog"
	"time"

	"github.com/nhatvu/kakeibo/internal/finance/category"
	"github.com/nhatvu/kakeibo/internal/finance/tag"
	"github.com/nhatvu/kakeibo/internal/platform/apperr"
	"github.com/nhatvu/kakeibo/internal/platform/sec"
)

// Service orchestrates ledger writes and reads.
//
// Cross-entity constraints live here: the referenced category must belong to
// the requesting user and carry the same record type as the record, and each
// attached tag must belong to the user.
type Service struct {
	repo         Repository
	categoryRepo category.Repository
	tagRepo      tag.Repository
	logger       *slog.Logger
}

func NewService(
	repo Repository,
	categoryRepo category.Repository,
	tagRepo tag.Repository,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:         repo,
		categoryRepo: categoryRepo,
		tagRepo:      tagRepo,
		logger:       logger,
	}
}

// # Reads

func (service *Service) GetRecord(context context.Context, userID, id int64) (*Record, error) {
	return service.repo.GetByID(context, userID, id)
}

func (service *Service) ListRecords(context context.Context, userID int64, filter ListFilter) ([]Record, int, error) {
	return service.repo.List(context, userID, filter)
}

func (service *Service) Summarize(context context.Context, userID int64, year int) ([]MonthlySummary, error) {
	return service.repo.MonthlySummary(context, userID, year)
}

// # Writes

// WriteInput carries the full field set for a record create or overwrite.
type WriteInput struct {
	TypeID     int64
	CategoryID int64
	Amount     int64
	Note       *string
	OccurredOn time.Time
	TagIDs     []int64
}

// checkReferences enforces category ownership, category/type agreement, and
// tag ownership for a pending write.
func (service *Service) checkReferences(context context.Context, userID int64, input WriteInput) error {
	owned, err := service.categoryRepo.GetByID(context, userID, input.CategoryID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return apperr.Unprocessable("Unknown category")
		}
		return err
	}
	if owned.TypeID != input.TypeID {
		return apperr.Unprocessable("Category does not match the record type")
	}

	for _, tagID := range input.TagIDs {
		if _, err := service.tagRepo.GetByID(context, userID, tagID); err != nil {
			if apperr.IsNotFound(err) {
				return apperr.Unprocessable("Unknown tag")
			}
			return err
		}
	}

	return nil
}

func (service *Service) CreateRecord(context context.Context, userID int64, input WriteInput) (*Record, error) {
	if err := service.checkReferences(context, userID, input); err != nil {
		return nil, err
	}

	record := &Record{
		UserID:     userID,
		TypeID:     input.TypeID,
		CategoryID: input.CategoryID,
		Amount:     input.Amount,
		Note:       input.Note,
		OccurredOn: input.OccurredOn,
	}

	if err := service.repo.Create(context, record, input.TagIDs); err != nil {
		return nil, err
	}

	service.logger.Info("record_created",
		slog.Int64("user_id", userID),
		slog.Int64("record_id", record.ID),
	)

	// Hydrate the tag attachments for the response.
	return service.repo.GetByID(context, userID, record.ID)
}

func (service *Service) UpdateRecord(context context.Context, userID, id int64, input WriteInput) (*Record, error) {
	if err := service.checkReferences(context, userID, input); err != nil {
		return nil, err
	}

	record, err := service.repo.GetByID(context, userID, id)
	if err != nil {
		return nil, err
	}

	record.TypeID = input.TypeID
	record.CategoryID = input.CategoryID
	record.Amount = input.Amount
	record.Note = input.Note
	record.OccurredOn = input.OccurredOn

	if err := service.repo.Update(context, record, &input.TagIDs); err != nil {
		return nil, err
	}

	return service.repo.GetByID(context, userID, id)
}

func (service *Service) DeleteRecord(context context.Context, userID, id int64) error {
	if err := service.repo.SoftDelete(context, userID, id); err != nil {
		return err
	}

	service.logger.Info("record_deleted",
		slog.Int64("user_id", userID),
		slog.Int64("record_id", id),
	)

	return nil
}

// authorizedUserID narrows record access to the record owner, except that an
// admin principal may act on behalf of any user via an explicit override.
func authorizedUserID(claims *sec.AuthClaims, override *int64) int64 {
	if override != nil && sec.UserRole(claims.Role).AtLeast(sec.RoleAdmin) {
		return *override
	}
	return claims.UserID
}
