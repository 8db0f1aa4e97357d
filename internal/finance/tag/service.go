// Copyright (c) 2026 Kakeibo. All rights reserved.
// Author: nhat.vu.dev@gmail.com

package tag

import (
	"context"
	"log/slog"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (service *Service) ListTags(context context.Context, userID int64) ([]Tag, error) {
	return service.repo.ListByUser(context, userID)
}

func (service *Service) GetTag(context context.Context, userID, id int64) (*Tag, error) {
	return service.repo.GetByID(context, userID, id)
}

func (service *Service) CreateTag(context context.Context, userID int64, name string) (*Tag, error) {
	tag := &Tag{UserID: userID, Name: name}
	if err := service.repo.Create(context, tag); err != nil {
		return nil, err
	}

	service.logger.Info("tag_created",
		slog.Int64("user_id", userID),
		slog.Int64("tag_id", tag.ID),
	)

	return tag, nil
}

func (service *Service) DeleteTag(context context.Context, userID, id int64) error {
	return service.repo.Delete(context, userID, id)
}
