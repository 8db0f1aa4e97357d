// Copyright (c) 2026 Kakeibo. All rights reserved.
// Author: nhat.vu.dev@gmail.com

package recordtype

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

func (service *Service) ListTypes(context context.Context) ([]RecordType, error) {
	return service.repo.List(context)
}

func (service *Service) GetType(context context.Context, id int64) (*RecordType, error) {
	return service.repo.GetByID(context, id)
}
