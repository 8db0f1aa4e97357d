// Copyright (c) 2026 Kakeibo. All rights reserved.
// Author: nhat.vu.dev@gmail.com

package recordtype

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/nhatvu/kakeibo/internal/platform/request"
	"github.com/nhatvu/kakeibo/internal/platform/respond"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.listTypes)
	router.Get("/{id}", handler.getType)
}

func (handler *Handler) listTypes(writer http.ResponseWriter, request *http.Request) {
	types, err := handler.service.ListTypes(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, types)
}

func (handler *Handler) getType(writer http.ResponseWriter, request *http.Request) {
	typeID, err := requestutil.IntID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	recordType, err := handler.service.GetType(request.Context(), typeID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, recordType)
}
