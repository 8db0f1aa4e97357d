// Copyright (c) 2026 Kakeibo. All rights reserved.
// Author: nhat.vu.dev@gmail.com

package record

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/nhatvu/kakeibo/internal/platform/request"
	"github.com/nhatvu/kakeibo/internal/platform/respond"
	"github.com/nhatvu/kakeibo/internal/platform/validate"
	"github.com/nhatvu/kakeibo/pkg/pagination"
)

// dateLayout is the wire format for occurred_on and range filters.
const dateLayout = "2006-01-02"

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.listRecords)
	router.Post("/", handler.createRecord)
	router.Get("/summary", handler.summarize)
	router.Get("/{id}", handler.getRecord)
	router.Put("/{id}", handler.updateRecord)
	router.Delete("/{id}", handler.deleteRecord)
}

// # Reads

/*
GET /api/v1/records.

Description: Paginated listing of the caller's records, newest occurrence
first. Supports from/to date bounds plus type and category filters. An admin
may pass user_id to inspect another member's ledger.

Request:
  - query: page, limit, from, to, type_id, category_id, user_id (admin only)

Response:
  - 200: []Record: Page of records with pagination metadata
  - 400: ErrValidation: Malformed filter value
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) listRecords(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	filter := ListFilter{Page: pagination.FromRequest(request)}

	queryValues := request.URL.Query()
	if raw := queryValues.Get("from"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			respond.Error(writer, request, validate.RequiredError("from", "must be a YYYY-MM-DD date"))
			return
		}
		filter.From = &parsed
	}
	if raw := queryValues.Get("to"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			respond.Error(writer, request, validate.RequiredError("to", "must be a YYYY-MM-DD date"))
			return
		}
		filter.To = &parsed
	}
	if raw := queryValues.Get("type_id"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respond.Error(writer, request, validate.RequiredError(FieldTypeID, "must be an integer"))
			return
		}
		filter.TypeID = &parsed
	}
	if raw := queryValues.Get("category_id"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respond.Error(writer, request, validate.RequiredError(FieldCategoryID, "must be an integer"))
			return
		}
		filter.CategoryID = &parsed
	}

	var override *int64
	if raw := queryValues.Get("user_id"); raw != "" {
		if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil {
			override = &parsed
		}
	}

	records, total, err := handler.service.ListRecords(request.Context(), authorizedUserID(claims, override), filter)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, records, pagination.NewMeta(filter.Page.Page, filter.Page.Limit, total))
}

func (handler *Handler) getRecord(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	recordID, err := requestutil.IntID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	record, err := handler.service.GetRecord(request.Context(), userID, recordID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, record)
}

/*
GET /api/v1/records/summary.

Description: Per-month, per-type totals for one calendar year. Defaults to
the current year.

Request:
  - query: year

Response:
  - 200: []MonthlySummary: Aggregated rollup rows
  - 400: ErrValidation: Malformed year
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) summarize(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	year := time.Now().Year()
	if raw := request.URL.Query().Get("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1970 || parsed > 9999 {
			respond.Error(writer, request, validate.RequiredError(FieldYear, "must be a four-digit year"))
			return
		}
		year = parsed
	}

	summaries, err := handler.service.Summarize(request.Context(), userID, year)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, summaries)
}

// # Writes

type writeRecordRequest struct {
	TypeID     int64   `json:"type_id"`
	CategoryID int64   `json:"category_id"`
	Amount     int64   `json:"amount"`
	Note       *string `json:"note"`
	OccurredOn string  `json:"occurred_on"`
	TagIDs     []int64 `json:"tag_ids"`
}

// toInput validates and converts the payload into a service WriteInput.
func (payload writeRecordRequest) toInput() (WriteInput, error) {
	v := &validate.Validator{}
	v.Custom(FieldTypeID, payload.TypeID <= 0, "must be a valid record type").
		Custom(FieldCategoryID, payload.CategoryID <= 0, "must be a valid category").
		Custom(FieldAmount, payload.Amount <= 0, "must be a positive amount in minor units").
		Required(FieldOccurredOn, payload.OccurredOn)
	if payload.Note != nil {
		v.MaxLen(FieldNote, *payload.Note, MaxNoteLength)
	}

	occurredOn, parseErr := time.Parse(dateLayout, payload.OccurredOn)
	v.Custom(FieldOccurredOn, payload.OccurredOn != "" && parseErr != nil, "must be a YYYY-MM-DD date")

	if err := v.Err(); err != nil {
		return WriteInput{}, err
	}

	return WriteInput{
		TypeID:     payload.TypeID,
		CategoryID: payload.CategoryID,
		Amount:     payload.Amount,
		Note:       payload.Note,
		OccurredOn: occurredOn,
		TagIDs:     payload.TagIDs,
	}, nil
}

func (handler *Handler) createRecord(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var payload writeRecordRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	input, err := payload.toInput()
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	record, err := handler.service.CreateRecord(request.Context(), userID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, record)
}

func (handler *Handler) updateRecord(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	recordID, err := requestutil.IntID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var payload writeRecordRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	input, err := payload.toInput()
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	record, err := handler.service.UpdateRecord(request.Context(), userID, recordID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, record)
}

func (handler *Handler) deleteRecord(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	recordID, err := requestutil.IntID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteRecord(request.Context(), userID, recordID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
