// Copyright (c) 2026 Kakeibo. All rights reserved.
// Author: nhat.vu.dev@gmail.com

/*
Package record manages money-movement entries, the central entity of the
household ledger.

# Architecture

  - Entities: Record plus the ListFilter/MonthlySummary query shapes.
  - Writes: every mutation runs inside a single transaction together with
    its audit history row; partial writes never become visible.
  - Reads: filtered pagination and a monthly aggregation rollup.
*/
package record

import (
	"context"
	"time"

	"github.com/nhatvu/kakeibo/internal/finance/tag"
	"github.com/nhatvu/kakeibo/pkg/pagination"
)

// # Domain Entities

// Record is one money movement. Amount is stored in minor currency units
// (integer) so sums never accumulate floating point drift.
type Record struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"-"`
	TypeID     int64     `json:"type_id"`
	CategoryID int64     `json:"category_id"`
	Amount     int64     `json:"amount"`
	Note       *string   `json:"note"`
	OccurredOn time.Time `json:"occurred_on"`
	Tags       []tag.Tag `json:"tags"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// History actions recorded in the audit trail.
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// Field identifiers for validation messages.
const (
	FieldAmount     = "amount"
	FieldTypeID     = "type_id"
	FieldCategoryID = "category_id"
	FieldNote       = "note"
	FieldOccurredOn = "occurred_on"
	FieldTagIDs     = "tag_ids"
	FieldYear       = "year"
)

// MaxNoteLength caps the free-text note.
const MaxNoteLength = 500

// ListFilter narrows a record listing. Nil members are ignored.
type ListFilter struct {
	From       *time.Time
	To         *time.Time
	TypeID     *int64
	CategoryID *int64
	Page       pagination.Params
}

// MonthlySummary is one row of the per-month aggregation rollup.
type MonthlySummary struct {
	Month  string `json:"month"` // "2026-01"
	TypeID int64  `json:"type_id"`
	Total  int64  `json:"total"`
	Count  int    `json:"count"`
}

// # Repository Contract

type Repository interface {
	// GetByID resolves a non-deleted record with its tags, enforcing
	// ownership: other users' rows surface as apperr.NotFound.
	GetByID(context context.Context, userID, id int64) (*Record, error)

	// List returns one page of matching records (newest occurrence first)
	// plus the total match count.
	List(context context.Context, userID int64, filter ListFilter) ([]Record, int, error)

	// Create inserts the record, its tag attachments, and the audit row in
	// one transaction.
	Create(context context.Context, record *Record, tagIDs []int64) error

	// Update rewrites the record's mutable fields in one transaction with
	// its audit row. A non-nil tagIDs replaces the attachment set.
	Update(context context.Context, record *Record, tagIDs *[]int64) error

	// SoftDelete flags the record deleted and writes the audit row in one
	// transaction.
	SoftDelete(context context.Context, userID, id int64) error

	// MonthlySummary aggregates the user's non-deleted records of one
	// calendar year into per-month, per-type totals.
	MonthlySummary(context context.Context, userID int64, year int) ([]MonthlySummary, error)
}
