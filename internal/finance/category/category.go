// Copyright (c) 2026 Kakeibo. All rights reserved.
// Author: nhat.vu.dev@gmail.com

// Package category manages the per-user spending category taxonomy.
//
// Categories are typed by the record-type dictionary: an "expense" category
// can only appear on expense records. Names are unique per user and type
// among non-deleted rows.
package category

import (
	"context"
	"time"
)

// Category is one user-owned entry of the spending taxonomy.
type Category struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"-"`
	TypeID    int64     `json:"type_id"`
	Name      string    `json:"name"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Field identifiers for validation messages.
const (
	FieldName      = "name"
	FieldTypeID    = "type_id"
	FieldSortOrder = "sort_order"
)

// MaxNameLength caps category names.
const MaxNameLength = 50

type Repository interface {
	// ListByUser returns the user's non-deleted categories, dictionary order.
	ListByUser(context context.Context, userID int64) ([]Category, error)

	// GetByID resolves a category and enforces ownership: rows belonging to
	// other users surface as apperr.NotFound.
	GetByID(context context.Context, userID, id int64) (*Category, error)

	Create(context context.Context, category *Category) error
	Update(context context.Context, category *Category) error
	SoftDelete(context context.Context, userID, id int64) error
}
