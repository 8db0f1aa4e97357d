// Copyright (c) 2026 Kakeibo. All rights reserved.
// Author: nhat.vu.dev@gmail.com

// Package tag manages free-form per-user labels attachable to records.
package tag

import (
	"context"
	"time"
)

// Tag is a user-owned label. Names are unique per user.
type Tag struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"-"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

const (
	FieldName = "name"

	// MaxNameLength caps tag names.
	MaxNameLength = 30
)

type Repository interface {
	ListByUser(context context.Context, userID int64) ([]Tag, error)
	GetByID(context context.Context, userID, id int64) (*Tag, error)
	Create(context context.Context, tag *Tag) error

	// Delete removes the tag and its record attachments. Hard delete: tags
	// carry no history worth preserving.
	Delete(context context.Context, userID, id int64) error
}
