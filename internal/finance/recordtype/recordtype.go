// Copyright (c) 2026 Kakeibo. All rights reserved.
// Author: nhat.vu.dev@gmail.com

// Package recordtype serves the money-movement type dictionary.
//
// The dictionary (expense, income, transfer) is seeded by migration and
// read-only at runtime, which makes it the natural candidate for the Redis
// read-through cache in store_redis.go.
package recordtype

import "context"

// RecordType is one entry of the money-movement type dictionary.
type RecordType struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	SortOrder int    `json:"sort_order"`
}

// Well-known dictionary identifiers, matching the migration seed.
const (
	TypeExpense  int64 = 1
	TypeIncome   int64 = 2
	TypeTransfer int64 = 3
)

type Repository interface {
	List(context context.Context) ([]RecordType, error)
	GetByID(context context.Context, id int64) (*RecordType, error)
}
