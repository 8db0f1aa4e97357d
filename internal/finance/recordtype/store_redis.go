// Copyright (c) 2026 Kakeibo. All rights reserved.
// Author: nhat.vu.dev@gmail.com

package recordtype

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nhatvu/kakeibo/internal/platform/constants"
)

// cacheTTL bounds dictionary staleness. The dictionary only changes via
// migration, so a long TTL is fine.
const cacheTTL = 12 * time.Hour

// CachedRepository is a Redis read-through decorator over a Repository.
//
// Cache failures are never surfaced: a miss or a broken Redis connection
// falls back to the wrapped repository.
type CachedRepository struct {
	inner  Repository
	client *redis.Client
}

// NewCachedRepository wraps a repository with the Redis dictionary cache.
func NewCachedRepository(inner Repository, client *redis.Client) *CachedRepository {
	return &CachedRepository{inner: inner, client: client}
}

func listKey() string {
	return constants.RedisPrefixRecordTypes + ":all"
}

func itemKey(id int64) string {
	return fmt.Sprintf("%s:%d", constants.RedisPrefixRecordTypes, id)
}

func (repository *CachedRepository) List(context context.Context) ([]RecordType, error) {
	if payload, err := repository.client.Get(context, listKey()).Bytes(); err == nil {
		var types []RecordType
		if err := json.Unmarshal(payload, &types); err == nil {
			return types, nil
		}
	}

	types, err := repository.inner.List(context)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(types); err == nil {
		repository.client.Set(context, listKey(), payload, cacheTTL)
	}

	return types, nil
}

func (repository *CachedRepository) GetByID(context context.Context, id int64) (*RecordType, error) {
	if payload, err := repository.client.Get(context, itemKey(id)).Bytes(); err == nil {
		recordType := &RecordType{}
		if err := json.Unmarshal(payload, recordType); err == nil {
			return recordType, nil
		}
	}

	recordType, err := repository.inner.GetByID(context, id)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(recordType); err == nil {
		repository.client.Set(context, itemKey(id), payload, cacheTTL)
	}

	return recordType, nil
}
