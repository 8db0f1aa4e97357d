// Copyright (c) 2026 Kakeibo. All rights reserved.
// Author: nhat.vu.dev@gmail.com

package tag

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nhatvu/kakeibo/internal/platform/apperr"
	"github.com/nhatvu/kakeibo/internal/platform/database/schema"
	"github.com/nhatvu/kakeibo/internal/platform/dberr"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) ListByUser(context context.Context, userID int64) ([]Tag, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s, %s FROM %s WHERE %s = $1 ORDER BY %s ASC`,
		schema.FinanceTag.ID, schema.FinanceTag.UserID, schema.FinanceTag.Name, schema.FinanceTag.CreatedAt,
		schema.FinanceTag.Table, schema.FinanceTag.UserID, schema.FinanceTag.Name)

	rows, err := repository.db.Query(context, query, userID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_tags")
	}
	defer rows.Close()

	tags := make([]Tag, 0)
	for rows.Next() {
		var tag Tag
		if err := rows.Scan(&tag.ID, &tag.UserID, &tag.Name, &tag.CreatedAt); err != nil {
			return nil, dberr.Wrap(err, "scan_tag")
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "iterate_tags")
	}

	return tags, nil
}

func (repository *PostgresRepository) GetByID(context context.Context, userID, id int64) (*Tag, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s, %s FROM %s WHERE %s = $1 AND %s = $2`,
		schema.FinanceTag.ID, schema.FinanceTag.UserID, schema.FinanceTag.Name, schema.FinanceTag.CreatedAt,
		schema.FinanceTag.Table, schema.FinanceTag.ID, schema.FinanceTag.UserID)

	tag := &Tag{}
	err := repository.db.QueryRow(context, query, id, userID).Scan(
		&tag.ID, &tag.UserID, &tag.Name, &tag.CreatedAt)
	if err != nil {
		return nil, dberr.Wrap(err, "get_tag_by_id")
	}

	return tag, nil
}

func (repository *PostgresRepository) Create(context context.Context, tag *Tag) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s) VALUES ($1, $2, $3) RETURNING %s`,
		schema.FinanceTag.Table,
		schema.FinanceTag.UserID, schema.FinanceTag.Name, schema.FinanceTag.CreatedAt,
		schema.FinanceTag.ID)

	tag.CreatedAt = time.Now()
	err := repository.db.QueryRow(context, query, tag.UserID, tag.Name, tag.CreatedAt).Scan(&tag.ID)
	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return apperr.Conflict("Tag already exists")
		}
		return dberr.Wrap(err, "create_tag")
	}

	return nil
}

func (repository *PostgresRepository) Delete(context context.Context, userID, id int64) error {
	// record_tag rows fall away via ON DELETE CASCADE.
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		schema.FinanceTag.Table, schema.FinanceTag.ID, schema.FinanceTag.UserID)

	tag, err := repository.db.Exec(context, query, id, userID)
	if err != nil {
		return dberr.Wrap(err, "delete_tag")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Tag")
	}

	return nil
}
