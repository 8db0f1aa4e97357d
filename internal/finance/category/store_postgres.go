// Copyright (c) 2026 Kakeibo. All rights reserved.
// Author: nhat.vu.dev@gmail.com

package category

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

func (repository *PostgresRepository) ListByUser(context context.Context, userID int64) ([]Category, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1 AND %s IS NULL
		ORDER BY %s ASC, %s ASC`,
		schema.FinanceCategory.ID, schema.FinanceCategory.UserID, schema.FinanceCategory.TypeID,
		schema.FinanceCategory.Name, schema.FinanceCategory.SortOrder,
		schema.FinanceCategory.CreatedAt, schema.FinanceCategory.UpdatedAt,
		schema.FinanceCategory.Table,
		schema.FinanceCategory.UserID, schema.FinanceCategory.DeletedAt,
		schema.FinanceCategory.SortOrder, schema.FinanceCategory.Name)

	rows, err := repository.db.Query(context, query, userID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_categories")
	}
	defer rows.Close()

	categories := make([]Category, 0)
	for rows.Next() {
		var category Category
		err := rows.Scan(
			&category.ID, &category.UserID, &category.TypeID,
			&category.Name, &category.SortOrder,
			&category.CreatedAt, &category.UpdatedAt,
		)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_category")
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "iterate_categories")
	}

	return categories, nil
}

func (repository *PostgresRepository) GetByID(context context.Context, userID, id int64) (*Category, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1 AND %s = $2 AND %s IS NULL`,
		schema.FinanceCategory.ID, schema.FinanceCategory.UserID, schema.FinanceCategory.TypeID,
		schema.FinanceCategory.Name, schema.FinanceCategory.SortOrder,
		schema.FinanceCategory.CreatedAt, schema.FinanceCategory.UpdatedAt,
		schema.FinanceCategory.Table,
		schema.FinanceCategory.ID, schema.FinanceCategory.UserID, schema.FinanceCategory.DeletedAt)

	category := &Category{}
	err := repository.db.QueryRow(context, query, id, userID).Scan(
		&category.ID, &category.UserID, &category.TypeID,
		&category.Name, &category.SortOrder,
		&category.CreatedAt, &category.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "get_category_by_id")
	}

	return category, nil
}

func (repository *PostgresRepository) Create(context context.Context, category *Category) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $5)
		RETURNING %s`,
		schema.FinanceCategory.Table,
		schema.FinanceCategory.UserID, schema.FinanceCategory.TypeID, schema.FinanceCategory.Name,
		schema.FinanceCategory.SortOrder, schema.FinanceCategory.CreatedAt, schema.FinanceCategory.UpdatedAt,
		schema.FinanceCategory.ID)

	now := time.Now()
	category.CreatedAt = now
	category.UpdatedAt = now

	err := repository.db.QueryRow(context, query,
		category.UserID, category.TypeID, category.Name, category.SortOrder, now,
	).Scan(&category.ID)
	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return apperr.Conflict("Category name already exists for this type")
		}
		return dberr.Wrap(err, "create_category")
	}

	return nil
}

func (repository *PostgresRepository) Update(context context.Context, category *Category) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $3, %s = $4, %s = $5
		WHERE %s = $1 AND %s = $2 AND %s IS NULL`,
		schema.FinanceCategory.Table,
		schema.FinanceCategory.Name, schema.FinanceCategory.SortOrder, schema.FinanceCategory.UpdatedAt,
		schema.FinanceCategory.ID, schema.FinanceCategory.UserID, schema.FinanceCategory.DeletedAt)

	category.UpdatedAt = time.Now()
	tag, err := repository.db.Exec(context, query,
		category.ID, category.UserID, category.Name, category.SortOrder, category.UpdatedAt)
	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return apperr.Conflict("Category name already exists for this type")
		}
		return dberr.Wrap(err, "update_category")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Category")
	}

	return nil
}

func (repository *PostgresRepository) SoftDelete(context context.Context, userID, id int64) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $3, %s = $3
		WHERE %s = $1 AND %s = $2 AND %s IS NULL`,
		schema.FinanceCategory.Table,
		schema.FinanceCategory.DeletedAt, schema.FinanceCategory.UpdatedAt,
		schema.FinanceCategory.ID, schema.FinanceCategory.UserID, schema.FinanceCategory.DeletedAt)

	tag, err := repository.db.Exec(context, query, id, userID, time.Now())
	if err != nil {
		return dberr.Wrap(err, "delete_category")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Category")
	}

	return nil
}
