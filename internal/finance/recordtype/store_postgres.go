// Copyright (c) 2026 Kakeibo. All rights reserved.
// Author: nhat.vu.dev@gmail.com

package recordtype

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nhatvu/kakeibo/internal/platform/database/schema"
	"github.com/nhatvu/kakeibo/internal/platform/dberr"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) List(context context.Context) ([]RecordType, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s FROM %s ORDER BY %s ASC`,
		schema.FinanceRecordType.ID, schema.FinanceRecordType.Name, schema.FinanceRecordType.SortOrder,
		schema.FinanceRecordType.Table, schema.FinanceRecordType.SortOrder)

	rows, err := repository.db.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list_record_types")
	}
	defer rows.Close()

	types := make([]RecordType, 0)
	for rows.Next() {
		var recordType RecordType
		if err := rows.Scan(&recordType.ID, &recordType.Name, &recordType.SortOrder); err != nil {
			return nil, dberr.Wrap(err, "scan_record_type")
		}
		types = append(types, recordType)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "iterate_record_types")
	}

	return types, nil
}

func (repository *PostgresRepository) GetByID(context context.Context, id int64) (*RecordType, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s FROM %s WHERE %s = $1`,
		schema.FinanceRecordType.ID, schema.FinanceRecordType.Name, schema.FinanceRecordType.SortOrder,
		schema.FinanceRecordType.Table, schema.FinanceRecordType.ID)

	recordType := &RecordType{}
	err := repository.db.QueryRow(context, query, id).Scan(
		&recordType.ID, &recordType.Name, &recordType.SortOrder)
	if err != nil {
		return nil, dberr.Wrap(err, "get_record_type_by_id")
	}

	return recordType, nil
}
