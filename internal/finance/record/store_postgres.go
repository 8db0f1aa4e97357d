// Copyright (c) 2026 Kakeibo. All rights reserved.
// Author: nhat.vu.dev@gmail.com

// PostgreSQL implementation of the record repository.
//
// # Transaction Discipline
//
// Every mutation opens one transaction covering the record write, the tag
// attachment writes, and the history audit insert. Rollback is deferred
// unconditionally; it is a no-op once the transaction committed, so the
// connection is released on every exit path.

package record

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nhatvu/kakeibo/internal/finance/tag"
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

// recordColumns lists the scan targets shared by every record SELECT.
var recordColumns = fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s, %s",
	schema.FinanceRecord.ID, schema.FinanceRecord.UserID, schema.FinanceRecord.TypeID,
	schema.FinanceRecord.CategoryID, schema.FinanceRecord.Amount, schema.FinanceRecord.Note,
	schema.FinanceRecord.OccurredOn, schema.FinanceRecord.CreatedAt, schema.FinanceRecord.UpdatedAt)

func scanRecord(row pgx.Row) (*Record, error) {
	record := &Record{Tags: []tag.Tag{}}
	err := row.Scan(
		&record.ID, &record.UserID, &record.TypeID,
		&record.CategoryID, &record.Amount, &record.Note,
		&record.OccurredOn, &record.CreatedAt, &record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return record, nil
}

// # Reads

func (repository *PostgresRepository) GetByID(context context.Context, userID, id int64) (*Record, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s = $2 AND %s IS NULL`,
		recordColumns, schema.FinanceRecord.Table,
		schema.FinanceRecord.ID, schema.FinanceRecord.UserID, schema.FinanceRecord.DeletedAt)

	record, err := scanRecord(repository.db.QueryRow(context, query, id, userID))
	if err != nil {
		return nil, dberr.Wrap(err, "get_record_by_id")
	}

	tagsByRecord, err := repository.loadTags(context, []int64{record.ID})
	if err != nil {
		return nil, err
	}
	if tags, ok := tagsByRecord[record.ID]; ok {
		record.Tags = tags
	}

	return record, nil
}

func (repository *PostgresRepository) List(context context.Context, userID int64, filter ListFilter) ([]Record, int, error) {
	where := fmt.Sprintf("%s = $1 AND %s IS NULL",
		schema.FinanceRecord.UserID, schema.FinanceRecord.DeletedAt)
	args := []any{userID}

	appendClause := func(clause string, value any) {
		args = append(args, value)
		where += fmt.Sprintf(" AND %s $%d", clause, len(args))
	}

	if filter.From != nil {
		appendClause(schema.FinanceRecord.OccurredOn+" >=", *filter.From)
	}
	if filter.To != nil {
		appendClause(schema.FinanceRecord.OccurredOn+" <=", *filter.To)
	}
	if filter.TypeID != nil {
		appendClause(schema.FinanceRecord.TypeID+" =", *filter.TypeID)
	}
	if filter.CategoryID != nil {
		appendClause(schema.FinanceRecord.CategoryID+" =", *filter.CategoryID)
	}

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s`, schema.FinanceRecord.Table, where)
	if err := repository.db.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_records")
	}

	pageQuery := fmt.Sprintf(`SELECT %s FROM %s WHERE %s ORDER BY %s DESC, %s DESC LIMIT $%d OFFSET $%d`,
		recordColumns, schema.FinanceRecord.Table, where,
		schema.FinanceRecord.OccurredOn, schema.FinanceRecord.ID,
		len(args)+1, len(args)+2)
	args = append(args, filter.Page.Limit, filter.Page.Offset())

	rows, err := repository.db.Query(context, pageQuery, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_records")
	}
	defer rows.Close()

	records := make([]Record, 0, filter.Page.Limit)
	recordIDs := make([]int64, 0, filter.Page.Limit)
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_record")
		}
		records = append(records, *record)
		recordIDs = append(recordIDs, record.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "iterate_records")
	}

	tagsByRecord, err := repository.loadTags(context, recordIDs)
	if err != nil {
		return nil, 0, err
	}
	for index := range records {
		if tags, ok := tagsByRecord[records[index].ID]; ok {
			records[index].Tags = tags
		}
	}

	return records, total, nil
}

// loadTags fetches tag attachments for a set of records in one query.
func (repository *PostgresRepository) loadTags(context context.Context, recordIDs []int64) (map[int64][]tag.Tag, error) {
	if len(recordIDs) == 0 {
		return map[int64][]tag.Tag{}, nil
	}

	query := fmt.Sprintf(`
		SELECT rt.%s, t.%s, t.%s, t.%s, t.%s
		FROM %s rt
		JOIN %s t ON rt.%s = t.%s
		WHERE rt.%s = ANY($1)
		ORDER BY t.%s ASC`,
		schema.FinanceRecordTag.RecordID,
		schema.FinanceTag.ID, schema.FinanceTag.UserID, schema.FinanceTag.Name, schema.FinanceTag.CreatedAt,
		schema.FinanceRecordTag.Table, schema.FinanceTag.Table,
		schema.FinanceRecordTag.TagID, schema.FinanceTag.ID,
		schema.FinanceRecordTag.RecordID, schema.FinanceTag.Name)

	rows, err := repository.db.Query(context, query, recordIDs)
	if err != nil {
		return nil, dberr.Wrap(err, "load_record_tags")
	}
	defer rows.Close()

	tagsByRecord := make(map[int64][]tag.Tag)
	for rows.Next() {
		var recordID int64
		var entry tag.Tag
		if err := rows.Scan(&recordID, &entry.ID, &entry.UserID, &entry.Name, &entry.CreatedAt); err != nil {
			return nil, dberr.Wrap(err, "scan_record_tag")
		}
		tagsByRecord[recordID] = append(tagsByRecord[recordID], entry)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "iterate_record_tags")
	}

	return tagsByRecord, nil
}

// # Writes

func (repository *PostgresRepository) Create(context context.Context, record *Record, tagIDs []int64) error {
	tx, err := repository.db.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "begin_create_record")
	}
	defer tx.Rollback(context)

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		RETURNING %s`,
		schema.FinanceRecord.Table,
		schema.FinanceRecord.UserID, schema.FinanceRecord.TypeID, schema.FinanceRecord.CategoryID,
		schema.FinanceRecord.Amount, schema.FinanceRecord.Note, schema.FinanceRecord.OccurredOn,
		schema.FinanceRecord.CreatedAt, schema.FinanceRecord.UpdatedAt,
		schema.FinanceRecord.ID)

	now := time.Now()
	record.CreatedAt = now
	record.UpdatedAt = now

	err = tx.QueryRow(context, query,
		record.UserID, record.TypeID, record.CategoryID,
		record.Amount, record.Note, record.OccurredOn, now,
	).Scan(&record.ID)
	if err != nil {
		return dberr.Wrap(err, "create_record")
	}

	if err := insertTagLinks(context, tx, record.ID, tagIDs); err != nil {
		return err
	}

	if err := writeHistory(context, tx, record, ActionCreate); err != nil {
		return err
	}

	if err := tx.Commit(context); err != nil {
		return dberr.Wrap(err, "commit_create_record")
	}
	return nil
}

func (repository *PostgresRepository) Update(context context.Context, record *Record, tagIDs *[]int64) error {
	tx, err := repository.db.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "begin_update_record")
	}
	defer tx.Rollback(context)

	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = $8
		WHERE %s = $1 AND %s = $2 AND %s IS NULL`,
		schema.FinanceRecord.Table,
		schema.FinanceRecord.TypeID, schema.FinanceRecord.CategoryID, schema.FinanceRecord.Amount,
		schema.FinanceRecord.Note, schema.FinanceRecord.OccurredOn, schema.FinanceRecord.UpdatedAt,
		schema.FinanceRecord.ID, schema.FinanceRecord.UserID, schema.FinanceRecord.DeletedAt)

	record.UpdatedAt = time.Now()
	result, err := tx.Exec(context, query,
		record.ID, record.UserID,
		record.TypeID, record.CategoryID, record.Amount,
		record.Note, record.OccurredOn, record.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, "update_record")
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("Record")
	}

	if tagIDs != nil {
		deleteQuery := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
			schema.FinanceRecordTag.Table, schema.FinanceRecordTag.RecordID)
		if _, err := tx.Exec(context, deleteQuery, record.ID); err != nil {
			return dberr.Wrap(err, "detach_record_tags")
		}
		if err := insertTagLinks(context, tx, record.ID, *tagIDs); err != nil {
			return err
		}
	}

	if err := writeHistory(context, tx, record, ActionUpdate); err != nil {
		return err
	}

	if err := tx.Commit(context); err != nil {
		return dberr.Wrap(err, "commit_update_record")
	}
	return nil
}

func (repository *PostgresRepository) SoftDelete(context context.Context, userID, id int64) error {
	tx, err := repository.db.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "begin_delete_record")
	}
	defer tx.Rollback(context)

	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $3, %s = $3
		WHERE %s = $1 AND %s = $2 AND %s IS NULL
		RETURNING %s`,
		schema.FinanceRecord.Table,
		schema.FinanceRecord.DeletedAt, schema.FinanceRecord.UpdatedAt,
		schema.FinanceRecord.ID, schema.FinanceRecord.UserID, schema.FinanceRecord.DeletedAt,
		recordColumns)

	record, err := scanRecord(tx.QueryRow(context, query, id, userID, time.Now()))
	if err != nil {
		return dberr.Wrap(err, "delete_record")
	}

	if err := writeHistory(context, tx, record, ActionDelete); err != nil {
		return err
	}

	if err := tx.Commit(context); err != nil {
		return dberr.Wrap(err, "commit_delete_record")
	}
	return nil
}

// insertTagLinks attaches tags to a record within the caller's transaction.
func insertTagLinks(context context.Context, tx pgx.Tx, recordID int64, tagIDs []int64) error {
	if len(tagIDs) == 0 {
		return nil
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2)`,
		schema.FinanceRecordTag.Table,
		schema.FinanceRecordTag.RecordID, schema.FinanceRecordTag.TagID)

	for _, tagID := range tagIDs {
		if _, err := tx.Exec(context, query, recordID, tagID); err != nil {
			return dberr.Wrap(err, "attach_record_tag")
		}
	}
	return nil
}

// writeHistory appends the audit row carrying a JSON snapshot of the record
// state after the mutation.
func writeHistory(context context.Context, tx pgx.Tx, record *Record, action string) error {
	snapshot, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("record_history_snapshot_failed: %w", err)
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s, %s) VALUES ($1, $2, $3, $4, $5)`,
		schema.FinanceRecordHistory.Table,
		schema.FinanceRecordHistory.RecordID, schema.FinanceRecordHistory.UserID,
		schema.FinanceRecordHistory.Action, schema.FinanceRecordHistory.Snapshot,
		schema.FinanceRecordHistory.CreatedAt)

	if _, err := tx.Exec(context, query, record.ID, record.UserID, action, snapshot, time.Now()); err != nil {
		return dberr.Wrap(err, "write_record_history")
	}
	return nil
}

// # Aggregation

func (repository *PostgresRepository) MonthlySummary(context context.Context, userID int64, year int) ([]MonthlySummary, error) {
	query := fmt.Sprintf(`
		SELECT to_char(%s, 'YYYY-MM') AS month, %s, COALESCE(SUM(%s), 0), COUNT(*)
		FROM %s
		WHERE %s = $1 AND %s IS NULL
		  AND %s >= make_date($2, 1, 1) AND %s < make_date($2 + 1, 1, 1)
		GROUP BY 1, 2
		ORDER BY 1 ASC, 2 ASC`,
		schema.FinanceRecord.OccurredOn, schema.FinanceRecord.TypeID, schema.FinanceRecord.Amount,
		schema.FinanceRecord.Table,
		schema.FinanceRecord.UserID, schema.FinanceRecord.DeletedAt,
		schema.FinanceRecord.OccurredOn, schema.FinanceRecord.OccurredOn)

	rows, err := repository.db.Query(context, query, userID, year)
	if err != nil {
		return nil, dberr.Wrap(err, "monthly_summary")
	}
	defer rows.Close()

	summaries := make([]MonthlySummary, 0)
	for rows.Next() {
		var summary MonthlySummary
		if err := rows.Scan(&summary.Month, &summary.TypeID, &summary.Total, &summary.Count); err != nil {
			return nil, dberr.Wrap(err, "scan_monthly_summary")
		}
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "iterate_monthly_summary")
	}

	return summaries, nil
}
