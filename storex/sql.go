package storex

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// TypedSQL provides SQL operations for a specific type through sqlx.
// The type parameter must carry `db` struct tags matching the table
// columns.
type TypedSQL[T any] struct {
	DB        *sqlx.DB
	TableName string
	IDColumn  string
}

// NewTypedSQL creates a new TypedSQL helper for a specific type
func NewTypedSQL[T any](db *sqlx.DB, tableName string) *TypedSQL[T] {
	return &TypedSQL[T]{
		DB:        db,
		TableName: tableName,
		IDColumn:  "id",
	}
}

// Insert adds a new record using a named insert statement. The columns
// slice names both the table columns and the :named parameters.
func (s *TypedSQL[T]) Insert(ctx context.Context, item T, columns []string) error {
	placeholders := make([]string, len(columns))
	for i, col := range columns {
		placeholders[i] = ":" + col
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		s.TableName,
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
	)

	if _, err := s.DB.NamedExecContext(ctx, query, item); err != nil {
		return storeErrors.New(ErrCreateFailed).
			WithDetail("table", s.TableName).
			WithCause(err)
	}
	return nil
}

// FindByID retrieves a record by its id
func (s *TypedSQL[T]) FindByID(ctx context.Context, id string) (T, error) {
	var result T

	query := fmt.Sprintf("SELECT * FROM %s WHERE %s = $1", s.TableName, s.IDColumn)
	if err := s.DB.GetContext(ctx, &result, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return result, storeErrors.New(ErrRecordNotFound).
				WithDetail("id", id).
				WithDetail("table", s.TableName)
		}
		return result, storeErrors.New(ErrSQLScanFailed).
			WithDetail("id", id).
			WithDetail("table", s.TableName).
			WithCause(err)
	}

	return result, nil
}

// UpdateColumn sets a single column on the record with the given id
func (s *TypedSQL[T]) UpdateColumn(ctx context.Context, id, column string, value any) error {
	query := fmt.Sprintf("UPDATE %s SET %s = $1 WHERE %s = $2", s.TableName, column, s.IDColumn)

	result, err := s.DB.ExecContext(ctx, query, value, id)
	if err != nil {
		return storeErrors.New(ErrUpdateFailed).
			WithDetail("id", id).
			WithDetail("table", s.TableName).
			WithCause(err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return storeErrors.New(ErrRecordNotFound).
			WithDetail("id", id).
			WithDetail("table", s.TableName)
	}

	return nil
}

// Paginate retrieves records with equality filters, ordering and paging
func (s *TypedSQL[T]) Paginate(ctx context.Context, opts PaginationOptions) (Paginated[T], error) {
	var (
		conditions []string
		args       []any
	)
	for col, val := range opts.Filters {
		args = append(args, val)
		conditions = append(conditions, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s%s", s.TableName, where)
	if err := s.DB.GetContext(ctx, &total, countQuery, args...); err != nil {
		return Paginated[T]{}, storeErrors.New(ErrSQLCountFailed).
			WithDetail("table", s.TableName).
			WithCause(err)
	}

	orderBy := s.IDColumn
	if opts.OrderBy != "" {
		orderBy = opts.OrderBy
	}
	direction := "ASC"
	if opts.Desc {
		direction = "DESC"
	}

	query := fmt.Sprintf(
		"SELECT * FROM %s%s ORDER BY %s %s LIMIT %d OFFSET %d",
		s.TableName, where, orderBy, direction,
		opts.PageSize, (opts.Page-1)*opts.PageSize,
	)

	var results []T
	if err := s.DB.SelectContext(ctx, &results, query, args...); err != nil {
		return Paginated[T]{}, storeErrors.New(ErrSQLQueryFailed).
			WithDetail("table", s.TableName).
			WithCause(err)
	}

	return NewPaginated(results, opts.Page, opts.PageSize, total), nil
}
