// Package hardware_repo provides the PostgreSQL implementation of the
// hardware record store: the criteria query builder and the write repository.
package hardware_repo

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/shopspring/decimal"

	"hwcatalog/internal/domain/hardware"
	"hwcatalog/internal/infrastructure/storage/postgres"
)

const (
	tableHardware = "hardware"
	tableImage    = "image"
)

// imagesColumn aggregates the owned images of a record into one JSON array.
const imagesColumn = `COALESCE(json_agg(json_build_object(` +
	`'id', i.id, 'caption', i.caption, 'contentType', i.content_type) ORDER BY i.id) ` +
	`FILTER (WHERE i.id IS NOT NULL), '[]') AS images`

// selectCols are the record columns qualified with the "h" alias.
var selectCols = qualify("h", postgres.ExtractDBColumns[hardware.Record]("images"))

// equalityColumns maps criteria keys compared by equality to their columns.
var equalityColumns = map[string]string{
	"id":           "h.id",
	"version":      "h.version",
	"type":         "h.type",
	"manufacturer": "h.manufacturer",
	"inStock":      "h.in_stock",
	"created":      "h.created_at",
	"updated":      "h.updated_at",
}

func qualify(alias string, cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = alias + "." + c
	}
	return out
}

// querierSource resolves the querier for a context, joining an open
// transaction when there is one.
type querierSource interface {
	GetQuerier(ctx context.Context) postgres.Querier
}

// QueryBuilder translates lookups and search criteria into SQL.
// It does not validate criteria; unknown keys are ignored.
type QueryBuilder struct {
	db querierSource
}

// NewQueryBuilder creates a query builder executing through txm.
func NewQueryBuilder(txm *postgres.TxManager) *QueryBuilder {
	return &QueryBuilder{db: txm}
}

// Builder returns a new squirrel builder with PostgreSQL placeholder format.
func Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (b *QueryBuilder) baseSelect() squirrel.SelectBuilder {
	return Builder().
		Select(selectCols...).
		From(tableHardware + " h")
}

// BuildByID scopes a query to one identity. With images, the owned images are
// joined and aggregated into the images column.
func (b *QueryBuilder) BuildByID(id int64, withImages bool) hardware.Query {
	q := b.baseSelect().Where(squirrel.Eq{"h.id": id})
	if withImages {
		q = q.Column(imagesColumn).
			LeftJoin(tableImage + " i ON i.hardware_id = h.id").
			GroupBy("h.id")
	}
	return &query{db: b.db, filtered: q, paged: q}
}

// Build composes the criteria predicates and applies pagination.
func (b *QueryBuilder) Build(criteria hardware.SearchCriteria, pageable hardware.Pageable) hardware.Query {
	filtered := applyCriteria(b.baseSelect(), criteria)

	paged := filtered.OrderBy("h.id")
	if pageable.Size > 0 {
		paged = paged.
			Limit(uint64(pageable.Size)).
			Offset(uint64(pageable.Offset()))
	}

	return &query{db: b.db, filtered: filtered, paged: paged}
}

// applyCriteria adds name, rating and price predicates first, then the
// remaining keys in key order.
func applyCriteria(q squirrel.SelectBuilder, criteria hardware.SearchCriteria) squirrel.SelectBuilder {
	if v, ok := criteria[hardware.KeyName]; ok {
		q = q.Where(squirrel.ILike{"h.name": "%" + v + "%"})
	}

	if v, ok := criteria[hardware.KeyRating]; ok {
		if rating, ok := hardware.ParseRating(v); ok {
			q = q.Where(squirrel.GtOrEq{"h.rating": rating})
		}
	}

	if v, ok := criteria[hardware.KeyPrice]; ok {
		if price, err := decimal.NewFromString(strings.TrimSpace(v)); err == nil {
			q = q.Where(squirrel.LtOrEq{"h.price": price})
		}
	}

	keys := make([]string, 0, len(criteria))
	for k := range criteria {
		switch k {
		case hardware.KeyName, hardware.KeyRating, hardware.KeyPrice:
			continue
		}
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		v := criteria[k]
		switch {
		case k == hardware.KeyTags:
			q = q.Where(squirrel.Expr("? = ANY(h.tags)", v))
		case hardware.IsTagLiteral(k):
			q = q.Where(squirrel.Expr("? = ANY(h.tags)", k))
		default:
			col, ok := equalityColumns[k]
			if !ok {
				continue
			}
			q = q.Where(squirrel.Eq{col: equalityValue(k, v)})
		}
	}

	return q
}

// equalityValue converts v to the column's Go type when it parses.
// Unparseable values are passed through and rejected by the store.
func equalityValue(key, v string) any {
	switch key {
	case "id":
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	case "version":
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	case "inStock":
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return v
}

// query executes a built select. filtered carries the predicates only and
// backs Count; paged adds ordering and pagination.
type query struct {
	db       querierSource
	filtered squirrel.SelectBuilder
	paged    squirrel.SelectBuilder
}

func (q *query) countBuilder() squirrel.SelectBuilder {
	return Builder().
		Select("COUNT(*)").
		FromSelect(q.filtered, "sub")
}

// One returns the first matching record, or nil if there is none.
func (q *query) One(ctx context.Context) (*hardware.Record, error) {
	sql, args, err := q.paged.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rec hardware.Record
	if err := pgxscan.Get(ctx, q.db.GetQuerier(ctx), &rec, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s: %w", tableHardware, err)
	}
	return &rec, nil
}

// Many returns the matching records of the requested page.
func (q *query) Many(ctx context.Context) ([]hardware.Record, error) {
	sql, args, err := q.paged.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var records []hardware.Record
	if err := pgxscan.Select(ctx, q.db.GetQuerier(ctx), &records, sql, args...); err != nil {
		return nil, fmt.Errorf("list %s: %w", tableHardware, err)
	}
	return records, nil
}

// Count returns the number of matches ignoring pagination.
func (q *query) Count(ctx context.Context) (int64, error) {
	sql, args, err := q.countBuilder().ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count query: %w", err)
	}

	var total int64
	if err := q.db.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count %s: %w", tableHardware, err)
	}
	return total, nil
}
