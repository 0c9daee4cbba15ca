// Package query turns raw pagination/sort/filter/text request parameters into
// a normalized store query applied uniformly by every list endpoint.
package query

import (
	"encoding/json"
	"strings"

	"pawtopia/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	DefaultSkip  = 0
	DefaultLimit = 10
)

// Params are the raw query-string values as received on the wire.
type Params struct {
	Skip   int
	Limit  int
	Text   string
	Sort   string
	Filter string
}

// SortField is one field of an ordered sort specification.
type SortField struct {
	Field string
	Desc  bool
}

// Query is the normalized descriptor consumed by repositories.
type Query struct {
	Skip   int
	Limit  int
	Text   string
	Filter map[string]any
	Sort   []SortField
}

// Parse normalizes raw params into a Query. It is a pure transformation: a
// malformed filter document is the only failure mode.
func Parse(in Params) (*Query, error) {
	q := &Query{
		Skip:  in.Skip,
		Limit: in.Limit,
		Text:  in.Text,
	}
	if q.Skip < 0 {
		q.Skip = DefaultSkip
	}
	if q.Limit <= 0 {
		q.Limit = DefaultLimit
	}

	filter := in.Filter
	if filter == "" {
		filter = "{}"
	}
	if err := json.Unmarshal([]byte(filter), &q.Filter); err != nil {
		return nil, models.NewValidationError("Malformed filter expression")
	}

	q.Sort = parseSort(in.Sort)
	return q, nil
}

// parseSort reads a comma-separated list of field:direction pairs. Anything
// other than "desc" sorts ascending. A repeated field keeps its first
// position but the last direction wins.
func parseSort(sort string) []SortField {
	if sort == "" {
		return nil
	}
	var fields []SortField
	for _, pair := range strings.Split(sort, ",") {
		key, order, _ := strings.Cut(pair, ":")
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		desc := strings.TrimSpace(order) == "desc"
		if i := indexOf(fields, key); i >= 0 {
			fields[i].Desc = desc
			continue
		}
		fields = append(fields, SortField{Field: key, Desc: desc})
	}
	return fields
}

func indexOf(fields []SortField, key string) int {
	for i, f := range fields {
		if f.Field == key {
			return i
		}
	}
	return -1
}

// Resource describes how a stored entity exposes itself to queries: which
// request fields map to which columns, which fields live inside JSON
// documents, and which columns participate in text search.
type Resource struct {
	// Columns maps request field names to plain column names.
	Columns map[string]string
	// JSONColumns maps a request field prefix (e.g. "details") to the JSON
	// column holding the nested document.
	JSONColumns map[string]string
	// TextColumns are matched when the query carries a text term.
	TextColumns []string
}

// Scope returns a GORM scope applying the query's filter and text predicates.
// The text predicate is ANDed with the parsed filter, never replacing it.
// Unknown field names are rejected rather than passed through to the store.
func (r Resource) Scope(q *Query) (func(*gorm.DB) *gorm.DB, error) {
	type cond struct {
		column string
		value  any
	}
	type jsonCond struct {
		column string
		path   []string
		value  any
	}
	var conds []cond
	var jsonConds []jsonCond

	for field, value := range q.Filter {
		if col, ok := r.Columns[field]; ok {
			conds = append(conds, cond{column: col, value: value})
			continue
		}
		prefix, rest, nested := strings.Cut(field, ".")
		if nested {
			if col, ok := r.JSONColumns[prefix]; ok {
				jsonConds = append(jsonConds, jsonCond{
					column: col,
					path:   strings.Split(rest, "."),
					value:  value,
				})
				continue
			}
		}
		return nil, models.NewValidationError("Unknown filter field: " + field)
	}

	return func(db *gorm.DB) *gorm.DB {
		for _, c := range conds {
			db = db.Where(map[string]any{c.column: c.value})
		}
		for _, jc := range jsonConds {
			db = db.Where(datatypes.JSONQuery(jc.column).Equals(jc.value, jc.path...))
		}
		if q.Text != "" && len(r.TextColumns) > 0 {
			pattern := "%" + q.Text + "%"
			clause := make([]string, len(r.TextColumns))
			args := make([]any, len(r.TextColumns))
			for i, col := range r.TextColumns {
				clause[i] = col + " LIKE ?"
				args[i] = pattern
			}
			db = db.Where(strings.Join(clause, " OR "), args...)
		}
		return db
	}, nil
}

// PageScope returns a GORM scope applying skip, limit and sort. Sort fields
// go through the same whitelist as filters.
func (r Resource) PageScope(q *Query) (func(*gorm.DB) *gorm.DB, error) {
	type order struct {
		column string
		desc   bool
	}
	var orders []order
	for _, f := range q.Sort {
		col, ok := r.Columns[f.Field]
		if !ok {
			return nil, models.NewValidationError("Unknown sort field: " + f.Field)
		}
		orders = append(orders, order{column: col, desc: f.Desc})
	}

	return func(db *gorm.DB) *gorm.DB {
		for _, o := range orders {
			expr := o.column
			if o.desc {
				expr += " DESC"
			}
			db = db.Order(expr)
		}
		return db.Offset(q.Skip).Limit(q.Limit)
	}, nil
}
