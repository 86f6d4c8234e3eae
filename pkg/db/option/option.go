// Package option defines composable query modifiers for the generic
// repository.
package option

import "gorm.io/gorm"

type QueryOption interface {
	Apply(db *gorm.DB) *gorm.DB
}

type orderBy struct {
	clause string
}

func (o orderBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Order(o.clause)
}

// WithOrderBy sorts the result set, e.g. "created_at DESC".
func WithOrderBy(clause string) QueryOption {
	return orderBy{clause: clause}
}

type limit struct {
	n int
}

func (l limit) Apply(db *gorm.DB) *gorm.DB {
	return db.Limit(l.n)
}

func WithLimit(n int) QueryOption {
	return limit{n: n}
}

type where struct {
	query string
	args  []any
}

func (w where) Apply(db *gorm.DB) *gorm.DB {
	return db.Where(w.query, w.args...)
}

// WithWhere adds a raw predicate the struct filter cannot express, such
// as zero-value matches or range comparisons.
func WithWhere(query string, args ...any) QueryOption {
	return where{query: query, args: args}
}
