package option

import (
	"fmt"
	"regexp"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// QueryOption mutates a query before it is executed by the repository.
type QueryOption func(*gorm.DB) *gorm.DB

type Operator string

const (
	EQ  Operator = "="
	NEQ Operator = "<>"
	GT  Operator = ">"
	GTE Operator = ">="
	LT  Operator = "<"
	LTE Operator = "<="
	IN  Operator = "IN"
)

var identifier = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_.]*$`)

type Condition struct {
	Field    string
	Operator Operator
	Value    any
}

// ApplyOperator adds a WHERE clause for each condition. Conditions with an
// unknown operator or an invalid column name are ignored.
func ApplyOperator(conds ...Condition) QueryOption {
	return func(db *gorm.DB) *gorm.DB {
		for _, c := range conds {
			if !identifier.MatchString(c.Field) {
				continue
			}
			switch c.Operator {
			case EQ, NEQ, GT, GTE, LT, LTE:
				db = db.Where(fmt.Sprintf("%s %s ?", c.Field, c.Operator), c.Value)
			case IN:
				db = db.Where(fmt.Sprintf("%s IN ?", c.Field), c.Value)
			}
		}
		return db
	}
}

type QuerySortBy struct {
	SortBy  string
	OrderBy string
	Allow   map[string]bool
}

// WithSortBy orders the result. SortBy defaults to created_at and must be in
// Allow when Allow is set.
func WithSortBy(sorts ...QuerySortBy) QueryOption {
	return func(db *gorm.DB) *gorm.DB {
		for _, s := range sorts {
			column := s.SortBy
			if column == "" {
				column = "created_at"
			}
			if s.Allow != nil && !s.Allow[column] {
				continue
			}
			if !identifier.MatchString(column) {
				continue
			}
			db = db.Order(clause.OrderByColumn{
				Column: clause.Column{Name: column},
				Desc:   strings.EqualFold(s.OrderBy, "DESC"),
			})
		}
		return db
	}
}

func WithLimit(limit int) QueryOption {
	return func(db *gorm.DB) *gorm.DB {
		if limit <= 0 {
			return db
		}
		return db.Limit(limit)
	}
}

func WithLockingUpdate() QueryOption {
	return LockingUpdate
}

// LockingUpdate is usable both as a QueryOption and as a gorm scope.
func LockingUpdate(db *gorm.DB) *gorm.DB {
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}
