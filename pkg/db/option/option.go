// Package option holds composable query modifiers for gorm statements.
package option

import "gorm.io/gorm"

type QueryOption interface {
	Apply(*gorm.DB) *gorm.DB
}

type orderOption struct {
	clause string
}

func (o orderOption) Apply(db *gorm.DB) *gorm.DB {
	if o.clause == "" {
		return db
	}
	return db.Order(o.clause)
}

// WithOrder appends an ORDER BY clause.
func WithOrder(clause string) QueryOption {
	return orderOption{clause: clause}
}

type limitOption struct {
	limit int
}

func (o limitOption) Apply(db *gorm.DB) *gorm.DB {
	if o.limit <= 0 {
		return db
	}
	return db.Limit(o.limit)
}

// WithLimit caps the result set size.
func WithLimit(limit int) QueryOption {
	return limitOption{limit: limit}
}

type preloadOption struct {
	associations []string
}

func (o preloadOption) Apply(db *gorm.DB) *gorm.DB {
	for _, assoc := range o.associations {
		if assoc == "" {
			continue
		}
		db = db.Preload(assoc)
	}
	return db
}

// WithPreload eager-loads the named associations.
func WithPreload(associations ...string) QueryOption {
	return preloadOption{associations: associations}
}
