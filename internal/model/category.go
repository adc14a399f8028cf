package model

import "time"

// Category is a spending category. One level of nesting is supported:
// a category may name a parent, and parents never have parents themselves.
// Color is presentation metadata only.
type Category struct {
	CreatedAt time.Time
	Name      string
	Color     string
	ParentID  *int64
	ID        int64
	IsActive  bool
}
