package db

import "database/sql"

// DB wraps the standard sql.DB so store packages depend on one
// internal type rather than database/sql directly.
type DB struct {
	*sql.DB
}
