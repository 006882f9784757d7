package test

import (
	"log"

	"todoapi/internal/adapter/database/sqlite"
)

// InitTestDB opens a migrated in-memory SQLite database. Each call returns a
// fresh, empty database.
func InitTestDB() *sqlite.DB {
	db, err := sqlite.NewDB(":memory:", "error")

	if err != nil {
		log.Fatal(err)
	}

	return db
}

// CleanDB empties every table while keeping the schema.
func CleanDB(db *sqlite.DB) {
	if _, err := db.Exec("DELETE FROM todos"); err != nil {
		log.Fatal(err)
	}
}

func StringPtr(value string) *string {
	return &value
}

func BoolPtr(value bool) *bool {
	return &value
}
