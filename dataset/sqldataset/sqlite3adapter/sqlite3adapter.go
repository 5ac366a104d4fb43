/*
Package sqlite3adapter provides an implementation of the
Adapter interface in the sqldataset package that works
over an SQLite3 database file.
*/
package sqlite3adapter

import (
	"github.com/pbanos/mfe/dataset/sqldataset"

	// Import of sqlite3 driver
	_ "github.com/mattn/go-sqlite3"
)

// Dialect is the sqldataset.Dialect for SQLite3 databases
var Dialect = sqldataset.Dialect{
	Driver:      "sqlite3",
	PrimaryKey:  "INTEGER PRIMARY KEY AUTOINCREMENT",
	Float:       "REAL",
	Placeholder: func(int) string { return "?" },
	Setup:       []string{"PRAGMA foreign_keys=ON"},
}

/*
New takes a path to an SQLite3 database file and returns an Adapter that works
on the file's database or an error if it fails to open as an sqlite3 database.
*/
func New(path string) (sqldataset.Adapter, error) {
	return sqldataset.Open(Dialect, path)
}
