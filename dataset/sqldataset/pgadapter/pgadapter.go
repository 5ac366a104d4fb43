/*
Package pgadapter provides an implementation of the
Adapter interface in the sqldataset package that works
over a PostgreSQL database.
*/
package pgadapter

import (
	"fmt"

	"github.com/pbanos/mfe/dataset/sqldataset"

	// Import of PostgreSQL driver
	_ "github.com/lib/pq"
)

// Dialect is the sqldataset.Dialect for PostgreSQL databases
var Dialect = sqldataset.Dialect{
	Driver:      "postgres",
	PrimaryKey:  "SERIAL PRIMARY KEY",
	Float:       "DOUBLE PRECISION",
	Placeholder: func(i int) string { return fmt.Sprintf("$%d", i) },
}

/*
New takes a PostgreSQL database connection URL and returns
an Adapter that works on the database or an error if it fails to connect to it.
*/
func New(url string) (sqldataset.Adapter, error) {
	return sqldataset.Open(Dialect, url)
}
