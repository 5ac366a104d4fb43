package sqldataset

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strings"
)

/*
Adapter is an interface providing the methods
needed to store and read samples on a database backend.
*/
type Adapter interface {
	ColumnName(string) (string, error)

	CreateTables(ctx context.Context, discreteColumns, continuousColumns []string) error

	AddDiscreteValues(context.Context, []string) (int, error)
	ListDiscreteValues(context.Context) (map[int]string, error)

	AddSamples(ctx context.Context, rawSamples []map[string]interface{}, discreteColumns, continuousColumns []string) (int, error)
	IterateOnSamples(ctx context.Context, discreteColumns, continuousColumns []string, lambda func(int, map[string]interface{}) (bool, error)) error

	Close() error
}

/*
Dialect holds what differs between the SQL databases an Adapter can work
on: the driver name, the column types and the placeholder syntax.
*/
type Dialect struct {
	// Driver is the name of the database/sql driver
	Driver string
	// PrimaryKey is the column definition for the auto-incremented id columns
	PrimaryKey string
	// Float is the column type for continuous values
	Float string
	// Placeholder returns the placeholder for the i-th (1-based) parameter
	// of a statement
	Placeholder func(i int) string
	// Setup holds statements to run before creating the tables
	Setup []string
}

type adapter struct {
	db      *sql.DB
	dialect Dialect
}

/*
NewAdapter takes an open database and the Dialect to work with it and
returns an Adapter for it.
*/
func NewAdapter(db *sql.DB, dialect Dialect) Adapter {
	return &adapter{db, dialect}
}

/*
Open takes a Dialect and a data source name and returns an Adapter that
works on the database the data source name points to, or an error if it
cannot be opened.
*/
func Open(dialect Dialect, dsn string) (Adapter, error) {
	db, err := sql.Open(dialect.Driver, dsn)
	if err != nil {
		return nil, err
	}
	return NewAdapter(db, dialect), nil
}

func (a *adapter) ColumnName(attributeName string) (string, error) {
	if attributeName == "id" {
		return "", fmt.Errorf(`'%s' is reserved and cannot be used as attribute name`, attributeName)
	}
	if attributeName == "" {
		return "", fmt.Errorf("attribute name cannot be empty")
	}
	if strings.ContainsAny(attributeName, `"`) {
		return "", fmt.Errorf(`attribute name '%s' contains invalid character '"'`, attributeName)
	}
	return attributeName, nil
}

func (a *adapter) CreateTables(ctx context.Context, discreteColumns, continuousColumns []string) error {
	for _, stmt := range a.dialect.Setup {
		if _, err := a.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("running %q: %v", stmt, err)
		}
	}
	createStmt := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS discreteValues (
		id %s,
		value TEXT UNIQUE NOT NULL)`, a.dialect.PrimaryKey)
	if _, err := a.db.ExecContext(ctx, createStmt); err != nil {
		return fmt.Errorf("running discreteValues creation statement: %v", err)
	}
	var createStmtBuf bytes.Buffer
	createStmtBuf.WriteString("CREATE TABLE IF NOT EXISTS samples(")
	for _, c := range discreteColumns {
		createStmtBuf.WriteString(fmt.Sprintf(`"%s" INTEGER NULL REFERENCES discreteValues(id), `, c))
	}
	for _, c := range continuousColumns {
		createStmtBuf.WriteString(fmt.Sprintf(`"%s" %s NULL, `, c, a.dialect.Float))
	}
	createStmtBuf.WriteString(fmt.Sprintf(`"id" %s)`, a.dialect.PrimaryKey))
	if _, err := a.db.ExecContext(ctx, createStmtBuf.String()); err != nil {
		return fmt.Errorf("ensuring samples table exists: %v", err)
	}
	return nil
}

/*
AddDiscreteValues inserts the given values not yet in the discreteValues
table and returns the number of values inserted.
*/
func (a *adapter) AddDiscreteValues(ctx context.Context, values []string) (int, error) {
	existing, err := a.ListDiscreteValues(ctx)
	if err != nil {
		return 0, err
	}
	known := make(map[string]bool, len(existing))
	for _, v := range existing {
		known[v] = true
	}
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("starting transaction: %v", err)
	}
	insertStmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO discreteValues (value) VALUES (%s)", a.dialect.Placeholder(1)))
	if err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("preparing insert command for values: %v", err)
	}
	defer insertStmt.Close()
	var count int
	for _, v := range values {
		if known[v] {
			continue
		}
		if _, err = insertStmt.ExecContext(ctx, v); err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("inserting value %q: %v", v, err)
		}
		known[v] = true
		count++
	}
	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing %d values: %v", count, err)
	}
	return count, nil
}

func (a *adapter) ListDiscreteValues(ctx context.Context) (map[int]string, error) {
	rows, err := a.db.QueryContext(ctx, `SELECT id, value FROM discreteValues`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make(map[int]string)
	for rows.Next() {
		var id int
		var value string
		err = rows.Scan(&id, &value)
		if err != nil {
			return nil, err
		}
		result[id] = value
	}
	return result, rows.Err()
}

func (a *adapter) AddSamples(ctx context.Context, rawSamples []map[string]interface{}, discreteColumns, continuousColumns []string) (int, error) {
	if len(rawSamples) == 0 {
		return 0, nil
	}
	columns := append(append([]string{}, discreteColumns...), continuousColumns...)
	if len(columns) == 0 {
		return 0, fmt.Errorf("no attributes to store")
	}
	placeholders := make([]string, len(columns))
	for i := range columns {
		placeholders[i] = a.dialect.Placeholder(i + 1)
	}
	insert := fmt.Sprintf(`INSERT INTO samples ("%s") VALUES (%s)`, strings.Join(columns, `", "`), strings.Join(placeholders, ", "))
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("starting transaction: %v", err)
	}
	insertStmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("preparing insert command for samples: %v", err)
	}
	defer insertStmt.Close()
	for i, rs := range rawSamples {
		values := make([]interface{}, 0, len(columns))
		for _, c := range columns {
			values = append(values, rs[c])
		}
		if _, err = insertStmt.ExecContext(ctx, values...); err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("inserting sample %d: %v", i, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing %d samples: %v", len(rawSamples), err)
	}
	return len(rawSamples), nil
}

func (a *adapter) IterateOnSamples(ctx context.Context, discreteColumns, continuousColumns []string, lambda func(int, map[string]interface{}) (bool, error)) error {
	columns := append(append([]string{}, discreteColumns...), continuousColumns...)
	if len(columns) == 0 {
		return fmt.Errorf("no attributes to read")
	}
	query := fmt.Sprintf(`SELECT "%s" FROM samples ORDER BY "id"`, strings.Join(columns, `", "`))
	rows, err := a.db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()
	for j := 0; rows.Next(); j++ {
		rawSample := make(map[string]interface{})
		discreteValues := make([]sql.NullInt64, len(discreteColumns))
		continuousValues := make([]sql.NullFloat64, len(continuousColumns))
		values := make([]interface{}, 0, len(columns))
		for i := range discreteValues {
			values = append(values, &discreteValues[i])
		}
		for i := range continuousValues {
			values = append(values, &continuousValues[i])
		}
		if err = rows.Scan(values...); err != nil {
			return err
		}
		for i, c := range discreteColumns {
			if discreteValues[i].Valid {
				rawSample[c] = int(discreteValues[i].Int64)
			}
		}
		for i, c := range continuousColumns {
			if continuousValues[i].Valid {
				rawSample[c] = continuousValues[i].Float64
			}
		}
		ok, err := lambda(j, rawSample)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
	}
	return rows.Err()
}

func (a *adapter) Close() error {
	return a.db.Close()
}
