// Package schema declares the entity contracts known to the service: the
// table each entity lives in, its column order for headerless CSV uploads,
// and the per-column validation rules. The registry is the single source of
// truth consulted by both the ingestion and read endpoints, so an unknown
// entity name is rejected before storage is ever touched.
package schema

import (
	"hiringapi/internal/apperror"
)

// Kind classifies a column for validation and coercion.
type Kind string

const (
	// KindID is an identifier-like column: must parse as an integer > 0 and
	// is coerced to int64 on the valid path.
	KindID Kind = "id"

	// KindText is free text: required means non-null, nothing more.
	KindText Kind = "text"

	// KindTimestamp is a timestamp kept as an un-parsed string at ingest
	// time; its format only matters to the report queries.
	KindTimestamp Kind = "timestamp"
)

// Field is one column of an entity contract.
type Field struct {
	Name     string
	Kind     Kind
	Required bool
}

// Contract describes one entity: its logical name (which doubles as the
// upload file_type and the table name) and its ordered fields.
type Contract struct {
	Name   string
	Fields []Field
}

// Columns returns the field names in declaration order.
func (c Contract) Columns() []string {
	cols := make([]string, len(c.Fields))
	for i, f := range c.Fields {
		cols[i] = f.Name
	}
	return cols
}

// Table returns the destination table name for the entity.
func (c Contract) Table() string { return c.Name }

// The three entities. Column order matches the uploaded CSV layout.
var contracts = []Contract{
	{
		Name: "jobs",
		Fields: []Field{
			{Name: "id", Kind: KindID, Required: true},
			{Name: "job", Kind: KindText, Required: true},
		},
	},
	{
		Name: "departments",
		Fields: []Field{
			{Name: "id", Kind: KindID, Required: true},
			{Name: "department", Kind: KindText, Required: true},
		},
	},
	{
		Name: "hired_employees",
		Fields: []Field{
			{Name: "id", Kind: KindID, Required: true},
			{Name: "name", Kind: KindText, Required: false},
			{Name: "datetime", Kind: KindTimestamp, Required: false},
			{Name: "department_id", Kind: KindID, Required: true},
			{Name: "job_id", Kind: KindID, Required: true},
		},
	},
}

var byName = func() map[string]Contract {
	m := make(map[string]Contract, len(contracts))
	for _, c := range contracts {
		m[c.Name] = c
	}
	return m
}()

// Lookup resolves an entity name to its contract. Unknown names yield a
// not-found application error, which the HTTP layer maps to a 400 with the
// "file_type not found" message.
func Lookup(name string) (Contract, error) {
	c, ok := byName[name]
	if !ok {
		return Contract{}, apperror.New(apperror.CodeNotFound, "file_type not found")
	}
	return c, nil
}

// All returns every registered contract in declaration order.
func All() []Contract {
	out := make([]Contract, len(contracts))
	copy(out, contracts)
	return out
}

// Names lists the registered entity names, for diagnostics.
func Names() []string {
	out := make([]string, len(contracts))
	for i, c := range contracts {
		out[i] = c.Name
	}
	return out
}
