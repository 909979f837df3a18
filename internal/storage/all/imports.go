// Package all wires every built-in storage backend into the storage factory.
//
// It exists purely for side effects: a blank import runs each backend's
// init(), registering its factory with the storage package. After importing
// this package the following kinds are available to storage.Open:
//
//   - "sqlite"   (hiringapi/internal/storage/sqlite) — the default
//   - "postgres" (hiringapi/internal/storage/postgres)
//   - "mysql"    (hiringapi/internal/storage/mysql)
//   - "mssql"    (hiringapi/internal/storage/mssql)
package all

import (
	_ "hiringapi/internal/storage/mssql"
	_ "hiringapi/internal/storage/mysql"
	_ "hiringapi/internal/storage/postgres"
	_ "hiringapi/internal/storage/sqlite"
)
