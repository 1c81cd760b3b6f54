// Package sqladmin is the data access layer of SQLite Web Manager.
//
// It lists tables, reads schema, runs console SQL and performs the basic
// create/insert/delete/drop operations against a single SQLite file.
//
// # Identifiers and values
//
// Table and column names end up in SQL text, so each one is trimmed and
// checked by ValidateIdentifier (letters, digits and underscores only)
// before any statement is built. Row values and delete conditions are always
// bound parameters. Declared column types are checked against a type-name
// pattern because DDL cannot take parameters.
//
// # Errors
//
// Validation failures match ErrInvalidArgument, a missing table in
// TableSchema matches ErrNotFound; both carry a message meant for the caller.
// Anything else is an engine or I/O failure and is returned unchanged.
//
// # Connections
//
// A Store holds no connection. Every operation opens the file through its
// Opener and closes the handle before returning.
//
// The console operations (ExecuteQuery, ExecuteScript) run caller SQL
// verbatim. They are an intentional raw-SQL surface for administrators and
// must not be exposed to untrusted callers.
package sqladmin
