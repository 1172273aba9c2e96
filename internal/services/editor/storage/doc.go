// Package storage defines persistence contracts for editor records.
//
// These interfaces exist so the service layer can depend on stable domain
// semantics without coupling to SQLite schema details.
package storage
