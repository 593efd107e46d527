// Package model defines the wire types streamed to table clients.
package model

// Row carries the fast columns of a single table row. Field names and order
// are part of the wire contract with the table page.
type Row struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Price int    `json:"price"`
}

// SlowResult carries the lazily computed column for a single row. Its ID
// refers to a previously sent Row.
type SlowResult struct {
	ID        int    `json:"id"`
	SlowValue string `json:"slow_value"`
}
