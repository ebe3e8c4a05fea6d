package postgres

import _ "embed"

// Schema is the full DDL for the backend's tables. Integration tests apply it
// to fresh containers; deployments apply it through their own tooling.
//
//go:embed schema.sql
var Schema string
