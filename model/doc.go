// Package model holds the entities exchanged with the remote service and the
// input rules checked before a write is issued.
//
// Every Validate method uses ozzo-validation and returns validation.Errors
// keyed by JSON field name, so callers can surface per-field messages.
package model
