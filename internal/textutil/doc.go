// Package textutil provides small string helpers shared across the
// pipeline: title normalization for duplicate and exclusion checks,
// and display formatting for user-facing labels.
package textutil
