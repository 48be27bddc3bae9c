// Package library persists users, collections, and movies in SQLite
// and implements the lineage exclusion used by derived collections.
// Collections form a tree through parent links; AncestorTitles walks a
// collection's chain to the root and returns every normalized title in
// it.
package library
