// Package inventory discovers completed sequencing runs under the
// configured incoming roots.
//
// The inventory is an in-memory map rebuilt on every invocation; nothing
// is persisted. Collection is tolerant of unreadable directories so a
// permission problem in one root never hides the others.
package inventory
