// Package history persists a ledger of dispatched runs in SQLite.
//
// Each row records which run was published, for which group, the archive
// name and checksum, and who was notified. The ledger is an operator aid
// for answering "did run X already go out, and to whom" — the dispatch
// pipeline itself never reads it back.
package history
