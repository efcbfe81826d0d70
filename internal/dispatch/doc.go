// Package dispatch orchestrates the archive-and-notify sequence: resolve
// the read directory for each requested run, pack it, checksum it, publish
// the archive to the public directory, mail the download notice, and record
// the dispatch in the history ledger.
//
// A file lock in the state directory keeps concurrent invocations from
// interleaving publication. Everything else is a deliberate straight line:
// blocking calls, first failure aborts, no retries.
package dispatch
