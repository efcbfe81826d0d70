// Package archive packs sequence read files into tar.gz archives, verifies
// them by MD5, and publishes them into the public download directory.
//
// Publication is idempotent: an archive already present with a matching
// checksum is left alone, while a stale one (checksum mismatch) is replaced.
// Prune enforces the retention window on the public directory.
package archive
