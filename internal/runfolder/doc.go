// Package runfolder resolves the directory holding raw sequence reads
// inside a completed run folder.
//
// Instrument software has changed its on-disk layout several times; the
// resolver branches over the known generations (nested run-id folders,
// Alignment* analysis passes, and two legacy locations) and fails with
// ErrNoReadDir when a folder matches none of them.
package runfolder
