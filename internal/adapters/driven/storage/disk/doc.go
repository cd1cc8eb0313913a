// Package disk provides file-backed implementations of the archive,
// checkpoint and index ports.
//
// Every write goes through a temporary file in the destination directory
// followed by a rename, so readers observe either the old or the new content
// and never a partial file.
package disk
