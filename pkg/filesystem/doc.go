// Package filesystem provides the types.FS implementations used by envboot.
//
// NewAferoFS wraps any afero.Fs, emulating symlinks where the backend has
// none; a read-only backend refuses them. NewOS is that adapter over afero's
// OsFs plus durable atomic writes. WriteFileAtomic replaces a file in one
// step on either backend, which is how the install ledger is rewritten.
package filesystem
