// Package ledger persists the set of bootstrap tasks already attempted on
// this machine.
//
// The on-disk form is one task id per line, sorted, with a trailing newline.
// Every change rewrites the whole file through filesystem.WriteFileAtomic;
// the file is never appended to. A missing file is a distinct state from an
// empty one: the first Record creates it.
package ledger
