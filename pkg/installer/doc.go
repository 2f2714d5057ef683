// Package installer runs the bootstrap steps.
//
// Every step goes through the same gate: the completion ledger first, then a
// live probe, then the action. By default a step is recorded in the ledger
// before it acts, so an action that fails or is interrupted is not retried
// on the next run. Strict mode records a step only once it is known to be
// present or its action has succeeded.
//
// Steps run sequentially. A step may invoke an earlier step it depends on;
// the nested call goes through the same ledger gate.
package installer
