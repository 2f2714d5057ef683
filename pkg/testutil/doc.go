// Package testutil provides test doubles and helpers for envboot packages.
//
// Key components:
//   - NewMemFS and FaultFS: in-memory types.FS and per-path error injection
//   - FakeExecutor: scripted executor.Executor that records every command
//   - MockCondaManager, MockDockerEngine, MockRemoteSource, MockSecretsStore:
//     testify mocks of the external collaborators
//   - file helpers for tests that need the real filesystem
//
// Packages imported here (executor, conda, docker, remote, secrets) must use
// external _test packages to depend on testutil.
package testutil
