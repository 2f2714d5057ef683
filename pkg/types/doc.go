// Package types defines the small shared vocabulary of envboot: task
// identifiers, probe presence, step outcomes and the filesystem interface
// every stateful component is written against.
package types
