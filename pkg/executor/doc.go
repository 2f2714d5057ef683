// Package executor runs external commands for envboot.
//
// Every command a step issues (conda, git, docker, the base environment
// script) goes through an Executor so it is logged in one place and tests
// can substitute a scripted fake. In quiet mode output is captured and
// written to the debug log; otherwise it is streamed to the console too.
package executor
