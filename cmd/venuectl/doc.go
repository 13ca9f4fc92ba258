// Package main hosts the venuectl CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into REST
// calls against the venue backend: controller management, command dispatch,
// schedules, backups, user administration, and the streaming firmware
// compile/flash operations. It centralizes configuration resolution, session
// handling, and structured logging setup so subcommands can focus on user
// experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
