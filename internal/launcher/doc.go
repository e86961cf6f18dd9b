// Package launcher spawns the tracera-core worker process and performs
// the rendezvous that discovers its listening address.
//
// The sequence is spawn-then-poll: a uniquely-named temporary file is
// created, the core is started with --port-filename pointing at it, and
// the launcher poll-reads the file until the core writes its address
// and the EOF terminator. The launcher owns the child process; Close
// terminates it best-effort.
package launcher
