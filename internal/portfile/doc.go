// Package portfile implements the rendezvous file protocol between the
// SDK and a freshly launched core process.
//
// The core is handed a temporary file path via --port-filename. Once its
// listener is bound it writes line-oriented key=value entries to that
// file and appends a literal "EOF" line:
//
//	sock=4567
//	EOF
//
// The parent polls the file; nothing before the EOF terminator may be
// trusted, since the core can be observed mid-write.
package portfile
