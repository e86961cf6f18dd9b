// Package core provides discovery and command building for the
// tracera-core worker binary.
//
// Discovery searches in the following order:
//  1. Explicit path in Config.CorePath (if provided)
//  2. The TRACERA_CORE_PATH environment variable
//  3. The system PATH
//  4. Common installation directories (/usr/local/bin, /usr/bin, ~/.local/bin)
//
// Command building produces the invocation contract the core expects:
// --port-filename <path> always, plus --debug when the option or the
// TRACERA_DEBUG environment flag is set.
package core
