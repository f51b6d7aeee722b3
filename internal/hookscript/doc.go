// Package hookscript runs per-project hook scripts written in Lua.
//
// A project keeps its hooks under <pipeline>/Hooks/<event>.lua. Each run gets a
// fresh gopher-lua state with only the safe standard libraries, evaluates the
// file, and calls its global main(args) with the event arguments as a table.
// Scripts can write to the Prism log through the global log(message).
package hookscript
