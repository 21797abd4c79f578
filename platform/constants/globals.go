// Description: This file contains names shared between the engines and the scripts they run.
package constants

const (
	// Result is the global a file-style script assigns to return a value when its
	// last statement is not an expression
	Result = "result"

	// ScriptFilename is the pseudo-filename reported in engine backtraces for inline source
	ScriptFilename = "<inline>"
)
