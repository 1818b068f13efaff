// Package runtime implements the dialog state machine that walks a session
// through the menu tree, one gateway request at a time.
package runtime
