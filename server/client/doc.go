package client

/*
Package `client` implements the `api.Workspace` interface with an in-memory APL workspace, and wraps the tcp
connection of an editor with the framing from `api/io`.

The workspace holds user functions, user variables, a fixed set of system names and the state indicator.
None of its methods lock: whoever calls them must hold the workspace lock, exactly like command handlers do.

`Define` is a small function fixer. It does not evaluate APL, it only checks what can be checked without an
interpreter: the header grammar, the function name, and that quotes and brackets in the body are balanced.

Snapshots persist user functions, variables and the state indicator as JSON across restarts.
*/
