package server

/*
Package `server` implements the native side of the editor protocol. Editors connect over tcp, send one command per
line and get back zero or more lines terminated by a sentinel line.

Every connection is served by its own goroutine, which reads a command, evaluates it and writes its response before
reading the next one. All connections share one workspace; a command holds the workspace lock from the moment it
looks at the workspace until its response has been written, so responses never interleave with other sessions'
changes.

Commands:

	si            prints the state indicator, innermost frame first
	sic           clears the state indicator
	fn:NAME       prints the source of a user function, or a status line
	def           reads a function definition up to the sentinel and fixes it
	quit          closes the connection without a response

Malformed and unknown commands are logged and otherwise ignored; a connection only breaks on i/o errors, on lines
longer than the configured limit, on definition blocks larger than 64 such lines, on idle timeout or on `quit`.

Formatting and workspace semantics live in the `api` package, the concrete workspace in `client`.
*/
