package api

/*
Package `api` implements what each command of the editor protocol does, independently of how the command arrived
and how its response is framed.

Every function takes a `Workspace` and returns the lines of the response payload. None of them takes the workspace
lock, that is the responsibility of the caller, which must hold it until the response has been written.

Business failures (unknown names, functions that can't be fixed) are never returned as errors that break the
connection: they are encoded as status lines that the editor interprets.

The subpackage `io` contains the framing: lines in, sentinel terminated blocks in, sentinel terminated responses out.
*/
