package server

import (
	"strings"

	"github.com/davecgh/go-spew/spew"

	"github.com/syohex/gnu-apl-mode/out"
	"github.com/syohex/gnu-apl-mode/server/api"
	"github.com/syohex/gnu-apl-mode/server/api/io"
	"github.com/syohex/gnu-apl-mode/server/client"
	"github.com/syohex/gnu-apl-mode/server/strcoll"
)

// evaluates one command line read from `conn` and writes its response
// only errors that break the connection are returned, anything else is either a response or a log line
// the workspace lock is held from the moment a command touches the workspace until its response is written
func eval(line string, conn *client.Connection, ws api.Workspace, logger *out.Logger) error {
	cmd := strings.Split(line, ":")
	op, _ := strcoll.Nth(0, cmd)

	switch op {
	case "si":
		return locked(ws, func() error {
			return conn.Reply(api.StateIndicator(ws)...)
		})

	case "sic":
		return locked(ws, func() error {
			return conn.Reply(api.ClearStateIndicator(ws)...)
		})

	case "fn":
		name, ok := strcoll.Nth(1, cmd)
		if !ok {
			logger.Errorf("malformed command: '%s' (missing function name)", line)
			return nil
		}
		if extra := strcoll.Rest(2, cmd); len(extra) > 0 {
			logger.Debugf("ignoring arguments %v", extra)
		}
		return locked(ws, func() error {
			return conn.Reply(api.ShowFunction(ws, name)...)
		})

	case "def":
		// the block is read without holding the workspace lock
		block, err := conn.ReadBlock()
		if err != nil {
			return err
		}
		return locked(ws, func() error {
			ret, err := api.DefineFunction(ws, block)
			if err != nil {
				logger.Infof("%v", err)
			}
			return conn.Reply(ret...)
		})

	case "quit":
		conn.Close()
		return io.Fatal("quit", io.ErrQuit)

	case "":
		logger.Errorf("empty command")
		return nil

	default:
		logger.Errorf("unknown command: '%s'", op)
		if logger.DebugEnabled() {
			logger.Debugf("%s", spew.Sdump(cmd))
		}
		return nil
	}
}

func locked(ws api.Workspace, fn func() error) error {
	ws.Lock()
	defer ws.Unlock()
	return fn()
}
