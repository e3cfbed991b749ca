package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/syohex/gnu-apl-mode/out"
	"github.com/syohex/gnu-apl-mode/server"
	"github.com/syohex/gnu-apl-mode/server/api/io"
	"github.com/syohex/gnu-apl-mode/server/client"
)

const shutdownGrace = 5 * time.Second

var (
	addr          string
	maxLineLength int
	maxConns      int
	idleTimeout   time.Duration
	sentinel      string
	snapshotFile  string
	debug         bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Accept editor connections",
	Long: `Listen on a tcp address and serve editor connections until interrupted.

With --snapshot the workspace is loaded from the given file on start, if it exists,
and written back to it on shutdown.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := server.NewConfig(
			server.Addr(addr),
			server.MaxLineLength(maxLineLength),
			server.MaxConns(maxConns),
			server.IdleTimeout(idleTimeout),
			server.Sentinel(sentinel),
		)
		if err != nil {
			return err
		}
		logger := out.NewLogger(cmd.ErrOrStderr(), debug)

		ws := client.NewWorkspace(logger)
		if snapshotFile != "" {
			if err := loadSnapshot(snapshotFile, ws); err != nil {
				return err
			}
		}

		srv := server.New(cfg, ws, logger)
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sigs)

		done := make(chan error, 1)
		go func() {
			done <- srv.ListenAndServe()
		}()

		select {
		case err = <-done:
		case sig := <-sigs:
			logger.Infof("%s received, shutting down", sig)
			ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
			if err := srv.Shutdown(ctx); err != nil {
				logger.Errorf("shutdown: %v", err)
			}
			cancel()
			err = <-done
		}

		if snapshotFile != "" {
			if serr := saveSnapshot(snapshotFile, ws); serr != nil && err == nil {
				err = serr
			}
		}
		return err
	},
}

func init() {
	defaultAddr := server.DefaultAddr
	if env := os.Getenv("APL_NATIVE_ADDR"); env != "" {
		defaultAddr = env
	}
	serveCmd.Flags().StringVar(&addr, "addr", defaultAddr, "tcp address to listen on")
	serveCmd.Flags().IntVar(&maxLineLength, "max-line-length", io.DefaultMaxLineLength, "longest accepted line in bytes, longer ones close the connection")
	serveCmd.Flags().IntVar(&maxConns, "max-conns", 0, "maximum number of simultaneous connections (0 = unlimited)")
	serveCmd.Flags().DurationVar(&idleTimeout, "idle-timeout", 0, "close connections idle for longer than this (0 = never)")
	serveCmd.Flags().StringVar(&sentinel, "sentinel", io.DefaultSentinel, "line terminating every response and definition block")
	serveCmd.Flags().StringVar(&snapshotFile, "snapshot", "", "file the workspace is loaded from and saved to")
	serveCmd.Flags().BoolVar(&debug, "debug", false, "log debug messages")

	rootCmd.AddCommand(serveCmd)
}

// a missing file is an empty workspace
func loadSnapshot(path string, ws *client.Workspace) error {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "opening snapshot")
	}
	defer f.Close()

	ws.Lock()
	defer ws.Unlock()
	return errors.Wrap(ws.LoadSnapshot(f), path)
}

// writes to a temporary file first, an interrupted save leaves the previous snapshot in place
func saveSnapshot(path string, ws *client.Workspace) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return errors.Wrap(err, "creating snapshot")
	}

	ws.Lock()
	err = ws.SaveSnapshot(f)
	ws.Unlock()
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp)
		return errors.Wrap(err, path)
	}
	return errors.Wrap(os.Rename(tmp, path), "saving snapshot")
}
