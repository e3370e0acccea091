// Command ignite-server runs the ignite TCP key-value server: verify the
// on-disk engine marker, bind the configured address, and serve
// set/get/remove requests until killed.
package main

import (
	"fmt"
	"os"

	"github.com/iamNilotpal/ignite/internal/engine"
	"github.com/iamNilotpal/ignite/internal/server"
	"github.com/iamNilotpal/ignite/pkg/logger"
	"github.com/iamNilotpal/ignite/pkg/options"
	"github.com/spf13/cobra"
)

func main() {
	var (
		addr       string
		engineName string
		dataDir    string
	)

	cmd := &cobra.Command{
		Use:   "ignite-server",
		Short: "Run the ignite key-value store's TCP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(dataDir, addr, engineName)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", options.DefaultListenAddr, "address to bind the TCP listener to")
	cmd.Flags().StringVar(&engineName, "engine", options.DefaultEngineName, "engine backend name (kvs|sled)")
	cmd.Flags().StringVar(&dataDir, "data-dir", options.DefaultDataDir, "working directory for segment files and the engine marker")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(dataDir, addr, engineName string) error {
	log := logger.New("ignite-server")
	defer log.Sync() //nolint:errcheck

	opts := options.NewDefaultOptions()
	for _, apply := range []options.OptionFunc{
		options.WithDataDir(dataDir),
		options.WithListenAddr(addr),
		options.WithEngineName(engineName),
	} {
		apply(&opts)
	}

	eng, err := engine.New(&engine.Config{Options: &opts, Logger: log})
	if err != nil {
		return fmt.Errorf("failed to open engine: %w", err)
	}
	defer eng.Close()

	srv, err := server.New(&server.Config{Options: &opts, Logger: log, Engine: eng})
	if err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return srv.ListenAndServe()
}
