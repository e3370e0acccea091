// Command ignite-client talks to a running ignite server: set, get and rm
// subcommands, each opening one connection, issuing one request, and
// exiting with a status code reflecting the outcome.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/iamNilotpal/ignite/internal/client"
	"github.com/iamNilotpal/ignite/pkg/options"
	"github.com/spf13/cobra"
)

func main() {
	var addr string

	root := &cobra.Command{Use: "ignite-client", Short: "Talk to an ignite key-value server"}
	root.PersistentFlags().StringVar(&addr, "addr", options.DefaultListenAddr, "address of the ignite server")

	root.AddCommand(
		setCmd(&addr),
		getCmd(&addr),
		rmCmd(&addr),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setCmd(addr *string) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a key to a value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.Dial(*addr)
			if err != nil {
				return err
			}
			defer c.Close()
			return c.Set(args[0], args[1])
		},
	}
}

func getCmd(addr *string) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get the value for a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.Dial(*addr)
			if err != nil {
				return err
			}
			defer c.Close()

			value, found, err := c.Get(args[0])
			if err != nil {
				return err
			}
			if !found {
				fmt.Println("Key not found")
				return nil
			}
			fmt.Println(value)
			return nil
		},
	}
}

func rmCmd(addr *string) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <key>",
		Short: "Remove a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.Dial(*addr)
			if err != nil {
				return err
			}
			defer c.Close()

			if err := c.Remove(args[0]); err != nil {
				if errors.Is(err, client.ErrKeyNotFound) {
					fmt.Fprintln(os.Stderr, "Key not found")
					os.Exit(1)
				}
				return err
			}
			return nil
		},
	}
}
