// Command structview evaluates structure scripts and inspects working
// planes and truss templates from the terminal.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/chazu/structview/pkg/config"
	"github.com/chazu/structview/pkg/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// cli holds the state shared by all subcommands. It is filled in by the
// root command's PersistentPreRunE.
type cli struct {
	configPath string
	verbose    bool

	settings config.Settings
	log      *zap.Logger
}

func (c *cli) setup(cmd *cobra.Command, args []string) error {
	c.settings = config.Default()
	if c.configPath != "" {
		s, err := config.LoadFile(c.configPath)
		if err != nil {
			return err
		}
		c.settings = s
	}
	log, err := logging.New(c.settings.Log.Verbose(c.verbose))
	if err != nil {
		return err
	}
	c.log = log
	return nil
}

func newRootCmd() *cobra.Command {
	c := &cli{log: zap.NewNop()}
	root := &cobra.Command{
		Use:   "structview",
		Short: "Place and inspect truss structures",
		Long: `structview evaluates Lisp scripts that lay out working planes and place
truss templates along edges, merging coincident nodes as it goes.`,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "settings file (YAML)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(newEvalCmd(c), newPlaneCmd(c), newTrussCmd(c))
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
