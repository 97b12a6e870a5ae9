package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/rasff-lens/internal/server"
)

var (
	srvSel   selection
	srvAddr  string
	srvNoAsk bool
	srvModel string
)

var serveCmd = &cobra.Command{
	Use:   "serve [file|glob]...",
	Short: "Serve the interactive dashboard and JSON API",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := currentConfig()
		if err != nil {
			return err
		}
		opts := server.Options{QueryTimeout: c.QueryTimeout()}
		if !srvNoAsk {
			eng, err := newEngine(c, srvModel)
			if err != nil {
				return fmt.Errorf("%w (use --no-ask to serve without questions)", err)
			}
			opts.Asker = eng
		}
		l, err := srvSel.load(cmd.Context(), args)
		if err != nil {
			return err
		}
		printWarnings(cmd.ErrOrStderr(), l.Stats.Warnings)
		opts.Name = l.Name
		opts.Records = l.Records
		opts.ProductLabel = l.Tax.ProductLabel

		s, err := server.New(opts)
		if err != nil {
			return err
		}
		addr := srvAddr
		if addr == "" {
			addr = c.ListenAddress
		}
		parent := cmd.Context()
		if parent == nil {
			parent = context.Background()
		}
		ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
		defer stop()
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Dashboard on http://%s (%d notifications)\n", addr, len(l.Records))
		log.Info().Str("addr", addr).Bool("ask", opts.Asker != nil).Msg("serving")
		return s.Run(ctx, addr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	srvSel.register(serveCmd)
	serveCmd.Flags().StringVar(&srvAddr, "addr", "", "listen address (defaults to config listen_address)")
	serveCmd.Flags().BoolVar(&srvNoAsk, "no-ask", false, "disable natural-language questions")
	serveCmd.Flags().StringVar(&srvModel, "model", "", "model override (defaults to config model)")
}
