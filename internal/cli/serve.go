package cli

import (
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/piwi3910/PrintQuote/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		addr       string
		rate       float64
		burst      int
		trustProxy bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP estimate service",
		Long: `Serve layout, estimate, compare and catalog requests over HTTP.

A .env file in the working directory is loaded first. PRINTQUOTE_ADDR,
PRINTQUOTE_RATE and PRINTQUOTE_BURST override the config file; flags
override both.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
				a.log.Warn("failed to load .env", zap.Error(err))
			}

			if !cmd.Flags().Changed("addr") {
				addr = a.config.ServerAddr
				if v := os.Getenv("PRINTQUOTE_ADDR"); v != "" {
					addr = v
				}
			}
			if !cmd.Flags().Changed("rate") {
				if v, err := strconv.ParseFloat(os.Getenv("PRINTQUOTE_RATE"), 64); err == nil {
					rate = v
				}
			}
			if !cmd.Flags().Changed("burst") {
				if v, err := strconv.Atoi(os.Getenv("PRINTQUOTE_BURST")); err == nil {
					burst = v
				}
			}

			inv, _, err := a.loadInventory()
			if err != nil {
				return err
			}
			settings := a.config.Defaults
			a.config.ApplyToSettings(&settings)

			srv := server.New(server.Options{
				Settings:  settings,
				Inventory: inv,
				Memo:      a.memo,
				Logger:    a.log,
				Rate:      rate,
				Burst:     burst,

				TrustProxy: trustProxy,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	cmd.Flags().Float64Var(&rate, "rate", server.DefaultRate, "Requests per second allowed per client")
	cmd.Flags().IntVar(&burst, "burst", server.DefaultBurst, "Request burst allowed per client")
	cmd.Flags().BoolVar(&trustProxy, "trust-proxy", false, "Rate limit on X-Forwarded-For (only behind a trusted proxy)")
	return cmd
}
