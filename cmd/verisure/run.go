package main

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-verisure/pkg/banner"
	"github.com/goliatone/go-verisure/pkg/page"
	"github.com/goliatone/go-verisure/pkg/renderers/terminal"
	"github.com/goliatone/go-verisure/pkg/wallet"
)

func newRunCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run [page]",
		Short: "Walk the pages interactively against the API",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := page.KindRoleSelect
			if len(args) == 1 {
				parsed, err := page.ParseKind(args[0])
				if err != nil {
					return err
				}
				kind = parsed
			}

			client, err := a.client()
			if err != nil {
				return err
			}
			opts := []terminal.Option{
				terminal.WithOutput(cmd.OutOrStdout()),
				terminal.WithBridge(wallet.FromEndpoint(a.cfg.Wallet.RPCURL, nil)),
				terminal.WithRedirectDelay(a.cfg.RedirectDelay),
				terminal.WithLogger(a.logger.Named("terminal")),
			}
			if a.cfg.SanitizeContent {
				opts = append(opts, terminal.WithSanitizer(banner.UGCSanitizer()))
			}
			session, err := terminal.NewSession(client, opts...)
			if err != nil {
				return err
			}
			return session.Run(cmd.Context(), kind)
		},
	}
}
