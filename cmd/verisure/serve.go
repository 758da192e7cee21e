package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-verisure/components/pages"
)

func newServeCommand(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve page shells by route",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("addr") {
				a.cfg.Server.Addr = addr
			}
			mux, patterns, err := a.pagesMux()
			if err != nil {
				return err
			}

			srv := &http.Server{
				Addr:              a.cfg.Server.Addr,
				Handler:           mux,
				ReadHeaderTimeout: 10 * time.Second,
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errs := make(chan error, 1)
			go func() {
				a.logger.Info("serving pages", zap.String("addr", srv.Addr), zap.Strings("routes", patterns))
				errs <- srv.ListenAndServe()
			}()

			select {
			case err := <-errs:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}
			shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdown)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides server.addr")
	return cmd
}

// pagesMux mounts the page shells, their files and a proxy to base_url for
// the API the pages post to.
func (a *app) pagesMux() (*http.ServeMux, []string, error) {
	cfg, err := a.theme()
	if err != nil {
		return nil, nil, err
	}
	registry, err := a.registry(cfg)
	if err != nil {
		return nil, nil, err
	}
	target, err := url.Parse(a.cfg.BaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("serve: base url: %w", err)
	}

	fns := []pages.OptionFn{
		pages.WithRegistry(registry),
		pages.WithTheme(cfg),
		pages.WithScript(a.cfg.Server.Script, a.cfg.Server.RuntimeScript),
		pages.WithRedirectDelay(a.cfg.RedirectDelay),
		pages.WithAPIProxy(target),
		pages.WithLogger(a.logger.Named("pages")),
	}
	if dir := a.cfg.Server.StaticDir; dir != "" {
		fns = append(fns, pages.WithStatic("/static/", os.DirFS(dir)))
	}
	mux := http.NewServeMux()
	patterns, err := pages.New(fns...).RegisterRoutes(mux, "")
	if err != nil {
		return nil, nil, err
	}
	return mux, patterns, nil
}
