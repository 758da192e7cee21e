package main

import (
	"fmt"
	"os"

	theme "github.com/goliatone/go-theme"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-verisure/pkg/contract"
	"github.com/goliatone/go-verisure/pkg/page"
	"github.com/goliatone/go-verisure/pkg/render"
	"github.com/goliatone/go-verisure/pkg/renderers/html"
)

func newRenderCommand(a *app) *cobra.Command {
	var (
		format  string
		output  string
		script  string
		runtime string
	)
	cmd := &cobra.Command{
		Use:   "render <page>",
		Short: "Write the shell of a page kind",
		Long: `Render writes one page shell. Page kinds: role-select, login, register,
institute-dashboard, verifier-dashboard.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := page.ParseKind(args[0])
			if err != nil {
				return err
			}
			c, err := contract.Default()
			if err != nil {
				return err
			}
			shell, err := render.BuildShell(kind, c)
			if err != nil {
				return err
			}
			cfg, err := a.theme()
			if err != nil {
				return err
			}
			registry, err := a.registry(cfg)
			if err != nil {
				return err
			}

			out, _, err := registry.Render(cmd.Context(), format, shell, render.RenderOptions{
				Theme:         cfg,
				Script:        script,
				RuntimeScript: runtime,
				RedirectDelay: &a.cfg.RedirectDelay,
			})
			if err != nil {
				return err
			}
			if output == "" {
				_, err = cmd.OutOrStdout().Write(out)
				return err
			}
			if err := os.WriteFile(output, out, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "page written to %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", html.Name, "renderer: html or json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVar(&script, "script", "", "controller bundle URL")
	cmd.Flags().StringVar(&runtime, "runtime-script", "", "wasm_exec.js URL, marks the bundle as wasm")
	return cmd
}

// theme resolves the configured theme over the built-in manifest.
func (a *app) theme() (*theme.RendererConfig, error) {
	selector, err := render.NewManifestSelector(render.DefaultManifest())
	if err != nil {
		return nil, err
	}
	cfg, err := render.SelectTheme(selector, a.cfg.Theme.Name, a.cfg.Theme.Variant)
	if err != nil {
		return nil, err
	}
	return render.OverrideTokens(cfg, a.cfg.Theme.Tokens), nil
}

func (a *app) registry(cfg *theme.RendererConfig) (*render.Registry, error) {
	renderer, err := html.New(
		html.WithDefaultTheme(cfg),
		html.WithEngine(a.cfg.Templates.Engine),
	)
	if err != nil {
		return nil, err
	}
	return render.NewRegistry(renderer)
}
