//go:build js && wasm

// Command verisure-wasm is the browser bundle. It wires the current page and
// then parks so the registered event handlers stay alive.
package main

import (
	"context"
	"fmt"
	"os"
	"syscall/js"

	"go.uber.org/zap"

	"github.com/goliatone/go-verisure/pkg/api"
	"github.com/goliatone/go-verisure/pkg/dom/jsdom"
	"github.com/goliatone/go-verisure/pkg/page"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "verisure:", err)
		os.Exit(1)
	}
	select {}
}

func run() error {
	logger, err := zap.NewDevelopment()
	if err != nil {
		logger = zap.NewNop()
	}

	ctx := context.Background()
	doc := jsdom.New(ctx, jsdom.WithLogger(logger))

	kind, err := page.ParseKind(doc.Body(page.KindAttr))
	if err != nil {
		logger.Warn("unknown page kind, probing every landmark", zap.Error(err))
		kind = page.KindProbe
	}

	delay, err := page.ParseRedirectDelay(doc.Body(page.RedirectDelayAttr))
	if err != nil {
		logger.Warn("bad redirect delay, using the default", zap.Error(err))
	}

	origin := js.Global().Get("location").Get("origin").String()
	client, err := api.NewClient(origin, api.WithLogger(logger))
	if err != nil {
		return err
	}

	pi, err := page.New(client,
		page.WithBridgeResolver(jsdom.InjectedBridge),
		page.WithRedirectDelay(delay),
		page.WithLogger(logger),
	)
	if err != nil {
		return err
	}
	wired, err := pi.Run(ctx, doc, kind)
	if err != nil {
		return err
	}
	logger.Info("page initialized", zap.Stringer("kind", kind), zap.Int("landmarks", len(wired)))
	return nil
}
