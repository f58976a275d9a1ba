//go:build js && wasm

// Command dashboard-wasm renders the board inside the browser page that loads it.
// It polls /state on the page's own origin and exposes stopBoard() to halt polling.
package main

import (
	"context"
	"net/http"
	"syscall/js"

	"bluff-board/internal/dashboard"
	"bluff-board/internal/logger"

	"github.com/rs/zerolog/log"
)

func main() {
	logger.Init("info")
	origin := js.Global().Get("location").Get("origin").String()

	client := dashboard.NewClient(origin, &http.Client{})
	renderer := dashboard.NewStateRenderer(client, dashboard.NewJSDocument())
	poller := dashboard.NewPoller(renderer, dashboard.DefaultInterval, dashboard.WithLogger(logger.Component("dashboard")))
	handle := poller.Start(context.Background())

	stop := js.FuncOf(func(this js.Value, args []js.Value) any {
		handle.Stop()
		return nil
	})
	js.Global().Set("stopBoard", stop)
	log.Info().Str("origin", origin).Msg("board dashboard started")

	select {}
}
