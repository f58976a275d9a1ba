// Command watch polls a board server and prints the players and logs regions to the
// terminal whenever they change.
package main

import (
	"context"
	"flag"
	"fmt"
	"html"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"bluff-board/internal/config"
	"bluff-board/internal/dashboard"
	"bluff-board/internal/logger"
	"bluff-board/internal/web"

	"github.com/rs/zerolog/log"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Warn().Err(err).Msg("failed to load .env")
	}
	cfg := config.Load()
	baseURL := flag.String("url", cfg.StateURL, "board server base URL")
	interval := flag.Duration("interval", time.Duration(cfg.PollIntervalMS)*time.Millisecond, "poll interval")
	grace := flag.Duration("shutdown-grace", 3*time.Second, "how long to wait for an in-flight refresh on exit")
	flag.Parse()
	logger.InitWriter(os.Stderr, cfg.LogLevel)

	doc := newPrintingDocument(os.Stdout)
	client := dashboard.NewClient(*baseURL, &http.Client{})
	renderer := dashboard.NewStateRenderer(client, doc)
	poller := dashboard.NewPoller(renderer, *interval, dashboard.WithLogger(logger.Component("dashboard")))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	log.Info().Str("url", *baseURL).Dur("interval", *interval).Msg("watching board")
	handle := poller.Start(ctx)
	<-handle.Done()
	if !waitCycles(handle, *grace) {
		log.Warn().Dur("grace", *grace).Msg("gave up waiting for in-flight refresh")
	}
}

// waitCycles waits up to grace for in-flight cycles after the poller stopped. It reports
// whether they all returned.
func waitCycles(handle *dashboard.Handle, grace time.Duration) bool {
	finished := make(chan struct{})
	go func() {
		handle.Wait()
		close(finished)
	}()
	select {
	case <-finished:
		return true
	case <-time.After(grace):
		return false
	}
}

// printingDocument keeps the regions in memory and prints them after a write that
// changed either one.
type printingDocument struct {
	*dashboard.MemoryDocument
	mu  sync.Mutex
	out io.Writer
}

func newPrintingDocument(out io.Writer) *printingDocument {
	return &printingDocument{
		MemoryDocument: dashboard.NewMemoryDocument(web.RegionPlayers, web.RegionLogs),
		out:            out,
	}
}

func (d *printingDocument) Replace(regions []web.RegionHTML) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	before := d.Snapshot()
	if err := d.MemoryDocument.Replace(regions); err != nil {
		return err
	}
	after := d.Snapshot()
	if before[web.RegionPlayers] == after[web.RegionPlayers] && before[web.RegionLogs] == after[web.RegionLogs] {
		return nil
	}
	fmt.Fprintf(d.out, "\n%s\n%s", regionText(after[web.RegionPlayers]), regionText(after[web.RegionLogs]))
	return nil
}

var tagBreaks = strings.NewReplacer("<h2>", "== ", "</h2>", " ==\n", "<p>", "  ", "</p>", "\n")

// regionText turns panel markup back into plain lines.
func regionText(markup string) string {
	return html.UnescapeString(tagBreaks.Replace(markup))
}
