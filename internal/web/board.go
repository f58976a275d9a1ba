package web

import (
	"bytes"
	"context"
	"io"
	"strings"

	"bluff-board/internal/state"

	"github.com/a-h/templ"
)

// PlayersPanel renders the players region: a heading, then one line per player in order.
func PlayersPanel(players state.Entries[state.PlayerInfo]) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, "<h2>"+PlayersHeading+"</h2>"); err != nil {
			return err
		}
		for _, player := range players {
			line := player.Name +
				" - 分數: " + formatScore(player.Value.Score) +
				" - 角色: " + strings.Join(player.Value.Roles, ", ")
			if _, err := io.WriteString(w, "<p>"+templ.EscapeString(line)+"</p>"); err != nil {
				return err
			}
		}
		return nil
	})
}

// LogsPanel renders the logs region: a heading, then one paragraph per entry.
func LogsPanel(logs []string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, "<h2>"+LogsHeading+"</h2>"); err != nil {
			return err
		}
		for _, line := range logs {
			if _, err := io.WriteString(w, "<p>"+templ.EscapeString(line)+"</p>"); err != nil {
				return err
			}
		}
		return nil
	})
}

// RenderRegions renders both regions for st. Nothing is returned unless both succeed.
func RenderRegions(ctx context.Context, st state.GameState) ([]RegionHTML, error) {
	var players, logs bytes.Buffer
	if err := PlayersPanel(st.Players).Render(ctx, &players); err != nil {
		return nil, err
	}
	if err := LogsPanel(st.Logs).Render(ctx, &logs); err != nil {
		return nil, err
	}
	return []RegionHTML{
		{ID: RegionPlayers, HTML: players.String()},
		{ID: RegionLogs, HTML: logs.String()},
	}, nil
}

// Board is the host page. The wasm dashboard fills #players and #logs once loaded.
func Board(assets BoardAssets) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<!doctype html>
<html lang="zh-Hant">
  <head>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1"/>
    <title>Bluff Board</title>
  </head>
  <body>
    <main>
      <div id="`+RegionPlayers+`"><h2>`+PlayersHeading+`</h2></div>
      <div id="`+RegionLogs+`"><h2>`+LogsHeading+`</h2></div>
    </main>
    <script src="`+templ.EscapeString(assets.WasmExecJS)+`"></script>
    <script>
      const go = new Go();
      WebAssembly.instantiateStreaming(fetch("`+templ.EscapeString(assets.BoardWasm)+`"), go.importObject)
        .then((result) => go.run(result.instance));
    </script>
  </body>
</html>
`)
		return err
	})
}
