package web

// Element ids of the two board regions. The host page must contain both.
const (
	RegionPlayers = "players"
	RegionLogs    = "logs"
)

const (
	PlayersHeading = "玩家狀態"
	LogsHeading    = "遊戲紀錄"
)

type BoardAssets struct {
	WasmExecJS string
	BoardWasm  string
}

// RegionHTML pairs a region id with freshly rendered inner markup.
type RegionHTML struct {
	ID   string
	HTML string
}
