package game

import "errors"

var (
	ErrNameRequired     = errors.New("請輸入玩家名稱")
	ErrRoomFull         = errors.New("遊戲已滿，無法加入")
	ErrNameTaken        = errors.New("玩家名稱已存在")
	ErrNotEnoughPlayers = errors.New("至少需要2個玩家才能開始遊戲")
	ErrNotStarted       = errors.New("遊戲尚未開始")
	ErrUnknownPlayer    = errors.New("未知玩家")
	ErrNotYourTurn      = errors.New("還沒輪到你")
	ErrNotCurrentTurn   = errors.New("不是你的回合")
	ErrPromptPending    = errors.New("上一個行動待拆穿中，請稍候")
	ErrInvalidTarget    = errors.New("請選擇有效目標")
	ErrCardNotHeld      = errors.New("你沒有這張卡")
	ErrUnknownCard      = errors.New("未知的卡片/用法")
	ErrNotAdmin         = errors.New("你不是管理員")
)
