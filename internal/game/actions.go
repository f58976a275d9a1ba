package game

import (
	"fmt"
	"strings"
)

// Join seats a new player and returns the trimmed name.
func (g *Game) Join(name string) (string, error) {
	name = strings.TrimSpace(name)
	err := g.run(func() error {
		if name == "" {
			return ErrNameRequired
		}
		if len(g.players) >= g.opts.MaxPlayers {
			return ErrRoomFull
		}
		if g.find(name) != nil {
			return ErrNameTaken
		}
		g.players = append(g.players, &Player{
			Name:    name,
			Score:   g.opts.StartingScore,
			Roles:   []Role{},
			IsAdmin: strings.ToLower(name) == "admin",
		})
		g.broadcast(EventPlayerJoined, PlayerJoined{Player: name, TotalPlayers: len(g.players)})
		g.emitState()
		return nil
	})
	return name, err
}

// Leave removes a player. A bluff window aimed at them closes as if they stayed silent;
// one they opened is cancelled and the turn moves on.
func (g *Game) Leave(name string) {
	_ = g.run(func() error {
		if g.find(name) == nil {
			return nil
		}
		for _, id := range g.promptIDs() {
			pr := g.prompts[id]
			if pr == nil {
				continue
			}
			switch name {
			case pr.target:
				g.notCalled(id, true)
			case pr.attacker:
				g.broadcast(EventBluffResult, BluffResult{
					Success: false,
					Message: fmt.Sprintf("%s 斷線，該次行動取消", name),
				})
				g.finishPrompt(id, name)
			}
		}
		if fc := g.forced[name]; fc != nil {
			fc.timer.Stop()
			delete(g.forced, name)
		}
		for i, p := range g.players {
			if p.Name == name {
				g.players = append(g.players[:i], g.players[i+1:]...)
				break
			}
		}
		g.broadcast(EventPlayerLeft, PlayerLeft{Player: name})
		if g.currentTurn == name {
			g.advanceTurn(name)
			g.newMarker()
		}
		g.emitState()
		return nil
	})
}

func (g *Game) Start() error {
	return g.run(func() error {
		if len(g.players) < 2 {
			return ErrNotEnoughPlayers
		}
		g.deal(false)
		g.broadcast(EventGameStarted, GameStarted{
			Message: fmt.Sprintf("遊戲開始！每個玩家獲得%d張牌（%d張操作型）", g.opts.CardsPerPlayer, len(NewDeck())),
		})
		g.emitState()
		return nil
	})
}

// AdminReset redeals, restores scores and clears the log. Only admins may call it.
func (g *Game) AdminReset(name string) error {
	return g.run(func() error {
		p := g.find(name)
		if p == nil || !p.IsAdmin {
			return ErrNotAdmin
		}
		g.deal(true)
		g.broadcast(EventGameStarted, GameStarted{Message: "管理員已重啟遊戲"})
		g.emitState()
		return nil
	})
}

// deal shuffles a fresh deck and seating, hands out cards and opens a new match.
func (g *Game) deal(reset bool) {
	g.stopTimersLocked()
	deck := NewDeck()
	g.rng.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
	seating := g.names()
	g.rng.Shuffle(len(seating), func(i, j int) { seating[i], seating[j] = seating[j], seating[i] })

	per := g.opts.CardsPerPlayer
	for i, name := range seating {
		p := g.find(name)
		start := min(i*per, len(deck))
		end := min(start+per, len(deck))
		p.Roles = append([]Role{}, deck[start:end]...)
		p.GuardianActive = false
		p.MarkTarget = ""
		p.MarkUsedTurn = ""
		if reset {
			p.Score = g.opts.StartingScore
		}
	}
	g.drawPile = append([]Role{}, deck[min(len(seating)*per, len(deck)):]...)
	g.discardPile = []Role{}
	g.currentTurn = ""
	if len(seating) > 0 {
		g.currentTurn = seating[0]
	}
	g.started = true
	g.newMarker()
	if reset {
		g.logs = nil
	}
	g.matchID = g.opts.NewID()
	if g.opts.Recorder != nil {
		matchID, players := g.matchID, g.names()
		g.after(func() { g.opts.Recorder.MatchStarted(matchID, players) })
	}
}

// PlayCard declares a card. Targeted cards open a bluff window for the target; the guardian
// takes effect at once and ends the turn.
func (g *Game) PlayCard(player string, role Role, target string, extra Extra) error {
	return g.run(func() error {
		if !g.started {
			return ErrNotStarted
		}
		p := g.find(player)
		if p == nil {
			return ErrUnknownPlayer
		}
		if g.currentTurn != player {
			return ErrNotYourTurn
		}
		if g.pendingPromptID != "" {
			return ErrPromptPending
		}
		if g.turnMarker == "" {
			g.newMarker()
		}
		if role.NeedsTarget() {
			if g.find(target) == nil {
				return ErrInvalidTarget
			}
			var pendingExtra Extra
			if role == RoleGifter {
				pendingExtra = extra
			}
			g.openPrompt(p, role, target, pendingExtra)
			g.log(fmt.Sprintf("%s 宣告對 %s 使用 %s（等待是否揭穿）", player, target, role.DisplayName()))
			g.emitState()
			return nil
		}
		if role == RoleGuardian {
			if !p.IsAdmin && !hasRole(p, role) {
				return ErrCardNotHeld
			}
			g.resolveEffect(player, role, "", true, Extra{})
			g.advanceTurn(player)
			g.newMarker()
			g.emitState()
			return nil
		}
		return ErrUnknownCard
	})
}

// EndTurn optionally discards one card and draws a replacement, then passes the turn.
func (g *Game) EndTurn(player string, discardRole Role) error {
	return g.run(func() error {
		if player == "" || g.currentTurn != player {
			return ErrNotCurrentTurn
		}
		p := g.find(player)
		if p == nil {
			return ErrUnknownPlayer
		}
		if g.pendingPromptID != "" {
			return ErrPromptPending
		}
		if discardRole != "" && hasRole(p, discardRole) {
			removeOneRole(p, discardRole)
			g.discard(discardRole)
			if drawn, ok := g.drawOne(); ok {
				p.Roles = append(p.Roles, drawn)
				g.log(fmt.Sprintf("%s 棄1抽1：丟掉一張並抽到一張新牌", player))
			} else {
				g.log(fmt.Sprintf("%s 棄1未抽到牌（牌庫不足）", player))
			}
		} else {
			g.log(fmt.Sprintf("%s 結束回合（未棄牌）", player))
		}
		g.advanceTurn(player)
		g.newMarker()
		g.emitState()
		return nil
	})
}
