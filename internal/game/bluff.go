package game

import (
	"fmt"
	"sort"
	"time"
)

func (g *Game) timeoutMS() int {
	return int(g.opts.ChallengeTimeout / time.Millisecond)
}

func (g *Game) openPrompt(attacker *Player, role Role, target string, extra Extra) {
	pr := &prompt{
		id:       g.opts.NewID(),
		attacker: attacker.Name,
		role:     role,
		target:   target,
		hadCard:  attacker.IsAdmin || hasRole(attacker, role),
		extra:    extra,
	}
	pr.timer = time.AfterFunc(g.opts.ChallengeTimeout, func() {
		_ = g.run(func() error {
			if g.prompts[pr.id] == pr {
				g.notCalled(pr.id, true)
			}
			return nil
		})
	})
	g.prompts[pr.id] = pr
	g.pendingPromptID = pr.id
	g.sendTo(target, EventBluffChallenge, BluffChallenge{
		PromptID:  pr.id,
		Player:    pr.attacker,
		Role:      role,
		Target:    target,
		TimeoutMS: g.timeoutMS(),
	})
}

func (g *Game) promptIDs() []string {
	ids := make([]string, 0, len(g.prompts))
	for id := range g.prompts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// notCalled lets the declared card take effect, whether or not the attacker holds it.
func (g *Game) notCalled(id string, silent bool) {
	pr := g.prompts[id]
	if pr == nil {
		return
	}
	how := "未"
	if silent {
		how = "逾時未"
	}
	g.broadcast(EventBluffResult, BluffResult{
		Success: true,
		Message: fmt.Sprintf("%s %s揭穿，%s 的行動生效", pr.target, how, pr.attacker),
	})
	g.resolveEffect(pr.attacker, pr.role, pr.target, pr.hadCard, pr.extra)
	g.finishPrompt(id, pr.attacker)
}

func (g *Game) finishPrompt(id string, advanceFrom string) {
	if pr := g.prompts[id]; pr != nil {
		pr.timer.Stop()
		delete(g.prompts, id)
	}
	if g.pendingPromptID == id {
		g.pendingPromptID = ""
	}
	if advanceFrom != "" {
		g.advanceTurn(advanceFrom)
		g.newMarker()
	}
	g.emitState()
}

// CallBluff challenges a declaration. Only the target may call; anything else is ignored.
func (g *Game) CallBluff(player, promptID string) {
	_ = g.run(func() error {
		pr := g.prompts[promptID]
		if pr == nil || player != pr.target {
			return nil
		}
		pr.timer.Stop()
		attacker := g.find(pr.attacker)
		target := g.find(pr.target)
		display := pr.role.DisplayName()
		if !pr.hadCard {
			if attacker != nil {
				attacker.Score -= 5
			}
			msg := fmt.Sprintf("%s 揭穿成功！%s 並未持有 %s，%s -5 分，效果取消", pr.target, pr.attacker, display, pr.attacker)
			g.log(msg)
			g.broadcast(EventBluffResult, BluffResult{Success: true, Message: msg})
			g.finishPrompt(promptID, pr.attacker)
			return nil
		}
		if target != nil {
			target.Score -= 3
		}
		msg := fmt.Sprintf("%s 揭穿失敗！%s 確實持有 %s，%s -3 分，效果生效", pr.target, pr.attacker, display, pr.target)
		g.log(msg)
		g.broadcast(EventBluffResult, BluffResult{Success: false, Message: msg})
		g.resolveEffect(pr.attacker, pr.role, pr.target, true, pr.extra)
		g.finishPrompt(promptID, pr.attacker)
		return nil
	})
}

// DeclineBluff lets the declaration stand. Only the target may decline.
func (g *Game) DeclineBluff(player, promptID string) {
	_ = g.run(func() error {
		pr := g.prompts[promptID]
		if pr == nil || player != pr.target {
			return nil
		}
		pr.timer.Stop()
		g.notCalled(promptID, false)
		return nil
	})
}

// forceChoice makes the target discard a card or lose a point; silence costs the point.
func (g *Game) forceChoice(target string) {
	if existing := g.forced[target]; existing != nil {
		existing.timer.Stop()
	}
	fc := &forcedChoice{id: "force_" + g.opts.NewID()}
	fc.timer = time.AfterFunc(g.opts.ChallengeTimeout, func() {
		_ = g.run(func() error {
			if g.forced[target] != fc {
				return nil
			}
			delete(g.forced, target)
			if p := g.find(target); p != nil {
				p.Score--
				g.log(fmt.Sprintf("%s 未在時限內選擇（偵探），自動 -1 分", target))
				g.emitState()
			}
			return nil
		})
	})
	g.forced[target] = fc
	g.sendTo(target, EventForceChoice, ForceChoice{PromptID: fc.id, TimeoutMS: g.timeoutMS()})
}

// AnswerForcedChoice settles a pending detective demand. Answers without one are ignored.
func (g *Game) AnswerForcedChoice(player, choice string, discardRole Role) {
	_ = g.run(func() error {
		p := g.find(player)
		fc := g.forced[player]
		if p == nil || fc == nil {
			return nil
		}
		fc.timer.Stop()
		delete(g.forced, player)
		switch {
		case choice == ChoiceDiscardOne && len(p.Roles) > 0:
			role := p.Roles[0]
			if hasRole(p, discardRole) {
				role = discardRole
			}
			removeOneRole(p, role)
			g.discard(role)
			g.log(fmt.Sprintf("%s 在偵探強制下丟掉了 1 張牌", player))
		case choice == ChoiceDiscardOne:
			p.Score--
			g.log(fmt.Sprintf("%s 沒有手牌可丟，改為 -1 分", player))
		default:
			p.Score--
			g.log(fmt.Sprintf("%s 選擇 -1 分", player))
		}
		g.emitState()
		return nil
	})
}

// PendingChoice reports the id of the player's open detective demand, if any.
func (g *Game) PendingChoice(player string) (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	fc := g.forced[player]
	if fc == nil {
		return "", false
	}
	return fc.id, true
}

// PendingPrompt reports the open bluff window's id, if any.
func (g *Game) PendingPrompt() (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pendingPromptID, g.pendingPromptID != ""
}
