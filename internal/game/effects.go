package game

import "fmt"

// resolveEffect applies a card. Admins never spend cards; others spend one only when they
// actually held it.
func (g *Game) resolveEffect(attackerName string, role Role, targetName string, hadCard bool, extra Extra) {
	attacker := g.find(attackerName)
	if attacker == nil {
		return
	}
	spend := func() {
		if hadCard && !attacker.IsAdmin {
			removeOneRole(attacker, role)
			g.discard(role)
		}
	}
	display := role.DisplayName()
	target := g.find(targetName)

	switch {
	case role == RoleGuardian:
		// hidden shield, nothing logged
		attacker.GuardianActive = true
		spend()
	case role == RoleBirthday:
		if target != nil {
			if len(target.Roles) > 0 {
				g.log(fmt.Sprintf("%s 使用 %s 偷看了 %s 的一張手牌：%s（已標記）", attackerName, display, targetName, target.Roles[0].DisplayName()))
			} else {
				g.log(fmt.Sprintf("%s 使用 %s 想偷看 %s，但對方沒有手牌（仍標記）", attackerName, display, targetName))
			}
			attacker.MarkTarget = targetName
			attacker.MarkUsedTurn = ""
		}
		spend()
	case role == RoleDetective:
		if target != nil {
			if len(target.Roles) > 0 {
				g.log(fmt.Sprintf("%s 使用 %s → 公開 %s 的手牌：%s", attackerName, display, targetName, target.Roles[0].DisplayName()))
			} else {
				g.log(fmt.Sprintf("%s 使用 %s 想公開 %s，但對方沒有手牌", attackerName, display, targetName))
			}
			g.forceChoice(targetName)
		}
		spend()
	case role.IsAttack() && target != nil:
		if role == RoleGifter && extra.Mode == "B" {
			g.splitGift(attacker, target, extra.SecondTarget)
		} else {
			g.attack(attacker, role, target, extra)
		}
		spend()
	}
}

func (g *Game) splitGift(attacker, first *Player, secondName string) {
	display := RoleGifter.DisplayName()
	hits := []*Player{first}
	if second := g.find(secondName); second != nil && second != first {
		hits = append(hits, second)
	}
	for i, t := range hits {
		if t.GuardianActive {
			attacker.Score--
			t.GuardianActive = false
			g.log(fmt.Sprintf("%s 使用 %s 攻擊 %s，但被 %s 擋下！%s 受到反擊 -1 分", attacker.Name, display, t.Name, RoleGuardian.DisplayName(), attacker.Name))
			continue
		}
		adj := -1
		if i == 0 {
			adj = g.markBonus(attacker, RoleGifter, t.Name, adj)
		}
		t.Score += adj
		g.log(fmt.Sprintf("%s 使用 %s（分散） → %s %d 分", attacker.Name, display, t.Name, adj))
	}
}

func (g *Game) attack(attacker *Player, role Role, target *Player, extra Extra) {
	display := role.DisplayName()
	damage, selfPenalty := 0, 0
	switch role {
	case RoleJoker:
		damage, selfPenalty = -2, -1
	case RoleGifter:
		attacker.Score++
		damage = -1
	case RoleSniper:
		damage, selfPenalty = -3, -1
		if target.Score > 80 {
			damage = -2
		}
	}

	if target.GuardianActive {
		counter := -1
		if role == RoleSniper {
			counter = -2
		}
		attacker.Score += counter
		target.GuardianActive = false
		g.log(fmt.Sprintf("%s 使用 %s 攻擊 %s，但被 %s 擋下！%s 受到反擊 %d 分", attacker.Name, display, target.Name, RoleGuardian.DisplayName(), attacker.Name, counter))
		return
	}

	damage = g.markBonus(attacker, role, target.Name, damage)
	target.Score += damage
	attacker.Score += selfPenalty
	switch {
	case role == RoleGifter && extra.Mode == "A":
		g.log(fmt.Sprintf("%s 使用 %s → 自己 +1 分，%s %d 分", attacker.Name, display, target.Name, damage))
	case role == RoleJoker || role == RoleSniper:
		g.log(fmt.Sprintf("%s 使用 %s → %s %d 分，自己 %d 分", attacker.Name, display, target.Name, damage, selfPenalty))
	default:
		g.log(fmt.Sprintf("%s 使用 %s → %s %d 分", attacker.Name, display, target.Name, damage))
	}
}

// markBonus adds one extra point of damage against the marked target, once per turn marker.
func (g *Game) markBonus(attacker *Player, role Role, target string, base int) int {
	if !role.IsAttack() || target == "" {
		return base
	}
	if attacker.MarkTarget == target && attacker.MarkUsedTurn != g.turnMarker {
		attacker.MarkUsedTurn = g.turnMarker
		return base - 1
	}
	return base
}
