package game

type Role string

const (
	RoleBirthday  Role = "壽星"
	RoleJoker     Role = "小丑"
	RoleGifter    Role = "贈禮者"
	RoleDetective Role = "偵探"
	RoleGuardian  Role = "守護者"
	RoleSniper    Role = "狙擊手"
)

// AllRoles is the admin hand, one of each.
var AllRoles = []Role{RoleBirthday, RoleJoker, RoleGifter, RoleDetective, RoleGuardian, RoleSniper}

var roleDisplayNames = map[Role]string{
	RoleBirthday:  "斬魂米娜",
	RoleJoker:     "海賊王",
	RoleGifter:    "假純愛戰士",
	RoleDetective: "小菊獸",
	RoleGuardian:  "烈焰雯の魂",
	RoleSniper:    "祖濕爺",
}

var deckCounts = []struct {
	role  Role
	count int
}{
	{RoleJoker, 8},
	{RoleGifter, 8},
	{RoleSniper, 5},
	{RoleGuardian, 4},
	{RoleBirthday, 3},
	{RoleDetective, 2},
}

func (r Role) DisplayName() string {
	if name, ok := roleDisplayNames[r]; ok {
		return name
	}
	return string(r)
}

func (r Role) IsAttack() bool {
	return r == RoleJoker || r == RoleGifter || r == RoleSniper
}

// NeedsTarget reports whether playing the role names another player and opens a bluff window.
func (r Role) NeedsTarget() bool {
	switch r {
	case RoleBirthday, RoleJoker, RoleGifter, RoleDetective, RoleSniper:
		return true
	default:
		return false
	}
}

// NewDeck returns the unshuffled 30-card deck.
func NewDeck() []Role {
	deck := make([]Role, 0, 30)
	for _, entry := range deckCounts {
		for range entry.count {
			deck = append(deck, entry.role)
		}
	}
	return deck
}
