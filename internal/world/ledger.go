package world

import "github.com/isorts/sim/internal/data"

// PlayerData is the per-player record kept by the world.
type PlayerData struct {
	ID    uint8
	Goods data.Goods
}

// Ledger holds player data by id. No economy runs over it; commands and
// scripts read and adjust it.
type Ledger struct {
	players map[uint8]*PlayerData
}

func NewLedger() *Ledger {
	return &Ledger{players: make(map[uint8]*PlayerData)}
}

// Ensure returns the player record, creating an empty one if needed.
func (l *Ledger) Ensure(id uint8) *PlayerData {
	p, ok := l.players[id]
	if !ok {
		p = &PlayerData{ID: id}
		l.players[id] = p
	}
	return p
}

// Get returns the player record, or nil.
func (l *Ledger) Get(id uint8) *PlayerData { return l.players[id] }

func (l *Ledger) Count() int { return len(l.players) }

// Spend deducts cost from the player's goods. Returns false, leaving goods
// untouched, when any single good would go negative.
func (l *Ledger) Spend(id uint8, cost data.Goods) bool {
	p := l.Ensure(id)
	g := p.Goods
	if g.Wood < cost.Wood || g.Stone < cost.Stone || g.Iron < cost.Iron || g.Gold < cost.Gold {
		return false
	}
	p.Goods = data.Goods{
		Wood:  g.Wood - cost.Wood,
		Stone: g.Stone - cost.Stone,
		Iron:  g.Iron - cost.Iron,
		Gold:  g.Gold - cost.Gold,
	}
	return true
}

// Grant adds goods to the player.
func (l *Ledger) Grant(id uint8, g data.Goods) {
	p := l.Ensure(id)
	p.Goods.Wood += g.Wood
	p.Goods.Stone += g.Stone
	p.Goods.Iron += g.Iron
	p.Goods.Gold += g.Gold
}
