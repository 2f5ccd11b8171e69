package world

import "sort"

// AllianceManager groups players into alliances. A player belongs to at
// most one alliance; a player in none is allied only with itself.
type AllianceManager struct {
	alliances    map[int][]uint8 // allianceID -> members, sorted
	playerAlly   map[uint8]int   // player -> allianceID
	nextAlliance int
}

func NewAllianceManager() *AllianceManager {
	return &AllianceManager{
		alliances:  make(map[int][]uint8),
		playerAlly: make(map[uint8]int),
	}
}

// Form creates an alliance from the given players, pulling each out of any
// alliance it belonged to. Returns the new alliance id.
func (m *AllianceManager) Form(players ...uint8) int {
	m.nextAlliance++
	id := m.nextAlliance
	members := make([]uint8, 0, len(players))
	for _, p := range players {
		if m.playerAlly[p] == id {
			continue
		}
		m.Leave(p)
		m.playerAlly[p] = id
		members = append(members, p)
	}
	sort.Slice(members, func(i, j int) bool { return members[i] < members[j] })
	m.alliances[id] = members
	return id
}

// Leave removes a player from its alliance. Alliances left with fewer than
// two members are dissolved.
func (m *AllianceManager) Leave(player uint8) {
	id, ok := m.playerAlly[player]
	if !ok {
		return
	}
	delete(m.playerAlly, player)
	members := m.alliances[id]
	for i, p := range members {
		if p == player {
			members = append(members[:i], members[i+1:]...)
			break
		}
	}
	if len(members) < 2 {
		for _, p := range members {
			delete(m.playerAlly, p)
		}
		delete(m.alliances, id)
		return
	}
	m.alliances[id] = members
}

// Allied reports whether two players share an alliance or are the same player.
func (m *AllianceManager) Allied(a, b uint8) bool {
	if a == b {
		return true
	}
	ia, ok := m.playerAlly[a]
	return ok && ia == m.playerAlly[b]
}

// Groups returns every alliance as a sorted member list, ordered by id.
func (m *AllianceManager) Groups() [][]uint8 {
	ids := make([]int, 0, len(m.alliances))
	for id := range m.alliances {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([][]uint8, 0, len(ids))
	for _, id := range ids {
		out = append(out, append([]uint8(nil), m.alliances[id]...))
	}
	return out
}
