package frontend

import (
	"github.com/isorts/sim/internal/core/ecs"
)

// Message types sent to browser clients.
const (
	MsgMap      = "map"
	MsgSnapshot = "snapshot"
	MsgError    = "error"
)

// Message is one server-to-client frame. Clients send engine commands as
// plain JSON objects ({"type":"move_to","entity":5,"i":3,"j":4}).
//
// Entity ids go over the wire as JSON numbers: index in the low 32 bits,
// generation in the high 32. JavaScript clients read them as float64, which
// is exact only while the generation stays below 2^21; past that an id no
// longer round-trips through the client.
type Message struct {
	Type     string       `json:"type"`
	Tick     uint64       `json:"tick"`
	Map      *MapView     `json:"map,omitempty"`
	Entities []EntityView `json:"entities,omitempty"`
	Error    string       `json:"error,omitempty"`
}

// MapView carries terrain in linear diamond index order and the
// walkability grid row-major by j (base64 in JSON).
type MapView struct {
	Size  int      `json:"size"`
	Tiles []uint16 `json:"tiles"`
	Grid  []byte   `json:"grid"`
}

// EntityView is the presentation-facing state of one rendered entity.
type EntityView struct {
	ID        ecs.EntityID `json:"id"`
	I         float64      `json:"i"`
	J         float64      `json:"j"`
	Direction string       `json:"dir,omitempty"`
	Moving    bool         `json:"moving,omitempty"`
	Body      *uint32      `json:"body,omitempty"`
	Frame     uint32       `json:"frame,omitempty"`
	Building  *uint32      `json:"building,omitempty"`
	Player    uint8        `json:"player"`
	Health    float64      `json:"health,omitempty"`
}
