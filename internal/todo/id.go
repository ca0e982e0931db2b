package todo

import "time"

// IDGenerator hands out strictly increasing task ids.
//
// Ids are millisecond timestamps so they stay compatible with lists written
// by earlier versions, but two ids requested within the same millisecond
// (or after the clock moved backwards) still differ: each id is at least
// one more than the previous.
type IDGenerator struct {
	last int64
	now  func() time.Time
}

// NewIDGenerator returns a generator whose ids all exceed floor.
// Pass the list's MaxID after hydrating.
func NewIDGenerator(floor int64) *IDGenerator {
	return &IDGenerator{last: floor, now: time.Now}
}

// Next returns the next id.
func (g *IDGenerator) Next() int64 {
	id := g.now().UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}
	g.last = id
	return id
}

// Observe raises the floor so later ids exceed id.
func (g *IDGenerator) Observe(id int64) {
	if id > g.last {
		g.last = id
	}
}
