package runtime

import (
	"github.com/emirpasic/gods/maps/linkedhashmap"
	"github.com/emirpasic/gods/maps/treemap"
)

// Properties is an Object's property set: string keys mapped to cells,
// iterated in first-insertion order. Overwriting a key keeps its position.
type Properties struct {
	m *linkedhashmap.Map
}

func NewProperties() *Properties {
	return &Properties{m: linkedhashmap.New()}
}

func (p *Properties) Get(key string) (*Cell, bool) {
	v, ok := p.m.Get(key)
	if !ok {
		return nil, false
	}
	return v.(*Cell), true
}

func (p *Properties) Set(key string, cell *Cell) {
	p.m.Put(key, cell)
}

// Delete unlinks key and returns the cell it held, if any.
func (p *Properties) Delete(key string) (*Cell, bool) {
	cell, ok := p.Get(key)
	if ok {
		p.m.Remove(key)
	}
	return cell, ok
}

// Keys returns a snapshot of the keys in iteration order.
func (p *Properties) Keys() []string {
	raw := p.m.Keys()
	keys := make([]string, len(raw))
	for i, k := range raw {
		keys[i] = k.(string)
	}
	return keys
}

func (p *Properties) Len() int { return p.m.Size() }

// Elements is an Array's index map: non-negative integer indices mapped to
// cells, iterated in ascending index order. Indices may be sparse.
type Elements struct {
	m *treemap.Map
}

func NewElements() *Elements {
	return &Elements{m: treemap.NewWithIntComparator()}
}

func (e *Elements) Get(index int) (*Cell, bool) {
	v, ok := e.m.Get(index)
	if !ok {
		return nil, false
	}
	return v.(*Cell), true
}

func (e *Elements) Set(index int, cell *Cell) {
	e.m.Put(index, cell)
}

func (e *Elements) Delete(index int) (*Cell, bool) {
	cell, ok := e.Get(index)
	if ok {
		e.m.Remove(index)
	}
	return cell, ok
}

// Max returns the largest bound index.
func (e *Elements) Max() (int, bool) {
	k, _ := e.m.Max()
	if k == nil {
		return 0, false
	}
	return k.(int), true
}

// Next is the index Push appends at: one past the current maximum.
func (e *Elements) Next() int {
	if max, ok := e.Max(); ok {
		return max + 1
	}
	return 0
}

// Indices returns a snapshot of the bound indices in ascending order.
func (e *Elements) Indices() []int {
	raw := e.m.Keys()
	out := make([]int, len(raw))
	for i, k := range raw {
		out[i] = k.(int)
	}
	return out
}

// Cells returns the bound cells in ascending index order.
func (e *Elements) Cells() []*Cell {
	raw := e.m.Values()
	out := make([]*Cell, len(raw))
	for i, v := range raw {
		out[i] = v.(*Cell)
	}
	return out
}

func (e *Elements) Len() int { return e.m.Size() }
