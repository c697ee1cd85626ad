package runtime

// Cell is a single mutable storage location holding one dynamically-typed
// value. Variables, temporaries, and object/array entries are all cells.
type Cell struct {
	name     string
	value    Value
	depth    int
	temp     bool
	shadow   *Cell
	released bool
}

// NewCell returns an unscoped, non-temporary cell. Composite entries use it.
func NewCell(v Value) *Cell {
	if v == nil {
		v = VoidValue{}
	}
	return &Cell{value: v, depth: -1}
}

func (c *Cell) Name() string { return c.name }

// Depth is the scope depth the cell was declared at, -1 when unscoped.
func (c *Cell) Depth() int { return c.depth }

func (c *Cell) Temporary() bool { return c.temp }

// Shadowed returns the cell this one hides, if any.
func (c *Cell) Shadowed() *Cell { return c.shadow }

func (c *Cell) Released() bool { return c.released }

// Value returns the raw payload without following references.
func (c *Cell) Value() Value { return c.value }

func (c *Cell) Kind() Kind { return c.value.Kind() }

// Set replaces the payload; the tag follows the new value.
func (c *Cell) Set(v Value) {
	if v == nil {
		v = VoidValue{}
	}
	c.value = v
}

// SetReference turns c into an alias of target. Reads through c resolve to
// target until c is reassigned.
func (c *Cell) SetReference(target *Cell) {
	c.value = ReferenceValue{Target: target}
}

// Deref follows reference links until it reaches a non-reference cell.
func (c *Cell) Deref() *Cell {
	cur := c
	for {
		ref, ok := cur.value.(ReferenceValue)
		if !ok || ref.Target == nil {
			return cur
		}
		cur = ref.Target
	}
}

// InitObject replaces the payload with a new, empty property set.
func (c *Cell) InitObject() *Properties {
	props := NewProperties()
	c.value = ObjectValue{Props: props}
	return props
}

// InitArray replaces the payload with a new, empty index map.
func (c *Cell) InitArray() *Elements {
	elems := NewElements()
	c.value = ArrayValue{Elems: elems}
	return elems
}

// Number reads a Number payload. ok is false under any other tag.
func (c *Cell) Number() (float64, bool) {
	v, ok := c.Deref().value.(NumberValue)
	return v.Val, ok
}

func (c *Cell) Bool() (bool, bool) {
	v, ok := c.Deref().value.(BoolValue)
	return v.Val, ok
}

func (c *Cell) Str() (string, bool) {
	v, ok := c.Deref().value.(StringValue)
	return v.Val, ok
}

func (c *Cell) Object() (*Properties, bool) {
	v, ok := c.Deref().value.(ObjectValue)
	return v.Props, ok
}

func (c *Cell) Array() (*Elements, bool) {
	v, ok := c.Deref().value.(ArrayValue)
	return v.Elems, ok
}

func (c *Cell) release() {
	c.value = VoidValue{}
	c.shadow = nil
	c.released = true
}

// Assign stores src into dst. Scalars are copied; an Object or Array makes
// dst a Reference to the cell that holds it, so both names share storage.
func Assign(dst, src *Cell) {
	if dst == nil || src == nil {
		return
	}
	target := src.Deref()
	if target == dst {
		return
	}
	switch v := target.value.(type) {
	case ObjectValue, ArrayValue:
		// Once referenced, a temporary is owned by its aliases.
		target.temp = false
		dst.SetReference(target)
	case NumberValue, BoolValue, StringValue, NullValue, VoidValue:
		dst.value = v
	case ReferenceValue:
		panic("runtime: Deref returned a reference cell")
	default:
		panic("runtime: unknown value kind")
	}
}
