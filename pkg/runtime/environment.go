package runtime

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
)

var (
	// ErrNotTemporary is returned by Release for scoped or member cells.
	ErrNotTemporary = errors.New("runtime: release of non-temporary cell")
	// ErrNoScope is returned by ExitScope when no frame is active.
	ErrNoScope = errors.New("runtime: no active scope")
)

// Environment is the scope manager: a stack of frames mapping names to cells,
// an index of the active binding per name, and an archive of cells whose
// scope has exited. Archived cells stay alive for the rest of the run so that
// outstanding references never dangle.
type Environment struct {
	frames  [][]*Cell
	active  map[string]*Cell
	archive []*Cell
	logger  *slog.Logger
}

// NewEnvironment returns an environment with no frames; callers enter the
// global scope explicitly.
func NewEnvironment(logger *slog.Logger) *Environment {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Environment{
		active: make(map[string]*Cell),
		logger: logger,
	}
}

// Depth is the index of the innermost frame, -1 when none is active.
func (e *Environment) Depth() int {
	return len(e.frames) - 1
}

func (e *Environment) EnterScope() {
	e.frames = append(e.frames, nil)
	e.logger.Debug("enter scope", "depth", e.Depth())
}

// ExitScope pops the innermost frame, reinstates any binding each departing
// cell was shadowing, and archives the departing cells.
func (e *Environment) ExitScope() error {
	if len(e.frames) == 0 {
		return ErrNoScope
	}
	depth := e.Depth()
	frame := e.frames[depth]
	e.frames = e.frames[:depth]

	// Newest first, so a name declared twice in this frame unwinds to the
	// binding that preceded both.
	for i := len(frame) - 1; i >= 0; i-- {
		cell := frame[i]
		if cell.shadow != nil {
			e.active[cell.name] = cell.shadow
		} else {
			delete(e.active, cell.name)
		}
	}
	e.archive = append(e.archive, frame...)
	e.logger.Debug("exit scope", "depth", depth, "archived", len(frame))
	return nil
}

// Declare binds a new cell for name in the innermost frame. An existing
// binding of the same name, in this frame or an outer one, is shadowed.
func (e *Environment) Declare(name string, kind Kind) (*Cell, error) {
	if len(e.frames) == 0 {
		return nil, fmt.Errorf("declare %q: %w", name, ErrNoScope)
	}
	depth := e.Depth()
	cell := &Cell{name: name, value: ZeroValue(kind), depth: depth}
	if prev, ok := e.active[name]; ok {
		cell.shadow = prev
	}
	e.active[name] = cell
	e.frames[depth] = append(e.frames[depth], cell)
	return cell, nil
}

// Lookup resolves name to its innermost active binding.
func (e *Environment) Lookup(name string) (*Cell, bool) {
	cell, ok := e.active[name]
	return cell, ok
}

// InCurrentScope reports whether name is bound in the innermost frame.
func (e *Environment) InCurrentScope(name string) bool {
	cell, ok := e.active[name]
	return ok && cell.depth == e.Depth()
}

// NewTemporary returns an unscoped cell owned by the caller.
func (e *Environment) NewTemporary(kind Kind) *Cell {
	return &Cell{value: ZeroValue(kind), depth: -1, temp: true}
}

// Temporary wraps v in a new temporary cell.
func (e *Environment) Temporary(v Value) *Cell {
	cell := e.NewTemporary(KindVoid)
	cell.Set(v)
	return cell
}

// Release destroys a temporary. Releasing a scoped or member cell is a
// contract violation.
func (e *Environment) Release(cell *Cell) error {
	if cell == nil {
		return nil
	}
	if !cell.temp {
		return fmt.Errorf("%w %q", ErrNotTemporary, cell.name)
	}
	cell.release()
	return nil
}

// ReleaseIfTemporary releases cell when it is a temporary and ignores it
// otherwise. Most evaluation paths use this for results they are done with.
func (e *Environment) ReleaseIfTemporary(cell *Cell) {
	if cell != nil && cell.temp {
		cell.release()
	}
}

// Unlink releases a cell that was removed from an Object or Array.
func (e *Environment) Unlink(cell *Cell) {
	if cell != nil {
		cell.release()
	}
}

// Adopt hands a member cell to the caller as a temporary, for values removed
// from a container and returned (Pop).
func (e *Environment) Adopt(cell *Cell) *Cell {
	if cell != nil {
		cell.temp = true
		cell.depth = -1
	}
	return cell
}

// Archived returns the cells whose scope has exited.
func (e *Environment) Archived() []*Cell {
	return e.archive
}

// Keys returns the active names in sorted order.
func (e *Environment) Keys() []string {
	keys := make([]string, 0, len(e.active))
	for k := range e.active {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
