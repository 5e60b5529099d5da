package form

// MapPosition tracks the single coordinate the operator has confirmed on the
// map. It starts at a best-effort seeded position (device geolocation or a
// configured default) and becomes explicit on the first map click. An explicit
// position is never overridden by a seed, regardless of how late the
// geolocation result arrives.
type MapPosition struct {
	current  Coordinate
	seeded   Coordinate
	explicit bool
}

// NewMapPosition creates a position store at the given default coordinate.
func NewMapPosition(initial Coordinate) *MapPosition {
	return &MapPosition{current: initial, seeded: initial}
}

// Seed sets the position if no explicit selection has occurred yet. A seed
// after the first Select has no effect.
func (p *MapPosition) Seed(c Coordinate) {
	if p.explicit {
		return
	}
	p.seeded = c
	p.current = c
}

// Select sets the position from an explicit operator action and permanently
// disables further Seed effects for this session.
func (p *MapPosition) Select(c Coordinate) {
	p.current = c
	p.explicit = true
}

// Current returns the most recent position.
func (p *MapPosition) Current() Coordinate {
	return p.current
}

// Explicit reports whether the operator has confirmed a position directly.
func (p *MapPosition) Explicit() bool {
	return p.explicit
}

// Reset drops any explicit selection and returns to the last seeded position.
func (p *MapPosition) Reset() {
	p.current = p.seeded
	p.explicit = false
}
