// listener.go - world transform and master gain shared by a context's sources

package alengine

// Listener holds the world transform and master gain every source in a
// context is mixed relative to. Its lifetime is the owning Context's.
type Listener struct {
	Position    Vec3
	Velocity    Vec3
	Orientation Orientation
	Gain        float32
	MetersPerUnit float32
}

// NewListener returns a Listener at constructor defaults: origin, at rest,
// facing -Z with +Y up, unity gain, one meter per unit.
func NewListener() *Listener {
	return &Listener{
		Orientation:   Orientation{Forward: Vec3{0, 0, -1}, Up: Vec3{0, 1, 0}},
		Gain:          1,
		MetersPerUnit: 1,
	}
}
