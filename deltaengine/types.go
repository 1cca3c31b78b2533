// Package deltaengine implements the content-dependent delta algorithm:
// the match finder (C3), the tier I/II/III strategy selector (C4), and the
// operation planner (C5) that turns a base buffer and a new buffer into a
// delta.Stream.
package deltaengine

// Match describes one candidate correspondence between the base buffer
// and the new buffer found while scanning: base[BaseOffset:BaseOffset+Length]
// equals new[NewOffset:NewOffset+Length].
type Match struct {
	BaseOffset uint32
	NewOffset  uint32
	Length     uint32
}
