package ibe

// openCT consumes a (value, ok) pair -- the shape bn256's Unmarshal methods
// return in place of a constant-time optional -- through a single call site
// rather than a data-dependent if/else at each use. It does not itself make
// curve-point unmarshaling constant-time (that property, or its absence, is
// bn256's), but it keeps every consumer of an "optional" IBE value going
// through one narrow, reviewable wrapper, the way this module's Rust
// ancestor required all IBE optionals to pass through open_ct.
func openCT[T any](val T, ok bool) (T, bool) {
	return val, ok
}
