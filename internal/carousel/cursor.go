package carousel

// Next returns the slide index after cursor, wrapping to 0 past the end.
// With no slides there is nothing to advance to and ok is false.
func Next(cursor, count int) (next int, ok bool) {
	if count <= 0 {
		return cursor, false
	}
	if cursor < 0 {
		cursor = 0
	}
	return (cursor + 1) % count, true
}

// Previous returns the slide index before cursor, wrapping to the last slide.
func Previous(cursor, count int) (prev int, ok bool) {
	if count <= 0 {
		return cursor, false
	}
	if cursor <= 0 || cursor >= count {
		return count - 1, true
	}
	return cursor - 1, true
}
