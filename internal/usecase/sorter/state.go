package sorter

// State is the current sort selection of a table
type State struct {
	Key       string
	Direction Direction
}

// Select returns the state after the user picks key: a new key starts ascending,
// re-selecting the current key toggles between ascending and descending.
func (s State) Select(key string) State {
	if key != s.Key {
		return State{Key: key, Direction: Ascending}
	}
	if s.Direction == Ascending {
		return State{Key: key, Direction: Descending}
	}
	return State{Key: key, Direction: Ascending}
}
