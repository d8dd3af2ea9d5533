// Package msg defines the tea.Msg types shared across the list UI packages.
// It has no upstream imports to avoid import cycles.
package msg

// -- Status --

// MemSample is a process memory reading.
type MemSample struct {
	RSS   uint64 // resident set size of this process
	Total uint64 // total machine memory
	Err   error
}

// -- Items --

// ItemToggled asks the app to swap an item for its expanded or collapsed
// form. The item's height changes, so the list must re-measure it.
type ItemToggled struct {
	ID string
}

