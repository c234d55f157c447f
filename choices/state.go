package choices

import "fmt"

// State tags where an item stands relative to the remote store.
type State int

const (
	LocalOnly State = iota
	Saving
	Persisted
	Deleting
)

var stateNames = map[State]string{
	LocalOnly: "local_only",
	Saving:    "saving",
	Persisted: "persisted",
	Deleting:  "deleting",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// InFlight reports whether a remote write is outstanding.
func (s State) InFlight() bool {
	return s == Saving || s == Deleting
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
