package models

// ToggleResult reports which side of an edge toggle was taken: the edge
// was created because it was absent, or removed because it was present.
type ToggleResult string

const (
	// ToggleCreated indicates the edge did not exist and was created.
	ToggleCreated ToggleResult = "created"
	// ToggleRemoved indicates the edge existed and was removed.
	ToggleRemoved ToggleResult = "removed"
)
