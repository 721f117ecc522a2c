package models

// Page is a 1-indexed slice of a larger result set. A page past the end
// of the set has an empty Results slice and is not an error.
type Page[T any] struct {
	Count    int64 `json:"count"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
	Results  []T   `json:"results"`
}
