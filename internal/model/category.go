package model

// Category is a flat budgeting category. ID is derived deterministically
// from the lower-cased name unless explicitly supplied, so re-importing the
// same name always yields the same id.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
