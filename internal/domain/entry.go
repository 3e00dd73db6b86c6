package domain

// Entry is one row of the static comparison table served alongside the
// sync endpoint. Entries are read-only reference data loaded at startup;
// saving one produces an Item on the client side.
type Entry struct {
	// ID is derived from the category and name, stable across reloads.
	ID string `json:"id"`

	// Name is the display name of the tool or resource being compared.
	Name string `json:"name"`

	// Category groups related entries (for example "Editors").
	Category string `json:"category"`

	// URL points at the tool's home page, when known.
	URL string `json:"url,omitempty"`

	// Summary is a one-line description shown in the table.
	Summary string `json:"summary,omitempty"`

	// Tags support keyword search over the table.
	Tags []string `json:"tags,omitempty"`
}
