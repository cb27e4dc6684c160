package model

// Session represents one recurring class instance that users can book
// seats on.  Sessions are created by an administrator with a display
// name and a seat capacity.  The numeric identifier doubles as the
// schedule position: listing the catalog ordered by id yields the
// display order, and reordering renumbers the identifiers.
//
// Fields:
//  ID       – primary key and schedule rank.
//  Name     – non-empty display label.
//  Capacity – maximum total seats across all users combined.
type Session struct {
	ID       uint64 `json:"id"`       // sessions.id
	Name     string `json:"name"`     // sessions.name
	Capacity int    `json:"capacity"` // sessions.capacity
}
