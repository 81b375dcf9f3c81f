package dto

// CursorPage is the envelope for every keyset-paginated list.
// NextCursor is empty on the last page; pass it back as ?cursor= to continue.
//
// swag does not resolve generic types, so handlers document concrete aliases
// (ProjectPageDTO, BlogPageDTO, ...) declared in pagination_docs.go.
type CursorPage[T any] struct {
	Items      []T    `json:"items"`
	NextCursor string `json:"next_cursor,omitempty"`
}

func NewCursorPage[T any](items []T, next string) CursorPage[T] {
	if items == nil {
		items = []T{}
	}
	return CursorPage[T]{Items: items, NextCursor: next}
}
