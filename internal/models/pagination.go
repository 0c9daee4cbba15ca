package models

// MetaData carries list metadata returned alongside items.
type MetaData struct {
	TotalCount int64 `json:"totalCount"`
}

// PaginatedResult is the uniform response body of every list endpoint.
type PaginatedResult[T any] struct {
	Items    []T      `json:"items"`
	MetaData MetaData `json:"metaData"`
}

// NewPaginatedResult wraps items with their total count. Items is never nil
// so the JSON body always carries an array.
func NewPaginatedResult[T any](items []T, total int64) PaginatedResult[T] {
	if items == nil {
		items = []T{}
	}
	return PaginatedResult[T]{Items: items, MetaData: MetaData{TotalCount: total}}
}
