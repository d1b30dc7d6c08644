package handler

import "gorm.io/gorm"

// PaginationMeta describes where a page sits in the full listing.
type PaginationMeta struct {
	TotalItems  int64 `json:"total_items"`
	TotalPages  int   `json:"total_pages"`
	CurrentPage int   `json:"current_page"`
	PageSize    int   `json:"page_size"`
}

func pageMeta(total int64, page, size int) PaginationMeta {
	if size < 1 {
		size = 1
	}
	pages := total / int64(size)
	if total%int64(size) != 0 {
		pages++
	}
	return PaginationMeta{TotalItems: total, TotalPages: int(pages), CurrentPage: page, PageSize: size}
}

// PaginatedResponse is the body of every list endpoint. Data is always a JSON
// array, never null.
type PaginatedResponse[T any] struct {
	Data []T            `json:"data"`
	Meta PaginationMeta `json:"meta"`
}

func NewPaginatedResponse[T any](rows []T, total int64, page, size int) PaginatedResponse[T] {
	if rows == nil {
		rows = make([]T, 0)
	}
	return PaginatedResponse[T]{Data: rows, Meta: pageMeta(total, page, size)}
}

// Paginate runs query twice, once for the total and once for the rows of page.
func Paginate[T any](query *gorm.DB, page, size int) (*PaginatedResponse[T], error) {
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Model(new(T)).Count(&total).Error; err != nil {
		return nil, err
	}
	var rows []T
	if err := query.Offset((page - 1) * size).Limit(size).Find(&rows).Error; err != nil {
		return nil, err
	}
	resp := NewPaginatedResponse(rows, total, page, size)
	return &resp, nil
}

// MapPage turns a page of models into a page of response DTOs.
func MapPage[T, R any](p *PaginatedResponse[T], fn func(T) R) PaginatedResponse[R] {
	mapped := PaginatedResponse[R]{Data: make([]R, 0, len(p.Data)), Meta: p.Meta}
	for _, row := range p.Data {
		mapped.Data = append(mapped.Data, fn(row))
	}
	return mapped
}
