package page

import "encoding/json"

// Page is the canonical paged-result shape: {"results": [...], "count": N}.
// Decoding also accepts a bare JSON array, so callers that consume foreign
// list payloads normalize both shapes at the boundary and never propagate
// the union further.
type Page[T any] struct {
	Results []T `json:"results"`
	Count   int `json:"count"`
}

func New[T any](results []T, count int) Page[T] {
	if results == nil {
		results = make([]T, 0)
	}
	return Page[T]{Results: results, Count: count}
}

func (p *Page[T]) UnmarshalJSON(data []byte) error {
	type envelope struct {
		Results []T `json:"results"`
		Count   int `json:"count"`
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err == nil && env.Results != nil {
		p.Results = env.Results
		p.Count = env.Count
		return nil
	}

	var raw []T
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.Results = raw
	p.Count = len(raw)
	return nil
}

// Offset converts 1-based page numbers to a limit/offset pair. Page and
// size fall back to sane defaults when out of range.
func Offset(pageNum, pageSize int) (limit, offset int) {
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	if pageNum < 1 {
		pageNum = 1
	}
	return pageSize, (pageNum - 1) * pageSize
}
