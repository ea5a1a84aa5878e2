package application

// Paginate returns the 1-based page of items with the given size and the
// total page count. A page past the end yields an empty, non-nil slice.
func Paginate[T any](items []T, page, limit int) ([]T, int) {
	if limit <= 0 {
		return []T{}, 0
	}
	if page < 1 {
		page = 1
	}

	totalPages := len(items) / limit
	if len(items)%limit != 0 {
		totalPages++
	}
	// Compare pages before multiplying so huge page numbers cannot overflow.
	if page > totalPages {
		return []T{}, totalPages
	}

	start := (page - 1) * limit
	end := min(start+limit, len(items))

	out := make([]T, end-start)
	copy(out, items[start:end])
	return out, totalPages
}
