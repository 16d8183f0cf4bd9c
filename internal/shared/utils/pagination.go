package utils

// TotalPages is ceil(totalCount / pageSize) with the two degenerate cases
// pinned down: zero results means zero pages, and a non-positive page size
// yields zero instead of dividing by it.
func TotalPages(totalCount int64, pageSize int) int {
	if totalCount == 0 || pageSize < 1 {
		return 0
	}
	return int((totalCount-1)/int64(pageSize)) + 1
}
