// Package pagination validates page parameters and computes page windows for
// listing endpoints.
package pagination

import (
	"fmt"
	"strconv"

	apperrors "github.com/capibaras/clientele/pkg/errors"
)

const (
	DefaultPageSize   = 5
	DefaultPageNumber = 1
)

// AllowedPageSizes is the closed set of accepted page sizes. Arbitrary sizes
// are rejected rather than clamped.
var AllowedPageSizes = []int{5, 10, 20}

// ParsePageSize parses the page_size query value. An empty value selects the
// default; anything outside the allowed set is a 400.
func ParsePageSize(raw string) (int, error) {
	if raw == "" {
		return DefaultPageSize, nil
	}

	size, err := strconv.Atoi(raw)
	if err != nil {
		return 0, invalidPageSize()
	}
	for _, allowed := range AllowedPageSizes {
		if size == allowed {
			return size, nil
		}
	}
	return 0, invalidPageSize()
}

// ParsePageNumber parses the 1-based page_number query value. An empty value
// selects the first page.
func ParsePageNumber(raw string) (int, error) {
	if raw == "" {
		return DefaultPageNumber, nil
	}

	number, err := strconv.Atoi(raw)
	if err != nil || number < 1 {
		return 0, apperrors.NewBadRequest(
			"Invalid page_number. Page number must be 1 or greater.")
	}
	return number, nil
}

func invalidPageSize() error {
	return apperrors.NewBadRequest(
		fmt.Sprintf("Invalid page_size. Allowed values are %v.", AllowedPageSizes))
}

// TotalPages returns how many pages of pageSize it takes to cover total
// items. Zero items still report zero pages.
func TotalPages(total int64, pageSize int) int {
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}
