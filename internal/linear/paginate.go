package linear

import "context"

const (
	// maxPageSize is the hard ceiling a bounded fetch is capped to.
	maxPageSize = 250
	// unboundedPageSize is the fixed page size used when walking every page.
	unboundedPageSize = 100
)

// pageFetch fetches one page: up to first items after the given cursor
// (empty cursor means the first page).
type pageFetch[T any] func(ctx context.Context, first int, after string) ([]T, PageInfo, error)

// collectPages drives cursor pagination. With all=false it performs exactly
// one fetch bounded by limit (capped at maxPageSize). With all=true it walks
// fixed-size pages until the service reports no next page, or until a cursor
// is missing despite hasNextPage, since an ambiguous cursor must never loop.
// Result order is the concatenation of page order; nothing is re-sorted or
// de-duplicated.
func collectPages[T any](ctx context.Context, limit int, all bool, fetch pageFetch[T]) ([]T, error) {
	if !all {
		if limit <= 0 || limit > maxPageSize {
			limit = maxPageSize
		}
		nodes, _, err := fetch(ctx, limit, "")
		return nodes, err
	}

	var out []T
	cursor := ""
	for {
		nodes, page, err := fetch(ctx, unboundedPageSize, cursor)
		if err != nil {
			return nil, err
		}
		out = append(out, nodes...)
		if !page.HasNextPage || page.EndCursor == "" {
			return out, nil
		}
		cursor = page.EndCursor
	}
}
