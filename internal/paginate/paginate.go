// Package paginate splits ordered collections into fixed-size pages and
// computes their locale-prefixed navigation links.
package paginate

import (
	"iter"
	"slices"
	"strconv"
)

// DefaultPageSize is the number of items per listing page.
const DefaultPageSize = 5

// NoLink marks a missing previous or next page.
const NoLink = "#"

// TotalPages returns count/size + 1.
//
// When count is an exact multiple of size this reports one page more than is
// ever produced, so the last real page links forward to a page that does not
// exist. Templates depend on the resulting links; keep the formula.
func TotalPages(count, size int) int {
	if size < 1 {
		size = DefaultPageSize
	}
	return count/size + 1
}

// Page is one slice of a paginated collection.
type Page[T any] struct {
	Number int
	Total  int
	Items  []T
	Prev   string
	Next   string
}

// Paginate lazily yields pages of at most size items. base is the
// locale-prefixed listing route without trailing slash ("" for the Spanish
// home, "/en/logs" for English logs); links point at base + "/page/<n>".
//
// An empty collection yields a single empty page so that listing roots are
// always written.
func Paginate[T any](items []T, size int, base string) iter.Seq[Page[T]] {
	if size < 1 {
		size = DefaultPageSize
	}
	total := TotalPages(len(items), size)
	return func(yield func(Page[T]) bool) {
		if len(items) == 0 {
			yield(newPage[T](nil, 1, total, base))
			return
		}
		n := 0
		for chunk := range slices.Chunk(items, size) {
			n++
			if !yield(newPage(chunk, n, total, base)) {
				return
			}
		}
	}
}

func newPage[T any](items []T, number, total int, base string) Page[T] {
	return Page[T]{
		Number: number,
		Total:  total,
		Items:  items,
		Prev:   PrevLink(base, number),
		Next:   NextLink(base, number, total),
	}
}

// PageURL is the route of page n under base.
func PageURL(base string, n int) string {
	return base + "/page/" + strconv.Itoa(n)
}

// PrevLink returns NoLink on page 1, otherwise the route of page n-1.
func PrevLink(base string, n int) string {
	if n <= 1 {
		return NoLink
	}
	return PageURL(base, n-1)
}

// NextLink returns NoLink when n >= total, otherwise the route of page n+1.
func NextLink(base string, n, total int) string {
	if n >= total {
		return NoLink
	}
	return PageURL(base, n+1)
}

// Dirs lists the output directories (relative, slash-separated, "" for the
// root) page n is written to. Page 1 is also the listing root and the bare
// page/ directory.
func Dirs(dir string, n int) []string {
	numbered := join(dir, "page/"+strconv.Itoa(n))
	if n != 1 {
		return []string{numbered}
	}
	return []string{dir, join(dir, "page"), numbered}
}

func join(dir, rest string) string {
	if dir == "" {
		return rest
	}
	return dir + "/" + rest
}
