package packets

// PageLink is one element of the pagination bar: a page number, or a gap
// when Gap is true.
type PageLink struct {
	Page int
	Gap  bool
}

// pageRadius is how many neighbours of the current page are always shown.
const pageRadius = 2

// Window returns the page links for a pagination bar: the first and last
// page, the current page and its two neighbours each side, and a gap marker
// wherever pages are skipped.
func Window(current, totalPages int) []PageLink {
	if totalPages <= 0 {
		return nil
	}
	if current < 1 {
		current = 1
	}
	if current > totalPages {
		current = totalPages
	}

	pages := make([]int, 0, 2*pageRadius+3)
	pages = append(pages, 1)
	for page := max(current-pageRadius, 2); page <= min(current+pageRadius, totalPages-1); page++ {
		pages = append(pages, page)
	}
	if totalPages > 1 {
		pages = append(pages, totalPages)
	}

	links := make([]PageLink, 0, len(pages)+2)
	for i, page := range pages {
		if i > 0 && page > pages[i-1]+1 {
			links = append(links, PageLink{Gap: true})
		}
		links = append(links, PageLink{Page: page})
	}
	return links
}

// Showing returns the 1-based range of entries on page for the
// "Showing X to Y of Z" line. Both are 0 when total is 0.
func Showing(page, perPage, total int) (from, to int) {
	if total <= 0 || perPage <= 0 {
		return 0, 0
	}
	if page < 1 {
		page = 1
	}
	from = min((page-1)*perPage+1, total)
	to = min(page*perPage, total)
	return from, to
}

// TotalPages derives the page count when the server omits it.
func TotalPages(total, perPage int) int {
	if total <= 0 || perPage <= 0 {
		return 0
	}
	return (total + perPage - 1) / perPage
}
