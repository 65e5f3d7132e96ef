package pagination

const (
	// DefaultSize is the standard page size when a size is not provided.
	DefaultSize = 20
	// MaxSize caps how many rows any page can request.
	MaxSize = 100
)

// Params holds page-index pagination inputs (zero-based page).
type Params struct {
	Page int
	Size int
}

// NormalizeSize enforces the configured default and maximum sizes.
func NormalizeSize(size int) int {
	if size <= 0 {
		return DefaultSize
	}
	if size > MaxSize {
		return MaxSize
	}
	return size
}

// Normalize clamps the page to zero and the size to the allowed range.
func (p Params) Normalize() Params {
	page := p.Page
	if page < 0 {
		page = 0
	}
	return Params{Page: page, Size: NormalizeSize(p.Size)}
}

// Offset returns the number of rows preceding the page.
func (p Params) Offset() int {
	n := p.Normalize()
	return n.Page * n.Size
}

// Window describes one page over a larger collection.
type Window struct {
	Page  int
	Size  int
	Total int64
}

// NewWindow builds a window from raw values, normalizing page and size.
func NewWindow(page, size int, total int64) Window {
	p := Params{Page: page, Size: size}.Normalize()
	if total < 0 {
		total = 0
	}
	return Window{Page: p.Page, Size: p.Size, Total: total}
}

// TotalPages returns ceil(total/size).
func (w Window) TotalPages() int {
	if w.Size <= 0 {
		return 0
	}
	return int((w.Total + int64(w.Size) - 1) / int64(w.Size))
}

func (w Window) HasNext() bool {
	return w.Page < w.TotalPages()-1
}

func (w Window) HasPrevious() bool {
	return w.Page > 0
}

func (w Window) First() bool {
	return w.Page == 0
}

func (w Window) Last() bool {
	return !w.HasNext()
}
