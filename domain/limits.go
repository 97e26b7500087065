package domain

// Limits carries every validation bound the write paths enforce. Services
// receive it by value at construction time so the bounds are immutable for
// the lifetime of the process.
type Limits struct {
	MinCookingTime      int
	MaxCookingTime      int
	MinIngredientAmount int
	MaxIngredientAmount int

	DefaultPageSize int
	MaxPageSize     int

	MaxImageSizeBytes int
}

func DefaultLimits() Limits {
	return Limits{
		MinCookingTime:      1,
		MaxCookingTime:      32000,
		MinIngredientAmount: 1,
		MaxIngredientAmount: 32000,
		DefaultPageSize:     6,
		MaxPageSize:         100,
		MaxImageSizeBytes:   5 * 1024 * 1024,
	}
}

// NormalizePage clamps raw page/limit query values into usable pagination
// parameters.
func (l Limits) NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = l.DefaultPageSize
	}
	if limit > l.MaxPageSize {
		limit = l.MaxPageSize
	}
	return page, limit
}
