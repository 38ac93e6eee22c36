package budget

// DefaultLimit is the ceiling applied to any category that has no explicit
// limit, including categories outside the enumerated set.
const DefaultLimit = 300.0

const (
	Rent          = "Rent"
	Groceries     = "Groceries"
	Transport     = "Transport"
	Dining        = "Dining"
	Subscriptions = "Subscriptions"
	Education     = "Education"
	Miscellaneous = "Miscellaneous"
	Shopping      = "Shopping"
)

var Categories = []string{Rent, Groceries, Transport, Dining, Subscriptions, Education, Miscellaneous, Shopping}

// Limits maps category names to budget ceilings for one session.
type Limits map[string]float64

func DefaultLimits() Limits {
	l := make(Limits, len(Categories))
	for _, cat := range Categories {
		l[cat] = DefaultLimit
	}
	return l
}

// For resolves the limit for a category, falling back to DefaultLimit for
// categories the mapping does not know about.
func (l Limits) For(category string) float64 {
	if lim, ok := l[category]; ok {
		return lim
	}
	return DefaultLimit
}

func IsKnownCategory(category string) bool {
	for _, cat := range Categories {
		if cat == category {
			return true
		}
	}
	return false
}
