package domain

import "fmt"

// Category identifies one kind of daily report pulled from the POS provider.
type Category string

const (
	// CategoryAnalitico is the itemized sales report (one row per sold line).
	CategoryAnalitico Category = "analitico"

	// CategoryPayments is the payments report (one row per tender).
	CategoryPayments Category = "pagamentos"

	// CategoryHourly is the revenue-by-hour report.
	CategoryHourly Category = "faturamento_hora"

	// CategoryStaffTime is the staff clock-in/clock-out report.
	CategoryStaffTime Category = "tempo_servico"

	// CategoryCovers is the covers (seated guests) report.
	CategoryCovers Category = "couverts"

	// CategoryStock is the product/stock status report.
	// Unlike the daily reports it requires its own provider session.
	CategoryStock Category = "estoque"
)

// AllCategories lists every supported category in collection order.
// Collection is strictly sequential, so this order is the order requests
// hit the provider within one run.
var AllCategories = []Category{
	CategoryAnalitico,
	CategoryPayments,
	CategoryHourly,
	CategoryStaffTime,
	CategoryCovers,
	CategoryStock,
}

// ParseCategory validates a wire identifier and returns the Category.
func ParseCategory(s string) (Category, error) {
	for _, c := range AllCategories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: unknown category %q", ErrInvalidInput, s)
}

// ParseCategories maps a slice of wire identifiers to Categories.
// An empty input means "all categories".
func ParseCategories(names []string) ([]Category, error) {
	if len(names) == 0 {
		return AllCategories, nil
	}
	out := make([]Category, 0, len(names))
	for _, n := range names {
		c, err := ParseCategory(n)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// String returns the wire identifier.
func (c Category) String() string {
	return string(c)
}
