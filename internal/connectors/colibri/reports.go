package colibri

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/tapsight-labs/possync/internal/core/domain"
)

// Provider query identifiers, one per report category.
// Each category maps to a fixed query id and parameter set on the
// provider's report endpoint.
const (
	queryAnalitico = 77
	queryPayments  = 78
	queryHourly    = 79
	queryStaffTime = 80
	queryCovers    = 81
	queryStock     = 90
)

var queryIDs = map[domain.Category]int{
	domain.CategoryAnalitico: queryAnalitico,
	domain.CategoryPayments:  queryPayments,
	domain.CategoryHourly:    queryHourly,
	domain.CategoryStaffTime: queryStaffTime,
	domain.CategoryCovers:    queryCovers,
	domain.CategoryStock:     queryStock,
}

// reportQuery builds the query string for one (category, date) fetch.
// Date ranges are inclusive on both ends; daily reports use the same date
// for both bounds.
func reportQuery(category domain.Category, date domain.Date, empID int) (url.Values, error) {
	qid, ok := queryIDs[category]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}

	v := url.Values{}
	v.Set("query", strconv.Itoa(qid))
	v.Set("dtinicio", date.String())
	v.Set("dtfim", date.String())
	v.Set("emp", strconv.Itoa(empID))

	switch category {
	case domain.CategoryAnalitico:
		// Cancelled lines are excluded at the source; voids would otherwise
		// double-count against the payments report.
		v.Set("cancelados", "0")
	case domain.CategoryStock:
		// Stock snapshots are taken against the closing position.
		v.Set("posicao", "fechamento")
	}

	return v, nil
}
