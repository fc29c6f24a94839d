package orders

import "github.com/shopspring/decimal"

type Stats struct {
	Total         int             `json:"total"`
	CountByStatus map[Status]int  `json:"count_by_status"`
	Revenue       decimal.Decimal `json:"revenue"`
}

// ComputeStats counts orders per status. Revenue only includes completed
// orders.
func ComputeStats(orders []Order) Stats {
	st := Stats{
		Total:         len(orders),
		CountByStatus: make(map[Status]int, len(Statuses)),
		Revenue:       decimal.Zero,
	}
	for _, s := range Statuses {
		st.CountByStatus[s] = 0
	}
	for _, o := range orders {
		st.CountByStatus[o.Status]++
		if o.Status == StatusCompleted {
			st.Revenue = st.Revenue.Add(o.TotalPrice)
		}
	}
	return st
}
