package dtos

import "github.com/samber/lo"

// ConnectionReport is the outcome of draining one connection descriptor:
// either the layers counted on that server, or the failure that prevented
// them. A failed connection contributes zero to every total.
type ConnectionReport struct {
	Host          string
	Err           error
	Layers        []LayerCount
	CountFailures int
}

// Subtotal is the sum of row counts for all surviving layers on this
// connection.
func (r ConnectionReport) Subtotal() int64 {
	return lo.SumBy(r.Layers, func(l LayerCount) int64 { return l.Rows })
}

// TitleCount is the number of layers with at least one row, which feeds the
// titles summary line.
func (r ConnectionReport) TitleCount() int {
	return lo.CountBy(r.Layers, func(l LayerCount) bool { return l.Rows > 0 })
}
