package domain

// StockInfo is the normalized result of a typed stock lookup: the core quote
// plus the advisory extras some backends attach. String fields are empty and
// pointer fields nil when the backend omits them.
type StockInfo struct {
	Quote            Quote
	OpenTime         string
	CloseTime        string
	ReferencePrice   *float64
	CeilingPrice     *float64
	FloorPrice       *float64
	RSI14            *float64
	RSIStatus        string
	LiquidityCompare string
	Recommendation   string
	Analysis         string
}

// RangeSeries is the result of a range lookup: one quote row per trading day,
// oldest first. Total is the true row count even when callers display fewer.
type RangeSeries struct {
	Symbol string
	Days   int
	Total  int
	Rows   []Quote
}
