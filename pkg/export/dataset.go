package export

// Dataset defines tabular export content.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
}

// SummaryStat is a single headline figure shown above a report table.
type SummaryStat struct {
	Label string
	Value string
}

// Report is a renderable report document: headline stats plus a table.
type Report struct {
	Title       string
	Subtitle    string
	GeneratedAt string
	Summary     []SummaryStat
	Table       Dataset
	Footer      string
}
