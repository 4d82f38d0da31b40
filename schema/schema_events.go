package schema

// NameCount is a generic (name, count) pair produced by top-N selection.
type NameCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// EventsResult holds the top events and the hour-of-day histogram for one
// event collection over the queried range.
type EventsResult struct {
	Kind        EventKind   `json:"kind"`
	RangeStart  string      `json:"rangeStart"`
	RangeEnd    string      `json:"rangeEnd"`
	TotalEvents int         `json:"totalEvents"`
	Top         []NameCount `json:"top"`
	ByHour      [24]int     `json:"byHour"`
}
