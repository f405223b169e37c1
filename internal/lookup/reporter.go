package lookup

// Reporter receives progress updates from a Checker.
type Reporter interface {
	// Start is called once before the first query.
	Start(total int)
	// Result is called after each number with its 1-based position.
	Result(index, total int, r Result)
	// Done is called once after the last number.
	Done(summary Summary)
}

// NopReporter discards all progress updates (used in tests and --json mode).
type NopReporter struct{}

func (NopReporter) Start(int)               {}
func (NopReporter) Result(int, int, Result) {}
func (NopReporter) Done(Summary)            {}
