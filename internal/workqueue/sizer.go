package workqueue

// Counter is implemented by items that stand for more than one unit of work,
// such as a batch of sequences.
type Counter interface {
	Count() int
}

// Sizer reports how many units an item counts for. Size only feeds the
// progress counters; it never affects scheduling.
type Sizer[T any] func(T) int

// CountOf is the default Sizer: item.Count() for a Counter, else 1.
func CountOf[T any](item T) int {
	if c, ok := any(item).(Counter); ok {
		return c.Count()
	}
	return 1
}
