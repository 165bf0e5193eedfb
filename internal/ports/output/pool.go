package output

// TaskPool runs submitted tasks on a bounded set of goroutines.
type TaskPool interface {
	Go(task func()) error
}
