package batch

import "time"

// Opts is used to configure a BatchExecutor via the NewExecutor function.
type Opts struct {
	// MaxSize is the number of tasks that triggers a batch run.
	MaxSize int
	// MaxLinger is how long a partial batch waits for more tasks before
	// running anyway.
	MaxLinger time.Duration
}

func (o Opts) validate() {
	if o.MaxSize <= 1 {
		panic("maximum batch size must be greater than 1")
	}

	if o.MaxLinger <= 0 {
		panic("batch linger must be greater than 0")
	}
}
