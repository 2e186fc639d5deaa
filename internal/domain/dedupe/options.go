package dedupe

// Option applies a configuration option to the Store.
type Option func(*Store)

// WithMaxSize bounds how many keys are remembered; the oldest is evicted
// first. A value <= 0 means unbounded.
func WithMaxSize(maxSize int) Option {
	return func(s *Store) {
		s.maxSize = maxSize
	}
}
