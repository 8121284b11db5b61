package progress

import "context"

// Event is one item read from a Stream. Exactly one of the fields is set:
// an Update while running, then either Completion or Err last.
type Event struct {
	Update     *Update
	Completion *Completion
	Err        error
}

// Done reports whether this is the last event of the stream.
func (e Event) Done() bool {
	return e.Completion != nil || e.Err != nil
}

// Stream runs seq in a new goroutine and delivers its progress on the
// returned channel, which is closed after the last event. The channel is
// buffered for every stage so the run never waits on the reader.
func Stream(ctx context.Context, seq *Sequencer, hosts []string) <-chan Event {
	ch := make(chan Event, len(seq.Stages)+1)

	go func() {
		defer close(ch)

		_, err := seq.Run(ctx, hosts, Observer{
			OnUpdate: func(u Update) {
				ch <- Event{Update: &u}
			},
			OnComplete: func(c Completion) {
				ch <- Event{Completion: &c}
			},
		})
		if err != nil {
			ch <- Event{Err: err}
		}
	}()

	return ch
}
