package favorites

import (
	"context"

	"github.com/sirupsen/logrus"
)

// writer serializes persistence through a single goroutine. The queue has
// depth one and always holds the most recent pending snapshot: a newer
// publish replaces a snapshot that has not been written yet, so writes can
// never land out of order and only the latest membership matters.
type writer struct {
	storage Storage
	log     logrus.FieldLogger
	pending chan []string
	done    chan struct{}
}

func newWriter(storage Storage, log logrus.FieldLogger) *writer {
	w := &writer{
		storage: storage,
		log:     log,
		pending: make(chan []string, 1),
		done:    make(chan struct{}),
	}
	go w.run()
	return w
}

func (w *writer) run() {
	defer close(w.done)
	for ids := range w.pending {
		if err := w.storage.Set(context.Background(), ids); err != nil {
			// persistence is best-effort; the set stays usable in memory
			w.log.WithError(err).Debug("favorites write-back failed")
		}
	}
}

// publish replaces any pending snapshot with ids. It never blocks.
func (w *writer) publish(ids []string) {
	for {
		select {
		case w.pending <- ids:
			return
		default:
			// drop the stale snapshot and try again
			select {
			case <-w.pending:
			default:
			}
		}
	}
}

// close stops the goroutine once the pending snapshot, if any, has been
// handed to storage. No delivery guarantee beyond that.
func (w *writer) close() {
	close(w.pending)
	<-w.done
}
