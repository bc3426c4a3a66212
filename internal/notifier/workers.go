package notifier

import (
	"context"
	"log"
	"sync"

	"github.com/quickepk/quickepk/internal/models"
)

// StartWorkers launches a pool of goroutines draining the view-recorded
// channel into the notification gate. Workers exit when the channel is
// closed; the returned WaitGroup lets shutdown wait for in-flight sends.
func StartWorkers(workerCount int, events <-chan models.ViewRecorded, n *Notifier) *sync.WaitGroup {
	log.Printf("Starting %d notification worker(s)...", workerCount)

	var wg sync.WaitGroup
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			notificationWorker(events, n)
		}()
	}
	return &wg
}

// notificationWorker processes view-recorded facts until the channel closes.
// Every outcome short of a send is just a log line: nothing on this path may
// surface back to the viewer.
func notificationWorker(events <-chan models.ViewRecorded, n *Notifier) {
	for event := range events {
		n.Process(context.Background(), event)
	}
}
