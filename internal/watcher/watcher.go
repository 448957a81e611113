// Package watcher notifies callers when histogram input files change.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	poller "github.com/radovskyb/watcher"
	"golang.org/x/sync/errgroup"

	"github.com/tbviz/histograms/internal/observability"
)

const DefaultPollingPeriod = 500 * time.Millisecond

type Params struct {
	Logger *observability.CoreLogger

	// PollingPeriod is how often files are checked for changes.
	//
	// Defaults to DefaultPollingPeriod.
	PollingPeriod time.Duration
}

// Watcher calls a handler whenever a watched file is written or created.
type Watcher struct {
	sync.Mutex
	logger     *observability.CoreLogger
	delegate   *poller.Watcher
	wg         sync.WaitGroup
	handlers   map[string]func()
	isFinished bool

	pollingPeriod time.Duration
}

func New(params Params) *Watcher {
	if params.PollingPeriod == 0 {
		params.PollingPeriod = DefaultPollingPeriod
	}
	if params.Logger == nil {
		params.Logger = observability.NewNoOpLogger()
	}

	return &Watcher{
		logger:        params.Logger,
		handlers:      make(map[string]func()),
		pollingPeriod: params.PollingPeriod,
	}
}

// Watch calls onChange on a goroutine whenever the file at path changes.
func (w *Watcher) Watch(path string, onChange func()) error {
	w.Lock()
	defer w.Unlock()

	if w.isFinished {
		return errors.New("watcher: tried to call Watch() after Finish()")
	}

	// The poller reports absolute paths.
	path, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("watcher: %v", err)
	}

	if w.delegate == nil {
		if err := w.startWatcher(); err != nil {
			return err
		}
	}

	if err := w.delegate.Add(path); err != nil {
		return fmt.Errorf("watcher: %v", err)
	}
	w.handlers[path] = onChange

	return nil
}

// Finish stops watching and waits for handlers to return.
func (w *Watcher) Finish() {
	w.Lock()
	w.isFinished = true
	delegate := w.delegate
	w.Unlock()

	if delegate != nil {
		delegate.Close()
	}
	w.wg.Wait()
}

func (w *Watcher) startWatcher() error {
	w.delegate = poller.New()
	// The poller sometimes reports Create for files that already exist,
	// so both ops count as a change.
	w.delegate.FilterOps(poller.Write, poller.Create)

	grp, ctx := errgroup.WithContext(context.Background())
	w.wg.Add(2)

	grp.Go(func() error {
		defer w.wg.Done()
		w.loopWatchFiles(ctx)
		return nil
	})

	grp.Go(func() error {
		defer w.wg.Done()
		return w.delegate.Start(w.pollingPeriod)
	})

	// Close() is a no-op until Start() is looping, so wait for it before
	// returning, unless it fails to start.
	watcherStarted := make(chan struct{})
	go func() {
		w.delegate.Wait()
		close(watcherStarted)
	}()

	select {
	case <-watcherStarted:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("watcher: failed to start: %v", grp.Wait())
	}
}

// loopWatchFiles dispatches file events until the watcher is closed.
//
// ctx is canceled if the watcher fails to start, in which case none of
// its channels will ever receive a message.
func (w *Watcher) loopWatchFiles(ctx context.Context) {
	for {
		select {
		case event := <-w.delegate.Event:
			if event.IsDir() {
				continue
			}

			w.Lock()
			handler := w.handlers[event.Path]
			w.Unlock()

			if handler != nil {
				handler()
			}

		case err := <-w.delegate.Error:
			w.logger.CaptureError(
				fmt.Errorf("watcher: error in file watcher: %v", err))

		case <-w.delegate.Closed:
			return

		case <-ctx.Done():
			return
		}
	}
}
