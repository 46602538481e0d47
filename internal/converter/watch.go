package converter

import (
	"context"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// DefaultDebounce is how long the watcher waits after the last source
// change before running. FieldMove writes the four files one after another.
const DefaultDebounce = 500 * time.Millisecond

// Watch runs the pipeline every time one of the four source files is written
// or created, until ctx is done. Bursts of events within debounce collapse
// into one run. Runs are serialized on the calling goroutine and each result
// is passed to onRun.
//
// Outputs are written into the watched folder but are never source names,
// so a run does not trigger another one.
func (c *Converter) Watch(ctx context.Context, debounce time.Duration, onRun func(Result)) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return eris.Wrap(err, "converter: create watcher")
	}
	defer watcher.Close()

	if err := watcher.Add(c.fm.Dir); err != nil {
		return eris.Wrapf(err, "converter: watch %s", c.fm.Dir)
	}
	c.logger.Info("watching for FieldMove exports", zap.String("dir", c.fm.Dir))

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !c.fm.IsSource(event.Name) {
				continue
			}

			c.logger.Debug("source changed", zap.String("file", event.Name), zap.String("op", event.Op.String()))
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			onRun(c.Run())

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			c.logger.Warn("watcher error", zap.Error(err))
		}
	}
}
