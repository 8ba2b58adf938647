package isp

import (
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

type debouncer struct {
	mu       sync.Mutex
	duration time.Duration
	timer    *time.Timer
	events   []fsnotify.Event
	callback func([]fsnotify.Event)
}

func newDebouncer(duration time.Duration, callback func([]fsnotify.Event)) *debouncer {
	return &debouncer{duration: duration, callback: callback}
}

func (d *debouncer) addEvent(evt fsnotify.Event) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.events = append(d.events, evt)
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.duration, d.flush)
}

func (d *debouncer) flush() {
	d.mu.Lock()
	events := d.events
	d.events = nil
	d.mu.Unlock()

	if len(events) > 0 {
		d.callback(events)
	}
}

func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.events = nil
}
