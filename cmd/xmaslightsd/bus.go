package main

import "github.com/kelindar/event"

// Bus is the in-process fan-out between the daemon loop and out-of-loop
// observers; the WS broadcaster consumes it through subscribeBroadcasts. It
// wraps a kelindar dispatcher; Broadcast.Type() is the topic discriminator.
type Bus struct {
	d *event.Dispatcher
}

func newBus() *Bus {
	return &Bus{d: event.NewDispatcher()}
}

// Publish fans one broadcast out to its subscribers. The generic publish
// needs the concrete type, hence the switch; broadcasts without a case are
// dropped.
func (b *Bus) Publish(bc Broadcast) {
	switch e := bc.(type) {
	case BroadcastMenuChanged:
		event.Publish(b.d, e)
	case BroadcastModeChanged:
		event.Publish(b.d, e)
	case BroadcastPatternChanged:
		event.Publish(b.d, e)
	case BroadcastSongChanged:
		event.Publish(b.d, e)
	case BroadcastColorApplied:
		event.Publish(b.d, e)
	case BroadcastBrightnessChanged:
		event.Publish(b.d, e)
	case BroadcastEncoderRate:
		event.Publish(b.d, e)
	}
}

// Subscribe registers a typed handler and returns its unsubscribe func.
// Handlers run on the dispatcher's goroutines, never on the daemon loop.
func Subscribe[T event.Event](b *Bus, handler func(T)) func() {
	return event.Subscribe(b.d, handler)
}

// subscribeBroadcasts funnels every topic into one channel, preserving
// arrival order per topic. The push never blocks: when the funnel is full
// the broadcast is dropped and the consumer continues from live traffic.
func subscribeBroadcasts(b *Bus, buf int) (<-chan Broadcast, func()) {
	src := make(chan Broadcast, buf)
	push := func(bc Broadcast) {
		select {
		case src <- bc:
		default:
		}
	}
	unsubs := []func(){
		Subscribe(b, func(e BroadcastMenuChanged) { push(e) }),
		Subscribe(b, func(e BroadcastModeChanged) { push(e) }),
		Subscribe(b, func(e BroadcastPatternChanged) { push(e) }),
		Subscribe(b, func(e BroadcastSongChanged) { push(e) }),
		Subscribe(b, func(e BroadcastColorApplied) { push(e) }),
		Subscribe(b, func(e BroadcastBrightnessChanged) { push(e) }),
		Subscribe(b, func(e BroadcastEncoderRate) { push(e) }),
	}
	return src, func() {
		for _, u := range unsubs {
			u()
		}
	}
}
