package main

// Tone drives the buzzer. Play starts a square wave at the given frequency
// and keeps sounding until Stop; note lengths are the scheduler's job.
type Tone interface {
	Play(freqHz int) error
	Stop() error
	Close() error
}

// nullTone stands in on boards without a buzzer.
type nullTone struct{}

func (nullTone) Play(_ int) error { return nil }
func (nullTone) Stop() error      { return nil }
func (nullTone) Close() error     { return nil }
