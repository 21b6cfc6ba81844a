package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricFramesRendered = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "xmaslights",
		Subsystem: "engine",
		Name:      "frames_rendered_total",
		Help:      "Pattern frames rendered and flushed to the strip.",
	}, []string{"pattern"})

	metricNotesPlayed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "xmaslights",
		Subsystem: "melody",
		Name:      "notes_played_total",
		Help:      "Buzzer notes started, by song.",
	}, []string{"song"})

	metricInputEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "xmaslights",
		Subsystem: "input",
		Name:      "events_total",
		Help:      "Accepted input events, by source and kind.",
	}, []string{"source", "kind"})

	metricBrightness = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "xmaslights",
		Subsystem: "strip",
		Name:      "brightness",
		Help:      "Strip brightness level currently applied (0-255).",
	})

	metricEncoderRate = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "xmaslights",
		Subsystem: "input",
		Name:      "encoder_rate_hz",
		Help:      "Encoder step rate over the recent window.",
	})

	metricWSClients = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "xmaslights",
		Subsystem: "ws",
		Name:      "clients",
		Help:      "Connected state mirror websocket clients.",
	})
)

func observeFrame(p Pattern)            { metricFramesRendered.WithLabelValues(p.String()).Inc() }
func observeNote(s Song)                { metricNotesPlayed.WithLabelValues(s.String()).Inc() }
func observeInput(source, kind string)  { metricInputEvents.WithLabelValues(source, kind).Inc() }
func observeBrightness(level uint8)     { metricBrightness.Set(float64(level)) }
func observeEncoderRate(hz float64)     { metricEncoderRate.Set(hz) }
func observeWSClients(delta float64)    { metricWSClients.Add(delta) }
