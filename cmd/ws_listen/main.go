package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
)

func main() {
	var (
		wsURL = flag.String("ws", "ws://127.0.0.1:8080/ws", "xmaslightsd state websocket URL")
		raw   = flag.Bool("raw", false, "Print raw JSON envelopes instead of summaries")
	)
	flag.Parse()

	// Parse websocket URL
	u, err := url.Parse(*wsURL)
	if err != nil {
		log.Fatalf("invalid websocket URL: %v", err)
	}

	// Handle shutdown
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

	// Connect to websocket
	d := websocket.Dialer{
		HandshakeTimeout: 5 * time.Second,
	}

	log.Printf("connecting to %s...", u.String())
	conn, _, err := d.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("failed to connect: %v", err)
	}
	defer conn.Close()

	log.Printf("connected! (press Ctrl+C to exit)")

	// Mutex to protect concurrent writes to websocket
	var writeMu sync.Mutex

	// The daemon pings us; refresh the read deadline on each one.
	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPingHandler(func(appData string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		writeMu.Lock()
		defer writeMu.Unlock()
		return conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(5*time.Second))
	})

	// Message reading loop
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			messageType, message, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					log.Printf("websocket error: %v", err)
				}
				return
			}

			switch messageType {
			case websocket.TextMessage:
				handleTextMessage(message, *raw)
			case websocket.BinaryMessage:
				fmt.Printf("[BINARY] %d bytes\n", len(message))
			case websocket.CloseMessage:
				fmt.Printf("[CLOSE]\n")
				return
			}
		}
	}()

	// Wait for shutdown signal or connection close
	select {
	case <-sigc:
		log.Printf("shutting down...")
		// Clean close
		writeMu.Lock()
		err := conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		writeMu.Unlock()
		if err != nil {
			log.Printf("error closing connection: %v", err)
		}
	case <-done:
		log.Printf("connection closed")
	}
}

// stateEnvelope mirrors the daemon's outbound websocket envelope.
type stateEnvelope struct {
	Type string          `json:"type"`
	Ts   *time.Time      `json:"ts,omitempty"`
	Data json.RawMessage `json:"data,omitempty"`
}

// handleTextMessage prints one envelope, as a one-line summary per topic or
// as pretty JSON in raw mode.
func handleTextMessage(message []byte, raw bool) {
	if raw {
		var jsonData map[string]any
		if err := json.Unmarshal(message, &jsonData); err != nil {
			fmt.Printf("[TEXT] %s\n", string(message))
			return
		}
		prettyJSON, _ := json.MarshalIndent(jsonData, "", "  ")
		fmt.Printf("%s\n", string(prettyJSON))
		return
	}

	var env stateEnvelope
	if err := json.Unmarshal(message, &env); err != nil {
		fmt.Printf("[TEXT] %s\n", string(message))
		return
	}

	switch env.Type {
	case "state_init":
		prettyJSON, _ := json.MarshalIndent(json.RawMessage(env.Data), "", "  ")
		fmt.Printf("[STATE]\n%s\n\n", string(prettyJSON))

	case "menu_changed":
		var m struct {
			Depth    string `json:"depth"`
			Selected int    `json:"selected"`
			Label    string `json:"label"`
		}
		if err := json.Unmarshal(env.Data, &m); err == nil {
			fmt.Printf("[MENU] %s #%d %q\n", m.Depth, m.Selected, m.Label)
		}

	case "mode_changed":
		var m struct {
			Mode string `json:"mode"`
		}
		if err := json.Unmarshal(env.Data, &m); err == nil {
			fmt.Printf("[MODE] %s\n", m.Mode)
		}

	case "pattern_changed":
		var m struct {
			Pattern string `json:"pattern"`
		}
		if err := json.Unmarshal(env.Data, &m); err == nil {
			fmt.Printf("[PATTERN] %s\n", m.Pattern)
		}

	case "song_changed":
		var m struct {
			Song string `json:"song"`
		}
		if err := json.Unmarshal(env.Data, &m); err == nil {
			fmt.Printf("[SONG] %s\n", m.Song)
		}

	case "color_applied":
		var m struct {
			Color string `json:"color"`
		}
		if err := json.Unmarshal(env.Data, &m); err == nil {
			fmt.Printf("[COLOR] %s\n", m.Color)
		}

	case "brightness_changed":
		var m struct {
			Level int `json:"level"`
		}
		if err := json.Unmarshal(env.Data, &m); err == nil {
			fmt.Printf("[BRIGHTNESS] %d\n", m.Level)
		}

	case "encoder_rate":
		var m struct {
			Hz float64 `json:"hz"`
		}
		if err := json.Unmarshal(env.Data, &m); err == nil {
			fmt.Printf("[RATE] %.1f Hz\n", m.Hz)
		}

	default:
		prettyJSON, _ := json.MarshalIndent(json.RawMessage(message), "", "  ")
		fmt.Printf("[RESPONSE]\n%s\n\n", string(prettyJSON))
	}
}
