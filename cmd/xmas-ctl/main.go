package main

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"strconv"
)

// ============================================================================
// xmas-ctl - Command-line IPC Client
// ============================================================================
// This tool sends events to the xmaslightsd daemon via IPC.
//
// Usage:
//   xmas-ctl rotate 3
//   xmas-ctl cw
//   xmas-ctl ccw
//   xmas-ctl press
//   xmas-ctl longpress
//   xmas-ctl reset
//
// Options:
//   -socket PATH    Unix domain socket path (default: /tmp/xmaslightsd.sock)
// ============================================================================

// Event types (duplicated from main package for standalone binary)
type Event interface{}

type RotaryNudge struct {
	Steps int `json:"steps"`
}

type ButtonPressed struct {
	Kind string `json:"kind"`
}

type Reset struct{}

// EventEnvelope wraps events for JSON
type EventEnvelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// IPCResponse represents the daemon's response
type IPCResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

func main() {
	socketPath := "/tmp/xmaslightsd.sock"

	// Parse arguments
	args := os.Args[1:]
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	// Check for -socket flag
	if args[0] == "-socket" || args[0] == "--socket" {
		if len(args) < 2 {
			fmt.Fprintf(os.Stderr, "error: -socket requires an argument\n")
			os.Exit(1)
		}
		socketPath = args[1]
		args = args[2:]
	}

	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	// Parse command
	var ev Event

	switch args[0] {
	case "rotate":
		if len(args) < 2 {
			fmt.Fprintf(os.Stderr, "error: rotate requires a step count\n")
			os.Exit(1)
		}
		steps, err := strconv.Atoi(args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: invalid step count: %v\n", err)
			os.Exit(1)
		}
		ev = RotaryNudge{Steps: steps}

	case "cw", "next":
		ev = RotaryNudge{Steps: 1}

	case "ccw", "prev":
		ev = RotaryNudge{Steps: -1}

	case "press", "select":
		ev = ButtonPressed{Kind: "short"}

	case "longpress":
		ev = ButtonPressed{Kind: "long"}

	case "reset":
		ev = Reset{}

	case "help", "-h", "--help":
		printUsage()
		os.Exit(0)

	default:
		fmt.Fprintf(os.Stderr, "error: unknown command: %s\n", args[0])
		printUsage()
		os.Exit(1)
	}

	// Send event
	if err := sendEvent(socketPath, ev); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("ok")
}

func sendEvent(socketPath string, ev Event) error {
	// Connect to socket
	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return fmt.Errorf("connect to %s: %w", socketPath, err)
	}
	defer conn.Close()

	// Marshal event
	data, err := marshalEvent(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	// Send event (line-delimited JSON)
	if _, err := fmt.Fprintf(conn, "%s\n", data); err != nil {
		return fmt.Errorf("send event: %w", err)
	}

	// Read response
	var response IPCResponse
	decoder := json.NewDecoder(conn)
	if err := decoder.Decode(&response); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	// Check response status
	if response.Status == "error" {
		return fmt.Errorf("daemon error: %s", response.Error)
	}

	return nil
}

func marshalEvent(ev Event) ([]byte, error) {
	var env EventEnvelope

	switch e := ev.(type) {
	case RotaryNudge:
		env.Type = "rotate"
		data, err := json.Marshal(e)
		if err != nil {
			return nil, fmt.Errorf("marshal RotaryNudge: %w", err)
		}
		env.Data = data

	case ButtonPressed:
		env.Type = "button"
		data, err := json.Marshal(e)
		if err != nil {
			return nil, fmt.Errorf("marshal ButtonPressed: %w", err)
		}
		env.Data = data

	case Reset:
		env.Type = "reset"

	default:
		return nil, fmt.Errorf("unknown event type: %T", ev)
	}

	return json.Marshal(env)
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `xmas-ctl - Control the xmaslightsd daemon via IPC

Usage:
  xmas-ctl [options] <command> [args]

Options:
  -socket PATH    Unix domain socket path (default: /tmp/xmaslightsd.sock)

Commands:
  rotate <steps>          Turn the knob by a signed number of detents
  cw, next                Turn the knob one detent clockwise
  ccw, prev               Turn the knob one detent counter-clockwise
  press, select           Short-press the knob (select / descend)
  longpress               Long-press the knob (global reset)
  reset                   Same as longpress
  help, -h, --help        Show this help message

Examples:
  xmas-ctl cw
  xmas-ctl rotate -3
  xmas-ctl -socket /var/run/xmaslights.sock press
`)
}
