package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
)

const version = "1.0.0"

func printVersion() {
	fmt.Printf("xmaslightsd v%s\n", version)
	fmt.Println("Addressable LED strip controller with rotary-encoder menu")
}

func printUsage() {
	printVersion()
	fmt.Println()
	fmt.Println("USAGE:")
	fmt.Println("  xmaslightsd [OPTIONS]")
	fmt.Println("  xmaslightsd sim [OPTIONS]")
	fmt.Println()
	fmt.Println("DESCRIPTION:")
	fmt.Println("  Daemon that drives a WS281x LED strip from a rotary-encoder menu on a")
	fmt.Println("  small OLED: solid colors, animated patterns, and melodies on a piezo")
	fmt.Println("  buzzer with synchronized sparkles. State is mirrored over WebSocket and")
	fmt.Println("  events can be injected over a Unix socket or HTTP.")
	fmt.Println()
	fmt.Println("OPTIONS:")
	fmt.Println("  -config string")
	fmt.Println("        YAML config file; flags override file values")
	fmt.Println()
	fmt.Println("  -update-hz int")
	fmt.Printf("        Daemon tick loop frequency in Hz (default %d)\n", defaultUpdateHz)
	fmt.Println()
	fmt.Println("  -input-backend string")
	fmt.Println("        Input source: gpio|evdev|none (default \"gpio\")")
	fmt.Println()
	fmt.Println("  -input-device string")
	fmt.Println("        Input device for the evdev backend (e.g. /dev/input/event0)")
	fmt.Println()
	fmt.Println("  -strip-gpio-pin int")
	fmt.Printf("        BCM pin driving the strip data line (default %d)\n", defaultStripPin)
	fmt.Println()
	fmt.Println("  -strip-count int")
	fmt.Printf("        Number of pixels on the strip (default %d)\n", defaultStripCount)
	fmt.Println()
	fmt.Println("  -strip-brightness int")
	fmt.Printf("        Startup brightness 0-255 (default %d)\n", defaultStripBrightness)
	fmt.Println()
	fmt.Println("  -display-bus string")
	fmt.Println("        I2C bus of the OLED (default: first available)")
	fmt.Println()
	fmt.Println("  -no-display")
	fmt.Println("        Run without the OLED")
	fmt.Println()
	fmt.Println("  -pot-path string")
	fmt.Println("        IIO sysfs path of the brightness pot, empty disables")
	fmt.Println("        (e.g. /sys/bus/iio/devices/iio:device0/in_voltage0_raw)")
	fmt.Println()
	fmt.Println("  -no-tone")
	fmt.Println("        Run without the buzzer")
	fmt.Println()
	fmt.Println("  -ipc-socket string")
	fmt.Println("        Unix domain socket path for IPC (default \"/tmp/xmaslightsd.sock\")")
	fmt.Println()
	fmt.Println("  -http-port int")
	fmt.Println("        HTTP listener for /ws, /metrics, /healthz, /event; 0 disables (default 8080)")
	fmt.Println()
	fmt.Println("  -log-level string")
	fmt.Println("        Log level: error, warn, info, debug (default \"info\")")
	fmt.Println()
	fmt.Println("  -log-journal")
	fmt.Println("        Log natively to the systemd journal")
	fmt.Println()
	fmt.Println("  -version")
	fmt.Println("        Print version and exit")
	fmt.Println()
	fmt.Println("  -help")
	fmt.Println("        Print this help message")
	fmt.Println()
	fmt.Println("SUBCOMMANDS:")
	fmt.Println("  sim")
	fmt.Println("        Run the daemon against simulated peripherals with a terminal")
	fmt.Println("        front panel. Options: -config, -strip-count, -log-level")
	fmt.Println()
	fmt.Println("EXAMPLES:")
	fmt.Println("  # Start with defaults (encoder on GPIO 17/27/22, strip on GPIO 18)")
	fmt.Println("  xmaslightsd")
	fmt.Println()
	fmt.Println("  # Config file plus a longer strip")
	fmt.Println("  xmaslightsd -config /etc/xmaslightsd.yaml -strip-count 100")
	fmt.Println()
	fmt.Println("  # Encoder handled by the kernel gpio-rotary-encoder driver")
	fmt.Println("  xmaslightsd -input-backend evdev -input-device /dev/input/event0")
	fmt.Println()
	fmt.Println("  # Try everything on a dev box, no hardware")
	fmt.Println("  xmaslightsd sim")
	fmt.Println()
	fmt.Println("NOTES:")
	fmt.Println("  - The WS281x driver uses PWM via DMA and needs root")
	fmt.Println("  - The gpio backend needs access to /dev/gpiochipN (group 'gpio')")
	fmt.Println("  - Long-pressing the knob resets everything to the welcome screen")
	fmt.Println()
}

func main() {
	// Subcommand dispatch happens before flag parsing
	if len(os.Args) > 1 && os.Args[1] == "sim" {
		runSimSubcommand()
		return
	}

	// Check for version/help flags early
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" {
			printVersion()
			return
		}
		if arg == "-help" || arg == "--help" || arg == "-h" {
			printUsage()
			return
		}
	}

	var (
		configPath      = flag.String("config", "", "YAML config file; flags override file values")
		updateHz        = flag.Int("update-hz", defaultUpdateHz, "Daemon tick loop frequency in Hz")
		inputBackend    = flag.String("input-backend", "gpio", "Input source: gpio|evdev|none")
		inputDevice     = flag.String("input-device", "", "Input device for the evdev backend")
		stripGpioPin    = flag.Int("strip-gpio-pin", defaultStripPin, "BCM pin driving the strip data line")
		stripCount      = flag.Int("strip-count", defaultStripCount, "Number of pixels on the strip")
		stripBrightness = flag.Int("strip-brightness", defaultStripBrightness, "Startup brightness 0-255")
		displayBus      = flag.String("display-bus", "", "I2C bus of the OLED (default: first available)")
		noDisplay       = flag.Bool("no-display", false, "Run without the OLED")
		potPath         = flag.String("pot-path", "", "IIO sysfs path of the brightness pot, empty disables")
		noTone          = flag.Bool("no-tone", false, "Run without the buzzer")
		ipcSocketPath   = flag.String("ipc-socket", "/tmp/xmaslightsd.sock", "Unix domain socket path for IPC")
		httpPort        = flag.Int("http-port", 8080, "HTTP listener port, 0 disables")
		logLevelStr     = flag.String("log-level", "info", "Log level: error, warn, info, debug")
		logJournal      = flag.Bool("log-journal", false, "Log natively to the systemd journal")
		showVersion     = flag.Bool("version", false, "Print version and exit")
		showHelp        = flag.Bool("help", false, "Print help message")
	)

	flag.Usage = printUsage
	flag.Parse()

	if *showHelp {
		printUsage()
		return
	}
	if *showVersion {
		printVersion()
		return
	}

	// Config file first, then explicit flags on top.
	cfg := DefaultConfig()
	if *configPath != "" {
		loaded, err := LoadConfigFile(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	var ov FlagOverrides
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "update-hz":
			ov.UpdateHz = updateHz
		case "input-backend":
			ov.InputBackend = inputBackend
		case "input-device":
			ov.InputDevice = inputDevice
		case "strip-gpio-pin":
			ov.StripGpioPin = stripGpioPin
		case "strip-count":
			ov.StripCount = stripCount
		case "strip-brightness":
			ov.StripBrightness = stripBrightness
		case "display-bus":
			ov.DisplayBus = displayBus
		case "no-display":
			enabled := !*noDisplay
			ov.DisplayEnabled = &enabled
		case "pot-path":
			ov.PotPath = potPath
		case "no-tone":
			enabled := !*noTone
			ov.ToneEnabled = &enabled
		case "ipc-socket":
			ov.IPCSocketPath = ipcSocketPath
		case "http-port":
			ov.HTTPPort = httpPort
		case "log-level":
			ov.LogLevel = logLevelStr
		case "log-journal":
			ov.LogJournal = logJournal
		}
	})
	ov.Apply(&cfg)

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	logger, err := setupLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	// ------------------------------------------------------------------
	// Peripherals. The strip is required; display, buzzer and pot degrade
	// to stand-ins so a partially wired board still runs.
	// ------------------------------------------------------------------

	strip, err := newStrip(cfg.Strip, logger)
	if err != nil {
		logger.Error("failed to open LED strip", "error", err, "tip", "the ws281x driver needs root")
		os.Exit(1)
	}
	defer strip.Close()

	var display Display = nullDisplay{}
	if cfg.Display.Enabled {
		oled, err := newOLEDDisplay(cfg.Display)
		if err != nil {
			logger.Warn("display unavailable, continuing without it", "error", err)
		} else {
			display = oled
			defer oled.Close()
		}
	}

	var toneDev Tone = nullTone{}
	if cfg.Tone.Enabled {
		pwm, err := newPWMTone(cfg.Tone)
		if err != nil {
			logger.Warn("buzzer unavailable, melodies will be silent", "error", err)
		} else {
			toneDev = pwm
			defer pwm.Close()
		}
	}

	// Without an ADC the pot reads a constant that matches the configured
	// brightness, so nothing moves until a real knob does.
	var pot PotReader = fixedPot{value: cfg.Strip.Brightness * 1023 / 255}
	if cfg.Pot.Path != "" {
		iio, err := newIIOPot(ExpandPath(cfg.Pot.Path))
		if err != nil {
			logger.Warn("pot unavailable, brightness stays fixed", "error", err)
		} else {
			pot = iio
			defer iio.Close()
		}
	}

	enc := NewEncoder()
	engine := NewEngine(strip, rand.New(rand.NewSource(time.Now().UnixNano())), time.Now())
	p := &peripherals{
		strip:   strip,
		display: display,
		tone:    toneDev,
		pot:     pot,
		enc:     enc,
		engine:  engine,
	}

	events := make(chan Event, 64)
	bus := newBus()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	// Daemon loop
	g.Go(func() error {
		runDaemon(ctx, events, p, bus, cfg, initialState(cfg), logger)
		return nil
	})

	// Input backend
	switch cfg.Input.Backend {
	case "gpio":
		g.Go(func() error {
			return runGPIOInput(ctx, cfg.Input, enc, events, logger)
		})
	case "evdev":
		g.Go(func() error {
			return runEvdevInput(ctx, cfg.Input, enc, events, logger)
		})
	case "none":
		logger.Info("hardware input disabled, IPC/HTTP injection only")
	}

	// IPC server
	g.Go(func() error {
		return runIPCServer(ctx, ExpandPath(cfg.IPC.SocketPath), events, logger)
	})

	// HTTP: state mirror WS, metrics, health, event injection
	if cfg.HTTP.Port > 0 {
		stateServer := NewStateServer(logger, events, HubConfig{})
		hub := stateServer.Hub()
		g.Go(func() error {
			hub.Run(ctx)
			return nil
		})

		src, unsubscribe := subscribeBroadcasts(bus, 128)
		g.Go(func() error {
			defer unsubscribe()
			RunBroadcaster(ctx, hub, src, logger)
			return nil
		})

		g.Go(func() error {
			return runHTTPServer(ctx, cfg.HTTP.Port, stateServer, events, logger)
		})
	}

	// Config hot reload: runtime-tunable sections only, topology needs a
	// restart.
	if *configPath != "" {
		bootCfg := cfg
		g.Go(func() error {
			return watchConfig(ctx, *configPath, logger, func(fresh Config) {
				merged := runtimeMerge(bootCfg, fresh)
				applyLogLevel(merged.Logging.Level, logger)
				select {
				case events <- ConfigReloaded{Config: merged}:
				default:
					logger.Warn("event queue full, dropping config reload")
				}
			})
		})
	}

	logger.Info("listening",
		"input", cfg.Input.Backend,
		"ipc", cfg.IPC.SocketPath,
		"http_port", cfg.HTTP.Port,
		"strip_count", cfg.Strip.Count,
		"update_hz", cfg.UpdateHz,
	)

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("daemon exited with error", "error", err)
		os.Exit(1)
	}
	logger.Info("shutdown complete")
}

// runSimSubcommand handles `xmaslightsd sim`.
func runSimSubcommand() {
	fs := flag.NewFlagSet("sim", flag.ExitOnError)
	configPath := fs.String("config", "", "YAML config file")
	stripCount := fs.Int("strip-count", defaultStripCount, "Pixels in the simulated strip")
	logLevelStr := fs.String("log-level", "warn", "Log level: error, warn, info, debug")
	showHelp := fs.Bool("help", false, "Print help message")

	_ = fs.Parse(os.Args[2:])

	if *showHelp {
		fs.PrintDefaults()
		return
	}

	cfg := DefaultConfig()
	if *configPath != "" {
		loaded, err := LoadConfigFile(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "strip-count" {
			cfg.Strip.Count = *stripCount
		}
	})

	// The terminal front panel replaces the hardware surfaces; logs above
	// warn level would scribble over it.
	cfg.Input.Backend = "none"
	cfg.Logging.Level = *logLevelStr
	cfg.Logging.Journal = false

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	logger, err := setupLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	if err := runSim(cfg, logger); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
