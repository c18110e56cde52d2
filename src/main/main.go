package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"go.uber.org/zap"

	"pop-translate/src/clipboard"
	"pop-translate/src/display"
	"pop-translate/src/eventloop"
	"pop-translate/src/hotkey"
	"pop-translate/src/logutil"
	"pop-translate/src/notification"
	"pop-translate/src/popup"
	"pop-translate/src/runtimeinit"
	"pop-translate/src/singleinstance"
	"pop-translate/src/tray"
)

const (
	appID           = "com.github.pop-translate"
	appTitle        = "Pop Translate"
	delegateTimeout = 2 * time.Second
)

var version = "dev"

type mainOptions struct {
	show    bool
	version bool
}

// parseArgs accepts both -flag and --flag forms.
func parseArgs(args []string, errOut io.Writer) (mainOptions, error) {
	var opts mainOptions
	fs := flag.NewFlagSet(appTitle, flag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.BoolVar(&opts.show, "show", false, "Ask the running instance to open the panel and exit")
	fs.BoolVar(&opts.version, "version", false, "Print the version and exit")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	return opts, nil
}

type showClient interface {
	Show(ctx context.Context) (bool, error)
}

// runShow delegates a panel request to the resident and returns the process exit code.
func runShow(ctx context.Context, client showClient, out io.Writer) int {
	log := logutil.Named("main")
	ctx, cancel := context.WithTimeout(ctx, delegateTimeout)
	defer cancel()

	delegated, err := client.Show(ctx)
	switch {
	case err != nil:
		log.Error("delegation failed", zap.Error(err))
		fmt.Fprintf(out, "failed to reach the running instance: %v\n", err)
		return 1
	case !delegated:
		log.Info("no resident instance")
		fmt.Fprintln(out, "no running instance found")
		return 1
	}
	log.Info("delegated show to resident")
	return 0
}

func tooltip(key string) string {
	return fmt.Sprintf("%s - double-tap %s to look up the selection", appTitle, key)
}

func main() {
	opts, err := parseArgs(os.Args[1:], os.Stderr)
	if err != nil {
		os.Exit(2)
	}
	if opts.version {
		fmt.Println(version)
		return
	}

	// A --show launch only needs the port and logging.
	cfg, err := runtimeinit.Bootstrap(runtimeinit.Options{InitClipboard: !opts.show})
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		if !opts.show {
			notification.ShowBlockingError("Pop Translate failed to start", err.Error())
		}
		os.Exit(1)
	}
	defer logutil.Sync()
	log := logutil.Named("main")

	if opts.show {
		code := runShow(context.Background(), singleinstance.NewClient(cfg.SingleInstancePort), os.Stderr)
		logutil.Sync()
		os.Exit(code)
	}

	// Ensure DPI awareness before creating any windows or querying metrics
	enableDPIAwareness()

	if singleinstance.DetectResident(context.Background(), cfg.SingleInstancePort) {
		log.Warn("resident already running", zap.Int("port", cfg.SingleInstancePort))
		fmt.Printf("one is already running on port %d\n", cfg.SingleInstancePort)
		logutil.Sync()
		os.Exit(1)
	}
	logDisplays(log)

	a := fyneapp.NewWithID(appID)
	panel := popup.New(a, popup.Options{
		Title:  appTitle,
		Width:  float32(cfg.PanelWidth),
		Height: float32(cfg.PanelHeight),
	})

	loop, err := eventloop.New(cfg, eventloop.Deps{
		Window:    panel,
		Input:     hotkey.NewSource(),
		Clipboard: clipboard.System{},
		Cursor:    display.CursorPosition,
		Server:    singleinstance.NewServer(cfg.SingleInstancePort),
		Watch:     panel.Watch,
	})
	if err != nil {
		fatal("Invalid configuration", fmt.Sprintf("Failed to start: %v\n\nPlease check SHORTCUT_KEY in your .env file.", err))
	}
	panel.OnClosed(loop.State().ResetPins)

	log.Info("pop-translate initialized",
		zap.String("version", version),
		zap.String("shortcut", cfg.ShortcutKey),
		zap.Bool("release_transient_pin_on_focus", cfg.ReleaseTransientPinOnFocus))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	trayIcon, _ := tray.New(tray.Config{
		Title:   appTitle,
		Tooltip: tooltip(cfg.ShortcutKey),
		OnUnpin: loop.State().ResetPins,
		OnExit:  cancel,
	})
	go trayIcon.Run()
	defer trayIcon.Destroy()

	// Handle SIGINT/SIGTERM
	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-ch:
			cancel()
		case <-ctx.Done():
		}
	}()

	go func() {
		if err := loop.Run(ctx); err != nil {
			log.Error("event loop stopped", zap.Error(err))
		}
		fyne.Do(a.Quit)
	}()

	// fyne owns the main thread until Quit.
	a.Run()
	cancel()
}

// fatal reports a startup failure to the user and exits.
func fatal(title, message string) {
	notification.ShowBlockingError(title, message)
	logutil.Sync()
	os.Exit(1)
}

func logDisplays(log *zap.Logger) {
	bounds := display.Bounds()
	log.Info("detected displays", zap.Int("count", len(bounds)))
	for i, b := range bounds {
		log.Debug("display", zap.Int("index", i), zap.Stringer("bounds", b))
	}
}
