package tray

import (
	"sync"

	"github.com/getlantern/systray"
	"go.uber.org/zap"

	"pop-translate/src/logutil"
)

type Config struct {
	Title   string
	Tooltip string
	// OnUnpin is called from the "Unpin panel" item.
	OnUnpin func()
	// OnExit is called once when the user picks "Quit" or the tray shuts down.
	OnExit func()
}

// Tray is the notification-area icon and its menu.
type Tray struct {
	cfg  Config
	log  *zap.Logger
	once sync.Once
	quit chan struct{}
}

func New(cfg Config) (*Tray, error) {
	if cfg.Title == "" {
		cfg.Title = "Pop Translate"
	}
	if cfg.Tooltip == "" {
		cfg.Tooltip = cfg.Title
	}
	return &Tray{
		cfg:  cfg,
		log:  logutil.Named("tray"),
		quit: make(chan struct{}),
	}, nil
}

// Run blocks until the tray is destroyed.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.exit)
}

// Destroy removes the tray icon.
func (t *Tray) Destroy() {
	systray.Quit()
}

func (t *Tray) onReady() {
	if icon := Icon(); icon != nil {
		systray.SetIcon(icon)
	}
	systray.SetTitle(t.cfg.Title)
	systray.SetTooltip(t.cfg.Tooltip)

	mUnpin := systray.AddMenuItem("Unpin panel", "Let the panel hide when it loses focus")
	systray.AddSeparator()
	mQuit := systray.AddMenuItem("Quit", "Quit the application")
	t.log.Info("tray ready", zap.String("tooltip", t.cfg.Tooltip))

	go func() {
		for {
			select {
			case <-mUnpin.ClickedCh:
				t.unpin()
			case <-mQuit.ClickedCh:
				t.log.Info("quit requested from tray")
				systray.Quit()
				return
			case <-t.quit:
				return
			}
		}
	}()
}

func (t *Tray) unpin() {
	t.log.Debug("unpin requested from tray")
	if t.cfg.OnUnpin != nil {
		t.cfg.OnUnpin()
	}
}

func (t *Tray) exit() {
	t.once.Do(func() {
		close(t.quit)
		if t.cfg.OnExit != nil {
			t.cfg.OnExit()
		}
	})
}
