package daemon

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/leonardotrapani/echoscribe/internal/bus"
	"github.com/leonardotrapani/echoscribe/internal/clipboard"
	"github.com/leonardotrapani/echoscribe/internal/config"
	"github.com/leonardotrapani/echoscribe/internal/notify"
	"github.com/leonardotrapani/echoscribe/internal/pipeline"
	"github.com/leonardotrapani/echoscribe/internal/recording"
	"github.com/leonardotrapani/echoscribe/internal/transcriber"
	"github.com/leonardotrapani/echoscribe/internal/web"
)

const clientReadTimeout = 5 * time.Second

type Copier interface {
	Copy(ctx context.Context, text string) error
}

// Options lets callers replace any collaborator. Nil fields are built from
// the configuration.
type Options struct {
	Manager     *config.Manager
	Config      *config.Config // used when Manager is nil
	Capturer    pipeline.Capturer
	Transcriber pipeline.Transcriber
	Notifier    notify.Notifier
	Copier      Copier
}

type Daemon struct {
	mu       sync.RWMutex
	config   *config.Config
	notifier notify.Notifier
	copier   Copier

	// injected collaborators are never replaced on reload
	fixedNotifier    bool
	fixedCopier      bool
	fixedTranscriber bool

	manager     *config.Manager
	transcriber *swapTranscriber
	controller  *pipeline.Controller

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func New(opts Options) (*Daemon, error) {
	cfg := opts.Config
	if opts.Manager != nil {
		cfg = opts.Manager.GetConfig()
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	d := &Daemon{
		config:           cfg,
		manager:          opts.Manager,
		notifier:         opts.Notifier,
		copier:           opts.Copier,
		fixedNotifier:    opts.Notifier != nil,
		fixedCopier:      opts.Copier != nil,
		fixedTranscriber: opts.Transcriber != nil,
	}

	t := opts.Transcriber
	if t == nil {
		if cfg.Transcription.APIKey == "" {
			if err := cfg.ResolveCredential(); err != nil {
				return nil, err
			}
		}
		if d.manager != nil {
			d.manager.SetAPIKey(cfg.Transcription.APIKey)
		}
		client, err := transcriber.New(cfg.ToTranscriberConfig())
		if err != nil {
			return nil, fmt.Errorf("failed to create transcriber: %w", err)
		}
		t = client
	}
	d.transcriber = &swapTranscriber{current: t}

	if d.notifier == nil {
		d.notifier = notifierFor(cfg)
	}
	if d.copier == nil {
		d.copier = clipboard.New(cfg.ToClipboardConfig())
	}

	capturer := opts.Capturer
	if capturer == nil {
		rc := cfg.ToRecordingConfig()
		capturer = recording.NewRecorder(rc, recording.NewPipeWireSource(rc))
	}

	d.ctx, d.cancel = context.WithCancel(context.Background())
	d.controller = pipeline.New(capturer, d.transcriber)
	return d, nil
}

func notifierFor(cfg *config.Config) notify.Notifier {
	if !cfg.Notifications.Enabled {
		return notify.Nop{}
	}
	return notify.New(cfg.Notifications.Type)
}

// Controller exposes the application state machine, mainly for tests.
func (d *Daemon) Controller() *pipeline.Controller {
	return d.controller
}

// Shutdown asks a running daemon to exit.
func (d *Daemon) Shutdown() {
	d.cancel()
}

func (d *Daemon) Run() error {
	defer d.controller.Close()

	if err := bus.CheckExistingDaemon(); err != nil {
		return err
	}

	ln, err := bus.Listen()
	if err != nil {
		return fmt.Errorf("failed to listen on control socket: %w", err)
	}
	defer ln.Close()

	if err := bus.CreatePidFile(); err != nil {
		return fmt.Errorf("failed to create PID file: %w", err)
	}
	defer bus.RemovePidFile()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case sig := <-sigCh:
			log.Printf("Received signal %v, shutting down gracefully", sig)
			d.cancel()
		case <-d.ctx.Done():
		}
	}()

	// Close the listener when context is done
	go func() {
		<-d.ctx.Done()
		ln.Close()
	}()

	if d.manager != nil {
		d.manager.OnReload(d.applyConfig)
		if err := d.manager.StartWatching(d.ctx); err != nil {
			log.Printf("Daemon: config hot reload disabled: %v", err)
		} else {
			defer d.manager.Stop()
		}
	}

	d.startWeb()
	d.startEventWatcher()
	defer d.wg.Wait()

	log.Printf("Daemon started, listening on socket")

	for {
		c, err := ln.Accept()
		if err != nil {
			if d.ctx.Err() != nil {
				log.Printf("Shutdown requested")
				return nil
			}
			log.Printf("Accept error: %v", err)
			d.cancel()
			return fmt.Errorf("accept failed: %w", err)
		}
		go d.handle(c)
	}
}

func (d *Daemon) startWeb() {
	d.mu.RLock()
	cfg := d.config.Web
	d.mu.RUnlock()

	if !cfg.Enabled {
		return
	}

	wc := web.DefaultConfig()
	wc.Addr = cfg.Addr
	srv := web.New(wc, d.controller, copierFunc(d.copy))

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		if err := srv.ListenAndServe(d.ctx); err != nil {
			log.Error("Daemon: web server stopped", "addr", cfg.Addr, "err", err)
		}
	}()
}

func (d *Daemon) handle(c net.Conn) {
	defer c.Close()

	c.SetReadDeadline(time.Now().Add(clientReadTimeout))
	line, err := bufio.NewReader(c).ReadString('\n')
	if err != nil {
		log.Printf("Client read error: %v", err)
		fmt.Fprint(c, bus.Err(fmt.Sprintf("read_error: %v", err)))
		return
	}

	req, err := bus.ParseRequest(line)
	if err != nil {
		fmt.Fprint(c, bus.Err(err.Error()))
		return
	}

	fmt.Fprint(c, d.Execute(req))
}

// copy sends text to the current clipboard copier with its own deadline.
func (d *Daemon) copy(ctx context.Context, text string) error {
	d.mu.RLock()
	copier := d.copier
	d.mu.RUnlock()
	return copier.Copy(ctx, text)
}

type copierFunc func(ctx context.Context, text string) error

func (f copierFunc) Copy(ctx context.Context, text string) error { return f(ctx, text) }
