package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/WKDev/Glide/internal/config"
	"github.com/WKDev/Glide/internal/engine"
	"github.com/WKDev/Glide/internal/hook"
	"github.com/WKDev/Glide/internal/ipc"
	"github.com/WKDev/Glide/internal/platform"
	"github.com/WKDev/Glide/internal/procs"
)

// eventLooper is implemented by backends that need a blocking event
// loop on the main goroutine (X11; the grab callbacks fire there).
type eventLooper interface {
	EventLoop()
	StopEventLoop()
}

// daemon implements ipc.Controller over the gesture engine.
type daemon struct {
	store      *config.Store
	engine     *engine.Engine
	backend    platform.Backend
	configPath string
	startTime  time.Time
}

func (d *daemon) Config() *config.Config {
	return d.store.Current()
}

func (d *daemon) ApplyConfig(cfg *config.Config) error {
	if err := cfg.Save(d.configPath); err != nil {
		return fmt.Errorf("failed to persist config: %w", err)
	}
	return d.engine.ApplyConfig(cfg)
}

func (d *daemon) SetEnabled(enabled bool) error {
	return d.engine.SetEnabled(enabled)
}

func (d *daemon) Reload() error {
	cfg, err := config.LoadFromPath(d.configPath)
	if err != nil {
		return err
	}
	return d.engine.ApplyConfig(cfg)
}

func (d *daemon) Status() ipc.StatusData {
	return ipc.StatusData{
		DaemonRunning: true,
		Enabled:       d.engine.Enabled(),
		GestureActive: d.engine.GestureActive(),
		Platform:      runtime.GOOS,
		UptimeSeconds: int64(time.Since(d.startTime).Seconds()),
	}
}

func (d *daemon) Processes() ([]string, error) {
	return procs.Names(d.backend)
}

func runDaemon() {
	configPath, err := config.DefaultConfigPath()
	if err != nil {
		log.Fatalf("Failed to resolve config path: %v", err)
	}
	cfg, err := config.LoadFromPath(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	log.Printf("Configuration loaded (move: %s, resize: %s+%s)",
		cfg.MoveModifier, cfg.ResizeModifier1, cfg.ResizeModifier2)

	backend, err := platform.NewBackend()
	if err != nil {
		log.Fatalf("Failed to connect to window system: %v", err)
	}
	defer backend.Close()

	source, err := hook.NewSource(backend)
	if err != nil {
		log.Fatalf("Failed to create input hook: %v", err)
	}

	store := config.NewStore(cfg)
	eng := engine.New(backend, source, store)
	if err := eng.Start(); err != nil {
		// A failed hook install leaves the daemon up but inert; IPC can
		// retry with an enable command.
		log.Printf("Warning: input hook not installed: %v", err)
	}

	d := &daemon{
		store:      store,
		engine:     eng,
		backend:    backend,
		configPath: configPath,
		startTime:  time.Now(),
	}

	ipcServer, err := ipc.NewServer(d)
	if err != nil {
		log.Fatalf("Failed to create IPC server: %v", err)
	}
	if err := ipcServer.Start(); err != nil {
		log.Fatalf("Failed to start IPC server: %v", err)
	}

	log.Println("glide daemon started successfully")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)

	done := make(chan struct{})
	go func() {
		for sig := range sigCh {
			switch sig {
			case syscall.SIGHUP:
				log.Println("Received SIGHUP, reloading config...")
				if err := d.Reload(); err != nil {
					log.Printf("Config reload failed: %v", err)
					continue
				}
				log.Println("Config reloaded successfully")

			case os.Interrupt, syscall.SIGTERM:
				log.Println("Shutting down glide daemon...")
				eng.Stop()
				ipcServer.Stop()
				if looper, ok := backend.(eventLooper); ok {
					looper.StopEventLoop()
				}
				close(done)
				return
			}
		}
	}()

	if looper, ok := backend.(eventLooper); ok {
		log.Println("Entering event loop...")
		looper.EventLoop()
		<-done
	} else {
		<-done
	}
}
