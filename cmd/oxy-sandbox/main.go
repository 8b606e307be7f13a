// Command oxy-sandbox opens a window and runs one of the sandbox demos, with its parameter
// panel served to the browser.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Carmen-Shannon/oxy-sandbox/config"
	"github.com/Carmen-Shannon/oxy-sandbox/demos"
	"github.com/Carmen-Shannon/oxy-sandbox/engine"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/loader"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/renderer"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/window"
)

func main() {
	configPath := flag.String("config", "", "path to a TOML config file; defaults are used when empty")
	demoName := flag.String("demo", "box", "demo to run: "+strings.Join(demos.Names(), ", "))
	cameraPanel := flag.Bool("camera-panel", false, "add the camera position and target folders to the panel")
	verbose := flag.Bool("verbose", false, "log ignored resizes, texture loads and panel edits")
	flag.Parse()

	if err := run(*configPath, *demoName, *cameraPanel, *verbose); err != nil {
		log.Printf("oxy-sandbox: %v", err)
		os.Exit(1)
	}
}

func run(configPath, demoName string, cameraPanel, verbose bool) error {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if verbose {
		cfg.Assets.Verbose = true
		cfg.Panel.Verbose = true
	}

	rendererOpts, err := cfg.Renderer.Options()
	if err != nil {
		return fmt.Errorf("renderer config: %w", err)
	}

	// ── Window + Renderer ───────────────────────────────────────────────
	w := cfg.Window
	windowOpts := []window.WindowBuilderOption{
		window.WithTitle(fmt.Sprintf("%s - %s", w.Title, demoName)),
		window.WithSize(w.Width, w.Height),
	}
	// Zero limits keep the window's own defaults.
	if w.MinWidth > 0 && w.MinHeight > 0 {
		windowOpts = append(windowOpts, window.WithMinSize(w.MinWidth, w.MinHeight))
	}
	if w.MaxWidth > 0 && w.MaxHeight > 0 {
		windowOpts = append(windowOpts, window.WithMaxSize(w.MaxWidth, w.MaxHeight))
	}
	win := window.NewWindow(windowOpts...)
	defer win.Close()

	r := renderer.NewRenderer(win, rendererOpts...)
	defer r.Close()

	// ── Assets ──────────────────────────────────────────────────────────
	textures := loader.NewTextureLoader(cfg.Assets.Options()...)
	defer textures.Close()

	// ── Demo ────────────────────────────────────────────────────────────
	d, err := demos.New(demoName, demos.Env{
		Config:      cfg,
		Aspect:      float64(win.Width()) / float64(max(win.Height(), 1)),
		Loader:      textures,
		CameraPanel: cameraPanel,
	})
	if err != nil {
		return err
	}
	d.Controls.Bind(win)

	if cfg.Assets.Watch {
		if err := textures.Watch(); err != nil {
			log.Printf("[Loader] hot reload disabled: %v", err)
		}
	}

	// ── Engine ──────────────────────────────────────────────────────────
	eng, err := engine.NewEngine(
		engine.WithWindow(win),
		engine.WithRenderTarget(r),
		engine.WithLoader(textures),
		engine.WithProfiling(cfg.Profiling.Enabled, cfg.Profiling.Options()...),
		engine.WithPanel(cfg.Panel.Enabled, cfg.Panel.Options()...),
		engine.WithVerbose(verbose),
	)
	if err != nil {
		return err
	}
	if err := eng.Mount(d.Context(r), d.GUI); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	printBanner(demoName, cfg)
	return eng.Run(ctx)
}

// bannerWidth is the number of columns between the banner's side borders.
const bannerWidth = 54

func printBanner(demoName string, cfg config.Config) {
	for _, line := range bannerLines(demoName, cfg) {
		fmt.Println(line)
	}
}

// bannerLines lays out the startup banner; every line is bannerWidth+2 runes wide.
func bannerLines(demoName string, cfg config.Config) []string {
	rule := strings.Repeat("═", bannerWidth)
	row := func(text string) string {
		if r := []rune(text); len(r) > bannerWidth {
			text = string(r[:bannerWidth])
		}
		return fmt.Sprintf("║%-*s║", bannerWidth, text)
	}

	lines := []string{
		"╔" + rule + "╗",
		row("  oxy-sandbox - " + demoName),
		"╠" + rule + "╣",
		row("  Camera: Left drag=Orbit  Right drag=Pan"),
		row("          Scroll=Zoom  WASD/QE=Move"),
	}
	if cfg.Panel.Enabled {
		lines = append(lines, row("  Panel:  http://"+cfg.Panel.Addr))
	}
	return append(lines, "╚"+rule+"╝")
}
