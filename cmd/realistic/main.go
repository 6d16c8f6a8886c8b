package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"RealisticRender/internal/config"
	"RealisticRender/internal/demo"
	"RealisticRender/internal/engine"
	"RealisticRender/internal/logger"

	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "path to a JSON, TOML or YAML config file (defaults are used when empty)")
	watch := flag.Bool("watch", false, "reapply the debug section whenever the config file changes")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "realistic: %v\n", err)
		os.Exit(1)
	}
	logger.InitWithOptions(logger.Options{Development: cfg.Log.Development, Level: cfg.Log.Level})
	defer logger.Sync()

	cfg.Assets.Root = findAssetRoot(cfg.Assets.Root)
	logger.Log.Info("Starting", zap.String("config", *configPath), zap.String("assets", cfg.Assets.Root))

	if err := run(cfg, *configPath, *watch); err != nil {
		logger.Log.Error("Exiting", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(cfg config.Config, configPath string, watch bool) error {
	eng, err := engine.New(cfg.Window)
	if err != nil {
		return err
	}
	defer eng.Terminate()

	d, err := demo.Build(cfg, demo.Deps{Queue: eng.Queue, Renderer: eng.Renderer})
	if err != nil {
		return err
	}
	if watch && configPath != "" {
		stop, err := config.Watch(configPath, func(c config.Config) {
			eng.Queue.Post(func() { d.ApplyDebug(c.Debug) })
		})
		if err != nil {
			return err
		}
		defer stop()
	}
	return eng.Run(d.Scene, d.Camera, d.Controls, d.Panel)
}

// findAssetRoot resolves a relative asset root against the working
// directory first and then the executable's directory.
func findAssetRoot(root string) string {
	if filepath.IsAbs(root) {
		return root
	}
	if _, err := os.Stat(root); err == nil {
		return root
	}
	exe, err := os.Executable()
	if err != nil {
		return root
	}
	candidate := filepath.Join(filepath.Dir(exe), root)
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return root
}
