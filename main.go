package main

import (
	"embed"
	"fmt"
	"os"

	"github.com/chazu/structview/pkg/config"
	"github.com/chazu/structview/pkg/logging"
	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"go.uber.org/zap"
)

//go:embed all:frontend/dist
var assets embed.FS

// configEnv names a settings file to load instead of the defaults.
const configEnv = "STRUCTVIEW_CONFIG"

func loadSettings() (config.Settings, error) {
	path := os.Getenv(configEnv)
	if path == "" {
		return config.Default(), nil
	}
	return config.LoadFile(path)
}

func main() {
	settings, err := loadSettings()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log, err := logging.New(settings.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync() //nolint:errcheck

	app := NewApp(settings, log)

	err = wails.Run(&options.App{
		Title:  "structview",
		Width:  1280,
		Height: 800,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		BackgroundColour: &options.RGBA{R: 30, G: 30, B: 30, A: 1},
		OnStartup:        app.startup,
		Bind: []interface{}{
			app,
		},
	})
	if err != nil {
		log.Fatal("wails run failed", zap.Error(err))
	}
}
