// Copyright (c) 2024 mStar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Command wlheadlessd runs the headless compositor core standalone: it
// initializes a compositor, optionally starts the interactive REPL, and
// blocks in the compositor's own event loop until terminated. A real
// embedder (a remote-desktop server) would instead link internal/compositor
// and drive ProcessEvents itself; this binary exists for manual testing and
// the -tool introspection mode.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/swaywm/go-wlroots/wlroots"
	"gitlab.com/mstarongitlab/goutils/sliceutils"

	"github.com/xpra-org/wlheadless/common/ipc"
	"github.com/xpra-org/wlheadless/config"
	"github.com/xpra-org/wlheadless/internal/compositor"
)

var (
	configPath = flag.String("config", "config.toml", "Path to the config file")
	toolMode   = flag.Bool("tool", false, "Start as an introspection tool instead of a compositor")
	help       = flag.Bool("help", false, "Show this help message")

	utilAction      = flag.String("action", "outputs", "Tool action: outputs, modes, windows")
	outputSelection = flag.String("output", "", "Output to filter on for -action modes")
)

var currentConfig config.Config

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logrus.WithError(err).Warnln("failed loading config, using defaults")
		cfg = config.Default()
	}
	currentConfig = cfg

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	if *toolMode {
		utilMain(&cfg)
		return
	}
	wlMain(&cfg)
}

// compositorOptions maps the loaded config onto the compositor's own
// Options type, resolving RuntimeDir the way config.Config documents.
func compositorOptions(cfg *config.Config) compositor.Options {
	return compositor.Options{
		OutputWidth:     cfg.OutputWidth,
		OutputHeight:    cfg.OutputHeight,
		SeatName:        cfg.SeatName,
		KeyboardLayout:  cfg.KeyboardLayout,
		KeyboardModel:   cfg.KeyboardModel,
		KeyboardVariant: cfg.KeyboardVariant,
		KeyboardOptions: cfg.KeyboardOptions,
		RuntimeDir:      cfg.ResolvedRuntimeDir(),
	}
}

func fatal(msg string, err error) {
	fmt.Printf("error %s: %s\n", msg, err)
	os.Exit(1)
}

// wlMain brings a compositor instance up and runs it, mirroring
// wl-main.go's wlMain.
func wlMain(cfg *config.Config) {
	wlroots.OnLog(wlroots.LogImportanceError, func(importance wlroots.LogImportance, msg string) {
		switch importance {
		case wlroots.LogImportanceDebug:
			logrus.Debugln(msg)
		case wlroots.LogImportanceInfo:
			logrus.Infoln(msg)
		case wlroots.LogImportanceError:
			logrus.Errorln(msg)
		case wlroots.LogImportanceSilent:
			return
		}
	})

	comp := compositor.New(compositorOptions(cfg))
	if _, err := comp.Initialize(); err != nil {
		fatal("initializing compositor", err)
	}
	defer comp.Cleanup()

	switch cfg.StartType {
	case config.START_REPL:
		go replRunner(comp)
	case config.START_SINGLE_COMMAND:
		if cfg.StartCommand != nil {
			go runSingleCommand(comp, *cfg.StartCommand)
		}
	case config.START_NONE:
		// Nothing else to wire up.
	}

	if err := comp.Run(); err != nil {
		fatal("running compositor", err)
	}
}

// utilMain implements the -tool introspection mode, mirroring
// util-main.go's utilMain.
func utilMain(cfg *config.Config) {
	if *help {
		utilHelpMessage()
		return
	}

	comp := compositor.New(compositorOptions(cfg))
	if _, err := comp.Initialize(); err != nil {
		logrus.WithError(err).Fatalln("initializing compositor")
	}
	defer comp.Cleanup()

	switch *utilAction {
	case "windows":
		utilListWindows(comp)
	case "modes":
		if *outputSelection == "" {
			fmt.Println("Output has to be specified")
			return
		}
		utilListOutputModes(comp, *outputSelection)
	default:
		utilListOutputs(comp)
	}
}

func utilHelpMessage() {
	fmt.Println("---- Help message for wlheadlessd in tool mode ----")
	fmt.Println("\nIn tool mode, wlheadlessd offers introspection instead of running a full session")
	fmt.Println("\nGeneral flags:")
	fmt.Println("\t-config: Path to the config file. Default is \"config.toml\"")
	fmt.Println("\t-tool: Start as a tool instead of a compositor")
	fmt.Println("\t-help: Show this help message")
	fmt.Println("\nTool flags:")
	fmt.Println("\t-action: outputs (default), modes, or windows")
	fmt.Println("\t-output: output name to show modes for. Required for -action modes")
}

func utilListOutputs(comp *compositor.Compositor) {
	fmt.Printf("Socket: %s\n", comp.SocketName())
	for i, output := range comp.Outputs() {
		fmt.Printf("Output %v: %s\n", i, output.Name())
	}
}

func utilListOutputModes(comp *compositor.Compositor, outputName string) {
	outputs := comp.Outputs()
	filtered := sliceutils.Filter(outputs, func(output wlroots.Output) bool {
		return output.Name() == outputName
	})
	if len(filtered) == 0 {
		fmt.Printf("Output %s not found\n", outputName)
		return
	}
	modes := filtered[0].Modes()
	fmt.Printf("Modes for output %s:\n", outputName)
	for _, mode := range modes {
		if mode.Preferred() {
			fmt.Printf("\t- %dx%d@%d(Ratio: %d) (preferred)\n", mode.Width(), mode.Height(), mode.Refresh(), mode.PictureAspectRatio())
		} else {
			fmt.Printf("\t- %dx%d@%d(Ratio: %d)\n", mode.Width(), mode.Height(), mode.Refresh(), mode.PictureAspectRatio())
		}
	}
}

func utilListWindows(comp *compositor.Compositor) {
	resp := windowResponse(comp.Windows())
	fmt.Printf("Windows found: %d\n", resp.WindowCount)
	for _, w := range resp.Windows {
		fmt.Printf("wid=%d title=%q app_id=%q mapped=%v %dx%d\n", w.WID, w.Title, w.AppID, w.Mapped, w.Width, w.Height)
	}
}

// windowResponse adapts the compositor's introspection snapshot into the
// WindowRequest/WindowResponse wire shape common/ipc defines, the same way
// a future out-of-process tool-mode caller would receive it.
func windowResponse(windows []compositor.WindowSnapshot) ipc.WindowResponse {
	infos := make([]ipc.WindowInfo, 0, len(windows))
	for _, w := range windows {
		infos = append(infos, ipc.WindowInfo{
			WID:    w.WID,
			Title:  w.Title,
			AppID:  w.AppID,
			Mapped: w.Mapped,
			Width:  w.Width,
			Height: w.Height,
		})
	}
	return ipc.WindowResponse{Windows: infos, WindowCount: len(infos)}
}
