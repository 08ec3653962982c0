package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gitlab.com/mstarongitlab/goutils/sliceutils"

	"github.com/xpra-org/wlheadless/config"
	"github.com/xpra-org/wlheadless/internal/compositor"
	"github.com/xpra-org/wlheadless/repl"
	"github.com/xpra-org/wlheadless/util"
	"github.com/xpra-org/wlheadless/util/wrappers"
)

// replRunner starts an interactive console for poking at a running
// compositor instance: "list", "focus", and "resize" operate on the
// compositor's wid registry, alongside the generic "run" and "dump-config"
// commands for shelling out and inspecting configuration.
func replRunner(comp *compositor.Compositor) {
	commandRepl := repl.NewRepl(wrappers.NewReaderWrapper(os.Stdin), wrappers.NewWriterWrapper(os.Stdout))
	logrus.Debugln("Starting repl")
	_ = commandRepl.Run(func(input string, r *repl.Repl) (string, error) {
		switch {
		case input == "quit":
			return "Quitting", errors.New("normal stop")

		case input == "list" || strings.HasPrefix(input, "list "):
			windows := comp.Windows()
			if needle := strings.TrimPrefix(input, "list "); needle != "list" && needle != "" {
				windows = sliceutils.Filter(windows, func(w compositor.WindowSnapshot) bool {
					return strings.Contains(w.Title, needle) || strings.Contains(w.AppID, needle)
				})
			}
			resp := windowResponse(windows)
			var b strings.Builder
			for _, w := range resp.Windows {
				fmt.Fprintf(&b, "wid=%d title=%q app_id=%q mapped=%v %dx%d\n",
					w.WID, w.Title, w.AppID, w.Mapped, w.Width, w.Height)
			}
			if resp.WindowCount == 0 {
				return "(no windows)", nil
			}
			return strings.TrimRight(b.String(), "\n"), nil

		case strings.HasPrefix(input, "focus "):
			var widStr, focusedStr string
			util.Unpack(strings.Fields(strings.TrimPrefix(input, "focus ")), &widStr, &focusedStr)
			wid, err := strconv.ParseUint(widStr, 10, 64)
			if err != nil {
				return "", fmt.Errorf("bad wid %q: %w", widStr, err)
			}
			if err := comp.Focus(wid, focusedStr != "false"); err != nil {
				return "", err
			}
			return fmt.Sprintf("focused wid %d", wid), nil

		case strings.HasPrefix(input, "resize "):
			var widStr, wStr, hStr string
			util.Unpack(strings.Fields(strings.TrimPrefix(input, "resize ")), &widStr, &wStr, &hStr)
			wid, err := strconv.ParseUint(widStr, 10, 64)
			if err != nil {
				return "", fmt.Errorf("bad wid %q: %w", widStr, err)
			}
			w, _ := strconv.Atoi(wStr)
			h, _ := strconv.Atoi(hStr)
			if err := comp.Resize(wid, w, h); err != nil {
				return "", err
			}
			return fmt.Sprintf("resized wid %d to %dx%d", wid, w, h), nil

		case strings.HasPrefix(input, "run "):
			parts := strings.Split(strings.TrimPrefix(input, "run "), " ")
			args := parts[1:]
			cmd := exec.Command(parts[0], args...)
			cmd.Stdout = r.Output
			cmd.Stderr = r.Output
			go func(cmd *exec.Cmd, cmdString string) {
				if err := cmd.Start(); err != nil {
					logrus.WithError(err).WithField("command", cmdString).Errorln("Command failed to start")
					return
				}
				err := cmd.Wait()
				if exiterr, ok := err.(*exec.ExitError); ok {
					logrus.WithError(err).WithFields(logrus.Fields{
						"exit-code": exiterr.ExitCode(),
						"command":   cmdString,
					}).Warningln("Bad command completion")
				}
			}(cmd, strings.TrimPrefix(input, "run "))
			return "Running " + parts[0], nil

		case input == "dump-config":
			out, err := config.Dump(currentConfig)
			if err != nil {
				return "", err
			}
			return out, nil

		default:
			return input, nil
		}
	})
}

// runSingleCommand implements config.START_SINGLE_COMMAND: block a fixed
// grace period after sending the one configured command, then return.
func runSingleCommand(comp *compositor.Compositor, command string) {
	cmd := exec.Command("sh", "-c", command)
	if err := cmd.Start(); err != nil {
		logrus.WithError(err).WithField("command", command).Errorln("startup command failed to start")
		return
	}
	go func() {
		if err := cmd.Wait(); err != nil {
			logrus.WithError(err).WithField("command", command).Warnln("startup command exited with error")
		}
	}()
	time.Sleep(time.Second)
}
