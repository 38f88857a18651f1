package web

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"

	"go.uber.org/zap"

	"github.com/Zer0will/chesschamp/internal/obslog"
)

// Launcher starts the desktop game binary with the chosen settings.
type Launcher interface {
	Launch(skill int, color string) error
}

type processLauncher struct {
	binary string
}

// NewProcessLauncher spawns the game binary at the given path.
func NewProcessLauncher(binary string) Launcher {
	return &processLauncher{binary: binary}
}

func (l *processLauncher) Launch(skill int, color string) error {
	if _, err := os.Stat(l.binary); err != nil {
		return fmt.Errorf("game binary %s: %w", l.binary, err)
	}

	colorVal := 0
	if color == "black" {
		colorVal = 1
	}

	cmd := exec.Command(l.binary,
		"--skill", strconv.Itoa(skill),
		"--color", strconv.Itoa(colorVal),
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start game binary: %w", err)
	}

	obslog.L().Info("game launched",
		zap.Int("pid", cmd.Process.Pid),
		zap.Int("skill", skill),
		zap.String("color", color))

	// reap the child so finished games do not linger as zombies
	go func() {
		if err := cmd.Wait(); err != nil {
			obslog.L().Warn("game exited with error", zap.Error(err))
		}
	}()
	return nil
}
