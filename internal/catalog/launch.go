package catalog

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/justyntemme/launchpad/internal/debug"
	"github.com/justyntemme/launchpad/internal/model"
)

var fieldCodes = strings.NewReplacer(
	"%%", "%",
	"%f", "", "%F", "", "%u", "", "%U", "",
	"%i", "", "%c", "", "%k", "",
	"%d", "", "%D", "", "%n", "", "%N", "", "%v", "", "%m", "",
)

// CleanExec removes desktop entry field codes from an Exec line.
func CleanExec(cmd string) string {
	return strings.Join(strings.Fields(fieldCodes.Replace(cmd)), " ")
}

// Launch starts the application's command through the shell without
// waiting for it.
func Launch(it model.Item) error {
	if it.IsDir {
		return fmt.Errorf("launch %s: is a folder", it.Key)
	}
	cmd := CleanExec(it.Exec)
	if cmd == "" {
		return fmt.Errorf("launch %s: empty command", it.Key)
	}
	debug.Log(debug.CATALOG, "launch %s: %s", it.Key, cmd)
	c := exec.Command("sh", "-c", cmd)
	if err := c.Start(); err != nil {
		return fmt.Errorf("launch %s: %w", it.Key, err)
	}
	go c.Wait()
	return nil
}
