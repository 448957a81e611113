// Command tbhist normalizes TensorBoard histogram series for display.
package main

import (
	"os"

	"github.com/spf13/afero"

	"github.com/tbviz/histograms/cmd/tbhist/root"
	"github.com/tbviz/histograms/internal/app"
)

func main() {
	os.Exit(mainWithExitCode())
}

func mainWithExitCode() int {
	a := app.New(afero.NewOsFs())
	defer a.Close()

	if err := root.NewRootCmd(a).Execute(); err != nil {
		a.Logger.Error("tbhist: command failed", "error", err)
		return 1
	}
	return 0
}
