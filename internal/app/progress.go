package app

import (
	"fmt"
	"sync"

	"github.com/gookit/color"

	"github.com/vk/tea/internal/graph"
	"github.com/vk/tea/internal/scheduler"
)

var (
	compileStyle = color.New(color.FgGreen, color.OpBold)
	linkStyle    = color.New(color.FgCyan, color.OpBold)
	freshStyle   = color.New(color.FgGray)
)

// progressMu serializes progress lines; the scheduler calls back from many
// workers at once.
var progressMu sync.Mutex

func (a *App) printProgress(leaf *graph.Leaf, event scheduler.Event, done, total int) {
	progressMu.Lock()
	defer progressMu.Unlock()

	name := fmt.Sprintf("%s v%s", leaf.Name(), leaf.Manifest.Version())
	switch event {
	case scheduler.EventCompile:
		fmt.Fprintf(a.outW, "%9s [%d/%d] %s\n", compileStyle.Sprint("Compiling"), done, total, name)
	case scheduler.EventArchive:
		fmt.Fprintf(a.outW, "%9s %s\n", linkStyle.Sprint("Archiving"), name)
	case scheduler.EventLink:
		fmt.Fprintf(a.outW, "%9s %s\n", linkStyle.Sprint("Linking"), name)
	case scheduler.EventFresh:
		fmt.Fprintf(a.outW, "%9s %s\n", freshStyle.Sprint("Fresh"), name)
	}
}

func (a *App) printSummary(result *scheduler.Result) {
	progressMu.Lock()
	defer progressMu.Unlock()
	fmt.Fprintf(a.outW, "%9s %d compiled, %d up to date\n",
		compileStyle.Sprint("Finished"), result.Compiled, result.Reused)
}
