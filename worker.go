// worker.go - bounded concurrent source rendering (§4.4)

package alengine

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// renderSourcesConcurrently runs render (one source's full §4.4 steps
// 1-5 contribution into its own scratch buffer) for every source in
// sources, bounded to GOMAXPROCS goroutines at a time so a large source
// count cannot oversubscribe the machine the mixer is running on.
func renderSourcesConcurrently(sources []*Source, render func(*Source) error) error {
	g, _ := errgroup.WithContext(context.Background())
	g.SetLimit(maxInt(1, runtime.GOMAXPROCS(0)))
	for _, s := range sources {
		s := s
		g.Go(func() error {
			return render(s)
		})
	}
	return g.Wait()
}
