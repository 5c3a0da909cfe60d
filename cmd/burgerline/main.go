// Command burgerline runs one burger assembly plant: a configurable number
// of preparation lanes fed by a single order generator through a bounded
// FIFO, matched by a dispatcher, and watched by an inventory monitor.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aszurita/burgerline/enginelog"
	"github.com/aszurita/burgerline/engine"
	"github.com/aszurita/burgerline/menu"
)

func main() {
	var (
		lanes        = flag.Int("n", 3, "lane count (alias: --bandas), 1-10")
		ingredient   = flag.Int("t", 2, "ingredient step seconds (alias: --tiempo-ingrediente), 1-60")
		interarrival = flag.Int("o", 7, "inter-arrival seconds (alias: --tiempo-orden), 1-300")
		showMenu     = flag.Bool("m", false, "print the menu and exit")
		verbose      = flag.Bool("v", false, "verbose (debug-level) logging")
	)
	flag.IntVar(lanes, "bandas", 3, "lane count, 1-10")
	flag.IntVar(ingredient, "tiempo-ingrediente", 2, "ingredient step seconds, 1-60")
	flag.IntVar(interarrival, "tiempo-orden", 7, "inter-arrival seconds, 1-300")
	flag.BoolVar(showMenu, "menu", false, "print the menu and exit")
	flag.Usage = printHelp
	flag.Parse()

	if *showMenu {
		printMenu()
		os.Exit(0)
	}

	logConfig := enginelog.DefaultConfig()
	if *verbose {
		logConfig.Level = enginelog.LevelDebug
	}
	enginelog.SetDefault(enginelog.New(logConfig))

	e, err := engine.New(*lanes, *ingredient, *interarrival)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(0)
	}

	e.Start()
	enginelog.Info("plant started", "lanes", *lanes, "ingredient_step", *ingredient, "interarrival", *interarrival)

	runSignalLoop(e)

	if err := e.Stop(); err != nil {
		enginelog.Error("shutdown finished with errors", "err", err)
		os.Exit(1)
	}
	enginelog.Info("plant stopped cleanly")
}

// runSignalLoop bridges OS signals onto control-plane operations until a
// shutdown signal arrives, per spec.md §6: SIGINT/SIGTERM end the loop,
// SIGUSR1 pauses a random lane, SIGUSR2 resumes every paused lane, SIGCONT
// replenishes lanes that need it (or one random lane if none do).
func runSignalLoop(e *engine.Engine) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGUSR1, syscall.SIGUSR2, syscall.SIGCONT)

	for sig := range sigCh {
		switch sig {
		case syscall.SIGINT, syscall.SIGTERM:
			enginelog.Info("received shutdown signal", "signal", sig.String())
			return
		case syscall.SIGUSR1:
			if l := e.RandomLane(); l != nil {
				enginelog.Info("pausing random lane", "lane", l.ID)
				_ = e.Control().PauseLane(l.ID)
			}
		case syscall.SIGUSR2:
			enginelog.Info("resuming all paused lanes")
			e.Control().ResumeAll()
		case syscall.SIGCONT:
			replenishNeedyOrRandomLane(e)
		}
	}
}

func replenishNeedyOrRandomLane(e *engine.Engine) {
	replenished := false
	for _, l := range e.Lanes() {
		if l.NeedsReplenish() {
			enginelog.Info("replenishing lane", "lane", l.ID)
			_ = e.Control().ReplenishLane(l.ID)
			replenished = true
		}
	}
	if replenished {
		return
	}
	if l := e.RandomLane(); l != nil {
		enginelog.Info("replenishing random lane", "lane", l.ID)
		_ = e.Control().ReplenishLane(l.ID)
	}
}

func printMenu() {
	for i, b := range menu.Catalogue {
		fmt.Printf("%d. %-20s $%.2f\n", i, b.Name, b.Price)
		fmt.Printf("   %v\n", b.Ingredients)
	}
}

func printHelp() {
	fmt.Fprintln(os.Stderr, "burgerline - concurrent burger assembly plant simulation")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Usage: burgerline [flags]")
	flag.PrintDefaults()
}
