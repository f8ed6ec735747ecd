package main

import (
	"flag"
	"log"
	"os"
	"runtime/pprof"

	"github.com/hailam/bitchess/internal/book"
	"github.com/hailam/bitchess/internal/engine"
	"github.com/hailam/bitchess/internal/uci"
)

var (
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
	logFile    = flag.String("log", "", "append diagnostics to this file instead of stderr")
	depth      = flag.Int("depth", engine.DefaultDepth, "search depth in plies")
	verbose    = flag.Bool("v", false, "log every scored candidate move")
	bookFile   = flag.String("book", "", "opening book file")
)

func main() {
	flag.Parse()

	// stdout carries the protocol, so diagnostics go to stderr or a file
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			log.Fatal("could not open log file: ", err)
		}
		defer f.Close()
		log.SetOutput(f)
	}

	// Start CPU profiling if requested (via flag or environment variable)
	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
		log.Printf("CPU profiling enabled, writing to %s", profilePath)
	}

	eng := engine.NewEngine()
	eng.SetDepth(*depth)
	eng.SetVerbose(*verbose)
	if *bookFile != "" {
		b, err := book.Load(*bookFile)
		if err != nil {
			log.Fatal("could not load book: ", err)
		}
		log.Printf("Loaded book with %d positions", b.Size())
		eng.SetBook(b)
	}

	protocol := uci.New(eng)
	protocol.Run()
}
