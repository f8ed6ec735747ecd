// BitChess - play bitboard chess in the terminal
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/hailam/bitchess/internal/board"
	"github.com/hailam/bitchess/internal/book"
	"github.com/hailam/bitchess/internal/engine"
	"github.com/hailam/bitchess/internal/game"
	"github.com/hailam/bitchess/internal/player"
	"github.com/hailam/bitchess/internal/render"
	"github.com/hailam/bitchess/internal/storage"
)

var (
	whiteFlag  = flag.String("white", "", "white player: human, ai or shuffle")
	blackFlag  = flag.String("black", "", "black player: human, ai or shuffle")
	difficulty = flag.String("difficulty", "", "AI difficulty: easy, medium or hard")
	depthFlag  = flag.Int("depth", 0, "AI search depth (overrides difficulty)")
	pliesFlag  = flag.Int("plies", 0, "stop the game after this many plies")
	fenFlag    = flag.String("fen", board.StartFEN, "start position")
	svgOut     = flag.String("svg", "", "write the final position as SVG to this file")
	pngOut     = flag.String("png", "", "write the final position as PNG to this file")
	dbDir      = flag.String("db", "", "database directory (default: platform data dir)")
	noDB       = flag.Bool("nodb", false, "do not load or save preferences and games")
	listGames  = flag.Bool("list", false, "list saved games and exit")
	pgnID      = flag.String("pgn", "", "print the PGN of a saved game and exit")
	bookFile   = flag.String("book", "", "opening book file for AI players")
	makeBook   = flag.String("makebook", "", "build an opening book from saved games, write it to this file and exit")
	bookPlies  = flag.Int("bookplies", 16, "plies of each saved game added by -makebook")
	verbose    = flag.Bool("v", false, "log every scored AI candidate")
)

func main() {
	flag.Parse()

	store := openStorage()
	if store != nil {
		defer store.Close()
	}

	switch {
	case *listGames:
		if err := printGames(store); err != nil {
			log.Fatal(err)
		}
		return
	case *pgnID != "":
		if err := printPGN(store, *pgnID); err != nil {
			log.Fatal(err)
		}
		return
	case *makeBook != "":
		if err := buildBook(store, *makeBook); err != nil {
			log.Fatal(err)
		}
		return
	}

	var openings *book.Book
	if *bookFile != "" {
		b, err := book.Load(*bookFile)
		if err != nil {
			log.Fatalf("load book: %v", err)
		}
		openings = b
	}

	prefs := loadPreferences(store)
	applyFlags(prefs)

	start, side, err := board.ParseFEN(*fenFlag)
	if err != nil {
		log.Fatalf("invalid -fen: %v", err)
	}

	white, err := newPlayer(prefs.White, prefs, openings)
	if err != nil {
		log.Fatal(err)
	}
	black, err := newPlayer(prefs.Black, prefs, openings)
	if err != nil {
		log.Fatal(err)
	}

	match := game.NewMatch(white, black)
	match.WhiteName, match.BlackName = prefs.White, prefs.Black
	match.MaxPlies = prefs.MaxPlies
	match.OnMove = func(ply int, c board.Color, m board.Move, pos board.Position) {
		fmt.Printf("%d. %s plays %s\n%s\n", ply, c, m, pos)
	}
	match.OnReject = func(c board.Color, m board.Move, err error) {
		fmt.Printf("wrong move for %s: %v\n", c, err)
	}

	fmt.Println(start)
	rec, err := match.Play(start, side)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Result: %s (%s) after %d plies\n", rec.Result, rec.Reason, len(rec.Moves))

	final, _, err := rec.Replay(-1)
	if err != nil {
		log.Fatal(err)
	}
	if err := writeImages(final, rec); err != nil {
		log.Printf("Warning: %v", err)
	}

	if store != nil {
		if id, err := store.SaveGame(rec); err != nil {
			log.Printf("Warning: Failed to save game: %v", err)
		} else {
			fmt.Printf("Saved game %s\n", id)
		}
		if err := store.SavePreferences(prefs); err != nil {
			log.Printf("Warning: Failed to save preferences: %v", err)
		}
	}
}

func openStorage() *storage.Storage {
	if *noDB {
		return nil
	}

	var store *storage.Storage
	var err error
	if *dbDir != "" {
		store, err = storage.Open(*dbDir)
	} else {
		store, err = storage.NewStorage()
	}
	if err != nil {
		log.Printf("Warning: Failed to initialize storage: %v", err)
		return nil
	}
	return store
}

func loadPreferences(store *storage.Storage) *storage.UserPreferences {
	if store == nil {
		return storage.DefaultPreferences()
	}
	prefs, err := store.LoadPreferences()
	if err != nil {
		log.Printf("Warning: Failed to load preferences: %v", err)
		return storage.DefaultPreferences()
	}
	return prefs
}

// applyFlags overrides stored preferences with flags given on the command line.
func applyFlags(prefs *storage.UserPreferences) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "white":
			prefs.White = *whiteFlag
		case "black":
			prefs.Black = *blackFlag
		case "difficulty":
			d, err := engine.ParseDifficulty(*difficulty)
			if err != nil {
				log.Fatal(err)
			}
			prefs.Difficulty = d
			prefs.Depth = 0
		case "depth":
			prefs.Depth = *depthFlag
		case "plies":
			prefs.MaxPlies = *pliesFlag
		}
	})
}

func newPlayer(kind string, prefs *storage.UserPreferences, openings *book.Book) (player.Player, error) {
	switch kind {
	case storage.PlayerHuman:
		return player.NewConsole(os.Stdin, os.Stdout), nil
	case storage.PlayerAI:
		eng := engine.NewEngine()
		eng.SetDepth(prefs.SearchDepth())
		eng.SetVerbose(*verbose)
		eng.SetBook(openings)
		return eng, nil
	case storage.PlayerShuffle:
		return player.Shuffler{}, nil
	}
	return nil, fmt.Errorf("unknown player %q (want human, ai or shuffle)", kind)
}

func writeImages(pos board.Position, rec *game.Record) error {
	opts := render.Options{}
	if n := len(rec.Moves); n > 0 {
		if m, err := board.ParseMove(rec.Moves[n-1]); err == nil {
			opts.LastMove = m
		}
	}

	var errs []error
	if *svgOut != "" {
		errs = append(errs, writeFile(*svgOut, func(f *os.File) error { return render.SVG(f, pos, opts) }))
	}
	if *pngOut != "" {
		errs = append(errs, writeFile(*pngOut, func(f *os.File) error { return render.PNG(f, pos, opts) }))
	}
	return errors.Join(errs...)
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func printGames(store *storage.Storage) error {
	if store == nil {
		return errors.New("no database")
	}
	games, err := store.ListGames()
	if err != nil {
		return err
	}
	for _, g := range games {
		fmt.Printf("%s  %s  %-7s vs %-7s %3d plies  %s (%s)\n",
			g.ID, g.Started.Format("2006-01-02 15:04"), g.White, g.Black, len(g.Moves), g.Result, g.Reason)
	}

	stats, err := store.LoadStats()
	if err != nil {
		return err
	}
	fmt.Printf("%d games, White %d, Black %d, unfinished %d, average %.1f plies\n",
		stats.GamesPlayed, stats.WhiteWins, stats.BlackWins, stats.Unfinished, stats.AveragePlies())
	return nil
}

func printPGN(store *storage.Storage, id string) error {
	if store == nil {
		return errors.New("no database")
	}
	rec, err := store.LoadGame(id)
	if err != nil {
		return err
	}
	pgn, err := rec.PGN()
	if err != nil {
		return err
	}
	fmt.Println(pgn)
	return nil
}

// buildBook adds the opening plies of every saved game to a new book.
func buildBook(store *storage.Storage, path string) error {
	if store == nil {
		return errors.New("no database")
	}
	games, err := store.ListGames()
	if err != nil {
		return err
	}

	b := book.New()
	for _, g := range games {
		start, side, err := board.ParseFEN(g.StartFEN)
		if err != nil {
			log.Printf("Warning: skipping game %s: %v", g.ID, err)
			continue
		}
		moves := make([]board.Move, 0, len(g.Moves))
		for _, s := range g.Moves {
			m, err := board.ParseMove(s)
			if err != nil {
				break
			}
			moves = append(moves, m)
		}
		if err := b.AddGame(start, side, moves, *bookPlies); err != nil {
			log.Printf("Warning: skipping game %s: %v", g.ID, err)
		}
	}

	if err := b.Save(path); err != nil {
		return err
	}
	fmt.Printf("Wrote %d positions from %d games to %s\n", b.Size(), len(games), path)
	return nil
}
