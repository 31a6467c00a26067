// Command constellation-cli enrolls a song library and answers
// interactive match queries against it. At startup it enrolls every
// entry in song_list.txt (if present), then drops into an
// interactive stdin loop accepting "enroll <name> <path>",
// "query <path>" and "query-device" commands until EOF or
// "quit"/"exit".
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/schollz/progressbar/v3"

	"constellation/internal/config"
	"constellation/internal/constellation"
	"constellation/internal/database"
	"constellation/internal/database/sqlite"
	"constellation/internal/fingerprint"
	"constellation/internal/logging"
	"constellation/internal/matcher"
	"constellation/internal/peaks"
	"constellation/internal/ranker"
	"constellation/internal/songlist"
	"constellation/internal/spectrogram"
)

const defaultSongList = "song_list.txt"

func main() {
	dbPath := flag.String("db", "constellation.db", "sqlite database path")
	listPath := flag.String("list", defaultSongList, "song list file to enroll at startup")
	cfgPath := flag.String("config", "", "YAML config file overriding the default tunables")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		logging.Error("loading config: %v", err)
		os.Exit(-1)
	}

	db, err := sqlite.Open(*dbPath)
	if err != nil {
		logging.Error("opening database: %v", err)
		os.Exit(-1)
	}
	defer db.Close()

	enrollStartupList(db, *listPath, cfg)

	if code := runLoop(db, cfg); code != 0 {
		os.Exit(code)
	}
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// enrollStartupList enrolls every entry in listPath, if the file
// exists; a missing list file is not an error, just an empty library.
func enrollStartupList(db database.Database, listPath string, cfg config.Config) {
	f, err := os.Open(listPath)
	if err != nil {
		logging.Info("no song list at %s, starting with an empty library", listPath)
		return
	}
	defer f.Close()

	entries, err := songlist.Load(f)
	if err != nil {
		logging.Error("reading %s: %v", listPath, err)
		return
	}
	if len(entries) == 0 {
		return
	}

	enrollSequentially(db, entries, cfg)
}

// enrollSequentially fingerprints and inserts each entry's song one at
// a time, start to completion, before moving to the next: enrollment
// order is what defines song_id assignment, so it must stay
// reproducible rather than depend on goroutine scheduling.
func enrollSequentially(db database.Database, entries []songlist.Entry, cfg config.Config) {
	bar := progressbar.Default(int64(len(entries)), "enrolling")

	var failed int
	for _, e := range entries {
		if err := enrollOne(db, e, cfg); err != nil {
			logging.Error("%v", err)
			failed++
		}
		bar.Add(1)
	}

	logging.OK("enrolled %d/%d songs", len(entries)-failed, len(entries))
}

func enrollOne(db database.Database, e songlist.Entry, cfg config.Config) error {
	songID, err := db.RegisterSong(e.Name)
	if err != nil {
		return fmt.Errorf("registering %q: %w", e.Name, err)
	}

	c, err := extractConstellation(e.Path, cfg)
	if err != nil {
		return fmt.Errorf("extracting constellation for %q: %w", e.Name, err)
	}

	entries := fingerprint.Encode(c, songID, cfg)
	if err := db.InsertBatch(entries); err != nil {
		return fmt.Errorf("storing fingerprints for %q: %w", e.Name, err)
	}
	return nil
}

// extractConstellation opens path as a plain-text spectrogram file and
// runs peak extraction over it. The interactive CLI's "query-device"
// command instead reads live samples via fftdevice; this helper
// covers the offline, file-based path used by both enroll and
// file-based query.
func extractConstellation(path string, cfg config.Config) (constellation.Constellation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	src, err := spectrogram.ReadFile(f, spectrogram.ClipColumns{})
	if err != nil {
		return nil, err
	}
	return peaks.Extract(src, cfg), nil
}

func runLoop(db database.Database, cfg config.Config) int {
	logging.Info("ready. commands: enroll <name> <path> | query <path> | query-device | quit")

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)

		switch fields[0] {
		case "quit", "exit":
			logging.OK("shutting down")
			return 0

		case "enroll":
			if len(fields) != 3 {
				fmt.Println("usage: enroll <name> <path>")
				continue
			}
			handleEnroll(db, fields[1], fields[2], cfg)

		case "query":
			if len(fields) != 2 {
				fmt.Println("usage: query <path>")
				continue
			}
			handleQuery(db, fields[1], cfg)

		case "query-device":
			if code := handleQueryDevice(db, cfg); code != 0 {
				return code
			}

		default:
			fmt.Printf("unrecognized command %q\n", fields[0])
		}
	}

	logging.OK("end of input, shutting down")
	return 0
}

func handleEnroll(db database.Database, name, path string, cfg config.Config) {
	err := enrollOne(db, songlist.Entry{Name: name, Path: path}, cfg)
	if err != nil {
		logging.Error("%v", err)
		return
	}
	logging.OK("enrolled %q", name)
}

func handleQuery(db database.Database, path string, cfg config.Config) {
	c, err := extractConstellation(path, cfg)
	if err != nil {
		logging.Error("extracting query constellation: %v", err)
		return
	}
	reportMatch(db, c, cfg)
}

func reportMatch(db database.Database, c constellation.Constellation, cfg config.Config) {
	// A fresh id per query ties together the handful of log lines one
	// query can emit (match errors, song-list errors) even though
	// queries never overlap within this process.
	reqID := uuid.NewString()[:8]

	query := fingerprint.Encode(c, 0, cfg)

	scores, err := matcher.Match(query, db, cfg.TargetZoneSize)
	if err != nil {
		logging.Error("[%s] matching: %v", reqID, err)
		return
	}

	songs, err := db.Songs()
	if err != nil {
		logging.Error("[%s] listing songs: %v", reqID, err)
		return
	}

	ranked := ranker.Rank(scores, songs, cfg.NormPow)
	best, ok := ranker.Best(ranked)
	if !ok {
		logging.Info("[%s] no match found", reqID)
		return
	}

	logging.OK("[%s] best match: %s (count=%d, score=%.4f)", reqID, best.SongName, best.Count, best.Score)

	if len(ranked) > 1 {
		fmt.Println("other candidates:")
		limit := len(ranked)
		if limit > 5 {
			limit = 5
		}
		for _, r := range ranked[1:limit] {
			fmt.Printf("  - %s (count=%d, score=%.4f)\n", r.SongName, r.Count, r.Score)
		}
	}
}

