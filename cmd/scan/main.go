// Command scan walks a directory of WAV files, fingerprints each one with
// the dupefinder core, and reports the near-duplicate groups it finds.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"

	"github.com/nearcopy/dupefinder/pkg/dupefinder"
	"github.com/nearcopy/dupefinder/pkg/dupefinder/audio"
	"github.com/nearcopy/dupefinder/pkg/dupefinder/model"
	"github.com/nearcopy/dupefinder/pkg/dupefinder/preprocess"
	"github.com/nearcopy/dupefinder/pkg/logger"
)

var (
	dirFlag           string
	dbFlag            string
	workersFlag       int
	similarityFlag    float64
	hashThresholdFlag int
	maxAlignmentFlag  int
	noColorFlag       bool
	sequentialFlag    bool
)

func init() {
	flag.StringVar(&dirFlag, "dir", ".", "directory to scan for .wav files")
	flag.StringVar(&dbFlag, "db", getEnvOrDefault("DUPEFINDER_SCAN_DB", ""), "optional path to a sqlite audit log for scan runs (disabled if empty)")
	flag.IntVar(&workersFlag, "workers", runtime.NumCPU(), "number of fingerprinting workers")
	flag.Float64Var(&similarityFlag, "similarity-threshold", 0, "override the comparator's similarity_threshold (0 = default)")
	flag.IntVar(&hashThresholdFlag, "hash-threshold", 0, "override the index's hash_threshold (0 = default)")
	flag.IntVar(&maxAlignmentFlag, "max-alignment-offset", 0, "override the comparator's max_alignment_offset (0 = default)")
	flag.BoolVar(&noColorFlag, "no-color", false, "disable colorized report output")
	flag.BoolVar(&sequentialFlag, "sequential", false, "use the sequential duplicate-group search instead of the parallel one")
}

func getEnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	flag.Parse()

	runID := uuid.New().String()
	log := logger.GetLogger().WithField("run_id", runID)
	log.Infof("starting: dir=%s workers=%d", dirFlag, workersFlag)

	paths, err := collectWAVFiles(dirFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "scan: %v\n", err)
		os.Exit(1)
	}
	if len(paths) == 0 {
		fmt.Fprintf(os.Stderr, "scan: no .wav files found under %s\n", dirFlag)
		os.Exit(1)
	}

	colorize := !noColorFlag && isatty.IsTerminal(os.Stdout.Fd())

	start := time.Now()
	fps, sizeBytes, failed := fingerprintAll(paths, workersFlag)
	elapsed := time.Since(start)

	idx := dupefinder.NewIndex()
	// AddFile is called sequentially, in sorted path order, so that file_id
	// assignment is deterministic regardless of how many fingerprinting
	// workers ran concurrently.
	// indexedPaths tracks paths in file_id order, since a fingerprinting or
	// AddFile failure means file_id no longer lines up with an index into
	// the full paths slice.
	sort.Slice(paths, func(i, j int) bool { return paths[i] < paths[j] })
	indexedPaths := make([]string, 0, len(paths))
	for _, p := range paths {
		fp, ok := fps[p]
		if !ok {
			continue
		}
		if _, err := idx.AddFile(p, fp); err != nil {
			log.Warnf("scan: skipping %s: %v", p, err)
			continue
		}
		indexedPaths = append(indexedPaths, p)
	}

	if similarityFlag > 0 {
		idx.SetSimilarityThreshold(similarityFlag)
	}
	if hashThresholdFlag > 0 {
		idx.SetHashThreshold(hashThresholdFlag)
	}
	if maxAlignmentFlag > 0 {
		idx.SetMaxAlignmentOffset(maxAlignmentFlag)
	}

	var groups []model.DuplicateGroup
	if sequentialFlag {
		groups, err = idx.FindAllDuplicates()
	} else {
		groups, err = idx.FindAllDuplicatesParallel(workersFlag)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "scan: finding duplicates: %v\n", err)
		os.Exit(1)
	}

	printReport(reportData{
		runID:     runID,
		attempted: len(paths),
		paths:     indexedPaths,
		groups:    groups,
		failed:    failed,
		sizeBytes: sizeBytes,
		elapsed:   elapsed,
	}, colorize)

	if dbFlag != "" {
		store, err := openAuditStore(dbFlag)
		if err != nil {
			log.Warnf("scan: audit log unavailable: %v", err)
		} else {
			defer store.Close()
			if err := store.RecordRun(RunSummary{
				RunID:        runID,
				Directory:    dirFlag,
				FilesScanned: len(paths),
				FilesFailed:  len(failed),
				GroupsFound:  len(groups),
				DurationMs:   elapsed.Milliseconds(),
				TotalBytes:   sizeBytes,
			}); err != nil {
				log.Warnf("scan: recording run summary: %v", err)
			} else {
				log.Infof("recorded to %s", dbFlag)
			}
		}
	}

	log.Infof("finished in %s (%s scanned, %d groups)",
		elapsed.Round(time.Millisecond), humanize.Bytes(uint64(sizeBytes)), len(groups))
}

func collectWAVFiles(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".wav") {
			paths = append(paths, path)
		}
		return nil
	})
	return paths, err
}

// fingerprintAll fingerprints every path in a bounded worker pool, returning
// a path->Fingerprint map, the total bytes scanned, and the paths that
// failed along with their errors.
func fingerprintAll(paths []string, nWorkers int) (map[string]*model.Fingerprint, int64, map[string]error) {
	if nWorkers < 1 {
		nWorkers = 1
	}
	bar := newScanBar(len(paths))
	defer bar.stop()

	jobs := make(chan string, len(paths))
	for _, p := range paths {
		jobs <- p
	}
	close(jobs)

	var mu sync.Mutex
	results := make(map[string]*model.Fingerprint, len(paths))
	failed := make(map[string]error)
	var totalBytes int64

	gen, err := dupefinder.NewGenerator(
		dupefinder.WithDecoderFactory(func() dupefinder.Decoder { return audio.NewWAVDecoder() }),
		dupefinder.WithFingerprinterFactory(func() dupefinder.Fingerprinter { return audio.NewToyFingerprinter() }),
	)
	if err != nil {
		// Both factories are set above, so this cannot happen; fail loudly
		// if it ever does rather than scanning nothing silently.
		panic(fmt.Sprintf("scan: building generator: %v", err))
	}

	var wg sync.WaitGroup
	for i := 0; i < nWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				fp, err := gen.GenerateFingerprintWithPreprocessing(path, preprocess.DefaultConfig())
				mu.Lock()
				if err != nil {
					failed[path] = err
				} else {
					results[path] = fp
					if info, statErr := os.Stat(path); statErr == nil {
						totalBytes += info.Size()
					}
				}
				mu.Unlock()
				bar.increment()
			}
		}()
	}
	wg.Wait()
	return results, totalBytes, failed
}
