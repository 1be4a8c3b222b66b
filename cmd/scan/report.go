package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/nearcopy/dupefinder/pkg/dupefinder/model"
)

type reportData struct {
	runID     string
	attempted int
	paths     []string
	groups    []model.DuplicateGroup
	failed    map[string]error
	sizeBytes int64
	elapsed   time.Duration
}

// printReport renders a colorized (or plain) summary of a scan run,
// grounded in kishore-FDI-WaveID's fatih/color-based CLI report style.
func printReport(rd reportData, colorize bool) {
	color.NoColor = !colorize

	headline := color.New(color.FgCyan, color.Bold)
	groupHeader := color.New(color.FgYellow, color.Bold)
	member := color.New(color.FgGreen)
	warn := color.New(color.FgRed)

	headline.Printf("\nScan run %s\n", rd.runID)
	fmt.Printf("  files scanned : %d of %d attempted (%s)\n", len(rd.paths), rd.attempted, humanize.Bytes(uint64(rd.sizeBytes)))
	fmt.Printf("  duration      : %s\n", rd.elapsed.Round(time.Millisecond))
	fmt.Printf("  groups found  : %d\n\n", len(rd.groups))

	if len(rd.failed) > 0 {
		warn.Printf("Failed to fingerprint %d file(s):\n", len(rd.failed))
		for path, err := range rd.failed {
			fmt.Printf("  %s: %v\n", path, err)
		}
		fmt.Println()
	}

	if len(rd.groups) == 0 {
		fmt.Println("No near-duplicate groups found.")
		return
	}

	for i, g := range rd.groups {
		groupHeader.Printf("Group %d  (avg similarity %.1f%%, %d files)\n", i+1, g.AverageSimilarity*100, len(g.FileIDs))
		for _, id := range g.FileIDs {
			if id < 0 || id >= len(rd.paths) {
				continue
			}
			member.Printf("  - %s\n", rd.paths[id])
		}
		fmt.Println()
	}
}
