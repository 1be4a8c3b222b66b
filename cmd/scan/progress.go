package main

import (
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// scanBar wraps an mpb progress bar for the fingerprinting phase, grounded
// in the pack's own indexer-with-ETA usage of mpb.
type scanBar struct {
	p   *mpb.Progress
	bar *mpb.Bar
}

func newScanBar(total int) *scanBar {
	p := mpb.New(mpb.WithWidth(64))
	bar := p.AddBar(int64(total),
		mpb.PrependDecorators(
			decor.Name("Fingerprinting: "),
			decor.CountersNoUnit("%d / %d"),
		),
		mpb.AppendDecorators(
			decor.Percentage(),
			decor.EwmaETA(decor.ET_STYLE_GO, 60),
		),
	)
	return &scanBar{p: p, bar: bar}
}

func (s *scanBar) increment() {
	s.bar.Increment()
}

func (s *scanBar) stop() {
	s.p.Wait()
}
