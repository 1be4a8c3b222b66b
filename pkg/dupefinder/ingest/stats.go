package ingest

import "time"

// Stats reports the resource footprint of one ingest run: bytes processed,
// peak pool usage, and processing time.
type Stats struct {
	BytesProcessed  int64
	FramesProcessed int64
	PeakPoolBytes   int64
	ProcessingTime  time.Duration
}
