package bootloader

import "time"

// Phases reported through Progress.
const (
	PhaseDownloading = "downloading"
	PhaseVerifying   = "verifying"
	PhaseComplete    = "complete"
)

// Progress contains information about the programming progress.
// Passed to ProgressCallback during programming operations.
type Progress struct {
	// Phase is one of PhaseDownloading, PhaseVerifying or PhaseComplete
	Phase string

	// CurrentBlock is the number of blocks handled in this phase
	CurrentBlock int

	// TotalBlocks is the total number of blocks in the image
	TotalBlocks int

	// Percentage is the completion percentage (0.0 to 100.0)
	Percentage float64

	// BytesWritten is the total number of bytes downloaded so far
	BytesWritten int

	// ElapsedTime is the time elapsed since programming started
	ElapsedTime time.Duration
}

// ProgressCallback is called periodically during programming to report progress.
// Implementations should return quickly to avoid blocking the programming operation.
type ProgressCallback func(Progress)
