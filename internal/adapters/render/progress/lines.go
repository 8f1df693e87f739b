package progress

import (
	"fmt"
	"io"
	"sync"

	"github.com/bnema/indexdiff/internal/domain"
	"github.com/bnema/indexdiff/internal/ports"
)

// Lines reports download progress as one plain line per unit, for
// non-interactive output.
type Lines struct {
	mu    sync.Mutex
	out   io.Writer
	total int
	done  int
}

var _ ports.Progress = (*Lines)(nil)

func NewLines(out io.Writer) *Lines {
	return &Lines{out: out}
}

func (l *Lines) Start(total int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.total = total
	l.done = 0
	_, _ = fmt.Fprintf(l.out, "downloading %d index artifacts\n", total)
}

func (l *Lines) Done(result domain.UnitResult) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.done++
	_, _ = fmt.Fprintf(l.out, "[%d/%d] %s\n", l.done, l.total, describe(result))
}

func describe(result domain.UnitResult) string {
	switch result.Outcome {
	case domain.UnitDownloaded:
		return fmt.Sprintf("%s downloaded (%d records)", result.Key, result.Records)
	case domain.UnitFailed:
		if result.Err != nil {
			return fmt.Sprintf("%s failed: %v", result.Key, result.Err)
		}
		return fmt.Sprintf("%s failed", result.Key)
	default:
		return fmt.Sprintf("%s %s", result.Key, result.Outcome)
	}
}
