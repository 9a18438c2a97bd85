package progress

import (
	"fmt"
	"io"
	"sync"

	"github.com/schollz/progressbar/v3"

	"github.com/datallboy/godemo/internal/domain"
	"github.com/datallboy/godemo/internal/infra/logger"
)

// Terminal draws one progress bar per stage and sends status lines to the
// logger.
type Terminal struct {
	mu   sync.Mutex
	out  io.Writer
	bars map[domain.Stage]*progressbar.ProgressBar

	logger *logger.Logger
}

func NewTerminal(out io.Writer, log *logger.Logger) *Terminal {
	if log == nil {
		log = logger.NewNop()
	}
	return &Terminal{
		out:    out,
		bars:   make(map[domain.Stage]*progressbar.ProgressBar),
		logger: log,
	}
}

func (t *Terminal) Progress(ev domain.ProgressEvent) {
	t.mu.Lock()
	defer t.mu.Unlock()

	bar, ok := t.bars[ev.Stage]
	if !ok || bar.GetMax() != ev.Total {
		bar = t.newBar(ev.Stage, ev.Total)
		t.bars[ev.Stage] = bar
	}
	_ = bar.Set(ev.Current)
}

func (t *Terminal) newBar(stage domain.Stage, total int) *progressbar.ProgressBar {
	out := t.out
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(out),
		progressbar.OptionSetDescription(fmt.Sprintf("%-13s", stage)),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionOnCompletion(func() { fmt.Fprintln(out) }),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}

func (t *Terminal) Status(ev domain.StatusEvent) {
	if ev.IsError {
		t.logger.Error("%s", ev.Message)
		if ev.RetryURL != "" {
			t.logger.Info("Retry with: godemo retry %s", ev.RetryURL)
		}
		return
	}
	t.logger.Info("%s", ev.Message)
}
