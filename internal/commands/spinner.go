package commands

import (
	"fmt"
	"io"
	"sync"
	"time"

	bspinner "github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/chatty/internal/render"
)

// spinner draws a one-line progress indicator while a query is in flight
type spinner struct {
	out     io.Writer
	message string
	theme   render.TUITheme
	frames  bspinner.Spinner

	stop    chan struct{}
	done    chan struct{}
	mu      sync.Mutex
	frame   int
	stopped bool
}

func newSpinner(out io.Writer, message string, theme render.TUITheme) *spinner {
	return &spinner{
		out:     out,
		message: message,
		theme:   theme,
		frames:  bspinner.MiniDot,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

func (s *spinner) start() {
	go func() {
		defer close(s.done)

		ticker := time.NewTicker(s.frames.FPS)
		defer ticker.Stop()

		fmt.Fprint(s.out, "\033[?25l")
		for {
			select {
			case <-s.stop:
				fmt.Fprint(s.out, "\r\033[K\033[?25h")
				return
			case <-ticker.C:
				s.mu.Lock()
				s.render()
				s.frame++
				s.mu.Unlock()
			}
		}
	}()
}

func (s *spinner) render() {
	glyph := s.frames.Frames[s.frame%len(s.frames.Frames)]
	glyph = lipgloss.NewStyle().Foreground(s.theme.Primary).Bold(true).Render(glyph)

	dots := ""
	for i := 0; i < 3; i++ {
		if i < (s.frame/3)%4 {
			dots += lipgloss.NewStyle().Foreground(s.theme.Accent).Render("●")
		} else {
			dots += lipgloss.NewStyle().Foreground(s.theme.TextMute).Render("○")
		}
	}

	msg := lipgloss.NewStyle().Foreground(s.theme.Text).Render(s.message)
	fmt.Fprintf(s.out, "\r\033[K%s %s %s", glyph, msg, dots)
}

func (s *spinner) stopOnce() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.stopped {
		close(s.stop)
		s.stopped = true
	}
}

func (s *spinner) stopWithSuccess(message string) {
	s.stopOnce()
	<-s.done

	check := lipgloss.NewStyle().Foreground(s.theme.Secondary).Bold(true).Render("✓")
	fmt.Fprintf(s.out, "%s %s\n", check, lipgloss.NewStyle().Foreground(s.theme.Secondary).Render(message))
}

func (s *spinner) stopWithError() {
	s.stopOnce()
	<-s.done
}
