package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"

	"github.com/aretw0/tally/pkg/domain"
)

// Raw key codes handled by KeypadKey.
const (
	keyCtrlC     = 0x03
	keyCtrlD     = 0x04
	keyBackspace = 0x08
	keyEnter     = '\r'
	keyNewline   = '\n'
	keyEscape    = 0x1b
	keyDelete    = 0x7f
)

// KeypadKey maps one raw keystroke to a key script or command.
// It returns false for keystrokes that do nothing.
func KeypadKey(r rune) (string, bool) {
	switch r {
	case keyEnter, keyNewline, '=':
		return "=", true
	case keyBackspace, keyDelete:
		return "⌫", true
	case keyEscape:
		return "AC", true
	case 'c', 'C':
		return "C", true
	case 'n', 'N':
		return "±", true
	case 'q', 'Q', keyCtrlC, keyCtrlD:
		return CommandQuit, true
	case 'd', 'D':
		return CommandDebug, true
	case ' ', '\t':
		return "", false
	}
	if r >= '0' && r <= '9' {
		return string(r), true
	}
	switch r {
	case '.', ',', '%', '+', '-', '*', 'x', 'X', '/', '×', '÷':
		return string(r), true
	}
	return "", false
}

// KeypadHandler reads single keystrokes from a terminal in raw mode.
// When the input is not a terminal it still reads rune by rune.
type KeypadHandler struct {
	reader   *bufio.Reader
	Writer   io.Writer
	Renderer DisplayRenderer

	fd       int
	isTTY    bool
	restore  *term.State
	runeChan chan inputResult
	start    sync.Once
}

// NewKeypadHandler creates a keypad handler. Call EnableRaw before the loop
// and Close afterwards to restore the terminal.
func NewKeypadHandler(in *os.File, w io.Writer, renderer DisplayRenderer) *KeypadHandler {
	if in == nil {
		in = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	if renderer == nil {
		renderer = PlainRenderer
	}
	fd := int(in.Fd())
	return &KeypadHandler{
		reader:   bufio.NewReader(in),
		Writer:   w,
		Renderer: renderer,
		fd:       fd,
		isTTY:    term.IsTerminal(fd),
	}
}

// IsTerminal reports whether the handler reads from a TTY.
func (h *KeypadHandler) IsTerminal() bool {
	return h.isTTY
}

// EnableRaw switches the terminal to raw mode. It is a no-op for non-terminals.
func (h *KeypadHandler) EnableRaw() error {
	if !h.isTTY || h.restore != nil {
		return nil
	}
	state, err := term.MakeRaw(h.fd)
	if err != nil {
		return fmt.Errorf("failed to enter raw mode: %w", err)
	}
	h.restore = state
	return nil
}

// Close restores the terminal state.
func (h *KeypadHandler) Close() error {
	if h.restore == nil {
		return nil
	}
	err := term.Restore(h.fd, h.restore)
	h.restore = nil
	return err
}

func (h *KeypadHandler) pump() {
	for {
		r, _, err := h.reader.ReadRune()
		if err != nil {
			if err != io.EOF {
				h.runeChan <- inputResult{err: err}
			}
			close(h.runeChan)
			return
		}
		h.runeChan <- inputResult{text: string(r)}
	}
}

func (h *KeypadHandler) Output(ctx context.Context, state *domain.State, display domain.Display) error {
	// Raw mode does not translate "\n", so every line break needs "\r\n".
	text := strings.ReplaceAll(strings.TrimRight(h.Renderer(display), "\n"), "\n", "\r\n")
	_, err := fmt.Fprint(h.Writer, "\r\n"+text+"\r\n")
	return err
}

func (h *KeypadHandler) Input(ctx context.Context) (string, error) {
	h.start.Do(func() {
		h.runeChan = make(chan inputResult)
		go h.pump()
	})

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case res, ok := <-h.runeChan:
			if !ok {
				return "", io.EOF
			}
			if res.err != nil {
				return "", res.err
			}
			r := []rune(res.text)[0]
			if script, ok := KeypadKey(r); ok {
				return script, nil
			}
		}
	}
}

func (h *KeypadHandler) SystemOutput(ctx context.Context, msg string) error {
	_, err := fmt.Fprint(h.Writer, msg+"\r\n")
	return err
}
