package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/aretw0/tally/pkg/domain"
)

// DisplayMessage is the NDJSON object written after every step.
type DisplayMessage struct {
	Type       string `json:"type"`
	SessionID  string `json:"session_id,omitempty"`
	Expression string `json:"expression"`
	Value      string `json:"value"`
	Error      bool   `json:"error,omitempty"`
	Debug      bool   `json:"debug,omitempty"`
	Message    string `json:"message,omitempty"`
}

// KeyRequest is the object form accepted on input.
// Keys holds a script; Key holds a single key label.
type KeyRequest struct {
	Keys string `json:"keys,omitempty"`
	Key  string `json:"key,omitempty"`
}

// JSONHandler implements the IOHandler interface for structured JSON-Lines communication.
type JSONHandler struct {
	Reader       *bufio.Reader
	Writer       io.Writer
	Encoder      *json.Encoder
	MaxInputSize int
}

// NewJSONHandler creates a handler for JSON IO.
func NewJSONHandler(r io.Reader, w io.Writer) *JSONHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &JSONHandler{
		Reader:  bufio.NewReader(r),
		Writer:  w,
		Encoder: enc,
	}
}

func (h *JSONHandler) Output(ctx context.Context, state *domain.State, display domain.Display) error {
	msg := DisplayMessage{
		Type:       "display",
		Expression: display.Expression,
		Value:      display.Value,
		Error:      display.IsError(),
		Debug:      display.Debug,
	}
	if state != nil {
		msg.SessionID = state.SessionID
	}
	return h.Encoder.Encode(msg)
}

// Input reads one line. It accepts a JSON string ("5 + 3 ="), a KeyRequest object
// or raw text. Blank lines are skipped.
func (h *JSONHandler) Input(ctx context.Context) (string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		line, err := h.Reader.ReadString('\n')
		text := strings.TrimSpace(line)
		if text == "" {
			if err != nil {
				return "", err
			}
			continue
		}

		clean, sErr := SanitizeInputLimit(decodeInput(text), h.MaxInputSize)
		if sErr != nil {
			if oErr := h.SystemOutput(ctx, "Error: "+sErr.Error()); oErr != nil {
				return "", oErr
			}
			continue
		}
		return clean, nil
	}
}

func decodeInput(text string) string {
	var script string
	if err := json.Unmarshal([]byte(text), &script); err == nil {
		return script
	}
	var req KeyRequest
	if err := json.Unmarshal([]byte(text), &req); err == nil && (req.Keys != "" || req.Key != "") {
		return strings.TrimSpace(req.Keys + " " + req.Key)
	}
	return text
}

func (h *JSONHandler) SystemOutput(ctx context.Context, msg string) error {
	return h.Encoder.Encode(DisplayMessage{Type: "system", Message: msg})
}
