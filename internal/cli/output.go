package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mcoot/vstetris/internal/model"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to stdout
func NewOutput(format string) *Output {
	return &Output{format: format, w: os.Stdout}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case HealthResult:
		fmt.Fprintf(o.w, "Status: %s\n", v.Status)
	case RoomList:
		o.printRoomList(v)
	case Room:
		o.printRoom(v)
	case Stats:
		o.printStats(v)
	case SimulateResult:
		o.printSimulateResult(v)
	case BotResult:
		o.printBotResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

// Room response type (matches API)
type Room struct {
	ID        string    `json:"id"`
	State     string    `json:"state"`
	Members   []string  `json:"members"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RoomList response type
type RoomList struct {
	Rooms []Room `json:"rooms"`
}

// Stats response type
type Stats struct {
	Connections int   `json:"connections"`
	Waiting     bool  `json:"waiting"`
	Rooms       int   `json:"rooms"`
	Matches     int64 `json:"matches"`
}

// SimulateResult is the outcome of a headless bot game
type SimulateResult struct {
	Strategy string  `json:"strategy"`
	Mode     string  `json:"mode"`
	Pieces   int     `json:"pieces"`
	Status   string  `json:"status"`
	Score    int     `json:"score"`
	Level    int     `json:"level"`
	Lines    int     `json:"lines"`
	Board    [][]int `json:"board,omitempty"`
}

// BotResult is the outcome of a versus match played by a bot
type BotResult struct {
	Room     string `json:"room"`
	Strategy string `json:"strategy"`
	Result   string `json:"result"`
	Pieces   int    `json:"pieces"`
	Score    int    `json:"score"`
	Lines    int    `json:"lines"`
}

func (o *Output) printRoom(r Room) {
	fmt.Fprintf(o.w, "Room: %s\n", r.ID)
	fmt.Fprintf(o.w, "State: %s\n", r.State)
	fmt.Fprintf(o.w, "Members: %s\n", strings.Join(r.Members, ", "))
	fmt.Fprintf(o.w, "Created: %s\n", r.CreatedAt.Format(time.RFC3339))
}

func (o *Output) printRoomList(l RoomList) {
	if len(l.Rooms) == 0 {
		fmt.Fprintln(o.w, "No rooms")
		return
	}
	fmt.Fprintf(o.w, "Rooms (%d):\n", len(l.Rooms))
	for _, r := range l.Rooms {
		fmt.Fprintf(o.w, "  - %s [%s] since %s\n", r.ID, r.State, r.CreatedAt.Format(time.RFC3339))
	}
}

func (o *Output) printStats(s Stats) {
	waiting := "no"
	if s.Waiting {
		waiting = "yes"
	}
	fmt.Fprintf(o.w, "Connections: %d\n", s.Connections)
	fmt.Fprintf(o.w, "Player waiting: %s\n", waiting)
	fmt.Fprintf(o.w, "Rooms: %d\n", s.Rooms)
	fmt.Fprintf(o.w, "Matches: %d\n", s.Matches)
}

func (o *Output) printSimulateResult(r SimulateResult) {
	fmt.Fprintf(o.w, "Strategy: %s (%s)\n", model.BotStrategyDisplayName(r.Strategy), r.Mode)
	fmt.Fprintf(o.w, "Status: %s after %d pieces\n", r.Status, r.Pieces)
	fmt.Fprintf(o.w, "Score: %d\n", r.Score)
	fmt.Fprintf(o.w, "Level: %d\n", r.Level)
	fmt.Fprintf(o.w, "Lines: %d\n", r.Lines)
	if r.Board != nil {
		fmt.Fprintln(o.w)
		o.printBoard(r.Board)
	}
}

func (o *Output) printBotResult(r BotResult) {
	fmt.Fprintf(o.w, "Room: %s\n", r.Room)
	fmt.Fprintf(o.w, "Strategy: %s\n", model.BotStrategyDisplayName(r.Strategy))
	fmt.Fprintf(o.w, "Result: %s\n", r.Result)
	fmt.Fprintf(o.w, "Pieces: %d\n", r.Pieces)
	fmt.Fprintf(o.w, "Score: %d\n", r.Score)
	fmt.Fprintf(o.w, "Lines: %d\n", r.Lines)
}

func (o *Output) printBoard(rows [][]int) {
	for _, row := range rows {
		var sb strings.Builder
		sb.WriteByte('|')
		for _, c := range row {
			if c == 0 {
				sb.WriteByte('.')
			} else {
				sb.WriteByte('#')
			}
		}
		sb.WriteByte('|')
		fmt.Fprintln(o.w, sb.String())
	}
}
