package model

// PeerState is the state one peer broadcasts to its opponent
type PeerState struct {
	Arena  [][]int  `json:"arena"`
	Matrix [][]int  `json:"matrix"`
	Pos    Position `json:"pos"`
}

// OpponentView is the last known opponent state.
// It is a display cache only and is never consulted for collision or scoring.
type OpponentView struct {
	state     PeerState
	updates   int
	toppedOut bool
}

// Apply replaces the cached state with a newer snapshot
func (v *OpponentView) Apply(state PeerState) {
	v.state = state
	v.updates++
}

// MarkToppedOut records that the opponent lost
func (v *OpponentView) MarkToppedOut() {
	v.toppedOut = true
}

// State returns the cached snapshot
func (v *OpponentView) State() PeerState {
	return v.state
}

// Updates returns how many snapshots have been applied
func (v *OpponentView) Updates() int {
	return v.updates
}

// ToppedOut returns true once the opponent reported game over
func (v *OpponentView) ToppedOut() bool {
	return v.toppedOut
}

// Snapshot is everything a renderer needs to draw one frame
type Snapshot struct {
	Status GameStatus  `json:"status"`
	Arena  [][]int     `json:"arena"`
	Matrix [][]int     `json:"matrix"`
	Pos    Position    `json:"pos"`
	Ghost  Position    `json:"ghost"`
	Next   []PieceType `json:"next"`
	Hold   PieceType   `json:"hold,omitempty"`
	Score  int         `json:"score"`
	Level  int         `json:"level"`
	Lines  int         `json:"lines"`
}
