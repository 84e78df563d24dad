package protocell

// DefaultLogCapacity bounds each cell's reaction history.
const DefaultLogCapacity = 40

// LogEntry records one accepted reaction for inspection.
type LogEntry struct {
	Time                float64  `json:"time_sim"`
	Age                 float64  `json:"age_at_event"`
	Enzyme              string   `json:"enzyme"`
	Substrates          []string `json:"substrates"`
	Product             string   `json:"product"`
	Byproducts          []string `json:"byproducts,omitempty"`
	Imported            []string `json:"imported,omitempty"`
	EnergyDelta         float64  `json:"delta_e"`
	Debit               float64  `json:"debit"`
	HeatDelta           float64  `json:"heat"`
	TempDelta           float64  `json:"delta_t"`
	SubstrateAtomEnergy float64  `json:"substrate_atom_energy"`
	ProductAtomEnergy   float64  `json:"product_atom_energy"`
	RawDelta            float64  `json:"raw_delta"`
}

// ReactionLog is a fixed-capacity ring that keeps the newest entries.
type ReactionLog struct {
	buf  []LogEntry
	next int
	n    int
}

// NewReactionLog allocates a log holding at most capacity entries.
func NewReactionLog(capacity int) *ReactionLog {
	if capacity < 1 {
		capacity = 1
	}
	return &ReactionLog{buf: make([]LogEntry, capacity)}
}

// Push records e, evicting the oldest entry when full.
func (l *ReactionLog) Push(e LogEntry) {
	l.buf[l.next] = e
	l.next = (l.next + 1) % len(l.buf)
	if l.n < len(l.buf) {
		l.n++
	}
}

// Len is the number of stored entries.
func (l *ReactionLog) Len() int { return l.n }

// Entries returns a copy of the log, newest first.
func (l *ReactionLog) Entries() []LogEntry {
	out := make([]LogEntry, l.n)
	for i := 0; i < l.n; i++ {
		idx := (l.next - 1 - i + len(l.buf)) % len(l.buf)
		out[i] = l.buf[idx]
	}
	return out
}
