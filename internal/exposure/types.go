package exposure

// Tool names the listener source a report was built from.
type Tool string

// Listener sources.
const (
	ToolLsof    Tool = "lsof"
	ToolNetstat Tool = "netstat"
	ToolNone    Tool = "none"
)

// Listener is one socket listening on the inspected port.
type Listener struct {
	Command string `json:"name,omitempty"`
	PID     string `json:"pid,omitempty"`
	Address string `json:"addr"`
	Raw     string `json:"raw,omitempty"`
	Exposed bool   `json:"exposed"`
}

// Report is the outcome of one exposure check. OK is false when any listener is exposed
// or when no listener source could be queried.
type Report struct {
	OK        bool       `json:"ok"`
	Tool      Tool       `json:"tool"`
	Port      int        `json:"port"`
	Listeners []Listener `json:"listeners"`
	Error     string     `json:"error,omitempty"`
}
