package audit

import "time"

// Level grades a finding.
type Level string

// Finding levels.
const (
	LevelPass Level = "pass"
	LevelWarn Level = "warn"
	LevelFail Level = "fail"
	LevelInfo Level = "info"
)

// Finding is a single audit observation.
type Finding struct {
	Level   Level  `json:"level"`
	Title   string `json:"title"`
	Details string `json:"details,omitempty"`
	Fix     string `json:"fix,omitempty"`
}

// Report is the outcome of auditing one configuration.
type Report struct {
	GeneratedAt time.Time `json:"generatedAt"`
	Host        string    `json:"host"`
	ConfigPath  string    `json:"configPath"`
	Findings    []Finding `json:"findings"`
}

// Count returns the number of findings at the level.
func (report Report) Count(level Level) int {
	count := 0
	for _, finding := range report.Findings {
		if finding.Level == level {
			count++
		}
	}
	return count
}

// CommandOptions captures the parameters of an audit run.
type CommandOptions struct {
	JSONOutput bool
}
