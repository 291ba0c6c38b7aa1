package skills

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/temirov/clawshield/internal/ui"
)

const (
	lockSummaryTemplateConstant      = "Wrote %d skills to %s\n"
	missingLockTemplateConstant      = "No lockfile found at %s. Run: clawshield lock\n"
	noSkillsMessageConstant          = "No skills found.\n"
	verificationLineTemplateConstant = "%s %s (%s)\n"
	statusLabelWidthConstant         = 4
)

// WriteLockSummary reports the number of locked skills and the lock location.
func WriteLockSummary(writer io.Writer, outcome LockOutcome) error {
	_, writeError := fmt.Fprintf(writer, lockSummaryTemplateConstant, len(outcome.Record.Skills), outcome.LockPath)
	return writeError
}

// WriteVerification renders one "STATUS name (path)" line per reconciliation entry.
func WriteVerification(writer io.Writer, styler ui.StatusStyler, outcome VerifyOutcome) error {
	if !outcome.LockFound {
		_, writeError := fmt.Fprintf(writer, missingLockTemplateConstant, outcome.LockPath)
		return writeError
	}

	if len(outcome.Result.Entries) == 0 {
		_, writeError := io.WriteString(writer, noSkillsMessageConstant)
		return writeError
	}

	for _, entry := range outcome.Result.Entries {
		label := styler.RenderPadded(string(entry.Status), statusLabelWidthConstant)
		if _, writeError := fmt.Fprintf(writer, verificationLineTemplateConstant, label, entry.Name, entry.Path); writeError != nil {
			return writeError
		}
	}
	return nil
}

type verificationDocument struct {
	LockPath  string                `json:"lockPath"`
	LockFound bool                  `json:"lockFound"`
	OK        bool                  `json:"ok"`
	Entries   []ReconciliationEntry `json:"entries"`
}

// WriteVerificationJSON renders the verification outcome as indented JSON.
func WriteVerificationJSON(writer io.Writer, outcome VerifyOutcome) error {
	entries := outcome.Result.Entries
	if entries == nil {
		entries = []ReconciliationEntry{}
	}
	return writeJSON(writer, verificationDocument{
		LockPath:  outcome.LockPath,
		LockFound: outcome.LockFound,
		OK:        outcome.OK(),
		Entries:   entries,
	})
}

// WriteLockJSON renders the written lock record as indented JSON.
func WriteLockJSON(writer io.Writer, outcome LockOutcome) error {
	return writeJSON(writer, outcome.Record)
}

func writeJSON(writer io.Writer, document any) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(document)
}
