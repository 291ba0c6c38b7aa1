package flags

import (
	"fmt"
	"strings"
)

const (
	choicePlaceholderTemplate = "<%s>"
	choiceSeparatorLiteral    = "|"
	choiceUsageEmptyTemplate  = "`%s`"
	choiceUsageFullTemplate   = "`%s` %s"
)

// ChoiceSet is the closed set of values an enumerated flag accepts.
// Choices are trimmed and deduplicated case-insensitively, keeping the first spelling.
type ChoiceSet struct {
	defaultChoice string
	choices       []string
}

// NewChoiceSet constructs a ChoiceSet whose empty value resolves to defaultChoice.
func NewChoiceSet(defaultChoice string, choices ...string) ChoiceSet {
	seen := make(map[string]struct{}, len(choices))
	uniqueChoices := make([]string, 0, len(choices))
	for _, choice := range choices {
		trimmedChoice := strings.TrimSpace(choice)
		normalizedChoice := strings.ToLower(trimmedChoice)
		if len(normalizedChoice) == 0 {
			continue
		}
		if _, exists := seen[normalizedChoice]; exists {
			continue
		}
		seen[normalizedChoice] = struct{}{}
		uniqueChoices = append(uniqueChoices, trimmedChoice)
	}
	return ChoiceSet{defaultChoice: strings.TrimSpace(defaultChoice), choices: uniqueChoices}
}

// Usage renders the choices as a placeholder with the default capitalized, followed by description.
func (set ChoiceSet) Usage(description string) string {
	normalizedDefault := strings.ToLower(set.defaultChoice)
	displayed := make([]string, 0, len(set.choices))
	for _, choice := range set.choices {
		if len(normalizedDefault) > 0 && strings.ToLower(choice) == normalizedDefault {
			choice = strings.ToUpper(choice)
		}
		displayed = append(displayed, choice)
	}

	placeholder := fmt.Sprintf(choicePlaceholderTemplate, strings.Join(displayed, choiceSeparatorLiteral))
	if len(strings.TrimSpace(description)) == 0 {
		return fmt.Sprintf(choiceUsageEmptyTemplate, placeholder)
	}
	return fmt.Sprintf(choiceUsageFullTemplate, placeholder, description)
}

// Normalize maps value onto its canonical choice, matching case-insensitively.
// A blank value yields the default. ok is false when value is not one of the choices.
func (set ChoiceSet) Normalize(value string) (string, bool) {
	normalizedValue := strings.ToLower(strings.TrimSpace(value))
	if len(normalizedValue) == 0 {
		return set.defaultChoice, len(set.defaultChoice) > 0
	}
	for _, choice := range set.choices {
		if strings.ToLower(choice) == normalizedValue {
			return choice, true
		}
	}
	return "", false
}
