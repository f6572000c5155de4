package assistant

import "strings"

// Suggestions returns canned follow-up questions keyed off the topic of the
// user's message. Returns nil when no topic matches.
func Suggestions(message string) []string {
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "oil"):
		return []string{
			"How often should I change my oil?",
			"What type of oil should I use?",
		}
	case strings.Contains(lower, "brake"):
		return []string{
			"How do I know if my brakes need replacing?",
			"What causes squeaky brakes?",
		}
	case strings.Contains(lower, "noise"), strings.Contains(lower, "sound"):
		return []string{
			"What could cause a knocking sound?",
			"Should I be worried about this noise?",
		}
	}
	return nil
}
