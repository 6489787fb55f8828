package forms

import (
	"fmt"
	"regexp"
	"strings"
)

// Validator checks a cleaned string value. Fields run their validators in
// order and report the first failure.
type Validator func(value string) error

// RequiredValidator rejects empty or whitespace-only values. Fields with
// Required set apply this check themselves; the validator form exists for
// composing with other validators on optional fields.
func RequiredValidator() Validator {
	return func(value string) error {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("this field is required")
		}
		return nil
	}
}

// MaxLengthValidator rejects values longer than max bytes.
func MaxLengthValidator(max int) Validator {
	return func(value string) error {
		if len(value) > max {
			return fmt.Errorf("ensure this value has at most %d characters (it has %d)", max, len(value))
		}
		return nil
	}
}

// RegexValidator rejects values not matching pattern in full.
func RegexValidator(pattern, message string) Validator {
	re := regexp.MustCompile("^(?:" + pattern + ")$")
	return func(value string) error {
		if !re.MatchString(value) {
			return fmt.Errorf("%s", message)
		}
		return nil
	}
}

// BadLanguageValidator rejects values containing any of the given words,
// case-insensitively. With no words given, a default list applies.
func BadLanguageValidator(badWords ...string) Validator {
	if len(badWords) == 0 {
		badWords = []string{"bad_word_1", "bad_word_2", "bad_word_3"}
	}
	lowered := make([]string, len(badWords))
	for i, w := range badWords {
		lowered[i] = strings.ToLower(w)
	}

	return func(value string) error {
		lower := strings.ToLower(value)
		for _, w := range lowered {
			if strings.Contains(lower, w) {
				return fmt.Errorf("the text contains bad language")
			}
		}
		return nil
	}
}
