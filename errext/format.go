package errext

import "errors"

// Format renders err as the text that should be shown to a user, plus
// any structured fields (currently just "hint") that a logger should
// attach alongside it. A nil err formats to an empty string and no
// fields.
func Format(err error) (string, map[string]interface{}) {
	if err == nil {
		return "", nil
	}

	errorText := err.Error()
	var xerr Exception
	if errors.As(err, &xerr) {
		errorText = xerr.StackTrace()
	}

	var fields map[string]interface{}
	var herr HasHint
	if errors.As(err, &herr) {
		fields = map[string]interface{}{"hint": herr.Hint()}
	}

	return errorText, fields
}
