package errext

import "github.com/sirupsen/logrus"

// Fprint logs err through logger at error level, using Format to pick
// the message text and attach any hint field. It is a no-op for a nil
// err.
func Fprint(logger logrus.FieldLogger, err error) {
	if err == nil {
		return
	}
	errorText, fields := Format(err)
	logger.WithFields(fields).Error(errorText)
}
