package notification

import (
	"go.uber.org/zap"

	"pop-translate/src/logutil"
)

// ShowBlockingError logs the failure and, where the platform supports it,
// shows a modal dialog that blocks until the user dismisses it.
func ShowBlockingError(title, message string) {
	logutil.Named("notification").Error(title, zap.String("message", message))
	showDialog(title, message)
}
