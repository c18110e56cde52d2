//go:build !windows

package notification

// Without a native dialog the error is only logged.
func showDialog(string, string) {}
