package file

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// SetupSignalHandler cancels the given context on SIGINT or SIGTERM.
func SetupSignalHandler(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		cancel()
	}()
}
