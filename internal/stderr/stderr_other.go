//go:build !unix

package stderr

import "github.com/sirupsen/logrus"

// Capture is a no-op where the audio backend does not write to fd 2.
type Capture struct{}

// Start is a no-op.
func Start(logrus.FieldLogger) (*Capture, error) {
	return &Capture{}, nil
}

// Stop is a no-op.
func (c *Capture) Stop() error {
	return nil
}
