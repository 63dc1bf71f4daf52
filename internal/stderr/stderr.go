//go:build unix

// Package stderr redirects file descriptor 2 while the TUI owns the
// terminal. The audio backend loads ALSA through dlopen and ALSA writes its
// warnings straight to fd 2, which would otherwise corrupt the screen.
package stderr

import (
	"bufio"
	"errors"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

// Capture is an active redirection of fd 2.
type Capture struct {
	orig  int
	read  *os.File
	write *os.File
	wg    sync.WaitGroup
	once  sync.Once
}

// Start redirects fd 2 into a pipe and forwards every non-empty line to log
// at warn level. The program keeps working if Start fails; output then goes
// to the original stderr.
func Start(log logrus.FieldLogger) (*Capture, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, err
	}

	fd := int(os.Stderr.Fd())
	orig, err := unix.Dup(fd)
	if err != nil {
		r.Close()
		w.Close()
		return nil, err
	}
	if err := unix.Dup2(int(w.Fd()), fd); err != nil {
		unix.Close(orig)
		r.Close()
		w.Close()
		return nil, err
	}

	c := &Capture{orig: orig, read: r, write: w}
	log = log.WithField("component", "stderr")
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			if line := strings.TrimSpace(scanner.Text()); line != "" {
				log.Warn(line)
			}
		}
	}()
	return c, nil
}

// Stop restores the original fd 2 and waits for buffered lines to be logged.
func (c *Capture) Stop() error {
	var err error
	c.once.Do(func() {
		err = unix.Dup2(c.orig, int(os.Stderr.Fd()))
		err = errors.Join(err, unix.Close(c.orig), c.write.Close())
		c.wg.Wait()
		err = errors.Join(err, c.read.Close())
	})
	return err
}
