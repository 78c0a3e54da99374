//go:build linux

// Package stderr captures writes made directly to file descriptor 2 by the
// audio backend's C bits. ALSA reports underruns and device trouble there,
// bypassing os.Stderr, and any line landing on the terminal mid-frame tears
// up the interface.
package stderr

import (
	"bufio"
	"os"
	"strings"
	"syscall"
)

// Messages receives the captured lines. The reader should drain it; when
// the buffer is full further lines are dropped. Closed by Stop.
var Messages = make(chan string, 100)

var (
	origFd    int
	pipeRead  *os.File
	pipeWrite *os.File
	started   bool
)

// Start redirects file descriptor 2 into a pipe and forwards captured lines
// to Messages. Call it before the audio backend initializes. On error the
// program keeps running, with backend noise going to the original stderr.
func Start() error {
	if started {
		return nil
	}

	r, w, err := os.Pipe()
	if err != nil {
		return err
	}

	origFd, err = syscall.Dup(int(os.Stderr.Fd()))
	if err != nil {
		r.Close()
		w.Close()
		return err
	}

	if err := syscall.Dup3(int(w.Fd()), int(os.Stderr.Fd()), 0); err != nil {
		syscall.Close(origFd)
		r.Close()
		w.Close()
		return err
	}

	pipeRead = r
	pipeWrite = w
	started = true

	go func() {
		defer close(Messages)
		scanner := bufio.NewScanner(pipeRead)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			select {
			case Messages <- line:
			default:
			}
		}
	}()

	return nil
}

// Stop restores the original stderr. Once the pipe drains the forwarding
// goroutine closes Messages.
func Stop() {
	if !started {
		return
	}

	_ = syscall.Dup3(origFd, int(os.Stderr.Fd()), 0)
	syscall.Close(origFd)

	pipeWrite.Close()
	pipeRead.Close()

	started = false
}
