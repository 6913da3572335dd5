package logging

import (
	"os"
	"sync"
)

const defaultLogCapMB = 10

// cappedFile appends log records to a file and starts the file over once the
// next record would push it past its cap. A coordinator left running for days
// keeps only its most recent stretch of log on disk.
type cappedFile struct {
	mu    sync.Mutex
	path  string
	limit int64
	f     *os.File
	size  int64
}

func openCappedFile(path string, maxMB int) (*cappedFile, error) {
	if maxMB <= 0 {
		maxMB = defaultLogCapMB
	}
	c := &cappedFile{path: path, limit: int64(maxMB) << 20}
	if err := c.open(os.O_APPEND); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *cappedFile) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.f == nil {
		if err := c.open(os.O_APPEND); err != nil {
			return 0, err
		}
	}
	if c.size+int64(len(p)) > c.limit {
		_ = c.f.Close()
		if err := c.open(os.O_TRUNC); err != nil {
			c.f = nil
			return 0, err
		}
	}
	n, err := c.f.Write(p)
	c.size += int64(n)
	return n, err
}

func (c *cappedFile) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.f == nil {
		return nil
	}
	err := c.f.Close()
	c.f = nil
	return err
}

// open (re)opens the file with mode, either O_APPEND or O_TRUNC, and picks up
// its current size.
func (c *cappedFile) open(mode int) error {
	f, err := os.OpenFile(c.path, os.O_CREATE|os.O_WRONLY|mode, 0o644)
	if err != nil {
		return err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return err
	}
	c.f, c.size = f, info.Size()
	return nil
}
