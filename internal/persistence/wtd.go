package persistence

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/vskvj3/geomys/internal/utils"
)

// maxRecordSize bounds a single log record so a corrupt length prefix cannot
// trigger a huge allocation.
const maxRecordSize = 16 << 20

// Persistence manages the binary request log. Each record is a little
// endian uint32 length followed by a msgpack encoded request map.
type Persistence struct {
	mu   sync.Mutex
	file *os.File
}

// NewPersistence opens (creating if needed) the log file at path
func NewPersistence(path string) (*Persistence, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create persistence directory: %w", err)
	}

	// Open the file in append mode, create if needed
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, err
	}

	return &Persistence{file: file}, nil
}

// LogRequest writes a request into the disk
func (p *Persistence) LogRequest(req map[string]interface{}) error {
	payload, err := utils.EncodeMessage(req)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	if len(payload) > maxRecordSize {
		return fmt.Errorf("request of %d bytes exceeds record limit", len(payload))
	}

	record := make([]byte, 4+len(payload))
	binary.LittleEndian.PutUint32(record[:4], uint32(len(payload)))
	copy(record[4:], payload)

	p.mu.Lock()
	defer p.mu.Unlock()
	if _, err := p.file.Write(record); err != nil {
		return err
	}
	return p.file.Sync()
}

// LoadRequests reads the binary log and returns the requests in write order.
// A truncated trailing record, left by a crash mid write, is cut off the
// file so later appends start on a record boundary.
func (p *Persistence) LoadRequests() ([]map[string]interface{}, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	f, err := os.Open(p.file.Name())
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := bufio.NewReader(f)
	var requests []map[string]interface{}
	var good int64 // offset just past the last complete record
	header := make([]byte, 4)
	for {
		if _, err := io.ReadFull(reader, header); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				break
			}
			return nil, err
		}

		size := binary.LittleEndian.Uint32(header)
		if size > maxRecordSize {
			return nil, fmt.Errorf("corrupt log: record %d at offset %d has size %d", len(requests), good, size)
		}
		payload := make([]byte, size)
		if _, err := io.ReadFull(reader, payload); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				break
			}
			return nil, err
		}

		req, err := utils.DecodeMessage(payload)
		if err != nil {
			return nil, fmt.Errorf("corrupt log: record %d at offset %d: %w", len(requests), good, err)
		}
		requests = append(requests, req)
		good += int64(len(header)) + int64(size)
	}

	info, err := p.file.Stat()
	if err != nil {
		return nil, err
	}
	if info.Size() > good {
		if err := p.file.Truncate(good); err != nil {
			return nil, fmt.Errorf("drop torn record at offset %d: %w", good, err)
		}
	}

	return requests, nil
}

// Path returns the log file location
func (p *Persistence) Path() string {
	return p.file.Name()
}

// Close closes the persistence file.
func (p *Persistence) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.file.Close()
}
