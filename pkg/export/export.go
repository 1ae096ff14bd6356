// Package export persists detection results to an append-only,
// snappy-compressed, checksummed result log.
package export

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang/snappy"
)

// Record is one persisted detection run.
type Record struct {
	RunID           string             `json:"run_id"`
	Model           string             `json:"model"`
	Partition       map[int]int        `json:"partition"`
	Parameters      map[string]float64 `json:"parameters"`
	LogLikelihood   float64            `json:"log_likelihood"`
	Converged       bool               `json:"converged"`
	OuterIterations int                `json:"outer_iterations"`
	CreatedAt       time.Time          `json:"created_at"`
}

// Writer appends records to a result log file.
type Writer struct {
	file    *os.File
	writer  *bufio.Writer
	nextSeq uint64
	mu      sync.Mutex
}

// NewWriter opens (or creates) a result log for appending.
func NewWriter(path string) (*Writer, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create export directory: %w", err)
		}
	}
	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open result log: %w", err)
	}
	w := &Writer{
		file:   file,
		writer: bufio.NewWriter(file),
	}
	if err := w.recoverSeq(); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to recover sequence number: %w", err)
	}
	return w, nil
}

// Append serializes, compresses and writes one record.
func (w *Writer) Append(rec *Record) (uint64, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return 0, fmt.Errorf("failed to encode record: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.nextSeq++
	seq := w.nextSeq
	compressed := snappy.Encode(nil, data)

	// Format: [Seq:8][DataLen:4][Data:N][Checksum:4][Timestamp:8]
	if err := binary.Write(w.writer, binary.BigEndian, seq); err != nil {
		return 0, err
	}
	if err := binary.Write(w.writer, binary.BigEndian, uint32(len(compressed))); err != nil {
		return 0, err
	}
	if _, err := w.writer.Write(compressed); err != nil {
		return 0, err
	}
	if err := binary.Write(w.writer, binary.BigEndian, crc32.ChecksumIEEE(compressed)); err != nil {
		return 0, err
	}
	if err := binary.Write(w.writer, binary.BigEndian, time.Now().Unix()); err != nil {
		return 0, err
	}
	return seq, w.writer.Flush()
}

// Close flushes buffered frames and closes the underlying file.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.writer.Flush(); err != nil {
		return err
	}
	return w.file.Close()
}

// recoverSeq scans existing frames so appends continue the sequence.
func (w *Writer) recoverSeq() error {
	if _, err := w.file.Seek(0, io.SeekStart); err != nil {
		return err
	}
	reader := bufio.NewReader(w.file)
	for {
		seq, _, err := readFrame(reader)
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if seq > w.nextSeq {
			w.nextSeq = seq
		}
	}
	_, err := w.file.Seek(0, io.SeekEnd)
	return err
}

// ReadAll reads every record from a result log, verifying checksums.
func ReadAll(path string) ([]*Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open result log: %w", err)
	}
	defer file.Close()

	reader := bufio.NewReader(file)
	var records []*Record
	for {
		_, data, err := readFrame(reader)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		var rec Record
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("failed to decode record: %w", err)
		}
		records = append(records, &rec)
	}
	return records, nil
}

// readFrame reads one frame and returns its sequence number and
// decompressed payload. io.EOF marks a clean end of the log.
func readFrame(reader *bufio.Reader) (uint64, []byte, error) {
	var seq uint64
	if err := binary.Read(reader, binary.BigEndian, &seq); err != nil {
		if err == io.EOF {
			return 0, nil, io.EOF
		}
		return 0, nil, fmt.Errorf("failed to read sequence number: %w", err)
	}
	var dataLen uint32
	if err := binary.Read(reader, binary.BigEndian, &dataLen); err != nil {
		return 0, nil, fmt.Errorf("failed to read frame length: %w", err)
	}
	compressed := make([]byte, dataLen)
	if _, err := io.ReadFull(reader, compressed); err != nil {
		return 0, nil, fmt.Errorf("failed to read frame payload: %w", err)
	}
	var checksum uint32
	if err := binary.Read(reader, binary.BigEndian, &checksum); err != nil {
		return 0, nil, fmt.Errorf("failed to read checksum: %w", err)
	}
	if crc32.ChecksumIEEE(compressed) != checksum {
		return 0, nil, fmt.Errorf("checksum mismatch at seq %d", seq)
	}
	var timestamp int64
	if err := binary.Read(reader, binary.BigEndian, &timestamp); err != nil {
		return 0, nil, fmt.Errorf("failed to read timestamp: %w", err)
	}
	data, err := snappy.Decode(nil, compressed)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to decompress frame: %w", err)
	}
	return seq, data, nil
}
