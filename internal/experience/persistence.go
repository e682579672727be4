package experience

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"
)

// ErrNoRecords is returned when there is nothing to persist
var ErrNoRecords = errors.New("no records to persist")

const schemaName = "tank2_record_v1"

// WriteParquet writes records to path through a temporary file renamed into place
func WriteParquet(path string, records []Record) error {
	if len(records) == 0 {
		return ErrNoRecords
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	tmpPath := path + ".tmp"
	_ = os.Remove(tmpPath)

	if err := parquet.WriteFile(tmpPath, records,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
		parquet.KeyValueMetadata("schema", schemaName),
	); err != nil {
		return fmt.Errorf("write parquet: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename parquet: %w", err)
	}
	return nil
}

// WriteBatch writes records to a new timestamped file in dir and returns its path
func WriteBatch(dir string, records []Record) (string, error) {
	name := fmt.Sprintf("selfplay_%d.parquet", time.Now().UnixNano())
	path := filepath.Join(dir, name)
	if err := WriteParquet(path, records); err != nil {
		return "", err
	}
	return path, nil
}

// ReadParquet loads every record stored in path
func ReadParquet(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open parquet: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat parquet: %w", err)
	}

	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("open parquet: %w", err)
	}

	reader := parquet.NewGenericReader[Record](pf)
	defer reader.Close()

	out := make([]Record, 0, reader.NumRows())
	buf := make([]Record, 256)
	for {
		n, err := reader.Read(buf)
		out = append(out, buf[:n]...)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read parquet: %w", err)
		}
	}
	return out, nil
}
