package vector

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
)

// Save persists the index to path, creating parent directories as needed.
// Format: dimension (uint32), count (uint32), then count vectors of
// dimension*4 little-endian float32 bytes. Vectors are stored in position
// order so a load preserves positional alignment with the document store.
func (f *Flat) Save(path string) error {
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create index dir: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create index file: %w", err)
	}
	defer file.Close()
	if err := binary.Write(file, binary.LittleEndian, uint32(f.dimension)); err != nil {
		return fmt.Errorf("write dimension: %w", err)
	}
	if err := binary.Write(file, binary.LittleEndian, uint32(len(f.vectors))); err != nil {
		return fmt.Errorf("write count: %w", err)
	}
	for i, vec := range f.vectors {
		if _, err := file.Write(float32SliceToBytes(vec)); err != nil {
			return fmt.Errorf("write vector %d: %w", i, err)
		}
	}
	return nil
}

// LoadFlat reads an index previously written by Save. The stored dimension
// must match dimension; any read or format failure is returned so the caller
// can fall back to a fresh rebuild.
func LoadFlat(path string, dimension int) (*Flat, error) {
	f, err := NewFlat(dimension)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open index file: %w", err)
	}
	defer file.Close()

	var dim, n uint32
	if err := binary.Read(file, binary.LittleEndian, &dim); err != nil {
		return nil, fmt.Errorf("read dimension: %w", err)
	}
	if int(dim) != dimension {
		return nil, fmt.Errorf("%w: file has %d, expected %d", ErrDimensionMismatch, dim, dimension)
	}
	if err := binary.Read(file, binary.LittleEndian, &n); err != nil {
		return nil, fmt.Errorf("read count: %w", err)
	}
	buf := make([]byte, dimension*4)
	for i := uint32(0); i < n; i++ {
		if _, err := file.Read(buf); err != nil {
			return nil, fmt.Errorf("read vector %d: %w", i, err)
		}
		f.vectors = append(f.vectors, bytesToFloat32Slice(buf))
	}
	return f, nil
}

func float32SliceToBytes(s []float32) []byte {
	const size = 4
	out := make([]byte, len(s)*size)
	for i, v := range s {
		binary.LittleEndian.PutUint32(out[i*size:(i+1)*size], math.Float32bits(v))
	}
	return out
}

func bytesToFloat32Slice(b []byte) []float32 {
	const size = 4
	out := make([]float32, len(b)/size)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*size : (i+1)*size]))
	}
	return out
}
