// Package cloudio reads and writes point clouds in the sensor's native
// binary record format (flat float32 quads, KITTI velodyne layout) and in
// PLY interchange form.
package cloudio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/AI-Mobility-Research-Lab/lidar-beam-reduction/internal/cloud"
)

// ErrFormat reports a malformed input record stream. Test with errors.Is.
var ErrFormat = errors.New("malformed point cloud record")

// pointRecordSize is the wire size of one point: 4 little-endian float32
// values (x, y, z, intensity), no header, no count field.
const pointRecordSize = 16

// ReadBin loads a flat float32 point cloud file. The point count is inferred
// from the file size; a size that is not a multiple of the record width is a
// format error.
func ReadBin(path string) (cloud.PointCloud, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return DecodeBin(data)
}

// DecodeBin parses a flat float32 record stream into a point cloud.
func DecodeBin(data []byte) (cloud.PointCloud, error) {
	if len(data)%pointRecordSize != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a multiple of the %d-byte point record",
			ErrFormat, len(data), pointRecordSize)
	}

	pc := make(cloud.PointCloud, len(data)/pointRecordSize)
	for i := range pc {
		off := i * pointRecordSize
		pc[i] = cloud.Point{
			X:         math.Float32frombits(binary.LittleEndian.Uint32(data[off:])),
			Y:         math.Float32frombits(binary.LittleEndian.Uint32(data[off+4:])),
			Z:         math.Float32frombits(binary.LittleEndian.Uint32(data[off+8:])),
			Intensity: math.Float32frombits(binary.LittleEndian.Uint32(data[off+12:])),
		}
	}
	return pc, nil
}

// WriteBin writes a point cloud as a flat little-endian float32 stream,
// creating parent directories as needed. The layout round-trips bit-exact
// through ReadBin.
func WriteBin(path string, pc cloud.PointCloud) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	return os.WriteFile(path, EncodeBin(pc), 0644)
}

// EncodeBin serializes a point cloud to the flat float32 record layout.
func EncodeBin(pc cloud.PointCloud) []byte {
	data := make([]byte, len(pc)*pointRecordSize)
	for i, p := range pc {
		off := i * pointRecordSize
		binary.LittleEndian.PutUint32(data[off:], math.Float32bits(p.X))
		binary.LittleEndian.PutUint32(data[off+4:], math.Float32bits(p.Y))
		binary.LittleEndian.PutUint32(data[off+8:], math.Float32bits(p.Z))
		binary.LittleEndian.PutUint32(data[off+12:], math.Float32bits(p.Intensity))
	}
	return data
}
