package cloudio

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/AI-Mobility-Research-Lab/lidar-beam-reduction/internal/cloud"
)

func decodeString(t *testing.T, s string) (cloud.PointCloud, error) {
	t.Helper()
	return DecodePLY(bufio.NewReader(strings.NewReader(s)))
}

func TestDecodePLYASCII(t *testing.T) {
	ply := `ply
format ascii 1.0
comment synthetic fixture
element vertex 2
property float x
property float y
property float z
property float intensity
end_header
1 2 3 0.5
-1 -2 -3 0.25
`
	pc, err := decodeString(t, ply)
	if err != nil {
		t.Fatal(err)
	}

	want := cloud.PointCloud{
		{X: 1, Y: 2, Z: 3, Intensity: 0.5},
		{X: -1, Y: -2, Z: -3, Intensity: 0.25},
	}
	if diff := cmp.Diff(want, pc); diff != "" {
		t.Errorf("decoded cloud mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodePLYIntensityDefaults(t *testing.T) {
	ply := `ply
format ascii 1.0
element vertex 1
property float x
property float y
property float z
end_header
4 0 3
`
	pc, err := decodeString(t, ply)
	if err != nil {
		t.Fatal(err)
	}
	if len(pc) != 1 {
		t.Fatalf("len = %d, want 1", len(pc))
	}
	if pc[0].Intensity != 1.0 {
		t.Errorf("intensity = %f, want default 1.0", pc[0].Intensity)
	}
}

func TestDecodePLYExtraProperties(t *testing.T) {
	// Unknown scalar properties are read past, not rejected.
	ply := `ply
format ascii 1.0
element vertex 1
property float x
property float y
property float z
property uchar red
property float intensity
end_header
1 1 1 200 0.75
`
	pc, err := decodeString(t, ply)
	if err != nil {
		t.Fatal(err)
	}
	if pc[0].Intensity != 0.75 {
		t.Errorf("intensity = %f, want 0.75", pc[0].Intensity)
	}
}

func TestDecodePLYErrors(t *testing.T) {
	tests := []struct {
		name string
		ply  string
	}{
		{"missing magic", "nope\nformat ascii 1.0\nend_header\n"},
		{"unsupported format", "ply\nformat binary_big_endian 1.0\nelement vertex 0\nend_header\n"},
		{"missing xyz", "ply\nformat ascii 1.0\nelement vertex 1\nproperty float x\nend_header\n1\n"},
		{"list property", "ply\nformat ascii 1.0\nelement vertex 1\nproperty list uchar int vertex_indices\nend_header\n"},
		{"truncated data", "ply\nformat ascii 1.0\nelement vertex 2\nproperty float x\nproperty float y\nproperty float z\nend_header\n1 2 3\n"},
		{"bad vertex count", "ply\nformat ascii 1.0\nelement vertex abc\nend_header\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := decodeString(t, tt.ply); !errors.Is(err, ErrFormat) {
				t.Errorf("err = %v, want ErrFormat", err)
			}
		})
	}
}

func TestDecodePLYBinaryIntegerTypes(t *testing.T) {
	// Integer-typed vertex properties decode by their declared type; an
	// int32 coordinate must not be read as float32 bits, and signed
	// single-byte values must keep their sign.
	var buf bytes.Buffer
	buf.WriteString("ply\nformat binary_little_endian 1.0\nelement vertex 2\n" +
		"property int x\nproperty short y\nproperty char z\nproperty uchar intensity\nend_header\n")

	writeVertex := func(x int32, y int16, z int8, intensity uint8) {
		var rec [8]byte
		binary.LittleEndian.PutUint32(rec[0:], uint32(x))
		binary.LittleEndian.PutUint16(rec[4:], uint16(y))
		rec[6] = byte(z)
		rec[7] = intensity
		buf.Write(rec[:])
	}
	writeVertex(3, -4, 5, 200)
	writeVertex(-30, 40, -5, 0)

	pc, err := DecodePLY(bufio.NewReader(&buf))
	if err != nil {
		t.Fatal(err)
	}

	want := cloud.PointCloud{
		{X: 3, Y: -4, Z: 5, Intensity: 200},
		{X: -30, Y: 40, Z: -5, Intensity: 0},
	}
	if diff := cmp.Diff(want, pc); diff != "" {
		t.Errorf("decoded cloud mismatch (-want +got):\n%s", diff)
	}
}

func TestPLYBinaryRoundTrip(t *testing.T) {
	pc := cloud.PointCloud{
		{X: 1.5, Y: -2.25, Z: 0.125, Intensity: 0.7},
		{X: 10, Y: 20, Z: -30, Intensity: 1},
	}

	var buf bytes.Buffer
	if err := EncodePLY(&buf, pc); err != nil {
		t.Fatal(err)
	}

	got, err := DecodePLY(bufio.NewReader(&buf))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(pc, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestPLYFileRoundTrip(t *testing.T) {
	pc := cloud.PointCloud{{X: 3, Y: 4, Z: 5, Intensity: 0.5}}
	path := filepath.Join(t.TempDir(), "cloud.ply")

	if err := WritePLY(path, pc); err != nil {
		t.Fatal(err)
	}
	got, err := ReadPLY(path)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(pc, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}
