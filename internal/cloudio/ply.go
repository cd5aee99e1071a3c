package cloudio

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/AI-Mobility-Research-Lab/lidar-beam-reduction/internal/cloud"
)

// plyKind is the declared scalar type of a PLY property. Binary decoding
// dispatches on the kind, not the byte width, so an int32 property is never
// misread as float32 bits.
type plyKind int

const (
	plyInt8 plyKind = iota
	plyUint8
	plyInt16
	plyUint16
	plyInt32
	plyUint32
	plyFloat32
	plyFloat64
)

// size returns the property's on-wire width in bytes.
func (k plyKind) size() int {
	switch k {
	case plyInt8, plyUint8:
		return 1
	case plyInt16, plyUint16:
		return 2
	case plyFloat64:
		return 8
	default:
		return 4
	}
}

// plyProperty is one scalar property of a PLY vertex element.
type plyProperty struct {
	name string
	kind plyKind
}

var plyTypes = map[string]plyKind{
	"char": plyInt8, "int8": plyInt8,
	"uchar": plyUint8, "uint8": plyUint8,
	"short": plyInt16, "int16": plyInt16,
	"ushort": plyUint16, "uint16": plyUint16,
	"int": plyInt32, "int32": plyInt32,
	"uint": plyUint32, "uint32": plyUint32,
	"float": plyFloat32, "float32": plyFloat32,
	"double": plyFloat64, "float64": plyFloat64,
}

// ReadPLY loads a PLY point cloud. Supported encodings are ascii and
// binary_little_endian; the vertex element must carry x, y and z properties.
// When intensity is absent every point defaults to 1.0.
func ReadPLY(path string) (cloud.PointCloud, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return DecodePLY(bufio.NewReader(f))
}

// DecodePLY parses a PLY stream into a point cloud.
func DecodePLY(r *bufio.Reader) (cloud.PointCloud, error) {
	format, count, props, err := readPLYHeader(r)
	if err != nil {
		return nil, err
	}

	xi, yi, zi, ii := -1, -1, -1, -1
	for i, p := range props {
		switch p.name {
		case "x":
			xi = i
		case "y":
			yi = i
		case "z":
			zi = i
		case "intensity":
			ii = i
		}
	}
	if xi < 0 || yi < 0 || zi < 0 {
		return nil, fmt.Errorf("%w: vertex element is missing x/y/z properties", ErrFormat)
	}

	pc := make(cloud.PointCloud, 0, count)
	values := make([]float64, len(props))
	for n := 0; n < count; n++ {
		if format == "ascii" {
			if err := readPLYASCIIVertex(r, props, values); err != nil {
				return nil, err
			}
		} else {
			if err := readPLYBinaryVertex(r, props, values); err != nil {
				return nil, err
			}
		}

		intensity := 1.0
		if ii >= 0 {
			intensity = values[ii]
		}
		pc = append(pc, cloud.Point{
			X:         float32(values[xi]),
			Y:         float32(values[yi]),
			Z:         float32(values[zi]),
			Intensity: float32(intensity),
		})
	}
	return pc, nil
}

func readPLYHeader(r *bufio.Reader) (format string, count int, props []plyProperty, err error) {
	magic, err := readPLYLine(r)
	if err != nil || magic != "ply" {
		return "", 0, nil, fmt.Errorf("%w: missing ply magic", ErrFormat)
	}

	inVertex := false
	for {
		line, err := readPLYLine(r)
		if err != nil {
			return "", 0, nil, fmt.Errorf("%w: truncated header", ErrFormat)
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "format":
			if len(fields) < 2 {
				return "", 0, nil, fmt.Errorf("%w: bad format line", ErrFormat)
			}
			format = fields[1]
			if format != "ascii" && format != "binary_little_endian" {
				return "", 0, nil, fmt.Errorf("%w: unsupported ply format %q", ErrFormat, format)
			}
		case "comment", "obj_info":
			// skip
		case "element":
			if len(fields) < 3 {
				return "", 0, nil, fmt.Errorf("%w: bad element line", ErrFormat)
			}
			if fields[1] == "vertex" {
				inVertex = true
				count, err = strconv.Atoi(fields[2])
				if err != nil || count < 0 {
					return "", 0, nil, fmt.Errorf("%w: bad vertex count %q", ErrFormat, fields[2])
				}
			} else {
				inVertex = false
			}
		case "property":
			if !inVertex {
				continue
			}
			if len(fields) >= 2 && fields[1] == "list" {
				return "", 0, nil, fmt.Errorf("%w: list properties on vertex element are unsupported", ErrFormat)
			}
			if len(fields) < 3 {
				return "", 0, nil, fmt.Errorf("%w: bad property line", ErrFormat)
			}
			kind, ok := plyTypes[fields[1]]
			if !ok {
				return "", 0, nil, fmt.Errorf("%w: unknown property type %q", ErrFormat, fields[1])
			}
			props = append(props, plyProperty{name: fields[2], kind: kind})
		case "end_header":
			if format == "" {
				return "", 0, nil, fmt.Errorf("%w: header has no format line", ErrFormat)
			}
			return format, count, props, nil
		}
	}
}

func readPLYLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func readPLYASCIIVertex(r *bufio.Reader, props []plyProperty, values []float64) error {
	line, err := readPLYLine(r)
	if err != nil {
		return fmt.Errorf("%w: truncated vertex data", ErrFormat)
	}
	fields := strings.Fields(line)
	if len(fields) < len(props) {
		return fmt.Errorf("%w: vertex row has %d values, want %d", ErrFormat, len(fields), len(props))
	}
	for i := range props {
		v, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return fmt.Errorf("%w: bad vertex value %q", ErrFormat, fields[i])
		}
		values[i] = v
	}
	return nil
}

func readPLYBinaryVertex(r *bufio.Reader, props []plyProperty, values []float64) error {
	var buf [8]byte
	for i, p := range props {
		if _, err := io.ReadFull(r, buf[:p.kind.size()]); err != nil {
			return fmt.Errorf("%w: truncated vertex data", ErrFormat)
		}
		switch p.kind {
		case plyInt8:
			values[i] = float64(int8(buf[0]))
		case plyUint8:
			values[i] = float64(buf[0])
		case plyInt16:
			values[i] = float64(int16(binary.LittleEndian.Uint16(buf[:2])))
		case plyUint16:
			values[i] = float64(binary.LittleEndian.Uint16(buf[:2]))
		case plyInt32:
			values[i] = float64(int32(binary.LittleEndian.Uint32(buf[:4])))
		case plyUint32:
			values[i] = float64(binary.LittleEndian.Uint32(buf[:4]))
		case plyFloat32:
			values[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(buf[:4])))
		case plyFloat64:
			values[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf[:8]))
		}
	}
	return nil
}

// WritePLY writes a point cloud as a binary_little_endian PLY file with
// float32 x, y, z and intensity vertex properties.
func WritePLY(path string, pc cloud.PointCloud) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := EncodePLY(w, pc); err != nil {
		return err
	}
	return w.Flush()
}

// EncodePLY serializes a point cloud to binary_little_endian PLY.
func EncodePLY(w io.Writer, pc cloud.PointCloud) error {
	header := fmt.Sprintf("ply\nformat binary_little_endian 1.0\n"+
		"element vertex %d\n"+
		"property float x\nproperty float y\nproperty float z\nproperty float intensity\n"+
		"end_header\n", len(pc))
	if _, err := io.WriteString(w, header); err != nil {
		return err
	}

	var buf [16]byte
	for _, p := range pc {
		binary.LittleEndian.PutUint32(buf[0:], math.Float32bits(p.X))
		binary.LittleEndian.PutUint32(buf[4:], math.Float32bits(p.Y))
		binary.LittleEndian.PutUint32(buf[8:], math.Float32bits(p.Z))
		binary.LittleEndian.PutUint32(buf[12:], math.Float32bits(p.Intensity))
		if _, err := w.Write(buf[:]); err != nil {
			return err
		}
	}
	return nil
}
