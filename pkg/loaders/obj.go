package loaders

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/df07/go-raycaster/pkg/core"
	"github.com/df07/go-raycaster/pkg/geometry"
	"github.com/df07/go-raycaster/pkg/material"
)

// OBJIndex references the attributes of one face corner. Indices are
// 0-based; -1 means the attribute was not given.
type OBJIndex struct {
	Vertex   int
	TexCoord int
	Normal   int
}

// OBJData contains the raw data loaded from a Wavefront OBJ file
type OBJData struct {
	Vertices        []core.Vec3
	TexCoords       []core.Vec2
	Normals         []core.Vec3
	Faces           [][3]OBJIndex // Polygons are fan-triangulated while parsing
	UnknownKeywords []string      // Keywords that were skipped, in first-seen order
}

// Keywords that carry no geometry and are skipped without a warning
var ignoredOBJKeywords = map[string]bool{
	"o": true, "g": true, "s": true, "usemtl": true, "mtllib": true,
}

// LoadOBJ loads an OBJ file
func LoadOBJ(filename string) (*OBJData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open OBJ file: %w", err)
	}
	defer file.Close()

	data, err := ParseOBJ(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return data, nil
}

// ParseOBJ reads v, vt, vn and f statements. Face references may be v, v/t,
// v//n or v/t/n, 1-based or negative (relative to the end of the list so far).
func ParseOBJ(reader io.Reader) (*OBJData, error) {
	data := &OBJData{}
	seenUnknown := make(map[string]bool)

	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNumber := 0

	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		keyword, args := fields[0], fields[1:]

		var err error
		switch keyword {
		case "v":
			var v core.Vec3
			if v, err = parseOBJVec3(args); err == nil {
				data.Vertices = append(data.Vertices, v)
			}
		case "vn":
			var n core.Vec3
			if n, err = parseOBJVec3(args); err == nil {
				data.Normals = append(data.Normals, n)
			}
		case "vt":
			var uv core.Vec2
			if uv, err = parseOBJVec2(args); err == nil {
				data.TexCoords = append(data.TexCoords, uv)
			}
		case "f":
			err = data.parseFace(args)
		default:
			if !ignoredOBJKeywords[keyword] && !seenUnknown[keyword] {
				seenUnknown[keyword] = true
				data.UnknownKeywords = append(data.UnknownKeywords, keyword)
			}
		}

		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNumber, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading input: %w", err)
	}

	return data, nil
}

func parseOBJFloats(args []string, count int) ([]float64, error) {
	if len(args) < count {
		return nil, fmt.Errorf("expected %d values, got %d: %w", count, len(args), ErrMissingField)
	}
	values := make([]float64, count)
	for i := 0; i < count; i++ {
		value, err := strconv.ParseFloat(args[i], 64)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", args[i], ErrInvalidNumber)
		}
		values[i] = value
	}
	return values, nil
}

func parseOBJVec3(args []string) (core.Vec3, error) {
	values, err := parseOBJFloats(args, 3)
	if err != nil {
		return core.Vec3{}, err
	}
	return core.NewVec3(values[0], values[1], values[2]), nil
}

func parseOBJVec2(args []string) (core.Vec2, error) {
	values, err := parseOBJFloats(args, 2)
	if err != nil {
		return core.Vec2{}, err
	}
	return core.NewVec2(values[0], values[1]), nil
}

// parseFace resolves every corner and fan-triangulates the polygon
func (d *OBJData) parseFace(args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("face needs at least 3 vertices, got %d: %w", len(args), ErrMissingField)
	}

	corners := make([]OBJIndex, len(args))
	for i, arg := range args {
		corner, err := d.parseCorner(arg)
		if err != nil {
			return err
		}
		corners[i] = corner
	}

	for i := 1; i+1 < len(corners); i++ {
		d.Faces = append(d.Faces, [3]OBJIndex{corners[0], corners[i], corners[i+1]})
	}
	return nil
}

func (d *OBJData) parseCorner(ref string) (OBJIndex, error) {
	parts := strings.Split(ref, "/")
	if len(parts) > 3 {
		return OBJIndex{}, fmt.Errorf("face reference %q: %w", ref, ErrInvalidIndex)
	}

	corner := OBJIndex{Vertex: -1, TexCoord: -1, Normal: -1}
	var err error

	if corner.Vertex, err = resolveOBJIndex(parts[0], len(d.Vertices)); err != nil {
		return OBJIndex{}, fmt.Errorf("face reference %q: %w", ref, err)
	}
	if len(parts) > 1 && parts[1] != "" {
		if corner.TexCoord, err = resolveOBJIndex(parts[1], len(d.TexCoords)); err != nil {
			return OBJIndex{}, fmt.Errorf("face reference %q: %w", ref, err)
		}
	}
	if len(parts) > 2 && parts[2] != "" {
		if corner.Normal, err = resolveOBJIndex(parts[2], len(d.Normals)); err != nil {
			return OBJIndex{}, fmt.Errorf("face reference %q: %w", ref, err)
		}
	}
	return corner, nil
}

// resolveOBJIndex converts a 1-based or negative OBJ index into a 0-based one
func resolveOBJIndex(s string, count int) (int, error) {
	value, err := strconv.Atoi(s)
	if err != nil {
		return -1, fmt.Errorf("%q: %w", s, ErrInvalidNumber)
	}

	index := value - 1
	if value < 0 {
		index = count + value
	}
	if value == 0 || index < 0 || index >= count {
		return -1, fmt.Errorf("index %d with %d elements: %w", value, count, ErrInvalidIndex)
	}
	return index, nil
}

// BuildMeshTriangles turns parsed OBJ data into triangles. Smoothed meshes use
// the file's normals when every corner has one, otherwise vertex normals
// averaged from the adjacent faces.
func BuildMeshTriangles(obj *OBJData, mat *material.Material, smooth bool) []*geometry.Triangle {
	var computedNormals []core.Vec3
	if smooth {
		faces := make([]int, 0, len(obj.Faces)*3)
		for _, face := range obj.Faces {
			faces = append(faces, face[0].Vertex, face[1].Vertex, face[2].Vertex)
		}
		computedNormals = geometry.VertexNormals(obj.Vertices, faces)
	}

	triangles := make([]*geometry.Triangle, 0, len(obj.Faces))
	for _, face := range obj.Faces {
		useFileNormals := face[0].Normal >= 0 && face[1].Normal >= 0 && face[2].Normal >= 0

		var vertices [3]geometry.Vertex
		for k, corner := range face {
			vertices[k].Position = obj.Vertices[corner.Vertex]
			if corner.TexCoord >= 0 {
				vertices[k].TexCoord = obj.TexCoords[corner.TexCoord]
			}
			if smooth {
				if useFileNormals {
					vertices[k].Normal = obj.Normals[corner.Normal].Normalize()
				} else {
					vertices[k].Normal = computedNormals[corner.Vertex]
				}
			}
		}
		triangles = append(triangles, geometry.NewTriangle(vertices, mat, smooth))
	}

	return triangles
}

// NewMeshFromOBJ builds a triangle mesh, with an octree when options ask for one
func NewMeshFromOBJ(obj *OBJData, mat *material.Material, smooth bool, options *geometry.TriangleMeshOptions) *geometry.TriangleMesh {
	return geometry.NewTriangleMesh(BuildMeshTriangles(obj, mat, smooth), obj.Vertices, options)
}
