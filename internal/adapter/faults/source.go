// Package faults loads tectonic fault-line geometry for the map overlay.
package faults

import (
	"context"
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// FileSource reads fault-line GeoJSON from a local file on every call.
type FileSource struct {
	path string
}

// NewFileSource creates a source backed by the GeoJSON file at path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// FaultLines reads and decodes the file.
func (s *FileSource) FaultLines(ctx context.Context) (*geojson.FeatureCollection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read fault lines: %w", err)
	}
	return Decode(data)
}

// Decode parses a GeoJSON feature collection of fault geometry.
// Properties are kept but nothing reads them.
func Decode(data []byte) (*geojson.FeatureCollection, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("decode fault lines: %w", err)
	}
	return fc, nil
}

// Stats summarizes a collection for logging.
type Stats struct {
	Features int
	Vertices int
	Bound    orb.Bound
}

// Summarize counts features and vertices and computes the overall bound.
func Summarize(fc *geojson.FeatureCollection) Stats {
	var s Stats
	if fc == nil {
		return s
	}
	first := true
	for _, f := range fc.Features {
		if f == nil || f.Geometry == nil {
			continue
		}
		s.Features++
		s.Vertices += countVertices(f.Geometry)
		if first {
			s.Bound = f.Geometry.Bound()
			first = false
		} else {
			s.Bound = s.Bound.Union(f.Geometry.Bound())
		}
	}
	return s
}

func countVertices(g orb.Geometry) int {
	switch g := g.(type) {
	case orb.Point:
		return 1
	case orb.MultiPoint:
		return len(g)
	case orb.LineString:
		return len(g)
	case orb.MultiLineString:
		n := 0
		for _, ls := range g {
			n += len(ls)
		}
		return n
	case orb.Ring:
		return len(g)
	case orb.Polygon:
		n := 0
		for _, r := range g {
			n += len(r)
		}
		return n
	case orb.MultiPolygon:
		n := 0
		for _, p := range g {
			n += countVertices(p)
		}
		return n
	case orb.Collection:
		n := 0
		for _, c := range g {
			n += countVertices(c)
		}
		return n
	default:
		return 0
	}
}
