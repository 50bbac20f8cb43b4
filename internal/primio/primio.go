// Package primio reads and writes the on-disk formats exchanged with
// the fitting and annotation tools: primitive files, point clouds and
// point-to-group association tables.
//
// All three formats are plain comma-separated text with '#' comment
// lines. A primitive row carries six numeric fields — anchor x,y,z then
// the in-plane normal nx,ny,nz — plus a trailing group id. The point
// format is x,y,z rows (richer cloud formats such as PLY are converted
// upstream); associations are pid,gid rows.
package primio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/banshee-data/primfit/internal/geom"
	"github.com/banshee-data/primfit/internal/prim"
)

// splitFields splits a data line on commas, trimming whitespace and
// dropping a trailing empty field (the legacy writer leaves a trailing
// comma).
func splitFields(line string) []string {
	parts := strings.Split(line, ",")
	out := parts[:0]
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ReadPrimitives parses a primitive file into a collection. The line
// direction is reconstructed from the stored normal as normal × Z.
func ReadPrimitives(r io.Reader) (prim.Collection, error) {
	coll := prim.Collection{}
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := splitFields(line)
		if len(fields) != 7 {
			return nil, fmt.Errorf("primio: line %d: expected 7 fields, got %d", lineNo, len(fields))
		}

		var v [6]float64
		for i := 0; i < 6; i++ {
			f, err := strconv.ParseFloat(fields[i], 64)
			if err != nil {
				return nil, fmt.Errorf("primio: line %d field %d: %w", lineNo, i+1, err)
			}
			v[i] = f
		}
		gid, err := strconv.Atoi(fields[6])
		if err != nil {
			return nil, fmt.Errorf("primio: line %d gid: %w", lineNo, err)
		}

		pos := geom.Vec3{X: v[0], Y: v[1], Z: v[2]}
		normal := geom.Vec3{X: v[3], Y: v[4], Z: v[5]}
		p := prim.FromPointDir(pos, normal.Cross(geom.UnitZ))
		p.Tags.GID = gid
		p.Tags.DirGID = gid
		coll.Add(gid, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("primio: read primitives: %w", err)
	}
	return coll, nil
}

// WritePrimitives writes coll in the 6-field format, groups in ascending
// GID order.
func WritePrimitives(w io.Writer, coll prim.Collection) error {
	gids := make([]int, 0, len(coll))
	for gid := range coll {
		gids = append(gids, gid)
	}
	sort.Ints(gids)

	for _, gid := range gids {
		for _, p := range coll[gid] {
			n := p.Normal(geom.UnitZ)
			_, err := fmt.Fprintf(w, "%.9f,%.9f,%.9f,%.9f,%.9f,%.9f,%d\n",
				p.Pos.X, p.Pos.Y, p.Pos.Z, n.X, n.Y, n.Z, gid)
			if err != nil {
				return fmt.Errorf("primio: write primitive gid=%d: %w", gid, err)
			}
		}
	}
	return nil
}

// ReadPoints parses x,y,z rows into point samples with no group
// membership; associations are applied separately.
func ReadPoints(r io.Reader) ([]prim.PointSample, error) {
	var points []prim.PointSample
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := splitFields(line)
		if len(fields) < 3 {
			return nil, fmt.Errorf("primio: line %d: expected at least 3 fields, got %d", lineNo, len(fields))
		}
		var v [3]float64
		for i := 0; i < 3; i++ {
			f, err := strconv.ParseFloat(fields[i], 64)
			if err != nil {
				return nil, fmt.Errorf("primio: line %d field %d: %w", lineNo, i+1, err)
			}
			v[i] = f
		}
		pt := prim.NewPointSample(geom.Vec3{X: v[0], Y: v[1], Z: v[2]}, -1)
		points = append(points, pt)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("primio: read points: %w", err)
	}
	return points, nil
}

// AssocTarget selects which membership tag ReadAssociations writes.
type AssocTarget int

const (
	// PrimaryTag is the point's owning-group membership.
	PrimaryTag AssocTarget = iota
	// ReferenceTag is the second, independent membership used when two
	// primitive sets are evaluated against each other.
	ReferenceTag
)

// ReadAssociations parses pid,gid rows and applies them to points. Rows
// referencing a pid outside the slice are an error; points without a row
// keep their existing tag.
func ReadAssociations(r io.Reader, points []prim.PointSample, target AssocTarget) error {
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := splitFields(line)
		if len(fields) < 2 {
			return fmt.Errorf("primio: line %d: expected pid,gid, got %q", lineNo, line)
		}
		pid, err := strconv.Atoi(fields[0])
		if err != nil {
			return fmt.Errorf("primio: line %d pid: %w", lineNo, err)
		}
		gid, err := strconv.Atoi(fields[1])
		if err != nil {
			return fmt.Errorf("primio: line %d gid: %w", lineNo, err)
		}
		if pid < 0 || pid >= len(points) {
			return fmt.Errorf("primio: line %d: pid %d out of range [0,%d)", lineNo, pid, len(points))
		}
		switch target {
		case PrimaryTag:
			points[pid].GID = gid
		case ReferenceTag:
			points[pid].RefGID = gid
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("primio: read associations: %w", err)
	}
	return nil
}

// LoadPrimitives opens and parses a primitive file.
func LoadPrimitives(path string) (prim.Collection, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("primio: open %s: %w", path, err)
	}
	defer f.Close()
	coll, err := ReadPrimitives(f)
	if err != nil {
		return nil, fmt.Errorf("primio: %s: %w", path, err)
	}
	return coll, nil
}

// LoadPoints opens and parses a point file.
func LoadPoints(path string) ([]prim.PointSample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("primio: open %s: %w", path, err)
	}
	defer f.Close()
	points, err := ReadPoints(f)
	if err != nil {
		return nil, fmt.Errorf("primio: %s: %w", path, err)
	}
	return points, nil
}

// LoadAssociations opens an association file and applies it to points.
func LoadAssociations(path string, points []prim.PointSample, target AssocTarget) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("primio: open %s: %w", path, err)
	}
	defer f.Close()
	if err := ReadAssociations(f, points, target); err != nil {
		return fmt.Errorf("primio: %s: %w", path, err)
	}
	return nil
}
