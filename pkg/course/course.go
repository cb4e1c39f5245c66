// Package course models the pre-programmed paths the toy can drive.
package course

import (
	"math"

	"github.com/pkg/errors"
)

// Segment is one leg of a course: turn by Turn degrees relative to the
// previous leg (clockwise positive), then roll Tiles floor tiles.
type Segment struct {
	Turn  int     `yaml:"turn,omitempty"`
	Tiles float64 `yaml:"tiles,omitempty"`
}

// Course is an ordered list of segments, driven open loop by dead
// reckoning. The first segment usually has Turn 0 so the run starts
// along whatever the operator aimed at the start line.
type Course struct {
	Name     string    `yaml:"name"`
	Segments []Segment `yaml:"segments"`
}

// Validate rejects courses that cannot be driven.
func (c Course) Validate() error {
	if c.Name == "" {
		return errors.New("course has no name")
	}
	if len(c.Segments) == 0 {
		return errors.Errorf("course %s has no segments", c.Name)
	}
	for i, s := range c.Segments {
		if math.IsNaN(s.Tiles) || math.IsInf(s.Tiles, 0) || s.Tiles < 0 {
			return errors.Errorf("course %s segment %d: bad distance %v", c.Name, i, s.Tiles)
		}
		if s.Turn < -180 || s.Turn > 180 {
			return errors.Errorf("course %s segment %d: turn %d out of range", c.Name, i, s.Turn)
		}
	}
	return nil
}

// TotalTiles is the driven length of the course.
func (c Course) TotalTiles() float64 {
	var total float64
	for _, s := range c.Segments {
		total += s.Tiles
	}
	return total
}

// Builtin returns the compiled-in courses.
func Builtin() []Course {
	return []Course{
		{
			Name: "classroom",
			Segments: []Segment{
				{Tiles: 4.5},
				{Turn: 90, Tiles: 4},
				{Turn: 90, Tiles: 2},
				{Turn: 90, Tiles: 2},
				{Turn: -90, Tiles: 4},
				{Turn: -90, Tiles: 2},
				{Turn: 90, Tiles: 2},
				{Turn: 90, Tiles: 4},
				{Turn: 90, Tiles: 4},
			},
		},
		{
			Name: "square",
			Segments: []Segment{
				{Tiles: 2},
				{Turn: 90, Tiles: 2},
				{Turn: 90, Tiles: 2},
				{Turn: 90, Tiles: 2},
				{Turn: 90},
			},
		},
		{
			Name: "there-and-back",
			Segments: []Segment{
				{Tiles: 3},
				{Turn: 180, Tiles: 3},
				{Turn: 180},
			},
		},
	}
}
