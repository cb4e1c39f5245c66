package course

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/edaniels/golog"
	yaml "gopkg.in/yaml.v2"
)

// File is the on-disk course list:
//
//	courses:
//	  - name: gym
//	    segments:
//	      - tiles: 4.5
//	      - turn: 90
//	        tiles: 4
type File struct {
	Courses []Course `yaml:"courses"`
}

const defaultPath = "/cfg/courses.yaml"

// Path returns the course file location, honouring the
// SPHEROBALL_COURSES override.
func Path() string {
	if p := os.Getenv("SPHEROBALL_COURSES"); p != "" {
		return p
	}
	return defaultPath
}

// Load returns the built-in courses overlaid with any from path: a file
// course with a built-in's name replaces it, new names append in file
// order. Invalid courses are skipped with a log. The combined set is
// written back next to the input so the operator can see exactly what
// is loaded.
func Load(path string, logger golog.Logger) []Course {
	courses := Builtin()

	raw, err := os.ReadFile(path)
	if err != nil {
		logger.Debugw("no course file, using built-ins", "path", path, "error", err)
	} else {
		var f File
		if err := yaml.Unmarshal(raw, &f); err != nil {
			logger.Errorw("bad course file, using built-ins", "path", path, "error", err)
		} else {
			for _, c := range f.Courses {
				if err := c.Validate(); err != nil {
					logger.Errorw("skipping course", "error", err)
					continue
				}
				courses = merge(courses, c)
			}
		}
	}

	out, err := yaml.Marshal(File{Courses: courses})
	if err == nil {
		err = os.WriteFile(inUsePath(path), out, 0666)
	}
	if err != nil {
		logger.Debugw("failed to write in-use course file", "error", err)
	}
	return courses
}

func merge(courses []Course, c Course) []Course {
	for i := range courses {
		if courses[i].Name == c.Name {
			courses[i] = c
			return courses
		}
	}
	return append(courses, c)
}

func inUsePath(path string) string {
	if ext := filepath.Ext(path); ext != "" {
		return strings.TrimSuffix(path, ext) + "-in-use" + ext
	}
	return path + "-in-use"
}
