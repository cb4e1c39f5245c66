package sphero

import (
	"os"

	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"
)

// The toys file maps friendly toy names to Bluetooth addresses, one
// per line:
//
//	sphero-rgb: "68:86:E7:01:23:45"
//	sphero-ylw: "68:86:E7:67:89:AB"

const defaultToysFile = "/cfg/toys.yaml"

// ToysFile returns the path of the name-to-address map, honouring the
// SPHEROBALL_TOYS override.
func ToysFile() string {
	if p := os.Getenv("SPHEROBALL_TOYS"); p != "" {
		return p
	}
	return defaultToysFile
}

// LookupAddress finds the Bluetooth address for a named toy.
func LookupAddress(name string) (string, error) {
	path := ToysFile()
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "reading toys file %s", path)
	}
	toys := map[string]string{}
	if err := yaml.Unmarshal(raw, &toys); err != nil {
		return "", errors.Wrapf(err, "parsing toys file %s", path)
	}
	addr, ok := toys[name]
	if !ok {
		return "", errors.Errorf("toy %q not in %s", name, path)
	}
	return addr, nil
}
