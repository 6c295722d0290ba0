package backend

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/quatton/qjob/pkg/qerr"
)

// Version is a scheduler release number.
type Version struct {
	Major int
	Minor int
	Patch int
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

var versionRe = regexp.MustCompile(`(\d+)\.(\d+)\.(\d+)`)

// ParseVersion extracts major.minor.patch from tool output such as "slurm 23.02.7". There is no
// fallback: a field list picked for the wrong release would silently misreport columns.
func ParseVersion(s string) (Version, error) {
	m := versionRe.FindStringSubmatch(s)
	if m == nil {
		return Version{}, qerr.Errorf(qerr.CodeVersionParse, "cannot parse version from %q", s)
	}

	var parts [3]int
	for i := range parts {
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return Version{}, qerr.Errorf(qerr.CodeVersionParse, "cannot parse version from %q: %w", s, err)
		}
		parts[i] = n
	}
	return Version{Major: parts[0], Minor: parts[1], Patch: parts[2]}, nil
}
