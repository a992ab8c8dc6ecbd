package deps

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrMissing is returned by Require when a mandatory binary cannot be found.
var ErrMissing = errors.New("required tool missing")

// Requirement defines an external binary blacksys drives.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Path        string
	Detail      string
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		resolved, err := exec.LookPath(cmd)
		if err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		status.Path = resolved
		results = append(results, status)
	}
	return results
}

// Require checks every requirement and returns an error wrapping ErrMissing
// that names each unavailable mandatory binary.
func Require(requirements []Requirement) error {
	var missing []string
	for _, status := range CheckBinaries(requirements) {
		if status.Available || status.Optional {
			continue
		}
		missing = append(missing, status.Command)
	}
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrMissing, strings.Join(missing, ", "))
}
