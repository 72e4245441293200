// Package calibration measures the wall-clock cost of every operation and
// persists the resulting table as a JSON profile. The table is a metering
// aid: relative weights let a host price calls in proportion to their cost.
package calibration

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"
)

const (
	// CurrentProfileVersion is the profile format version.
	CurrentProfileVersion = 1

	// DefaultProfileFileName is the profile name in the home directory.
	DefaultProfileFileName = ".detmath_calibration.json"
)

// OpCost is the measured cost of one operation.
type OpCost struct {
	Name     string  `json:"name"`
	Selector uint32  `json:"selector"`
	NsPerOp  float64 `json:"ns_per_op"`
	// Weight is NsPerOp relative to the cheapest operation, rounded up, so
	// the cheapest operation weighs 1.
	Weight uint64 `json:"weight"`
}

// Profile stores the results of a calibration run and the hardware they
// were measured on.
type Profile struct {
	CPUModel  string `json:"cpu_model"`
	NumCPU    int    `json:"num_cpu"`
	GOARCH    string `json:"goarch"`
	GOOS      string `json:"goos"`
	GoVersion string `json:"go_version"`

	Costs []OpCost `json:"costs"`

	CalibratedAt    time.Time `json:"calibrated_at"`
	Iterations      int       `json:"iterations"`
	Rounds          int       `json:"rounds"`
	CalibrationTime string    `json:"calibration_time"`

	ProfileVersion int `json:"profile_version"`
}

// GetDefaultProfilePath returns ~/.detmath_calibration.json, or the bare
// file name when the home directory is unknown.
func GetDefaultProfilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultProfileFileName
	}
	return filepath.Join(home, DefaultProfileFileName)
}

// NewProfile creates an empty profile stamped with the current hardware.
func NewProfile() *Profile {
	return &Profile{
		CPUModel:       fmt.Sprintf("%s-%d-cores", runtime.GOARCH, runtime.NumCPU()),
		NumCPU:         runtime.NumCPU(),
		GOARCH:         runtime.GOARCH,
		GOOS:           runtime.GOOS,
		GoVersion:      runtime.Version(),
		CalibratedAt:   time.Now(),
		ProfileVersion: CurrentProfileVersion,
	}
}

// LoadProfile reads a profile. An empty path selects the default location.
func LoadProfile(path string) (*Profile, error) {
	if path == "" {
		path = GetDefaultProfilePath()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}
	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}
	return &p, nil
}

// SaveProfile writes p as indented JSON. An empty path selects the default
// location.
func (p *Profile) SaveProfile(path string) error {
	if path == "" {
		path = GetDefaultProfilePath()
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write profile: %w", err)
	}
	return nil
}

// IsValid reports whether p was produced by this format version on
// matching hardware.
func (p *Profile) IsValid() bool {
	if p == nil || p.ProfileVersion != CurrentProfileVersion {
		return false
	}
	return p.NumCPU == runtime.NumCPU() && p.GOARCH == runtime.GOARCH
}

// IsStale reports whether p is older than maxAge.
func (p *Profile) IsStale(maxAge time.Duration) bool {
	if p == nil {
		return true
	}
	return time.Since(p.CalibratedAt) > maxAge
}

// Cost returns the entry for an operation name.
func (p *Profile) Cost(name string) (OpCost, bool) {
	if p == nil {
		return OpCost{}, false
	}
	for _, c := range p.Costs {
		if c.Name == name {
			return c, true
		}
	}
	return OpCost{}, false
}

func (p *Profile) String() string {
	if p == nil {
		return "<nil profile>"
	}
	return fmt.Sprintf("Profile{CPU: %s, Operations: %d, Iterations: %d, Calibrated: %s}",
		p.CPUModel, len(p.Costs), p.Iterations, p.CalibratedAt.Format(time.RFC3339))
}

// ProfileExists reports whether a profile file exists at path.
func ProfileExists(path string) bool {
	if path == "" {
		path = GetDefaultProfilePath()
	}
	_, err := os.Stat(path)
	return err == nil
}
