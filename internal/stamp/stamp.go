// Package stamp defines the content written into held lock files:
// a small YAML document identifying the holder, so other processes
// and operators can see who owns a lock and whether it is still alive.
package stamp

import (
	"os"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	mooringErrors "github.com/cameronsjo/mooring/internal/errors"
)

// Stamp identifies the holder of a lock.
type Stamp struct {
	// PID is the holder's process id.
	PID int `yaml:"pid"`

	// Host is the hostname the holder runs on. Locks are host-local;
	// the hostname is recorded for diagnostics on shared filesystems.
	Host string `yaml:"host"`

	// Token uniquely identifies this acquisition, distinguishing
	// reused PIDs across holder generations.
	Token string `yaml:"token"`

	// AcquiredAt is when the lock was granted, in UTC.
	AcquiredAt time.Time `yaml:"acquired_at"`
}

// New returns a Stamp describing the calling process.
func New() Stamp {
	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}
	return Stamp{
		PID:        os.Getpid(),
		Host:       host,
		Token:      uuid.NewString(),
		AcquiredAt: time.Now().UTC(),
	}
}

// Encode renders the stamp as YAML for writing into a lock file.
func (s Stamp) Encode() ([]byte, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return nil, mooringErrors.Wrap(err, "encode lock stamp")
	}
	return data, nil
}

// Decode parses a stamp previously written by Encode.
func Decode(data []byte) (Stamp, error) {
	var s Stamp
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Stamp{}, mooringErrors.Wrap(err, "decode lock stamp")
	}
	return s, nil
}

// Alive reports whether the stamped holder process still exists on
// this host. A stamp from another host is reported alive, since its
// process cannot be probed from here.
func (s Stamp) Alive() bool {
	if s.PID <= 0 {
		return false
	}
	if host, err := os.Hostname(); err == nil && s.Host != "" && s.Host != host {
		return true
	}
	return processAlive(s.PID)
}
