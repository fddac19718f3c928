// config.go - minimal environment/config surface (§1 Non-goals: full
// config-file parsing is explicitly out of scope; this is the small
// amount every embedding application still needs to read)

package alengine

import (
	"bufio"
	"os"
	"strconv"
	"strings"
)

// Config holds the handful of process-wide tunables real OpenAL
// implementations expose through environment variables, kept here
// instead of a config-file format since §1 scopes full config parsing
// out: the stdlib-only key=value reader below is the deliberately small
// exception to this module's third-party-first rule, justified by that
// same non-goal rather than by convenience.
type Config struct {
	LogFile        string
	HalfAngleCones bool
	ResamplerKind  ResamplerKind
}

// LoadConfigEnv reads the subset of ALSOFT_-style environment variables
// this package honors.
func LoadConfigEnv() Config {
	c := Config{ResamplerKind: ResamplerLinear}
	c.LogFile = os.Getenv("ALSOFT_LOGFILE")
	c.HalfAngleCones = os.Getenv("__ALSOFT_HALF_ANGLE_CONES") == "1"
	switch strings.ToLower(os.Getenv("ALSOFT_DEFAULT_RESAMPLER")) {
	case "point", "nearest":
		c.ResamplerKind = ResamplerPoint
	case "cubic":
		c.ResamplerKind = ResamplerCubic
	case "linear":
		c.ResamplerKind = ResamplerLinear
	}
	return c
}

// LoadConfigFile reads a flat key=value file (one setting per line, "#"
// comments, blank lines ignored), overriding whatever LoadConfigEnv
// already populated. This is intentionally not a full alsoft.conf
// parser: no [sections], no per-device overrides, just enough for the
// few keys Config exposes.
func LoadConfigFile(path string, base Config) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return base, err
	}
	defer f.Close()

	c := base
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, val, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		val = strings.TrimSpace(val)
		switch key {
		case "log-file":
			c.LogFile = val
		case "half-angle-cones":
			if b, err := strconv.ParseBool(val); err == nil {
				c.HalfAngleCones = b
			}
		case "resampler":
			switch strings.ToLower(val) {
			case "point", "nearest":
				c.ResamplerKind = ResamplerPoint
			case "cubic":
				c.ResamplerKind = ResamplerCubic
			case "linear":
				c.ResamplerKind = ResamplerLinear
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return c, err
	}
	return c, nil
}

// ConeScale resolves the half-angle compatibility switch into the scale
// factor ConeGain expects (§6.3).
func (c Config) ConeScale() float32 {
	if c.HalfAngleCones {
		return ConeScaleHalf
	}
	return ConeScaleFull
}
