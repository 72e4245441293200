package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"
)

func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

// getEnvBool accepts true/1/yes and false/0/no, case-insensitively. Other
// values leave the default in place.
func getEnvBool(key string, defaultVal bool) bool {
	switch strings.ToLower(os.Getenv(EnvPrefix + key)) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

// isFlagSet reports whether any of names was given on the command line.
func isFlagSet(fs *flag.FlagSet, names ...string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		for _, n := range names {
			if f.Name == n {
				found = true
			}
		}
	})
	return found
}

// applyEnvOverrides fills every flag left unset on the command line from its
// DETMATH_ variable: DETMATH_OP, DETMATH_ARGS, DETMATH_CALLDATA,
// DETMATH_BATCH, DETMATH_SERVER, DETMATH_PORT, DETMATH_TRUSTED_PROXIES,
// DETMATH_INTERACTIVE,
// DETMATH_CALIBRATE, DETMATH_CALIBRATION_PROFILE, DETMATH_JSON, DETMATH_HEX,
// DETMATH_QUIET, DETMATH_NO_COLOR, DETMATH_OUTPUT, DETMATH_TIMEOUT,
// DETMATH_CONCURRENCY, DETMATH_CACHE_SIZE, DETMATH_MAX_CALLDATA,
// DETMATH_STRICT and DETMATH_LOG_LEVEL.
func applyEnvOverrides(config *AppConfig, argList, proxyList *string, fs *flag.FlagSet) {
	strs := []struct {
		flags []string
		env   string
		dst   *string
	}{
		{[]string{"op"}, "OP", &config.Op},
		{[]string{"args"}, "ARGS", argList},
		{[]string{"calldata"}, "CALLDATA", &config.Calldata},
		{[]string{"batch"}, "BATCH", &config.BatchFile},
		{[]string{"port"}, "PORT", &config.Port},
		{[]string{"trusted-proxies"}, "TRUSTED_PROXIES", proxyList},
		{[]string{"calibration-profile"}, "CALIBRATION_PROFILE", &config.CalibrationProfile},
		{[]string{"output", "o"}, "OUTPUT", &config.OutputFile},
		{[]string{"log-level"}, "LOG_LEVEL", &config.LogLevel},
	}
	for _, s := range strs {
		if !isFlagSet(fs, s.flags...) {
			*s.dst = getEnvString(s.env, *s.dst)
		}
	}

	bools := []struct {
		flags []string
		env   string
		dst   *bool
	}{
		{[]string{"server"}, "SERVER", &config.ServerMode},
		{[]string{"interactive"}, "INTERACTIVE", &config.Interactive},
		{[]string{"calibrate"}, "CALIBRATE", &config.Calibrate},
		{[]string{"json"}, "JSON", &config.JSONOutput},
		{[]string{"hex"}, "HEX", &config.HexOutput},
		{[]string{"quiet", "q"}, "QUIET", &config.Quiet},
		{[]string{"no-color"}, "NO_COLOR", &config.NoColor},
		{[]string{"strict"}, "STRICT", &config.Strict},
	}
	for _, b := range bools {
		if !isFlagSet(fs, b.flags...) {
			*b.dst = getEnvBool(b.env, *b.dst)
		}
	}

	ints := []struct {
		flag string
		env  string
		dst  *int
	}{
		{"concurrency", "CONCURRENCY", &config.Concurrency},
		{"cache-size", "CACHE_SIZE", &config.CacheSize},
		{"max-calldata", "MAX_CALLDATA", &config.MaxCalldata},
	}
	for _, i := range ints {
		if !isFlagSet(fs, i.flag) {
			*i.dst = getEnvInt(i.env, *i.dst)
		}
	}

	if !isFlagSet(fs, "timeout") {
		config.Timeout = getEnvDuration("TIMEOUT", config.Timeout)
	}
}
