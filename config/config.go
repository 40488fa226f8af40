package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DefaultPort        = 8000
	DefaultLandingPage = "ANALYTICS_HUB.html"

	// envFile is read from the working directory when present, never from
	// the served root
	envFile = ".env"
)

type Config struct {
	Port        int
	BindAddress string // empty means all interfaces
	RootDir     string
	LandingPage string
	Debug       bool
}

// New returns the fixed server configuration for a root directory
func New(rootDir string) *Config {
	return &Config{
		Port:        DefaultPort,
		BindAddress: "",
		RootDir:     rootDir,
		LandingPage: DefaultLandingPage,
	}
}

// Load resolves the root directory and builds the configuration for it.
// An optional .env file in the working directory may set LOG_LEVEL=debug;
// nothing else in it is honoured.
func Load() (*Config, error) {
	rootDir, err := ResolveRootDir()
	if err != nil {
		return nil, err
	}

	cfg := New(rootDir)
	if err := cfg.applyEnvFile(envFile); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ResolveRootDir returns the absolute directory containing the running
// executable. Binaries built by `go run` or `go test` live in the build cache,
// so for those the module source directory is used instead.
func ResolveRootDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to locate executable: %w", err)
	}

	resolved, err := filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("failed to resolve executable path: %w", err)
	}

	return rootDirFor(resolved)
}

func rootDirFor(exe string) (string, error) {
	if isBuildCacheBinary(exe) {
		if dir, ok := sourceRootDir(); ok {
			return dir, nil
		}
	}

	dir, err := filepath.Abs(filepath.Dir(exe))
	if err != nil {
		return "", fmt.Errorf("failed to resolve root directory: %w", err)
	}
	return dir, nil
}

// isBuildCacheBinary reports whether exe was linked into the go build cache
// (".../go-build/xx/...") or a go work directory ("/tmp/go-build1234/...")
func isBuildCacheBinary(exe string) bool {
	for _, part := range strings.Split(filepath.ToSlash(filepath.Dir(exe)), "/") {
		suffix, ok := strings.CutPrefix(part, "go-build")
		if !ok {
			continue
		}
		if _, err := strconv.ParseUint(suffix, 10, 64); suffix == "" || err == nil {
			return true
		}
	}
	return false
}

// sourceRootDir is the module root this package was compiled from. It is
// unavailable when the binary was built with -trimpath or the tree was removed.
func sourceRootDir() (string, bool) {
	_, file, _, ok := runtime.Caller(0)
	if !ok || !filepath.IsAbs(file) {
		return "", false
	}

	dir := filepath.Dir(filepath.Dir(file))
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return "", false
	}
	return dir, true
}

func (c *Config) applyEnvFile(path string) error {
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	if strings.EqualFold(strings.TrimSpace(values["LOG_LEVEL"]), "debug") {
		c.Debug = true
	}
	return nil
}

// Validate checks the port range and that the root is an existing directory
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}

	info, err := os.Stat(c.RootDir)
	if err != nil {
		return fmt.Errorf("root directory unavailable: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("root %s is not a directory", c.RootDir)
	}
	return nil
}

// Addr returns the listen address, e.g. ":8000"
func (c *Config) Addr() string {
	return net.JoinHostPort(c.BindAddress, strconv.Itoa(c.Port))
}

// DisplayHost is the bind address as shown to people
func (c *Config) DisplayHost() string {
	if c.BindAddress == "" {
		return "0.0.0.0"
	}
	return c.BindAddress
}

// LandingURL is the address of the landing page on localhost
func (c *Config) LandingURL() string {
	return fmt.Sprintf("http://localhost:%d/%s", c.Port, c.LandingPage)
}

// LandingPagePath is the landing page's location on disk
func (c *Config) LandingPagePath() string {
	return filepath.Join(c.RootDir, c.LandingPage)
}
