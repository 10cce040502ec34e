package database

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
)

// PGVersion represents a PostgreSQL version.
type PGVersion struct {
	Major int
	Minor int
	Full  string
}

var versionRe = regexp.MustCompile(`PostgreSQL (\d+)\.(\d+)`)

// ParsePGVersion parses a PostgreSQL version string such as
// "PostgreSQL 16.2 on x86_64-pc-linux-gnu".
func ParsePGVersion(versionStr string) (*PGVersion, error) {
	matches := versionRe.FindStringSubmatch(versionStr)
	if len(matches) < 3 {
		return nil, fmt.Errorf("could not parse PostgreSQL version from: %s", versionStr)
	}

	major, err := strconv.Atoi(matches[1])
	if err != nil {
		return nil, fmt.Errorf("invalid major version: %s", matches[1])
	}

	minor, err := strconv.Atoi(matches[2])
	if err != nil {
		return nil, fmt.Errorf("invalid minor version: %s", matches[2])
	}

	return &PGVersion{
		Major: major,
		Minor: minor,
		Full:  versionStr,
	}, nil
}

// GetServerVersion gets the PostgreSQL server version.
func GetServerVersion(ctx context.Context, connectionURL string) (*PGVersion, error) {
	cmd := exec.CommandContext(ctx, "psql",
		"--no-password",
		"--tuples-only",
		"--no-align",
		"--command", "SELECT version();",
		connectionURL,
	)

	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("failed to get server version: %w", err)
	}

	return ParsePGVersion(strings.TrimSpace(string(output)))
}

// availableVersions lists the PostgreSQL major versions whose client
// tools may be installed side by side, newest first.
var availableVersions = []int{17, 16, 15}

// FindBestBinary finds the best versioned client binary (pg_dump,
// pg_restore or psql) for the given server version. Client tools are
// backward compatible, so a newer binary is acceptable when no exact
// match is installed.
func FindBestBinary(tool string, serverVersion *PGVersion) (string, error) {
	targetVersion := serverVersion.Major
	if targetVersion < availableVersions[len(availableVersions)-1] {
		targetVersion = availableVersions[len(availableVersions)-1]
	}

	// Exact match first.
	bin := fmt.Sprintf("%s%d", tool, targetVersion)
	if _, err := exec.LookPath(bin); err == nil {
		return bin, nil
	}

	// Closest installed version at or above the server's.
	for _, v := range availableVersions {
		if v >= targetVersion {
			bin = fmt.Sprintf("%s%d", tool, v)
			if _, err := exec.LookPath(bin); err == nil {
				return bin, nil
			}
		}
	}

	// Unversioned default.
	if _, err := exec.LookPath(tool); err == nil {
		return tool, nil
	}

	// Last resort: any installed version.
	for _, v := range availableVersions {
		bin = fmt.Sprintf("%s%d", tool, v)
		if _, err := exec.LookPath(bin); err == nil {
			return bin, nil
		}
	}

	return "", fmt.Errorf("no suitable %s found for PostgreSQL %d", tool, serverVersion.Major)
}
