package database

import (
	"errors"
	"testing"
)

func TestDumpError_Message(t *testing.T) {
	err := &DumpError{
		Tables: []string{"table_a", "table_b"},
		Stderr: "pg_dump: error: connection refused\n",
	}

	want := "could not dump tables 'table_a', 'table_b': pg_dump: error: connection refused"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestRestoreError_Message(t *testing.T) {
	err := &RestoreError{Stderr: "pg_restore: error: relation exists\n"}

	want := "could not restore dump: pg_restore: error: relation exists"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestDumpError_DistinguishableFromSpawnError(t *testing.T) {
	spawnErr := errors.New(`failed to run pg_dump: exec: "pg_dump": executable file not found in $PATH`)

	var de *DumpError
	if errors.As(spawnErr, &de) {
		t.Error("spawn error matched *DumpError")
	}

	var exitFailure error = &DumpError{Tables: []string{"users"}, Stderr: "boom"}
	if !errors.As(exitFailure, &de) {
		t.Error("exit failure did not match *DumpError")
	}
}
