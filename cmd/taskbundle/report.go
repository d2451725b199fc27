package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"taskbundle/internal/pipeline"
)

// Report formats.
const (
	reportText = "text"
	reportJSON = "json"
)

// errBlocked is returned when the incoming bundle was refused.
var errBlocked = errors.New("import refused")

func blockedError(out *pipeline.Outcome) error {
	return fmt.Errorf("%w at stage %s: %d error(s)", errBlocked, out.Stage, len(out.Errors))
}

func writeReport(w io.Writer, out *pipeline.Outcome, format string) error {
	switch format {
	case reportJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return enc.Encode(out)
	case reportText, "":
		return writeTextReport(w, out)
	default:
		return fmt.Errorf("invalid report format %q", format)
	}
}

func writeTextReport(w io.Writer, out *pipeline.Outcome) error {
	status := "accepted"
	if out.Blocked() {
		status = "refused"
	}

	lines := []string{
		fmt.Sprintf("%s (stage %s): %d error(s), %d warning(s), %d change(s), %d decision(s)",
			status, out.Stage, len(out.Errors), len(out.Warnings), len(out.Changes), len(out.Log)),
	}

	for _, d := range out.Errors {
		lines = append(lines, "error   "+d.String())
	}

	for _, d := range out.Warnings {
		lines = append(lines, "warning "+d.String())
	}

	for _, c := range out.Changes {
		lines = append(lines, "change  "+c.String())
	}

	for _, e := range out.Log {
		lines = append(lines, "log     "+e.String())
	}

	if out.Bundle != nil {
		lines = append(lines, fmt.Sprintf("result  %d task(s), %d board(s)", len(out.Bundle.Tasks), len(out.Bundle.Boards)))
	}

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	return nil
}
