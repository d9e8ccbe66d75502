package clip

import (
	"errors"
	"strings"
)

var (
	// ErrInvalidRange is returned when the requested end offset is not
	// strictly after the start offset. Checked before any subprocess spawns.
	ErrInvalidRange = errors.New("end time must be after start time")

	// ErrNoOutput is returned when the external tool exits zero but no
	// output file can be discovered under the request's base name.
	ErrNoOutput = errors.New("yt-dlp produced no output file")
)

// timeoutMarker is appended to captured stderr when the extraction
// subprocess is killed for exceeding its time budget. Tests and callers
// match on this text to distinguish timeouts from ordinary failures.
const timeoutMarker = "[killed: extraction exceeded time budget]"

// authRequiredSignatures are the known phrases yt-dlp emits when a source
// demands credentials. The tool has no structured error channel, so this
// free-text match is the single point to update when its wording changes.
var authRequiredSignatures = []string{
	"sign in to confirm",
	"login required",
	"requires authentication",
	"this video is only available for registered users",
	"use --cookies",
	"account cookies are needed",
	"private video",
	"members-only",
}

// IsAuthRequired reports whether err looks like the external tool refusing
// to proceed without credentials.
func IsAuthRequired(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, sig := range authRequiredSignatures {
		if strings.Contains(msg, sig) {
			return true
		}
	}
	return false
}
