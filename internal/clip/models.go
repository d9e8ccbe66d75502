package clip

import "time"

// Format identifies the target output container.
type Format string

const (
	// FormatMP4 remuxes the downloaded streams into an MP4 container.
	FormatMP4 Format = "mp4"
	// FormatMKV force-merges the downloaded streams into a Matroska container.
	FormatMKV Format = "mkv"
)

// ContentType returns the media type to use when serving a file in this container.
func (f Format) ContentType() string {
	if f == FormatMKV {
		return "video/x-matroska"
	}
	return "video/mp4"
}

// Valid reports whether f is one of the supported containers.
func (f Format) Valid() bool {
	return f == FormatMP4 || f == FormatMKV
}

// ClipRequest is the wire shape of a clip-extraction request.
// Start and End accept seconds ("90"), unit expressions ("1h2m3s"),
// or clock notation ("2:10", "01:02:03").
type ClipRequest struct {
	URL        string `json:"url"`
	Start      string `json:"start"`
	End        string `json:"end"`
	Format     Format `json:"format,omitempty"`
	Cookie     string `json:"cookie,omitempty"`
	CookiesB64 string `json:"cookies_b64,omitempty"`
}

// ClipOptions are the fully resolved parameters for one extraction.
// Exactly one request owns a ClipOptions value and the artifacts it names.
type ClipOptions struct {
	URL      string
	Start    float64 // offset into the source, seconds
	End      float64 // must be strictly greater than Start
	Format   Format
	BaseName string // unique per request; generated when empty

	// Per-request credential and identity overrides. When empty, the
	// downloader falls back to its configured defaults.
	UserAgent    string
	CookieHeader string
	CookiesFile  string

	// Timeout overrides the downloader's budget for this extraction.
	Timeout time.Duration
}

// ClipResult reports a successful extraction. Ownership of the file at
// OutputPath transfers to the caller, which is responsible for deleting it.
type ClipResult struct {
	OutputPath string
	Stdout     string
	Stderr     string
}
