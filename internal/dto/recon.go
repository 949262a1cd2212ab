package dto

// ReconRunResponse reports the result of a bounded batch run.
type ReconRunResponse struct {
	Processed  int    `json:"processed"`
	Succeeded  int    `json:"succeeded"`
	Failed     int    `json:"failed"`
	DurationMs int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
}

// ReconStatusResponse reports whether a batch run is currently executing.
type ReconStatusResponse struct {
	Running bool `json:"running"`
}
