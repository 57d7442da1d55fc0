package models

// Report is a classified, located change event ready for reporting.
type Report struct {
	Event    ChangeEvent `json:"event"`
	Line     int         `json:"line"`
	Breaking bool        `json:"breaking"`
	Message  string      `json:"message"`
}
