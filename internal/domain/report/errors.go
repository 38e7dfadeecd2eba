package report

import "errors"

var (
	ErrUnsupportedExport      = errors.New("unsupported export type or format")
	ErrReportGenerationFailed = errors.New("failed to generate report")
)
