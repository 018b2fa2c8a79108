package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/hkfrei/wiski-html/config"
	"github.com/hkfrei/wiski-html/dao"
)

// spreadsheetContentType is used when the upstream does not name one.
const spreadsheetContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Export is a running spreadsheet download of one series and period.
type Export struct {
	Body        io.ReadCloser
	ContentType string
	Filename    string
}

// DownloadService proxies spreadsheet exports of raw time series data.
type DownloadService struct {
	kiwis dao.Kiwis
}

// NewDownloadService creates a DownloadService.
func NewDownloadService(kiwis dao.Kiwis) *DownloadService {
	return &DownloadService{kiwis: kiwis}
}

// Export validates the request and starts the export stream. The caller
// must close the body.
func (s *DownloadService) Export(ctx context.Context, tsID, period string) (*Export, error) {
	if tsID == "" {
		return nil, fmt.Errorf("ts_id cannot be empty")
	}
	if !config.ValidPeriod(period) {
		return nil, fmt.Errorf("invalid period '%s'", period)
	}
	body, contentType, err := s.kiwis.StreamDataExport(ctx, tsID, period)
	if err != nil {
		return nil, fmt.Errorf("failed to start export: %w", err)
	}
	if contentType == "" {
		contentType = spreadsheetContentType
	}
	return &Export{
		Body:        body,
		ContentType: contentType,
		Filename:    fmt.Sprintf("time_series_%s_%s.xlsx", period, time.Now().Format("2006-01-02")),
	}, nil
}
