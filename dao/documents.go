package dao

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/go-resty/resty/v2"
	log "github.com/sirupsen/logrus"

	"github.com/hkfrei/wiski-html/config"
	"github.com/hkfrei/wiski-html/models"
)

// Documents fetches the auxiliary documents linked to a station number.
// This is the best-effort path of the aggregation: failures are reported
// but never block the station response.
type Documents interface {
	GetDocuments(ctx context.Context, stationNumber string) ([]models.Document, error)
}

// DocumentsClient talks to the documents host.
type DocumentsClient struct {
	client *resty.Client
}

// NewDocumentsClient creates a client for the configured documents host.
func NewDocumentsClient(cfg config.Config) *DocumentsClient {
	client := resty.New()
	client.SetBaseURL(cfg.DocumentsHost)
	client.SetHeader("Accept", "application/json")
	client.SetTimeout(cfg.UpstreamTimeout)
	client.SetDisableWarn(true)
	return &DocumentsClient{client: client}
}

// GetDocuments fetches the documents for a station number.
func (d *DocumentsClient) GetDocuments(ctx context.Context, stationNumber string) ([]models.Document, error) {
	query := fmt.Sprintf("/documents?station_no=%s", url.QueryEscape(stationNumber))
	resp, err := d.client.R().SetContext(ctx).Get(query)
	if err != nil {
		log.WithFields(log.Fields{"station_no": stationNumber, "error": err}).Warn("documents request failed")
		return nil, fmt.Errorf("documents request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("documents request rejected: status %d", resp.StatusCode())
	}
	var documents []models.Document
	if err := json.Unmarshal(resp.Body(), &documents); err != nil {
		return nil, fmt.Errorf("documents response not decodable: %w", err)
	}
	return documents, nil
}
