package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/robert8597/swifthackathon/internal/domain"
	"github.com/robert8597/swifthackathon/internal/domain/interfaces"
	"github.com/robert8597/swifthackathon/pkg/config"
)

// gleifEnvelope mirrors the GLEIF v1 API response shape; unknown fields are
// ignored.
type gleifEnvelope struct {
	Data *gleifRecord `json:"data"`
}

type gleifRecord struct {
	Attributes gleifAttributes `json:"attributes"`
}

type gleifAttributes struct {
	Entity gleifEntity `json:"entity"`
	BIC    []string    `json:"bic"`
}

type gleifEntity struct {
	Status    string         `json:"status"`
	LegalName gleifLegalName `json:"legalName"`
}

type gleifLegalName struct {
	Name     string `json:"name"`
	Language string `json:"language"`
}

type gleifClient struct {
	baseURL    string
	apiPath    string
	httpClient *http.Client
	logger     zerolog.Logger
}

func NewGleifClient(cfg config.GleifConfig, logger zerolog.Logger) interfaces.ILEIRegistryClient {
	return &gleifClient{
		baseURL: cfg.BaseURL,
		apiPath: cfg.APIPath,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

// LookupLEI resolves an LEI record from the registry. Every failure mode
// (transport error, non-200, empty or malformed envelope) is an error the
// verification stage maps to a FAILED sub-status.
func (c *gleifClient) LookupLEI(ctx context.Context, lei string) (*domain.LEIRecord, error) {
	fullURL := c.baseURL + c.apiPath + lei

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create GLEIF request for LEI %s: %w", lei, err)
	}
	req.Header.Set("Accept", "application/vnd.api+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GLEIF request failed for LEI %s: %w", lei, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read GLEIF response for LEI %s: %w", lei, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GLEIF returned status %d for LEI %s", resp.StatusCode, lei)
	}

	var envelope gleifEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode GLEIF response for LEI %s: %w", lei, err)
	}
	if envelope.Data == nil {
		return nil, fmt.Errorf("GLEIF returned no data for LEI %s", lei)
	}

	record := &domain.LEIRecord{
		LEI:       lei,
		Status:    envelope.Data.Attributes.Entity.Status,
		LegalName: envelope.Data.Attributes.Entity.LegalName.Name,
		BICs:      envelope.Data.Attributes.BIC,
	}

	c.logger.Debug().
		Str("lei", lei).
		Str("status", record.Status).
		Str("legal_name", record.LegalName).
		Strs("bics", record.BICs).
		Msg("Resolved LEI record")

	return record, nil
}
