package marketai

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"marketai-bot/internal/models"

	"go.uber.org/zap"
)

func (c *Client) GetCampaigns(ctx context.Context) ([]Campaign, error) {
	data, err := c.get(ctx, "/campaigns", nil)
	if err != nil {
		c.logger.Error("failed to get campaigns", zap.Error(err))
		return nil, fmt.Errorf("get campaigns: %w", err)
	}

	var response CampaignsResponse
	if err := c.parseResponse(data, &response); err != nil {
		c.logger.Error("failed to parse campaigns response", zap.Error(err))
		return nil, err
	}

	c.logger.Debug("campaigns retrieved", zap.Int("count", len(response.Data)))

	return response.Data, nil
}

// GetFinancialMetrics fetches the financial report of one campaign. Dates
// are sent as YYYY-MM-DD and omitted when unset.
func (c *Client) GetFinancialMetrics(ctx context.Context, params FinancialMetricsParams) (*FinancialMetricsResponse, error) {
	if params.CampaignID <= 0 {
		return nil, &APIError{Status: http.StatusBadRequest, Message: "campaignId обязателен для запроса финансовых метрик"}
	}

	queryParams := url.Values{}
	queryParams.Set("campaignId", strconv.FormatInt(params.CampaignID, 10))
	if params.DateFrom != nil {
		queryParams.Set("dateFrom", models.FormatDate(*params.DateFrom))
	}
	if params.DateTo != nil {
		queryParams.Set("dateTo", models.FormatDate(*params.DateTo))
	}

	data, err := c.get(ctx, "/statistics/financial-report", queryParams)
	if err != nil {
		c.logger.Error("failed to get financial metrics",
			zap.Int64("campaign_id", params.CampaignID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("get financial metrics: %w", err)
	}

	var response FinancialMetricsResponse
	if err := c.parseResponse(data, &response); err != nil {
		c.logger.Error("failed to parse financial metrics response", zap.Error(err))
		return nil, err
	}

	c.logger.Debug("financial metrics received",
		zap.Int64("campaign_id", params.CampaignID),
		zap.Int("rows", len(response.Data)),
		zap.Int("total", response.Meta.Total),
	)

	return &response, nil
}
