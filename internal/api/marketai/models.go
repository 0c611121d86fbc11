package marketai

import "time"

type Marketplace int

const (
	MarketplaceWildberries  Marketplace = 1
	MarketplaceOzon         Marketplace = 2
	MarketplaceYandexMarket Marketplace = 3
)

func (m Marketplace) String() string {
	switch m {
	case MarketplaceWildberries:
		return "Wildberries"
	case MarketplaceOzon:
		return "Ozon"
	case MarketplaceYandexMarket:
		return "Яндекс.Маркет"
	default:
		return "Неизвестно"
	}
}

type CampaignStatus int

const (
	CampaignInactive CampaignStatus = 0
	CampaignActive   CampaignStatus = 1
)

type Campaign struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name"`
	Key         string         `json:"key"`
	Status      CampaignStatus `json:"status"`
	Marketplace Marketplace    `json:"marketplace"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

type CampaignsResponse struct {
	Data []Campaign `json:"data"`
}

type FinancialMetricsParams struct {
	CampaignID int64
	DateFrom   *time.Time
	DateTo     *time.Time
}

type FinancialMetricsResponse struct {
	Data []FinancialMetric `json:"data"`
	Meta FinancialMeta     `json:"meta"`
}

type FinancialMeta struct {
	Total    int     `json:"total"`
	Currency string  `json:"currency"`
	DateFrom *string `json:"date_from"`
	DateTo   *string `json:"date_to"`
}

// FinancialMetric is one article row of the financial report.
type FinancialMetric struct {
	NmID                      int64   `json:"nm_id"`
	SaName                    string  `json:"sa_name"`
	SalesCount                int     `json:"sales_count"`
	RefusesCount              int     `json:"refuses_count"`
	PercentRefuses            float64 `json:"percent_refuses"`
	DeliveriesCount           int     `json:"deliveries_count"`
	RefundCount               int     `json:"refund_count"`
	SoldCount                 int     `json:"sold_count"`
	RetailAmount              float64 `json:"retail_amount"`
	RefundRetailAmount        float64 `json:"refund_retail_amount"`
	SoldRetailAmount          float64 `json:"sold_retail_amount"`
	DeliveryAmount            float64 `json:"delivery_amount"`
	AcceptanceAmount          float64 `json:"acceptance_amount"`
	RetailPrice               float64 `json:"retail_price"`
	RefundRetailPrice         float64 `json:"refund_retail_price"`
	SppAmount                 float64 `json:"spp_amount"`
	SellerBeforeRefund        float64 `json:"seller_before_refund"`
	SellerRefund              float64 `json:"seller_refund"`
	SellerTotal               float64 `json:"seller_total"`
	TotalCommissionWithSpp    float64 `json:"total_commission_with_spp"`
	TotalCommissionWithoutSpp float64 `json:"total_commission_without_spp"`
	PenaltyAmount             float64 `json:"penalty_amount"`
	SurchargesAmount          float64 `json:"surcharges_amount"`
}

// FinancialTotals is the footer row of the report.
type FinancialTotals struct {
	Rows             int
	SoldCount        int
	RefundCount      int
	SoldRetailAmount float64
	SellerTotal      float64
	Commission       float64
	Penalties        float64
}

func SumMetrics(rows []FinancialMetric) FinancialTotals {
	t := FinancialTotals{Rows: len(rows)}
	for _, r := range rows {
		t.SoldCount += r.SoldCount
		t.RefundCount += r.RefundCount
		t.SoldRetailAmount += r.SoldRetailAmount
		t.SellerTotal += r.SellerTotal
		t.Commission += r.TotalCommissionWithSpp
		t.Penalties += r.PenaltyAmount
	}
	return t
}

type ErrorResponse struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}
