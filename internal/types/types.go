package types

import (
	"net/url"
	"strconv"
	"time"
)

// Trade is one buy/sell position record as served by the admin API.
// entry_price and exit_price are pointers: the API omits them for open
// positions and the zero value is a legal price.
type Trade struct {
	ID              string     `json:"_id"`
	ClientName      string     `json:"clientName"`
	OrderID         string     `json:"orderId"`
	Symbol          string     `json:"symbol"`
	TransactionType string     `json:"transactionType"`
	Quantity        int        `json:"quantity"`
	EntryPrice      *float64   `json:"entry_price"`
	ExitPrice       *float64   `json:"exit_price"`
	Trend           string     `json:"trend"`
	Status          string     `json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
	ExitTime        *time.Time `json:"exit_time"`
}

// Open reports whether the position has no recorded exit yet.
func (t Trade) Open() bool {
	return t.ExitPrice == nil
}

// Duration returns how long the position was held. Zero for open positions.
func (t Trade) Duration() time.Duration {
	if t.ExitTime == nil || t.CreatedAt.IsZero() {
		return 0
	}
	return t.ExitTime.Sub(t.CreatedAt)
}

type TradesPage struct {
	Trades     []Trade `json:"trades"`
	TotalPages int     `json:"totalPages"`
	Page       int     `json:"page"`
}

// TradeQuery is the canonical descriptor for a trades fetch. Empty string
// filters are omitted from the encoded query, matching the server contract.
type TradeQuery struct {
	Start      string
	End        string
	ClientName string
	Symbol     string
	Page       int
	Limit      int
}

func (q TradeQuery) Values() url.Values {
	v := url.Values{}
	if q.Start != "" {
		v.Set("start", q.Start)
	}
	if q.End != "" {
		v.Set("end", q.End)
	}
	if q.ClientName != "" {
		v.Set("clientName", q.ClientName)
	}
	if q.Symbol != "" {
		v.Set("symbol", q.Symbol)
	}
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("limit", strconv.Itoa(q.Limit))
	return v
}

// Client is one managed client record.
type Client struct {
	ID           string     `json:"_id"`
	ClientName   string     `json:"clientName"`
	Email        string     `json:"email"`
	MobileNumber string     `json:"mobileNumber"`
	IsPaid       bool       `json:"isPaid"`
	Broker       string     `json:"broker"`
	Trade        []string   `json:"trade"`
	LastLogin    *time.Time `json:"lastLogin"`
}

type ClientsPage struct {
	Clients    []Client `json:"clients"`
	TotalPages int      `json:"totalPages"`
}

// Brokers a client may be assigned to. Empty string means unassigned.
var Brokers = []string{"dhan", "angel one", "paytm money", "zerodha"}

// InstrumentTags a client may subscribe to.
var InstrumentTags = []string{"Nifty", "Natural Gas", "Crude Oil"}

func ValidBroker(b string) bool {
	if b == "" {
		return true
	}
	for _, known := range Brokers {
		if b == known {
			return true
		}
	}
	return false
}

func ValidInstrumentTag(tag string) bool {
	for _, known := range InstrumentTags {
		if tag == known {
			return true
		}
	}
	return false
}
