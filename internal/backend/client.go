// Package backend is the client for the stregsystem HTTP API.
package backend

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/tidwall/gjson"

	"github.com/fklub/stregterm/internal/apperr"
	"github.com/fklub/stregterm/internal/domain"
	"github.com/fklub/stregterm/internal/httputil"
	"github.com/fklub/stregterm/internal/textutil"
	"github.com/fklub/stregterm/pkg/logger"
)

// Config configures a Client.
type Config struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
	HTTPClient        *http.Client
	Logger            *logger.Logger
}

// Client talks to the stregsystem API. Every call is a single attempt.
type Client struct {
	http *httputil.Client
	log  *logger.Logger
}

// New creates a Client.
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	log := cfg.Logger
	if log == nil {
		log = logger.NewDiscard("backend")
	}
	return &Client{
		http: httputil.NewClient(httputil.ClientConfig{
			Service:           "stregsystem",
			BaseURL:           cfg.BaseURL,
			Timeout:           cfg.Timeout,
			RequestsPerSecond: cfg.RequestsPerSecond,
			HTTPClient:        cfg.HTTPClient,
			Logger:            log,
		}),
		log: log,
	}
}

// FetchProducts returns the active products of a room with HTML-free names.
func (c *Client) FetchProducts(ctx context.Context, roomID int) (domain.Products, error) {
	var products domain.Products
	if err := c.getJSON(ctx, "fetch products", activeProductsURL(roomID), &products); err != nil {
		return nil, err
	}
	if products == nil {
		products = domain.Products{}
	}
	for id, p := range products {
		p.ID = id
		p.Name = textutil.SanitizeHTML(p.Name)
		products[id] = p
	}
	return products, nil
}

// FetchAliases returns the alias index.
func (c *Client) FetchAliases(ctx context.Context) (domain.Aliases, error) {
	var aliases domain.Aliases
	if err := c.getJSON(ctx, "fetch named products", namedProductsPath, &aliases); err != nil {
		return nil, err
	}
	if aliases == nil {
		aliases = domain.Aliases{}
	}
	return aliases, nil
}

// FetchMemberID resolves a username. found is false when the backend does
// not know the user.
func (c *Client) FetchMemberID(ctx context.Context, username string) (id int, found bool, err error) {
	const what = "fetch member ID"

	resp, err := c.http.Get(ctx, memberIDURL(username))
	if err != nil {
		return 0, false, apperr.Network("Failed to "+what, err)
	}
	if resp.StatusCode == http.StatusNotFound {
		_ = httputil.DecodeResponse(resp, nil)
		return 0, false, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = httputil.DecodeResponse(resp, nil)
		return 0, false, apperr.APIStatus(what, resp.StatusCode)
	}

	body, err := httputil.ReadBody(resp)
	if err != nil {
		return 0, false, apperr.Network("Failed to "+what, err)
	}
	if !gjson.ValidBytes(body) {
		return 0, false, apperr.Decode(what, errors.New("invalid JSON"))
	}

	memberID := gjson.GetBytes(body, "member_id")
	if !memberID.Exists() || memberID.Type != gjson.Number {
		return 0, false, nil
	}
	return int(memberID.Int()), true, nil
}

// FetchMemberInfo returns the account behind a member id.
func (c *Client) FetchMemberInfo(ctx context.Context, memberID int) (domain.MemberAccount, error) {
	var info domain.MemberAccount
	if err := c.getJSON(ctx, "fetch member info", memberInfoURL(memberID), &info); err != nil {
		return domain.MemberAccount{}, err
	}
	return info, nil
}

type salesResponse struct {
	Sales []domain.Sale `json:"sales"`
}

// FetchSales returns the member's recent sales, most recent first.
func (c *Client) FetchSales(ctx context.Context, memberID int) ([]domain.Sale, error) {
	var resp salesResponse
	if err := c.getJSON(ctx, "fetch sales", salesURL(memberID), &resp); err != nil {
		return nil, err
	}
	for i := range resp.Sales {
		resp.Sales[i].Product = textutil.SanitizeHTML(resp.Sales[i].Product)
	}
	if resp.Sales == nil {
		resp.Sales = []domain.Sale{}
	}
	return resp.Sales, nil
}

type purchaseRequest struct {
	MemberID  int    `json:"member_id"`
	BuyString string `json:"buystring"`
	Room      int    `json:"room"`
}

// Purchase submits a sale.
func (c *Client) Purchase(ctx context.Context, memberID int, buystring string, roomID int) error {
	const what = "make purchase"

	resp, err := c.http.Post(ctx, purchasePath, purchaseRequest{
		MemberID:  memberID,
		BuyString: buystring,
		Room:      roomID,
	})
	if err != nil {
		return apperr.Network("Failed to "+what, err)
	}
	return classify(what, httputil.DecodeResponse(resp, nil))
}

func (c *Client) getJSON(ctx context.Context, what, path string, target interface{}) error {
	resp, err := c.http.Get(ctx, path)
	if err != nil {
		return apperr.Network("Failed to "+what, err)
	}
	return classify(what, httputil.DecodeResponse(resp, target))
}

func classify(what string, err error) error {
	if err == nil {
		return nil
	}
	var statusErr *httputil.StatusError
	if errors.As(err, &statusErr) {
		return apperr.APIStatus(what, statusErr.StatusCode)
	}
	return apperr.Decode(what, err)
}
