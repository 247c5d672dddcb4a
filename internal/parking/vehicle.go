package parking

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/fklub/stregterm/internal/httputil"
	"github.com/fklub/stregterm/pkg/logger"
)

// DefaultVehicleURL is the plate lookup site.
const DefaultVehicleURL = "https://www.nummerplade.net/nummerplade"

// VehicleInfo is what the lookup site reveals about a plate. Fields are empty
// when unknown.
type VehicleInfo struct {
	Brand   string
	Model   string
	Variant string
}

// Empty reports whether nothing was found.
func (v VehicleInfo) Empty() bool {
	return v.Brand == "" && v.Model == "" && v.Variant == ""
}

// String joins the known parts with spaces.
func (v VehicleInfo) String() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{v.Brand, v.Model, v.Variant} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// VehicleConfig configures a VehicleLookup.
type VehicleConfig struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *logger.Logger
}

// VehicleLookup scrapes vehicle details from the plate lookup site.
type VehicleLookup struct {
	http *httputil.Client
}

// NewVehicleLookup creates a VehicleLookup.
func NewVehicleLookup(cfg VehicleConfig) *VehicleLookup {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultVehicleURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	return &VehicleLookup{
		http: httputil.NewClient(httputil.ClientConfig{
			Service:    "vehicle",
			BaseURL:    cfg.BaseURL,
			Timeout:    timeout,
			HTTPClient: cfg.HTTPClient,
			Logger:     cfg.Logger,
		}),
	}
}

// Lookup fetches details for plate. A page that does not exist yields empty
// info and no error.
func (l *VehicleLookup) Lookup(ctx context.Context, plate string) (VehicleInfo, error) {
	resp, err := l.http.Get(ctx, "/"+url.PathEscape(NormalizePlate(plate))+".html")
	if err != nil {
		return VehicleInfo{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return VehicleInfo{}, nil
	}

	body, _, err := httputil.ReadAllWithLimit(resp.Body, 2<<20)
	if err != nil {
		return VehicleInfo{}, err
	}
	return ParseVehicleInfo(strings.NewReader(string(body)))
}

// ParseVehicleInfo reads the elements with ids maerke, model and variant.
// Each value is the element's leading text.
func ParseVehicleInfo(r io.Reader) (VehicleInfo, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return VehicleInfo{}, err
	}

	found := map[string]string{}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			for _, a := range n.Attr {
				if a.Key != "id" {
					continue
				}
				switch a.Val {
				case "maerke", "model", "variant":
					if _, seen := found[a.Val]; !seen {
						if text := leadingText(n); text != "" {
							found[a.Val] = text
						}
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return VehicleInfo{
		Brand:   found["maerke"],
		Model:   found["model"],
		Variant: found["variant"],
	}, nil
}

func leadingText(n *html.Node) string {
	if c := n.FirstChild; c != nil && c.Type == html.TextNode {
		return strings.TrimSpace(c.Data)
	}
	return ""
}
