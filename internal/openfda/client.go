// Package openfda answers drug, device, and food questions against the
// openFDA REST API: a keyword routes the question to an endpoint and the
// last plausible word becomes the search term.
package openfda

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultBaseURL is the public openFDA API
const DefaultBaseURL = "https://api.fda.gov"

var (
	// ErrNoQuery means no keyword matched the question
	ErrNoQuery = errors.New("no fda query matches the question")
	// ErrNoEntity means the question has no usable search term
	ErrNoEntity = errors.New("no search term found in the question")
)

// Client calls openFDA endpoints
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// NewClient builds a client against the public API
func NewClient() *Client {
	return &Client{BaseURL: DefaultBaseURL, HTTP: http.DefaultClient}
}

func (c *Client) fetch(ctx context.Context, endpoint string, params url.Values) (json.RawMessage, error) {
	u := fmt.Sprintf("%s/%s?%s", c.BaseURL, endpoint, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("building %s request: %w", endpoint, err)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("querying %s: %s", endpoint, resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s response: %w", endpoint, err)
	}
	return json.RawMessage(body), nil
}

// DrugLabel fetches the structured product label for a brand name
func (c *Client) DrugLabel(ctx context.Context, drug string) (json.RawMessage, error) {
	return c.fetch(ctx, "drug/label.json", url.Values{
		"search": {"openfda.brand_name:" + drug},
		"limit":  {"1"},
	})
}

// AdverseEvents fetches recent adverse event reports naming a drug
func (c *Client) AdverseEvents(ctx context.Context, drug string) (json.RawMessage, error) {
	return c.fetch(ctx, "drug/event.json", url.Values{
		"search": {"patient.drug.medicinalproduct:" + drug},
		"limit":  {"5"},
	})
}

// TopReactions fetches reaction counts aggregated across a drug's reports
func (c *Client) TopReactions(ctx context.Context, drug string) (json.RawMessage, error) {
	return c.fetch(ctx, "drug/event.json", url.Values{
		"search": {"patient.drug.medicinalproduct:" + drug},
		"count":  {"patient.reaction.reactionmeddrapt.exact"},
	})
}

// DrugRecalls fetches enforcement reports matching a substance
func (c *Client) DrugRecalls(ctx context.Context, substance string) (json.RawMessage, error) {
	return c.fetch(ctx, "drug/enforcement.json", url.Values{
		"search": {"product_description:" + substance},
		"limit":  {"3"},
	})
}

// NDCInfo fetches National Drug Code directory entries for a brand name
func (c *Client) NDCInfo(ctx context.Context, name string) (json.RawMessage, error) {
	return c.fetch(ctx, "drug/ndc.json", url.Values{
		"search": {"brand_name:" + name},
		"limit":  {"3"},
	})
}

// DeviceEvents fetches device incident reports for a brand name
func (c *Client) DeviceEvents(ctx context.Context, device string) (json.RawMessage, error) {
	return c.fetch(ctx, "device/event.json", url.Values{
		"search": {"device.brand_name:" + device},
		"limit":  {"3"},
	})
}

// FoodRecalls fetches food enforcement reports matching a product
func (c *Client) FoodRecalls(ctx context.Context, product string) (json.RawMessage, error) {
	return c.fetch(ctx, "food/enforcement.json", url.Values{
		"search": {"product_description:" + product},
		"limit":  {"3"},
	})
}

type query struct {
	keyword string
	run     func(*Client, context.Context, string) (json.RawMessage, error)
}

// queries are checked in order against the lowercased question; the first
// keyword found wins, so "food recalls" routes to the recall endpoint
var queries = []query{
	{"label", (*Client).DrugLabel},
	{"adverse event", (*Client).AdverseEvents},
	{"side effect", (*Client).TopReactions},
	{"recall", (*Client).DrugRecalls},
	{"ndc", (*Client).NDCInfo},
	{"device", (*Client).DeviceEvents},
	{"food", (*Client).FoodRecalls},
}

func matchQuery(question string) (query, bool) {
	lower := strings.ToLower(question)
	for _, q := range queries {
		if strings.Contains(lower, q.keyword) {
			return q, true
		}
	}
	return query{}, false
}

// Keywords lists the recognized question keywords in dispatch order
func Keywords() []string {
	out := make([]string, len(queries))
	for i, q := range queries {
		out[i] = q.keyword
	}
	return out
}

// ExtractEntity picks the search term from a question: the last word that
// starts with a letter, with surrounding question marks and periods removed
func ExtractEntity(question string) (string, bool) {
	words := strings.Fields(question)
	for i := len(words) - 1; i >= 0; i-- {
		r, _ := utf8.DecodeRuneInString(words[i])
		if unicode.IsLetter(r) {
			return strings.Trim(words[i], "?."), true
		}
	}
	return "", false
}

// Answer carries one answered question
type Answer struct {
	Keyword string          `json:"keyword"`
	Entity  string          `json:"entity"`
	Body    json.RawMessage `json:"body"`
}

// Answer routes a free-form question to the matching endpoint and returns
// the raw API response
func (c *Client) Answer(ctx context.Context, question string) (*Answer, error) {
	q, ok := matchQuery(question)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoQuery, question)
	}
	entity, ok := ExtractEntity(question)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoEntity, question)
	}

	body, err := q.run(c, ctx, entity)
	if err != nil {
		return nil, err
	}
	return &Answer{Keyword: q.keyword, Entity: entity, Body: body}, nil
}
