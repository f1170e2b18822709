// Package gpqa loads GPQA question rows from the Hugging Face
// datasets-server or from a local CSV export.
package gpqa

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

const (
	// DefaultDataset is the GPQA dataset repository on the Hugging Face hub.
	DefaultDataset = "Idavidrein/gpqa"
	// DefaultConfig is the dataset configuration (subset) to load.
	DefaultConfig = "gpqa_main"
	// DefaultSplit is the only split GPQA ships.
	DefaultSplit = "train"

	rowsEndpoint = "https://datasets-server.huggingface.co/rows"
	pageSize     = 100
)

// Question is one raw dataset row: the question text, its correct answer,
// and the three distractors. Immutable once loaded.
type Question struct {
	Question  string
	Correct   string
	Incorrect [3]string
}

// Validate reports whether the row carries every field the sample
// assembler needs. The dataset schema is not assumed; consumers check it.
func (q Question) Validate() error {
	if strings.TrimSpace(q.Question) == "" {
		return fmt.Errorf("empty question text")
	}
	if strings.TrimSpace(q.Correct) == "" {
		return fmt.Errorf("empty correct answer")
	}
	for i, inc := range q.Incorrect {
		if strings.TrimSpace(inc) == "" {
			return fmt.Errorf("empty incorrect answer %d", i+1)
		}
	}
	return nil
}

// Client fetches dataset rows over HTTP.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	dataset    string
	config     string
}

// Option configures a Client.
type Option func(*Client)

// WithToken sets the bearer token sent to the datasets-server. GPQA is a
// gated dataset; requests without a token are rejected.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithConfig overrides the dataset configuration (e.g. "gpqa_diamond").
func WithConfig(config string) Option {
	return func(c *Client) { c.config = config }
}

// WithBaseURL overrides the rows endpoint. Used in tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// NewClient creates a Client for the GPQA dataset.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		baseURL:    rowsEndpoint,
		dataset:    DefaultDataset,
		config:     DefaultConfig,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// rowsResponse mirrors the datasets-server /rows payload.
type rowsResponse struct {
	Rows []struct {
		RowIdx int            `json:"row_idx"`
		Row    map[string]any `json:"row"`
	} `json:"rows"`
	NumRowsTotal int `json:"num_rows_total"`
}

// Load fetches all rows of the configured dataset, paginating until the
// reported total is reached.
func (c *Client) Load(ctx context.Context) ([]Question, error) {
	var out []Question
	offset := 0

	for {
		page, err := c.fetchPage(ctx, offset)
		if err != nil {
			return nil, err
		}
		for _, r := range page.Rows {
			out = append(out, questionFromRow(r.Row))
		}
		offset += len(page.Rows)
		if offset >= page.NumRowsTotal || len(page.Rows) == 0 {
			break
		}
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("dataset %s/%s returned no rows", c.dataset, c.config)
	}
	return out, nil
}

func (c *Client) fetchPage(ctx context.Context, offset int) (*rowsResponse, error) {
	q := url.Values{}
	q.Set("dataset", c.dataset)
	q.Set("config", c.config)
	q.Set("split", DefaultSplit)
	q.Set("offset", fmt.Sprint(offset))
	q.Set("length", fmt.Sprint(pageSize))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build rows request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch dataset rows: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("datasets-server returned %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var page rowsResponse
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("decode rows response: %w", err)
	}
	return &page, nil
}

func questionFromRow(row map[string]any) Question {
	str := func(key string) string {
		v, _ := row[key].(string)
		return v
	}
	return Question{
		Question: str("Question"),
		Correct:  str("Correct Answer"),
		Incorrect: [3]string{
			str("Incorrect Answer 1"),
			str("Incorrect Answer 2"),
			str("Incorrect Answer 3"),
		},
	}
}

// LoadCSV reads questions from a local CSV export of the dataset. The
// header row names columns; the same field names as the hub schema apply.
func LoadCSV(path string) ([]Question, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset CSV: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read CSV header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{"Question", "Correct Answer", "Incorrect Answer 1", "Incorrect Answer 2", "Incorrect Answer 3"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("CSV missing column %q", required)
		}
	}

	var out []Question
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read CSV record: %w", err)
		}
		field := func(name string) string {
			i := col[name]
			if i >= len(record) {
				return ""
			}
			return record[i]
		}
		out = append(out, Question{
			Question: field("Question"),
			Correct:  field("Correct Answer"),
			Incorrect: [3]string{
				field("Incorrect Answer 1"),
				field("Incorrect Answer 2"),
				field("Incorrect Answer 3"),
			},
		})
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("dataset CSV %s contains no rows", path)
	}
	return out, nil
}
