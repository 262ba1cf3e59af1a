package docstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/wathbahs/muraji/pkg/domain/interfaces"
	"github.com/wathbahs/muraji/pkg/domain/model/errs"
	"github.com/wathbahs/muraji/pkg/domain/types"
	"github.com/wathbahs/muraji/pkg/utils/logging"
	"github.com/wathbahs/muraji/pkg/utils/safe"
)

const (
	defaultPollInterval = 2 * time.Second
	defaultPollTimeout  = 30 * time.Second
)

// Client talks to the external document-indexing service over its JSON API.
// Indexing is asynchronous: uploads return once the document is ready, or
// with a processing status when the bounded wait runs out.
type Client struct {
	baseURL      string
	apiKey       string
	httpClient   *http.Client
	pollInterval time.Duration
	pollTimeout  time.Duration
}

var _ interfaces.DocumentStore = (*Client)(nil)

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(x *Client) {
		x.httpClient = c
	}
}

func WithPollInterval(d time.Duration) Option {
	return func(x *Client) {
		if d > 0 {
			x.pollInterval = d
		}
	}
}

func WithPollTimeout(d time.Duration) Option {
	return func(x *Client) {
		if d > 0 {
			x.pollTimeout = d
		}
	}
}

func New(baseURL, apiKey string, opts ...Option) (*Client, error) {
	if _, err := url.Parse(baseURL); err != nil || baseURL == "" {
		return nil, goerr.New("invalid document store base URL",
			goerr.V("base_url", baseURL),
			goerr.T(errs.TagConfiguration))
	}

	c := &Client{
		baseURL:      baseURL,
		apiKey:       apiKey,
		httpClient:   http.DefaultClient,
		pollInterval: defaultPollInterval,
		pollTimeout:  defaultPollTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (x *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, x.baseURL+path, body)
	if err != nil {
		return goerr.Wrap(err, "failed to build document store request",
			goerr.V("path", path),
			goerr.T(errs.TagDocStoreError))
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if x.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+x.apiKey)
	}

	resp, err := x.httpClient.Do(req)
	if err != nil {
		return goerr.Wrap(err, "document store request failed",
			goerr.V("path", path),
			goerr.T(errs.TagDocStoreError))
	}
	defer safe.Close(ctx, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return goerr.New("document store returned an error status",
			goerr.V("path", path),
			goerr.V("status", resp.StatusCode),
			goerr.V("body", string(raw)),
			goerr.T(errs.TagDocStoreError))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return goerr.Wrap(err, "failed to decode document store response",
			goerr.V("path", path),
			goerr.T(errs.TagDocStoreError))
	}
	return nil
}

func (x *Client) CreateCollection(ctx context.Context, name string) (*interfaces.Collection, error) {
	payload, err := json.Marshal(map[string]string{"name": name})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to marshal collection request")
	}

	var col interfaces.Collection
	if err := x.do(ctx, http.MethodPost, "/collections", bytes.NewReader(payload), "application/json", &col); err != nil {
		return nil, err
	}
	return &col, nil
}

func (x *Client) ListCollections(ctx context.Context) ([]interfaces.Collection, error) {
	var out struct {
		Collections []interfaces.Collection `json:"collections"`
	}
	if err := x.do(ctx, http.MethodGet, "/collections", nil, "", &out); err != nil {
		return nil, err
	}
	if out.Collections == nil {
		out.Collections = []interfaces.Collection{}
	}
	return out.Collections, nil
}

func (x *Client) DeleteCollection(ctx context.Context, id types.CollectionID) error {
	return x.do(ctx, http.MethodDelete, "/collections/"+url.PathEscape(string(id)), nil, "", nil)
}

// UploadDocument submits the file and polls until indexing settles or the
// wait bound elapses. Timing out is not an error: the document comes back
// with a processing status and the caller can poll via ListDocuments.
func (x *Client) UploadDocument(ctx context.Context, collectionID types.CollectionID, name, mimeType string, data []byte) (*interfaces.Document, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", name)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build upload form")
	}
	if _, err := fw.Write(data); err != nil {
		return nil, goerr.Wrap(err, "failed to write upload form")
	}
	if mimeType != "" {
		if err := mw.WriteField("mimeType", mimeType); err != nil {
			return nil, goerr.Wrap(err, "failed to write upload form")
		}
	}
	if err := mw.Close(); err != nil {
		return nil, goerr.Wrap(err, "failed to finalize upload form")
	}

	path := fmt.Sprintf("/collections/%s/documents", url.PathEscape(string(collectionID)))
	var doc interfaces.Document
	if err := x.do(ctx, http.MethodPost, path, &buf, mw.FormDataContentType(), &doc); err != nil {
		return nil, err
	}

	return x.waitForImport(ctx, collectionID, doc)
}

func (x *Client) waitForImport(ctx context.Context, collectionID types.CollectionID, doc interfaces.Document) (*interfaces.Document, error) {
	if doc.Status != types.ImportStatusProcessing {
		return &doc, nil
	}

	logger := logging.From(ctx)
	deadline := time.NewTimer(x.pollTimeout)
	defer deadline.Stop()
	tick := time.NewTicker(x.pollInterval)
	defer tick.Stop()

	path := fmt.Sprintf("/collections/%s/documents/%s",
		url.PathEscape(string(collectionID)), url.PathEscape(string(doc.ID)))

	for {
		select {
		case <-ctx.Done():
			return nil, goerr.Wrap(ctx.Err(), "canceled while waiting for import",
				goerr.V("document_id", doc.ID))

		case <-deadline.C:
			logger.Warn("document import still processing after wait bound",
				"document_id", doc.ID,
				"collection_id", collectionID,
				"timeout", x.pollTimeout)
			doc.Status = types.ImportStatusProcessing
			return &doc, nil

		case <-tick.C:
			var current interfaces.Document
			if err := x.do(ctx, http.MethodGet, path, nil, "", &current); err != nil {
				return nil, err
			}
			if current.Status != types.ImportStatusProcessing {
				return &current, nil
			}
		}
	}
}

func (x *Client) ListDocuments(ctx context.Context, collectionID types.CollectionID) ([]interfaces.Document, error) {
	path := fmt.Sprintf("/collections/%s/documents", url.PathEscape(string(collectionID)))
	var out struct {
		Documents []interfaces.Document `json:"documents"`
	}
	if err := x.do(ctx, http.MethodGet, path, nil, "", &out); err != nil {
		return nil, err
	}
	if out.Documents == nil {
		out.Documents = []interfaces.Document{}
	}
	return out.Documents, nil
}

func (x *Client) DeleteDocument(ctx context.Context, collectionID types.CollectionID, docID types.DocumentID) error {
	path := fmt.Sprintf("/collections/%s/documents/%s",
		url.PathEscape(string(collectionID)), url.PathEscape(string(docID)))
	return x.do(ctx, http.MethodDelete, path, nil, "", nil)
}
