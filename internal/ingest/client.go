// Copyright (c) 2026 Triply. All rights reserved.

// Package ingest imports the destination catalogue from the public tourism
// open-data API (KorService).
//
// The upstream API returns every field as a string inside a deeply nested
// envelope. This package fetches pages, stages the raw payloads on disk for
// auditability, and transforms the records into catalogue entities.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// requestTimeout bounds one upstream call. The open-data API is slow on cold
// pages, so this is generous compared to our own handler timeouts.
const requestTimeout = 20 * time.Second

// AreaItem is one raw destination record as returned by areaBasedList1.
// Every field arrives as a string, including the numeric ones.
type AreaItem struct {
	ContentID     string `json:"contentid"`
	ContentTypeID string `json:"contenttypeid"`
	Title         string `json:"title"`
	Addr1         string `json:"addr1"`
	Addr2         string `json:"addr2"`
	Zipcode       string `json:"zipcode"`
	Tel           string `json:"tel"`
	AreaCode      string `json:"areacode"`
	FirstImage    string `json:"firstimage"`
	FirstImage2   string `json:"firstimage2"`
	MapX          string `json:"mapx"`
	MapY          string `json:"mapy"`
}

// envelope mirrors the open-data response wrapper.
type envelope struct {
	Response struct {
		Header struct {
			ResultCode string `json:"resultCode"`
			ResultMsg  string `json:"resultMsg"`
		} `json:"header"`
		Body struct {
			Items struct {
				Item []json.RawMessage `json:"item"`
			} `json:"items"`
			NumOfRows  int `json:"numOfRows"`
			PageNo     int `json:"pageNo"`
			TotalCount int `json:"totalCount"`
		} `json:"body"`
	} `json:"response"`
}

// resultCodeOK is the upstream success code.
const resultCodeOK = "0000"

// Client is a thin HTTP client for the KorService open-data API.
type Client struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
}

// NewClient constructs an open-data API client.
func NewClient(baseURL, serviceKey string) *Client {
	return &Client{
		baseURL:    baseURL,
		serviceKey: serviceKey,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

// AreaPage is one page of area-based destination listings.
type AreaPage struct {
	Items      []AreaItem
	PageNo     int
	TotalCount int
	Raw        []byte // Unparsed body, kept for staging.
}

// AreaBasedList fetches one page of destinations for an area.
//
// contentTypeID narrows the listing to one content category; pass 0 for all.
func (client *Client) AreaBasedList(ctx context.Context, areaCode, contentTypeID, pageNo, numOfRows int) (*AreaPage, error) {
	params := client.baseParams()
	params.Set("areaCode", strconv.Itoa(areaCode))
	params.Set("pageNo", strconv.Itoa(pageNo))
	params.Set("numOfRows", strconv.Itoa(numOfRows))
	params.Set("arrange", "A")
	if contentTypeID > 0 {
		params.Set("contentTypeId", strconv.Itoa(contentTypeID))
	}

	body, env, err := client.call(ctx, "areaBasedList1", params)
	if err != nil {
		return nil, err
	}

	items := make([]AreaItem, 0, len(env.Response.Body.Items.Item))
	for _, raw := range env.Response.Body.Items.Item {
		var item AreaItem
		if err := json.Unmarshal(raw, &item); err != nil {
			// One malformed record must not sink the page.
			continue
		}
		items = append(items, item)
	}

	return &AreaPage{
		Items:      items,
		PageNo:     env.Response.Body.PageNo,
		TotalCount: env.Response.Body.TotalCount,
		Raw:        body,
	}, nil
}

// detailItem is the raw shape of a detailCommon1 record.
type detailItem struct {
	ContentID string `json:"contentid"`
	Overview  string `json:"overview"`
	Homepage  string `json:"homepage"`
}

// Detail is the long-form supplement for one destination.
type Detail struct {
	Overview string
	Homepage string
}

// DetailCommon fetches the long-form description and homepage link for one
// destination.
//
// Returns zero values without error when the upstream has nothing on file.
func (client *Client) DetailCommon(ctx context.Context, contentID int64) (*Detail, error) {
	params := client.baseParams()
	params.Set("contentId", strconv.FormatInt(contentID, 10))
	params.Set("overviewYN", "Y")
	params.Set("defaultYN", "Y")

	_, env, err := client.call(ctx, "detailCommon1", params)
	if err != nil {
		return nil, err
	}

	for _, raw := range env.Response.Body.Items.Item {
		var item detailItem
		if err := json.Unmarshal(raw, &item); err != nil {
			continue
		}
		return &Detail{Overview: item.Overview, Homepage: item.Homepage}, nil
	}

	return &Detail{}, nil
}

// call performs one GET against the open-data API and decodes the envelope.
func (client *Client) call(ctx context.Context, operation string, params url.Values) ([]byte, *envelope, error) {
	endpoint := fmt.Sprintf("%s/%s?%s", client.baseURL, operation, params.Encode())

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("ingest_client_request_failed: %w", err)
	}
	request.Header.Set("Accept", "application/json")

	response, err := client.httpClient.Do(request)
	if err != nil {
		return nil, nil, fmt.Errorf("ingest_client_call_failed: %s: %w", operation, err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("ingest_client_status_failed: %s returned HTTP %d", operation, response.StatusCode)
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("ingest_client_read_failed: %w", err)
	}

	env := &envelope{}
	if err := json.Unmarshal(body, env); err != nil {
		return nil, nil, fmt.Errorf("ingest_client_decode_failed: %s: %w", operation, err)
	}

	if code := env.Response.Header.ResultCode; code != resultCodeOK {
		return nil, nil, fmt.Errorf("ingest_client_upstream_failed: %s: %s (%s)",
			operation, env.Response.Header.ResultMsg, code)
	}

	return body, env, nil
}

// baseParams returns the query parameters every operation shares.
func (client *Client) baseParams() url.Values {
	params := url.Values{}
	params.Set("serviceKey", client.serviceKey)
	params.Set("MobileOS", "ETC")
	params.Set("MobileApp", "triply")
	params.Set("_type", "json")
	return params
}
