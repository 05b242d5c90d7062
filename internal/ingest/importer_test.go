// Copyright (c) 2026 Triply. All rights reserved.

package ingest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/triply-app/triply/internal/core/destination"
)

func TestTransform(t *testing.T) {
	entry, err := transform(AreaItem{
		ContentID:     "2501",
		ContentTypeID: "12",
		Title:         "성산일출봉",
		Addr1:         "제주특별자치도 서귀포시 성산읍",
		Addr2:         "성산리 1",
		Zipcode:       "63643",
		Tel:           "064-783-0959",
		AreaCode:      "39",
		FirstImage:    "http://tong.visitkorea.or.kr/seongsan.jpg",
		MapX:          "126.9410",
		MapY:          "33.4580",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(2501), entry.ContentID)
	assert.Equal(t, "성산일출봉", entry.Title)
	assert.Equal(t, 12, entry.CategoryID)
	assert.Equal(t, 39, entry.AreaCode)
	assert.Equal(t, "성산리 1", entry.Address2)
	assert.Equal(t, "63643", entry.Zipcode)
	assert.Equal(t, "064-783-0959", entry.Tel)
	assert.InDelta(t, 126.9410, entry.MapX, 0.0001)
	assert.InDelta(t, 33.4580, entry.MapY, 0.0001)
}

func TestTransform_RejectsBadRows(t *testing.T) {
	tests := []struct {
		name string
		item AreaItem
	}{
		{"missing content id", AreaItem{Title: "Hallasan"}},
		{"non-numeric content id", AreaItem{ContentID: "abc", Title: "Hallasan"}},
		{"missing title", AreaItem{ContentID: "2501"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := transform(tc.item)
			assert.Error(t, err)
		})
	}
}

// fakeCatalog records import batches in memory.
type fakeCatalog struct {
	batches [][]*destination.Destination
}

func (fake *fakeCatalog) ImportBatch(_ context.Context, destinations []*destination.Destination) (int, error) {
	fake.batches = append(fake.batches, destinations)
	return len(destinations), nil
}

// openDataResponse builds a minimal upstream envelope for tests.
func openDataResponse(t *testing.T, items []AreaItem, totalCount int) []byte {
	t.Helper()

	rawItems := make([]json.RawMessage, 0, len(items))
	for _, item := range items {
		raw, err := json.Marshal(item)
		require.NoError(t, err)
		rawItems = append(rawItems, raw)
	}

	payload := map[string]any{
		"response": map[string]any{
			"header": map[string]any{"resultCode": "0000", "resultMsg": "OK"},
			"body": map[string]any{
				"items":      map[string]any{"item": rawItems},
				"numOfRows":  len(items),
				"pageNo":     1,
				"totalCount": totalCount,
			},
		},
	}

	body, err := json.Marshal(payload)
	require.NoError(t, err)
	return body
}

func TestImporter_Run(t *testing.T) {
	items := []AreaItem{
		{ContentID: "2501", ContentTypeID: "12", Title: "성산일출봉", AreaCode: "39", MapX: "126.94", MapY: "33.45"},
		{ContentID: "2502", ContentTypeID: "12", Title: "한라산", AreaCode: "39"},
		{ContentID: "", Title: "broken row"}, // must be skipped, not fatal
	}

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Contains(t, request.URL.Path, "areaBasedList1")
		assert.Equal(t, "39", request.URL.Query().Get("areaCode"))
		writer.Header().Set("Content-Type", "application/json")
		_, _ = writer.Write(openDataResponse(t, items, len(items)))
	}))
	defer server.Close()

	stagingDir := t.TempDir()
	catalog := &fakeCatalog{}
	importer := NewImporter(NewClient(server.URL, "test-key"), catalog, stagingDir, slog.Default())

	report, err := importer.Run(context.Background(), RunOptions{AreaCode: 39})
	require.NoError(t, err)

	assert.Equal(t, 3, report.Fetched)
	assert.Equal(t, 2, report.Imported)
	assert.Equal(t, 1, report.Skipped)
	assert.Len(t, report.Errors, 1)

	require.Len(t, catalog.batches, 1)
	assert.Equal(t, int64(2501), catalog.batches[0][0].ContentID)

	// The raw page must have been staged for auditing.
	staged := 0
	require.NoError(t, filepath.Walk(stagingDir, func(path string, info os.FileInfo, err error) error {
		if err == nil && !info.IsDir() {
			staged++
		}
		return nil
	}))
	assert.Equal(t, 1, staged)
}

func TestImporter_Run_UpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.Header().Set("Content-Type", "application/json")
		_, _ = writer.Write([]byte(`{"response":{"header":{"resultCode":"30","resultMsg":"SERVICE_KEY_IS_NOT_REGISTERED_ERROR"}}}`))
	}))
	defer server.Close()

	importer := NewImporter(NewClient(server.URL, "bad-key"), &fakeCatalog{}, "", slog.Default())

	_, err := importer.Run(context.Background(), RunOptions{AreaCode: 39})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SERVICE_KEY_IS_NOT_REGISTERED_ERROR")
}
