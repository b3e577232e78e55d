package scriptclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/coe-onsite/onsite-manager/pkg/db"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL+"/exec", srv.Client(), zap.NewNop())
	c.now = func() time.Time { return time.UnixMilli(1741060800000) }
	return c
}

func TestGetRecords(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/exec", r.URL.Path)
		assert.Equal(t, "1741060800000", r.URL.Query().Get("t"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[
			{"id": 1741060800000, "schoolName": "Hill College", "phone": 23456789,
			 "participantCount": 30, "staff": "淑, 榮", "status": "completed",
			 "confirmedDate": "2025-03-04T16:00:00.000Z", "startTime": "1899-12-30T01:00:00.000Z"},
			{"id": "2", "schoolName": "Bay School", "staff": ["仁", "爾"], "status": null, "dateOther": "TBC"}
		]`)
	})

	records, err := c.GetRecords(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "1741060800000", records[0].ID)
	assert.Equal(t, "23456789", records[0].Phone)
	assert.Equal(t, "30", records[0].ParticipantCount)
	assert.Equal(t, "淑, 榮", records[0].Staff)
	assert.Equal(t, "completed", records[0].Status)
	assert.Equal(t, "2025-03-04T16:00:00.000Z", records[0].ConfirmedDate)

	assert.Equal(t, "2", records[1].ID)
	assert.Equal(t, "仁, 爾", records[1].Staff)
	assert.Equal(t, "", records[1].Status)
	assert.Equal(t, "TBC", records[1].DateOther)
}

func TestGetRecords_Empty(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[]`)
	})

	records, err := c.GetRecords(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestGetRecords_Errors(t *testing.T) {
	tests := []struct {
		name     string
		handler  http.HandlerFunc
		contains string
	}{
		{
			name: "non-2xx",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			contains: "fetch failed: status 500",
		},
		{
			name: "not json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, `<html>moved</html>`)
			},
			contains: "failed to decode records",
		},
		{
			name: "object in a scalar field",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, `[{"id": {"nested": true}}]`)
			},
			contains: "failed to decode records",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, tt.handler)
			_, err := c.GetRecords(context.Background())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestGetRecords_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewClient(srv.URL, nil, nil)
	_, err := c.GetRecords(context.Background())
	assert.ErrorContains(t, err, "fetch failed")
}

// capturePosts records decoded POST bodies and answers with the given status
func capturePosts(t *testing.T, status int) (*Client, *[]map[string]interface{}) {
	t.Helper()

	var bodies []map[string]interface{}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "text/plain;charset=utf-8", r.Header.Get("Content-Type"))

		var body map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		bodies = append(bodies, body)
		w.WriteHeader(status)
	})
	return c, &bodies
}

func TestInsertRecord(t *testing.T) {
	c, bodies := capturePosts(t, http.StatusOK)

	err := c.InsertRecord(context.Background(), &db.ApplicationRecord{
		ID:            "1741060800000",
		SchoolName:    "Hill College",
		ConfirmedDate: "2025-03-04",
		StartTime:     "09:00",
		EndTime:       "12:00",
		Staff:         "淑, 榮",
		Status:        "processing",
		CreatedAt:     "2025-03-04T04:00:00Z",
	})
	require.NoError(t, err)

	require.Len(t, *bodies, 1)
	body := (*bodies)[0]
	assert.Equal(t, "create", body["action"])
	assert.Equal(t, "1741060800000", body["id"])
	assert.Equal(t, "Hill College", body["schoolName"])
	assert.Equal(t, "淑, 榮", body["staff"])
	assert.Equal(t, "2025-03-04", body["confirmedDate"])
	assert.Equal(t, "2025-03-04T04:00:00Z", body["createdAt"])
	assert.NotContains(t, body, "dateOther")
}

func TestUpdateRecord(t *testing.T) {
	c, bodies := capturePosts(t, http.StatusOK)

	require.NoError(t, c.UpdateRecord(context.Background(), &db.ApplicationRecord{ID: "7", SchoolName: "Bay School"}))

	body := (*bodies)[0]
	assert.Equal(t, "update", body["action"])
	assert.Equal(t, "7", body["id"])
	assert.NotContains(t, body, "createdAt")
	assert.Contains(t, body, "phone")
}

func TestUpdateRecordStatus(t *testing.T) {
	c, bodies := capturePosts(t, http.StatusOK)

	require.NoError(t, c.UpdateRecordStatus(context.Background(), "7", "completed"))

	assert.Equal(t, map[string]interface{}{"action": "update", "id": "7", "status": "completed"}, (*bodies)[0])
}

func TestDeleteRecord(t *testing.T) {
	c, bodies := capturePosts(t, http.StatusOK)

	require.NoError(t, c.DeleteRecord(context.Background(), "7"))

	assert.Equal(t, map[string]interface{}{"action": "delete", "id": "7"}, (*bodies)[0])
}

func TestPost_IgnoresResponseStatus(t *testing.T) {
	c, bodies := capturePosts(t, http.StatusBadGateway)

	assert.NoError(t, c.DeleteRecord(context.Background(), "7"))
	assert.Len(t, *bodies, 1)
}

func TestPost_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewClient(srv.URL, nil, nil)
	err := c.InsertRecord(context.Background(), &db.ApplicationRecord{ID: "1"})
	assert.ErrorContains(t, err, "request failed")
}

func TestFlexString(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`"abc"`, "abc"},
		{`12345678`, "12345678"},
		{`true`, "true"},
		{`null`, ""},
		{`" spaced "`, " spaced "},
	}

	for _, tt := range tests {
		var s flexString
		require.NoError(t, json.Unmarshal([]byte(tt.in), &s), tt.in)
		assert.Equal(t, tt.want, string(s), tt.in)
	}

	var s flexString
	assert.Error(t, json.Unmarshal([]byte(`[1]`), &s))
}
