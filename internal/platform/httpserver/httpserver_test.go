package httpserver_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/suite"

	"anchor/internal/domain"
	"anchor/internal/failure"
	"anchor/internal/failure/store/bay"
	"anchor/internal/platform/httpserver"
)

type OpsSuite struct {
	suite.Suite

	bays   *bay.MemoryStore
	server *httptest.Server
}

func TestOpsSuite(t *testing.T) {
	suite.Run(t, new(OpsSuite))
}

func (s *OpsSuite) SetupTest() {
	s.bays = bay.NewMemory()
	handler := httpserver.NewOpsHandler(s.bays, nil)
	s.server = httptest.NewServer(handler.Router())
}

func (s *OpsSuite) TearDownTest() {
	s.server.Close()
}

func (s *OpsSuite) get(path string, out any) int {
	resp, err := http.Get(s.server.URL + path)
	s.Require().NoError(err)
	defer resp.Body.Close()
	if out != nil {
		s.Require().NoError(json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (s *OpsSuite) TestHealthz() {
	var body map[string]string
	s.Equal(http.StatusOK, s.get("/healthz", &body))
	s.Equal("ok", body["status"])
}

func (s *OpsSuite) TestMetrics() {
	s.Equal(http.StatusOK, s.get("/metrics", nil))
}

func (s *OpsSuite) TestBays() {
	ctx := context.Background()
	row := &domain.SlotRow{ID: "row-1", SlotType: domain.SlotCEO, CompanyName: "Akme Corp"}
	rec := failure.NewRecord(failure.CategoryCompanyFuzzy, row, nil, "ambiguous match")
	s.Require().NoError(s.bays.Append(ctx, failure.BayCompanyFuzzy, rec))

	s.Run("summary lists each bay with its count", func() {
		var out []struct {
			Bay   string `json:"bay"`
			Count int    `json:"count"`
		}
		s.Equal(http.StatusOK, s.get("/bays", &out))
		s.Require().Len(out, 1)
		s.Equal(failure.BayCompanyFuzzy, out[0].Bay)
		s.Equal(1, out[0].Count)
	})

	s.Run("bay listing returns the stored records", func() {
		var out []failure.Record
		s.Equal(http.StatusOK, s.get("/bays/"+failure.BayCompanyFuzzy, &out))
		s.Require().Len(out, 1)
		s.Equal("ambiguous match", out[0].Reason)
		s.Equal(domain.RowID("row-1"), out[0].Row.ID)
	})

	s.Run("unknown bay is an empty listing", func() {
		var out []failure.Record
		s.Equal(http.StatusOK, s.get("/bays/no_such_bay", &out))
		s.Empty(out)
	})
}

func (s *OpsSuite) TestUnconfiguredStore() {
	handler := httpserver.NewOpsHandler(nil, nil)
	server := httptest.NewServer(handler.Router())
	defer server.Close()

	resp, err := http.Get(server.URL + "/bays")
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusServiceUnavailable, resp.StatusCode)
}
