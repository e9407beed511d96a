package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cosmossdk.io/log"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/subgame-network/subgame/api"
	"github.com/subgame-network/subgame/app"
	keepertest "github.com/subgame-network/subgame/testutil/keeper"
	dextypes "github.com/subgame-network/subgame/x/dex/types"
)

var testSecret = []byte("test-operator-secret")

type APITestSuite struct {
	suite.Suite

	app    *app.App
	server *api.Server
}

func TestAPITestSuite(t *testing.T) {
	suite.Run(t, new(APITestSuite))
}

func (s *APITestSuite) SetupTest() {
	s.app = keepertest.SetupTestApp(s.T())
	s.Require().Equal(dextypes.PoolID(1), keepertest.CreateTestPool(s.T(), s.app, 7, "1000000", "110000000000"))

	apiCfg := api.DefaultConfig()
	apiCfg.AuthSecret = testSecret
	apiCfg.RateLimitRPS = 0
	var err error
	s.server, err = api.NewServer(s.app, apiCfg, log.NewNopLogger())
	s.Require().NoError(err)
}

func (s *APITestSuite) do(method, path string, body []byte, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	s.server.Handler().ServeHTTP(w, req)
	return w
}

func (s *APITestSuite) decode(w *httptest.ResponseRecorder, v interface{}) {
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func (s *APITestSuite) TestStatus() {
	w := s.do(http.MethodGet, "/api/status", nil, nil)
	s.Require().Equal(http.StatusOK, w.Code)

	var resp api.StatusResponse
	s.decode(w, &resp)
	s.Require().Equal(int64(1), resp.Height)
	s.Require().Equal(api.Version, resp.Version)
}

func (s *APITestSuite) TestHealth() {
	w := s.do(http.MethodGet, "/health", nil, nil)
	s.Require().Equal(http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/health/detailed", nil, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Require().Contains(w.Body.String(), "invariants")
}

func (s *APITestSuite) TestGetPools() {
	w := s.do(http.MethodGet, "/api/pools", nil, nil)
	s.Require().Equal(http.StatusOK, w.Code)

	var resp struct {
		Pools []map[string]interface{} `json:"pools"`
		Count int                      `json:"count"`
	}
	s.decode(w, &resp)
	s.Require().Equal(1, resp.Count)
	s.Require().Equal("3316624", resp.Pools[0]["lp_supply"])
	s.Require().Equal("1000000", resp.Pools[0]["reserve_x"])
}

func (s *APITestSuite) TestGetPool() {
	w := s.do(http.MethodGet, "/api/pools/1", nil, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Require().Contains(w.Body.String(), `"reserve_y":"110000000000"`)

	w = s.do(http.MethodGet, "/api/pools/9", nil, nil)
	s.Require().Equal(http.StatusNotFound, w.Code)

	w = s.do(http.MethodGet, "/api/pools/abc", nil, nil)
	s.Require().Equal(http.StatusBadRequest, w.Code)
}

func (s *APITestSuite) TestGetPoolByPair() {
	for _, path := range []string{"/api/pools/pair/7/0", "/api/pools/pair/0/7"} {
		w := s.do(http.MethodGet, path, nil, nil)
		s.Require().Equal(http.StatusOK, w.Code, path)
		s.Require().Contains(w.Body.String(), `"id":1`)
	}

	w := s.do(http.MethodGet, "/api/pools/pair/7/8", nil, nil)
	s.Require().Equal(http.StatusNotFound, w.Code)
}

func (s *APITestSuite) TestQuoteSwap() {
	w := s.do(http.MethodGet, "/api/swap/quote?pool_id=1&input_asset=7&output_asset=0&amount=1000000", nil, nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var res map[string]interface{}
	s.decode(w, &res)
	s.Require().Equal("54917376064", res["output_amount"])

	w = s.do(http.MethodGet, "/api/swap/quote?pool_id=1&input_asset=7&output_asset=0&amount=1000000&expected=55000000000&slippage=0", nil, nil)
	s.Require().Equal(http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/api/swap/quote?pool_id=1&input_asset=7&output_asset=0&amount=1000000&expected=60000000000&slippage=1", nil, nil)
	s.Require().Equal(http.StatusUnprocessableEntity, w.Code)
	s.Require().Contains(w.Body.String(), "slippage")

	w = s.do(http.MethodGet, "/api/swap/quote?pool_id=1&amount=lots", nil, nil)
	s.Require().Equal(http.StatusBadRequest, w.Code)
}

func (s *APITestSuite) TestGetBalance() {
	w := s.do(http.MethodGet, "/api/assets/7/balances/bob", nil, nil)
	s.Require().Equal(http.StatusOK, w.Code)

	var resp api.BalanceResponse
	s.decode(w, &resp)
	s.Require().Equal("100000000", resp.Balance)
	s.Require().Equal(uint32(7), resp.Asset)

	w = s.do(http.MethodGet, "/api/assets/0/balances/bob", nil, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Require().Contains(w.Body.String(), `"balance":"0"`)

	w = s.do(http.MethodGet, "/api/assets/42/balances/bob", nil, nil)
	s.Require().Equal(http.StatusNotFound, w.Code)
}

func (s *APITestSuite) TestSubmitBlockRequiresToken() {
	body, err := json.Marshal(api.SubmitBlockRequest{Operations: []app.Operation{
		{Kind: app.OpSwap, Sender: "bob", PoolID: 1, Asset: 7, OutputAsset: 0, Amount: "1000000", ExpectedOutput: "1"},
	}})
	s.Require().NoError(err)

	w := s.do(http.MethodPost, "/api/blocks", body, nil)
	s.Require().Equal(http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/api/blocks", body, http.Header{"Authorization": {"Bearer not-a-token"}})
	s.Require().Equal(http.StatusUnauthorized, w.Code)

	other, err := api.NewAuthService([]byte("other-secret")).GenerateToken("mallory", time.Minute)
	s.Require().NoError(err)
	w = s.do(http.MethodPost, "/api/blocks", body, http.Header{"Authorization": {"Bearer " + other}})
	s.Require().Equal(http.StatusUnauthorized, w.Code)
	s.Require().Equal(int64(1), s.app.Height())
}

func (s *APITestSuite) TestSubmitBlock() {
	token, err := api.NewAuthService(testSecret).GenerateToken("operator", time.Minute)
	s.Require().NoError(err)
	auth := http.Header{"Authorization": {"Bearer " + token}, "Content-Type": {"application/json"}}

	body, err := json.Marshal(api.SubmitBlockRequest{Operations: []app.Operation{
		{Kind: app.OpSwap, Sender: "bob", PoolID: 1, Asset: 7, OutputAsset: 0, Amount: "1000000", ExpectedOutput: "1"},
		{Kind: app.OpSwap, Sender: "carol", PoolID: 1, Asset: 7, OutputAsset: 0, Amount: "1000000", ExpectedOutput: "1"},
	}})
	s.Require().NoError(err)

	w := s.do(http.MethodPost, "/api/blocks", body, auth)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var res app.BlockResult
	s.decode(w, &res)
	s.Require().Equal(int64(2), res.Height)
	s.Require().Len(res.Operations, 2)
	s.Require().Equal("54917376064", res.Operations[0].Output)
	s.Require().NotEmpty(res.Operations[1].Error)
	s.Require().Equal(1, res.Failed())

	w = s.do(http.MethodPost, "/api/blocks", []byte(`{"operations":[]}`), auth)
	s.Require().Equal(http.StatusBadRequest, w.Code)
	s.Require().Equal(int64(2), s.app.Height())
}

func (s *APITestSuite) TestRequestID() {
	w := s.do(http.MethodGet, "/api/status", nil, nil)
	s.Require().NotEmpty(w.Header().Get("X-Request-ID"))

	w = s.do(http.MethodGet, "/api/status", nil, http.Header{"X-Request-Id": {"abc-123"}})
	s.Require().Equal("abc-123", w.Header().Get("X-Request-ID"))
	s.Require().Equal("nosniff", w.Header().Get("X-Content-Type-Options"))
}

func (s *APITestSuite) TestCORS() {
	w := s.do(http.MethodGet, "/api/status", nil, http.Header{"Origin": {"https://example.org"}})
	s.Require().Equal(http.StatusOK, w.Code)
	s.Require().Equal("*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimit(t *testing.T) {
	host := keepertest.SetupTestApp(t)

	apiCfg := api.DefaultConfig()
	apiCfg.RateLimitRPS = 0.001
	apiCfg.RateLimitBurst = 2
	server, err := api.NewServer(host, apiCfg, log.NewNopLogger())
	require.NoError(t, err)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		server.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/status", nil))
		codes = append(codes, w.Code)
	}
	require.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

}

func TestBlocksDisabledWithoutSecret(t *testing.T) {
	host := keepertest.SetupTestApp(t)

	server, err := api.NewServer(host, api.DefaultConfig(), log.NewNopLogger())
	require.NoError(t, err)

	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/blocks", nil))
	require.Equal(t, http.StatusNotFound, w.Code)
}
