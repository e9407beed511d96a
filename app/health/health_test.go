package health

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"cosmossdk.io/log"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type fakeSource struct {
	height     int64
	pools      int
	poolErr    error
	invariant  error
	poolsCalls atomic.Int32
}

func (f *fakeSource) Height() int64 { return f.height }

func (f *fakeSource) PoolCount() (int, error) {
	f.poolsCalls.Add(1)
	return f.pools, f.poolErr
}

func (f *fakeSource) AssertInvariants() error { return f.invariant }

type HealthCheckTestSuite struct {
	suite.Suite
	source  *fakeSource
	checker *Checker
	router  *mux.Router
}

func TestHealthCheckTestSuite(t *testing.T) {
	suite.Run(t, new(HealthCheckTestSuite))
}

func (suite *HealthCheckTestSuite) SetupTest() {
	suite.source = &fakeSource{height: 12, pools: 3}
	cfg := DefaultConfig()
	cfg.Version = "test"
	checker, err := NewChecker(log.NewNopLogger(), cfg, suite.source)
	suite.Require().NoError(err)
	suite.checker = checker
	suite.router = mux.NewRouter()
	checker.RegisterRoutes(suite.router)
}

func (suite *HealthCheckTestSuite) get(path string) (*httptest.ResponseRecorder, HealthCheck) {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	suite.router.ServeHTTP(rec, req)

	var body HealthCheck
	suite.Require().Equal("application/json", rec.Header().Get("Content-Type"))
	suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func (suite *HealthCheckTestSuite) TestLiveness() {
	suite.source.poolErr = errors.New("store closed")
	rec, _ := suite.get("/health")
	suite.Require().Equal(http.StatusOK, rec.Code)
	suite.Require().Contains(rec.Body.String(), `"ok"`)
}

func (suite *HealthCheckTestSuite) TestReady() {
	rec, body := suite.get("/health/ready")
	suite.Require().Equal(http.StatusOK, rec.Code)
	suite.Require().Equal(StatusHealthy, body.Status)
	suite.Require().Equal("test", body.Version)
	suite.Require().Contains(body.Components, "store")
	suite.Require().Contains(body.Components, "pools")
	suite.Require().NotContains(body.Components, "invariants")
	suite.Require().EqualValues(3, body.Components["pools"].Metrics["pool_count"])
}

func (suite *HealthCheckTestSuite) TestReadyIsCached() {
	suite.get("/health/ready")
	suite.get("/health/ready")
	suite.Require().Equal(int32(1), suite.source.poolsCalls.Load())
}

func (suite *HealthCheckTestSuite) TestUninitialisedChainIsDegraded() {
	suite.source.height = 0
	rec, body := suite.get("/health/ready")
	suite.Require().Equal(http.StatusOK, rec.Code)
	suite.Require().Equal(StatusDegraded, body.Status)
}

func (suite *HealthCheckTestSuite) TestUnreadableRegistry() {
	suite.source.poolErr = errors.New("store closed")
	rec, body := suite.get("/health/ready")
	suite.Require().Equal(http.StatusServiceUnavailable, rec.Code)
	suite.Require().Equal(StatusUnhealthy, body.Status)
	suite.Require().Contains(body.Components["pools"].Message, "store closed")
}

func (suite *HealthCheckTestSuite) TestDetailedAssertsInvariants() {
	rec, body := suite.get("/health/detailed")
	suite.Require().Equal(http.StatusOK, rec.Code)
	suite.Require().Equal(StatusHealthy, body.Components["invariants"].Status)

	suite.source.invariant = errors.New("dex/pool-reserves: pool 1 empty")
	rec, body = suite.get("/health/detailed")
	suite.Require().Equal(http.StatusServiceUnavailable, rec.Code)
	suite.Require().Equal(StatusUnhealthy, body.Status)
	suite.Require().Contains(body.Components["invariants"].Message, "pool 1 empty")
}

func TestNewCheckerRequiresSource(t *testing.T) {
	_, err := NewChecker(log.NewNopLogger(), DefaultConfig(), nil)
	require.Error(t, err)
}

func TestCalculateOverallStatus(t *testing.T) {
	c := &Checker{}
	now := time.Now()
	tests := []struct {
		name       string
		components map[string]ComponentHealth
		want       Status
	}{
		{"empty", map[string]ComponentHealth{}, StatusHealthy},
		{"all healthy", map[string]ComponentHealth{
			"a": {Status: StatusHealthy, Timestamp: now},
			"b": {Status: StatusHealthy, Timestamp: now},
		}, StatusHealthy},
		{"one degraded", map[string]ComponentHealth{
			"a": {Status: StatusHealthy},
			"b": {Status: StatusDegraded},
		}, StatusDegraded},
		{"unhealthy wins", map[string]ComponentHealth{
			"a": {Status: StatusDegraded},
			"b": {Status: StatusUnhealthy},
		}, StatusUnhealthy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, c.calculateOverallStatus(tt.components))
		})
	}
}
