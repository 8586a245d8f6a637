package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/emsqi/spc/internal/analytics/spc"
	"github.com/emsqi/spc/internal/cache"
	"github.com/emsqi/spc/internal/config"
	"github.com/emsqi/spc/internal/logging"
)

// SPCService validates chart requests and runs the SPC engine
type SPCService struct {
	logger   *logging.Logger
	spcCfg   config.SPCConfig
	cache    cache.Cache
	cacheCfg config.CacheConfig
}

// NewSPCService creates a new SPCService. resultCache may be nil to disable caching.
func NewSPCService(
	logger *logging.Logger,
	spcCfg config.SPCConfig,
	resultCache cache.Cache,
	cacheCfg config.CacheConfig,
) *SPCService {
	return &SPCService{
		logger:   logger,
		spcCfg:   spcCfg,
		cache:    resultCache,
		cacheCfg: cacheCfg,
	}
}

// SPCRequest represents a control chart request over ready-made points
type SPCRequest struct {
	MetricID      string
	DataType      string
	Points        []spc.DataPoint
	SigmaLevel    float64 // 0 uses the configured default
	BaselineStart string
	BaselineEnd   string
}

// EntriesRequest represents a control chart request over raw metric entries
type EntriesRequest struct {
	MetricID      string
	DataType      string
	DivisionID    string // empty charts all divisions together
	Entries       []MetricEntry
	SigmaLevel    float64
	BaselineStart string
	BaselineEnd   string
}

// Summary condenses a chart for status badges
type Summary struct {
	TotalPoints        int            `json:"total_points"`
	SpecialCauseCount  int            `json:"special_cause_count"`
	RuleCounts         map[string]int `json:"rule_counts"`
	LatestPeriod       string         `json:"latest_period,omitempty"`
	LatestSpecialCause bool           `json:"latest_special_cause"`
	MissingSubgroups   int            `json:"missing_subgroups"`
}

// SPCResponse represents the complete chart response
type SPCResponse struct {
	MetricID   string      `json:"metric_id,omitempty"`
	SigmaLevel float64     `json:"sigma_level"`
	Result     *spc.Result `json:"result"`
	Summary    Summary     `json:"summary"`
	Cached     bool        `json:"cached"`
}

// cachedChart is the cached part of a response
type cachedChart struct {
	Result  *spc.Result `json:"result"`
	Summary Summary     `json:"summary"`
}

// Execute validates req, then computes (or loads from cache) its control chart
func (s *SPCService) Execute(ctx context.Context, req *SPCRequest) (*SPCResponse, error) {
	startExec := time.Now()
	logger := s.loggerFor(ctx, req.MetricID)

	dataType, sigmaLevel, err := s.validate(req)
	if err != nil {
		return nil, err
	}

	opts := &spc.Options{
		SigmaLevel:    sigmaLevel,
		BaselineStart: req.BaselineStart,
		BaselineEnd:   req.BaselineEnd,
		Rules:         s.spcCfg.Rules(),
	}

	key := s.cacheKey(dataType, req.Points, opts)
	if chart, ok := s.lookup(ctx, logger, key); ok {
		logger.Debug("SPC chart served from cache", "chart_type", chart.Result.ChartType)
		return &SPCResponse{
			MetricID:   req.MetricID,
			SigmaLevel: sigmaLevel,
			Result:     chart.Result,
			Summary:    chart.Summary,
			Cached:     true,
		}, nil
	}

	result := spc.Calculate(dataType, req.Points, opts)
	summary := Summarize(result, req.Points)

	if summary.MissingSubgroups > 0 {
		logger.Warn("Points without subgroup size charted with zero-width limits",
			"chart_type", result.ChartType,
			"missing_subgroups", summary.MissingSubgroups)
	}

	s.store(ctx, logger, key, &cachedChart{Result: result, Summary: summary})

	logger.Info("SPC chart computed",
		"chart_type", result.ChartType,
		"points", len(result.Points),
		"sigma_level", sigmaLevel,
		"center_line", result.CenterLine,
		"special_causes", summary.SpecialCauseCount,
		"latency_ms", time.Since(startExec).Milliseconds())

	return &SPCResponse{
		MetricID:   req.MetricID,
		SigmaLevel: sigmaLevel,
		Result:     result,
		Summary:    summary,
	}, nil
}

// ExecuteEntries aggregates raw entries per period and charts them
func (s *SPCService) ExecuteEntries(ctx context.Context, req *EntriesRequest) (*SPCResponse, error) {
	dataType := spc.DataType(req.DataType)
	if !dataType.Valid() {
		return nil, invalidDataType(req.DataType)
	}

	points, err := AggregateEntries(req.Entries, dataType, req.DivisionID)
	if err != nil {
		return nil, err
	}

	s.loggerFor(ctx, req.MetricID).Debug("Metric entries aggregated",
		"division_id", req.DivisionID,
		"entries", len(req.Entries),
		"periods", len(points))

	return s.Execute(ctx, &SPCRequest{
		MetricID:      req.MetricID,
		DataType:      req.DataType,
		Points:        points,
		SigmaLevel:    req.SigmaLevel,
		BaselineStart: req.BaselineStart,
		BaselineEnd:   req.BaselineEnd,
	})
}

// validate checks the request and resolves the effective sigma level
func (s *SPCService) validate(req *SPCRequest) (spc.DataType, float64, error) {
	dataType := spc.DataType(req.DataType)
	if !dataType.Valid() {
		return "", 0, invalidDataType(req.DataType)
	}

	sigmaLevel := req.SigmaLevel
	if sigmaLevel == 0 {
		sigmaLevel = s.spcCfg.SigmaLevel
	}
	if sigmaLevel == 0 {
		sigmaLevel = spc.DefaultSigmaLevel
	}
	if sigmaLevel <= 0 || !finite(sigmaLevel) {
		return "", 0, NewServiceErrorWithDetails(CodeInvalidSigmaLevel,
			"sigma level must be a positive number",
			map[string]interface{}{"sigma_level": fmt.Sprint(req.SigmaLevel)})
	}

	if req.BaselineStart != "" && req.BaselineEnd != "" && req.BaselineStart > req.BaselineEnd {
		return "", 0, NewServiceErrorWithDetails(CodeInvalidBaselineRange,
			"baseline start must not be after baseline end",
			map[string]interface{}{
				"baseline_start": req.BaselineStart,
				"baseline_end":   req.BaselineEnd,
			})
	}

	for i, p := range req.Points {
		if !finite(p.Value) ||
			(p.Numerator != nil && !finite(*p.Numerator)) ||
			(p.Denominator != nil && !finite(*p.Denominator)) {
			return "", 0, NewServiceErrorWithDetails(CodeInvalidPoint,
				fmt.Sprintf("point %d has a non-finite number", i),
				map[string]interface{}{"index": i, "period": p.Period})
		}
	}

	return dataType, sigmaLevel, nil
}

// loggerFor prefers the request's context logger over the service logger
func (s *SPCService) loggerFor(ctx context.Context, metricID string) *logging.Logger {
	if s.logger != nil && !logging.HasLogger(ctx) {
		ctx = logging.WithLogger(ctx, s.logger)
	}
	return logging.FromContext(logging.WithMetricID(ctx, metricID))
}

func invalidDataType(dataType string) *ServiceError {
	return NewServiceErrorWithDetails(CodeInvalidDataType,
		fmt.Sprintf("unknown data type: %q", dataType),
		map[string]interface{}{
			"available_data_types": []string{
				string(spc.DataTypeProportion),
				string(spc.DataTypeRate),
				string(spc.DataTypeContinuous),
			},
		})
}

// Summarize counts special causes per rule and reports the latest period
func Summarize(result *spc.Result, points []spc.DataPoint) Summary {
	summary := Summary{
		TotalPoints: len(result.Points),
		RuleCounts:  make(map[string]int),
	}

	for _, p := range result.Points {
		if p.SpecialCause {
			summary.SpecialCauseCount++
		}
		for _, rule := range p.SpecialCauseRules {
			summary.RuleCounts[rule]++
		}
	}

	if n := len(result.Points); n > 0 {
		summary.LatestPeriod = result.Points[n-1].Period
		summary.LatestSpecialCause = result.Points[n-1].SpecialCause
	}

	if result.ChartType != spc.ChartTypeIMR {
		for _, p := range points {
			if p.Numerator == nil || p.Denominator == nil || *p.Denominator <= 0 {
				summary.MissingSubgroups++
			}
		}
	}

	return summary
}

// cacheKey hashes everything the result depends on
func (s *SPCService) cacheKey(dataType spc.DataType, points []spc.DataPoint, opts *spc.Options) string {
	if s.cache == nil {
		return ""
	}

	ruleNames := make([]string, len(opts.Rules))
	for i, r := range opts.Rules {
		ruleNames[i] = r.Name()
	}

	// encoding these types cannot fail
	data, _ := json.Marshal(struct {
		DataType      spc.DataType    `json:"t"`
		SigmaLevel    float64         `json:"s"`
		BaselineStart string          `json:"bs"`
		BaselineEnd   string          `json:"be"`
		Rules         []string        `json:"r"`
		Points        []spc.DataPoint `json:"p"`
	}{dataType, opts.SigmaLevel, opts.BaselineStart, opts.BaselineEnd, ruleNames, points})

	sum := sha256.Sum256(data)
	prefix := s.cacheCfg.KeyPrefix
	if prefix == "" {
		prefix = "spc"
	}
	return prefix + ":" + hex.EncodeToString(sum[:])
}

// lookup returns the cached chart for key. Cache errors are logged and
// treated as misses.
func (s *SPCService) lookup(ctx context.Context, logger *logging.Logger, key string) (*cachedChart, bool) {
	if s.cache == nil {
		return nil, false
	}

	payload, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			logger.Warn("SPC cache lookup failed", "error", err)
		}
		return nil, false
	}

	var chart cachedChart
	if err := cache.Decode(payload, &chart); err != nil || chart.Result == nil {
		logger.Warn("Discarding unreadable SPC cache entry", "key", key, "error", err)
		return nil, false
	}
	if chart.Summary.RuleCounts == nil {
		chart.Summary.RuleCounts = make(map[string]int)
	}
	return &chart, true
}

// store writes chart to the cache. Failures are logged, never returned.
func (s *SPCService) store(ctx context.Context, logger *logging.Logger, key string, chart *cachedChart) {
	if s.cache == nil {
		return
	}

	payload, err := cache.Encode(chart)
	if err != nil {
		logger.Warn("Failed to encode SPC chart for cache", "error", err)
		return
	}
	if err := s.cache.Set(ctx, key, payload, s.cacheCfg.TTL); err != nil {
		logger.Warn("Failed to cache SPC chart", "error", err)
	}
}
