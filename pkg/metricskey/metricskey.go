package metricskey

import "github.com/effective-security/metrics"

// Stats
var (
	// StatsHCMRequestsSucceeded is base for counter metric for HCM API requests succeeded
	StatsHCMRequestsSucceeded = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_hcm_requests_succeeded",
		Help:         "stats_hcm_requests_succeeded provides total HCM API requests succeeded",
		RequiredTags: []string{"method", "resource"},
	}

	StatsHCMRequestsFailed = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_hcm_requests_failed",
		Help:         "stats_hcm_requests_failed provides total HCM API requests failed",
		RequiredTags: []string{"method", "resource"},
	}

	StatsToolCallsSucceeded = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_tool_calls_succeeded",
		Help:         "stats_tool_calls_succeeded provides total tool calls succeeded",
		RequiredTags: []string{"tool"},
	}

	StatsToolCallsFailed = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_tool_calls_failed",
		Help:         "stats_tool_calls_failed provides total tool calls failed",
		RequiredTags: []string{"tool"},
	}

	StatsToolCallsNotFound = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_tool_calls_not_found",
		Help:         "stats_tool_calls_not_found provides total tool calls not found",
		RequiredTags: []string{"tool"},
	}
)

// Perf
var (
	PerfHCMRequest = metrics.Describe{
		Type:         metrics.TypeSample,
		Name:         "perf_hcm_request",
		Help:         "perf_hcm_request provides duration of HCM API request",
		RequiredTags: []string{"method", "resource"},
	}

	PerfToolCall = metrics.Describe{
		Type:         metrics.TypeSample,
		Name:         "perf_tool_call",
		Help:         "perf_tool_call provides duration of tool call",
		RequiredTags: []string{"tool"},
	}
)

// Metrics returns slice of metrics from this repo
// keep sorted by name
var Metrics = []*metrics.Describe{
	&PerfHCMRequest,
	&PerfToolCall,
	&StatsHCMRequestsFailed,
	&StatsHCMRequestsSucceeded,
	&StatsToolCallsFailed,
	&StatsToolCallsNotFound,
	&StatsToolCallsSucceeded,
}
