package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP 请求延迟（秒）
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	// 产物生成耗时（秒）
	GenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "artifact_generation_duration_seconds",
			Help:    "Time spent running the notes pipeline",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14), // 0.1ms to ~1.6s
		},
		[]string{"kind"}, // kind: artifacts, analyze, follow_up_email
	)

	// 产物生成计数
	GenerationCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "artifact_generation_count",
			Help: "Total number of artifact generation requests",
		},
		[]string{"kind", "status"}, // status: success, rejected, failed, cached
	)

	// 每次解析得到的 bullet / 行动项 / 问题数量
	PipelineItems = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pipeline_items",
			Help:    "Number of bullets, action items and issues per pipeline run",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100, 250},
		},
		[]string{"stage"}, // stage: bullets, action_items, issues
	)

	// 输入字符数
	InputChars = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pipeline_input_chars",
			Help:    "Merged input size in characters",
			Buckets: prometheus.ExponentialBuckets(64, 2, 11), // 64 to ~65k
		},
	)

	// 数据库查询延迟（秒）
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"operation", "table"},
	)

	// 慢查询计数
	SlowQueryCount = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "db_slow_query_count",
			Help: "Total number of queries slower than the configured threshold",
		},
	)

	// 事件发布计数
	EventPublishCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "event_publish_count",
			Help: "Total number of domain events published",
		},
		[]string{"routing_key", "status"}, // status: success, failed, skipped
	)

	// 产物缓存命中
	CacheLookupCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "artifact_cache_lookup_count",
			Help: "Artifact cache lookups by result",
		},
		[]string{"result"}, // result: hit, miss, error
	)

	// 工作区存储操作耗时（秒）
	StoreOpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "workspace_store_duration_seconds",
			Help:    "Workspace store load/save duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		},
		[]string{"driver", "op"},
	)
)

// RecordHTTPRequestDuration 记录 HTTP 请求延迟
func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// RecordGeneration 记录一次生成的耗时和结果
func RecordGeneration(kind, status string, duration time.Duration) {
	GenerationCount.WithLabelValues(kind, status).Inc()
	if status == "success" {
		GenerationDuration.WithLabelValues(kind).Observe(duration.Seconds())
	}
}

// RecordPipelineItems 记录解析结果规模
func RecordPipelineItems(bullets, actionItems, issues int) {
	PipelineItems.WithLabelValues("bullets").Observe(float64(bullets))
	PipelineItems.WithLabelValues("action_items").Observe(float64(actionItems))
	PipelineItems.WithLabelValues("issues").Observe(float64(issues))
}

// RecordInputChars 记录输入大小
func RecordInputChars(n int) {
	InputChars.Observe(float64(n))
}

// RecordDBQueryDuration 记录数据库查询延迟
func RecordDBQueryDuration(operation, table string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
}

// IncrementSlowQuery 增加慢查询计数
func IncrementSlowQuery() {
	SlowQueryCount.Inc()
}

// IncrementEventPublish 增加事件发布计数
func IncrementEventPublish(routingKey, status string) {
	EventPublishCount.WithLabelValues(routingKey, status).Inc()
}

// IncrementCacheLookup 记录缓存查询结果
func IncrementCacheLookup(result string) {
	CacheLookupCount.WithLabelValues(result).Inc()
}

// RecordStoreOp 记录工作区存储操作耗时
func RecordStoreOp(driver, op string, duration time.Duration) {
	StoreOpDuration.WithLabelValues(driver, op).Observe(duration.Seconds())
}
