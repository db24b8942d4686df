package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordHTTPRequest(t *testing.T) {
	HTTPRequestsTotal.Reset()
	HTTPRequestDuration.Reset()

	RecordHTTPRequest("GET", "/api/v1/videos", "200", 0.123)

	counter := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/videos", "200"))
	if counter != 1.0 {
		t.Errorf("Expected counter to be 1.0, got %f", counter)
	}
}

func TestRecordProbe(t *testing.T) {
	ProbesTotal.Reset()

	RecordProbe("success", 2)
	RecordProbe("success", 0)
	RecordProbe("error", 0)

	success := testutil.ToFloat64(ProbesTotal.WithLabelValues("success"))
	if success != 2.0 {
		t.Errorf("Expected success probe counter to be 2.0, got %f", success)
	}

	failed := testutil.ToFloat64(ProbesTotal.WithLabelValues("error"))
	if failed != 1.0 {
		t.Errorf("Expected error probe counter to be 1.0, got %f", failed)
	}
}

func TestRecordExtraction(t *testing.T) {
	ExtractionsTotal.Reset()

	RecordExtraction("srt", "success")
	RecordExtraction("srt", "success")
	RecordExtraction("vtt", "error")

	srt := testutil.ToFloat64(ExtractionsTotal.WithLabelValues("srt", "success"))
	if srt != 2.0 {
		t.Errorf("Expected srt extraction counter to be 2.0, got %f", srt)
	}

	vtt := testutil.ToFloat64(ExtractionsTotal.WithLabelValues("vtt", "error"))
	if vtt != 1.0 {
		t.Errorf("Expected vtt extraction counter to be 1.0, got %f", vtt)
	}
}

func TestRecordJobCreated(t *testing.T) {
	ExportJobsCreated.Reset()

	RecordJobCreated("high")
	RecordJobCreated("normal")
	RecordJobCreated("high")

	high := testutil.ToFloat64(ExportJobsCreated.WithLabelValues("high"))
	if high != 2.0 {
		t.Errorf("Expected high priority counter to be 2.0, got %f", high)
	}

	normal := testutil.ToFloat64(ExportJobsCreated.WithLabelValues("normal"))
	if normal != 1.0 {
		t.Errorf("Expected normal priority counter to be 1.0, got %f", normal)
	}
}

func TestOperationsApplied(t *testing.T) {
	OperationsApplied.Reset()

	OperationsApplied.WithLabelValues("add").Inc()
	OperationsApplied.WithLabelValues("remove").Inc()
	OperationsApplied.WithLabelValues("add").Inc()

	adds := testutil.ToFloat64(OperationsApplied.WithLabelValues("add"))
	if adds != 2.0 {
		t.Errorf("Expected add operation counter to be 2.0, got %f", adds)
	}
}

func TestRecordStorageOperation(t *testing.T) {
	StorageOperationsTotal.Reset()
	StorageBytesTransferred.Reset()

	RecordStorageOperation("upload", "success", 1.234, 1048576)

	counter := testutil.ToFloat64(StorageOperationsTotal.WithLabelValues("upload", "success"))
	if counter != 1.0 {
		t.Errorf("Expected storage operation counter to be 1.0, got %f", counter)
	}

	bytes := testutil.ToFloat64(StorageBytesTransferred.WithLabelValues("upload"))
	if bytes != 1048576.0 {
		t.Errorf("Expected bytes transferred to be 1048576.0, got %f", bytes)
	}
}

func TestRecordCacheAccess(t *testing.T) {
	CacheHitsTotal.Reset()
	CacheMissesTotal.Reset()

	RecordCacheAccess("tracks", true)
	RecordCacheAccess("tracks", true)
	RecordCacheAccess("tracks", false)

	hits := testutil.ToFloat64(CacheHitsTotal.WithLabelValues("tracks"))
	if hits != 2.0 {
		t.Errorf("Expected cache hits to be 2.0, got %f", hits)
	}

	misses := testutil.ToFloat64(CacheMissesTotal.WithLabelValues("tracks"))
	if misses != 1.0 {
		t.Errorf("Expected cache misses to be 1.0, got %f", misses)
	}
}

func TestRecordWebhookDelivery(t *testing.T) {
	WebhookDeliveriesTotal.Reset()

	RecordWebhookDelivery("export.completed", "success")
	RecordWebhookDelivery("export.failed", "error")

	success := testutil.ToFloat64(WebhookDeliveriesTotal.WithLabelValues("export.completed", "success"))
	if success != 1.0 {
		t.Errorf("Expected delivery counter to be 1.0, got %f", success)
	}
}

func TestRecordError(t *testing.T) {
	ErrorsTotal.Reset()

	RecordError("api", "validation")
	RecordError("worker", "ffmpeg")
	RecordError("api", "validation")

	apiErrors := testutil.ToFloat64(ErrorsTotal.WithLabelValues("api", "validation"))
	if apiErrors != 2.0 {
		t.Errorf("Expected API validation errors to be 2.0, got %f", apiErrors)
	}

	workerErrors := testutil.ToFloat64(ErrorsTotal.WithLabelValues("worker", "ffmpeg"))
	if workerErrors != 1.0 {
		t.Errorf("Expected worker FFmpeg errors to be 1.0, got %f", workerErrors)
	}
}

func BenchmarkRecordHTTPRequest(b *testing.B) {
	for i := 0; i < b.N; i++ {
		RecordHTTPRequest("GET", "/api/v1/videos", "200", 0.123)
	}
}
