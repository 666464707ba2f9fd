package observability

import (
	"context"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/riskibarqy/scout-core/internal/platform/logging"
	otellog "go.opentelemetry.io/otel/log"
	otelglobal "go.opentelemetry.io/otel/log/global"
	"go.uber.org/zap/zapcore"
)

const (
	uptraceLogInstrumentation = "scout-core/internal/platform/logging"
	maxLogValueDepth          = 3
	requestLogEvent           = "http_request"
)

// Request logs for probe and scrape endpoints stay on stdout only.
var skippedRequestPaths = map[string]struct{}{
	"/healthz": {},
	"/metrics": {},
}

type logMirror struct {
	logger otellog.Logger
	now    func() time.Time
}

func newUptraceLogMirror(serviceVersion string) logging.MirrorFunc {
	m := &logMirror{
		logger: otelglobal.Logger(uptraceLogInstrumentation, otellog.WithInstrumentationVersion(serviceVersion)),
		now:    time.Now,
	}
	return m.emit
}

func (m *logMirror) emit(ctx context.Context, level logging.Level, msg string, args ...any) {
	if shouldSkipUptraceLog(msg, args) {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	severity := toOTelSeverity(level)
	if !m.logger.Enabled(ctx, otellog.EnabledParameters{Severity: severity, EventName: msg}) {
		return
	}

	at := m.now().UTC()
	var record otellog.Record
	record.SetTimestamp(at)
	record.SetObservedTimestamp(at)
	record.SetSeverity(severity)
	record.SetSeverityText(strings.ToUpper(level.String()))
	record.SetEventName(msg)
	record.SetBody(otellog.StringValue(msg))
	if attrs := buildOTelLogAttributes(args); len(attrs) > 0 {
		record.AddAttributes(attrs...)
	}
	m.logger.Emit(ctx, record)
}

func shouldSkipUptraceLog(msg string, args []any) bool {
	if msg != requestLogEvent {
		return false
	}
	path, ok := stringArg(args, "http_path")
	if !ok {
		return false
	}
	_, skip := skippedRequestPaths[path]
	return skip
}

// stringArg returns the first value logged under key when it is a string.
func stringArg(args []any, key string) (string, bool) {
	for i := 0; i+1 < len(args); i += 2 {
		if k, _ := args[i].(string); k == key {
			v, ok := args[i+1].(string)
			return v, ok
		}
	}
	return "", false
}

// buildOTelLogAttributes pairs key/value args. A trailing key without value
// becomes an empty attribute and a non-string key is named by its position.
func buildOTelLogAttributes(args []any) []otellog.KeyValue {
	if len(args) == 0 {
		return nil
	}

	attrs := make([]otellog.KeyValue, 0, (len(args)+1)/2)
	for i := 0; i < len(args); i += 2 {
		key, _ := args[i].(string)
		if strings.TrimSpace(key) == "" {
			key = fmt.Sprintf("arg_%d", i/2)
		}
		if i+1 == len(args) {
			attrs = append(attrs, otellog.Empty(key))
			break
		}
		attrs = append(attrs, otellog.KeyValue{Key: key, Value: toOTelLogValue(args[i+1], 0)})
	}
	return attrs
}

func toOTelSeverity(level zapcore.Level) otellog.Severity {
	switch {
	case level <= zapcore.DebugLevel:
		return otellog.SeverityDebug
	case level == zapcore.InfoLevel:
		return otellog.SeverityInfo
	case level == zapcore.WarnLevel:
		return otellog.SeverityWarn
	case level >= zapcore.DPanicLevel:
		return otellog.SeverityFatal
	default:
		return otellog.SeverityError
	}
}

func toOTelLogValue(value any, depth int) otellog.Value {
	if value == nil {
		return otellog.Value{}
	}
	if depth >= maxLogValueDepth {
		return otellog.StringValue(fmt.Sprint(value))
	}

	switch v := value.(type) {
	case []byte:
		return otellog.BytesValue(append([]byte(nil), v...))
	case time.Time:
		return otellog.StringValue(v.UTC().Format(time.RFC3339Nano))
	case time.Duration:
		return otellog.Int64Value(v.Milliseconds())
	case error:
		return otellog.StringValue(v.Error())
	case fmt.Stringer:
		return otellog.StringValue(v.String())
	}

	// Named scalar types (provider.Provider, player.PositionGroup, ...) are
	// handled by kind so they keep their native attribute type.
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.String:
		return otellog.StringValue(rv.String())
	case reflect.Bool:
		return otellog.BoolValue(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return otellog.Int64Value(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if u := rv.Uint(); u <= math.MaxInt64 {
			return otellog.Int64Value(int64(u))
		}
		return otellog.StringValue(fmt.Sprint(value))
	case reflect.Float32, reflect.Float64:
		return otellog.Float64Value(rv.Float())
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return otellog.Value{}
		}
		return toOTelLogValue(rv.Elem().Interface(), depth+1)
	case reflect.Slice, reflect.Array:
		items := make([]otellog.Value, rv.Len())
		for i := range items {
			items[i] = toOTelLogValue(rv.Index(i).Interface(), depth+1)
		}
		return otellog.SliceValue(items...)
	case reflect.Map:
		return mapLogValue(rv, depth)
	default:
		return otellog.StringValue(fmt.Sprintf("%+v", value))
	}
}

// mapLogValue renders string-keyed maps (stat and feature vectors) with
// sorted keys; other key kinds fall back to their printed form.
func mapLogValue(rv reflect.Value, depth int) otellog.Value {
	if rv.Type().Key().Kind() != reflect.String {
		return otellog.StringValue(fmt.Sprint(rv.Interface()))
	}

	keys := rv.MapKeys()
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	kvs := make([]otellog.KeyValue, 0, len(keys))
	for _, key := range keys {
		kvs = append(kvs, otellog.KeyValue{
			Key:   key.String(),
			Value: toOTelLogValue(rv.MapIndex(key).Interface(), depth+1),
		})
	}
	return otellog.MapValue(kvs...)
}
