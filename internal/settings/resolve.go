package settings

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/v2"
)

// Resolve merges global and project into an Effective snapshot.
//
// Every recognized key starts from its global value. A project value
// replaces it, unless the project also sets merge_global_<key>, in which case
// the global list is followed by the project list (duplicates kept).
// Unrecognized project keys are logged and ignored.
func Resolve(global, project Document, logger *slog.Logger) (*Effective, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	merged := make(map[string]any, len(Keys))
	for _, key := range Keys {
		if v, ok := global[key]; ok && v != nil {
			merged[key] = v
		}
	}

	var ignored []string
	for _, key := range orderedKeys(project) {
		value := project[key]
		if !IsKey(key) {
			logger.Warn("invalid key in project settings", "key", key)
			ignored = append(ignored, key)
			continue
		}
		if truthy(project[MergePrefix+key]) {
			list, err := concat(global[key], value)
			if err != nil {
				return nil, &DecodeError{Key: key, Err: err}
			}
			merged[key] = list
			continue
		}
		merged[key] = value
	}

	timeout := statusTimeout(merged[KeyStatusTimeout])
	delete(merged, KeyStatusTimeout)

	k := koanf.New(".")
	if err := k.Load(confmap.Provider(merged, "."), nil); err != nil {
		return nil, &DecodeError{Err: err}
	}
	var eff Effective
	if err := k.UnmarshalWithConf("", &eff, koanf.UnmarshalConf{
		Tag:           "koanf",
		DecoderConfig: decoderConfig(&eff),
	}); err != nil {
		return nil, &DecodeError{Err: err}
	}
	eff.StatusTimeout = timeout
	eff.Ignored = ignored

	logger.Debug("settings resolved",
		"paths", len(eff.Paths),
		"replace_if_exists", eff.ReplaceIfExists,
		"status_timeout", eff.StatusTimeout,
		"ignored", len(ignored))

	return &eff, nil
}

// decoderConfig accepts a single string where a list is expected
// ("name_excludes: notes.sql") and a comma-separated string from the
// environment.
func decoderConfig(out *Effective) *mapstructure.DecoderConfig {
	return &mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToSliceHookFunc(","),
			mapstructure.TextUnmarshallerHookFunc(),
		),
		WeaklyTypedInput: true,
		Result:           out,
	}
}

// orderedKeys returns the document's keys with recognized keys first in
// their documented order, then the rest sorted, so logs are stable.
func orderedKeys(doc Document) []string {
	keys := make([]string, 0, len(doc))
	for _, k := range Keys {
		if _, ok := doc[k]; ok {
			keys = append(keys, k)
		}
	}
	var extra []string
	for k := range doc {
		if !IsKey(k) {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	return append(keys, extra...)
}

func concat(global, project any) ([]any, error) {
	g, err := asList(global)
	if err != nil {
		return nil, fmt.Errorf("global value: %w", err)
	}
	p, err := asList(project)
	if err != nil {
		return nil, fmt.Errorf("project value: %w", err)
	}
	out := make([]any, 0, len(g)+len(p))
	out = append(out, g...)
	return append(out, p...), nil
}

func asList(v any) ([]any, error) {
	switch l := v.(type) {
	case nil:
		return nil, nil
	case string:
		if l == "" {
			return nil, nil
		}
		parts := strings.Split(l, ",")
		out := make([]any, len(parts))
		for i, p := range parts {
			out[i] = p
		}
		return out, nil
	case []any:
		return l, nil
	case []string:
		out := make([]any, len(l))
		for i, s := range l {
			out[i] = s
		}
		return out, nil
	case []map[string]any:
		out := make([]any, len(l))
		for i, m := range l {
			out[i] = m
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected a list, got %T", v)
	}
}

func truthy(v any) bool {
	b, ok := v.(bool)
	return ok && b
}

// maxTimeoutSeconds is the largest number of seconds a time.Duration holds.
const maxTimeoutSeconds = math.MaxInt64 / int64(time.Second)

// statusTimeout reads status_timeout in whole seconds.
func statusTimeout(v any) time.Duration {
	var secs int64
	switch n := v.(type) {
	case int:
		secs = int64(n)
	case int64:
		secs = n
	case float64:
		if n != math.Trunc(n) || n > float64(maxTimeoutSeconds) {
			return DefaultStatusTimeout
		}
		secs = int64(n)
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		if err != nil {
			return DefaultStatusTimeout
		}
		secs = parsed
	default:
		return DefaultStatusTimeout
	}
	if secs <= 0 || secs > maxTimeoutSeconds {
		return DefaultStatusTimeout
	}
	return time.Duration(secs) * time.Second
}
