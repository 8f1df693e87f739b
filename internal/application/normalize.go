package application

import (
	"encoding/json"
	"fmt"
	"iter"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/bnema/indexdiff/internal/domain"
)

type sortEntry struct {
	record    domain.Record
	keys      []keyValue
	canonical string
}

type keyValue struct {
	value   any
	present bool
	// encoded holds the JSON form of composite values.
	encoded string
}

// Normalize drains records completely, strips the volatile identifier and
// sorts by the fixed key tuple so independent dumps of the same content
// encode identically. Any stream error discards everything read so far.
func Normalize(records iter.Seq2[domain.Record, error]) ([]domain.Record, error) {
	var entries []sortEntry
	for record, err := range records {
		if err != nil {
			return nil, err
		}

		stripped := record.WithoutVolatileID()
		keys, err := sortKeys(stripped)
		if err != nil {
			return nil, err
		}
		canonical, err := json.Marshal(stripped)
		if err != nil {
			return nil, fmt.Errorf("encode record: %w", err)
		}

		entries = append(entries, sortEntry{
			record:    stripped,
			keys:      keys,
			canonical: string(canonical),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return compareEntries(entries[i], entries[j]) < 0
	})

	normalized := make([]domain.Record, 0, len(entries))
	for _, entry := range entries {
		normalized = append(normalized, entry.record)
	}

	return normalized, nil
}

func sortKeys(record domain.Record) ([]keyValue, error) {
	keys := make([]keyValue, 0, len(domain.SortKeyPaths))
	for _, keyPath := range domain.SortKeyPaths {
		value, ok := record.Lookup(keyPath...)
		key := keyValue{value: value, present: ok}
		if ok && typeRank(value) == rankComposite {
			encoded, err := json.Marshal(value)
			if err != nil {
				return nil, fmt.Errorf("encode sort key %s: %w", strings.Join(keyPath, "."), err)
			}
			key.encoded = string(encoded)
		}
		keys = append(keys, key)
	}

	return keys, nil
}

func compareEntries(a, b sortEntry) int {
	for i := range a.keys {
		if c := compareKeyValues(a.keys[i], b.keys[i]); c != 0 {
			return c
		}
	}

	switch {
	case a.canonical < b.canonical:
		return -1
	case a.canonical > b.canonical:
		return 1
	default:
		return 0
	}
}

// compareKeyValues orders missing before present, then booleans, numbers,
// strings and finally composite values by their JSON encoding.
func compareKeyValues(a, b keyValue) int {
	if !a.present || !b.present {
		return compareBool(a.present, b.present)
	}

	rankA, rankB := typeRank(a.value), typeRank(b.value)
	if rankA != rankB {
		return compareInt(rankA, rankB)
	}

	switch rankA {
	case rankBool:
		return compareBool(a.value.(bool), b.value.(bool))
	case rankNumber:
		return compareFloat(toFloat(a.value), toFloat(b.value))
	case rankString:
		return compareString(a.value.(string), b.value.(string))
	default:
		return compareString(a.encoded, b.encoded)
	}
}

const (
	rankBool = iota
	rankNumber
	rankString
	rankComposite
)

func typeRank(value any) int {
	switch value.(type) {
	case bool:
		return rankBool
	case float64, float32, int, int32, int64, uint, uint32, uint64, json.Number:
		return rankNumber
	case string:
		return rankString
	default:
		return rankComposite
	}
}

func toFloat(value any) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case uint:
		return float64(v)
	case uint32:
		return float64(v)
	case uint64:
		return float64(v)
	case json.Number:
		f, err := strconv.ParseFloat(string(v), 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

func compareFloat(a, b float64) int {
	switch {
	case math.IsNaN(a) && math.IsNaN(b):
		return 0
	case math.IsNaN(a):
		return -1
	case math.IsNaN(b):
		return 1
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareString(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
