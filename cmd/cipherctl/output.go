package main

import (
	"time"

	"github.com/tidwall/sjson"

	"github.com/RowanDark/cipherlab/internal/cipher"
)

// resultDocument renders an encrypt/decrypt result for --json.
func resultDocument(operation, input, output string, dur time.Duration) (string, error) {
	return setAll("{}", []kv{
		{"operation", operation},
		{"output", output},
		{"input_length", len(input)},
		{"output_length", len(output)},
		{"duration_us", dur.Microseconds()},
	})
}

// detectionDocument renders detector results for --json.
func detectionDocument(results []cipher.DetectionResult) (string, error) {
	doc := `{"results":[]}`
	for _, r := range results {
		pairs := []kv{
			{"family", r.Family},
			{"confidence", r.Confidence},
			{"reasoning", r.Reasoning},
			{"operation", r.Operation},
		}
		if r.Period > 0 {
			pairs = append(pairs, kv{"period", r.Period})
		}
		item, err := setAll("{}", pairs)
		if err != nil {
			return "", err
		}
		if doc, err = sjson.SetRaw(doc, "results.-1", item); err != nil {
			return "", err
		}
	}
	return doc, nil
}

type kv struct {
	path  string
	value interface{}
}

func setAll(doc string, pairs []kv) (string, error) {
	var err error
	for _, p := range pairs {
		doc, err = sjson.Set(doc, p.path, p.value)
		if err != nil {
			return "", err
		}
	}
	return doc, nil
}
