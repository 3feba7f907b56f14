package services

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// 回答値の許容範囲
const (
	MinAnswerValue = 1
	MaxAnswerValue = 5
)

// ValidationError は入力検証エラーです。Fields は質問ID→理由。
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// ValidateAnswers は生の回答値を検証し、整数の回答セットに変換します。
// 値は1〜5の整数である必要があります。未知の質問IDはそのまま通し、採点側で無視されます。
func ValidateAnswers(raw map[string]float64) (map[string]int, error) {
	if len(raw) == 0 {
		return nil, &ValidationError{Fields: map[string]string{"answers": "at least one answer is required"}}
	}

	answers := make(map[string]int, len(raw))
	fields := make(map[string]string)
	for qid, v := range raw {
		switch {
		case math.IsNaN(v) || math.IsInf(v, 0):
			fields[qid] = "must be a finite number"
		case v != math.Trunc(v):
			fields[qid] = "must be an integer"
		case v < MinAnswerValue || v > MaxAnswerValue:
			fields[qid] = fmt.Sprintf("must be between %d and %d", MinAnswerValue, MaxAnswerValue)
		default:
			answers[qid] = int(v)
		}
	}

	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}
	return answers, nil
}

// ValidateReflective は自由記述の回答IDが既知の質問かを検証します。
// known が空の場合（質問カタログ未読み込み）は検証しません。
func ValidateReflective(reflective map[string]string, known map[string]bool) error {
	if len(known) == 0 {
		return nil
	}
	fields := make(map[string]string)
	for id := range reflective {
		if !known[id] {
			fields[id] = "unknown reflective question"
		}
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// mergeValidationErrors は複数の検証エラーのフィールドを1つにまとめます。
func mergeValidationErrors(errs ...error) error {
	var merged *ValidationError
	for _, err := range errs {
		verr, ok := err.(*ValidationError)
		if !ok || verr == nil {
			continue
		}
		if merged == nil {
			merged = &ValidationError{Fields: make(map[string]string)}
		}
		for k, v := range verr.Fields {
			merged.Fields[k] = v
		}
	}
	if merged == nil {
		return nil
	}
	return merged
}
