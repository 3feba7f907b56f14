package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"trajectory-assessment-api/pkg/scoring"

	"gopkg.in/yaml.v3"
)

// placeholderMarkers は未差し替えのプロンプトを示す文字列
var placeholderMarkers = []string{"TBD", "<<<VERBATIM"}

// ReflectiveQuestionCount は自由記述質問の必要数
const ReflectiveQuestionCount = 2

// ErrMissingQuestions は scored セクションが空の場合に返されます。
var ErrMissingQuestions = errors.New("missing_questions")

// ErrPlaceholderQuestions はプレースホルダが残っている場合に返されます。
var ErrPlaceholderQuestions = errors.New("placeholder_questions")

// ScoredQuestion は1〜5で回答される採点対象の質問
type ScoredQuestion struct {
	ID     string `yaml:"id" json:"id"`
	Domain string `yaml:"domain" json:"domain"`
	Prompt string `yaml:"prompt" json:"prompt"`
}

// ReflectiveQuestion は自由記述の質問（採点対象外）
type ReflectiveQuestion struct {
	ID     string `yaml:"id" json:"id"`
	Prompt string `yaml:"prompt" json:"prompt"`
}

// QuestionCatalog はquestions.yamlの構造を定義
type QuestionCatalog struct {
	Scored     []ScoredQuestion     `yaml:"scored" json:"scored"`
	Reflective []ReflectiveQuestion `yaml:"reflective" json:"reflective"`
}

// CatalogSummary は検証済みカタログの件数
type CatalogSummary struct {
	Scored     int `json:"scored"`
	Reflective int `json:"reflective"`
}

// LoadQuestionCatalog はYAMLファイルから質問カタログを読み込む
func LoadQuestionCatalog(path string) (*QuestionCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("質問ファイルの読み込みに失敗: %w", err)
	}
	return ParseQuestionCatalog(data)
}

// ParseQuestionCatalog はYAMLバイト列から質問カタログを生成する
func ParseQuestionCatalog(data []byte) (*QuestionCatalog, error) {
	var catalog QuestionCatalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("YAMLのパースに失敗: %w", err)
	}
	return &catalog, nil
}

// Validate はカタログが採点ロジックと整合しているかを検証する。
// 採点に使うマッピングはコンパイル済みのものが正であり、カタログはそれに従う必要がある。
func (c *QuestionCatalog) Validate() error {
	if len(c.Scored) == 0 {
		return ErrMissingQuestions
	}

	for _, q := range c.Scored {
		if hasPlaceholder(q.Prompt) {
			return fmt.Errorf("%w: %s", ErrPlaceholderQuestions, q.ID)
		}
	}
	for _, q := range c.Reflective {
		if hasPlaceholder(q.Prompt) {
			return fmt.Errorf("%w: %s", ErrPlaceholderQuestions, q.ID)
		}
	}

	var problems []string
	seen := make(map[string]bool, len(c.Scored))
	for i, q := range c.Scored {
		if strings.TrimSpace(q.ID) == "" {
			problems = append(problems, fmt.Sprintf("scored[%d]: missing id", i))
			continue
		}
		if strings.TrimSpace(q.Prompt) == "" {
			problems = append(problems, fmt.Sprintf("%s: missing prompt", q.ID))
		}
		if seen[q.ID] {
			problems = append(problems, fmt.Sprintf("%s: duplicate id", q.ID))
			continue
		}
		seen[q.ID] = true

		domain, err := scoring.ParseDomain(q.Domain)
		if err != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", q.ID, err))
			continue
		}
		expected, ok := scoring.QuestionDomain(q.ID)
		if !ok {
			problems = append(problems, fmt.Sprintf("%s: not a scored question id", q.ID))
			continue
		}
		if expected != domain {
			problems = append(problems, fmt.Sprintf("%s: tagged %s, scored as %s", q.ID, domain, expected))
		}
	}
	for _, id := range scoring.QuestionIDs() {
		if !seen[id] {
			problems = append(problems, fmt.Sprintf("%s: missing", id))
		}
	}

	if len(c.Reflective) != ReflectiveQuestionCount {
		problems = append(problems, fmt.Sprintf("expected %d reflective questions, found %d", ReflectiveQuestionCount, len(c.Reflective)))
	}
	reflectiveSeen := make(map[string]bool, len(c.Reflective))
	for i, q := range c.Reflective {
		switch {
		case strings.TrimSpace(q.ID) == "":
			problems = append(problems, fmt.Sprintf("reflective[%d]: missing id", i))
		case reflectiveSeen[q.ID] || seen[q.ID]:
			problems = append(problems, fmt.Sprintf("%s: duplicate id", q.ID))
		default:
			reflectiveSeen[q.ID] = true
			if strings.TrimSpace(q.Prompt) == "" {
				problems = append(problems, fmt.Sprintf("%s: missing prompt", q.ID))
			}
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("question catalog is inconsistent: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Summary は質問数を返す
func (c *QuestionCatalog) Summary() CatalogSummary {
	return CatalogSummary{Scored: len(c.Scored), Reflective: len(c.Reflective)}
}

// ReflectiveIDs は自由記述質問のIDセットを返す
func (c *QuestionCatalog) ReflectiveIDs() map[string]bool {
	ids := make(map[string]bool, len(c.Reflective))
	for _, q := range c.Reflective {
		ids[q.ID] = true
	}
	return ids
}

func hasPlaceholder(prompt string) bool {
	for _, marker := range placeholderMarkers {
		if strings.Contains(prompt, marker) {
			return true
		}
	}
	return false
}
