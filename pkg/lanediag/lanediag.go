// Package lanediag はレーン診断（Sidewalk / Slowlane / Fastlane）の採点を行います。
// 4カテゴリの平均を重み付けして総合スコアを求め、レーン、信頼度、成長余地、
// 次のステップを決定します。scoring パッケージと同じく純粋関数のみです。
package lanediag

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

// Lane は診断結果のレーンです。
type Lane string

const (
	Sidewalk Lane = "sidewalk"
	Slowlane Lane = "slowlane"
	Fastlane Lane = "fastlane"
)

// Category はレーン診断の評価カテゴリです。
type Category string

const (
	FinancialMindset   Category = "financial_mindset"
	TimeFreedom        Category = "time_freedom"
	RiskOpportunity    Category = "risk_opportunity"
	SystemsScalability Category = "systems_scalability"
)

// GrowthPotential は成長余地の区分です。
type GrowthPotential string

const (
	GrowthLow    GrowthPotential = "low"
	GrowthMedium GrowthPotential = "medium"
	GrowthHigh   GrowthPotential = "high"
)

// レーン判定の上限（この値を含む）
const (
	SidewalkMax = 2.4
	SlowlaneMax = 3.4
)

// MaxNextSteps は返すステップの最大数
const MaxNextSteps = 5

// ErrUnknownLane は未知のレーン名に対して返されます。
var ErrUnknownLane = errors.New("unknown lane")

// categoryOrder は並び順であり、最低カテゴリ同点時の優先順位でもある。
var categoryOrder = [...]Category{FinancialMindset, TimeFreedom, RiskOpportunity, SystemsScalability}

var categoryWeights = map[Category]float64{
	FinancialMindset:   0.3,
	TimeFreedom:        0.25,
	RiskOpportunity:    0.25,
	SystemsScalability: 0.2,
}

var questionCategories = map[string]Category{
	"LD1": FinancialMindset, "LD2": FinancialMindset, "LD3": FinancialMindset,
	"LD4": FinancialMindset, "LD5": FinancialMindset,
	"LD6": TimeFreedom, "LD7": TimeFreedom, "LD8": TimeFreedom, "LD9": TimeFreedom,
	"LD10": RiskOpportunity, "LD11": RiskOpportunity, "LD12": RiskOpportunity, "LD13": RiskOpportunity,
	"LD14": SystemsScalability, "LD15": SystemsScalability, "LD16": SystemsScalability,
	"LD17": SystemsScalability, "LD18": SystemsScalability,
}

// CategoryScores はカテゴリごとの平均（小数第2位で丸め済み）
type CategoryScores map[Category]float64

// LaneDescription はレーンの説明文です。
type LaneDescription struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Characteristics []string `json:"characteristics"`
}

// Result はレーン診断の結果です。
type Result struct {
	Lane            Lane            `json:"lane"`
	Confidence      float64         `json:"confidence"`
	CategoryScores  CategoryScores  `json:"categoryScores"`
	Overall         float64         `json:"overall"`
	GrowthPotential GrowthPotential `json:"growthPotential"`
	NextSteps       []string        `json:"nextSteps"`
	LaneDescription LaneDescription `json:"laneDescription"`
}

// Categories は4カテゴリを固定順で返します。
func Categories() []Category {
	out := make([]Category, len(categoryOrder))
	copy(out, categoryOrder[:])
	return out
}

// QuestionCategory は質問IDが集計されるカテゴリを返します。
func QuestionCategory(questionID string) (Category, bool) {
	c, ok := questionCategories[questionID]
	return c, ok
}

// ParseLane は大文字小文字を区別せずにレーン名を解析します。
func ParseLane(s string) (Lane, error) {
	switch l := Lane(strings.ToLower(strings.TrimSpace(s))); l {
	case Sidewalk, Slowlane, Fastlane:
		return l, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownLane, s)
	}
}

// Score は回答セットからレーン診断を行います。LD1〜LD18以外のIDは無視されます。
func Score(answers map[string]int) Result {
	scores := ComputeCategoryAverages(answers)
	overall := WeightedOverall(scores)
	lane := DetermineLane(overall, scores)
	return Result{
		Lane:            lane,
		Confidence:      Confidence(overall, scores),
		CategoryScores:  scores,
		Overall:         round2(overall),
		GrowthPotential: AssessGrowthPotential(scores),
		NextSteps:       NextSteps(lane, scores),
		LaneDescription: Describe(lane),
	}
}

// ComputeCategoryAverages はカテゴリごとの平均を返します。回答のないカテゴリは0です。
func ComputeCategoryAverages(answers map[string]int) CategoryScores {
	sums := make(map[Category]int, len(categoryOrder))
	counts := make(map[Category]int, len(categoryOrder))
	for qid, v := range answers {
		c, ok := questionCategories[qid]
		if !ok {
			continue
		}
		sums[c] += v
		counts[c]++
	}

	scores := make(CategoryScores, len(categoryOrder))
	for _, c := range categoryOrder {
		if counts[c] == 0 {
			scores[c] = 0
			continue
		}
		scores[c] = round2(float64(sums[c]) / float64(counts[c]))
	}
	return scores
}

// WeightedOverall はカテゴリ平均の加重平均です（丸めなし）。
func WeightedOverall(scores CategoryScores) float64 {
	var sum, total float64
	for _, c := range categoryOrder {
		w := categoryWeights[c]
		sum += scores[c] * w
		total += w
	}
	if total == 0 {
		return 0
	}
	return sum / total
}

// DetermineLane はレーンを決定します。
// 金銭感覚が2.0以下なら総合に関係なくSidewalk、仕組み化4.0以上かつリスク3.5以上ならFastlane。
func DetermineLane(overall float64, scores CategoryScores) Lane {
	if scores[FinancialMindset] <= 2.0 {
		return Sidewalk
	}
	if scores[SystemsScalability] >= 4.0 && scores[RiskOpportunity] >= 3.5 {
		return Fastlane
	}
	switch {
	case overall <= SidewalkMax:
		return Sidewalk
	case overall <= SlowlaneMax:
		return Slowlane
	default:
		return Fastlane
	}
}

// Confidence はカテゴリ間のばらつきと境界からの距離から信頼度（0〜1）を求めます。
func Confidence(overall float64, scores CategoryScores) float64 {
	n := float64(len(categoryOrder))
	var mean float64
	for _, c := range categoryOrder {
		mean += scores[c]
	}
	mean /= n

	var variance float64
	for _, c := range categoryOrder {
		d := scores[c] - mean
		variance += d * d
	}
	variance /= n
	consistency := math.Max(0, 1-math.Sqrt(variance)/2)

	var boundary float64
	switch {
	case overall <= SidewalkMax:
		boundary = math.Abs(overall - SidewalkMax)
	case overall <= SlowlaneMax:
		boundary = math.Min(math.Abs(overall-SidewalkMax), math.Abs(overall-SlowlaneMax))
	default:
		boundary = math.Abs(overall - SlowlaneMax)
	}
	boundaryScore := math.Min(1, boundary*2)

	return round2((consistency + boundaryScore) / 2)
}

// AssessGrowthPotential は成長余地を判定します。
func AssessGrowthPotential(scores CategoryScores) GrowthPotential {
	risk := scores[RiskOpportunity]
	systems := scores[SystemsScalability]
	switch {
	case risk >= 4.0 && systems >= 3.5:
		return GrowthHigh
	case risk >= 3.0 || systems >= 3.0 || scores[TimeFreedom] >= 3.5:
		return GrowthMedium
	default:
		return GrowthLow
	}
}

var laneSteps = map[Lane][]string{
	Sidewalk: {
		"Create a basic budget and track all expenses",
		"Build a $1,000 emergency fund",
		"Stop using credit cards for non-essentials",
		"Read 'The Millionaire Fastlane' by MJ DeMarco",
	},
	Slowlane: {
		"Increase your savings rate to 20% of income",
		"Start investing in index funds or ETFs",
		"Consider starting a side business",
		"Learn about business and entrepreneurship",
	},
	Fastlane: {
		"Focus on building systems and assets",
		"Look for opportunities to create leverage",
		"Consider scaling your current business",
		"Mentor others who want to enter the fastlane",
	},
}

var categorySteps = map[Category]string{
	FinancialMindset:   "Read books on financial literacy and wealth building",
	TimeFreedom:        "Define what financial freedom means to you",
	RiskOpportunity:    "Start taking small calculated risks",
	SystemsScalability: "Learn about business systems and automation",
}

// NextSteps はレーン別のステップに、最も低いカテゴリ向けのステップを1件加えて返します。
func NextSteps(lane Lane, scores CategoryScores) []string {
	steps := make([]string, 0, MaxNextSteps)
	steps = append(steps, laneSteps[lane]...)
	steps = append(steps, categorySteps[LowestCategory(scores)])
	if len(steps) > MaxNextSteps {
		steps = steps[:MaxNextSteps]
	}
	return steps
}

// LowestCategory は最もスコアの低いカテゴリを返します。同点は固定順で前のものが優先。
func LowestCategory(scores CategoryScores) Category {
	ranked := Categories()
	sort.SliceStable(ranked, func(i, j int) bool {
		return scores[ranked[i]] < scores[ranked[j]]
	})
	return ranked[0]
}

var descriptions = map[Lane]LaneDescription{
	Sidewalk: {
		Name:        "Sidewalk Lane",
		Description: "You're living in the moment, but the moment is costing you your future. You're focused on consumption rather than creation, and your financial habits are keeping you trapped in a cycle of dependency.",
		Characteristics: []string{
			"Spends more than earns",
			"No emergency fund",
			"Consumer-focused mindset",
			"No long-term financial plan",
			"Lives paycheck to paycheck",
		},
	},
	Slowlane: {
		Name:        "Slowlane",
		Description: "You're building wealth, but you're trading time for money at a 1:1 ratio. You understand the importance of saving and investing, but you're still dependent on your job for income.",
		Characteristics: []string{
			"Trades time for money",
			"Linear income growth",
			"Traditional retirement planning",
			"Security over growth",
			"Dependent on employment",
		},
	},
	Fastlane: {
		Name:        "Fastlane",
		Description: "You understand systems, leverage, and exponential growth. You're building assets and creating multiple income streams, but you might be missing the community and support to accelerate your journey.",
		Characteristics: []string{
			"Builds systems and assets",
			"Exponential income potential",
			"Leverage and multiplication",
			"Freedom and control",
			"Multiple income streams",
		},
	},
}

// Describe はレーンの説明を返します。
func Describe(lane Lane) LaneDescription {
	return descriptions[lane]
}

var roadmaps = map[[2]Lane][]string{
	{Sidewalk, Slowlane}: {
		"Create and stick to a budget",
		"Build a $1,000 emergency fund",
		"Start saving 10% of your income",
		"Learn about compound interest",
		"Begin investing in index funds",
	},
	{Sidewalk, Fastlane}: {
		"Read 'The Millionaire Fastlane' by MJ DeMarco",
		"Identify a skill you can monetize",
		"Start a small side business",
		"Learn about business systems",
		"Find a mentor in your target industry",
	},
	{Slowlane, Fastlane}: {
		"Start a side business while keeping your job",
		"Learn about leverage and systems",
		"Build multiple income streams",
		"Invest in business education",
		"Network with other entrepreneurs",
	},
}

// TransitionRoadmap は current から target へ移るためのステップを返します。
// 定義のない組み合わせ（下位レーンへの移行など）は汎用メッセージを返します。
func TransitionRoadmap(current, target Lane) []string {
	if current == target {
		return []string{"You're already in your target lane! Focus on optimization and growth."}
	}
	if steps, ok := roadmaps[[2]Lane{current, target}]; ok {
		out := make([]string, len(steps))
		copy(out, steps)
		return out
	}
	return []string{"Focus on improving your current lane before transitioning."}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
