// Package scoring はアセスメントの回答からドメイン平均、総合スコア、
// アバター区分、最も低い2ドメインを算出します。
//
// すべて副作用のない純粋関数で、並行に呼び出しても安全です。
package scoring

import (
	"math"
	"sort"
)

// Avatar は総合スコアによる区分です。
type Avatar string

const (
	Drifter   Avatar = "Drifter"
	Balancer  Avatar = "Balancer"
	Architect Avatar = "Architect"
)

// Label はドメインごとの評価ラベルです。
type Label string

const (
	Unacceptable Label = "Unacceptable"
	Acceptable   Label = "Acceptable"
	Desirable    Label = "Desirable"
)

// 下位2区分の上限（この値を含む）。アバターとラベルで共通。
const (
	LowTierMax = 3.1
	MidTierMax = 4.1
)

// DomainScores はドメインごとの平均（小数第2位で丸め済み）
type DomainScores map[Domain]float64

// Result は1回の採点結果です。
type Result struct {
	DomainScores     DomainScores `json:"domainScores"`
	Overall          float64      `json:"overall"`
	Avatar           Avatar       `json:"avatar"`
	LowestTwoDomains [2]Domain    `json:"lowestTwoDomains"`
}

// ScoreDomains は回答セットを採点します。
func ScoreDomains(answers map[string]int) Result {
	scores := ComputeDomainAverages(answers)
	overall := round2(OverallAverage(scores))
	return Result{
		DomainScores:     scores,
		Overall:          overall,
		Avatar:           AvatarFromOverall(overall),
		LowestTwoDomains: LowestTwoDomains(scores),
	}
}

// ComputeDomainAverages はドメインごとの平均を小数第2位で丸めて返します。
// 回答のないドメインは0、未知の質問IDは無視されます。結果には常に6ドメインすべてが含まれます。
func ComputeDomainAverages(answers map[string]int) DomainScores {
	sums := make(map[Domain]int, len(tieBreakOrder))
	counts := make(map[Domain]int, len(tieBreakOrder))
	for qid, v := range answers {
		d, ok := questionDomains[qid]
		if !ok {
			continue
		}
		sums[d] += v
		counts[d]++
	}

	scores := make(DomainScores, len(tieBreakOrder))
	for _, d := range tieBreakOrder {
		if counts[d] == 0 {
			scores[d] = 0
			continue
		}
		scores[d] = round2(float64(sums[d]) / float64(counts[d]))
	}
	return scores
}

// OverallAverage はドメイン平均の単純平均です（質問数による重み付けなし、丸めなし）。
func OverallAverage(scores DomainScores) float64 {
	if len(scores) == 0 {
		return 0
	}
	var total float64
	for _, d := range tieBreakOrder {
		total += scores[d]
	}
	return total / float64(len(tieBreakOrder))
}

// AvatarFromOverall は総合スコアからアバターを決定します。
func AvatarFromOverall(overall float64) Avatar {
	switch {
	case overall <= LowTierMax:
		return Drifter
	case overall <= MidTierMax:
		return Balancer
	default:
		return Architect
	}
}

// LabelForScore はドメインスコアからラベルを決定します。
func LabelForScore(score float64) Label {
	switch {
	case score <= LowTierMax:
		return Unacceptable
	case score <= MidTierMax:
		return Acceptable
	default:
		return Desirable
	}
}

// DomainLabels は各ドメインにラベルを付けます。
func DomainLabels(scores DomainScores) map[Domain]Label {
	labels := make(map[Domain]Label, len(scores))
	for d, s := range scores {
		labels[d] = LabelForScore(s)
	}
	return labels
}

// LowestTwoDomains はスコアの低い2ドメインを低い順に返します。
// 同点の場合は固定の優先順位で並べます。
func LowestTwoDomains(scores DomainScores) [2]Domain {
	ranked := Domains()
	sort.Slice(ranked, func(i, j int) bool {
		si, sj := scores[ranked[i]], scores[ranked[j]]
		if si != sj {
			return si < sj
		}
		return priority(ranked[i]) < priority(ranked[j])
	})
	return [2]Domain{ranked[0], ranked[1]}
}

// AnsweredDomains は1問以上回答されたドメインの数を返します。
func AnsweredDomains(answers map[string]int) int {
	seen := make(map[Domain]struct{}, len(tieBreakOrder))
	for qid := range answers {
		if d, ok := questionDomains[qid]; ok {
			seen[d] = struct{}{}
		}
	}
	return len(seen)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
