package scoring

import (
	"errors"
	"fmt"
	"strings"
)

// Domain はアセスメントで測定する6つの領域のいずれかです。
type Domain string

const (
	Identity      Domain = "identity"
	Health        Domain = "health"
	Finances      Domain = "finances"
	Relationships Domain = "relationships"
	Emotions      Domain = "emotions"
	Focus         Domain = "focus"
)

// ErrUnknownDomain は未知のドメイン名に対してParseDomainが返すエラーです。
var ErrUnknownDomain = errors.New("unknown domain")

// tieBreakOrder はドメインの正規の並び順で、LowestTwoDomains の同点時の優先順位も兼ねる。
// 同点の場合は前にあるものが優先される。
var tieBreakOrder = [...]Domain{Identity, Health, Finances, Relationships, Emotions, Focus}

// 採点対象の質問ID→ドメイン
var questionDomains = map[string]Domain{
	"Q1": Identity, "Q2": Identity, "Q3": Identity,
	"Q4": Health, "Q5": Health,
	"Q6": Finances, "Q7": Finances, "Q8": Finances,
	"Q9": Relationships, "Q10": Relationships, "Q11": Relationships,
	"Q12": Emotions, "Q13": Emotions,
	"Q14": Focus, "Q15": Focus,
}

// Domains は6つのドメインを優先順位順で返します。
func Domains() []Domain {
	out := make([]Domain, len(tieBreakOrder))
	copy(out, tieBreakOrder[:])
	return out
}

// priority は優先順位上の位置を返す。未知の値は最後に並ぶよう len(tieBreakOrder) を返す。
func priority(d Domain) int {
	for i, candidate := range tieBreakOrder {
		if candidate == d {
			return i
		}
	}
	return len(tieBreakOrder)
}

// Valid は d が既知のドメインかどうかを返します。
func (d Domain) Valid() bool {
	return priority(d) < len(tieBreakOrder)
}

func (d Domain) String() string {
	return string(d)
}

// ParseDomain は大文字小文字を区別せずにドメイン名を解析します。
func ParseDomain(s string) (Domain, error) {
	d := Domain(strings.ToLower(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownDomain, s)
	}
	return d, nil
}

// QuestionDomain は質問IDが集計されるドメインを返します。
func QuestionDomain(questionID string) (Domain, bool) {
	d, ok := questionDomains[questionID]
	return d, ok
}

// QuestionIDs は Q1〜Q15 を番号順で返します。
func QuestionIDs() []string {
	ids := make([]string, 0, len(questionDomains))
	for i := 1; i <= len(questionDomains); i++ {
		ids = append(ids, fmt.Sprintf("Q%d", i))
	}
	return ids
}
