package scoring

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullAnswers() map[string]int {
	return map[string]int{
		"Q1": 3, "Q2": 4, "Q3": 5,
		"Q4": 2, "Q5": 3,
		"Q6": 5, "Q7": 5, "Q8": 5,
		"Q9": 3, "Q10": 3, "Q11": 3,
		"Q12": 2, "Q13": 2,
		"Q14": 4, "Q15": 4,
	}
}

func uniformAnswers(v int) map[string]int {
	answers := make(map[string]int)
	for _, id := range QuestionIDs() {
		answers[id] = v
	}
	return answers
}

func TestComputeDomainAverages(t *testing.T) {
	scores := ComputeDomainAverages(map[string]int{"Q1": 3, "Q2": 4, "Q3": 5})
	assert.Equal(t, 4.0, scores[Identity])

	scores = ComputeDomainAverages(map[string]int{"Q9": 2, "Q10": 3, "Q11": 3})
	assert.Equal(t, 2.67, scores[Relationships])
}

func TestComputeDomainAveragesAlwaysHasSixDomains(t *testing.T) {
	scores := ComputeDomainAverages(map[string]int{"Q1": 5})

	require.Len(t, scores, 6)
	assert.Equal(t, 5.0, scores[Identity])
	assert.Equal(t, 0.0, scores[Health], "domain without answers scores 0")
	assert.Equal(t, 0.0, scores[Focus])
}

func TestComputeDomainAveragesEmpty(t *testing.T) {
	scores := ComputeDomainAverages(map[string]int{})
	for _, d := range Domains() {
		assert.Equal(t, 0.0, scores[d], d)
	}
}

func TestUnknownQuestionIgnored(t *testing.T) {
	base := fullAnswers()
	withUnknown := fullAnswers()
	withUnknown["Q999"] = 1
	withUnknown["InvalidKey"] = 4

	assert.Equal(t, ScoreDomains(base), ScoreDomains(withUnknown))
}

func TestOverallAverageIsUnweighted(t *testing.T) {
	scores := DomainScores{
		Identity: 4, Health: 3, Finances: 5,
		Relationships: 2, Emotions: 4, Focus: 3,
	}
	assert.Equal(t, 3.5, OverallAverage(scores))
}

func TestAvatarFromOverallBoundaries(t *testing.T) {
	cases := []struct {
		overall float64
		want    Avatar
	}{
		{1.0, Drifter},
		{3.09999, Drifter},
		{3.1, Drifter},
		{3.10001, Balancer},
		{3.2, Balancer},
		{4.1, Balancer},
		{4.2, Architect},
		{5.0, Architect},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, AvatarFromOverall(tc.overall), "overall=%v", tc.overall)
	}
}

func TestLabelForScoreBoundaries(t *testing.T) {
	cases := []struct {
		score float64
		want  Label
	}{
		{0, Unacceptable},
		{3.1, Unacceptable},
		{3.2, Acceptable},
		{4.1, Acceptable},
		{4.2, Desirable},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, LabelForScore(tc.score), "score=%v", tc.score)
	}
}

func TestLowestTwoDomainsTieBreak(t *testing.T) {
	scores := DomainScores{}
	for _, d := range Domains() {
		scores[d] = 3.0
	}
	// map iteration order is randomised; repeat to catch order dependence
	for i := 0; i < 50; i++ {
		assert.Equal(t, [2]Domain{Identity, Health}, LowestTwoDomains(scores))
	}
}

func TestLowestTwoDomainsPartialTie(t *testing.T) {
	scores := DomainScores{
		Identity: 4, Health: 3.5, Finances: 2,
		Relationships: 3, Emotions: 3, Focus: 2,
	}
	assert.Equal(t, [2]Domain{Finances, Focus}, LowestTwoDomains(scores))

	scores[Focus] = 2.5
	assert.Equal(t, [2]Domain{Finances, Focus}, LowestTwoDomains(scores))

	scores[Focus] = 3
	assert.Equal(t, [2]Domain{Finances, Relationships}, LowestTwoDomains(scores))
}

func TestScoreDomainsFullScenario(t *testing.T) {
	result := ScoreDomains(fullAnswers())

	assert.Equal(t, DomainScores{
		Identity: 4.0, Health: 2.5, Finances: 5.0,
		Relationships: 3.0, Emotions: 2.0, Focus: 4.0,
	}, result.DomainScores)
	assert.InDelta(t, 3.42, result.Overall, 1e-9)
	assert.Equal(t, Balancer, result.Avatar)
	assert.Equal(t, [2]Domain{Emotions, Health}, result.LowestTwoDomains)
}

func TestScoreDomainsExtremes(t *testing.T) {
	low := ScoreDomains(uniformAnswers(1))
	assert.Equal(t, 1.0, low.Overall)
	assert.Equal(t, Drifter, low.Avatar)
	for _, d := range Domains() {
		assert.Equal(t, 1.0, low.DomainScores[d])
	}

	high := ScoreDomains(uniformAnswers(5))
	assert.Equal(t, 5.0, high.Overall)
	assert.Equal(t, Architect, high.Avatar)
	for _, d := range Domains() {
		assert.Equal(t, 5.0, high.DomainScores[d])
	}
}

func TestScoreDomainsDeterministic(t *testing.T) {
	answers := fullAnswers()
	assert.Equal(t, ScoreDomains(answers), ScoreDomains(answers))
}

func TestSuggestedActions(t *testing.T) {
	actions := SuggestedActions([2]Domain{Identity, Health})

	assert.Equal(t, [3]string{
		"Write down your top 3 values",
		"Identify one daily choice that aligns with your values",
		"Go to bed 30 minutes earlier",
	}, actions.SevenDay)
	assert.Equal(t, [3]string{
		"Create a personal mission statement",
		"Set 3 identity-aligned goals for the next quarter",
		"Establish a consistent sleep schedule",
	}, actions.ThirtyDay)
}

func TestSuggestedActionsCoverEveryDomain(t *testing.T) {
	for _, d := range Domains() {
		entry, ok := actionTable[d]
		require.True(t, ok, d)
		for _, a := range append(entry.sevenDay[:], entry.thirtyDay[:]...) {
			assert.NotEmpty(t, a, d)
		}
	}
}

func TestParseDomain(t *testing.T) {
	d, err := ParseDomain(" Finances ")
	require.NoError(t, err)
	assert.Equal(t, Finances, d)

	_, err = ParseDomain("career")
	assert.True(t, errors.Is(err, ErrUnknownDomain))
}

func TestQuestionMapping(t *testing.T) {
	ids := QuestionIDs()
	require.Len(t, ids, 15)
	assert.Equal(t, "Q1", ids[0])
	assert.Equal(t, "Q15", ids[14])

	d, ok := QuestionDomain("Q12")
	assert.True(t, ok)
	assert.Equal(t, Emotions, d)

	_, ok = QuestionDomain("Q16")
	assert.False(t, ok)
}

func TestAnsweredDomains(t *testing.T) {
	assert.Equal(t, 0, AnsweredDomains(map[string]int{"Q99": 3}))
	assert.Equal(t, 2, AnsweredDomains(map[string]int{"Q1": 3, "Q2": 3, "Q14": 1}))
	assert.Equal(t, 6, AnsweredDomains(fullAnswers()))
}
