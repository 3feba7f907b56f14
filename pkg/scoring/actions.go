package scoring

// Actions は低い2ドメインから組み立てたおすすめアクションです。
type Actions struct {
	SevenDay  [3]string `json:"sevenDay"`
	ThirtyDay [3]string `json:"thirtyDay"`
}

type domainActions struct {
	sevenDay  [3]string
	thirtyDay [3]string
}

var actionTable = map[Domain]domainActions{
	Identity: {
		sevenDay: [3]string{
			"Write down your top 3 values",
			"Identify one daily choice that aligns with your values",
			"Practice positive self-talk for 5 minutes daily",
		},
		thirtyDay: [3]string{
			"Create a personal mission statement",
			"Set 3 identity-aligned goals for the next quarter",
			"Establish a daily values check-in routine",
		},
	},
	Health: {
		sevenDay: [3]string{
			"Go to bed 30 minutes earlier",
			"Take a 10-minute walk daily",
			"Drink one extra glass of water each day",
		},
		thirtyDay: [3]string{
			"Establish a consistent sleep schedule",
			"Create a sustainable exercise routine",
			"Develop stress management techniques",
		},
	},
	Finances: {
		sevenDay: [3]string{
			"Track all expenses for one week",
			"Calculate your net worth",
			"Set up automatic savings transfer",
		},
		thirtyDay: [3]string{
			"Create a monthly budget",
			"Build a 3-month emergency fund",
			"Start investing in your future",
		},
	},
	Relationships: {
		sevenDay: [3]string{
			"Reach out to one person who lifts your energy",
			"Have one meaningful conversation",
			"Express gratitude to someone important",
		},
		thirtyDay: [3]string{
			"Strengthen relationships with positive people",
			"Address one relationship tension with care",
			"Find a mentor or accountability partner",
		},
	},
	Emotions: {
		sevenDay: [3]string{
			"Practice 5 minutes of deep breathing daily",
			"Identify your emotional triggers",
			"Use the 5-4-3-2-1 grounding technique",
		},
		thirtyDay: [3]string{
			"Develop emotional regulation strategies",
			"Practice mindfulness meditation",
			"Create an emotional support system",
		},
	},
	Focus: {
		sevenDay: [3]string{
			"Eliminate one major distraction",
			"Use the Pomodoro technique for focused work",
			"Create a distraction-free workspace",
		},
		thirtyDay: [3]string{
			"Establish a daily priority-setting routine",
			"Implement time-blocking for important tasks",
			"Develop systems to minimize decision fatigue",
		},
	},
}

// SuggestedActions は7日・30日それぞれについて、第1ドメインから2件、第2ドメインから1件を選びます。
// 未知のドメインの場合は空文字列になります。
func SuggestedActions(lowest [2]Domain) Actions {
	primary, secondary := actionTable[lowest[0]], actionTable[lowest[1]]
	return Actions{
		SevenDay:  [3]string{primary.sevenDay[0], primary.sevenDay[1], secondary.sevenDay[0]},
		ThirtyDay: [3]string{primary.thirtyDay[0], primary.thirtyDay[1], secondary.thirtyDay[0]},
	}
}
