package fixture

// Sample returns the list shown by the demo and written by `watch --init`
func Sample() *File {
	return &File{Sections: []Section{
		{
			ID:     "today",
			Header: "Today",
			Rows: []Row{
				{ID: "deploy", Title: "Deploy api", Detail: "v2.4.1", Status: "success"},
				{ID: "review", Title: "Review pull requests", Detail: "3 open", Status: "info"},
				{ID: "oncall", Title: "On-call handover", Status: "warning"},
			},
		},
		{
			ID:     "week",
			Header: "This week",
			Footer: "Planned",
			Rows: []Row{
				{ID: "migrate", Title: "Migrate billing tables", Status: "info"},
				{ID: "retro", Title: "Sprint retro"},
				{ID: "budget", Title: "Q3 budget draft", Status: "muted"},
			},
		},
		{
			ID:        "later",
			Header:    "Later",
			Collapsed: true,
			Rows: []Row{
				{ID: "offsite", Title: "Book offsite"},
				{ID: "docs", Title: "Rewrite onboarding docs"},
			},
		},
	}}
}
