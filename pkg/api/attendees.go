package api

// BuildAttendees derives the ordered attendee list for a review: requested
// reviewers first, then the author, then any extra attendees. Missing
// identifiers are dropped; order is otherwise preserved
func BuildAttendees(reviewers []string, author string, extras []string) []string {
	res := make([]string, 0, len(reviewers)+1+len(extras))
	for _, r := range reviewers {
		if r != "" {
			res = append(res, r)
		}
	}
	if author != "" {
		res = append(res, author)
	}
	for _, e := range extras {
		if e != "" {
			res = append(res, e)
		}
	}
	return res
}

// ReviewerEmails extracts reviewer emails from pull request details
func ReviewerEmails(pr *PullRequest) []string {
	res := make([]string, 0, len(pr.Reviewers))
	for _, r := range pr.Reviewers {
		res = append(res, r.Email)
	}
	return res
}
