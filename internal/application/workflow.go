package application

// AvailableTransitions lists the statuses an employer may move an
// application to from s. Accepted is terminal. Rejected can be reached
// from any other status, and accepting requires a shortlist first.
func AvailableTransitions(s Status) []Status {
	if s == StatusAccepted || !s.Valid() {
		return nil
	}
	var next []Status
	if s != StatusReviewing {
		next = append(next, StatusReviewing)
	}
	if s != StatusShortlisted {
		next = append(next, StatusShortlisted)
	}
	if s != StatusRejected {
		next = append(next, StatusRejected)
	}
	if s == StatusShortlisted {
		next = append(next, StatusAccepted)
	}
	return next
}

func CanTransition(from, to Status) bool {
	for _, s := range AvailableTransitions(from) {
		if s == to {
			return true
		}
	}
	return false
}

func (s Status) IsTerminal() bool {
	return s == StatusAccepted
}
