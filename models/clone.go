package models

// Clone returns a deep copy of the tally.
func (t *VoteTally) Clone() *VoteTally {
	if t == nil {
		return nil
	}
	out := *t
	if t.Votes != nil {
		out.Votes = make([]MemberVote, len(t.Votes))
		copy(out.Votes, t.Votes)
	}
	return &out
}

// Clone returns a deep copy of the decision. Mutating the copy never
// affects the receiver.
func (d Decision) Clone() Decision {
	d.Voting = d.Voting.Clone()
	return d
}

func (a Agenda) Clone() Agenda {
	return Agenda{
		Strategic:   cloneSlice(a.Strategic),
		Operational: cloneSlice(a.Operational),
		Governance:  cloneSlice(a.Governance),
	}
}

// Clone returns a deep copy of the meeting and all of its decisions.
func (m Meeting) Clone() Meeting {
	m.Agenda = m.Agenda.Clone()
	m.Attendees = cloneSlice(m.Attendees)
	if m.Decisions != nil {
		decisions := make([]Decision, len(m.Decisions))
		for i, d := range m.Decisions {
			decisions[i] = d.Clone()
		}
		m.Decisions = decisions
	}
	return m
}

func (b BoardMember) Clone() BoardMember {
	b.VotingStats.KeyAreas = cloneSlice(b.VotingStats.KeyAreas)
	return b
}

func (t Tender) Clone() Tender {
	t.Documents = cloneSlice(t.Documents)
	t.Requirements = cloneSlice(t.Requirements)
	return t
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}
