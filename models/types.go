package models

import "encoding/json"

// Voting status constants
const (
	VotingOpen   = "open"
	VotingClosed = "closed"
)

// Meeting status constants
const (
	MeetingConfirmed = "confirmed"
	MeetingTentative = "tentative"
	MeetingCanceled  = "canceled"
)

// Decision category constants
const (
	CategoryStrategic   = "strategic"
	CategoryOperational = "operational"
	CategoryGovernance  = "governance"
)

// Compliance status constants
const (
	ComplianceCompleted = "completed"
	CompliancePending   = "pending"
	ComplianceOverdue   = "overdue"
)

// Tender status constants
const (
	TenderOpen        = "open"
	TenderClosingSoon = "closing-soon"
	TenderClosed      = "closed"
	TenderAwarded     = "awarded"
	TenderCancelled   = "cancelled"
)

// FilterAll disables a status filter on list endpoints.
const FilterAll = "all"

// Choice is a member's vote on a decision. The zero value means the member
// has not voted and encodes as JSON null.
type Choice string

const (
	ChoiceNone    Choice = ""
	ChoiceInFavor Choice = "in-favor"
	ChoiceAgainst Choice = "against"
	ChoiceAbstain Choice = "abstain"
)

// Valid reports whether c is one of the three castable votes.
func (c Choice) Valid() bool {
	switch c {
	case ChoiceInFavor, ChoiceAgainst, ChoiceAbstain:
		return true
	}
	return false
}

func (c Choice) MarshalJSON() ([]byte, error) {
	return marshalNullable(string(c))
}

func (c *Choice) UnmarshalJSON(data []byte) error {
	s, err := unmarshalNullable(data)
	*c = Choice(s)
	return err
}

// Outcome is the authored label of a decision. The zero value means
// undecided and encodes as JSON null. It is never derived from the tally.
type Outcome string

const (
	OutcomePending     Outcome = ""
	OutcomeSuccess     Outcome = "success"
	OutcomeFailure     Outcome = "failure"
	OutcomeNeedsReview Outcome = "needs-review"
)

// Valid reports whether o is a known outcome (undecided included).
func (o Outcome) Valid() bool {
	switch o {
	case OutcomePending, OutcomeSuccess, OutcomeFailure, OutcomeNeedsReview:
		return true
	}
	return false
}

func (o Outcome) MarshalJSON() ([]byte, error) {
	return marshalNullable(string(o))
}

func (o *Outcome) UnmarshalJSON(data []byte) error {
	s, err := unmarshalNullable(data)
	*o = Outcome(s)
	return err
}

func marshalNullable(s string) ([]byte, error) {
	if s == "" {
		return []byte("null"), nil
	}
	return json.Marshal(s)
}

func unmarshalNullable(data []byte) (string, error) {
	if string(data) == "null" {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return "", err
	}
	return s, nil
}

// Request types

type SubmitVoteRequest struct {
	Vote Choice `json:"vote"`
}

type SetOutcomeRequest struct {
	Outcome Outcome `json:"outcome"`
}

type SetVotingStatusRequest struct {
	Status string `json:"status"`
}

type VotingItemRequest struct {
	Title    string `json:"title"`
	Category string `json:"category"`
	Notes    string `json:"notes"`
}

type DocumentRequest struct {
	Title       string `json:"title"`
	Type        string `json:"type"`
	Sensitive   bool   `json:"sensitive"`
	Watermarked bool   `json:"watermarked"`
}

type CreateMeetingRequest struct {
	Title       string              `json:"title"`
	Date        string              `json:"date"`
	StartTime   string              `json:"start_time"`
	EndTime     string              `json:"end_time"`
	Location    string              `json:"location"`
	Status      string              `json:"status"`
	Summary     string              `json:"summary"`
	Agenda      Agenda              `json:"agenda"`
	VotingItems []VotingItemRequest `json:"voting_items"`
	Documents   []DocumentRequest   `json:"documents"`
}

// Response types

type CreateMeetingResponse struct {
	Meeting   Meeting    `json:"meeting"`
	Documents []Document `json:"documents"`
}

type SubmitVoteResponse struct {
	Decision  Decision       `json:"decision"`
	Breakdown TallyBreakdown `json:"breakdown"`
	Message   string         `json:"message"`
}

type MeetingDetailResponse struct {
	Meeting      Meeting       `json:"meeting"`
	Stats        VotingStats   `json:"voting_stats"`
	Outcomes     OutcomeCounts `json:"outcomes"`
	AgendaShares AgendaShares  `json:"agenda_shares"`
	Paragraphs   []string      `json:"summary_paragraphs"`
	Documents    []Document    `json:"documents"`
	// DecisionDocuments maps each decision id to the meeting documents whose
	// title matches the decision's.
	DecisionDocuments map[string][]Document `json:"decision_documents"`
	DateLabel         string                `json:"date_label"`
}

// AgendaShares is each agenda category's percentage of all agenda items.
type AgendaShares struct {
	Strategic   int `json:"strategic"`
	Operational int `json:"operational"`
	Governance  int `json:"governance"`
}

type DocumentsResponse struct {
	Month            string     `json:"month,omitempty"`
	MeetingDocuments []Document `json:"meeting_documents"`
	OtherDocuments   []Document `json:"other_documents"`
}

type MeetingSummary struct {
	Meeting            Meeting `json:"meeting"`
	DateLabel          string  `json:"date_label"`
	ConfirmedAttendees int     `json:"confirmed_attendees"`
	TotalAttendees     int     `json:"total_attendees"`
}

type CalendarDay struct {
	Date     string           `json:"date"`
	Meetings []MeetingSummary `json:"meetings"`
}

type CalendarResponse struct {
	Month string        `json:"month"`
	Days  []CalendarDay `json:"days"`
}

type DashboardResponse struct {
	Decisions      []MeetingDecision `json:"decisions"`
	OpenVotes      []MeetingDecision `json:"open_votes"`
	AwaitingMyVote []MeetingDecision `json:"awaiting_my_vote"`
	Outcomes       OutcomeCounts     `json:"outcomes"`
	Stats          VotingStats       `json:"voting_stats"`
}

type MemberVoteView struct {
	MemberID      string `json:"member_id"`
	Name          string `json:"name"`
	Role          string `json:"role"`
	IsCurrentUser bool   `json:"is_current_user"`
	Vote          Choice `json:"vote"`
}

type DecisionDetailResponse struct {
	Decision     MeetingDecision  `json:"decision"`
	Breakdown    TallyBreakdown   `json:"breakdown"`
	MyVote       Choice           `json:"my_vote"`
	MemberVotes  []MemberVoteView `json:"member_votes"`
	VotingIsOpen bool             `json:"voting_is_open"`
}

type AreaCount struct {
	Area  string `json:"area"`
	Count int    `json:"count"`
}

type RankingsResponse struct {
	BySuccessRate []BoardMember     `json:"by_success_rate"`
	ByActivity    []BoardMember     `json:"by_activity"`
	TopAreas      []AreaCount       `json:"top_areas"`
	Performance   PerformanceShares `json:"performance"`
}

// PerformanceShares are percentages of the whole board.
type PerformanceShares struct {
	// Improving counts members above 80% success rate.
	Improving int `json:"improving"`
	// NeedsAttention counts members below 70% success rate.
	NeedsAttention int `json:"needs_attention"`
}

type ComplianceCounts struct {
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
	Overdue   int `json:"overdue"`
}

type ComplianceResponse struct {
	Items             []ComplianceItem `json:"items"`
	Counts            ComplianceCounts `json:"counts"`
	UpcomingDeadlines []ComplianceItem `json:"upcoming_deadlines"`
}

type TenderView struct {
	Tender
	DaysLeft    string `json:"days_left,omitempty"`
	ClosesIn    string `json:"closes_in"`
	ClosesOn    string `json:"closes_on"`
	PublishedOn string `json:"published_on"`
}

type TendersResponse struct {
	Tenders  []TenderView `json:"tenders"`
	NewCount int          `json:"new_count"`
}

// Domain types

type VotingStatsSummary struct {
	TotalVotes   int      `json:"total_votes" yaml:"total_votes"`
	CorrectVotes int      `json:"correct_votes" yaml:"correct_votes"`
	SuccessRate  float64  `json:"success_rate" yaml:"success_rate"`
	KeyAreas     []string `json:"key_areas" yaml:"key_areas"`
}

type BoardMember struct {
	ID            string             `json:"id" yaml:"id"`
	Name          string             `json:"name" yaml:"name"`
	Role          string             `json:"role" yaml:"role"`
	Email         string             `json:"email,omitempty" yaml:"email"`
	IsCurrentUser bool               `json:"is_current_user" yaml:"-"`
	VotingStats   VotingStatsSummary `json:"voting_stats" yaml:"voting_stats"`
}

type MemberVote struct {
	MemberID string `json:"member_id" yaml:"member_id"`
	Vote     Choice `json:"vote" yaml:"vote"`
}

type VoteTally struct {
	Status  string       `json:"status" yaml:"status"`
	InFavor int          `json:"in_favor" yaml:"in_favor"`
	Against int          `json:"against" yaml:"against"`
	Abstain int          `json:"abstain" yaml:"abstain"`
	Votes   []MemberVote `json:"votes" yaml:"votes"`
}

type Decision struct {
	ID       string     `json:"id" yaml:"id"`
	Title    string     `json:"title" yaml:"title"`
	Category string     `json:"category" yaml:"category"`
	Outcome  Outcome    `json:"outcome" yaml:"outcome"`
	Notes    string     `json:"notes" yaml:"notes"`
	Voting   *VoteTally `json:"voting" yaml:"voting"`
}

// MeetingDecision is a decision annotated with the meeting it belongs to.
type MeetingDecision struct {
	Decision
	MeetingID    string `json:"meeting_id"`
	MeetingTitle string `json:"meeting_title"`
}

type Goals struct {
	RevenueTarget        string `json:"revenue_target" yaml:"revenue_target"`
	Timeline             string `json:"timeline" yaml:"timeline"`
	StakeholderAlignment string `json:"stakeholder_alignment" yaml:"stakeholder_alignment"`
}

type AgendaItem struct {
	Title string `json:"title" yaml:"title"`
	Goals Goals  `json:"goals" yaml:"goals"`
}

type Agenda struct {
	Strategic   []AgendaItem `json:"strategic" yaml:"strategic"`
	Operational []AgendaItem `json:"operational" yaml:"operational"`
	Governance  []AgendaItem `json:"governance" yaml:"governance"`
}

type Attendee struct {
	MemberID  string `json:"member_id" yaml:"member_id"`
	Confirmed bool   `json:"confirmed" yaml:"confirmed"`
}

type Meeting struct {
	ID        string     `json:"id" yaml:"id"`
	Title     string     `json:"title" yaml:"title"`
	Date      string     `json:"date" yaml:"date"`
	Time      string     `json:"time" yaml:"time"`
	Location  string     `json:"location" yaml:"location"`
	Status    string     `json:"status" yaml:"status"`
	Summary   string     `json:"summary,omitempty" yaml:"summary"`
	Agenda    Agenda     `json:"agenda" yaml:"agenda"`
	Attendees []Attendee `json:"attendees" yaml:"attendees"`
	Decisions []Decision `json:"decisions" yaml:"decisions"`
}

type Document struct {
	ID          string  `json:"id" yaml:"id"`
	Title       string  `json:"title" yaml:"title"`
	Type        string  `json:"type" yaml:"type"`
	Date        string  `json:"date" yaml:"date"`
	Sensitive   bool    `json:"sensitive" yaml:"sensitive"`
	Watermarked bool    `json:"watermarked" yaml:"watermarked"`
	MeetingID   *string `json:"meeting_id" yaml:"meeting_id"`
}

type ComplianceItem struct {
	ID                 string  `json:"id" yaml:"id"`
	PortalName         string  `json:"portal_name" yaml:"portal_name"`
	Impact             string  `json:"impact" yaml:"impact"`
	RequiredForPublic  bool    `json:"required_for_public" yaml:"required_for_public"`
	RequiredForPrivate bool    `json:"required_for_private" yaml:"required_for_private"`
	Purpose            string  `json:"purpose" yaml:"purpose"`
	Link               string  `json:"link" yaml:"link"`
	Status             string  `json:"status" yaml:"status"`
	LastSubmission     *string `json:"last_submission" yaml:"last_submission"`
	NextDue            string  `json:"next_due" yaml:"next_due"`
	Template           string  `json:"template" yaml:"template"`
	Receipt            *string `json:"receipt" yaml:"receipt"`
}

type TenderDocument struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`
	Size string `json:"size" yaml:"size"`
	URL  string `json:"url" yaml:"url"`
}

type Tender struct {
	ID             string           `json:"id"`
	Title          string           `json:"title"`
	Description    string           `json:"description"`
	PublishDate    string           `json:"publish_date"`
	ClosingDate    string           `json:"closing_date"`
	Status         string           `json:"status"`
	Category       string           `json:"category"`
	EstimatedValue string           `json:"estimated_value"`
	Location       string           `json:"location"`
	ContactPerson  string           `json:"contact_person"`
	ContactEmail   string           `json:"contact_email"`
	Documents      []TenderDocument `json:"documents"`
	Requirements   []string         `json:"requirements"`
	IsNew          bool             `json:"is_new"`
	IsViewed       bool             `json:"is_viewed"`
}

// Derived types

type VotingStats struct {
	Total   int `json:"total"`
	Open    int `json:"open"`
	Closed  int `json:"closed"`
	InFavor int `json:"in_favor"`
	Against int `json:"against"`
	Abstain int `json:"abstain"`
}

type OutcomeCounts struct {
	Success     int `json:"success"`
	Failure     int `json:"failure"`
	NeedsReview int `json:"needs_review"`
	Pending     int `json:"pending"`
}

type TallyBreakdown struct {
	TotalVotes        int `json:"total_votes"`
	Voted             int `json:"voted"`
	Eligible          int `json:"eligible"`
	InFavorPercentage int `json:"in_favor_percentage"`
	AgainstPercentage int `json:"against_percentage"`
	AbstainPercentage int `json:"abstain_percentage"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Reason  string `json:"reason,omitempty"`
}
