// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package seed

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/danielhkuo/boardroom/dates"
	"github.com/danielhkuo/boardroom/ledger"
	"github.com/danielhkuo/boardroom/models"
)

//go:embed seed.yaml
var embedded []byte

var ErrInvalidSeed = errors.New("invalid seed data")

// Data is everything the service starts with.
type Data struct {
	Members    []models.BoardMember
	Meetings   []models.Meeting
	Documents  []models.Document
	Compliance []models.ComplianceItem
	Tenders    []models.Tender
}

type file struct {
	Members    []models.BoardMember    `yaml:"members"`
	Meetings   []models.Meeting        `yaml:"meetings"`
	Documents  []models.Document       `yaml:"documents"`
	Compliance []models.ComplianceItem `yaml:"compliance"`
	Tenders    []tender                `yaml:"tenders"`
}

// tender mirrors models.Tender with its dates given as day offsets from today.
type tender struct {
	ID             string                  `yaml:"id"`
	Title          string                  `yaml:"title"`
	Description    string                  `yaml:"description"`
	PublishOffset  int                     `yaml:"publish_offset"`
	ClosingOffset  int                     `yaml:"closing_offset"`
	Status         string                  `yaml:"status"`
	Category       string                  `yaml:"category"`
	EstimatedValue string                  `yaml:"estimated_value"`
	Location       string                  `yaml:"location"`
	ContactPerson  string                  `yaml:"contact_person"`
	ContactEmail   string                  `yaml:"contact_email"`
	Documents      []models.TenderDocument `yaml:"documents"`
	Requirements   []string                `yaml:"requirements"`
	IsNew          bool                    `yaml:"is_new"`
	IsViewed       bool                    `yaml:"is_viewed"`
}

func (t tender) resolve(now time.Time) models.Tender {
	return models.Tender{
		ID:             t.ID,
		Title:          t.Title,
		Description:    t.Description,
		PublishDate:    dates.Offset(now, t.PublishOffset),
		ClosingDate:    dates.Offset(now, t.ClosingOffset),
		Status:         t.Status,
		Category:       t.Category,
		EstimatedValue: t.EstimatedValue,
		Location:       t.Location,
		ContactPerson:  t.ContactPerson,
		ContactEmail:   t.ContactEmail,
		Documents:      t.Documents,
		Requirements:   t.Requirements,
		IsNew:          t.IsNew,
		IsViewed:       t.IsViewed,
	}
}

// Load reads seed data from path, or the embedded data set when path is
// empty, and validates it. Tender dates are resolved against now.
func Load(path string, now time.Time) (Data, error) {
	raw := embedded
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Data{}, fmt.Errorf("failed to read seed file: %w", err)
		}
		raw = b
	}
	return Parse(raw, now)
}

// Parse decodes and validates a YAML seed document.
func Parse(raw []byte, now time.Time) (Data, error) {
	var f file
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return Data{}, fmt.Errorf("%w: %v", ErrInvalidSeed, err)
	}

	data := Data{
		Members:    f.Members,
		Meetings:   f.Meetings,
		Documents:  f.Documents,
		Compliance: f.Compliance,
		Tenders:    make([]models.Tender, len(f.Tenders)),
	}
	for i, t := range f.Tenders {
		data.Tenders[i] = t.resolve(now)
	}

	if err := Validate(data); err != nil {
		return Data{}, err
	}
	return data, nil
}

// Validate checks referential integrity and that every tally agrees with
// its recorded votes.
func Validate(data Data) error {
	members := make(map[string]bool, len(data.Members))
	for _, m := range data.Members {
		if m.ID == "" {
			return fmt.Errorf("%w: member without id", ErrInvalidSeed)
		}
		if members[m.ID] {
			return fmt.Errorf("%w: duplicate member %s", ErrInvalidSeed, m.ID)
		}
		members[m.ID] = true
	}

	meetings := make(map[string]bool, len(data.Meetings))
	decisions := make(map[string]bool)
	for _, m := range data.Meetings {
		if meetings[m.ID] {
			return fmt.Errorf("%w: duplicate meeting %s", ErrInvalidSeed, m.ID)
		}
		meetings[m.ID] = true

		if !dates.Valid(m.Date) {
			return fmt.Errorf("%w: meeting %s has invalid date %q", ErrInvalidSeed, m.ID, m.Date)
		}
		switch m.Status {
		case models.MeetingConfirmed, models.MeetingTentative, models.MeetingCanceled:
		default:
			return fmt.Errorf("%w: meeting %s has unknown status %q", ErrInvalidSeed, m.ID, m.Status)
		}

		for _, a := range m.Attendees {
			if !members[a.MemberID] {
				return fmt.Errorf("%w: meeting %s lists unknown attendee %s", ErrInvalidSeed, m.ID, a.MemberID)
			}
		}

		for _, d := range m.Decisions {
			if decisions[d.ID] {
				return fmt.Errorf("%w: duplicate decision %s", ErrInvalidSeed, d.ID)
			}
			decisions[d.ID] = true

			if !d.Outcome.Valid() {
				return fmt.Errorf("%w: decision %s has unknown outcome %q", ErrInvalidSeed, d.ID, d.Outcome)
			}
			if err := validateTally(d, members); err != nil {
				return err
			}
		}
	}

	for _, doc := range data.Documents {
		if doc.MeetingID != nil && !meetings[*doc.MeetingID] {
			return fmt.Errorf("%w: document %s linked to unknown meeting %s", ErrInvalidSeed, doc.ID, *doc.MeetingID)
		}
	}
	return nil
}

func validateTally(d models.Decision, members map[string]bool) error {
	if d.Voting == nil {
		return nil
	}
	if d.Voting.Status != models.VotingOpen && d.Voting.Status != models.VotingClosed {
		return fmt.Errorf("%w: decision %s has unknown voting status %q", ErrInvalidSeed, d.ID, d.Voting.Status)
	}
	seen := make(map[string]bool, len(d.Voting.Votes))
	for _, v := range d.Voting.Votes {
		if !members[v.MemberID] {
			return fmt.Errorf("%w: decision %s has a vote from unknown member %s", ErrInvalidSeed, d.ID, v.MemberID)
		}
		if seen[v.MemberID] {
			return fmt.Errorf("%w: decision %s lists member %s twice", ErrInvalidSeed, d.ID, v.MemberID)
		}
		seen[v.MemberID] = true
	}
	if !ledger.Consistent(d.Voting) {
		return fmt.Errorf("%w: decision %s counters do not match its votes", ErrInvalidSeed, d.ID)
	}
	return nil
}
