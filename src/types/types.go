package types

import "time"

// DAO lifecycle states
const (
	DAOStatusPending  = "Pending"
	DAOStatusActive   = "Active"
	DAOStatusInactive = "Inactive"
)

// Voting mechanisms
const (
	MechanismTokenWeighted = "Token-weighted"
	MechanismQuadratic     = "Quadratic"
	MechanismEqual         = "Equal"
)

// Proposal states
const (
	ProposalStatusPending = "Pending"
	ProposalStatusActive  = "Active"
	ProposalStatusPassed  = "Passed"
	ProposalStatusFailed  = "Failed"
)

// Vote choices
const (
	VoteFor     = "for"
	VoteAgainst = "against"
	VoteAbstain = "abstain"
)

// Risk levels
const (
	RiskLow    = "Low"
	RiskMedium = "Medium"
	RiskHigh   = "High"
)

// User is created on the first action by a previously unseen address.
type User struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	Address    string    `gorm:"uniqueIndex;size:64;not null" json:"address"`
	Reputation int       `gorm:"default:0" json:"reputation"`
	IsVerified bool      `gorm:"default:false" json:"isVerified"`
	JoinedAt   time.Time `json:"joinedAt"`
}

type DAO struct {
	ID              string    `gorm:"primaryKey;size:36" json:"id"`
	Name            string    `gorm:"size:255;not null" json:"name"`
	Description     string    `gorm:"type:text" json:"description"`
	Category        string    `gorm:"size:64" json:"category"`
	Members         int       `gorm:"default:1" json:"members"`
	Treasury        string    `gorm:"size:64" json:"treasury"`
	FounderID       string    `gorm:"index;size:36;not null" json:"founderId"`
	Status          string    `gorm:"size:32" json:"status"`
	VotingMechanism string    `gorm:"size:32" json:"votingMechanism"`
	Quorum          string    `gorm:"size:16" json:"quorum"`
	Tags            []string  `gorm:"serializer:json" json:"tags"`
	CreatedAt       time.Time `json:"createdAt"`
}

// Proposal tallies are mutated only through vote submission; everything else
// is immutable after creation.
type Proposal struct {
	ID              string    `gorm:"primaryKey;size:36" json:"id"`
	DAOID           string    `gorm:"index;size:36;not null" json:"daoId"`
	Title           string    `gorm:"size:255;not null" json:"title"`
	Description     string    `gorm:"type:text" json:"description"`
	Category        string    `gorm:"size:64" json:"category"`
	Status          string    `gorm:"size:32" json:"status"`
	AuthorID        string    `gorm:"index;size:36;not null" json:"authorId"`
	VotesFor        uint64    `gorm:"default:0" json:"votesFor"`
	VotesAgainst    uint64    `gorm:"default:0" json:"votesAgainst"`
	TotalVotes      uint64    `gorm:"default:0" json:"totalVotes"`
	EndDate         time.Time `json:"endDate"`
	FundingRequired string    `gorm:"size:64" json:"fundingRequired,omitempty"`
	RiskLevel       string    `gorm:"size:16" json:"riskLevel"`
	CreatedAt       time.Time `json:"createdAt"`
}

// Vote is immutable once cast. At most one vote may exist per
// (ProposalID, UserID) pair.
type Vote struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	ProposalID string    `gorm:"index;size:36;not null;uniqueIndex:idx_vote_unique,priority:1" json:"proposalId"`
	UserID     string    `gorm:"size:36;not null;uniqueIndex:idx_vote_unique,priority:2" json:"userId"`
	Choice     string    `gorm:"size:16;not null" json:"vote"`
	Weight     uint64    `gorm:"default:1" json:"weight"`
	CreatedAt  time.Time `json:"timestamp"`
}

// Tally is the voting summary returned after a vote is accepted.
type Tally struct {
	ProposalID   string `json:"proposalId"`
	VotesFor     uint64 `json:"votesFor"`
	VotesAgainst uint64 `json:"votesAgainst"`
	Abstentions  uint64 `json:"abstentions"`
	TotalVotes   uint64 `json:"totalVotes"`
}
