package governance

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Hitanshuser50/daoconnect/src/data"
	"github.com/Hitanshuser50/daoconnect/src/types"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Service wraps the store with input sanitizing, referential checks, event
// publication and the best-effort MySQL mirror. The in-memory store stays
// authoritative; db and rdb may both be nil.
type Service struct {
	store *Store
	san   *bluemonday.Policy
	db    *gorm.DB
	rdb   *redis.Client
}

func NewService(store *Store, db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		store: store,
		san:   bluemonday.StrictPolicy(),
		db:    db,
		rdb:   rdb,
	}
}

// Store exposes the underlying store for read paths.
func (s *Service) Store() *Store { return s.store }

// EnsureUser resolves an address to a user, creating one on first sight.
func (s *Service) EnsureUser(ctx context.Context, address string) types.User {
	u := s.store.EnsureUser(address)
	s.mirror(&u)
	return u
}

type CreateDAORequest struct {
	Name            string
	Description     string
	Category        string
	Treasury        string
	VotingMechanism string
	Quorum          string
	Tags            []string
	FounderAddress  string
}

func (s *Service) CreateDAO(ctx context.Context, req CreateDAORequest) (types.DAO, error) {
	if req.Name == "" {
		return types.DAO{}, fmt.Errorf("%w: name required", ErrValidation)
	}
	founder := s.store.EnsureUser(req.FounderAddress)

	d := s.store.CreateDAO(types.DAO{
		Name:            s.san.Sanitize(req.Name),
		Description:     s.san.Sanitize(req.Description),
		Category:        req.Category,
		Treasury:        req.Treasury,
		FounderID:       founder.ID,
		VotingMechanism: req.VotingMechanism,
		Quorum:          req.Quorum,
		Tags:            req.Tags,
	})
	s.mirror(&founder, &d)
	s.publish(ctx, map[string]interface{}{
		"type": "dao_created",
		"id":   d.ID,
		"name": d.Name,
	})
	return d, nil
}

// UpdateDAO merges a patch into an existing DAO. Unlike the raw store, a
// missing id is surfaced as ErrEntityNotFound.
func (s *Service) UpdateDAO(ctx context.Context, id string, patch DAOPatch) (types.DAO, error) {
	d := s.store.UpdateDAO(id, patch)
	if d == nil {
		return types.DAO{}, ErrEntityNotFound
	}
	s.mirror(d)
	return *d, nil
}

type CreateProposalRequest struct {
	DAOID           string
	Title           string
	Description     string
	Category        string
	FundingRequired string
	RiskLevel       string
	EndDate         time.Time
	AuthorAddress   string
}

// CreateProposal rejects proposals whose daoId has no matching DAO and whose
// end date is not after creation time.
func (s *Service) CreateProposal(ctx context.Context, req CreateProposalRequest) (types.Proposal, error) {
	if req.Title == "" {
		return types.Proposal{}, fmt.Errorf("%w: title required", ErrValidation)
	}
	if s.store.GetDAO(req.DAOID) == nil {
		return types.Proposal{}, fmt.Errorf("%w: dao %s", ErrEntityNotFound, req.DAOID)
	}
	if !req.EndDate.IsZero() && !req.EndDate.After(time.Now().UTC()) {
		return types.Proposal{}, fmt.Errorf("%w: end date must be in the future", ErrValidation)
	}
	author := s.store.EnsureUser(req.AuthorAddress)

	p := s.store.CreateProposal(types.Proposal{
		DAOID:           req.DAOID,
		Title:           s.san.Sanitize(req.Title),
		Description:     s.san.Sanitize(req.Description),
		Category:        req.Category,
		AuthorID:        author.ID,
		EndDate:         req.EndDate,
		FundingRequired: req.FundingRequired,
		RiskLevel:       req.RiskLevel,
	})
	s.mirror(&author, &p)
	s.publish(ctx, map[string]interface{}{
		"type":  "proposal_created",
		"id":    p.ID,
		"daoId": p.DAOID,
		"title": p.Title,
	})
	return p, nil
}

type SubmitVoteRequest struct {
	ProposalID   string
	VoterAddress string
	Choice       string
	Weight       uint64
}

// SubmitVote casts a vote and returns the updated tally. The store performs
// the duplicate check and the tally update atomically, so two concurrent
// submissions from the same user admit exactly one.
func (s *Service) SubmitVote(ctx context.Context, req SubmitVoteRequest) (types.Tally, error) {
	switch req.Choice {
	case types.VoteFor, types.VoteAgainst, types.VoteAbstain:
	default:
		return types.Tally{}, fmt.Errorf("%w: unknown choice %q", ErrValidation, req.Choice)
	}
	voter := s.store.EnsureUser(req.VoterAddress)

	v, tally, err := s.store.CastVote(types.Vote{
		ProposalID: req.ProposalID,
		UserID:     voter.ID,
		Choice:     req.Choice,
		Weight:     req.Weight,
	})
	if err != nil {
		return types.Tally{}, err
	}
	p := s.store.GetProposal(req.ProposalID)
	s.mirror(&voter, &v, p)
	s.publish(ctx, map[string]interface{}{
		"type":         "vote_cast",
		"proposalId":   v.ProposalID,
		"choice":       v.Choice,
		"votesFor":     tally.VotesFor,
		"votesAgainst": tally.VotesAgainst,
	})
	return tally, nil
}

// CloseExpired transitions proposals past their voting window to Passed or
// Failed and announces the outcome. Called periodically from main.
func (s *Service) CloseExpired(ctx context.Context) {
	now := time.Now().UTC()
	for _, p := range s.store.AllProposals() {
		if p.Status != types.ProposalStatusActive || p.EndDate.After(now) {
			continue
		}
		status := types.ProposalStatusFailed
		if p.VotesFor > p.VotesAgainst {
			status = types.ProposalStatusPassed
		}
		if up := s.store.SetProposalStatus(p.ID, status); up != nil {
			s.mirror(up)
			s.publish(ctx, map[string]interface{}{
				"type":       "proposal_closed",
				"proposalId": up.ID,
				"status":     up.Status,
			})
		}
	}
}

// Rehydrate reloads the mirror tables into the store. No-op without a db.
func (s *Service) Rehydrate() error {
	if s.db == nil {
		return nil
	}
	var (
		users     []types.User
		daos      []types.DAO
		proposals []types.Proposal
		votes     []types.Vote
	)
	if err := s.db.Order("joined_at").Find(&users).Error; err != nil {
		return err
	}
	if err := s.db.Order("created_at").Find(&daos).Error; err != nil {
		return err
	}
	if err := s.db.Order("created_at").Find(&proposals).Error; err != nil {
		return err
	}
	if err := s.db.Order("created_at").Find(&votes).Error; err != nil {
		return err
	}
	s.store.Seed(users, daos, proposals, votes)
	return nil
}

// mirror upserts entity rows into MySQL. Failures are logged, never fatal;
// the in-memory copy remains the source of truth.
func (s *Service) mirror(rows ...interface{}) {
	if s.db == nil {
		return
	}
	for _, row := range rows {
		if row == nil {
			continue
		}
		if err := s.db.Save(row).Error; err != nil {
			log.Printf("mirror: %v", err)
		}
	}
}

func (s *Service) publish(ctx context.Context, payload map[string]interface{}) {
	if s.rdb == nil {
		return
	}
	if err := data.PublishEvent(ctx, s.rdb, payload); err != nil {
		log.Printf("publish event: %v", err)
	}
}
