package webserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Hitanshuser50/daoconnect/src/governance"
)

type Votes struct{ svc *governance.Service }

func NewVotes(svc *governance.Service) Votes { return Votes{svc: svc} }

func (v Votes) Cast(c *gin.Context) {
	var req struct {
		ProposalID string `json:"proposalId" binding:"required"`
		Choice     string `json:"vote" binding:"required,oneof=for against abstain"`
		Weight     uint64 `json:"weight"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	tally, err := v.svc.SubmitVote(c, governance.SubmitVoteRequest{
		ProposalID:   req.ProposalID,
		VoterAddress: c.GetString("addr"),
		Choice:       req.Choice,
		Weight:       req.Weight,
	})
	switch {
	case errors.Is(err, governance.ErrDuplicateVote):
		c.JSON(http.StatusConflict, gin.H{"err": "already voted on this proposal"})
		return
	case errors.Is(err, governance.ErrEntityNotFound):
		c.JSON(http.StatusNotFound, gin.H{"err": "proposal not found"})
		return
	case err != nil:
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, tally)
}

func (v Votes) Summary(c *gin.Context) {
	tally, err := v.svc.Store().Tally(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"err": "proposal not found"})
		return
	}
	c.JSON(http.StatusOK, tally)
}

func (v Votes) List(c *gin.Context) {
	c.JSON(http.StatusOK, v.svc.Store().VotesByProposal(c.Param("id")))
}
